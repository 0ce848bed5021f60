package pricing

import (
	"testing"
)

func TestLineTotal(t *testing.T) {
	line := Line{UnitPrice: 500, AddOns: []float64{50, 30}, Quantity: 50}
	if total := line.Total(); total != 29000 {
		t.Errorf("Expected line total 29000, got %d", total)
	}

	zeroQty := Line{UnitPrice: 500, Quantity: 0}
	if total := zeroQty.Total(); total != 0 {
		t.Errorf("Expected 0 for zero quantity, got %d", total)
	}

	negativeQty := Line{UnitPrice: 500, Quantity: -3}
	if total := negativeQty.Total(); total != 0 {
		t.Errorf("Expected 0 for negative quantity, got %d", total)
	}

	missingPrice := Line{Quantity: 10}
	if total := missingPrice.Total(); total != 0 {
		t.Errorf("Expected 0 for missing price, got %d", total)
	}
}

func TestLogisticsFee(t *testing.T) {
	cases := []struct {
		guests int
		want   int64
	}{
		{0, 0},
		{-5, 0},
		{1, 2400},
		{50, 2400},
		{51, 3000},
		{100, 3000},
		{101, 3600},
	}

	for _, tc := range cases {
		if got := LogisticsFee(tc.guests); got != tc.want {
			t.Errorf("LogisticsFee(%d) = %d, want %d", tc.guests, got, tc.want)
		}
	}
}

func TestCalculateWorkedExample(t *testing.T) {
	// 1 line, base 500, add-ons +50 and +30, 50 guests.
	lines := []Line{{UnitPrice: 500, AddOns: []float64{50, 30}, Quantity: 50}}
	quote := Calculate(lines, 50)

	if quote.MenuSubtotal != 29000 {
		t.Errorf("Expected subtotal 29000, got %d", quote.MenuSubtotal)
	}
	if quote.LogisticsFee != 2400 {
		t.Errorf("Expected logistics fee 2400, got %d", quote.LogisticsFee)
	}
	if quote.ServiceRetainer != 870 {
		t.Errorf("Expected service retainer 870, got %d", quote.ServiceRetainer)
	}
	if quote.Taxes != 1614 {
		t.Errorf("Expected taxes 1614, got %d", quote.Taxes)
	}
	if quote.GrandTotal != 33884 {
		t.Errorf("Expected grand total 33884, got %d", quote.GrandTotal)
	}
}

func TestCalculateEmptyCart(t *testing.T) {
	quote := Calculate(nil, 0)

	if quote.MenuSubtotal != 0 || quote.LogisticsFee != 0 || quote.GrandTotal != 0 {
		t.Errorf("Expected all-zero quote for empty cart, got %+v", quote)
	}
}

func TestCalculateIdentity(t *testing.T) {
	carts := []struct {
		lines  []Line
		guests int
	}{
		{[]Line{{UnitPrice: 250, Quantity: 4}}, 20},
		{[]Line{{UnitPrice: 120.5, Quantity: 3}, {UnitPrice: 99.99, AddOns: []float64{10.01}, Quantity: 7}}, 75},
		{[]Line{{UnitPrice: 1, Quantity: 1}}, 1},
		{[]Line{{UnitPrice: 333.33, Quantity: 9}}, 449},
	}

	for _, cart := range carts {
		quote := Calculate(cart.lines, cart.guests)
		sum := quote.MenuSubtotal + quote.LogisticsFee + quote.ServiceRetainer + quote.Taxes
		if quote.GrandTotal != sum {
			t.Errorf("Grand total %d does not equal component sum %d for %+v",
				quote.GrandTotal, sum, cart)
		}
	}
}

func TestCalculateRoundsHalfAwayFromZero(t *testing.T) {
	// Subtotal 32270 with a fee structure forcing taxes of 1613.5 is the
	// boundary case: it must round up to 1614.
	lines := []Line{{UnitPrice: 580, Quantity: 50}}
	quote := Calculate(lines, 50)
	if quote.Taxes != 1614 {
		t.Errorf("Expected taxes 1614 at the .5 boundary, got %d", quote.Taxes)
	}
}
