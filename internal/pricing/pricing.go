// Package pricing is the single source of truth for order money math. Every
// path that prices a cart (the cart quote, checkout, direct order creation)
// goes through Calculate so totals can never drift between endpoints.
package pricing

import (
	"github.com/shopspring/decimal"
)

const (
	logisticsBaseFee    = 1800
	logisticsStepFee    = 600
	logisticsGuestsStep = 50
	serviceRetainerRate = 0.03
	taxRate             = 0.05
)

// Line is one priced cart line: a unit price, optional add-on deltas, and a
// quantity (a guest count for meal-plan packages, a plain quantity for menu
// items).
type Line struct {
	UnitPrice float64
	AddOns    []float64
	Quantity  int
}

// Total returns (unitPrice + sum of add-ons) * quantity, rounded to the
// nearest integer currency unit. Quantities under 1 yield 0; a missing price
// simply contributes 0.
func (l Line) Total() int64 {
	if l.Quantity < 1 {
		return 0
	}

	unit := decimal.NewFromFloat(l.UnitPrice)
	for _, addOn := range l.AddOns {
		unit = unit.Add(decimal.NewFromFloat(addOn))
	}

	return unit.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(0).IntPart()
}

// Quote is a fully aggregated cart: GrandTotal always equals
// MenuSubtotal + LogisticsFee + ServiceRetainer + Taxes.
type Quote struct {
	MenuSubtotal    int64 `json:"menu_subtotal"`
	LogisticsFee    int64 `json:"logistics_fee"`
	ServiceRetainer int64 `json:"service_retainer"`
	Taxes           int64 `json:"taxes"`
	GrandTotal      int64 `json:"grand_total"`
}

// LogisticsFee is a flat base plus a step per started block of 50 guests.
// Guest counts under 1 mean nothing is delivered, so the fee is 0.
func LogisticsFee(guests int) int64 {
	if guests < 1 {
		return 0
	}
	steps := (guests + logisticsGuestsStep - 1) / logisticsGuestsStep
	return int64(logisticsBaseFee + steps*logisticsStepFee)
}

// Calculate aggregates priced lines into a quote. All rounding is to the
// nearest integer currency unit, half away from zero.
func Calculate(lines []Line, guests int) Quote {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.Total()
	}

	fee := LogisticsFee(guests)

	retainer := decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromFloat(serviceRetainerRate)).
		Round(0).IntPart()

	taxes := decimal.NewFromInt(subtotal + fee + retainer).
		Mul(decimal.NewFromFloat(taxRate)).
		Round(0).IntPart()

	return Quote{
		MenuSubtotal:    subtotal,
		LogisticsFee:    fee,
		ServiceRetainer: retainer,
		Taxes:           taxes,
		GrandTotal:      subtotal + fee + retainer + taxes,
	}
}
