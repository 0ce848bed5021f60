package database

import (
	"database/sql"
	"fmt"
	"strings"

	"basil/internal/models"
	"basil/internal/pricing"
)

// GetActiveCart returns the user's cart-status order with its lines, or nil
// when the user has no cart.
func GetActiveCart(db *sql.DB, userID int) (*models.Order, error) {
	order, err := getCartOrder(db, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	items, err := getOrderItems(db, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// EnsureActiveCart returns the user's cart, creating one if needed. The
// partial unique index on (user_id, status='cart') makes the create race
// safe: the loser of a concurrent insert re-reads the winner's row.
func EnsureActiveCart(db *sql.DB, userID int) (*models.Order, error) {
	order, err := getCartOrder(db, userID)
	if err == nil {
		return order, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	orderNumber, err := generateOrderNumber()
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO orders (order_number, user_id, status)
		VALUES (?, ?, ?)
	`

	_, err = db.Exec(query, orderNumber, userID, models.OrderStatusCart)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			order, retryErr := getCartOrder(db, userID)
			if retryErr != nil {
				return nil, fmt.Errorf("failed to query cart after insert conflict: %w", retryErr)
			}
			return order, nil
		}
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	order, err = getCartOrder(db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query created cart: %w", err)
	}

	return order, nil
}

// AddCartItem adds a menu item to the user's cart. A line for the same menu
// item increments its quantity instead of creating a duplicate row.
func AddCartItem(db *sql.DB, userID, menuItemID, quantity int, customizations string) (*models.Order, error) {
	menuItem, err := GetMenuItem(db, menuItemID)
	if err != nil {
		return nil, err
	}
	if !menuItem.Available {
		return nil, fmt.Errorf("menu item not available")
	}

	cart, err := EnsureActiveCart(db, userID)
	if err != nil {
		return nil, err
	}

	var lineID, existingQty int
	err = db.QueryRow(
		"SELECT id, quantity FROM order_items WHERE order_id = ? AND menu_item_id = ?",
		cart.ID, menuItemID,
	).Scan(&lineID, &existingQty)

	switch {
	case err == sql.ErrNoRows:
		line := pricing.Line{UnitPrice: menuItem.Price, Quantity: quantity}
		_, err = db.Exec(`
			INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, total_price, customizations)
			VALUES (?, ?, ?, ?, ?, ?)`,
			cart.ID, menuItemID, quantity, menuItem.Price, line.Total(), customizations,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	default:
		newQty := existingQty + quantity
		line := pricing.Line{UnitPrice: menuItem.Price, Quantity: newQty}
		_, err = db.Exec(
			"UPDATE order_items SET quantity = ?, total_price = ? WHERE id = ?",
			newQty, line.Total(), lineID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	if err := refreshCartTotals(db, cart.ID); err != nil {
		return nil, err
	}

	return GetActiveCart(db, userID)
}

// UpdateCartItem changes a cart line's quantity.
func UpdateCartItem(db *sql.DB, userID, cartItemID, quantity int) (*models.Order, error) {
	cart, orderItem, err := findCartItem(db, userID, cartItemID)
	if err != nil {
		return nil, err
	}

	line := pricing.Line{UnitPrice: orderItem.UnitPrice, Quantity: quantity}
	_, err = db.Exec(
		"UPDATE order_items SET quantity = ?, total_price = ? WHERE id = ?",
		quantity, line.Total(), cartItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	if err := refreshCartTotals(db, cart.ID); err != nil {
		return nil, err
	}

	return GetActiveCart(db, userID)
}

// RemoveCartItem deletes a cart line.
func RemoveCartItem(db *sql.DB, userID, cartItemID int) (*models.Order, error) {
	cart, _, err := findCartItem(db, userID, cartItemID)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("DELETE FROM order_items WHERE id = ?", cartItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	if err := refreshCartTotals(db, cart.ID); err != nil {
		return nil, err
	}

	return GetActiveCart(db, userID)
}

// SetCartGuestCount records the expected guest count on the cart, which
// drives the logistics fee.
func SetCartGuestCount(db *sql.DB, userID, guests int) (*models.Order, error) {
	cart, err := EnsureActiveCart(db, userID)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(
		"UPDATE orders SET guest_count = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		guests, cart.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update guest count: %w", err)
	}

	if err := refreshCartTotals(db, cart.ID); err != nil {
		return nil, err
	}

	return GetActiveCart(db, userID)
}

// refreshCartTotals recomputes the cart's money columns from its lines via
// the pricing package, keeping the stored totals and the quote identity in
// lockstep.
func refreshCartTotals(db *sql.DB, orderID int) error {
	var guests int
	err := db.QueryRow("SELECT guest_count FROM orders WHERE id = ?", orderID).Scan(&guests)
	if err != nil {
		return fmt.Errorf("failed to query guest count: %w", err)
	}

	rows, err := db.Query("SELECT unit_price, quantity FROM order_items WHERE order_id = ?", orderID)
	if err != nil {
		return fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []pricing.Line
	for rows.Next() {
		var line pricing.Line
		if err := rows.Scan(&line.UnitPrice, &line.Quantity); err != nil {
			return fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating cart lines: %w", err)
	}

	quote := pricing.Calculate(lines, guests)

	_, err = db.Exec(`
		UPDATE orders
		SET subtotal = ?, logistics_fee = ?, service_retainer = ?, tax_amount = ?,
		    total_amount = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		quote.MenuSubtotal, quote.LogisticsFee, quote.ServiceRetainer, quote.Taxes,
		quote.GrandTotal, orderID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart totals: %w", err)
	}

	return nil
}

func getCartOrder(db *sql.DB, userID int) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, order_number, user_id, status, guest_count, subtotal, logistics_fee,
		       service_retainer, tax_amount, discount_amount, total_amount, created_at, updated_at
		FROM orders
		WHERE user_id = ? AND status = ?
	`

	err := db.QueryRow(query, userID, models.OrderStatusCart).Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.Status,
		&order.GuestCount,
		&order.Subtotal,
		&order.LogisticsFee,
		&order.ServiceRetainer,
		&order.TaxAmount,
		&order.DiscountAmount,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func findCartItem(db *sql.DB, userID, cartItemID int) (*models.Order, *models.OrderItem, error) {
	cart, err := getCartOrder(db, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, fmt.Errorf("cart item not found")
		}
		return nil, nil, fmt.Errorf("failed to query cart: %w", err)
	}

	item := &models.OrderItem{}
	err = db.QueryRow(
		"SELECT id, order_id, menu_item_id, quantity, unit_price, total_price FROM order_items WHERE id = ? AND order_id = ?",
		cartItemID, cart.ID,
	).Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.UnitPrice, &item.TotalPrice)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, fmt.Errorf("cart item not found")
		}
		return nil, nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return cart, item, nil
}

func getOrderItems(db *sql.DB, orderID int) ([]models.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.unit_price, oi.total_price,
		       COALESCE(oi.customizations, ''), oi.created_at,
		       m.id, m.name, m.price, m.category
		FROM order_items oi
		LEFT JOIN menu_items m ON oi.menu_item_id = m.id
		WHERE oi.order_id = ?
		ORDER BY oi.created_at, oi.id
	`

	rows, err := db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		var menuID sql.NullInt64
		var menuName, menuCategory sql.NullString
		var menuPrice sql.NullFloat64

		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.MenuItemID,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.Customizations,
			&item.CreatedAt,
			&menuID,
			&menuName,
			&menuPrice,
			&menuCategory,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		if menuID.Valid {
			item.MenuItem = &models.MenuItem{
				ID:       int(menuID.Int64),
				Name:     menuName.String,
				Price:    menuPrice.Float64,
				Category: menuCategory.String,
			}
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}
