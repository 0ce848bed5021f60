package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"basil/internal/models"
	"basil/internal/pricing"

	"github.com/google/uuid"
)

// validTransitions is the order status machine. Checkout drives cart→pending;
// everything after that is an explicit admin action.
var validTransitions = map[string][]string{
	models.OrderStatusCart:      {models.OrderStatusPending},
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusDelivered, models.OrderStatusCancelled},
	models.OrderStatusDelivered: {},
	models.OrderStatusCancelled: {},
}

// CheckoutCart promotes the user's cart to a pending order, attaching the
// contact/event snapshot to the notes blob. The cart's totals were kept
// current by every cart mutation, so checkout only flips status.
func CheckoutCart(db *sql.DB, userID int, notes *models.OrderNotes) (*models.Order, error) {
	cart, err := GetActiveCart(db, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, fmt.Errorf("no active cart")
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	notesJSON, err := json.Marshal(notes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order notes: %w", err)
	}

	result, err := db.Exec(`
		UPDATE orders
		SET status = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`,
		models.OrderStatusPending, string(notesJSON), cart.ID, models.OrderStatusCart,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout cart: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		// A concurrent checkout won; the cart row is no longer a cart.
		return nil, fmt.Errorf("no active cart")
	}

	return GetOrderForUser(db, userID, cart.ID)
}

// DirectOrderInput is the payload for the direct (meal-plan customization)
// checkout path. Selections are repriced server-side; the client's line totals
// are ignored.
type DirectOrderInput struct {
	Selections     []models.SelectionLine
	Contact        models.ContactInfo
	Event          models.EventInfo
	GuestCount     int
	IdempotencyKey string
}

// CreateDirectOrder materializes one pending order from a customization
// payload. When an idempotency key is supplied and an order already carries
// it, that order is returned instead of inserting a duplicate; created
// reports whether a new row was written.
func CreateDirectOrder(db *sql.DB, userID int, input DirectOrderInput) (order *models.Order, created bool, err error) {
	if input.IdempotencyKey != "" {
		existing, err := getOrderByIdempotencyKey(db, userID, input.IdempotencyKey)
		if err != nil && err != sql.ErrNoRows {
			return nil, false, fmt.Errorf("failed to query idempotency key: %w", err)
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	guests := input.GuestCount
	if guests == 0 {
		for _, sel := range input.Selections {
			guests += sel.GuestCount
		}
	}

	lines := make([]pricing.Line, 0, len(input.Selections))
	for i := range input.Selections {
		sel := &input.Selections[i]
		addOns := make([]float64, 0, len(sel.AddOns))
		for _, addOn := range sel.AddOns {
			addOns = append(addOns, addOn.Price)
		}
		line := pricing.Line{UnitPrice: sel.BasePrice, AddOns: addOns, Quantity: sel.GuestCount}
		sel.LineTotal = line.Total()
		lines = append(lines, line)
	}

	quote := pricing.Calculate(lines, guests)

	notes := &models.OrderNotes{
		Contact:    input.Contact,
		Event:      input.Event,
		Selections: input.Selections,
	}
	notesJSON, err := json.Marshal(notes)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode order notes: %w", err)
	}

	orderNumber, err := generateOrderNumber()
	if err != nil {
		return nil, false, err
	}

	query := `
		INSERT INTO orders (order_number, user_id, status, guest_count, subtotal, logistics_fee,
		                    service_retainer, tax_amount, total_amount, notes, idempotency_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query,
		orderNumber, userID, models.OrderStatusPending, guests,
		quote.MenuSubtotal, quote.LogisticsFee, quote.ServiceRetainer, quote.Taxes,
		quote.GrandTotal, string(notesJSON), nullableKey(input.IdempotencyKey),
	)
	if err != nil {
		if input.IdempotencyKey != "" && strings.Contains(err.Error(), "UNIQUE constraint failed") {
			existing, retryErr := getOrderByIdempotencyKey(db, userID, input.IdempotencyKey)
			if retryErr != nil {
				return nil, false, fmt.Errorf("failed to query order after insert conflict: %w", retryErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get order ID: %w", err)
	}

	order, err = GetOrderForUser(db, userID, int(id))
	if err != nil {
		return nil, false, err
	}

	return order, true, nil
}

// GetUserOrders lists the user's submitted orders, newest first. Cart rows
// are excluded; the cart has its own endpoint.
func GetUserOrders(db *sql.DB, userID int) ([]models.Order, error) {
	query := `
		SELECT id, order_number, user_id, status, guest_count, subtotal, logistics_fee,
		       service_retainer, tax_amount, discount_amount, total_amount, COALESCE(notes, ''),
		       created_at, updated_at
		FROM orders
		WHERE user_id = ? AND status != ?
		ORDER BY created_at DESC
	`

	rows, err := db.Query(query, userID, models.OrderStatusCart)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// GetOrderForUser fetches one of the user's orders with its lines.
func GetOrderForUser(db *sql.DB, userID, orderID int) (*models.Order, error) {
	order, err := getOrder(db, "WHERE id = ? AND user_id = ?", orderID, userID)
	if err != nil {
		return nil, err
	}

	items, err := getOrderItems(db, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// GetOrderByID fetches any order with its lines (admin paths).
func GetOrderByID(db *sql.DB, orderID int) (*models.Order, error) {
	order, err := getOrder(db, "WHERE id = ?", orderID)
	if err != nil {
		return nil, err
	}

	items, err := getOrderItems(db, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// ListOrders returns all non-cart orders, optionally filtered by status,
// newest first (admin paths).
func ListOrders(db *sql.DB, status string) ([]models.Order, error) {
	query := `
		SELECT id, order_number, user_id, status, guest_count, subtotal, logistics_fee,
		       service_retainer, tax_amount, discount_amount, total_amount, COALESCE(notes, ''),
		       created_at, updated_at
		FROM orders
		WHERE status != ?
	`
	args := []interface{}{models.OrderStatusCart}

	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// UpdateOrderStatus applies an admin status change, enforcing the status
// machine.
func UpdateOrderStatus(db *sql.DB, orderID int, newStatus string) error {
	var current string
	err := db.QueryRow("SELECT status FROM orders WHERE id = ?", orderID).Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("order not found")
		}
		return fmt.Errorf("failed to query order: %w", err)
	}

	allowed := false
	for _, next := range validTransitions[current] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("invalid status transition from %s to %s", current, newStatus)
	}

	_, err = db.Exec(
		"UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		newStatus, orderID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}

// DeleteOrder removes an order and, via the cascade, its lines (admin paths).
func DeleteOrder(db *sql.DB, orderID int) error {
	result, err := db.Exec("DELETE FROM orders WHERE id = ?", orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("order not found")
	}

	return nil
}

func generateOrderNumber() (string, error) {
	id := uuid.New().String()
	return fmt.Sprintf("BSL-%s-%s", time.Now().Format("20060102"), strings.ToUpper(id[:8])), nil
}

func nullableKey(key string) interface{} {
	if key == "" {
		return nil
	}
	return key
}

func getOrder(db *sql.DB, where string, args ...interface{}) (*models.Order, error) {
	query := `
		SELECT id, order_number, user_id, status, guest_count, subtotal, logistics_fee,
		       service_retainer, tax_amount, discount_amount, total_amount, COALESCE(notes, ''),
		       created_at, updated_at
		FROM orders
	` + where

	order := &models.Order{}
	var notesJSON string

	err := db.QueryRow(query, args...).Scan(
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
		&notesJSON,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if notesJSON != "" {
		if err := json.Unmarshal([]byte(notesJSON), &order.Notes); err != nil {
			return nil, fmt.Errorf("failed to decode order notes: %w", err)
		}
	}

	return order, nil
}

func getOrderByIdempotencyKey(db *sql.DB, userID int, key string) (*models.Order, error) {
	order, err := getOrder(db, "WHERE user_id = ? AND idempotency_key = ?", userID, key)
	if err != nil {
		if strings.Contains(err.Error(), "order not found") {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return order, nil
}

func scanOrders(rows *sql.Rows) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		var order models.Order
		var notesJSON string

		err := rows.Scan(
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
			&notesJSON,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		if notesJSON != "" {
			if err := json.Unmarshal([]byte(notesJSON), &order.Notes); err != nil {
				return nil, fmt.Errorf("failed to decode order notes: %w", err)
			}
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
