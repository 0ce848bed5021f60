package database

import (
	"database/sql"
	"fmt"

	"basil/internal/models"
)

type DashboardStats struct {
	TotalUsers      int   `json:"total_users"`
	TotalMenuItems  int   `json:"total_menu_items"`
	TotalMealPlans  int   `json:"total_meal_plans"`
	PendingOrders   int   `json:"pending_orders"`
	ConfirmedOrders int   `json:"confirmed_orders"`
	DeliveredOrders int   `json:"delivered_orders"`
	CancelledOrders int   `json:"cancelled_orders"`
	TotalRevenue    int64 `json:"total_revenue"`
}

type DailyRevenue struct {
	Day     string `json:"day"`
	Orders  int    `json:"orders"`
	Revenue int64  `json:"revenue"`
}

type TopMenuItem struct {
	MenuItemID int    `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Revenue    int64  `json:"revenue"`
}

func GetDashboardStats(db *sql.DB) (*DashboardStats, error) {
	stats := &DashboardStats{}

	err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&stats.TotalUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to get user count: %w", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM menu_items").Scan(&stats.TotalMenuItems)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item count: %w", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM meal_plans").Scan(&stats.TotalMealPlans)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal plan count: %w", err)
	}

	statusCounts := map[string]*int{
		models.OrderStatusPending:   &stats.PendingOrders,
		models.OrderStatusConfirmed: &stats.ConfirmedOrders,
		models.OrderStatusDelivered: &stats.DeliveredOrders,
		models.OrderStatusCancelled: &stats.CancelledOrders,
	}
	for status, dest := range statusCounts {
		err = db.QueryRow("SELECT COUNT(*) FROM orders WHERE status = ?", status).Scan(dest)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s order count: %w", status, err)
		}
	}

	// Revenue counts everything a customer has committed to, cancelled excluded.
	err = db.QueryRow(`
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status IN (?, ?, ?)`,
		models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusDelivered,
	).Scan(&stats.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to get total revenue: %w", err)
	}

	return stats, nil
}

func GetRevenueByDay(db *sql.DB, days int) ([]DailyRevenue, error) {
	query := `
		SELECT DATE(created_at) as day, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status IN (?, ?, ?)
		  AND created_at >= DATE('now', ?)
		GROUP BY DATE(created_at)
		ORDER BY day DESC
	`

	rows, err := db.Query(query,
		models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusDelivered,
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily revenue: %w", err)
	}
	defer rows.Close()

	var results []DailyRevenue
	for rows.Next() {
		var day DailyRevenue
		if err := rows.Scan(&day.Day, &day.Orders, &day.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan daily revenue: %w", err)
		}
		results = append(results, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily revenue: %w", err)
	}

	return results, nil
}

func GetTopMenuItems(db *sql.DB, limit int) ([]TopMenuItem, error) {
	query := `
		SELECT m.id, m.name, COALESCE(SUM(oi.quantity), 0), COALESCE(SUM(oi.total_price), 0)
		FROM order_items oi
		INNER JOIN menu_items m ON oi.menu_item_id = m.id
		INNER JOIN orders o ON oi.order_id = o.id
		WHERE o.status IN (?, ?, ?)
		GROUP BY m.id, m.name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT ?
	`

	rows, err := db.Query(query,
		models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusDelivered,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query top menu items: %w", err)
	}
	defer rows.Close()

	var results []TopMenuItem
	for rows.Next() {
		var item TopMenuItem
		if err := rows.Scan(&item.MenuItemID, &item.Name, &item.Quantity, &item.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan top menu item: %w", err)
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top menu items: %w", err)
	}

	return results, nil
}
