package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"basil/internal/models"
)

// MenuFilter narrows menu listings; zero values mean no filtering.
type MenuFilter struct {
	Category      string
	DietaryType   string
	AvailableOnly bool
}

func GetMenuItems(db *sql.DB, filter MenuFilter) ([]models.MenuItem, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), price, category, COALESCE(dietary_type, ''),
		       COALESCE(available, true), created_at, updated_at
		FROM menu_items
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.DietaryType != "" {
		query += " AND dietary_type = ?"
		args = append(args, filter.DietaryType)
	}
	if filter.AvailableOnly {
		query += " AND COALESCE(available, true) = true"
	}
	query += " ORDER BY category, name"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Category,
			&item.DietaryType,
			&item.Available,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}

func GetMenuItem(db *sql.DB, itemID int) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `
		SELECT id, name, COALESCE(description, ''), price, category, COALESCE(dietary_type, ''),
		       COALESCE(available, true), created_at, updated_at
		FROM menu_items
		WHERE id = ?
	`

	err := db.QueryRow(query, itemID).Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Category,
		&item.DietaryType,
		&item.Available,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("menu item not found")
		}
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	return item, nil
}

func CreateMenuItem(db *sql.DB, item models.MenuItem) (*models.MenuItem, error) {
	query := `
		INSERT INTO menu_items (name, description, price, category, dietary_type, available)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query, item.Name, item.Description, item.Price, item.Category, item.DietaryType, item.Available)
	if err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item ID: %w", err)
	}

	item.ID = int(id)
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()

	return &item, nil
}

func UpdateMenuItem(db *sql.DB, itemID int, item models.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = ?, description = ?, price = ?, category = ?, dietary_type = ?, available = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := db.Exec(query, item.Name, item.Description, item.Price, item.Category, item.DietaryType, item.Available, itemID)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("menu item not found")
	}

	return nil
}

func DeleteMenuItem(db *sql.DB, itemID int) error {
	result, err := db.Exec("DELETE FROM menu_items WHERE id = ?", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("menu item not found")
	}

	return nil
}

func GetMealPlans(db *sql.DB, occasion, dietaryType string) ([]models.MealPlan, error) {
	query := `
		SELECT id, name, occasion, price_per_guest, COALESCE(dietary_type, ''), COALESCE(items, '[]'),
		       created_at, updated_at
		FROM meal_plans
		WHERE 1=1
	`
	args := []interface{}{}

	if occasion != "" {
		query += " AND occasion = ?"
		args = append(args, occasion)
	}
	if dietaryType != "" {
		query += " AND dietary_type = ?"
		args = append(args, dietaryType)
	}
	query += " ORDER BY occasion, name"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plans: %w", err)
	}
	defer rows.Close()

	var plans []models.MealPlan
	for rows.Next() {
		plan, err := scanMealPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal plans: %w", err)
	}

	return plans, nil
}

func GetMealPlan(db *sql.DB, planID int) (*models.MealPlan, error) {
	query := `
		SELECT id, name, occasion, price_per_guest, COALESCE(dietary_type, ''), COALESCE(items, '[]'),
		       created_at, updated_at
		FROM meal_plans
		WHERE id = ?
	`

	row := db.QueryRow(query, planID)
	plan, err := scanMealPlan(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("meal plan not found")
		}
		return nil, err
	}

	return plan, nil
}

func CreateMealPlan(db *sql.DB, plan models.MealPlan) (*models.MealPlan, error) {
	itemsJSON, err := json.Marshal(plan.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode meal plan items: %w", err)
	}

	query := `
		INSERT INTO meal_plans (name, occasion, price_per_guest, dietary_type, items)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query, plan.Name, plan.Occasion, plan.PricePerGuest, plan.DietaryType, string(itemsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create meal plan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get meal plan ID: %w", err)
	}

	plan.ID = int(id)
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()

	return &plan, nil
}

func UpdateMealPlan(db *sql.DB, planID int, plan models.MealPlan) error {
	itemsJSON, err := json.Marshal(plan.Items)
	if err != nil {
		return fmt.Errorf("failed to encode meal plan items: %w", err)
	}

	query := `
		UPDATE meal_plans
		SET name = ?, occasion = ?, price_per_guest = ?, dietary_type = ?, items = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := db.Exec(query, plan.Name, plan.Occasion, plan.PricePerGuest, plan.DietaryType, string(itemsJSON), planID)
	if err != nil {
		return fmt.Errorf("failed to update meal plan: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("meal plan not found")
	}

	return nil
}

func DeleteMealPlan(db *sql.DB, planID int) error {
	result, err := db.Exec("DELETE FROM meal_plans WHERE id = ?", planID)
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("meal plan not found")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMealPlan(row rowScanner) (*models.MealPlan, error) {
	plan := &models.MealPlan{}
	var itemsJSON string

	err := row.Scan(
		&plan.ID,
		&plan.Name,
		&plan.Occasion,
		&plan.PricePerGuest,
		&plan.DietaryType,
		&itemsJSON,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(itemsJSON), &plan.Items); err != nil {
		return nil, fmt.Errorf("failed to decode meal plan items: %w", err)
	}

	return plan, nil
}
