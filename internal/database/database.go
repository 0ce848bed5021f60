package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

func Initialize(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func Migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			expires_at DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			price REAL NOT NULL DEFAULT 0,
			category TEXT NOT NULL,
			dietary_type TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS meal_plans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			occasion TEXT NOT NULL,
			price_per_guest REAL NOT NULL DEFAULT 0,
			dietary_type TEXT,
			items TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_number TEXT UNIQUE NOT NULL,
			user_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'cart',
			guest_count INTEGER NOT NULL DEFAULT 0,
			subtotal INTEGER NOT NULL DEFAULT 0,
			logistics_fee INTEGER NOT NULL DEFAULT 0,
			service_retainer INTEGER NOT NULL DEFAULT 0,
			tax_amount INTEGER NOT NULL DEFAULT 0,
			discount_amount INTEGER NOT NULL DEFAULT 0,
			total_amount INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER NOT NULL,
			menu_item_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			unit_price REAL NOT NULL DEFAULT 0,
			total_price INTEGER NOT NULL DEFAULT 0,
			customizations TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
			FOREIGN KEY (menu_item_id) REFERENCES menu_items(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items(category)`,
		`CREATE INDEX IF NOT EXISTS idx_meal_plans_occasion ON meal_plans(occasion)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_menu_item_id ON order_items(menu_item_id)`,
		// A user can hold at most one cart-status order at a time. The partial
		// unique index closes the race where two concurrent add-to-cart calls
		// both see no cart and insert one each.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_active_cart ON orders(user_id) WHERE status = 'cart'`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	// Handle existing database schema updates
	if err := addOrderIdempotencyColumn(db); err != nil {
		return fmt.Errorf("failed to add idempotency_key column: %w", err)
	}

	if err := addMenuItemAvailableColumn(db); err != nil {
		return fmt.Errorf("failed to add available column: %w", err)
	}

	return nil
}

func addOrderIdempotencyColumn(db *sql.DB) error {
	// Check if idempotency_key column exists
	rows, err := db.Query("PRAGMA table_info(orders)")
	if err != nil {
		return err
	}
	defer rows.Close()

	hasIdempotencyKey := false
	for rows.Next() {
		var cid int
		var name, dataType string
		var notNull, dfltValue, pk interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dfltValue, &pk); err != nil {
			continue
		}
		if name == "idempotency_key" {
			hasIdempotencyKey = true
			break
		}
	}

	if !hasIdempotencyKey {
		_, err = db.Exec("ALTER TABLE orders ADD COLUMN idempotency_key TEXT")
		if err != nil {
			return err
		}
	}

	// Unique per user and key so a retried submission lands on the same row
	// without one customer's key blocking another's. Earlier schemas indexed
	// the key globally; drop that index before creating the scoped one.
	_, err = db.Exec(`DROP INDEX IF EXISTS idx_orders_idempotency_key`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_user_idempotency_key
		ON orders(user_id, idempotency_key) WHERE idempotency_key IS NOT NULL AND idempotency_key != ''`)
	return err
}

func addMenuItemAvailableColumn(db *sql.DB) error {
	// Check if available column exists
	rows, err := db.Query("PRAGMA table_info(menu_items)")
	if err != nil {
		return err
	}
	defer rows.Close()

	hasAvailable := false
	for rows.Next() {
		var cid int
		var name, dataType string
		var notNull, dfltValue, pk interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dfltValue, &pk); err != nil {
			continue
		}
		if name == "available" {
			hasAvailable = true
			break
		}
	}

	if !hasAvailable {
		_, err = db.Exec("ALTER TABLE menu_items ADD COLUMN available BOOLEAN DEFAULT TRUE")
		if err != nil {
			return err
		}
	}

	return nil
}
