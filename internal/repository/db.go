package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			item_name TEXT NOT NULL,
			total REAL NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL,
			transaction_id TEXT,
			created_at DATETIME NOT NULL,
			paid_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_transaction_id ON orders(transaction_id)`,

		`CREATE TABLE IF NOT EXISTS ipn_notifications (
			id TEXT PRIMARY KEY,
			transaction_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			amount REAL,
			status TEXT NOT NULL,
			currency TEXT NOT NULL,
			exchange_rate TEXT NOT NULL,
			txn_date TEXT NOT NULL,
			txn_type INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			shipping REAL NOT NULL,
			tax REAL NOT NULL,
			instructions TEXT NOT NULL,
			reference_id TEXT NOT NULL,
			received_at DATETIME NOT NULL,
			outcome TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ipn_notifications_item ON ipn_notifications(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ipn_notifications_txn ON ipn_notifications(transaction_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ipn_notifications_outcome ON ipn_notifications(outcome)`,

		`CREATE TABLE IF NOT EXISTS refunds (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			transaction_id TEXT NOT NULL,
			environment TEXT NOT NULL,
			response_code TEXT NOT NULL,
			response_description TEXT NOT NULL,
			fee TEXT NOT NULL,
			succeeded INTEGER NOT NULL,
			requested_at DATETIME NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refunds_order ON refunds(order_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	return nil
}
