package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/electricblue/paxum-gateway/internal/domain"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) Insert(o *domain.Order) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO orders
		(id, item_name, total, currency, status, transaction_id, created_at, paid_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		o.ID, o.ItemName, o.Total, o.Currency, string(o.Status),
		nullableString(o.TransactionID), o.CreatedAt.Format(time.RFC3339),
		formatNullableTime(o.PaidAt),
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) BulkInsert(orders []domain.Order) (int, error) {
	sqlTx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.Prepare(
		`INSERT OR IGNORE INTO orders
		(id, item_name, total, currency, status, transaction_id, created_at, paid_at)
		VALUES (?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range orders {
		o := &orders[i]
		res, err := stmt.Exec(
			o.ID, o.ItemName, o.Total, o.Currency, string(o.Status),
			nullableString(o.TransactionID), o.CreatedAt.Format(time.RFC3339),
			formatNullableTime(o.PaidAt),
		)
		if err != nil {
			return inserted, fmt.Errorf("insert row %d: %w", i, err)
		}
		ra, _ := res.RowsAffected()
		inserted += int(ra)
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func (r *OrderRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&count)
	return count, err
}

func (r *OrderRepo) GetByID(id string) (*domain.Order, error) {
	row := r.db.QueryRow("SELECT * FROM orders WHERE id = ?", id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	return o, err
}

// UpdateStatus sets the order status without touching payment fields.
func (r *OrderRepo) UpdateStatus(id string, status domain.OrderStatus) error {
	res, err := r.db.Exec("UPDATE orders SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// CompletePayment marks an order paid with the processor transaction id.
// The update is conditional on the order not already being completed, so a
// redelivered notification cannot apply payment twice. It reports whether
// the completion was applied; false with a nil error means the order was
// already completed.
func (r *OrderRepo) CompletePayment(orderID, txnID string) (bool, error) {
	res, err := r.db.Exec(
		`UPDATE orders SET status = ?, transaction_id = ?, paid_at = ?
		 WHERE id = ? AND status != ?`,
		string(domain.StatusCompleted), txnID, time.Now().Format(time.RFC3339),
		orderID, string(domain.StatusCompleted),
	)
	if err != nil {
		return false, fmt.Errorf("complete payment: %w", err)
	}

	ra, _ := res.RowsAffected()
	if ra > 0 {
		return true, nil
	}

	// Nothing updated: either the order is already completed or it vanished.
	if _, err := r.GetByID(orderID); err != nil {
		return false, err
	}
	return false, nil
}

// --- helpers ---

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var status, createdAt string
	var txnIDNull, paidAtNull sql.NullString

	err := row.Scan(
		&o.ID, &o.ItemName, &o.Total, &o.Currency, &status,
		&txnIDNull, &createdAt, &paidAtNull,
	)
	if err != nil {
		return nil, err
	}

	o.Status = domain.OrderStatus(status)
	o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	if txnIDNull.Valid {
		o.TransactionID = txnIDNull.String
	}
	if paidAtNull.Valid {
		t, _ := time.Parse(time.RFC3339, paidAtNull.String)
		o.PaidAt = &t
	}

	return &o, nil
}
