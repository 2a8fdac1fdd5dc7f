package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/electricblue/paxum-gateway/internal/domain"
)

// NotificationRepo keeps a queryable audit copy of every IPN received. The
// append-only file log stays the durable record; this table serves the admin
// listing endpoints.
type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Insert(n *domain.Notification) error {
	var amount any
	if n.Amount != nil {
		amount = *n.Amount
	}
	_, err := r.db.Exec(
		`INSERT INTO ipn_notifications
		(id, transaction_id, item_id, amount, status, currency, exchange_rate,
		 txn_date, txn_type, quantity, shipping, tax, instructions, reference_id,
		 received_at, outcome)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		n.ID, n.TransactionID, n.ItemID, amount, n.Status, n.Currency,
		n.ExchangeRate, n.Date, int(n.Type), n.Quantity, n.Shipping, n.Tax,
		n.Instructions, n.ReferenceID, n.ReceivedAt.Format(time.RFC3339),
		string(n.Outcome),
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

type NotificationFilter struct {
	ItemID  string
	Outcome string
	From    *time.Time
	To      *time.Time
	Page    int
	Limit   int
}

func (r *NotificationRepo) List(f NotificationFilter) ([]domain.Notification, int, error) {
	where, args := buildNotificationWhere(f)

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM ipn_notifications"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	q := "SELECT * FROM ipn_notifications" + where + " ORDER BY received_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		notifications = append(notifications, *n)
	}
	return notifications, total, rows.Err()
}

// GetByItemID returns all notifications recorded against one order.
func (r *NotificationRepo) GetByItemID(itemID string) ([]domain.Notification, error) {
	rows, err := r.db.Query(
		"SELECT * FROM ipn_notifications WHERE item_id = ? ORDER BY received_at DESC",
		itemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

func buildNotificationWhere(f NotificationFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.ItemID != "" {
		clauses = append(clauses, "item_id = ?")
		args = append(args, f.ItemID)
	}
	if f.Outcome != "" {
		clauses = append(clauses, "outcome = ?")
		args = append(args, f.Outcome)
	}
	if f.From != nil {
		clauses = append(clauses, "received_at >= ?")
		args = append(args, f.From.Format(time.RFC3339))
	}
	if f.To != nil {
		clauses = append(clauses, "received_at <= ?")
		args = append(args, f.To.Format(time.RFC3339))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanNotification(rows *sql.Rows) (*domain.Notification, error) {
	var n domain.Notification
	var amountNull sql.NullFloat64
	var txnType int
	var receivedAt, outcome string

	err := rows.Scan(
		&n.ID, &n.TransactionID, &n.ItemID, &amountNull, &n.Status, &n.Currency,
		&n.ExchangeRate, &n.Date, &txnType, &n.Quantity, &n.Shipping, &n.Tax,
		&n.Instructions, &n.ReferenceID, &receivedAt, &outcome,
	)
	if err != nil {
		return nil, err
	}

	if amountNull.Valid {
		v := amountNull.Float64
		n.Amount = &v
	}
	n.Type = domain.TransactionType(txnType)
	n.ReceivedAt, _ = time.Parse(time.RFC3339, receivedAt)
	n.Outcome = domain.Outcome(outcome)

	return &n, nil
}
