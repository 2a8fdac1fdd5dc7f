package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/electricblue/paxum-gateway/internal/domain"
)

type RefundRepo struct {
	db *sql.DB
}

func NewRefundRepo(db *sql.DB) *RefundRepo {
	return &RefundRepo{db: db}
}

func (r *RefundRepo) Insert(rf *domain.Refund) error {
	succeeded := 0
	if rf.Succeeded {
		succeeded = 1
	}
	_, err := r.db.Exec(
		`INSERT INTO refunds
		(id, order_id, transaction_id, environment, response_code,
		 response_description, fee, succeeded, requested_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		rf.ID, rf.OrderID, rf.TransactionID, rf.Environment, rf.ResponseCode,
		rf.ResponseDescription, rf.Fee, succeeded, rf.RequestedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert refund: %w", err)
	}
	return nil
}

// GetByOrderID returns refund attempts for an order, newest first.
func (r *RefundRepo) GetByOrderID(orderID string) ([]domain.Refund, error) {
	rows, err := r.db.Query(
		"SELECT * FROM refunds WHERE order_id = ? ORDER BY requested_at DESC",
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refunds []domain.Refund
	for rows.Next() {
		rf, err := scanRefund(rows)
		if err != nil {
			return nil, err
		}
		refunds = append(refunds, *rf)
	}
	return refunds, rows.Err()
}

func scanRefund(rows *sql.Rows) (*domain.Refund, error) {
	var rf domain.Refund
	var succeeded int
	var requestedAt string

	err := rows.Scan(
		&rf.ID, &rf.OrderID, &rf.TransactionID, &rf.Environment,
		&rf.ResponseCode, &rf.ResponseDescription, &rf.Fee, &succeeded,
		&requestedAt,
	)
	if err != nil {
		return nil, err
	}

	rf.Succeeded = succeeded != 0
	rf.RequestedAt, _ = time.Parse(time.RFC3339, requestedAt)

	return &rf, nil
}
