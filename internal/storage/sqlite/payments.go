package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/penaltybox/penaltybox/internal/models"
	"github.com/penaltybox/penaltybox/internal/storage"
)

const paymentColumns = `id, user_id, amount, method, reference, note, status, reviewed_by, reviewed_at, created_at`

// CreatePayment persists a new payment with status PENDING_APPROVAL.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}
	if payment.Method == "" {
		payment.Method = models.PaymentCash
	}
	payment.Status = models.PaymentPendingApproval

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.UserID, payment.Amount, payment.Method,
		nullable(payment.Reference), nullable(payment.Note), payment.Status,
		nullable(payment.ReviewedBy), nullTime(payment.ReviewedAt),
		payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// ApplyPaymentReview commits a review decision on a payment. The update
// is conditional on status = PENDING_APPROVAL; a losing concurrent
// reviewer gets models.ErrConflict.
func (s *SQLiteStore) ApplyPaymentReview(ctx context.Context, review storage.PaymentReview) (*models.Payment, error) {
	status := models.PaymentDeclined
	if review.Approve {
		status = models.PaymentApproved
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE payments SET status = ?, reviewed_by = ?, reviewed_at = ?
		 WHERE id = ? AND status = ?`,
		status, review.ReviewerID, review.At,
		review.PaymentID, models.PaymentPendingApproval,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		var current models.PaymentStatus
		err := s.db.QueryRowContext(ctx,
			`SELECT status FROM payments WHERE id = ?`, review.PaymentID,
		).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment %s: %w", review.PaymentID, models.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get payment status: %w", err)
		}
		return nil, fmt.Errorf("payment %s already reviewed (%s): %w",
			review.PaymentID, current, models.ErrConflict)
	}

	return s.GetPayment(ctx, review.PaymentID)
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id,
	)

	payment, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return payment, nil
}

// ListUserPayments returns a user's payments, newest first.
func (s *SQLiteStore) ListUserPayments(ctx context.Context, userID string) ([]*models.Payment, error) {
	return s.listPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id = ? ORDER BY created_at DESC, id`,
		userID,
	)
}

// ListPendingPayments returns all payments awaiting review, oldest first.
func (s *SQLiteStore) ListPendingPayments(ctx context.Context) ([]*models.Payment, error) {
	return s.listPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE status = ? ORDER BY created_at, id`,
		models.PaymentPendingApproval,
	)
}

func (s *SQLiteStore) listPayments(ctx context.Context, query string, args ...interface{}) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	return payments, nil
}

// scanPayment reads one payment row, folding NULLs into zero values.
func scanPayment(scan func(...interface{}) error) (*models.Payment, error) {
	payment := &models.Payment{}
	var reference, note, reviewedBy sql.NullString
	var reviewedAt sql.NullInt64

	err := scan(
		&payment.ID, &payment.UserID, &payment.Amount, &payment.Method,
		&reference, &note, &payment.Status, &reviewedBy, &reviewedAt,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	payment.Reference = reference.String
	payment.Note = note.String
	payment.ReviewedBy = reviewedBy.String
	payment.ReviewedAt = reviewedAt.Int64
	return payment, nil
}
