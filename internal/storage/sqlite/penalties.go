package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/penaltybox/penaltybox/internal/models"
)

const penaltyColumns = `id, group_id, user_id, issued_by, rule_id, amount, note, status, settled_by, settled_at, created_at`

// CreatePenalty persists a new penalty with status UNPAID.
func (s *SQLiteStore) CreatePenalty(ctx context.Context, penalty *models.Penalty) error {
	if penalty.ID == "" {
		penalty.ID = uuid.New().String()
	}
	if penalty.CreatedAt == 0 {
		penalty.CreatedAt = time.Now().Unix()
	}
	if penalty.Status == "" {
		penalty.Status = models.PenaltyUnpaid
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO penalties (`+penaltyColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		penalty.ID, penalty.GroupID, penalty.UserID, penalty.IssuedBy,
		nullable(penalty.RuleID), penalty.Amount, nullable(penalty.Note),
		penalty.Status, nullable(penalty.SettledBy), nullTime(penalty.SettledAt),
		penalty.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert penalty: %w", err)
	}

	return nil
}

// GetPenalty retrieves a penalty by ID.
func (s *SQLiteStore) GetPenalty(ctx context.Context, id string) (*models.Penalty, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+penaltyColumns+` FROM penalties WHERE id = ?`, id,
	)

	penalty, err := scanPenalty(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("penalty %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get penalty: %w", err)
	}

	return penalty, nil
}

// ListUserPenalties returns all penalties issued against a user, newest first.
func (s *SQLiteStore) ListUserPenalties(ctx context.Context, userID string) ([]*models.Penalty, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+penaltyColumns+` FROM penalties WHERE user_id = ? ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list penalties: %w", err)
	}
	defer rows.Close()

	var penalties []*models.Penalty
	for rows.Next() {
		penalty, err := scanPenalty(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan penalty: %w", err)
		}
		penalties = append(penalties, penalty)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating penalties: %w", err)
	}

	return penalties, nil
}

// scanPenalty reads one penalty row, folding NULLs into zero values.
func scanPenalty(scan func(...interface{}) error) (*models.Penalty, error) {
	penalty := &models.Penalty{}
	var ruleID, note, settledBy sql.NullString
	var settledAt sql.NullInt64

	err := scan(
		&penalty.ID, &penalty.GroupID, &penalty.UserID, &penalty.IssuedBy,
		&ruleID, &penalty.Amount, &note, &penalty.Status,
		&settledBy, &settledAt, &penalty.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	penalty.RuleID = ruleID.String
	penalty.Note = note.String
	penalty.SettledBy = settledBy.String
	penalty.SettledAt = settledAt.Int64
	return penalty, nil
}
