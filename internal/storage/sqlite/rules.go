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

// CreateRule persists a new group rule.
func (s *SQLiteStore) CreateRule(ctx context.Context, rule *models.Rule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	if rule.CreatedAt == 0 {
		rule.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rules (id, group_id, title, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		rule.ID, rule.GroupID, rule.Title, rule.Amount, rule.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert rule: %w", err)
	}

	return nil
}

// GetRule retrieves a rule by ID.
func (s *SQLiteStore) GetRule(ctx context.Context, id string) (*models.Rule, error) {
	rule := &models.Rule{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, title, amount, created_at FROM rules WHERE id = ?`,
		id,
	).Scan(&rule.ID, &rule.GroupID, &rule.Title, &rule.Amount, &rule.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rule %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	return rule, nil
}

// ListGroupRules returns a group's rules ordered by creation time.
func (s *SQLiteStore) ListGroupRules(ctx context.Context, groupID string) ([]*models.Rule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, title, amount, created_at FROM rules WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []*models.Rule
	for rows.Next() {
		rule := &models.Rule{}
		if err := rows.Scan(&rule.ID, &rule.GroupID, &rule.Title, &rule.Amount, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, nil
}

// DeleteRule removes a rule scoped to its group.
func (s *SQLiteStore) DeleteRule(ctx context.Context, groupID, ruleID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM rules WHERE id = ? AND group_id = ?`,
		ruleID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rule %s in group %s: %w", ruleID, groupID, models.ErrNotFound)
	}

	return nil
}
