package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/penaltybox/penaltybox/internal/models"
)

// CreateGroup persists a new group and enrolls the creator as its first
// admin in the same transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, creatorID string) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		group.ID, group.Name, nullable(group.Description), group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)`,
		group.ID, creatorID, models.RoleAdmin, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enroll creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	group := &models.Group{}
	var description sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM groups WHERE id = ?`,
		id,
	).Scan(&group.ID, &group.Name, &description, &group.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group.Description = description.String
	return group, nil
}

// ListGroups returns all groups ordered by creation time.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM groups ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var description sql.NullString
		if err := rows.Scan(&group.ID, &group.Name, &description, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.Description = description.String
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}

	return groups, nil
}

// AddGroupMember enrolls a user in a group.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, member *models.GroupMember) error {
	if member.Role == "" {
		member.Role = models.RoleMember
	}
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)`,
		member.GroupID, member.UserID, member.Role, member.JoinedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("user %s already in group %s: %w", member.UserID, member.GroupID, models.ErrConflict)
		}
		return fmt.Errorf("failed to add group member: %w", err)
	}

	return nil
}

// GetGroupRole returns the user's role within a group.
func (s *SQLiteStore) GetGroupRole(ctx context.Context, groupID, userID string) (models.Role, error) {
	var role models.Role
	err := s.db.QueryRowContext(ctx,
		`SELECT role FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&role)

	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("membership of %s in group %s: %w", userID, groupID, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get group role: %w", err)
	}

	return role, nil
}

// ListGroupMembers returns the memberships of a group.
func (s *SQLiteStore) ListGroupMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, user_id, role, joined_at FROM group_members WHERE group_id = ? ORDER BY joined_at, user_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var members []*models.GroupMember
	for rows.Next() {
		member := &models.GroupMember{}
		if err := rows.Scan(&member.GroupID, &member.UserID, &member.Role, &member.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group members: %w", err)
	}

	return members, nil
}
