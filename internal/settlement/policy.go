package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/penaltybox/penaltybox/internal/models"
)

// RoleSource resolves a user's role within a group. Implemented by the
// storage layer.
type RoleSource interface {
	GetGroupRole(ctx context.Context, groupID, userID string) (models.Role, error)
}

// RequireGroupAdmin is the single capability check for group-scoped
// operations (issuing penalties, reviewing proofs, managing members and
// rules). Instance admins pass unconditionally; everyone else needs an
// admin membership in the group.
func RequireGroupAdmin(ctx context.Context, roles RoleSource, actor models.Identity, groupID string) error {
	if actor.Admin {
		return nil
	}

	role, err := roles.GetGroupRole(ctx, groupID, actor.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("user %s is not a member of group %s: %w",
				actor.UserID, groupID, models.ErrPermissionDenied)
		}
		return err
	}
	if role != models.RoleAdmin {
		return fmt.Errorf("user %s is not an admin of group %s: %w",
			actor.UserID, groupID, models.ErrPermissionDenied)
	}

	return nil
}
