// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/penaltybox/penaltybox/internal/models"
)

// ProofReview is the transactional command applied when an admin reviews
// a proof. The store must update the proof and its penalty together or
// not at all.
type ProofReview struct {
	ProofID    string
	ReviewerID string
	Approve    bool
	Note       string
	At         int64
}

// PaymentReview is the transactional command applied when an admin
// reviews a direct payment.
type PaymentReview struct {
	PaymentID  string
	ReviewerID string
	Approve    bool
	At         int64
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the engine or the API surface.
//
// Transition methods (SubmitProof, ApplyProofReview, ApplyPaymentReview)
// must be atomic and guarded: when the entity is no longer in the state
// the transition requires, they return models.ErrConflict instead of
// overwriting, which serializes concurrent reviewers.
type Store interface {
	// CreateUser persists a new user. Returns models.ErrConflict if the
	// email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user, or models.ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email, or models.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ListUsers returns all users ordered by display name.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateGroup persists a new group and enrolls the creator as its
	// first admin in the same transaction.
	CreateGroup(ctx context.Context, group *models.Group, creatorID string) error

	// GetGroup retrieves a group, or models.ErrNotFound.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroups returns all groups.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddGroupMember enrolls a user in a group. Returns
	// models.ErrConflict if the user is already a member.
	AddGroupMember(ctx context.Context, member *models.GroupMember) error

	// GetGroupRole returns the caller's role within a group, or
	// models.ErrNotFound when the user is not a member.
	GetGroupRole(ctx context.Context, groupID, userID string) (models.Role, error)

	// ListGroupMembers returns the memberships of a group.
	ListGroupMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error)

	// CreateRule persists a new group rule.
	CreateRule(ctx context.Context, rule *models.Rule) error

	// GetRule retrieves a rule, or models.ErrNotFound.
	GetRule(ctx context.Context, id string) (*models.Rule, error)

	// ListGroupRules returns a group's rules ordered by creation time.
	ListGroupRules(ctx context.Context, groupID string) ([]*models.Rule, error)

	// DeleteRule removes a rule scoped to its group, or
	// models.ErrNotFound. Penalties referencing the rule keep the id.
	DeleteRule(ctx context.Context, groupID, ruleID string) error

	// CreatePenalty persists a new penalty with status UNPAID.
	CreatePenalty(ctx context.Context, penalty *models.Penalty) error

	// GetPenalty retrieves a penalty, or models.ErrNotFound.
	GetPenalty(ctx context.Context, id string) (*models.Penalty, error)

	// ListUserPenalties returns all penalties issued against a user,
	// newest first.
	ListUserPenalties(ctx context.Context, userID string) ([]*models.Penalty, error)

	// SubmitProof inserts a PENDING proof and moves its penalty from
	// UNPAID to PENDING_REVIEW atomically. Returns models.ErrConflict
	// when the penalty is not UNPAID (already paid, or another proof is
	// awaiting review); two concurrent submissions can never both
	// succeed.
	SubmitProof(ctx context.Context, proof *models.Proof) error

	// GetProof retrieves a proof, or models.ErrNotFound.
	GetProof(ctx context.Context, id string) (*models.Proof, error)

	// ListPenaltyProofs returns a penalty's proofs, oldest first.
	ListPenaltyProofs(ctx context.Context, penaltyID string) ([]*models.Proof, error)

	// ApplyProofReview commits a review decision: the proof leaves
	// PENDING and the penalty moves to PAID (approve) or back to UNPAID
	// (decline) in one transaction. Returns models.ErrConflict when the
	// proof is no longer PENDING.
	ApplyProofReview(ctx context.Context, review ProofReview) (*models.Proof, error)

	// CreatePayment persists a new payment with status PENDING_APPROVAL.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// GetPayment retrieves a payment, or models.ErrNotFound.
	GetPayment(ctx context.Context, id string) (*models.Payment, error)

	// ListUserPayments returns a user's payments, newest first.
	ListUserPayments(ctx context.Context, userID string) ([]*models.Payment, error)

	// ListPendingPayments returns all payments awaiting review, oldest
	// first.
	ListPendingPayments(ctx context.Context) ([]*models.Payment, error)

	// ApplyPaymentReview commits a review decision on a payment.
	// Returns models.ErrConflict when the payment is no longer
	// PENDING_APPROVAL.
	ApplyPaymentReview(ctx context.Context, review PaymentReview) (*models.Payment, error)

	// SettledAmounts returns every settled ledger fact (approved
	// payments and proof-settled penalties) from a single consistent
	// snapshot, for leaderboard aggregation.
	SettledAmounts(ctx context.Context) ([]models.SettledAmount, error)

	// Close releases any resources held by the store.
	Close() error
}
