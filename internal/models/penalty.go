package models

// PenaltyStatus is the settlement state of a penalty.
//
// Valid transitions, enforced by the settlement engine:
//
//	UNPAID -> PENDING_REVIEW  (proof submitted)
//	PENDING_REVIEW -> PAID    (proof approved; terminal)
//	PENDING_REVIEW -> UNPAID  (proof declined; resubmission allowed)
type PenaltyStatus string

const (
	PenaltyUnpaid        PenaltyStatus = "UNPAID"
	PenaltyPendingReview PenaltyStatus = "PENDING_REVIEW"
	PenaltyPaid          PenaltyStatus = "PAID"
)

// Penalty represents a fine issued against one member of one group.
// Everything except Status and the settlement link is immutable after
// creation.
type Penalty struct {
	// ID is the unique identifier for the penalty (UUID format).
	ID string

	// GroupID is the group this penalty belongs to.
	GroupID string

	// UserID is the member the penalty was issued against.
	UserID string

	// IssuedBy is the group admin who issued the penalty.
	IssuedBy string

	// RuleID optionally links the penalty to a group rule.
	// Empty when the penalty was issued ad hoc.
	RuleID string

	// Amount is the fine in minor currency units. Always > 0.
	Amount int64

	// Note is an optional free-text reason.
	Note string

	// Status is the current settlement state.
	Status PenaltyStatus

	// SettledBy is the admin whose proof approval settled the penalty.
	// Empty until Status is PAID.
	SettledBy string

	// SettledAt is the Unix timestamp of settlement, 0 until PAID.
	SettledAt int64

	// CreatedAt is the Unix timestamp when the penalty was issued.
	CreatedAt int64
}
