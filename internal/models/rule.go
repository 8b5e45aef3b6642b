package models

// Rule is a group's catalog entry describing a standard fine.
// Penalties may reference a rule but are not required to.
type Rule struct {
	// ID is the unique identifier for the rule (UUID format).
	ID string

	// GroupID is the group this rule belongs to.
	GroupID string

	// Title describes the offense (e.g., "Late to standup").
	Title string

	// Amount is the suggested fine in minor currency units.
	Amount int64

	// CreatedAt is the Unix timestamp when the rule was created.
	CreatedAt int64
}
