package models

// Role is a user's role within one group.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Group represents a set of people who fine each other.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Office Crew").
	Name string

	// Description is an optional free-text description.
	Description string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// GroupMember is one user's membership in one group.
// A user can belong to many groups with a different role in each.
type GroupMember struct {
	GroupID  string
	UserID   string
	Role     Role
	JoinedAt int64
}
