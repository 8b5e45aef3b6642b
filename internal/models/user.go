package models

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is the name shown on leaderboards and reviews.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// IsAdmin grants instance-wide admin powers (payment review,
	// user listing). Group-scoped admin rights live on the membership.
	IsAdmin bool

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last account change.
	UpdatedAt int64
}

// Identity is the authenticated caller resolved from a request token.
// It is what the settlement engine receives instead of raw role strings.
type Identity struct {
	UserID string
	Admin  bool
}
