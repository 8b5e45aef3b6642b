package models

// PaymentMethod describes how a direct payment was made.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "CASH"
	PaymentUPI   PaymentMethod = "UPI"
	PaymentOther PaymentMethod = "OTHER"
)

// PaymentStatus is the review state of a direct payment.
// DECLINED is terminal; a new payment must be recorded to retry.
type PaymentStatus string

const (
	PaymentPendingApproval PaymentStatus = "PENDING_APPROVAL"
	PaymentApproved        PaymentStatus = "APPROVED"
	PaymentDeclined        PaymentStatus = "DECLINED"
)

// Payment is a direct settlement record, e.g. a lump cash payment handed
// to an admin. It is not tied to a specific penalty.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// UserID is the payer.
	UserID string

	// Amount is the paid amount in minor currency units. Always > 0.
	Amount int64

	// Method is how the payment was made.
	Method PaymentMethod

	// Reference is an optional external reference (e.g., a UPI txn id).
	Reference string

	// Note is an optional message from the payer.
	Note string

	// Status is the review state.
	Status PaymentStatus

	// ReviewedBy is the admin who reviewed the payment, empty while
	// PENDING_APPROVAL.
	ReviewedBy string

	// ReviewedAt is the Unix timestamp of the review decision, 0 while
	// PENDING_APPROVAL.
	ReviewedAt int64

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
