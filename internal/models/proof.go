package models

// ProofStatus is the review state of a submitted proof.
type ProofStatus string

const (
	ProofPending  ProofStatus = "PENDING"
	ProofApproved ProofStatus = "APPROVED"
	ProofDeclined ProofStatus = "DECLINED"
)

// Proof is evidence submitted by the penalized user that a penalty was
// paid. A penalty can accumulate several declined proofs, but at most one
// may be PENDING at a time and at most one ever reaches APPROVED.
type Proof struct {
	// ID is the unique identifier for the proof (UUID format).
	ID string

	// PenaltyID is the penalty this proof settles.
	PenaltyID string

	// SubmittedBy is the user who uploaded the proof. Always equals the
	// penalty's target user.
	SubmittedBy string

	// ImagePath is the stored file reference for the uploaded evidence.
	ImagePath string

	// Note is an optional message from the submitter.
	Note string

	// Status is the review state.
	Status ProofStatus

	// ReviewedBy is the admin who reviewed the proof, empty while PENDING.
	ReviewedBy string

	// ReviewedAt is the Unix timestamp of the review decision, 0 while
	// PENDING.
	ReviewedAt int64

	// ReviewNote is an optional message from the reviewer.
	ReviewNote string

	// CreatedAt is the Unix timestamp when the proof was submitted.
	CreatedAt int64
}
