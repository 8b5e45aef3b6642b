// Package settlement enforces the penalty settlement workflow: which
// state transitions are legal, who may apply them, and how review
// decisions cascade between proofs, payments and penalties.
package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/penaltybox/penaltybox/internal/metrics"
	"github.com/penaltybox/penaltybox/internal/models"
	"github.com/penaltybox/penaltybox/internal/storage"
)

// Engine applies settlement transitions against the ledger store. All
// mutation of penalties, proofs and payments goes through it; the store's
// conditional updates serialize concurrent transitions, so the engine
// never has to lock anything itself.
type Engine struct {
	store storage.Store
}

// NewEngine creates a settlement engine backed by the given store.
func NewEngine(store storage.Store) *Engine {
	return &Engine{store: store}
}

// IssuePenaltyInput describes a new penalty to issue.
type IssuePenaltyInput struct {
	GroupID      string
	TargetUserID string
	RuleID       string // optional
	Amount       int64
	Note         string
}

// IssuePenalty creates a new UNPAID penalty against a group member.
// The actor must be an admin of the group.
func (e *Engine) IssuePenalty(ctx context.Context, actor models.Identity, in IssuePenaltyInput) (*models.Penalty, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d: %w", in.Amount, models.ErrInvalidInput)
	}

	if _, err := e.store.GetGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}
	if err := RequireGroupAdmin(ctx, e.store, actor, in.GroupID); err != nil {
		return nil, err
	}

	// The target must be a member of the group for the penalty's
	// lifetime; a non-member is an unresolvable reference.
	if _, err := e.store.GetGroupRole(ctx, in.GroupID, in.TargetUserID); err != nil {
		return nil, err
	}

	if in.RuleID != "" {
		rule, err := e.store.GetRule(ctx, in.RuleID)
		if err != nil {
			return nil, err
		}
		if rule.GroupID != in.GroupID {
			return nil, fmt.Errorf("rule %s belongs to another group: %w", in.RuleID, models.ErrNotFound)
		}
	}

	penalty := &models.Penalty{
		GroupID:  in.GroupID,
		UserID:   in.TargetUserID,
		IssuedBy: actor.UserID,
		RuleID:   in.RuleID,
		Amount:   in.Amount,
		Note:     in.Note,
		Status:   models.PenaltyUnpaid,
	}
	if err := e.store.CreatePenalty(ctx, penalty); err != nil {
		return nil, err
	}

	metrics.PenaltiesIssued.Inc()
	slog.Info("penalty issued",
		"penalty_id", penalty.ID,
		"group_id", penalty.GroupID,
		"user_id", penalty.UserID,
		"issued_by", actor.UserID,
		"amount", penalty.Amount,
	)

	return penalty, nil
}

// SubmitProofInput describes a proof upload for a penalty.
type SubmitProofInput struct {
	PenaltyID string
	ImagePath string
	Note      string
}

// SubmitProof records payment evidence for a penalty. Only the penalized
// user may submit, and only while the penalty is UNPAID; the penalty
// moves to PENDING_REVIEW atomically with the proof insert. After a
// declined proof the penalty is UNPAID again, so resubmission works
// through the same path.
func (e *Engine) SubmitProof(ctx context.Context, actor models.Identity, in SubmitProofInput) (*models.Proof, error) {
	if in.ImagePath == "" {
		return nil, fmt.Errorf("proof image is required: %w", models.ErrInvalidInput)
	}

	penalty, err := e.store.GetPenalty(ctx, in.PenaltyID)
	if err != nil {
		return nil, err
	}
	if penalty.UserID != actor.UserID {
		return nil, fmt.Errorf("only the penalized user may submit proof: %w", models.ErrPermissionDenied)
	}

	proof := &models.Proof{
		PenaltyID:   in.PenaltyID,
		SubmittedBy: actor.UserID,
		ImagePath:   in.ImagePath,
		Note:        in.Note,
	}
	if err := e.store.SubmitProof(ctx, proof); err != nil {
		return nil, err
	}

	metrics.ProofsSubmitted.Inc()
	slog.Info("proof submitted",
		"proof_id", proof.ID,
		"penalty_id", proof.PenaltyID,
		"user_id", actor.UserID,
	)

	return proof, nil
}

// ReviewProofInput describes a review decision on a pending proof.
type ReviewProofInput struct {
	ProofID string
	Approve bool
	Note    string
}

// ReviewProof applies an admin decision to a PENDING proof. Approval
// marks the proof APPROVED and the penalty PAID; decline marks the proof
// DECLINED and returns the penalty to UNPAID. A proof that already left
// PENDING cannot be reviewed again: the second decision fails with a
// conflict and state is left untouched, so duplicate requests can never
// double-settle.
func (e *Engine) ReviewProof(ctx context.Context, actor models.Identity, in ReviewProofInput) (*models.Proof, error) {
	proof, err := e.store.GetProof(ctx, in.ProofID)
	if err != nil {
		return nil, err
	}
	penalty, err := e.store.GetPenalty(ctx, proof.PenaltyID)
	if err != nil {
		return nil, err
	}
	if err := RequireGroupAdmin(ctx, e.store, actor, penalty.GroupID); err != nil {
		return nil, err
	}

	reviewed, err := e.store.ApplyProofReview(ctx, storage.ProofReview{
		ProofID:    in.ProofID,
		ReviewerID: actor.UserID,
		Approve:    in.Approve,
		Note:       in.Note,
		At:         time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}

	decision := metrics.DecisionDeclined
	if in.Approve {
		decision = metrics.DecisionApproved
	}
	metrics.ProofReviews.WithLabelValues(decision).Inc()
	slog.Info("proof reviewed",
		"proof_id", reviewed.ID,
		"penalty_id", reviewed.PenaltyID,
		"reviewer", actor.UserID,
		"approved", in.Approve,
	)

	return reviewed, nil
}

// RecordPaymentInput describes a direct payment by the actor.
type RecordPaymentInput struct {
	Amount    int64
	Method    models.PaymentMethod
	Reference string
	Note      string
}

// RecordPayment records a direct settlement payment (cash handed to an
// admin, a UPI transfer, ...) awaiting approval. It is not tied to a
// specific penalty.
func (e *Engine) RecordPayment(ctx context.Context, actor models.Identity, in RecordPaymentInput) (*models.Payment, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d: %w", in.Amount, models.ErrInvalidInput)
	}
	switch in.Method {
	case "":
		in.Method = models.PaymentCash
	case models.PaymentCash, models.PaymentUPI, models.PaymentOther:
	default:
		return nil, fmt.Errorf("unknown payment method %q: %w", in.Method, models.ErrInvalidInput)
	}

	if _, err := e.store.GetUserByID(ctx, actor.UserID); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:    actor.UserID,
		Amount:    in.Amount,
		Method:    in.Method,
		Reference: in.Reference,
		Note:      in.Note,
	}
	if err := e.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.Inc()
	slog.Info("payment recorded",
		"payment_id", payment.ID,
		"user_id", actor.UserID,
		"amount", payment.Amount,
		"method", payment.Method,
	)

	return payment, nil
}

// ReviewPayment applies an admin decision to a payment awaiting approval.
// Approve counts it toward the payer's leaderboard total; decline is
// terminal and the payer must record a new payment to retry. Re-reviewing
// a decided payment fails with a conflict.
func (e *Engine) ReviewPayment(ctx context.Context, actor models.Identity, paymentID string, approve bool) (*models.Payment, error) {
	if !actor.Admin {
		return nil, fmt.Errorf("payment review requires admin: %w", models.ErrPermissionDenied)
	}

	reviewed, err := e.store.ApplyPaymentReview(ctx, storage.PaymentReview{
		PaymentID:  paymentID,
		ReviewerID: actor.UserID,
		Approve:    approve,
		At:         time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}

	decision := metrics.DecisionDeclined
	if approve {
		decision = metrics.DecisionApproved
	}
	metrics.PaymentReviews.WithLabelValues(decision).Inc()
	slog.Info("payment reviewed",
		"payment_id", reviewed.ID,
		"reviewer", actor.UserID,
		"approved", approve,
	)

	return reviewed, nil
}
