// Package metrics exposes Prometheus counters for the settlement workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PenaltiesIssued counts penalties created by group admins.
	PenaltiesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "penaltybox_penalties_issued_total",
		Help: "Number of penalties issued.",
	})

	// ProofsSubmitted counts proof uploads that passed the state guard.
	ProofsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "penaltybox_proofs_submitted_total",
		Help: "Number of proofs submitted for review.",
	})

	// ProofReviews counts proof review decisions by outcome.
	ProofReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "penaltybox_proof_reviews_total",
		Help: "Number of proof review decisions.",
	}, []string{"decision"})

	// PaymentsRecorded counts direct payments recorded by members.
	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "penaltybox_payments_recorded_total",
		Help: "Number of direct payments recorded.",
	})

	// PaymentReviews counts payment review decisions by outcome.
	PaymentReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "penaltybox_payment_reviews_total",
		Help: "Number of payment review decisions.",
	}, []string{"decision"})
)

// Decision labels for the review counter vectors.
const (
	DecisionApproved = "approved"
	DecisionDeclined = "declined"
)
