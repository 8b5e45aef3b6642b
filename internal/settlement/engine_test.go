package settlement

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/penaltybox/penaltybox/internal/leaderboard"
	"github.com/penaltybox/penaltybox/internal/models"
	"github.com/penaltybox/penaltybox/internal/storage/sqlite"
)

// setupEngine creates an engine over a fresh SQLite store.
func setupEngine(t *testing.T) (*Engine, *sqlite.SQLiteStore) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewEngine(store), store
}

func createUser(t *testing.T, store *sqlite.SQLiteStore, name string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        name + "@example.com",
		DisplayName:  name,
		PasswordHash: "x",
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

// createGroup creates a group whose first admin is adminID and enrolls
// the given members.
func createGroup(t *testing.T, store *sqlite.SQLiteStore, adminID string, memberIDs ...string) *models.Group {
	t.Helper()

	ctx := context.Background()
	group := &models.Group{Name: "Office Crew"}
	if err := store.CreateGroup(ctx, group, adminID); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	for _, id := range memberIDs {
		err := store.AddGroupMember(ctx, &models.GroupMember{GroupID: group.ID, UserID: id})
		if err != nil {
			t.Fatalf("failed to add member %s: %v", id, err)
		}
	}
	return group
}

func asIdentity(u *models.User) models.Identity {
	return models.Identity{UserID: u.ID, Admin: u.IsAdmin}
}

func TestIssuePenalty(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	admin := createUser(t, store, "admin")
	member := createUser(t, store, "member")
	outsider := createUser(t, store, "outsider")
	group := createGroup(t, store, admin.ID, member.ID)

	t.Run("creates an UNPAID penalty", func(t *testing.T) {
		penalty, err := engine.IssuePenalty(ctx, asIdentity(admin), IssuePenaltyInput{
			GroupID:      group.ID,
			TargetUserID: member.ID,
			Amount:       200,
			Note:         "late again",
		})
		if err != nil {
			t.Fatalf("IssuePenalty failed: %v", err)
		}

		fetched, err := store.GetPenalty(ctx, penalty.ID)
		if err != nil {
			t.Fatalf("GetPenalty failed: %v", err)
		}
		if fetched.Status != models.PenaltyUnpaid {
			t.Errorf("status = %s, want UNPAID", fetched.Status)
		}
		if fetched.Amount != 200 {
			t.Errorf("amount = %d, want 200", fetched.Amount)
		}
		if fetched.IssuedBy != admin.ID {
			t.Errorf("issued_by = %s, want %s", fetched.IssuedBy, admin.ID)
		}
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := engine.IssuePenalty(ctx, asIdentity(admin), IssuePenaltyInput{
			GroupID:      group.ID,
			TargetUserID: member.ID,
			Amount:       0,
		})
		if !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("rejects non-admin issuer", func(t *testing.T) {
		_, err := engine.IssuePenalty(ctx, asIdentity(member), IssuePenaltyInput{
			GroupID:      group.ID,
			TargetUserID: member.ID,
			Amount:       100,
		})
		if !errors.Is(err, models.ErrPermissionDenied) {
			t.Errorf("expected ErrPermissionDenied, got %v", err)
		}
	})

	t.Run("rejects unknown group", func(t *testing.T) {
		_, err := engine.IssuePenalty(ctx, asIdentity(admin), IssuePenaltyInput{
			GroupID:      "nope",
			TargetUserID: member.ID,
			Amount:       100,
		})
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects target outside the group", func(t *testing.T) {
		_, err := engine.IssuePenalty(ctx, asIdentity(admin), IssuePenaltyInput{
			GroupID:      group.ID,
			TargetUserID: outsider.ID,
			Amount:       100,
		})
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects rule from another group", func(t *testing.T) {
		other := createGroup(t, store, admin.ID)
		rule := &models.Rule{GroupID: other.ID, Title: "Swearing", Amount: 50}
		if err := store.CreateRule(ctx, rule); err != nil {
			t.Fatalf("CreateRule failed: %v", err)
		}

		_, err := engine.IssuePenalty(ctx, asIdentity(admin), IssuePenaltyInput{
			GroupID:      group.ID,
			TargetUserID: member.ID,
			RuleID:       rule.ID,
			Amount:       50,
		})
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSubmitProof(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	admin := createUser(t, store, "admin")
	member := createUser(t, store, "member")
	group := createGroup(t, store, admin.ID, member.ID)

	penalty, err := engine.IssuePenalty(ctx, asIdentity(admin), IssuePenaltyInput{
		GroupID:      group.ID,
		TargetUserID: member.ID,
		Amount:       300,
	})
	if err != nil {
		t.Fatalf("IssuePenalty failed: %v", err)
	}

	t.Run("rejects submission by another user", func(t *testing.T) {
		_, err := engine.SubmitProof(ctx, asIdentity(admin), SubmitProofInput{
			PenaltyID: penalty.ID,
			ImagePath: "evidence.png",
		})
		if !errors.Is(err, models.ErrPermissionDenied) {
			t.Errorf("expected ErrPermissionDenied, got %v", err)
		}
	})

	t.Run("moves penalty to PENDING_REVIEW", func(t *testing.T) {
		proof, err := engine.SubmitProof(ctx, asIdentity(member), SubmitProofInput{
			PenaltyID: penalty.ID,
			ImagePath: "evidence.png",
		})
		if err != nil {
			t.Fatalf("SubmitProof failed: %v", err)
		}
		if proof.Status != models.ProofPending {
			t.Errorf("proof status = %s, want PENDING", proof.Status)
		}

		fetched, err := store.GetPenalty(ctx, penalty.ID)
		if err != nil {
			t.Fatalf("GetPenalty failed: %v", err)
		}
		if fetched.Status != models.PenaltyPendingReview {
			t.Errorf("penalty status = %s, want PENDING_REVIEW", fetched.Status)
		}
	})

	t.Run("rejects a second submission while one is pending", func(t *testing.T) {
		_, err := engine.SubmitProof(ctx, asIdentity(member), SubmitProofInput{
			PenaltyID: penalty.ID,
			ImagePath: "evidence2.png",
		})
		if !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("rejects unknown penalty", func(t *testing.T) {
		_, err := engine.SubmitProof(ctx, asIdentity(member), SubmitProofInput{
			PenaltyID: "nope",
			ImagePath: "evidence.png",
		})
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

// TestSubmitProofConcurrent races two submissions for the same penalty:
// exactly one may win, the other must observe a conflict, and only the
// winner's proof may be stored.
func TestSubmitProofConcurrent(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	admin := createUser(t, store, "admin")
	member := createUser(t, store, "member")
	group := createGroup(t, store, admin.ID, member.ID)

	penalty, err := engine.IssuePenalty(ctx, asIdentity(admin), IssuePenaltyInput{
		GroupID:      group.ID,
		TargetUserID: member.ID,
		Amount:       300,
	})
	if err != nil {
		t.Fatalf("IssuePenalty failed: %v", err)
	}

	start := make(chan struct{})
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func(image string) {
			<-start
			_, err := engine.SubmitProof(ctx, asIdentity(member), SubmitProofInput{
				PenaltyID: penalty.ID,
				ImagePath: image,
			})
			results <- err
		}(fmt.Sprintf("evidence%d.png", i))
	}
	close(start)

	var successes, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			successes++
		case errors.Is(err, models.ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Errorf("got %d successes and %d conflicts, want 1 and 1", successes, conflicts)
	}

	proofs, err := store.ListPenaltyProofs(ctx, penalty.ID)
	if err != nil {
		t.Fatalf("ListPenaltyProofs failed: %v", err)
	}
	if len(proofs) != 1 {
		t.Errorf("expected 1 stored proof, got %d", len(proofs))
	}
}

func TestReviewProof(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	admin := createUser(t, store, "admin")
	member := createUser(t, store, "member")
	group := createGroup(t, store, admin.ID, member.ID)

	issue := func(t *testing.T) *models.Penalty {
		t.Helper()
		penalty, err := engine.IssuePenalty(ctx, asIdentity(admin), IssuePenaltyInput{
			GroupID:      group.ID,
			TargetUserID: member.ID,
			Amount:       150,
		})
		if err != nil {
			t.Fatalf("IssuePenalty failed: %v", err)
		}
		return penalty
	}
	submit := func(t *testing.T, penaltyID string) *models.Proof {
		t.Helper()
		proof, err := engine.SubmitProof(ctx, asIdentity(member), SubmitProofInput{
			PenaltyID: penaltyID,
			ImagePath: "evidence.png",
		})
		if err != nil {
			t.Fatalf("SubmitProof failed: %v", err)
		}
		return proof
	}

	t.Run("approval settles the penalty", func(t *testing.T) {
		penalty := issue(t)
		proof := submit(t, penalty.ID)

		reviewed, err := engine.ReviewProof(ctx, asIdentity(admin), ReviewProofInput{
			ProofID: proof.ID,
			Approve: true,
		})
		if err != nil {
			t.Fatalf("ReviewProof failed: %v", err)
		}
		if reviewed.Status != models.ProofApproved {
			t.Errorf("proof status = %s, want APPROVED", reviewed.Status)
		}
		if reviewed.ReviewedBy != admin.ID {
			t.Errorf("reviewed_by = %s, want %s", reviewed.ReviewedBy, admin.ID)
		}

		settled, err := store.GetPenalty(ctx, penalty.ID)
		if err != nil {
			t.Fatalf("GetPenalty failed: %v", err)
		}
		if settled.Status != models.PenaltyPaid {
			t.Errorf("penalty status = %s, want PAID", settled.Status)
		}
		if settled.SettledBy != admin.ID {
			t.Errorf("settled_by = %s, want %s", settled.SettledBy, admin.ID)
		}
	})

	t.Run("re-review of a decided proof conflicts and changes nothing", func(t *testing.T) {
		penalty := issue(t)
		proof := submit(t, penalty.ID)

		if _, err := engine.ReviewProof(ctx, asIdentity(admin), ReviewProofInput{ProofID: proof.ID, Approve: true}); err != nil {
			t.Fatalf("ReviewProof failed: %v", err)
		}

		_, err := engine.ReviewProof(ctx, asIdentity(admin), ReviewProofInput{ProofID: proof.ID, Approve: false})
		if !errors.Is(err, models.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}

		unchanged, err := store.GetProof(ctx, proof.ID)
		if err != nil {
			t.Fatalf("GetProof failed: %v", err)
		}
		if unchanged.Status != models.ProofApproved {
			t.Errorf("proof status = %s, want APPROVED after failed re-review", unchanged.Status)
		}
		settled, err := store.GetPenalty(ctx, penalty.ID)
		if err != nil {
			t.Fatalf("GetPenalty failed: %v", err)
		}
		if settled.Status != models.PenaltyPaid {
			t.Errorf("penalty status = %s, want PAID after failed re-review", settled.Status)
		}
	})

	t.Run("decline reverts the penalty and allows resubmission", func(t *testing.T) {
		penalty := issue(t)
		proof := submit(t, penalty.ID)

		reviewed, err := engine.ReviewProof(ctx, asIdentity(admin), ReviewProofInput{
			ProofID: proof.ID,
			Approve: false,
			Note:    "receipt is unreadable",
		})
		if err != nil {
			t.Fatalf("ReviewProof failed: %v", err)
		}
		if reviewed.Status != models.ProofDeclined {
			t.Errorf("proof status = %s, want DECLINED", reviewed.Status)
		}

		reverted, err := store.GetPenalty(ctx, penalty.ID)
		if err != nil {
			t.Fatalf("GetPenalty failed: %v", err)
		}
		if reverted.Status != models.PenaltyUnpaid {
			t.Errorf("penalty status = %s, want UNPAID after decline", reverted.Status)
		}

		// Resubmission goes through the normal path again.
		if _, err := engine.SubmitProof(ctx, asIdentity(member), SubmitProofInput{
			PenaltyID: penalty.ID,
			ImagePath: "evidence2.png",
		}); err != nil {
			t.Errorf("resubmission after decline failed: %v", err)
		}
	})

	t.Run("rejects non-admin reviewer", func(t *testing.T) {
		penalty := issue(t)
		proof := submit(t, penalty.ID)

		_, err := engine.ReviewProof(ctx, asIdentity(member), ReviewProofInput{ProofID: proof.ID, Approve: true})
		if !errors.Is(err, models.ErrPermissionDenied) {
			t.Errorf("expected ErrPermissionDenied, got %v", err)
		}
	})
}

func TestRecordAndReviewPayment(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	payer := createUser(t, store, "payer")
	instanceAdmin := models.Identity{UserID: createUser(t, store, "root").ID, Admin: true}

	t.Run("records a payment awaiting approval", func(t *testing.T) {
		payment, err := engine.RecordPayment(ctx, asIdentity(payer), RecordPaymentInput{
			Amount: 500,
			Method: models.PaymentUPI,
		})
		if err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}
		if payment.Status != models.PaymentPendingApproval {
			t.Errorf("status = %s, want PENDING_APPROVAL", payment.Status)
		}
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := engine.RecordPayment(ctx, asIdentity(payer), RecordPaymentInput{Amount: -5})
		if !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		_, err := engine.RecordPayment(ctx, asIdentity(payer), RecordPaymentInput{
			Amount: 100,
			Method: "BARTER",
		})
		if !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("review requires instance admin", func(t *testing.T) {
		payment, err := engine.RecordPayment(ctx, asIdentity(payer), RecordPaymentInput{Amount: 100})
		if err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}

		_, err = engine.ReviewPayment(ctx, asIdentity(payer), payment.ID, true)
		if !errors.Is(err, models.ErrPermissionDenied) {
			t.Errorf("expected ErrPermissionDenied, got %v", err)
		}
	})

	t.Run("approve then re-review conflicts", func(t *testing.T) {
		payment, err := engine.RecordPayment(ctx, asIdentity(payer), RecordPaymentInput{Amount: 100})
		if err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}

		reviewed, err := engine.ReviewPayment(ctx, instanceAdmin, payment.ID, true)
		if err != nil {
			t.Fatalf("ReviewPayment failed: %v", err)
		}
		if reviewed.Status != models.PaymentApproved {
			t.Errorf("status = %s, want APPROVED", reviewed.Status)
		}

		if _, err := engine.ReviewPayment(ctx, instanceAdmin, payment.ID, false); !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("decline is terminal", func(t *testing.T) {
		payment, err := engine.RecordPayment(ctx, asIdentity(payer), RecordPaymentInput{Amount: 100})
		if err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}

		reviewed, err := engine.ReviewPayment(ctx, instanceAdmin, payment.ID, false)
		if err != nil {
			t.Fatalf("ReviewPayment failed: %v", err)
		}
		if reviewed.Status != models.PaymentDeclined {
			t.Errorf("status = %s, want DECLINED", reviewed.Status)
		}

		if _, err := engine.ReviewPayment(ctx, instanceAdmin, payment.ID, true); !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})
}

// TestSettlementFeedsLeaderboard walks the full scenario: a penalty is
// issued, a first proof is declined, the resubmission is approved, and
// the settled amount shows up on the leaderboard exactly once alongside
// approved payments. Declined payments never count.
func TestSettlementFeedsLeaderboard(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	admin := createUser(t, store, "admin")
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	group := createGroup(t, store, admin.ID, alice.ID, bob.ID)
	instanceAdmin := models.Identity{UserID: admin.ID, Admin: true}

	penalty, err := engine.IssuePenalty(ctx, asIdentity(admin), IssuePenaltyInput{
		GroupID:      group.ID,
		TargetUserID: alice.ID,
		Amount:       200,
	})
	if err != nil {
		t.Fatalf("IssuePenalty failed: %v", err)
	}

	declined, err := engine.SubmitProof(ctx, asIdentity(alice), SubmitProofInput{PenaltyID: penalty.ID, ImagePath: "a.png"})
	if err != nil {
		t.Fatalf("SubmitProof failed: %v", err)
	}
	if _, err := engine.ReviewProof(ctx, asIdentity(admin), ReviewProofInput{ProofID: declined.ID, Approve: false}); err != nil {
		t.Fatalf("ReviewProof decline failed: %v", err)
	}

	approved, err := engine.SubmitProof(ctx, asIdentity(alice), SubmitProofInput{PenaltyID: penalty.ID, ImagePath: "b.png"})
	if err != nil {
		t.Fatalf("resubmission failed: %v", err)
	}
	if _, err := engine.ReviewProof(ctx, asIdentity(admin), ReviewProofInput{ProofID: approved.ID, Approve: true}); err != nil {
		t.Fatalf("ReviewProof approve failed: %v", err)
	}

	// Approved payments for both users, plus a big declined one that
	// must not move the ranking.
	pay := func(t *testing.T, who *models.User, amount int64, approve bool) {
		t.Helper()
		payment, err := engine.RecordPayment(ctx, asIdentity(who), RecordPaymentInput{Amount: amount})
		if err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}
		if _, err := engine.ReviewPayment(ctx, instanceAdmin, payment.ID, approve); err != nil {
			t.Fatalf("ReviewPayment failed: %v", err)
		}
	}
	pay(t, alice, 500, true)
	pay(t, bob, 600, true)
	pay(t, alice, 10000, false)

	entries, err := leaderboard.NewAggregator(store).Compute(ctx)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Alice: 500 payment + 200 settled penalty, counted once despite
	// the declined proof in the history.
	if entries[0].UserID != alice.ID || entries[0].TotalPaid != 700 || entries[0].Rank != 1 {
		t.Errorf("entry 0 = %s/%d rank %d, want %s/700 rank 1",
			entries[0].UserID, entries[0].TotalPaid, entries[0].Rank, alice.ID)
	}
	if entries[1].UserID != bob.ID || entries[1].TotalPaid != 600 || entries[1].Rank != 2 {
		t.Errorf("entry 1 = %s/%d rank %d, want %s/600 rank 2",
			entries[1].UserID, entries[1].TotalPaid, entries[1].Rank, bob.ID)
	}
}
