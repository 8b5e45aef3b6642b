package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/penaltybox/penaltybox/internal/models"
	"github.com/penaltybox/penaltybox/internal/storage"
)

const proofColumns = `id, penalty_id, submitted_by, image_path, note, status, reviewed_by, reviewed_at, review_note, created_at`

// SubmitProof inserts a PENDING proof and moves its penalty from UNPAID
// to PENDING_REVIEW in one transaction. The conditional penalty update is
// the concurrency guard: of two simultaneous submissions exactly one sees
// a row change, the other gets models.ErrConflict.
func (s *SQLiteStore) SubmitProof(ctx context.Context, proof *models.Proof) error {
	if proof.ID == "" {
		proof.ID = uuid.New().String()
	}
	if proof.CreatedAt == 0 {
		proof.CreatedAt = time.Now().Unix()
	}
	proof.Status = models.ProofPending

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE penalties SET status = ? WHERE id = ? AND status = ?`,
		models.PenaltyPendingReview, proof.PenaltyID, models.PenaltyUnpaid,
	)
	if err != nil {
		return fmt.Errorf("failed to update penalty status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing penalty from one in the wrong state.
		var status models.PenaltyStatus
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM penalties WHERE id = ?`, proof.PenaltyID,
		).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("penalty %s: %w", proof.PenaltyID, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get penalty status: %w", err)
		}
		return fmt.Errorf("penalty %s is %s, proof submission requires UNPAID: %w",
			proof.PenaltyID, status, models.ErrConflict)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO proofs (`+proofColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		proof.ID, proof.PenaltyID, proof.SubmittedBy, proof.ImagePath,
		nullable(proof.Note), proof.Status, nullable(proof.ReviewedBy),
		nullTime(proof.ReviewedAt), nullable(proof.ReviewNote), proof.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert proof: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ApplyProofReview commits a review decision. The proof row update is
// conditional on status = PENDING so a second reviewer loses with
// models.ErrConflict instead of overwriting; the penalty update rides in
// the same transaction (approve -> PAID, decline -> UNPAID).
func (s *SQLiteStore) ApplyProofReview(ctx context.Context, review storage.ProofReview) (*models.Proof, error) {
	proofStatus := models.ProofDeclined
	penaltyStatus := models.PenaltyUnpaid
	if review.Approve {
		proofStatus = models.ProofApproved
		penaltyStatus = models.PenaltyPaid
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE proofs SET status = ?, reviewed_by = ?, reviewed_at = ?, review_note = ?
		 WHERE id = ? AND status = ?`,
		proofStatus, review.ReviewerID, review.At, nullable(review.Note),
		review.ProofID, models.ProofPending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update proof: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		var status models.ProofStatus
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM proofs WHERE id = ?`, review.ProofID,
		).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("proof %s: %w", review.ProofID, models.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get proof status: %w", err)
		}
		return nil, fmt.Errorf("proof %s already reviewed (%s): %w",
			review.ProofID, status, models.ErrConflict)
	}

	var settledBy, settledAt interface{}
	if review.Approve {
		settledBy, settledAt = review.ReviewerID, review.At
	}
	res, err = tx.ExecContext(ctx,
		`UPDATE penalties SET status = ?, settled_by = ?, settled_at = ?
		 WHERE id = (SELECT penalty_id FROM proofs WHERE id = ?) AND status = ?`,
		penaltyStatus, settledBy, settledAt, review.ProofID, models.PenaltyPendingReview,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update penalty: %w", err)
	}

	affected, err = res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		// A PENDING proof always has a PENDING_REVIEW penalty; anything
		// else means the invariant was broken outside the engine.
		return nil, fmt.Errorf("penalty for proof %s not in PENDING_REVIEW: %w",
			review.ProofID, models.ErrConflict)
	}

	proof, err := getProofTx(ctx, tx, review.ProofID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return proof, nil
}

// GetProof retrieves a proof by ID.
func (s *SQLiteStore) GetProof(ctx context.Context, id string) (*models.Proof, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+proofColumns+` FROM proofs WHERE id = ?`, id,
	)

	proof, err := scanProof(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("proof %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proof: %w", err)
	}

	return proof, nil
}

// ListPenaltyProofs returns a penalty's proofs, oldest first.
func (s *SQLiteStore) ListPenaltyProofs(ctx context.Context, penaltyID string) ([]*models.Proof, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+proofColumns+` FROM proofs WHERE penalty_id = ? ORDER BY created_at, id`,
		penaltyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}
	defer rows.Close()

	var proofs []*models.Proof
	for rows.Next() {
		proof, err := scanProof(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proof: %w", err)
		}
		proofs = append(proofs, proof)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating proofs: %w", err)
	}

	return proofs, nil
}

func getProofTx(ctx context.Context, tx *sql.Tx, id string) (*models.Proof, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+proofColumns+` FROM proofs WHERE id = ?`, id,
	)

	proof, err := scanProof(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to get proof: %w", err)
	}
	return proof, nil
}

// scanProof reads one proof row, folding NULLs into zero values.
func scanProof(scan func(...interface{}) error) (*models.Proof, error) {
	proof := &models.Proof{}
	var note, reviewedBy, reviewNote sql.NullString
	var reviewedAt sql.NullInt64

	err := scan(
		&proof.ID, &proof.PenaltyID, &proof.SubmittedBy, &proof.ImagePath,
		&note, &proof.Status, &reviewedBy, &reviewedAt, &reviewNote,
		&proof.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	proof.Note = note.String
	proof.ReviewedBy = reviewedBy.String
	proof.ReviewedAt = reviewedAt.Int64
	proof.ReviewNote = reviewNote.String
	return proof, nil
}
