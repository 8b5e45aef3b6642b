package server

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/penaltybox/penaltybox/internal/middleware"
	"github.com/penaltybox/penaltybox/internal/models"
	"github.com/penaltybox/penaltybox/internal/settlement"
)

type reviewRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

// handleSubmitProof accepts a multipart form with a "file" part, a
// "penalty_id" field and an optional "note".
func (s *Server) handleSubmitProof(c *fiber.Ctx) error {
	identity, _ := middleware.Identity(c)

	penaltyID := c.FormValue("penalty_id")
	if penaltyID == "" {
		return fmt.Errorf("penalty_id is required: %w", models.ErrInvalidInput)
	}

	header, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("proof file is required: %w", models.ErrInvalidInput)
	}

	imagePath, err := s.uploads.SaveProof(header)
	if err != nil {
		return err
	}

	proof, err := s.engine.SubmitProof(c.Context(), identity, settlement.SubmitProofInput{
		PenaltyID: penaltyID,
		ImagePath: imagePath,
		Note:      c.FormValue("note"),
	})
	if err != nil {
		// The submission was rejected, so the stored file is an orphan.
		if path, pathErr := s.uploads.Path(imagePath); pathErr == nil {
			os.Remove(filepath.Clean(path))
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toProofResponse(proof))
}

func (s *Server) handleReviewProof(c *fiber.Ctx) error {
	identity, _ := middleware.Identity(c)

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("malformed body: %w", models.ErrInvalidInput)
	}

	proof, err := s.engine.ReviewProof(c.Context(), identity, settlement.ReviewProofInput{
		ProofID: c.Params("id"),
		Approve: req.Approve,
		Note:    req.Note,
	})
	if err != nil {
		return err
	}

	return c.JSON(toProofResponse(proof))
}

func (s *Server) handleListPenaltyProofs(c *fiber.Ctx) error {
	penaltyID := c.Params("id")
	if _, err := s.store.GetPenalty(c.Context(), penaltyID); err != nil {
		return err
	}

	proofs, err := s.store.ListPenaltyProofs(c.Context(), penaltyID)
	if err != nil {
		return err
	}

	resp := make([]proofResponse, len(proofs))
	for i, p := range proofs {
		resp[i] = toProofResponse(p)
	}
	return c.JSON(resp)
}
