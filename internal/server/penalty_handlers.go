package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/penaltybox/penaltybox/internal/middleware"
	"github.com/penaltybox/penaltybox/internal/models"
	"github.com/penaltybox/penaltybox/internal/settlement"
)

type issuePenaltyRequest struct {
	UserID string `json:"user_id"`
	RuleID string `json:"rule_id"`
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

func (s *Server) handleIssuePenalty(c *fiber.Ctx) error {
	identity, _ := middleware.Identity(c)

	var req issuePenaltyRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("malformed body: %w", models.ErrInvalidInput)
	}
	if req.UserID == "" {
		return fmt.Errorf("user_id is required: %w", models.ErrInvalidInput)
	}

	penalty, err := s.engine.IssuePenalty(c.Context(), identity, settlement.IssuePenaltyInput{
		GroupID:      c.Params("id"),
		TargetUserID: req.UserID,
		RuleID:       req.RuleID,
		Amount:       req.Amount,
		Note:         req.Note,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toPenaltyResponse(penalty))
}

func (s *Server) handleGetPenalty(c *fiber.Ctx) error {
	penalty, err := s.store.GetPenalty(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toPenaltyResponse(penalty))
}

func (s *Server) handleListUserPenalties(c *fiber.Ctx) error {
	penalties, err := s.store.ListUserPenalties(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	resp := make([]penaltyResponse, len(penalties))
	for i, p := range penalties {
		resp[i] = toPenaltyResponse(p)
	}
	return c.JSON(resp)
}
