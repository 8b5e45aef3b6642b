package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/penaltybox/penaltybox/internal/middleware"
	"github.com/penaltybox/penaltybox/internal/models"
	"github.com/penaltybox/penaltybox/internal/settlement"
)

type recordPaymentRequest struct {
	Amount    int64                `json:"amount"`
	Method    models.PaymentMethod `json:"method"`
	Reference string               `json:"reference"`
	Note      string               `json:"note"`
}

func (s *Server) handleRecordPayment(c *fiber.Ctx) error {
	identity, _ := middleware.Identity(c)

	var req recordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("malformed body: %w", models.ErrInvalidInput)
	}

	payment, err := s.engine.RecordPayment(c.Context(), identity, settlement.RecordPaymentInput{
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		Note:      req.Note,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(payment))
}

func (s *Server) handleReviewPayment(c *fiber.Ctx) error {
	identity, _ := middleware.Identity(c)

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("malformed body: %w", models.ErrInvalidInput)
	}

	payment, err := s.engine.ReviewPayment(c.Context(), identity, c.Params("id"), req.Approve)
	if err != nil {
		return err
	}

	return c.JSON(toPaymentResponse(payment))
}

func (s *Server) handleListOwnPayments(c *fiber.Ctx) error {
	identity, _ := middleware.Identity(c)

	payments, err := s.store.ListUserPayments(c.Context(), identity.UserID)
	if err != nil {
		return err
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}
	return c.JSON(resp)
}

func (s *Server) handleListPendingPayments(c *fiber.Ctx) error {
	payments, err := s.store.ListPendingPayments(c.Context())
	if err != nil {
		return err
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}
	return c.JSON(resp)
}

func (s *Server) handleLeaderboard(c *fiber.Ctx) error {
	entries, err := s.board.Compute(c.Context())
	if err != nil {
		return err
	}

	resp := make([]leaderboardEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = leaderboardEntryResponse{
			Rank:        e.Rank,
			UserID:      e.UserID,
			DisplayName: e.DisplayName,
			TotalPaid:   e.TotalPaid,
		}
	}
	return c.JSON(resp)
}
