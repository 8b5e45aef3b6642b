package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/penaltybox/penaltybox/internal/models"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("malformed body: %w", models.ErrInvalidInput)
	}
	if req.Email == "" || req.DisplayName == "" {
		return fmt.Errorf("email and display_name are required: %w", models.ErrInvalidInput)
	}

	user, err := s.authn.Register(c.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		return err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("malformed body: %w", models.ErrInvalidInput)
	}

	user, err := s.authn.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return err
	}

	return c.JSON(authResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	users, err := s.store.ListUsers(c.Context())
	if err != nil {
		return err
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	return c.JSON(resp)
}
