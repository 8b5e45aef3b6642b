package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/penaltybox/penaltybox/internal/middleware"
	"github.com/penaltybox/penaltybox/internal/models"
	"github.com/penaltybox/penaltybox/internal/settlement"
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addMemberRequest struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
}

type createRuleRequest struct {
	Title  string `json:"title"`
	Amount int64  `json:"amount"`
}

func (s *Server) handleCreateGroup(c *fiber.Ctx) error {
	identity, _ := middleware.Identity(c)

	var req createGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("malformed body: %w", models.ErrInvalidInput)
	}
	if req.Name == "" {
		return fmt.Errorf("name is required: %w", models.ErrInvalidInput)
	}

	group := &models.Group{Name: req.Name, Description: req.Description}
	if err := s.store.CreateGroup(c.Context(), group, identity.UserID); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toGroupResponse(group))
}

func (s *Server) handleListGroups(c *fiber.Ctx) error {
	groups, err := s.store.ListGroups(c.Context())
	if err != nil {
		return err
	}

	resp := make([]groupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toGroupResponse(g)
	}
	return c.JSON(resp)
}

func (s *Server) handleGetGroup(c *fiber.Ctx) error {
	group, err := s.store.GetGroup(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	members, err := s.store.ListGroupMembers(c.Context(), group.ID)
	if err != nil {
		return err
	}

	memberResp := make([]memberResponse, len(members))
	for i, m := range members {
		memberResp[i] = memberResponse{UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt}
	}

	return c.JSON(fiber.Map{
		"group":   toGroupResponse(group),
		"members": memberResp,
	})
}

func (s *Server) handleAddGroupMember(c *fiber.Ctx) error {
	identity, _ := middleware.Identity(c)
	groupID := c.Params("id")

	var req addMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("malformed body: %w", models.ErrInvalidInput)
	}
	if req.UserID == "" {
		return fmt.Errorf("user_id is required: %w", models.ErrInvalidInput)
	}
	switch req.Role {
	case "":
		req.Role = models.RoleMember
	case models.RoleMember, models.RoleAdmin:
	default:
		return fmt.Errorf("unknown role %q: %w", req.Role, models.ErrInvalidInput)
	}

	if _, err := s.store.GetGroup(c.Context(), groupID); err != nil {
		return err
	}
	if err := settlement.RequireGroupAdmin(c.Context(), s.store, identity, groupID); err != nil {
		return err
	}
	if _, err := s.store.GetUserByID(c.Context(), req.UserID); err != nil {
		return err
	}

	member := &models.GroupMember{GroupID: groupID, UserID: req.UserID, Role: req.Role}
	if err := s.store.AddGroupMember(c.Context(), member); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(memberResponse{
		UserID:   member.UserID,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	})
}

func (s *Server) handleCreateRule(c *fiber.Ctx) error {
	identity, _ := middleware.Identity(c)
	groupID := c.Params("id")

	var req createRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("malformed body: %w", models.ErrInvalidInput)
	}
	if req.Title == "" {
		return fmt.Errorf("title is required: %w", models.ErrInvalidInput)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", models.ErrInvalidInput)
	}

	if _, err := s.store.GetGroup(c.Context(), groupID); err != nil {
		return err
	}
	if err := settlement.RequireGroupAdmin(c.Context(), s.store, identity, groupID); err != nil {
		return err
	}

	rule := &models.Rule{GroupID: groupID, Title: req.Title, Amount: req.Amount}
	if err := s.store.CreateRule(c.Context(), rule); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toRuleResponse(rule))
}

func (s *Server) handleListRules(c *fiber.Ctx) error {
	groupID := c.Params("id")
	if _, err := s.store.GetGroup(c.Context(), groupID); err != nil {
		return err
	}

	rules, err := s.store.ListGroupRules(c.Context(), groupID)
	if err != nil {
		return err
	}

	resp := make([]ruleResponse, len(rules))
	for i, r := range rules {
		resp[i] = toRuleResponse(r)
	}
	return c.JSON(resp)
}

func (s *Server) handleDeleteRule(c *fiber.Ctx) error {
	identity, _ := middleware.Identity(c)
	groupID := c.Params("id")

	if err := settlement.RequireGroupAdmin(c.Context(), s.store, identity, groupID); err != nil {
		return err
	}

	if err := s.store.DeleteRule(c.Context(), groupID, c.Params("ruleID")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
