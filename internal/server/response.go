package server

import "github.com/penaltybox/penaltybox/internal/models"

// Response shapes returned by the API. Optional fields are omitted when
// empty so terminal review fields only appear once set.

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
	CreatedAt   int64  `json:"created_at"`
}

type groupResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

type memberResponse struct {
	UserID   string      `json:"user_id"`
	Role     models.Role `json:"role"`
	JoinedAt int64       `json:"joined_at"`
}

type ruleResponse struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	Title     string `json:"title"`
	Amount    int64  `json:"amount"`
	CreatedAt int64  `json:"created_at"`
}

type penaltyResponse struct {
	ID        string               `json:"id"`
	GroupID   string               `json:"group_id"`
	UserID    string               `json:"user_id"`
	IssuedBy  string               `json:"issued_by"`
	RuleID    string               `json:"rule_id,omitempty"`
	Amount    int64                `json:"amount"`
	Note      string               `json:"note,omitempty"`
	Status    models.PenaltyStatus `json:"status"`
	SettledBy string               `json:"settled_by,omitempty"`
	SettledAt int64                `json:"settled_at,omitempty"`
	CreatedAt int64                `json:"created_at"`
}

type proofResponse struct {
	ID          string             `json:"id"`
	PenaltyID   string             `json:"penalty_id"`
	SubmittedBy string             `json:"submitted_by"`
	ImagePath   string             `json:"image_path"`
	Note        string             `json:"note,omitempty"`
	Status      models.ProofStatus `json:"status"`
	ReviewedBy  string             `json:"reviewed_by,omitempty"`
	ReviewedAt  int64              `json:"reviewed_at,omitempty"`
	ReviewNote  string             `json:"review_note,omitempty"`
	CreatedAt   int64              `json:"created_at"`
}

type paymentResponse struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id"`
	Amount     int64                `json:"amount"`
	Method     models.PaymentMethod `json:"method"`
	Reference  string               `json:"reference,omitempty"`
	Note       string               `json:"note,omitempty"`
	Status     models.PaymentStatus `json:"status"`
	ReviewedBy string               `json:"reviewed_by,omitempty"`
	ReviewedAt int64                `json:"reviewed_at,omitempty"`
	CreatedAt  int64                `json:"created_at"`
}

type leaderboardEntryResponse struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	TotalPaid   int64  `json:"total_paid"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   u.CreatedAt,
	}
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
	}
}

func toRuleResponse(r *models.Rule) ruleResponse {
	return ruleResponse{
		ID:        r.ID,
		GroupID:   r.GroupID,
		Title:     r.Title,
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
	}
}

func toPenaltyResponse(p *models.Penalty) penaltyResponse {
	return penaltyResponse{
		ID:        p.ID,
		GroupID:   p.GroupID,
		UserID:    p.UserID,
		IssuedBy:  p.IssuedBy,
		RuleID:    p.RuleID,
		Amount:    p.Amount,
		Note:      p.Note,
		Status:    p.Status,
		SettledBy: p.SettledBy,
		SettledAt: p.SettledAt,
		CreatedAt: p.CreatedAt,
	}
}

func toProofResponse(p *models.Proof) proofResponse {
	return proofResponse{
		ID:          p.ID,
		PenaltyID:   p.PenaltyID,
		SubmittedBy: p.SubmittedBy,
		ImagePath:   p.ImagePath,
		Note:        p.Note,
		Status:      p.Status,
		ReviewedBy:  p.ReviewedBy,
		ReviewedAt:  p.ReviewedAt,
		ReviewNote:  p.ReviewNote,
		CreatedAt:   p.CreatedAt,
	}
}

func toPaymentResponse(p *models.Payment) paymentResponse {
	return paymentResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Amount:     p.Amount,
		Method:     p.Method,
		Reference:  p.Reference,
		Note:       p.Note,
		Status:     p.Status,
		ReviewedBy: p.ReviewedBy,
		ReviewedAt: p.ReviewedAt,
		CreatedAt:  p.CreatedAt,
	}
}
