// Package server is the HTTP API surface. It maps requests onto the
// settlement engine and the leaderboard aggregator and translates
// workflow errors into stable error codes.
package server

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/penaltybox/penaltybox/internal/auth"
	"github.com/penaltybox/penaltybox/internal/files"
	"github.com/penaltybox/penaltybox/internal/leaderboard"
	"github.com/penaltybox/penaltybox/internal/middleware"
	"github.com/penaltybox/penaltybox/internal/models"
	"github.com/penaltybox/penaltybox/internal/settlement"
	"github.com/penaltybox/penaltybox/internal/storage"
)

// Server wires the API surface onto the core components.
type Server struct {
	app     *fiber.App
	store   storage.Store
	engine  *settlement.Engine
	board   *leaderboard.Aggregator
	authn   auth.Authenticator
	jwt     *auth.JWTManager
	uploads *files.Storage
}

// New builds the fiber application and registers all routes.
func New(store storage.Store, engine *settlement.Engine, board *leaderboard.Aggregator,
	authn auth.Authenticator, jwtManager *auth.JWTManager, uploads *files.Storage) *Server {

	s := &Server{
		store:   store,
		engine:  engine,
		board:   board,
		authn:   authn,
		jwt:     jwtManager,
		uploads: uploads,
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(cors.New())
	s.app.Use(middleware.RequestLogger())

	s.registerRoutes()
	return s
}

// App exposes the fiber application, used by tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the given address and blocks.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api")
	api.Post("/auth/register", s.handleRegister)
	api.Post("/auth/login", s.handleLogin)

	authed := api.Group("", middleware.RequireAuth(s.jwt))

	authed.Get("/groups", s.handleListGroups)
	authed.Post("/groups", s.handleCreateGroup)
	authed.Get("/groups/:id", s.handleGetGroup)
	authed.Post("/groups/:id/members", s.handleAddGroupMember)

	authed.Get("/groups/:id/rules", s.handleListRules)
	authed.Post("/groups/:id/rules", s.handleCreateRule)
	authed.Delete("/groups/:id/rules/:ruleID", s.handleDeleteRule)

	authed.Post("/groups/:id/penalties", s.handleIssuePenalty)
	authed.Get("/penalties/:id", s.handleGetPenalty)
	authed.Get("/penalties/:id/proofs", s.handleListPenaltyProofs)
	authed.Get("/users/:id/penalties", s.handleListUserPenalties)

	authed.Post("/proofs", s.handleSubmitProof)
	authed.Post("/proofs/:id/review", s.handleReviewProof)

	authed.Post("/payments", s.handleRecordPayment)
	authed.Get("/payments", s.handleListOwnPayments)
	authed.Get("/payments/pending", middleware.RequireAdmin(), s.handleListPendingPayments)
	authed.Post("/payments/:id/review", s.handleReviewPayment)

	authed.Get("/leaderboard", s.handleLeaderboard)
	authed.Get("/users", middleware.RequireAdmin(), s.handleListUsers)
}

// errorHandler maps workflow errors onto stable codes. Conflicts are
// surfaced as-is so callers can re-fetch and decide; nothing is retried
// here.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "internal"

	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, files.ErrUnsupportedType):
		status, code = fiber.StatusBadRequest, "invalid_input"
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		status, code = fiber.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, models.ErrPermissionDenied):
		status, code = fiber.StatusForbidden, "permission_denied"
	case errors.Is(err, models.ErrNotFound):
		status, code = fiber.StatusNotFound, "not_found"
	case errors.Is(err, models.ErrConflict), errors.Is(err, auth.ErrEmailExists):
		status, code = fiber.StatusConflict, "conflict"
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		switch status {
		case fiber.StatusUnauthorized:
			code = "unauthenticated"
		case fiber.StatusForbidden:
			code = "permission_denied"
		case fiber.StatusNotFound:
			code = "not_found"
		default:
			if status < fiber.StatusInternalServerError {
				code = "invalid_input"
			}
		}
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("internal error", "path", c.Path(), "error", err)
		// Do not leak internals to the client.
		return c.Status(status).JSON(errorResponse(code, "internal server error"))
	}

	return c.Status(status).JSON(errorResponse(code, err.Error()))
}

func errorResponse(code, message string) fiber.Map {
	return fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	}
}
