package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/penaltybox/penaltybox/internal/auth"
	"github.com/penaltybox/penaltybox/internal/config"
	"github.com/penaltybox/penaltybox/internal/files"
	"github.com/penaltybox/penaltybox/internal/leaderboard"
	"github.com/penaltybox/penaltybox/internal/server"
	"github.com/penaltybox/penaltybox/internal/settlement"
	"github.com/penaltybox/penaltybox/internal/storage/sqlite"
	"github.com/penaltybox/penaltybox/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	uploads, err := files.New(cfg.UploadDir)
	if err != nil {
		slog.Error("Failed to initialize upload storage", "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	engine := settlement.NewEngine(store)
	board := leaderboard.NewAggregator(store)

	srv := server.New(store, engine, board, authenticator, jwtManager, uploads)

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr)
	if err := srv.Listen(addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
