package main

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hexbrawl/server/internal/auth"
	"github.com/hexbrawl/server/internal/catalog"
	"github.com/hexbrawl/server/internal/config"
	"github.com/hexbrawl/server/internal/logger"
	"github.com/hexbrawl/server/internal/middleware"
	"github.com/hexbrawl/server/internal/repository"
	"github.com/hexbrawl/server/internal/repository/postgres"
	redisrepo "github.com/hexbrawl/server/internal/repository/redis"
	"github.com/hexbrawl/server/internal/server"
)

func main() {
	logger.Init()
	cfg := config.Load()

	cat := catalog.Default()
	if err := cat.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Catalogue integrity check failed")
	}

	// Match archive (optional)
	var sink repository.ResultSink = repository.NoopSink{}
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		matchRepo := postgres.NewMatchRepo(db)
		if err := matchRepo.Migrate(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Database migration failed")
		}
		sink = matchRepo
		log.Info().Msg("Match archive enabled")
	}

	// Leaderboard (optional)
	var board repository.Leaderboard = repository.NoopLeaderboard{}
	if cfg.RedisURL != "" {
		redisClient, err := redisrepo.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer redisClient.Close()
		board = redisClient
		log.Info().Msg("Leaderboard enabled")
	}

	secret := cfg.ResumeSecret
	if secret == "" {
		secret = randomSecret()
		log.Info().Msg("RESUME_SECRET not set, using per-process secret; resume tokens will not survive restarts")
	}

	srv := server.New(server.Options{
		Catalog:     cat,
		Resume:      auth.NewResumeManager(secret),
		Sink:        sink,
		Leaderboard: board,
	})

	root := middleware.Chain(srv.Routes(), middleware.Logger)

	httpSrv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     root,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := cryptorand.Read(b); err != nil {
		log.Fatal().Err(err).Msg("Failed to generate resume secret")
	}
	return hex.EncodeToString(b)
}
