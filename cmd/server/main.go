package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/messagely/backend/internal/common/clock"
	"github.com/messagely/backend/internal/common/config"
	"github.com/messagely/backend/internal/common/constants"
	commoncrypto "github.com/messagely/backend/internal/common/crypto"
	"github.com/messagely/backend/internal/common/db"
	commonhttp "github.com/messagely/backend/internal/common/http"
	"github.com/messagely/backend/internal/common/httpmetrics"
	"github.com/messagely/backend/internal/common/jwtverify"
	"github.com/messagely/backend/internal/common/logger"
	srv "github.com/messagely/backend/internal/common/server"
	msghttp "github.com/messagely/backend/internal/message/http"
	msgrepo "github.com/messagely/backend/internal/message/repository"
	msgservice "github.com/messagely/backend/internal/message/service"
	userhttp "github.com/messagely/backend/internal/user/http"
	userrepo "github.com/messagely/backend/internal/user/repository"
	userservice "github.com/messagely/backend/internal/user/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "messagely", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := db.RunMigrations(context.Background(), cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)

	clk := clock.NewRealClock()
	hasher := commoncrypto.NewBcryptHasher(cfg.BcryptCost)

	users := userrepo.NewPgRepository(pool)
	messages := msgrepo.NewPgRepository(pool)

	directory := userservice.NewDirectory(users, hasher, clk, log)
	store := msgservice.NewStore(messages, users, clk, log)

	auth := jwtverify.Middleware(cfg.JWTSecret, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", commonhttp.HealthHandler(log))
	mux.Handle("GET /metrics", promhttp.Handler())

	userhttp.NewHandler(directory, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RequestTimeout, log).Register(mux, auth)
	msghttp.NewHandler(store, cfg.RequestTimeout, log).Register(mux, auth)

	handler := commonhttp.SecurityHeadersMiddleware(
		commonhttp.RecoveryMiddleware(log)(
			commonhttp.TraceIDMiddleware(
				commonhttp.MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)(
					httpmetrics.Wrap(mux),
				),
			),
		),
	)

	server := srv.New(cfg.HTTPPort, handler)

	hooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	}

	srv.StartWithGracefulShutdown(server, log, "messagely", hooks)
}
