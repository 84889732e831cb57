package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/msomdec/skillbarter/internal/handler"
	"github.com/msomdec/skillbarter/internal/oracle"
	"github.com/msomdec/skillbarter/internal/repository/memory"
	"github.com/msomdec/skillbarter/internal/repository/sqlite"
	"github.com/msomdec/skillbarter/internal/service"
)

type config struct {
	port         string
	databasePath string
	jwtSecret    string
	geminiAPIKey string
	geminiModel  string
	bcryptCost   int
}

func loadConfig() (config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := config{
		port:         envOr("PORT", "8080"),
		databasePath: envOr("DATABASE_PATH", "skillbarter.db"),
		jwtSecret:    os.Getenv("JWT_SECRET"),
		geminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		geminiModel:  envOr("GEMINI_MODEL", oracle.DefaultModel),
	}

	if len(cfg.jwtSecret) < 32 {
		return cfg, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid BCRYPT_COST %q: %w", v, err)
		}
		cfg.bcryptCost = cost
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.New(cfg.databasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	accounts := memory.NewAccountRepository()
	matches := memory.NewMatchRepository()
	if err := memory.SeedCommunity(ctx, accounts); err != nil {
		return fmt.Errorf("seeding community: %w", err)
	}

	var advisor oracle.Advisor
	if cfg.geminiAPIKey != "" {
		gemini, err := oracle.NewGeminiAdvisor(ctx, cfg.geminiAPIKey, cfg.geminiModel)
		if err != nil {
			return fmt.Errorf("creating advisor: %w", err)
		}
		advisor = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI features disabled")
		advisor = oracle.Disabled{}
	}

	auth := service.NewAuthService(accounts, cfg.jwtSecret, cfg.bcryptCost)
	ledger := service.NewLedgerService(accounts)
	registry := service.NewMatchService(accounts, matches, advisor)
	assistant := service.NewAssistantService(accounts, advisor, logger)
	flows := service.NewFlowManager(ledger, registry, advisor, service.MonitorConfig{})

	h := handler.New(auth, ledger, registry, assistant, flows, db.Preferences())

	srv := &http.Server{
		Addr:         ":" + cfg.port,
		Handler:      handler.LogRequests(logger, h.Routes()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
