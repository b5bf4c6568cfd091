package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/smart_inventory/internal/config"
	"github.com/Skotchmaster/smart_inventory/internal/events"
	"github.com/Skotchmaster/smart_inventory/internal/httpserver"
	"github.com/Skotchmaster/smart_inventory/internal/repo"
	"github.com/Skotchmaster/smart_inventory/internal/service"
	"github.com/Skotchmaster/smart_inventory/internal/tokens"
	pkgconfig "github.com/Skotchmaster/smart_inventory/pkg/config"
	"github.com/Skotchmaster/smart_inventory/pkg/db"
	"github.com/Skotchmaster/smart_inventory/pkg/hash"
	"github.com/Skotchmaster/smart_inventory/pkg/logging"
)

func main() {
	for _, err := range pkgconfig.LoadDotEnv(".env") {
		slog.Warn("dotenv load failed", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	logger.Info("starting", "config", cfg.String())

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(ctx, cfg.DatabaseURL, db.Options{Driver: cfg.DBDriver, LogQueries: cfg.IsDevelopment() && cfg.LogLevel == "debug"})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Error("db close error", "error", err)
		}
	}()

	store := repo.New(gdb)
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	var publisher events.Publisher = events.Discard{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		publisher = prod
	} else {
		logger.Info("KAFKA_BROKERS empty, domain events disabled")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}()

	tokenSvc, err := tokens.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	hasher := hash.NewHasher(cfg.BcryptCost)

	deps := &httpserver.Deps{
		Tokens: tokenSvc,
		Ready:  httpserver.PingFunc(func(ctx context.Context) error { return db.Ping(ctx, gdb) }),
		Auth: &httpserver.AuthHandler{Svc: &service.AuthService{
			Users: store, Hasher: hasher, Tokens: tokenSvc, Events: publisher,
		}},
		Inventory: &httpserver.InventoryHandler{Svc: &service.InventoryService{
			Items: store, Events: publisher, DefaultThreshold: cfg.LowStockThreshold,
		}},
		Users: &httpserver.UserHandler{Svc: &service.UserService{
			Users: store, Events: publisher,
		}},
	}
	e := httpserver.New(httpserver.Options{
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		Debug:       cfg.IsDevelopment(),
	}, deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	stop()

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}
