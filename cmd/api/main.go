package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"canteen-counter/internal/auth"
	"canteen-counter/internal/cart"
	"canteen-counter/internal/config"
	"canteen-counter/internal/database"
	"canteen-counter/internal/handler"
	"canteen-counter/internal/repository"
	"canteen-counter/internal/router"
	"canteen-counter/internal/service"
	"canteen-counter/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting canteen-counter API server")

	// Context cancelled on SIGINT/SIGTERM drives the whole shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Repositories
	menuRepo := repository.NewMenuRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	staffRepo := repository.NewStaffRepository(pool, logger)

	// Change notification fan-out
	hub := sync.NewHub(logger)
	listener := sync.NewListener(pool, hub, logger)

	// Session carts
	carts := cart.NewStore(logger)

	// Auth
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Services
	catalogService := service.NewCatalogService(menuRepo, auth.HasStaffCapability, logger)
	orderService := service.NewOrderService(orderRepo, auth.HasStaffCapability, logger)
	authService := service.NewAuthService(staffRepo, issuer, logger)

	// HTTP handlers
	handlers := router.Handlers{
		Auth:   handler.NewAuthHandler(authService, logger),
		Menu:   handler.NewMenuHandler(catalogService, logger),
		Cart:   handler.NewCartHandler(carts, catalogService, logger),
		Order:  handler.NewOrderHandler(orderService, carts, logger),
		Events: handler.NewEventsHandler(hub, logger),
	}

	mux := router.New(handlers, issuer, logger)

	server := &http.Server{
		Addr:        cfg.Server.Address(),
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No WriteTimeout: the event stream endpoint holds its response
		// open for the life of the client.
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := listener.Run(gctx); err != nil && gctx.Err() == nil {
			return fmt.Errorf("change listener error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				carts.Prune(cfg.Cart.IdleTimeout)
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info().Msg("server shutdown completed")
	return nil
}
