// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tuitionbook/internal/config"
	"tuitionbook/internal/database"
	"tuitionbook/internal/handler"
	"tuitionbook/internal/repository"
	"tuitionbook/internal/service"
	"tuitionbook/internal/token"
)

var _envFile = flag.String("env", "", "path to .env file")

func main() {
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx := context.Background()

	cfg, err := config.Load(*_envFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// ── 1. Connect to PostgreSQL and migrate ──────────────────────────────
	pool, err := database.NewPool(ctx, logger, cfg.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(cfg.URL()); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	tokens, err := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}

	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	authSvc := service.NewAuthService(userRepo, tokens)
	sessionSvc := service.NewSessionService(sessionRepo)
	bookingSvc := service.NewBookingService(bookingRepo, sessionRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc, bookingSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.TraceID)
	r.Use(handler.AccessLog(logger))
	r.Use(handler.CORS)

	r.Get("/health", handler.HealthCheck)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Use(handler.RequireAuth(tokens))
		r.Get("/", sessionHandler.List)
		r.Post("/", sessionHandler.Create)
		r.Get("/teacher/{teacherId}", sessionHandler.ListByTeacher)
		r.Get("/{sessionId}/bookings", sessionHandler.ListBookings)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(handler.RequireAuth(tokens))
		r.Get("/", bookingHandler.List)
		r.Post("/", bookingHandler.Create)
	})

	// Static HTML dashboards served at the root.
	webFS := http.Dir("./web")
	r.Handle("/*", http.FileServer(webFS))

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort),
		Handler:      r,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
