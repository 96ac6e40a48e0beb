package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aksumer/aksumer-api/internal/auth"
	"github.com/aksumer/aksumer-api/internal/config"
	"github.com/aksumer/aksumer-api/internal/events"
	"github.com/aksumer/aksumer-api/internal/http_server/handlers/authtest"
	"github.com/aksumer/aksumer-api/internal/http_server/handlers/login"
	"github.com/aksumer/aksumer-api/internal/http_server/handlers/register"
	"github.com/aksumer/aksumer-api/internal/lib/api/apierror"
	"github.com/aksumer/aksumer-api/internal/lib/api/response"
	"github.com/aksumer/aksumer-api/internal/lib/jwt"
	"github.com/aksumer/aksumer-api/internal/middleware/authjwt"
	"github.com/aksumer/aksumer-api/internal/storage/postgres"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting aksumer-api", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	storage, err := postgres.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Error("failed to connect postgres", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	var publisher register.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		broker, err := events.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
		if err != nil {
			log.Error("failed to connect rabbitmq", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer broker.Close()
		publisher = broker
	}

	tokens := jwt.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL())

	authService := auth.New(log, storage, storage, tokens)

	router := setupRouter(log, authService, tokens, publisher)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("addr", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", slog.String("err", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", slog.String("err", err.Error()))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

func setupRouter(
	log *slog.Logger,
	authService *auth.Auth,
	tokens *jwt.Manager,
	publisher register.EventPublisher,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello, Aksumer-API!"))
	})
	r.Post("/register",
		register.New(log, authService, publisher),
	)
	r.Post("/login",
		login.New(log, authService),
	)
	r.With(authjwt.New(log, tokens)).Get("/auth-required",
		authtest.New(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Err(w, r, apierror.APINotFound())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Err(w, r, apierror.MethodNotAllowed())
	})

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
