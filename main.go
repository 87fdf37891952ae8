package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := loadConfig()
	if err != nil {
		log.Fatalf("Could not load config: %v\n", err)
	}

	logger := newLogger(os.Stdout, config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store, err := NewPostgresStore(ctx, config.Database.ConnString())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	logger.Info("connected to database", "host", config.Database.Host, "name", config.Database.Name)

	var publisher EventPublisher = NoopPublisher{}
	if config.RabbitMQURL != "" {
		rabbit, err := NewRabbitMQPublisher(config.RabbitMQURL, logger)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		publisher = rabbit
	}

	h := NewHandler(
		NewAuthService(store, config.JWTSecret),
		NewDistributionService(store, publisher, logger),
		NewNotifier(NewSMTPMailer(config.SMTP), logger),
		logger,
	)

	mux := chi.NewRouter()
	RegisterRouters(mux, h, config.AllowedOrigins)

	srv := &http.Server{
		Addr:              config.ListenAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
