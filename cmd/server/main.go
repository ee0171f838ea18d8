package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/polls/internal/adapters/handler/http"
	"github.com/vncsmyrnk/polls/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/services"
	"github.com/vncsmyrnk/polls/internal/logging"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flag.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	flag.BoolVar(&cfg.MigrateOnStart, "migrate", cfg.MigrateOnStart, "Apply pending migrations before serving")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		applied, err := postgres.Migrate(ctx, db)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", zap.Strings("files", applied))
	}

	questionRepo := postgres.NewQuestionRepository(db)
	voteRepo := postgres.NewVoteRepository(db)

	questionSvc := services.NewQuestionService(questionRepo, nil)
	voteSvc := services.NewVoteService(questionRepo, voteRepo, nil)

	metrics := http.NewMetrics()
	handlers := http.Handlers{
		Questions: http.NewQuestionHandler(questionSvc, logger),
		Votes:     http.NewVoteHandler(voteSvc, metrics, logger),
	}

	if cfg.AdminEnabled() {
		adminRepo := postgres.NewAdminRepository(db)
		authSvc := services.NewAuthService(adminRepo, postgres.NewAuthRepository(db), google.NewVerifier(), services.AuthConfig{
			JWTSecret:      []byte(cfg.Auth.JWTSecret),
			GoogleClientID: cfg.Auth.GoogleClientID,
			AdminEmails:    cfg.Auth.AdminEmails,
		})
		handlers.Auth = http.NewAuthHandler(authSvc, cfg.Auth.RedirectURL, http.CookieConfig{
			Domain:   cfg.Auth.CookieDomain,
			SameSite: cfg.Auth.CookieSameSite,
			Secure:   cfg.Auth.CookieSecure,
		}, logger)
		handlers.Admin = http.NewAdminHandler(services.NewAdminService(adminRepo), logger)
		handlers.Tokens = authSvc
	} else {
		logger.Warn("JWT_SECRET or ADMIN_EMAILS not set; admin endpoints will reject every request")
	}

	handler := http.NewHandler(handlers, http.RouterOptions{
		Logger:         logger,
		Metrics:        metrics,
		AllowedOrigins: cfg.CORSOrigins,
	})
	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
