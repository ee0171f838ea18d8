package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/services"
	"github.com/vncsmyrnk/polls/internal/logging"
	"go.uber.org/zap"
)

// votetally rebuilds every choice's vote counter from the ballot log.
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

	flag.StringVar(&cfg.Database.Host, "db-host", cfg.Database.Host, "Database host")
	flag.StringVar(&cfg.Database.Port, "db-port", cfg.Database.Port, "Database port")
	flag.StringVar(&cfg.Database.User, "db-user", cfg.Database.User, "Database user")
	flag.StringVar(&cfg.Database.Password, "db-pass", cfg.Database.Password, "Database password")
	flag.StringVar(&cfg.Database.Name, "db-name", cfg.Database.Name, "Database name")
	timeout := flag.Duration("timeout", 5*time.Minute, "Maximum run time")
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	tally := services.NewTallyService(postgres.NewQuestionRepository(db), postgres.NewVoteRepository(db), logger)

	logger.Info("starting vote tally")
	if err := tally.TallyAll(ctx); err != nil {
		logger.Error("vote tally failed", zap.Error(err))
		return err
	}
	return nil
}
