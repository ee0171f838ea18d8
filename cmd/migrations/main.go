package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/logging"
	"go.uber.org/zap"
)

// Usage: migrations [name]. Without a name every pending migration runs.
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
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if name := flag.Arg(0); name != "" {
		file, ran, err := postgres.MigrateOne(ctx, db, name)
		if err != nil {
			return err
		}
		logger.Info("migration processed", zap.String("file", file), zap.Bool("applied", ran))
		return nil
	}

	applied, err := postgres.Migrate(ctx, db)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", zap.Strings("files", applied))
	return nil
}
