package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/orderfeed/backend/internal/infrastructure/config"
	"github.com/orderfeed/backend/internal/infrastructure/logger"
	"github.com/orderfeed/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		logLevel    string
		storeTables bool
	)
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&storeTables, "store", false, "Also create the commerce store tables (local development only)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Database.LogLevel), cfg.Database.SlowThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch args[0] {
	case "up":
		if err := persistence.Migrate(ctx, db.DB, storeTables); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		if err := persistence.EnsureOrderStatus(ctx, db.DB, commerce.StatusShipped, "Shipped"); err != nil {
			log.Fatal("Failed to create shipped status", zap.Error(err))
		}
		log.Info("Migrations applied", zap.Bool("store_tables", storeTables))
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Fulfillment Feed Migration Tool

Usage:
  migrate [flags] <command>

Commands:
  up                    Create the shipping info table and the 'shipped' order status

Flags:
  -log-level string     Log level: debug, info, warn, error (default: info)
  -store                Also create the commerce store tables (local development only)

Environment Variables:
  FEED_DATABASE_HOST, FEED_DATABASE_PORT, FEED_DATABASE_USER,
  FEED_DATABASE_PASSWORD, FEED_DATABASE_DBNAME, FEED_DATABASE_SSLMODE`)
}
