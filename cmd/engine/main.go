package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/sheikh-saqib/payments-transaction-engine/internal/config"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/engine"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/events/kafka"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/logging"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/models"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/models/events"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/parser"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/storage/memory"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/storage/postgres"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/summary"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel)

	flag.Parse()
	inputPath := flag.Arg(0)
	if inputPath == "" {
		return fmt.Errorf("usage: engine <transactions.csv>")
	}

	// An unreadable input source is fatal before any engine state is built.
	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer input.Close()

	records, accounts, cleanup, err := buildStores(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var publisher interfaces.EventPublisher
	if cfg.AuditEnabled() {
		kp := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kp.Close()
		publisher = kp
	}

	eng := engine.New(records, accounts, publisher, cfg.KafkaTopic, logger)

	ctx := context.Background()
	feed := make(chan models.TransactionEvent, cfg.ChannelSize)
	parseErr := make(chan error, 1)
	go func() {
		parseErr <- parser.New(input, feed, logger).Run(ctx)
	}()

	if err := eng.Run(ctx, feed); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := <-parseErr; err != nil {
		return fmt.Errorf("parser: %w", err)
	}

	if err := summary.Write(os.Stdout, accounts); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	reportCompletion(eng, records, accounts, publisher, cfg.KafkaTopic, logger)
	return nil
}

// buildStores picks the store backend from configuration. Memory is the
// default; postgres keeps the same interfaces over lib/pq.
func buildStores(cfg config.Config) (interfaces.RecordStore, interfaces.AccountStore, func(), error) {
	if cfg.StoreBackend == config.BackendPostgres {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("ping database: %w", err)
		}
		if err := postgres.EnsureSchema(db); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return postgres.NewRecordStore(db), postgres.NewAccountStore(db), func() { db.Close() }, nil
	}

	return memory.NewRecordStore(), memory.NewAccountStore(), func() {}, nil
}

// reportCompletion logs run statistics and, when audit is enabled, publishes
// a RunCompleted event. Neither can fail the run at this point.
func reportCompletion(eng *engine.Engine, records interfaces.RecordStore, accounts interfaces.AccountStore, publisher interfaces.EventPublisher, topic string, logger *slog.Logger) {
	processed, rejected := eng.Stats()

	recordCount, err := records.Count()
	if err != nil {
		logger.Error("failed to count records", "error", err)
	}
	all, err := accounts.All()
	if err != nil {
		logger.Error("failed to list accounts", "error", err)
	}

	logger.Info("run completed",
		"accounts", len(all),
		"records", recordCount,
		"processed", processed,
		"rejected", rejected,
	)

	if publisher == nil {
		return
	}
	event := events.RunCompleted{
		RunID:       uuid.New().String(),
		Accounts:    len(all),
		Records:     recordCount,
		Processed:   processed,
		Rejected:    rejected,
		CompletedAt: time.Now().UTC(),
	}
	if err := publisher.Publish(topic, event); err != nil {
		logger.Error("failed to publish run completion", "error", err)
	}
}
