// Command policymap-import loads a bills CSV export into the SQLite store and, when
// AMQP is configured, asks running servers to reload.
package main

import (
	"context"
	"flag"
	"os"

	"policymap/internal/amqp"
	"policymap/internal/cli"
	"policymap/internal/log"
	"policymap/internal/sources/csvfile"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.MustLoadConfig()

	csvPath := flag.String("csv", cfg.BillsCSVPath, "bills CSV export to import")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "SQLite database to replace")
	notify := flag.Bool("notify", cfg.AMQPEnabled(), "publish a reload request after importing")
	flag.Parse()

	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(log.ComponentImport)

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	bills, err := csvfile.New(*csvPath).ReadBills(ctx)
	if err != nil {
		logger.Error("Failed to read bills", "error", err, "path", *csvPath)
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, *dbPath)
	defer repo.Close()

	if err := repo.ReplaceBills(ctx, bills); err != nil {
		logger.Error("Failed to store bills", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	stored, err := repo.CountBills(ctx)
	if err != nil {
		logger.Error("Failed to count stored bills", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	logger.Info("Imported bills", log.FieldOperation, log.OpImport, "rows", len(bills), "stored", stored, "db", *dbPath)

	if !*notify {
		return
	}
	if !cfg.AMQPEnabled() {
		logger.Warn("Reload notification requested but AMQP_URL is not set")
		return
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := client.PublishReloadRequest(ctx, "import", "policymap-import"); err != nil {
		logger.Error("Failed to publish reload request", "error", err)
		os.Exit(1)
	}
	logger.Info("Reload requested", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
}
