package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodshare/internal/amqp"
	"foodshare/internal/cli"
	"foodshare/internal/sheets"
	gsheet "foodshare/internal/sheets/google"
	"foodshare/internal/sheets/memory"
	"foodshare/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting foodshare-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// SQLite repository holds the claims to mirror
	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	// Report destination: Google Sheets when configured, otherwise an
	// in-memory report that only proves the pipeline end to end.
	var (
		reportWriter sheets.ReportWriter
		reportReader sheets.ReportReader
	)
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		reportWriter, reportReader = client, client
		logger.Info("Google Sheets report initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		report := memory.NewReport()
		reportWriter, reportReader = report, report
		logger.Info("Google Sheets disabled - using in-memory report (no GOOGLE_SPREADSHEET_ID)")
	}

	// AMQP client for consuming claim events
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncWorker := worker.NewSyncWorker(sqliteRepo, reportWriter, reportReader, cfg.SyncBatchSize)

	// On startup, process any pending claims that might have been missed
	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
		// Don't exit - continue with normal operation
	}

	go func() {
		if err := amqpClient.ConsumeClaimEvents(ctx, syncWorker.HandleClaimEvent); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Periodic sync for any missed messages
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := syncWorker.ProcessPendingClaims(ctx); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			}
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
