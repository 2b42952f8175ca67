package worker

import (
	"context"
	"fmt"
	"log/slog"

	"foodshare/internal/amqp"
	"foodshare/internal/log"
	"foodshare/internal/sheets"
	"foodshare/internal/storage"
)

// SyncWorker mirrors claims from SQLite into the shared claims report.
// It is driven by AMQP claim events, with a polling pass as backup for
// lost messages.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	report    sheets.ReportWriter
	reader    sheets.ReportReader
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, report sheets.ReportWriter, reader sheets.ReportReader, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		report:    report,
		reader:    reader,
		batchSize: batchSize,
	}
}

// HandleClaimEvent processes a single claim event from AMQP. Returning
// an error requeues the message.
func (w *SyncWorker) HandleClaimEvent(ctx context.Context, msg *amqp.ClaimEventMessage) error {
	slog.InfoContext(ctx, "Processing claim event",
		"id", msg.ID,
		"version", msg.Version)

	if err := w.syncClaim(ctx, msg.ID); err != nil {
		return fmt.Errorf("sync claim %d: %w", msg.ID, err)
	}

	return nil
}

// syncClaim loads the claim with its listing, appends the row to the
// report, and marks the claim synced.
func (w *SyncWorker) syncClaim(ctx context.Context, id int64) error {
	claim, err := w.storage.GetClaim(ctx, id)
	if err != nil {
		return fmt.Errorf("get claim from storage: %w", err)
	}

	listing, err := w.storage.GetListing(ctx, claim.ListingID)
	if err != nil {
		return fmt.Errorf("get listing from storage: %w", err)
	}

	ref, err := w.report.AppendClaim(ctx, claim, listing)
	if err != nil {
		return fmt.Errorf("append to report: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		slog.WarnContext(ctx, "Failed to mark claim as synced",
			log.FieldClaimID, id, log.FieldError, err)
		// The report row exists, leave the local flag for the next pass
	}

	slog.InfoContext(ctx, "Synced claim to report",
		log.FieldComponent, log.ComponentWorker,
		log.FieldClaimID, id,
		log.FieldSheetsRef, ref)

	return nil
}

// ProcessPendingClaims syncs claims that never made it to the report.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingClaims(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncClaims(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending claims: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending claims", "count", len(pending))

	for _, claim := range pending {
		if err := w.syncClaim(ctx, claim.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync claim", "id", claim.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, claim.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", claim.ID, "error", err)
			}
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog at worker startup. This
// recovers from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	if w.reader != nil {
		rows, err := w.reader.CountClaimRows(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Failed to count report rows", "error", err)
		} else {
			slog.InfoContext(ctx, "Claims report reachable", "rows", rows)
		}
	}

	// Larger batch for the startup pass
	pending, err := w.storage.GetPendingSyncClaims(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending claims for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending claims found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending claims on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, claim := range pending {
		if err := w.syncClaim(ctx, claim.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync claim during startup",
				"id", claim.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}
