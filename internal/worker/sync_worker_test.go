package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"foodshare/internal/amqp"
	"foodshare/internal/core"
	"foodshare/internal/sheets/memory"
	"foodshare/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedClaim(t *testing.T, repo *storage.SQLiteRepository) int64 {
	t.Helper()
	ctx := context.Background()

	providerID, err := repo.CreateProvider(ctx, core.Provider{
		Name: "Fresh Mart", Type: core.ProviderSupermarket, City: "Springfield",
	})
	if err != nil {
		t.Fatalf("CreateProvider: %v", err)
	}

	listingID, err := repo.CreateListing(ctx, core.Listing{
		FoodName:     "Bread",
		Quantity:     20,
		ListedAt:     time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		ExpiresAt:    time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC),
		ProviderID:   providerID,
		ProviderType: core.ProviderSupermarket,
		City:         "Springfield",
		FoodType:     core.FoodVegetarian,
		MealType:     core.MealBreakfast,
	})
	if err != nil {
		t.Fatalf("CreateListing: %v", err)
	}

	receiverID, err := repo.CreateReceiver(ctx, core.Receiver{Name: "Shelter", City: "Springfield"})
	if err != nil {
		t.Fatalf("CreateReceiver: %v", err)
	}

	claimID, err := repo.CreateClaim(ctx, core.Claim{
		ListingID:  listingID,
		ReceiverID: receiverID,
		Status:     core.ClaimPending,
		ClaimedAt:  time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}
	return claimID
}

func TestHandleClaimEvent(t *testing.T) {
	repo := newTestRepo(t)
	report := memory.NewReport()
	w := NewSyncWorker(repo, report, report, 25)
	ctx := context.Background()

	claimID := seedClaim(t, repo)

	msg := amqp.NewClaimEventMessage(claimID, 1)
	if err := w.HandleClaimEvent(ctx, msg); err != nil {
		t.Fatalf("HandleClaimEvent: %v", err)
	}

	rows := report.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 report row, got %d", len(rows))
	}
	if rows[0].Claim.ID != claimID || rows[0].Listing.FoodName != "Bread" {
		t.Errorf("unexpected report row: %+v", rows[0])
	}

	// The claim should no longer be pending sync
	pending, err := repo.GetPendingSyncClaims(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncClaims: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending claims after sync, got %d", len(pending))
	}
}

func TestHandleClaimEventUnknownClaim(t *testing.T) {
	repo := newTestRepo(t)
	report := memory.NewReport()
	w := NewSyncWorker(repo, report, report, 25)

	msg := amqp.NewClaimEventMessage(999, 1)
	if err := w.HandleClaimEvent(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown claim")
	}
}

func TestStartupSyncCheckDrainsBacklog(t *testing.T) {
	repo := newTestRepo(t)
	report := memory.NewReport()
	w := NewSyncWorker(repo, report, report, 25)
	ctx := context.Background()

	seedClaim(t, repo)

	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}

	if got, _ := report.CountClaimRows(ctx); got != 1 {
		t.Errorf("report rows = %d, want 1", got)
	}

	pending, err := repo.GetPendingSyncClaims(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncClaims: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected backlog drained, got %d pending", len(pending))
	}
}

func TestProcessPendingClaimsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	report := memory.NewReport()
	w := NewSyncWorker(repo, report, report, 25)

	if err := w.ProcessPendingClaims(context.Background()); err != nil {
		t.Fatalf("ProcessPendingClaims on empty db: %v", err)
	}
	if len(report.Rows()) != 0 {
		t.Errorf("expected no rows, got %d", len(report.Rows()))
	}
}
