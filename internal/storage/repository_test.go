package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"foodshare/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedProvider(t *testing.T, repo *SQLiteRepository) int64 {
	t.Helper()
	id, err := repo.CreateProvider(context.Background(), core.Provider{
		Name: "Mario's", Type: core.ProviderRestaurant, City: "Austin",
	})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}
	return id
}

func seedListing(t *testing.T, repo *SQLiteRepository, providerID int64) int64 {
	t.Helper()
	listedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	id, err := repo.CreateListing(context.Background(), core.Listing{
		FoodName:     "Bread",
		Quantity:     12,
		ListedAt:     listedAt,
		ExpiresAt:    listedAt.Add(72 * time.Hour),
		ProviderID:   providerID,
		ProviderType: core.ProviderRestaurant,
		City:         "Austin",
		FoodType:     core.FoodVegetarian,
		MealType:     core.MealBreakfast,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return id
}

func TestProviderRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := seedProvider(t, repo)
	got, err := repo.GetProvider(ctx, id)
	if err != nil {
		t.Fatalf("get provider: %v", err)
	}
	if got.Name != "Mario's" || got.Type != core.ProviderRestaurant {
		t.Fatalf("unexpected provider %+v", got)
	}

	n, err := repo.CountProviders(ctx)
	if err != nil || n != 1 {
		t.Fatalf("count = (%d, %v), want (1, nil)", n, err)
	}
}

func TestCreateProviderRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateProvider(context.Background(), core.Provider{Name: "", Type: core.ProviderOther})
	if err == nil {
		t.Fatal("expected validation error for empty name")
	}
}

func TestListingRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pid := seedProvider(t, repo)
	lid := seedListing(t, repo, pid)

	listings, err := repo.ListListings(ctx)
	if err != nil {
		t.Fatalf("list listings: %v", err)
	}
	if len(listings) != 1 || listings[0].ID != lid || listings[0].Quantity != 12 {
		t.Fatalf("unexpected listings %+v", listings)
	}
	if err := listings[0].Validate(); err != nil {
		t.Fatalf("loaded listing invalid: %v", err)
	}
}

func TestClaimInvariant(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pid := seedProvider(t, repo)
	lid := seedListing(t, repo, pid)

	rid, err := repo.CreateReceiver(ctx, core.Receiver{Name: "Shelter A", City: "Austin"})
	if err != nil {
		t.Fatalf("create receiver: %v", err)
	}

	// Claim before the listing's timestamp violates the invariant.
	_, err = repo.CreateClaim(ctx, core.Claim{
		ListingID:  lid,
		ReceiverID: rid,
		Status:     core.ClaimPending,
		ClaimedAt:  time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != core.ErrClaimBeforeListing {
		t.Fatalf("expected ErrClaimBeforeListing, got %v", err)
	}

	id, err := repo.CreateClaim(ctx, core.Claim{
		ListingID:  lid,
		ReceiverID: rid,
		Status:     core.ClaimPending,
		ClaimedAt:  time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}

	if err := repo.UpdateClaimStatus(ctx, id, core.ClaimCompleted); err != nil {
		t.Fatalf("update claim status: %v", err)
	}
	got, err := repo.GetClaim(ctx, id)
	if err != nil || got.Status != core.ClaimCompleted {
		t.Fatalf("claim = (%+v, %v), want Completed", got, err)
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pid := seedProvider(t, repo)
	lid := seedListing(t, repo, pid)
	rid, _ := repo.CreateReceiver(ctx, core.Receiver{Name: "Shelter A"})

	id, err := repo.CreateClaim(ctx, core.Claim{
		ListingID:  lid,
		ReceiverID: rid,
		Status:     core.ClaimCompleted,
		ClaimedAt:  time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}

	pending, err := repo.GetPendingSyncClaims(ctx, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending = (%v, %v), want one claim", pending, err)
	}

	if err := repo.MarkSynced(ctx, id); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err = repo.GetPendingSyncClaims(ctx, 10)
	if err != nil || len(pending) != 0 {
		t.Fatalf("pending after sync = (%v, %v), want empty", pending, err)
	}
}

func TestDeleteProviderCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pid := seedProvider(t, repo)
	seedListing(t, repo, pid)

	if err := repo.DeleteProvider(ctx, pid); err != nil {
		t.Fatalf("delete provider: %v", err)
	}
	listings, err := repo.ListListings(ctx)
	if err != nil {
		t.Fatalf("list listings: %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("expected cascade delete of listings, got %+v", listings)
	}
}

func TestDeleteProviderCascadesOnFreshConnection(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pid := seedProvider(t, repo)
	seedListing(t, repo, pid)

	// Hold the warm connection so the delete runs on a new one from
	// the pool, which must also enforce foreign keys.
	conn, err := repo.db.Conn(ctx)
	if err != nil {
		t.Fatalf("pin connection: %v", err)
	}
	if err := repo.DeleteProvider(ctx, pid); err != nil {
		conn.Close()
		t.Fatalf("delete provider: %v", err)
	}
	conn.Close()

	listings, err := repo.ListListings(ctx)
	if err != nil {
		t.Fatalf("list listings: %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("cascade did not run on pool connection: %+v", listings)
	}
}
