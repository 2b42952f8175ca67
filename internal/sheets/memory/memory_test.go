package memory

import (
	"context"
	"testing"
	"time"

	"foodshare/internal/core"
)

func TestReportAppendAndCount(t *testing.T) {
	r := NewReport()
	ctx := context.Background()

	listedAt := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	listing := core.Listing{
		ID:           1,
		FoodName:     "Soup",
		Quantity:     4,
		ListedAt:     listedAt,
		ExpiresAt:    listedAt.Add(48 * time.Hour),
		ProviderID:   1,
		ProviderType: core.ProviderRestaurant,
	}
	claim := core.Claim{ID: 7, ListingID: 1, Status: core.ClaimCompleted, ClaimedAt: listedAt.Add(time.Hour)}

	ref, err := r.AppendClaim(ctx, claim, listing)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("ref = %q, want mem:1", ref)
	}

	n, err := r.CountClaimRows(ctx)
	if err != nil || n != 1 {
		t.Fatalf("count = (%d, %v), want (1, nil)", n, err)
	}
	if rows := r.Rows(); rows[0].Claim.ID != 7 {
		t.Fatalf("unexpected stored row %+v", rows[0])
	}
}

func TestReportAppendRejectsInvalidClaim(t *testing.T) {
	r := NewReport()
	_, err := r.AppendClaim(context.Background(), core.Claim{Status: "Bogus"}, core.Listing{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if n, _ := r.CountClaimRows(context.Background()); n != 0 {
		t.Fatalf("count = %d, want 0", n)
	}
}
