package analytics

import (
	"math"
	"testing"
	"time"

	"foodshare/internal/core"
)

func day(d int) time.Time {
	return time.Date(2025, 4, d, 10, 0, 0, 0, time.UTC)
}

func listing(id int64, t core.ProviderType, qty int64) core.Listing {
	return core.Listing{
		ID:           id,
		FoodName:     "Item",
		Quantity:     qty,
		ListedAt:     day(1),
		ExpiresAt:    day(10),
		ProviderID:   1,
		ProviderType: t,
		City:         "Austin",
		FoodType:     core.FoodVegetarian,
		MealType:     core.MealLunch,
	}
}

func TestContributorCounts(t *testing.T) {
	listings := []core.Listing{
		listing(1, core.ProviderRestaurant, 5),
		listing(2, core.ProviderRestaurant, 7),
		listing(3, core.ProviderSupermarket, 3),
		listing(4, core.ProviderRestaurant, 1),
		listing(5, core.ProviderGrocery, 9),
		{FoodName: "bad", Quantity: -1, ProviderType: core.ProviderOther}, // skipped
	}

	got := ContributorCounts(listings)
	if len(got) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(got))
	}
	if got[0].Type != core.ProviderRestaurant || got[0].Count != 3 {
		t.Fatalf("expected Restaurant=3 first, got %+v", got[0])
	}

	// Counts must sum to the number of valid listings.
	sum := 0
	for _, tc := range got {
		sum += tc.Count
	}
	if sum != 5 {
		t.Fatalf("counts sum to %d, want 5", sum)
	}
}

func TestContributorCountsEmpty(t *testing.T) {
	if got := ContributorCounts(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestClaimStatusDistribution(t *testing.T) {
	claims := []core.Claim{
		{Status: core.ClaimCompleted, ClaimedAt: day(2)},
		{Status: core.ClaimCompleted, ClaimedAt: day(3)},
		{Status: core.ClaimPending, ClaimedAt: day(3)},
		{Status: core.ClaimCancelled, ClaimedAt: day(4)},
		{Status: "Unknown", ClaimedAt: day(4)}, // skipped
	}

	got := ClaimStatusDistribution(claims)
	if len(got) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(got))
	}
	if got[0].Status != core.ClaimCompleted || got[0].Count != 2 {
		t.Fatalf("expected Completed=2 first, got %+v", got[0])
	}

	var total float64
	for _, s := range got {
		total += s.Fraction
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Fatalf("fractions sum to %v, want 1.0", total)
	}
}

func TestClaimStatusDistributionEmpty(t *testing.T) {
	if got := ClaimStatusDistribution(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestMedianQuantityByProvider(t *testing.T) {
	listings := []core.Listing{
		listing(1, core.ProviderRestaurant, 10),
		listing(2, core.ProviderRestaurant, 20),
		listing(3, core.ProviderRestaurant, 30),
		listing(4, core.ProviderSupermarket, 4),
		listing(5, core.ProviderSupermarket, 8),
	}

	got := MedianQuantityByProvider(listings)
	if got[core.ProviderRestaurant] != 20 {
		t.Fatalf("Restaurant median = %v, want 20", got[core.ProviderRestaurant])
	}
	// Even-sized group: mean of the two middle values.
	if got[core.ProviderSupermarket] != 6 {
		t.Fatalf("Supermarket median = %v, want 6", got[core.ProviderSupermarket])
	}
}

func TestMedianInvariantUnderReordering(t *testing.T) {
	a := []core.Listing{
		listing(1, core.ProviderGrocery, 7),
		listing(2, core.ProviderGrocery, 1),
		listing(3, core.ProviderGrocery, 42),
		listing(4, core.ProviderGrocery, 3),
	}
	b := []core.Listing{a[2], a[0], a[3], a[1]}

	ma := MedianQuantityByProvider(a)
	mb := MedianQuantityByProvider(b)
	if ma[core.ProviderGrocery] != mb[core.ProviderGrocery] {
		t.Fatalf("median depends on order: %v vs %v", ma, mb)
	}
	if ma[core.ProviderGrocery] != 5 {
		t.Fatalf("median = %v, want 5", ma[core.ProviderGrocery])
	}
}

func TestAverageDaysToExpiry(t *testing.T) {
	l := listing(1, core.ProviderRestaurant, 5)
	l.ExpiresAt = day(8)

	pairs := []core.ClaimedListing{
		{Claim: core.Claim{ListingID: 1, Status: core.ClaimCompleted, ClaimedAt: day(2)}, Listing: l}, // 6 days
		{Claim: core.Claim{ListingID: 1, Status: core.ClaimCompleted, ClaimedAt: day(6)}, Listing: l}, // 2 days
		{Claim: core.Claim{ListingID: 1, Status: core.ClaimPending, ClaimedAt: day(3)}, Listing: l},   // filtered out
	}

	got := AverageDaysToExpiry(pairs, core.ClaimCompleted)
	if math.Abs(got-4) > 1e-9 {
		t.Fatalf("average = %v, want 4", got)
	}
}

func TestAverageDaysToExpiryNoMatches(t *testing.T) {
	l := listing(1, core.ProviderRestaurant, 5)
	pairs := []core.ClaimedListing{
		{Claim: core.Claim{ListingID: 1, Status: core.ClaimPending, ClaimedAt: day(2)}, Listing: l},
	}

	got := AverageDaysToExpiry(pairs, core.ClaimCompleted)
	if !math.IsNaN(got) {
		t.Fatalf("expected NaN when no claim matches, got %v", got)
	}
	if !math.IsNaN(AverageDaysToExpiry(nil, core.ClaimCompleted)) {
		t.Fatal("expected NaN for empty input")
	}
}

func TestAverageDaysToExpirySkipsInvalidPairs(t *testing.T) {
	l := listing(1, core.ProviderRestaurant, 5)
	l.ExpiresAt = day(4)

	pairs := []core.ClaimedListing{
		// Claim precedes the listing: invariant violation, skipped.
		{Claim: core.Claim{ListingID: 1, Status: core.ClaimCompleted, ClaimedAt: day(1).Add(-48 * time.Hour)}, Listing: l},
		{Claim: core.Claim{ListingID: 1, Status: core.ClaimCompleted, ClaimedAt: day(2)}, Listing: l},
	}

	got := AverageDaysToExpiry(pairs, core.ClaimCompleted)
	if math.Abs(got-2) > 1e-9 {
		t.Fatalf("average = %v, want 2 (invalid pair skipped)", got)
	}
}
