package analytics

import (
	"testing"
	"time"

	"foodshare/internal/core"
)

func namedListing(id, providerID int64, name string, t core.ProviderType, qty int64, city string, meal core.MealType) core.Listing {
	return core.Listing{
		ID:           id,
		FoodName:     name,
		Quantity:     qty,
		ListedAt:     day(1),
		ExpiresAt:    day(9),
		ProviderID:   providerID,
		ProviderType: t,
		City:         city,
		FoodType:     core.FoodVegan,
		MealType:     meal,
	}
}

func TestTotalQuantityByType(t *testing.T) {
	listings := []core.Listing{
		namedListing(1, 1, "Bread", core.ProviderRestaurant, 10, "Austin", core.MealLunch),
		namedListing(2, 2, "Rice", core.ProviderSupermarket, 50, "Dallas", core.MealDinner),
		namedListing(3, 1, "Soup", core.ProviderRestaurant, 15, "Austin", core.MealLunch),
	}

	got := TotalQuantityByType(listings)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if got[0].Type != core.ProviderSupermarket || got[0].Quantity != 50 {
		t.Fatalf("expected Supermarket=50 first, got %+v", got[0])
	}
}

func TestCityActivity(t *testing.T) {
	providers := []core.Provider{
		{ID: 1, Name: "Mario's", Type: core.ProviderRestaurant, City: "Austin"},
		{ID: 2, Name: "FreshMart", Type: core.ProviderSupermarket, City: "Austin"},
		{ID: 3, Name: "Corner Shop", Type: core.ProviderGrocery, City: "Dallas"},
	}
	receivers := []core.Receiver{
		{ID: 1, Name: "Shelter A", City: "Dallas"},
	}
	listings := []core.Listing{
		namedListing(1, 1, "Bread", core.ProviderRestaurant, 5, "Austin", core.MealLunch),
	}

	got := CityActivity(providers, receivers, listings)
	if len(got) != 2 {
		t.Fatalf("expected 2 cities, got %d", len(got))
	}
	if got[0].City != "Austin" || got[0].Providers != 2 || got[0].Listings != 1 {
		t.Fatalf("unexpected first row %+v", got[0])
	}
	if got[1].Receivers != 1 {
		t.Fatalf("expected Dallas to have 1 receiver, got %+v", got[1])
	}
}

func TestMostActiveCity(t *testing.T) {
	listings := []core.Listing{
		namedListing(1, 1, "Bread", core.ProviderRestaurant, 5, "Austin", core.MealLunch),
		namedListing(2, 1, "Rice", core.ProviderRestaurant, 5, "Dallas", core.MealLunch),
		namedListing(3, 1, "Soup", core.ProviderRestaurant, 5, "Dallas", core.MealLunch),
	}
	city, count, ok := MostActiveCity(listings)
	if !ok || city != "Dallas" || count != 2 {
		t.Fatalf("got (%q, %d, %v), want (Dallas, 2, true)", city, count, ok)
	}

	if _, _, ok := MostActiveCity(nil); ok {
		t.Fatal("expected ok=false for empty input")
	}
}

func TestTopClaimedFoods(t *testing.T) {
	listings := []core.Listing{
		namedListing(1, 1, "Bread", core.ProviderRestaurant, 5, "Austin", core.MealLunch),
		namedListing(2, 1, "Rice", core.ProviderRestaurant, 5, "Austin", core.MealDinner),
	}
	claims := []core.Claim{
		{ID: 1, ListingID: 1, Status: core.ClaimCompleted, ClaimedAt: day(2)},
		{ID: 2, ListingID: 1, Status: core.ClaimCancelled, ClaimedAt: day(2)},
		{ID: 3, ListingID: 2, Status: core.ClaimPending, ClaimedAt: day(3)},
		{ID: 4, ListingID: 99, Status: core.ClaimPending, ClaimedAt: day(3)}, // dangling ref
	}

	got := TopClaimedFoods(claims, listings, 1)
	if len(got) != 1 || got[0].Name != "Bread" || got[0].Count != 2 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestCompletedClaimsByProvider(t *testing.T) {
	providers := []core.Provider{
		{ID: 1, Name: "Mario's", Type: core.ProviderRestaurant},
		{ID: 2, Name: "FreshMart", Type: core.ProviderSupermarket},
	}
	listings := []core.Listing{
		namedListing(1, 1, "Bread", core.ProviderRestaurant, 5, "Austin", core.MealLunch),
		namedListing(2, 2, "Rice", core.ProviderSupermarket, 5, "Austin", core.MealDinner),
	}
	claims := []core.Claim{
		{ID: 1, ListingID: 1, Status: core.ClaimCompleted, ClaimedAt: day(2)},
		{ID: 2, ListingID: 1, Status: core.ClaimCompleted, ClaimedAt: day(3)},
		{ID: 3, ListingID: 2, Status: core.ClaimPending, ClaimedAt: day(3)},
	}

	got := CompletedClaimsByProvider(claims, listings, providers, 5)
	if len(got) != 1 || got[0].Name != "Mario's" || got[0].Count != 2 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestMealTypeClaimCounts(t *testing.T) {
	listings := []core.Listing{
		namedListing(1, 1, "Bread", core.ProviderRestaurant, 5, "Austin", core.MealLunch),
		namedListing(2, 1, "Rice", core.ProviderRestaurant, 5, "Austin", core.MealDinner),
	}
	claims := []core.Claim{
		{ID: 1, ListingID: 1, Status: core.ClaimCompleted, ClaimedAt: day(2)},
		{ID: 2, ListingID: 2, Status: core.ClaimPending, ClaimedAt: day(2)},
	}

	all := MealTypeClaimCounts(claims, listings, false)
	if len(all) != 2 {
		t.Fatalf("expected 2 meal types, got %+v", all)
	}
	completed := MealTypeClaimCounts(claims, listings, true)
	if len(completed) != 1 || completed[0].Name != string(core.MealLunch) {
		t.Fatalf("expected only Lunch, got %+v", completed)
	}
}

func TestTotalAvailableQuantity(t *testing.T) {
	listings := []core.Listing{
		namedListing(1, 1, "Bread", core.ProviderRestaurant, 5, "Austin", core.MealLunch),
		namedListing(2, 1, "Rice", core.ProviderRestaurant, 10, "Austin", core.MealDinner),
	}
	listings[1].ExpiresAt = day(2)

	now := day(5)
	if got := TotalAvailableQuantity(listings, now); got != 5 {
		t.Fatalf("available = %d, want 5 (expired listing excluded)", got)
	}
	if got := TotalAvailableQuantity(listings, day(1).Add(time.Hour)); got != 15 {
		t.Fatalf("available = %d, want 15", got)
	}
}

func TestDonationsPerProvider(t *testing.T) {
	providers := []core.Provider{
		{ID: 1, Name: "Mario's", Type: core.ProviderRestaurant},
		{ID: 2, Name: "FreshMart", Type: core.ProviderSupermarket},
	}
	listings := []core.Listing{
		namedListing(1, 1, "Bread", core.ProviderRestaurant, 5, "Austin", core.MealLunch),
		namedListing(2, 2, "Rice", core.ProviderSupermarket, 50, "Austin", core.MealDinner),
		namedListing(3, 1, "Soup", core.ProviderRestaurant, 10, "Austin", core.MealLunch),
	}

	got := DonationsPerProvider(listings, providers, 10)
	if got[0].Name != "FreshMart" || got[0].Count != 50 {
		t.Fatalf("expected FreshMart=50 first, got %+v", got[0])
	}
	if got[1].Name != "Mario's" || got[1].Count != 15 {
		t.Fatalf("expected Mario's=15 second, got %+v", got[1])
	}
}
