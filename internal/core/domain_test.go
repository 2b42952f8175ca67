package core

import (
	"testing"
	"time"
)

func ts(day int) time.Time {
	return time.Date(2025, 3, day, 12, 0, 0, 0, time.UTC)
}

func TestParseProviderType(t *testing.T) {
	cases := []struct {
		in      string
		lenient bool
		want    ProviderType
		ok      bool
	}{
		{"Restaurant", false, ProviderRestaurant, true},
		{"  Supermarket ", false, ProviderSupermarket, true},
		{"Grocery Store", false, ProviderGrocery, true},
		{"Other", false, ProviderOther, true},
		{"Individual", false, "", false},
		{"Individual", true, ProviderOther, true},
		{"", false, "", false},
	}
	for i, tc := range cases {
		got, err := ParseProviderType(tc.in, tc.lenient)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d: got (%q, %v), want %q", i, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d: expected error for %q", i, tc.in)
		}
	}
}

func TestParseClaimStatus(t *testing.T) {
	for _, s := range []string{"Completed", "Cancelled", "Pending"} {
		if _, err := ParseClaimStatus(s); err != nil {
			t.Fatalf("expected %q to parse, got %v", s, err)
		}
	}
	if _, err := ParseClaimStatus("Lost"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestListingValidate(t *testing.T) {
	good := Listing{
		FoodName:     "Bread",
		Quantity:     5,
		ListedAt:     ts(1),
		ExpiresAt:    ts(3),
		ProviderID:   1,
		ProviderType: ProviderRestaurant,
		City:         "Austin",
		FoodType:     FoodVegetarian,
		MealType:     MealBreakfast,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Listing{
		func(l Listing) Listing { l.FoodName = " "; return l }(good),
		func(l Listing) Listing { l.Quantity = 0; return l }(good),
		func(l Listing) Listing { l.Quantity = -3; return l }(good),
		func(l Listing) Listing { l.ProviderType = "Bakery"; return l }(good),
		func(l Listing) Listing { l.ListedAt = time.Time{}; return l }(good),
		func(l Listing) Listing { l.ExpiresAt = time.Time{}; return l }(good),
		func(l Listing) Listing { l.ExpiresAt = ts(1).Add(-time.Hour); return l }(good),
	}
	for i, l := range bads {
		if err := l.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestClaimValidate(t *testing.T) {
	good := Claim{ListingID: 1, ReceiverID: 1, Status: ClaimPending, ClaimedAt: ts(2)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Claim{Status: "Open", ClaimedAt: ts(2)}).Validate(); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if err := (Claim{Status: ClaimPending}).Validate(); err == nil {
		t.Fatal("expected error for zero timestamp")
	}
}

func TestClaimedListingValidate(t *testing.T) {
	listing := Listing{
		FoodName:     "Rice",
		Quantity:     10,
		ListedAt:     ts(2),
		ExpiresAt:    ts(5),
		ProviderID:   1,
		ProviderType: ProviderSupermarket,
	}

	ok := ClaimedListing{
		Claim:   Claim{ListingID: 1, Status: ClaimCompleted, ClaimedAt: ts(3)},
		Listing: listing,
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	early := ClaimedListing{
		Claim:   Claim{ListingID: 1, Status: ClaimCompleted, ClaimedAt: ts(1)},
		Listing: listing,
	}
	if err := early.Validate(); err != ErrClaimBeforeListing {
		t.Fatalf("expected ErrClaimBeforeListing, got %v", err)
	}
}
