package core

import (
	"errors"
	"strings"
	"time"
)

const (
	ProviderRestaurant  ProviderType = "Restaurant"
	ProviderSupermarket ProviderType = "Supermarket"
	ProviderGrocery     ProviderType = "Grocery Store"
	ProviderOther       ProviderType = "Other"
)

const (
	ClaimCompleted ClaimStatus = "Completed"
	ClaimCancelled ClaimStatus = "Cancelled"
	ClaimPending   ClaimStatus = "Pending"
)

const (
	FoodVegetarian    FoodType = "Vegetarian"
	FoodNonVegetarian FoodType = "Non-Vegetarian"
	FoodVegan         FoodType = "Vegan"
)

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnacks    MealType = "Snacks"
)

type (
	ProviderType string
	ClaimStatus  string
	FoodType     string
	MealType     string

	Provider struct {
		ID      int64
		Name    string
		Type    ProviderType
		Address string
		City    string
		Contact string
	}

	Receiver struct {
		ID      int64
		Name    string
		Type    string
		City    string
		Contact string
	}

	Listing struct {
		ID           int64
		FoodName     string
		Quantity     int64
		ListedAt     time.Time
		ExpiresAt    time.Time
		ProviderID   int64
		ProviderType ProviderType
		City         string
		FoodType     FoodType
		MealType     MealType
	}

	Claim struct {
		ID         int64
		ListingID  int64
		ReceiverID int64
		Status     ClaimStatus
		ClaimedAt  time.Time
	}

	// ClaimedListing pairs a claim with the listing it references,
	// the shape expiry statistics are computed over.
	ClaimedListing struct {
		Claim   Claim
		Listing Listing
	}
)

var (
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidProviderType = errors.New("invalid provider type")
	ErrInvalidClaimStatus  = errors.New("invalid claim status")
	ErrEmptyName           = errors.New("empty name")
	ErrZeroTimestamp       = errors.New("zero timestamp")
	ErrExpiryBeforeListing = errors.New("expiry precedes listing time")
	ErrClaimBeforeListing  = errors.New("claim precedes listing time")
)

// ParseProviderType maps a raw string to a ProviderType.
// The source dataset also carries provider types outside the known set
// (e.g. "Individual"); those fold into ProviderOther when lenient is
// true, otherwise parsing fails.
func ParseProviderType(s string, lenient bool) (ProviderType, error) {
	switch ProviderType(strings.TrimSpace(s)) {
	case ProviderRestaurant:
		return ProviderRestaurant, nil
	case ProviderSupermarket:
		return ProviderSupermarket, nil
	case ProviderGrocery:
		return ProviderGrocery, nil
	case ProviderOther:
		return ProviderOther, nil
	}
	if lenient {
		return ProviderOther, nil
	}
	return "", ErrInvalidProviderType
}

// ParseClaimStatus maps a raw string to a ClaimStatus.
func ParseClaimStatus(s string) (ClaimStatus, error) {
	switch ClaimStatus(strings.TrimSpace(s)) {
	case ClaimCompleted:
		return ClaimCompleted, nil
	case ClaimCancelled:
		return ClaimCancelled, nil
	case ClaimPending:
		return ClaimPending, nil
	}
	return "", ErrInvalidClaimStatus
}

// ProviderTypes lists the known provider types, in display order.
func ProviderTypes() []ProviderType {
	return []ProviderType{ProviderRestaurant, ProviderSupermarket, ProviderGrocery, ProviderOther}
}

// ClaimStatuses lists the claim states, in display order.
func ClaimStatuses() []ClaimStatus {
	return []ClaimStatus{ClaimPending, ClaimCompleted, ClaimCancelled}
}

func FoodTypes() []FoodType {
	return []FoodType{FoodVegetarian, FoodNonVegetarian, FoodVegan}
}

func MealTypes() []MealType {
	return []MealType{MealBreakfast, MealLunch, MealDinner, MealSnacks}
}

func (t ProviderType) Valid() bool {
	switch t {
	case ProviderRestaurant, ProviderSupermarket, ProviderGrocery, ProviderOther:
		return true
	}
	return false
}

func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimCompleted, ClaimCancelled, ClaimPending:
		return true
	}
	return false
}

func (p Provider) Validate() error {
	if len(strings.TrimSpace(p.Name)) == 0 {
		return ErrEmptyName
	}
	if len(p.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if !p.Type.Valid() {
		return ErrInvalidProviderType
	}
	return nil
}

func (r Receiver) Validate() error {
	if len(strings.TrimSpace(r.Name)) == 0 {
		return ErrEmptyName
	}
	if len(r.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	return nil
}

func (l Listing) Validate() error {
	if len(strings.TrimSpace(l.FoodName)) == 0 {
		return ErrEmptyName
	}
	if l.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !l.ProviderType.Valid() {
		return ErrInvalidProviderType
	}
	if l.ListedAt.IsZero() || l.ExpiresAt.IsZero() {
		return ErrZeroTimestamp
	}
	if l.ExpiresAt.Before(l.ListedAt) {
		return ErrExpiryBeforeListing
	}
	return nil
}

func (c Claim) Validate() error {
	if !c.Status.Valid() {
		return ErrInvalidClaimStatus
	}
	if c.ClaimedAt.IsZero() {
		return ErrZeroTimestamp
	}
	return nil
}

// Validate checks the claim, the listing, and the cross-record invariant
// that a claim cannot precede the listing it references.
func (cl ClaimedListing) Validate() error {
	if err := cl.Listing.Validate(); err != nil {
		return err
	}
	if err := cl.Claim.Validate(); err != nil {
		return err
	}
	if cl.Claim.ClaimedAt.Before(cl.Listing.ListedAt) {
		return ErrClaimBeforeListing
	}
	return nil
}
