package analytics

import (
	"sort"
	"time"

	"foodshare/internal/core"
)

// TypeQuantity is a provider-type bucket with its total donated quantity.
type TypeQuantity struct {
	Type     core.ProviderType
	Quantity int64
}

// NameCount is a generic name/count row for display tables.
type NameCount struct {
	Name  string
	Count int
}

// CityCounts aggregates provider, receiver and listing counts per city.
type CityCounts struct {
	City      string
	Providers int
	Receivers int
	Listings  int
}

// TotalQuantityByType sums listed quantity per provider type, sorted by
// descending total. The first entry is the top contributor.
func TotalQuantityByType(listings []core.Listing) []TypeQuantity {
	sums := make(map[core.ProviderType]int64)
	for _, l := range listings {
		if l.Validate() != nil {
			continue
		}
		sums[l.ProviderType] += l.Quantity
	}

	out := make([]TypeQuantity, 0, len(sums))
	for t, q := range sums {
		out = append(out, TypeQuantity{Type: t, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// FoodTypeCounts counts listings per food type, descending.
func FoodTypeCounts(listings []core.Listing) []NameCount {
	counts := make(map[string]int)
	for _, l := range listings {
		if l.Validate() != nil {
			continue
		}
		counts[string(l.FoodType)]++
	}
	return sortedCounts(counts, 0)
}

// CityActivity merges provider, receiver and listing counts per city,
// sorted by provider count then city name.
func CityActivity(providers []core.Provider, receivers []core.Receiver, listings []core.Listing) []CityCounts {
	byCity := make(map[string]*CityCounts)
	get := func(city string) *CityCounts {
		if city == "" {
			city = "Unknown"
		}
		c, ok := byCity[city]
		if !ok {
			c = &CityCounts{City: city}
			byCity[city] = c
		}
		return c
	}

	for _, p := range providers {
		if p.Validate() != nil {
			continue
		}
		get(p.City).Providers++
	}
	for _, r := range receivers {
		if r.Validate() != nil {
			continue
		}
		get(r.City).Receivers++
	}
	for _, l := range listings {
		if l.Validate() != nil {
			continue
		}
		get(l.City).Listings++
	}

	out := make([]CityCounts, 0, len(byCity))
	for _, c := range byCity {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Providers != out[j].Providers {
			return out[i].Providers > out[j].Providers
		}
		return out[i].City < out[j].City
	})
	return out
}

// MostActiveCity returns the city with the most listings and its count.
// ok is false when there are no valid listings.
func MostActiveCity(listings []core.Listing) (city string, count int, ok bool) {
	counts := make(map[string]int)
	for _, l := range listings {
		if l.Validate() != nil {
			continue
		}
		counts[l.City]++
	}
	for c, n := range counts {
		if n > count || (n == count && (city == "" || c < city)) {
			city, count = c, n
		}
	}
	return city, count, count > 0
}

// TopClaimedFoods counts claims per food name and returns the n most
// claimed items. n <= 0 returns all.
func TopClaimedFoods(claims []core.Claim, listings []core.Listing, n int) []NameCount {
	byID := listingIndex(listings)
	counts := make(map[string]int)
	for _, c := range claims {
		if c.Validate() != nil {
			continue
		}
		l, ok := byID[c.ListingID]
		if !ok {
			continue
		}
		counts[l.FoodName]++
	}
	return sortedCounts(counts, n)
}

// CompletedClaimsByProvider counts completed claims per provider name,
// the original dashboard's "most successful providers" table.
func CompletedClaimsByProvider(claims []core.Claim, listings []core.Listing, providers []core.Provider, n int) []NameCount {
	byID := listingIndex(listings)
	providerName := make(map[int64]string, len(providers))
	for _, p := range providers {
		providerName[p.ID] = p.Name
	}

	counts := make(map[string]int)
	for _, c := range claims {
		if c.Validate() != nil || c.Status != core.ClaimCompleted {
			continue
		}
		l, ok := byID[c.ListingID]
		if !ok {
			continue
		}
		name, ok := providerName[l.ProviderID]
		if !ok {
			continue
		}
		counts[name]++
	}
	return sortedCounts(counts, n)
}

// MealTypeClaimCounts counts claims per meal type, optionally only
// completed ones.
func MealTypeClaimCounts(claims []core.Claim, listings []core.Listing, onlyCompleted bool) []NameCount {
	byID := listingIndex(listings)
	counts := make(map[string]int)
	for _, c := range claims {
		if c.Validate() != nil {
			continue
		}
		if onlyCompleted && c.Status != core.ClaimCompleted {
			continue
		}
		l, ok := byID[c.ListingID]
		if !ok {
			continue
		}
		counts[string(l.MealType)]++
	}
	return sortedCounts(counts, 0)
}

// TotalAvailableQuantity sums the quantity of listings that have not
// expired as of now.
func TotalAvailableQuantity(listings []core.Listing, now time.Time) int64 {
	var total int64
	for _, l := range listings {
		if l.Validate() != nil {
			continue
		}
		if l.ExpiresAt.Before(now) {
			continue
		}
		total += l.Quantity
	}
	return total
}

// DonationsPerProvider sums donated quantity per provider name,
// descending, limited to n rows (n <= 0 for all).
func DonationsPerProvider(listings []core.Listing, providers []core.Provider, n int) []NameCount {
	providerName := make(map[int64]string, len(providers))
	for _, p := range providers {
		providerName[p.ID] = p.Name
	}

	sums := make(map[string]int)
	for _, l := range listings {
		if l.Validate() != nil {
			continue
		}
		name, ok := providerName[l.ProviderID]
		if !ok {
			continue
		}
		sums[name] += int(l.Quantity)
	}
	return sortedCounts(sums, n)
}

// JoinClaims pairs each claim with its listing, dropping claims whose
// listing is missing. The result feeds AverageDaysToExpiry.
func JoinClaims(claims []core.Claim, listings []core.Listing) []core.ClaimedListing {
	byID := listingIndex(listings)
	out := make([]core.ClaimedListing, 0, len(claims))
	for _, c := range claims {
		l, ok := byID[c.ListingID]
		if !ok {
			continue
		}
		out = append(out, core.ClaimedListing{Claim: c, Listing: l})
	}
	return out
}

func listingIndex(listings []core.Listing) map[int64]core.Listing {
	byID := make(map[int64]core.Listing, len(listings))
	for _, l := range listings {
		if l.Validate() != nil {
			continue
		}
		byID[l.ID] = l
	}
	return byID
}

func sortedCounts(counts map[string]int, n int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, NameCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
