// Package analytics computes the aggregate statistics shown on the
// dashboard. All functions are pure: they take immutable record slices,
// skip records that fail validation, and never return an error.
package analytics

import (
	"math"
	"sort"

	"foodshare/internal/core"
)

// TypeCount is a provider-type bucket with its listing count, ordered
// for display.
type TypeCount struct {
	Type  core.ProviderType
	Count int
}

// StatusShare is a claim-status bucket with its count and its fraction
// of all valid claims.
type StatusShare struct {
	Status   core.ClaimStatus
	Count    int
	Fraction float64
}

// ContributorCounts groups listings by provider type and counts them.
// Results are sorted by descending count, ties broken by type name so
// the output is deterministic. Invalid listings are skipped.
func ContributorCounts(listings []core.Listing) []TypeCount {
	counts := make(map[core.ProviderType]int)
	for _, l := range listings {
		if l.Validate() != nil {
			continue
		}
		counts[l.ProviderType]++
	}

	out := make([]TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// ClaimStatusDistribution counts claims per status and computes each
// status' fraction of the valid total. For non-empty input the
// fractions sum to 1 within floating tolerance. Empty or all-invalid
// input yields an empty slice.
func ClaimStatusDistribution(claims []core.Claim) []StatusShare {
	counts := make(map[core.ClaimStatus]int)
	total := 0
	for _, c := range claims {
		if c.Validate() != nil {
			continue
		}
		counts[c.Status]++
		total++
	}
	if total == 0 {
		return nil
	}

	out := make([]StatusShare, 0, len(counts))
	for s, n := range counts {
		out = append(out, StatusShare{
			Status:   s,
			Count:    n,
			Fraction: float64(n) / float64(total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// MedianQuantityByProvider computes the median listed quantity per
// provider type. Even-sized groups use the mean of the two middle
// values. The result does not depend on input order.
func MedianQuantityByProvider(listings []core.Listing) map[core.ProviderType]float64 {
	groups := make(map[core.ProviderType][]int64)
	for _, l := range listings {
		if l.Validate() != nil {
			continue
		}
		groups[l.ProviderType] = append(groups[l.ProviderType], l.Quantity)
	}

	medians := make(map[core.ProviderType]float64, len(groups))
	for t, qs := range groups {
		medians[t] = median(qs)
	}
	return medians
}

func median(values []int64) float64 {
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	n := len(values)
	if n%2 == 1 {
		return float64(values[n/2])
	}
	return float64(values[n/2-1]+values[n/2]) / 2
}

// AverageDaysToExpiry returns the mean number of days between a claim
// and its listing's expiry, over claims with the given status. The
// window can be fractional. Returns NaN when no claim matches, which
// callers report as an absent value.
func AverageDaysToExpiry(pairs []core.ClaimedListing, status core.ClaimStatus) float64 {
	var sum float64
	n := 0
	for _, p := range pairs {
		if p.Validate() != nil {
			continue
		}
		if p.Claim.Status != status {
			continue
		}
		sum += p.Listing.ExpiresAt.Sub(p.Claim.ClaimedAt).Hours() / 24
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
