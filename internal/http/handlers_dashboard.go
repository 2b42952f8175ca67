package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"foodshare/internal/analytics"
	"foodshare/internal/core"
	"foodshare/internal/log"
)

// dashboardData carries everything the dashboard partial renders. All
// of it derives from full listing and claim scans, hence the cache.
type dashboardData struct {
	Contributors  []analytics.TypeCount
	StatusShares  []statusRow
	Medians       []medianRow
	AvgDays       string
	TotalByType   []analytics.TypeQuantity
	FoodTypes     []analytics.NameCount
	TopFoods      []analytics.NameCount
	TopProviders  []analytics.NameCount
	Donations     []analytics.NameCount
	MealClaims    []analytics.NameCount
	Cities        []analytics.CityCounts
	BusiestCity   string
	BusiestCount  int
	AvailableQty  int64
	ListingCount  int
	ClaimCount    int
	ProviderCount int
}

type statusRow struct {
	Status  core.ClaimStatus
	Count   int
	Percent string
}

type medianRow struct {
	Type   core.ProviderType
	Median string
}

func (s *Server) getDashboard(ctx context.Context) (dashboardData, error) {
	if data, found := s.dashCache.Get(dashCacheKey); found {
		slog.DebugContext(ctx, "Dashboard cache hit")
		return data, nil
	}

	// Small timeout to avoid hanging partials
	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	providers, err := s.store.ListProviders(cctx)
	if err != nil {
		return dashboardData{}, fmt.Errorf("list providers: %w", err)
	}
	receivers, err := s.store.ListReceivers(cctx)
	if err != nil {
		return dashboardData{}, fmt.Errorf("list receivers: %w", err)
	}
	listings, err := s.store.ListListings(cctx)
	if err != nil {
		return dashboardData{}, fmt.Errorf("list listings: %w", err)
	}
	claims, err := s.store.ListClaims(cctx)
	if err != nil {
		return dashboardData{}, fmt.Errorf("list claims: %w", err)
	}

	data := buildDashboard(providers, receivers, listings, claims, time.Now())

	s.dashCache.Set(dashCacheKey, data)
	slog.DebugContext(ctx, "Dashboard cached",
		"listings", data.ListingCount,
		"claims", data.ClaimCount)
	return data, nil
}

func buildDashboard(providers []core.Provider, receivers []core.Receiver, listings []core.Listing, claims []core.Claim, now time.Time) dashboardData {
	data := dashboardData{
		Contributors:  analytics.ContributorCounts(listings),
		TotalByType:   analytics.TotalQuantityByType(listings),
		FoodTypes:     analytics.FoodTypeCounts(listings),
		TopFoods:      analytics.TopClaimedFoods(claims, listings, 5),
		TopProviders:  analytics.CompletedClaimsByProvider(claims, listings, providers, 5),
		Donations:     analytics.DonationsPerProvider(listings, providers, 5),
		MealClaims:    analytics.MealTypeClaimCounts(claims, listings, true),
		Cities:        analytics.CityActivity(providers, receivers, listings),
		AvailableQty:  analytics.TotalAvailableQuantity(listings, now),
		ListingCount:  len(listings),
		ClaimCount:    len(claims),
		ProviderCount: len(providers),
	}

	for _, share := range analytics.ClaimStatusDistribution(claims) {
		data.StatusShares = append(data.StatusShares, statusRow{
			Status:  share.Status,
			Count:   share.Count,
			Percent: fmt.Sprintf("%.1f%%", share.Fraction*100),
		})
	}

	medians := analytics.MedianQuantityByProvider(listings)
	for _, t := range core.ProviderTypes() {
		if m, ok := medians[t]; ok {
			data.Medians = append(data.Medians, medianRow{Type: t, Median: formatQuantity(m)})
		}
	}

	pairs := analytics.JoinClaims(claims, listings)
	data.AvgDays = formatDays(analytics.AverageDaysToExpiry(pairs, core.ClaimCompleted))

	if city, count, ok := analytics.MostActiveCity(listings); ok {
		data.BusiestCity = city
		data.BusiestCount = count
	}

	return data
}

// handleDashboard renders the statistics partial.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data, err := s.getDashboard(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard error", log.FieldError, err)
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Error loading statistics</div></section>`))
		return
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Listings: ` +
			fmt.Sprintf("%d", data.ListingCount) + `</div></section>`))
		return
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", log.FieldError, err, "template", "dashboard.html")
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Error rendering statistics</div></section>`))
	}
}

// handleListings renders the open listings table partial.
func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	listings, err := s.getListings(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List listings error", log.FieldError, err)
		_, _ = w.Write([]byte(`<section id="listings" class="listings"><div class="placeholder">Error loading listings</div></section>`))
		return
	}

	type row struct {
		ID       int64
		FoodName string
		Quantity int64
		Expires  string
		Type     core.ProviderType
		City     string
		Food     core.FoodType
		Meal     core.MealType
		Expired  bool
	}

	now := time.Now()
	data := struct {
		Rows []row
	}{}
	for _, l := range listings {
		data.Rows = append(data.Rows, row{
			ID:       l.ID,
			FoodName: l.FoodName,
			Quantity: l.Quantity,
			Expires:  l.ExpiresAt.Format("2006-01-02"),
			Type:     l.ProviderType,
			City:     l.City,
			Food:     l.FoodType,
			Meal:     l.MealType,
			Expired:  l.ExpiresAt.Before(now),
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="listings" class="listings"><div class="placeholder">` +
			fmt.Sprintf("%d listings", len(data.Rows)) + `</div></section>`))
		return
	}

	if err := s.templates.ExecuteTemplate(w, "listings.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", log.FieldError, err, "template", "listings.html")
		_, _ = w.Write([]byte(`<section id="listings" class="listings"><div class="placeholder">Error rendering listings</div></section>`))
	}
}

func (s *Server) getListings(ctx context.Context) ([]core.Listing, error) {
	if items, found := s.listingsCache.Get(listingsCacheKey); found {
		result := make([]core.Listing, len(items))
		copy(result, items)
		return result, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	items, err := s.store.ListListings(cctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	s.listingsCache.Set(listingsCacheKey, items)
	return items, nil
}
