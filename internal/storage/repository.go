package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"foodshare/internal/core"
	"foodshare/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists providers, receivers, listings and claims,
// and loads them back for aggregation.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Pragmas apply per connection, so they go in the DSN to cover
	// every connection the pool opens.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateProvider(ctx context.Context, p core.Provider) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("validate provider: %w", err)
	}
	id, err := r.queries.CreateProvider(ctx, CreateProviderParams{
		Name:    p.Name,
		Type:    string(p.Type),
		Address: p.Address,
		City:    p.City,
		Contact: p.Contact,
	})
	if err != nil {
		return 0, fmt.Errorf("create provider: %w", err)
	}

	slog.InfoContext(ctx, "Provider saved",
		"id", id,
		"name", p.Name,
		log.FieldProviderType, string(p.Type),
		log.FieldCity, p.City)
	return id, nil
}

func (r *SQLiteRepository) CreateReceiver(ctx context.Context, rec core.Receiver) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, fmt.Errorf("validate receiver: %w", err)
	}
	id, err := r.queries.CreateReceiver(ctx, CreateReceiverParams{
		Name:    rec.Name,
		Type:    rec.Type,
		City:    rec.City,
		Contact: rec.Contact,
	})
	if err != nil {
		return 0, fmt.Errorf("create receiver: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) CreateListing(ctx context.Context, l core.Listing) (int64, error) {
	if err := l.Validate(); err != nil {
		return 0, fmt.Errorf("validate listing: %w", err)
	}
	id, err := r.queries.CreateListing(ctx, CreateListingParams{
		FoodName:     l.FoodName,
		Quantity:     l.Quantity,
		ListedAt:     l.ListedAt,
		ExpiresAt:    l.ExpiresAt,
		ProviderID:   l.ProviderID,
		ProviderType: string(l.ProviderType),
		City:         l.City,
		FoodType:     string(l.FoodType),
		MealType:     string(l.MealType),
	})
	if err != nil {
		return 0, fmt.Errorf("create listing: %w", err)
	}

	slog.InfoContext(ctx, "Listing saved",
		"id", id,
		log.FieldFoodName, l.FoodName,
		log.FieldQuantity, l.Quantity,
		log.FieldProviderID, l.ProviderID)
	return id, nil
}

// CreateClaim stores a claim after checking the cross-record invariant
// against the referenced listing.
func (r *SQLiteRepository) CreateClaim(ctx context.Context, c core.Claim) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("validate claim: %w", err)
	}
	listing, err := r.GetListing(ctx, c.ListingID)
	if err != nil {
		return 0, fmt.Errorf("resolve claimed listing: %w", err)
	}
	if c.ClaimedAt.Before(listing.ListedAt) {
		return 0, core.ErrClaimBeforeListing
	}

	id, err := r.queries.CreateClaim(ctx, CreateClaimParams{
		ListingID:  c.ListingID,
		ReceiverID: c.ReceiverID,
		Status:     string(c.Status),
		ClaimedAt:  c.ClaimedAt,
	})
	if err != nil {
		return 0, fmt.Errorf("create claim: %w", err)
	}

	slog.InfoContext(ctx, "Claim saved",
		"id", id,
		log.FieldListingID, c.ListingID,
		log.FieldClaimStatus, string(c.Status))
	return id, nil
}

func (r *SQLiteRepository) UpdateClaimStatus(ctx context.Context, id int64, status core.ClaimStatus) error {
	if !status.Valid() {
		return core.ErrInvalidClaimStatus
	}
	if err := r.queries.UpdateClaimStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("update claim status: %w", err)
	}
	slog.InfoContext(ctx, "Claim status updated", "id", id, log.FieldClaimStatus, string(status))
	return nil
}

// DeleteProvider removes a provider; listings cascade via foreign key.
func (r *SQLiteRepository) DeleteProvider(ctx context.Context, id int64) error {
	if err := r.queries.DeleteProvider(ctx, id); err != nil {
		return fmt.Errorf("delete provider: %w", err)
	}
	slog.InfoContext(ctx, "Provider deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) DeleteListing(ctx context.Context, id int64) error {
	if err := r.queries.DeleteListing(ctx, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	slog.InfoContext(ctx, "Listing deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) GetProvider(ctx context.Context, id int64) (core.Provider, error) {
	row, err := r.queries.GetProvider(ctx, id)
	if err != nil {
		return core.Provider{}, fmt.Errorf("get provider: %w", err)
	}
	return providerFromRow(row), nil
}

func (r *SQLiteRepository) GetListing(ctx context.Context, id int64) (core.Listing, error) {
	row, err := r.queries.GetListing(ctx, id)
	if err != nil {
		return core.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return listingFromRow(row), nil
}

func (r *SQLiteRepository) GetClaim(ctx context.Context, id int64) (core.Claim, error) {
	row, err := r.queries.GetClaim(ctx, id)
	if err != nil {
		return core.Claim{}, fmt.Errorf("get claim: %w", err)
	}
	return claimFromRow(row), nil
}

func (r *SQLiteRepository) ListProviders(ctx context.Context) ([]core.Provider, error) {
	rows, err := r.queries.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	out := make([]core.Provider, len(rows))
	for i, row := range rows {
		out[i] = providerFromRow(row)
	}
	return out, nil
}

func (r *SQLiteRepository) ListReceivers(ctx context.Context) ([]core.Receiver, error) {
	rows, err := r.queries.ListReceivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list receivers: %w", err)
	}
	out := make([]core.Receiver, len(rows))
	for i, row := range rows {
		out[i] = core.Receiver{
			ID:      row.ID,
			Name:    row.Name,
			Type:    row.Type,
			City:    row.City,
			Contact: row.Contact,
		}
	}
	return out, nil
}

func (r *SQLiteRepository) ListListings(ctx context.Context) ([]core.Listing, error) {
	rows, err := r.queries.ListListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	out := make([]core.Listing, len(rows))
	for i, row := range rows {
		out[i] = listingFromRow(row)
	}
	return out, nil
}

func (r *SQLiteRepository) ListClaims(ctx context.Context) ([]core.Claim, error) {
	rows, err := r.queries.ListClaims(ctx)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	out := make([]core.Claim, len(rows))
	for i, row := range rows {
		out[i] = claimFromRow(row)
	}
	return out, nil
}

// GetPendingSyncClaims returns claims not yet mirrored to the report
// spreadsheet.
func (r *SQLiteRepository) GetPendingSyncClaims(ctx context.Context, limit int) ([]core.Claim, error) {
	rows, err := r.queries.GetPendingSyncClaims(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync claims: %w", err)
	}
	out := make([]core.Claim, len(rows))
	for i, row := range rows {
		out[i] = claimFromRow(row)
	}
	return out, nil
}

// MarkSynced marks a claim as successfully mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.queries.MarkClaimSynced(ctx, id); err != nil {
		return fmt.Errorf("mark claim synced: %w", err)
	}
	slog.InfoContext(ctx, "Claim marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a claim as failing to mirror so periodic retries
// skip it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkClaimSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark claim sync error: %w", err)
	}
	slog.WarnContext(ctx, "Claim marked with sync error", "id", id)
	return nil
}

func (r *SQLiteRepository) CountProviders(ctx context.Context) (int64, error) {
	n, err := r.queries.CountProviders(ctx)
	if err != nil {
		return 0, fmt.Errorf("count providers: %w", err)
	}
	return n, nil
}

func providerFromRow(row ProviderRow) core.Provider {
	return core.Provider{
		ID:      row.ID,
		Name:    row.Name,
		Type:    core.ProviderType(row.Type),
		Address: row.Address,
		City:    row.City,
		Contact: row.Contact,
	}
}

func listingFromRow(row ListingRow) core.Listing {
	return core.Listing{
		ID:           row.ID,
		FoodName:     row.FoodName,
		Quantity:     row.Quantity,
		ListedAt:     row.ListedAt,
		ExpiresAt:    row.ExpiresAt,
		ProviderID:   row.ProviderID,
		ProviderType: core.ProviderType(row.ProviderType),
		City:         row.City,
		FoodType:     core.FoodType(row.FoodType),
		MealType:     core.MealType(row.MealType),
	}
}

func claimFromRow(row ClaimRow) core.Claim {
	return core.Claim{
		ID:         row.ID,
		ListingID:  row.ListingID,
		ReceiverID: row.ReceiverID,
		Status:     core.ClaimStatus(row.Status),
		ClaimedAt:  row.ClaimedAt,
	}
}
