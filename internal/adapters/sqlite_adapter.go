package adapters

import (
	"context"

	"foodshare/internal/core"
	"foodshare/internal/services"
	"foodshare/internal/storage"
)

// SQLiteAdapter adapts SQLiteRepository and ClaimService to implement
// backend.Store. Claim writes go through the service so they publish
// sync events; everything else hits the repository directly.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.ClaimService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.ClaimService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

func (a *SQLiteAdapter) CreateProvider(ctx context.Context, p core.Provider) (int64, error) {
	return a.storage.CreateProvider(ctx, p)
}

func (a *SQLiteAdapter) DeleteProvider(ctx context.Context, id int64) error {
	return a.storage.DeleteProvider(ctx, id)
}

func (a *SQLiteAdapter) ListProviders(ctx context.Context) ([]core.Provider, error) {
	return a.storage.ListProviders(ctx)
}

func (a *SQLiteAdapter) CreateReceiver(ctx context.Context, r core.Receiver) (int64, error) {
	return a.storage.CreateReceiver(ctx, r)
}

func (a *SQLiteAdapter) ListReceivers(ctx context.Context) ([]core.Receiver, error) {
	return a.storage.ListReceivers(ctx)
}

func (a *SQLiteAdapter) CreateListing(ctx context.Context, l core.Listing) (int64, error) {
	return a.storage.CreateListing(ctx, l)
}

func (a *SQLiteAdapter) DeleteListing(ctx context.Context, id int64) error {
	return a.storage.DeleteListing(ctx, id)
}

func (a *SQLiteAdapter) ListListings(ctx context.Context) ([]core.Listing, error) {
	return a.storage.ListListings(ctx)
}

func (a *SQLiteAdapter) CreateClaim(ctx context.Context, c core.Claim) (int64, error) {
	return a.service.CreateClaim(ctx, c)
}

func (a *SQLiteAdapter) ResolveClaim(ctx context.Context, id int64, status core.ClaimStatus) error {
	return a.service.ResolveClaim(ctx, id, status)
}

func (a *SQLiteAdapter) ListClaims(ctx context.Context) ([]core.Claim, error) {
	return a.storage.ListClaims(ctx)
}
