package backend

import (
	"context"

	"foodshare/internal/core"
)

// ProviderStore manages food providers.
type ProviderStore interface {
	CreateProvider(ctx context.Context, p core.Provider) (int64, error)
	DeleteProvider(ctx context.Context, id int64) error
	ListProviders(ctx context.Context) ([]core.Provider, error)
}

// ReceiverStore manages receiving organizations.
type ReceiverStore interface {
	CreateReceiver(ctx context.Context, r core.Receiver) (int64, error)
	ListReceivers(ctx context.Context) ([]core.Receiver, error)
}

// ListingStore manages food listings.
type ListingStore interface {
	CreateListing(ctx context.Context, l core.Listing) (int64, error)
	DeleteListing(ctx context.Context, id int64) error
	ListListings(ctx context.Context) ([]core.Listing, error)
}

// ClaimStore manages claims against listings.
type ClaimStore interface {
	CreateClaim(ctx context.Context, c core.Claim) (int64, error)
	ResolveClaim(ctx context.Context, id int64, status core.ClaimStatus) error
	ListClaims(ctx context.Context) ([]core.Claim, error)
}

// Store is the unified data interface the HTTP layer is written against.
type Store interface {
	ProviderStore
	ReceiverStore
	ListingStore
	ClaimStore
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// StoreResult contains the store instance and optional cleanup function
type StoreResult struct {
	Store   Store
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*StoreResult, error)
}

// Config holds configuration for store creation
type Config struct {
	// Store type
	Type StoreType

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Memory backend specific
	DataDirectory string
}

// StoreType represents the type of data backend
type StoreType string

const (
	SQLiteStore StoreType = "sqlite"
	MemoryStore StoreType = "memory"
)

// String implements fmt.Stringer
func (st StoreType) String() string {
	return string(st)
}

// IsValid returns true if the store type is valid
func (st StoreType) IsValid() bool {
	switch st {
	case SQLiteStore, MemoryStore:
		return true
	default:
		return false
	}
}
