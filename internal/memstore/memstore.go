// Package memstore is the in-memory data backend, used for demos and
// tests. It can seed itself from the CSV exports in a data directory.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"foodshare/internal/core"
	"foodshare/internal/ingest"
)

type Store struct {
	mu        sync.Mutex
	providers map[int64]core.Provider
	receivers map[int64]core.Receiver
	listings  map[int64]core.Listing
	claims    map[int64]core.Claim
	nextID    map[string]int64
}

func New() *Store {
	return &Store{
		providers: map[int64]core.Provider{},
		receivers: map[int64]core.Receiver{},
		listings:  map[int64]core.Listing{},
		claims:    map[int64]core.Claim{},
		nextID:    map[string]int64{},
	}
}

// NewFromFiles seeds a store from the CSV exports under base. A missing
// or empty directory yields an empty store.
func NewFromFiles(ctx context.Context, base string) (*Store, error) {
	ds, err := ingest.LoadDir(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("seed memory store: %w", err)
	}

	s := New()
	for _, p := range ds.Providers {
		s.providers[p.ID] = p
		s.bump("provider", p.ID)
	}
	for _, r := range ds.Receivers {
		s.receivers[r.ID] = r
		s.bump("receiver", r.ID)
	}
	for _, l := range ds.Listings {
		s.listings[l.ID] = l
		s.bump("listing", l.ID)
	}
	for _, c := range ds.Claims {
		// Claims against listings that did not survive parsing are dropped
		if _, ok := s.listings[c.ListingID]; !ok {
			continue
		}
		s.claims[c.ID] = c
		s.bump("claim", c.ID)
	}
	return s, nil
}

func (s *Store) bump(kind string, id int64) {
	if id >= s.nextID[kind] {
		s.nextID[kind] = id + 1
	}
}

func (s *Store) allocate(kind string) int64 {
	if s.nextID[kind] == 0 {
		s.nextID[kind] = 1
	}
	id := s.nextID[kind]
	s.nextID[kind]++
	return id
}

func (s *Store) CreateProvider(_ context.Context, p core.Provider) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.allocate("provider")
	s.providers[p.ID] = p
	return p.ID, nil
}

// DeleteProvider removes a provider and cascades to its listings and
// their claims, matching the SQLite foreign keys.
func (s *Store) DeleteProvider(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[id]; !ok {
		return fmt.Errorf("provider %d not found", id)
	}
	delete(s.providers, id)
	for lid, l := range s.listings {
		if l.ProviderID == id {
			delete(s.listings, lid)
			s.dropClaimsFor(lid)
		}
	}
	return nil
}

func (s *Store) ListProviders(_ context.Context) ([]core.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Provider, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateReceiver(_ context.Context, r core.Receiver) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.allocate("receiver")
	s.receivers[r.ID] = r
	return r.ID, nil
}

func (s *Store) ListReceivers(_ context.Context) ([]core.Receiver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Receiver, 0, len(s.receivers))
	for _, r := range s.receivers {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateListing(_ context.Context, l core.Listing) (int64, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[l.ProviderID]; !ok {
		return 0, fmt.Errorf("provider %d not found", l.ProviderID)
	}
	l.ID = s.allocate("listing")
	s.listings[l.ID] = l
	return l.ID, nil
}

func (s *Store) DeleteListing(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[id]; !ok {
		return fmt.Errorf("listing %d not found", id)
	}
	delete(s.listings, id)
	s.dropClaimsFor(id)
	return nil
}

func (s *Store) ListListings(_ context.Context) ([]core.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateClaim(_ context.Context, c core.Claim) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[c.ListingID]
	if !ok {
		return 0, fmt.Errorf("listing %d not found", c.ListingID)
	}
	if _, ok := s.receivers[c.ReceiverID]; !ok {
		return 0, fmt.Errorf("receiver %d not found", c.ReceiverID)
	}
	if c.ClaimedAt.Before(l.ListedAt) {
		return 0, core.ErrClaimBeforeListing
	}
	c.ID = s.allocate("claim")
	s.claims[c.ID] = c
	return c.ID, nil
}

func (s *Store) ResolveClaim(_ context.Context, id int64, status core.ClaimStatus) error {
	if !status.Valid() {
		return core.ErrInvalidClaimStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.claims[id]
	if !ok {
		return fmt.Errorf("claim %d not found", id)
	}
	c.Status = status
	s.claims[id] = c
	return nil
}

func (s *Store) ListClaims(_ context.Context) ([]core.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Claim, 0, len(s.claims))
	for _, c := range s.claims {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) dropClaimsFor(listingID int64) {
	for cid, c := range s.claims {
		if c.ListingID == listingID {
			delete(s.claims, cid)
		}
	}
}
