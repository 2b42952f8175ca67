// Package ingest loads the bootstrap CSV exports into core records.
// Rows that fail to parse or validate are skipped with a warning,
// a bad line never aborts an import.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"foodshare/internal/core"
)

const (
	ProvidersFile = "providers_data.csv"
	ReceiversFile = "receivers_data.csv"
	ListingsFile  = "food_listings_data.csv"
	ClaimsFile    = "claims_data.csv"
)

// Listings in the export carry only an expiry date, so the listed-at
// timestamp is reconstructed this many days before expiry.
const listingLeadDays = 30

// Dataset holds everything parsed from one data directory.
type Dataset struct {
	Providers []core.Provider
	Receivers []core.Receiver
	Listings  []core.Listing
	Claims    []core.Claim
}

// LoadDir parses the four CSV exports under dir concurrently. A missing
// file yields an empty slice, not an error.
func LoadDir(ctx context.Context, dir string) (*Dataset, error) {
	ds := &Dataset{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ds.Providers, err = loadFile(ctx, filepath.Join(dir, ProvidersFile), ParseProviders)
		return err
	})
	g.Go(func() error {
		var err error
		ds.Receivers, err = loadFile(ctx, filepath.Join(dir, ReceiversFile), ParseReceivers)
		return err
	})
	g.Go(func() error {
		var err error
		ds.Listings, err = loadFile(ctx, filepath.Join(dir, ListingsFile), ParseListings)
		return err
	})
	g.Go(func() error {
		var err error
		ds.Claims, err = loadFile(ctx, filepath.Join(dir, ClaimsFile), ParseClaims)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

func loadFile[T any](ctx context.Context, path string, parse func(context.Context, io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.WarnContext(ctx, "Data file missing, skipping", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	slog.InfoContext(ctx, "Loaded data file", "path", path, "records", len(records))
	return records, nil
}

// ParseProviders reads the providers export.
// Columns: Provider_ID,Name,Type,Address,City,Contact
func ParseProviders(ctx context.Context, r io.Reader) ([]core.Provider, error) {
	return parseAll(ctx, r, "provider", 6, func(record []string) (core.Provider, error) {
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return core.Provider{}, fmt.Errorf("provider id: %w", err)
		}

		// lenient parse never fails, unknown types fold into Other
		ptype, _ := core.ParseProviderType(record[2], true)

		p := core.Provider{
			ID:      id,
			Name:    record[1],
			Type:    ptype,
			Address: record[3],
			City:    record[4],
			Contact: record[5],
		}
		return p, p.Validate()
	})
}

// ParseReceivers reads the receivers export.
// Columns: Receiver_ID,Name,Type,City,Contact
func ParseReceivers(ctx context.Context, r io.Reader) ([]core.Receiver, error) {
	return parseAll(ctx, r, "receiver", 5, func(record []string) (core.Receiver, error) {
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return core.Receiver{}, fmt.Errorf("receiver id: %w", err)
		}

		rec := core.Receiver{
			ID:      id,
			Name:    record[1],
			Type:    record[2],
			City:    record[3],
			Contact: record[4],
		}
		return rec, rec.Validate()
	})
}

// ParseListings reads the food listings export.
// Columns: Food_ID,Food_Name,Quantity,Expiry_Date,Provider_ID,Provider_Type,Location,Food_Type,Meal_Type
func ParseListings(ctx context.Context, r io.Reader) ([]core.Listing, error) {
	return parseAll(ctx, r, "listing", 9, func(record []string) (core.Listing, error) {
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return core.Listing{}, fmt.Errorf("listing id: %w", err)
		}

		qty, err := strconv.ParseInt(record[2], 10, 64)
		if err != nil {
			return core.Listing{}, fmt.Errorf("quantity: %w", err)
		}

		expiry, err := parseDate(record[3])
		if err != nil {
			return core.Listing{}, fmt.Errorf("expiry date: %w", err)
		}

		providerID, err := strconv.ParseInt(record[4], 10, 64)
		if err != nil {
			return core.Listing{}, fmt.Errorf("provider id: %w", err)
		}

		ptype, _ := core.ParseProviderType(record[5], true)

		l := core.Listing{
			ID:           id,
			FoodName:     record[1],
			Quantity:     qty,
			ListedAt:     expiry.AddDate(0, 0, -listingLeadDays),
			ExpiresAt:    expiry,
			ProviderID:   providerID,
			ProviderType: ptype,
			City:         record[6],
			FoodType:     core.FoodType(record[7]),
			MealType:     core.MealType(record[8]),
		}
		return l, l.Validate()
	})
}

// ParseClaims reads the claims export.
// Columns: Claim_ID,Food_ID,Receiver_ID,Status,Timestamp
func ParseClaims(ctx context.Context, r io.Reader) ([]core.Claim, error) {
	return parseAll(ctx, r, "claim", 5, func(record []string) (core.Claim, error) {
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return core.Claim{}, fmt.Errorf("claim id: %w", err)
		}

		listingID, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return core.Claim{}, fmt.Errorf("listing id: %w", err)
		}

		receiverID, err := strconv.ParseInt(record[2], 10, 64)
		if err != nil {
			return core.Claim{}, fmt.Errorf("receiver id: %w", err)
		}

		status, err := core.ParseClaimStatus(record[3])
		if err != nil {
			return core.Claim{}, err
		}

		claimedAt, err := parseTimestamp(record[4])
		if err != nil {
			return core.Claim{}, fmt.Errorf("timestamp: %w", err)
		}

		c := core.Claim{
			ID:         id,
			ListingID:  listingID,
			ReceiverID: receiverID,
			Status:     status,
			ClaimedAt:  claimedAt,
		}
		return c, c.Validate()
	})
}

func parseAll[T any](ctx context.Context, r io.Reader, kind string, fields int, parse func([]string) (T, error)) ([]T, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Skip header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var out []T
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			slog.WarnContext(ctx, "Skipping corrupted row", "kind", kind, "line", line, "error", err)
			continue
		}
		if len(record) != fields {
			slog.WarnContext(ctx, "Skipping short row", "kind", kind, "line", line, "fields", len(record))
			continue
		}

		rec, err := parse(record)
		if err != nil {
			slog.WarnContext(ctx, "Skipping invalid row", "kind", kind, "line", line, "error", err)
			continue
		}
		out = append(out, rec)
	}

	return out, nil
}

// The exports mix US-style and ISO dates depending on which tool wrote
// them, so both are accepted.
var dateLayouts = []string{"2006-01-02", "1/2/2006", "01/02/2006"}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"1/2/2006 15:04",
	"01/02/2006 15:04",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
