package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"foodshare/internal/cli"
	"foodshare/internal/config"
	"foodshare/internal/ingest"
	"foodshare/internal/storage"
)

// foodshare-import bootstraps a SQLite database from the CSV exports.
// CSV row IDs are remapped to the IDs SQLite assigns, so cross-file
// references keep pointing at the right rows.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := config.Load()

	dataDir := flag.String("data", cfg.DataDir, "directory holding the CSV exports")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "SQLite database path")
	force := flag.Bool("force", false, "import even if the database already has providers")
	flag.Parse()

	ctx := context.Background()

	repo := cli.InitSQLite(logger, *dbPath)
	defer repo.Close()

	count, err := repo.CountProviders(ctx)
	if err != nil {
		logger.Error("Failed to inspect database", "error", err)
		os.Exit(1)
	}
	if count > 0 && !*force {
		logger.Error("Database already has providers, pass -force to import anyway",
			"providers", count, "db", *dbPath)
		os.Exit(1)
	}

	ds, err := ingest.LoadDir(ctx, *dataDir)
	if err != nil {
		logger.Error("Failed to load data directory", "error", err, "dir", *dataDir)
		os.Exit(1)
	}

	logger.Info("Parsed data files",
		"providers", len(ds.Providers),
		"receivers", len(ds.Receivers),
		"listings", len(ds.Listings),
		"claims", len(ds.Claims))

	stats := importDataset(ctx, repo, ds)

	logger.Info("Import complete",
		"providers", stats.providers,
		"receivers", stats.receivers,
		"listings", stats.listings,
		"claims", stats.claims,
		"skipped", stats.skipped)
}

type importStats struct {
	providers int
	receivers int
	listings  int
	claims    int
	skipped   int
}

func importDataset(ctx context.Context, repo *storage.SQLiteRepository, ds *ingest.Dataset) importStats {
	var stats importStats

	providerIDs := make(map[int64]int64, len(ds.Providers))
	for _, p := range ds.Providers {
		csvID := p.ID
		id, err := repo.CreateProvider(ctx, p)
		if err != nil {
			slog.WarnContext(ctx, "Skipping provider", "csv_id", csvID, "error", err)
			stats.skipped++
			continue
		}
		providerIDs[csvID] = id
		stats.providers++
	}

	receiverIDs := make(map[int64]int64, len(ds.Receivers))
	for _, r := range ds.Receivers {
		csvID := r.ID
		id, err := repo.CreateReceiver(ctx, r)
		if err != nil {
			slog.WarnContext(ctx, "Skipping receiver", "csv_id", csvID, "error", err)
			stats.skipped++
			continue
		}
		receiverIDs[csvID] = id
		stats.receivers++
	}

	listingIDs := make(map[int64]int64, len(ds.Listings))
	for _, l := range ds.Listings {
		csvID := l.ID
		dbProviderID, ok := providerIDs[l.ProviderID]
		if !ok {
			slog.WarnContext(ctx, "Skipping listing with unknown provider",
				"csv_id", csvID, "provider_csv_id", l.ProviderID)
			stats.skipped++
			continue
		}
		l.ProviderID = dbProviderID

		id, err := repo.CreateListing(ctx, l)
		if err != nil {
			slog.WarnContext(ctx, "Skipping listing", "csv_id", csvID, "error", err)
			stats.skipped++
			continue
		}
		listingIDs[csvID] = id
		stats.listings++
	}

	for _, c := range ds.Claims {
		csvID := c.ID
		dbListingID, ok := listingIDs[c.ListingID]
		if !ok {
			slog.WarnContext(ctx, "Skipping claim with unknown listing",
				"csv_id", csvID, "listing_csv_id", c.ListingID)
			stats.skipped++
			continue
		}
		dbReceiverID, ok := receiverIDs[c.ReceiverID]
		if !ok {
			slog.WarnContext(ctx, "Skipping claim with unknown receiver",
				"csv_id", csvID, "receiver_csv_id", c.ReceiverID)
			stats.skipped++
			continue
		}

		c.ListingID = dbListingID
		c.ReceiverID = dbReceiverID
		// Imported claims that are already resolved should not trigger
		// a report sync storm; they still land as unsynced rows and the
		// worker drains them in batches.
		if _, err := repo.CreateClaim(ctx, c); err != nil {
			slog.WarnContext(ctx, "Skipping claim", "csv_id", csvID, "error", err)
			stats.skipped++
			continue
		}
		stats.claims++
	}

	return stats
}
