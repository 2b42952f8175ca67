package storage

import (
	"context"
	"database/sql"
	"time"
)

// Queries bundles the raw SQL statements used by the repository.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type ProviderRow struct {
	ID        int64
	Name      string
	Type      string
	Address   string
	City      string
	Contact   string
	CreatedAt time.Time
}

type ReceiverRow struct {
	ID        int64
	Name      string
	Type      string
	City      string
	Contact   string
	CreatedAt time.Time
}

type ListingRow struct {
	ID           int64
	FoodName     string
	Quantity     int64
	ListedAt     time.Time
	ExpiresAt    time.Time
	ProviderID   int64
	ProviderType string
	City         string
	FoodType     string
	MealType     string
}

type ClaimRow struct {
	ID         int64
	ListingID  int64
	ReceiverID int64
	Status     string
	ClaimedAt  time.Time
	Synced     bool
}

type CreateProviderParams struct {
	Name    string
	Type    string
	Address string
	City    string
	Contact string
}

func (q *Queries) CreateProvider(ctx context.Context, arg CreateProviderParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO providers (name, type, address, city, contact) VALUES (?, ?, ?, ?, ?)`,
		arg.Name, arg.Type, arg.Address, arg.City, arg.Contact)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type CreateReceiverParams struct {
	Name    string
	Type    string
	City    string
	Contact string
}

func (q *Queries) CreateReceiver(ctx context.Context, arg CreateReceiverParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO receivers (name, type, city, contact) VALUES (?, ?, ?, ?)`,
		arg.Name, arg.Type, arg.City, arg.Contact)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type CreateListingParams struct {
	FoodName     string
	Quantity     int64
	ListedAt     time.Time
	ExpiresAt    time.Time
	ProviderID   int64
	ProviderType string
	City         string
	FoodType     string
	MealType     string
}

func (q *Queries) CreateListing(ctx context.Context, arg CreateListingParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO listings (food_name, quantity, listed_at, expires_at, provider_id, provider_type, city, food_type, meal_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.FoodName, arg.Quantity, arg.ListedAt, arg.ExpiresAt,
		arg.ProviderID, arg.ProviderType, arg.City, arg.FoodType, arg.MealType)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type CreateClaimParams struct {
	ListingID  int64
	ReceiverID int64
	Status     string
	ClaimedAt  time.Time
}

func (q *Queries) CreateClaim(ctx context.Context, arg CreateClaimParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO claims (listing_id, receiver_id, status, claimed_at) VALUES (?, ?, ?, ?)`,
		arg.ListingID, arg.ReceiverID, arg.Status, arg.ClaimedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) UpdateClaimStatus(ctx context.Context, id int64, status string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE claims SET status = ?, synced = 0 WHERE id = ?`, status, id)
	return err
}

func (q *Queries) DeleteProvider(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM providers WHERE id = ?`, id)
	return err
}

func (q *Queries) DeleteListing(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	return err
}

func (q *Queries) GetProvider(ctx context.Context, id int64) (ProviderRow, error) {
	var p ProviderRow
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, type, address, city, contact, created_at FROM providers WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Type, &p.Address, &p.City, &p.Contact, &p.CreatedAt)
	return p, err
}

func (q *Queries) GetListing(ctx context.Context, id int64) (ListingRow, error) {
	var l ListingRow
	err := q.db.QueryRowContext(ctx,
		`SELECT id, food_name, quantity, listed_at, expires_at, provider_id, provider_type, city, food_type, meal_type
		 FROM listings WHERE id = ?`, id).
		Scan(&l.ID, &l.FoodName, &l.Quantity, &l.ListedAt, &l.ExpiresAt,
			&l.ProviderID, &l.ProviderType, &l.City, &l.FoodType, &l.MealType)
	return l, err
}

func (q *Queries) GetClaim(ctx context.Context, id int64) (ClaimRow, error) {
	var c ClaimRow
	err := q.db.QueryRowContext(ctx,
		`SELECT id, listing_id, receiver_id, status, claimed_at, synced FROM claims WHERE id = ?`, id).
		Scan(&c.ID, &c.ListingID, &c.ReceiverID, &c.Status, &c.ClaimedAt, &c.Synced)
	return c, err
}

func (q *Queries) ListProviders(ctx context.Context) ([]ProviderRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, type, address, city, contact, created_at FROM providers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProviderRow
	for rows.Next() {
		var p ProviderRow
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Address, &p.City, &p.Contact, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q *Queries) ListReceivers(ctx context.Context) ([]ReceiverRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, type, city, contact, created_at FROM receivers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReceiverRow
	for rows.Next() {
		var r ReceiverRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Type, &r.City, &r.Contact, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) ListListings(ctx context.Context) ([]ListingRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, food_name, quantity, listed_at, expires_at, provider_id, provider_type, city, food_type, meal_type
		 FROM listings ORDER BY expires_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListingRow
	for rows.Next() {
		var l ListingRow
		if err := rows.Scan(&l.ID, &l.FoodName, &l.Quantity, &l.ListedAt, &l.ExpiresAt,
			&l.ProviderID, &l.ProviderType, &l.City, &l.FoodType, &l.MealType); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (q *Queries) ListClaims(ctx context.Context) ([]ClaimRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, listing_id, receiver_id, status, claimed_at, synced FROM claims ORDER BY claimed_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClaimRow
	for rows.Next() {
		var c ClaimRow
		if err := rows.Scan(&c.ID, &c.ListingID, &c.ReceiverID, &c.Status, &c.ClaimedAt, &c.Synced); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *Queries) GetPendingSyncClaims(ctx context.Context, limit int64) ([]ClaimRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, listing_id, receiver_id, status, claimed_at, synced
		 FROM claims WHERE synced = 0 AND sync_error = 0 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClaimRow
	for rows.Next() {
		var c ClaimRow
		if err := rows.Scan(&c.ID, &c.ListingID, &c.ReceiverID, &c.Status, &c.ClaimedAt, &c.Synced); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *Queries) MarkClaimSynced(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `UPDATE claims SET synced = 1, sync_error = 0 WHERE id = ?`, id)
	return err
}

func (q *Queries) MarkClaimSyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `UPDATE claims SET sync_error = 1 WHERE id = ?`, id)
	return err
}

func (q *Queries) CountProviders(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM providers`).Scan(&n)
	return n, err
}
