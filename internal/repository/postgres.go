package repository

import (
	"context"
	"errors"
	"fmt"

	"listing-marketplace/internal/listingerrors"
	"listing-marketplace/internal/models"
	"listing-marketplace/internal/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listingColumns = "id, user_ref, name, description, address, type, bedrooms, bathrooms, " +
	"regular_price, discount_price, offer, parking, furnished, image_urls, created_at, updated_at"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		id             TEXT PRIMARY KEY,
		user_ref       TEXT NOT NULL,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL,
		address        TEXT NOT NULL,
		type           TEXT NOT NULL CHECK (type IN ('sale', 'rent')),
		bedrooms       INTEGER NOT NULL,
		bathrooms      INTEGER NOT NULL,
		regular_price  DOUBLE PRECISION NOT NULL,
		discount_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		offer          BOOLEAN NOT NULL DEFAULT FALSE,
		parking        BOOLEAN NOT NULL DEFAULT FALSE,
		furnished      BOOLEAN NOT NULL DEFAULT FALSE,
		image_urls     TEXT[] NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_user_ref ON listings(user_ref)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_created ON listings(created_at DESC, id)`,
}

// PostgresRepo stores listings in a Postgres table
type PostgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresRepo creates a repository on an open pool
func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

// EnsureSchema creates the listings table and its indexes if missing
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure listings schema: %w", err)
		}
	}
	return nil
}

// Create inserts a new listing row
func (r *PostgresRepo) Create(ctx context.Context, l models.Listing) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		l.ID, l.UserRef, l.Name, l.Description, l.Address, l.Type, l.Bedrooms, l.Bathrooms,
		l.RegularPrice, l.DiscountPrice, l.Offer, l.Parking, l.Furnished, l.ImageURLs, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create listing %s: %w", l.ID, err)
	}
	return nil
}

// GetByID returns a listing by its ID
func (r *PostgresRepo) GetByID(ctx context.Context, id string) (models.Listing, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	listing, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Listing{}, fmt.Errorf("get listing %s: %w", id, listingerrors.ErrNotFound)
	}
	if err != nil {
		return models.Listing{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	return listing, nil
}

// Update rewrites the row matching both id and owner
func (r *PostgresRepo) Update(ctx context.Context, l models.Listing) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE listings SET
			name = $3, description = $4, address = $5, type = $6,
			bedrooms = $7, bathrooms = $8, regular_price = $9, discount_price = $10,
			offer = $11, parking = $12, furnished = $13, image_urls = $14, updated_at = $15
		WHERE id = $1 AND user_ref = $2`,
		l.ID, l.UserRef, l.Name, l.Description, l.Address, l.Type,
		l.Bedrooms, l.Bathrooms, l.RegularPrice, l.DiscountPrice,
		l.Offer, l.Parking, l.Furnished, l.ImageURLs, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update listing %s: %w", l.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update listing %s: %w", l.ID, listingerrors.ErrNotFound)
	}
	return nil
}

// Delete removes the row matching both id and owner
func (r *PostgresRepo) Delete(ctx context.Context, id, userRef string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1 AND user_ref = $2`, id, userRef)
	if err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete listing %s: %w", id, listingerrors.ErrNotFound)
	}
	return nil
}

// Find returns one page of listings matching params and the total match count
func (r *PostgresRepo) Find(ctx context.Context, params query.Params) ([]models.Listing, int64, error) {
	countSQL, countArgs, pageSQL, pageArgs := buildFindQueries(params)

	var total int64
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	rows, err := r.pool.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("find listings: %w", err)
	}
	listings, err := collectListings(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("find listings: %w", err)
	}
	return listings, total, nil
}

// FindByOwner returns every listing created by userRef, newest first
func (r *PostgresRepo) FindByOwner(ctx context.Context, userRef string) ([]models.Listing, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE user_ref = $1`+orderBy(query.Default()), userRef)
	if err != nil {
		return nil, fmt.Errorf("find listings of %s: %w", userRef, err)
	}
	listings, err := collectListings(rows)
	if err != nil {
		return nil, fmt.Errorf("find listings of %s: %w", userRef, err)
	}
	return listings, nil
}

// Ping checks a pooled connection is usable
func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func collectListings(rows pgx.Rows) ([]models.Listing, error) {
	defer rows.Close()

	listings := make([]models.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func scanListing(row pgx.Row) (models.Listing, error) {
	var l models.Listing
	err := row.Scan(
		&l.ID, &l.UserRef, &l.Name, &l.Description, &l.Address, &l.Type, &l.Bedrooms, &l.Bathrooms,
		&l.RegularPrice, &l.DiscountPrice, &l.Offer, &l.Parking, &l.Furnished, &l.ImageURLs, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}
