// Package catalog resolves product shipping dimensions from the
// storefront database.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dermanova/shipping/pkg/shipper"
)

// Store looks up product dimensions in Postgres.
type Store struct {
	db *sql.DB
}

// New creates a catalog store on an existing database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres and returns a catalog store.
func Open(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Product returns the shipping dimensions for a product, or (nil, nil)
// when the product does not exist. NULL dimension columns read as zero.
func (s *Store) Product(ctx context.Context, id int64) (*shipper.ProductDimensions, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT weight, item_depth, item_width, item_height FROM products WHERE id = $1`, id)

	var weight, depth, width, height sql.NullFloat64
	if err := row.Scan(&weight, &depth, &width, &height); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying product %d: %w", id, err)
	}

	return &shipper.ProductDimensions{
		Weight: weight.Float64,
		Length: depth.Float64,
		Width:  width.Float64,
		Height: height.Float64,
	}, nil
}

var _ shipper.ProductLookup = (*Store)(nil)
