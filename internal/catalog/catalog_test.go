package catalog_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dermanova/shipping/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productQuery = `SELECT weight, item_depth, item_width, item_height FROM products WHERE id = $1`

func TestStore_Product(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(productQuery)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"weight", "item_depth", "item_width", "item_height"}).
			AddRow(0.25, 12.0, 6.0, 4.5))

	store := catalog.New(db)
	dims, err := store.Product(context.Background(), 42)

	require.NoError(t, err)
	require.NotNil(t, dims)
	assert.Equal(t, 0.25, dims.Weight)
	assert.Equal(t, 12.0, dims.Length)
	assert.Equal(t, 6.0, dims.Width)
	assert.Equal(t, 4.5, dims.Height)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Product_NullDimensionsReadAsZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(productQuery)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"weight", "item_depth", "item_width", "item_height"}).
			AddRow(0.8, nil, nil, nil))

	store := catalog.New(db)
	dims, err := store.Product(context.Background(), 7)

	require.NoError(t, err)
	require.NotNil(t, dims)
	assert.Equal(t, 0.8, dims.Weight)
	assert.Zero(t, dims.Length)
	assert.Zero(t, dims.Width)
	assert.Zero(t, dims.Height)
}

func TestStore_Product_UnknownIsNilNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(productQuery)).
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"weight", "item_depth", "item_width", "item_height"}))

	store := catalog.New(db)
	dims, err := store.Product(context.Background(), 999)

	require.NoError(t, err)
	assert.Nil(t, dims)
}

func TestStore_Product_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(productQuery)).
		WithArgs(int64(1)).
		WillReturnError(errors.New("connection reset"))

	store := catalog.New(db)
	_, err = store.Product(context.Background(), 1)

	assert.Error(t, err)
}
