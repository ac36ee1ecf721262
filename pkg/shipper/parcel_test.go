package shipper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLookup resolves product ids from a fixed map; ids missing from
// the map behave like products missing from the catalog.
type stubLookup struct {
	products map[int64]shipper.ProductDimensions
	err      error
}

func (s *stubLookup) Product(ctx context.Context, id int64) (*shipper.ProductDimensions, error) {
	if s.err != nil {
		return nil, s.err
	}
	dims, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &dims, nil
}

func TestBuildParcel_SumsQuantities(t *testing.T) {
	lookup := &stubLookup{products: map[int64]shipper.ProductDimensions{
		1: {Weight: 0.5, Length: 10, Width: 5, Height: 3},
		2: {Weight: 1.2, Length: 20, Width: 8, Height: 4},
	}}

	parcel, err := shipper.BuildParcel(context.Background(), lookup, []shipper.CartItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, 2.2, parcel.Weight)
	assert.Equal(t, 40.0, parcel.Length)
	assert.Equal(t, 18.0, parcel.Width)
	assert.Equal(t, 10.0, parcel.Height)
}

func TestBuildParcel_QuantityClampedToOne(t *testing.T) {
	lookup := &stubLookup{products: map[int64]shipper.ProductDimensions{
		1: {Weight: 0.5},
	}}

	for _, qty := range []int{0, -3} {
		parcel, err := shipper.BuildParcel(context.Background(), lookup, []shipper.CartItem{
			{ProductID: 1, Quantity: qty},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.5, parcel.Weight, "quantity %d should count as 1", qty)
	}
}

func TestBuildParcel_UnknownProductSkipped(t *testing.T) {
	lookup := &stubLookup{products: map[int64]shipper.ProductDimensions{
		1: {Weight: 1, Length: 10, Width: 10, Height: 10},
	}}

	parcel, err := shipper.BuildParcel(context.Background(), lookup, []shipper.CartItem{
		{ProductID: 1, Quantity: 1},
		{ProductID: 999, Quantity: 5},
	})

	require.NoError(t, err)
	assert.Equal(t, 1.0, parcel.Weight)
	assert.Equal(t, 10.0, parcel.Length)
}

func TestBuildParcel_RoundsToTwoDecimals(t *testing.T) {
	lookup := &stubLookup{products: map[int64]shipper.ProductDimensions{
		1: {Weight: 0.333},
	}}

	parcel, err := shipper.BuildParcel(context.Background(), lookup, []shipper.CartItem{
		{ProductID: 1, Quantity: 3},
	})

	require.NoError(t, err)
	assert.Equal(t, 1.0, parcel.Weight)
}

func TestBuildParcel_EmptyCart(t *testing.T) {
	lookup := &stubLookup{}

	parcel, err := shipper.BuildParcel(context.Background(), lookup, nil)

	require.NoError(t, err)
	assert.Equal(t, shipper.Parcel{}, parcel)
}

func TestBuildParcel_LookupError(t *testing.T) {
	lookup := &stubLookup{err: errors.New("database down")}

	_, err := shipper.BuildParcel(context.Background(), lookup, []shipper.CartItem{
		{ProductID: 1, Quantity: 1},
	})

	assert.Error(t, err)
}
