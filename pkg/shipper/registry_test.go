package shipper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubShipper is a canned-response carrier for registry tests.
type stubShipper struct {
	name    string
	quote   *shipper.Quote
	rateErr error

	confirmation *shipper.OrderConfirmation
	check        *shipper.CredentialCheck
}

func (s *stubShipper) Name() string { return s.name }

func (s *stubShipper) Rate(ctx context.Context, origin, destination shipper.Address, parcel shipper.Parcel) (*shipper.Quote, error) {
	return s.quote, s.rateErr
}

func (s *stubShipper) CreateOrder(ctx context.Context, order *shipper.ShipmentOrder) (*shipper.OrderConfirmation, error) {
	return s.confirmation, nil
}

func (s *stubShipper) TestCredentials(ctx context.Context, creds shipper.Credentials) (*shipper.CredentialCheck, error) {
	return s.check, nil
}

func TestRegistry_RateAll_FixedShape(t *testing.T) {
	registry := shipper.NewRegistry()
	registry.Register(&stubShipper{name: "alpha", quote: &shipper.Quote{Carrier: "alpha", Price: 10}})
	registry.Register(&stubShipper{name: "beta", quote: &shipper.Quote{Carrier: "beta", Price: 20}})
	registry.Register(&stubShipper{name: "gamma"}) // abstains with (nil, nil)

	quotes, errs := registry.RateAll(context.Background(), shipper.Address{}, shipper.Address{PostalCode: "V6B2W2"}, shipper.Parcel{Weight: 1})

	require.Len(t, quotes, 3)
	assert.Empty(t, errs)
	assert.Equal(t, 10.0, quotes["alpha"].Price)
	assert.Equal(t, 20.0, quotes["beta"].Price)

	// The abstaining carrier is present with a nil value, not absent.
	v, ok := quotes["gamma"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestRegistry_RateAll_PartialFailureIsolation(t *testing.T) {
	registry := shipper.NewRegistry()
	registry.Register(&stubShipper{name: "healthy", quote: &shipper.Quote{Carrier: "healthy", Price: 15.50}})
	registry.Register(&stubShipper{name: "broken", rateErr: errors.New("connection refused")})

	quotes, errs := registry.RateAll(context.Background(), shipper.Address{}, shipper.Address{PostalCode: "V6B2W2"}, shipper.Parcel{Weight: 1})

	require.Len(t, quotes, 2)
	require.NotNil(t, quotes["healthy"])
	assert.Equal(t, 15.50, quotes["healthy"].Price)
	assert.Nil(t, quotes["broken"])
	assert.Error(t, errs["broken"])
}

// Instantly-returning carriers race the fan-out setup against the
// result writes; run under -race this catches any unsynchronized
// access to the shared quote map.
func TestRegistry_RateAll_ConcurrentWrites(t *testing.T) {
	registry := shipper.NewRegistry()
	registry.Register(&stubShipper{name: "alpha", quote: &shipper.Quote{Carrier: "alpha", Price: 1}})
	registry.Register(&stubShipper{name: "beta", quote: &shipper.Quote{Carrier: "beta", Price: 2}})
	registry.Register(&stubShipper{name: "gamma", quote: &shipper.Quote{Carrier: "gamma", Price: 3}})

	for i := 0; i < 200; i++ {
		quotes, errs := registry.RateAll(context.Background(), shipper.Address{}, shipper.Address{PostalCode: "V6B2W2"}, shipper.Parcel{Weight: 1})
		require.Len(t, quotes, 3)
		require.Empty(t, errs)
	}
}

func TestRegistry_RateAll_Empty(t *testing.T) {
	registry := shipper.NewRegistry()

	quotes, errs := registry.RateAll(context.Background(), shipper.Address{}, shipper.Address{}, shipper.Parcel{})

	assert.Empty(t, quotes)
	assert.Empty(t, errs)
}

func TestRegistry_CreateOrder_UnknownCarrier(t *testing.T) {
	registry := shipper.NewRegistry()
	registry.Register(&stubShipper{name: "alpha"})

	_, err := registry.CreateOrder(context.Background(), "unknown_carrier", &shipper.ShipmentOrder{})

	require.Error(t, err)
	assert.ErrorIs(t, err, shipper.ErrUnsupportedCarrier)
}

func TestRegistry_CreateOrder_Routes(t *testing.T) {
	registry := shipper.NewRegistry()
	registry.Register(&stubShipper{
		name:         "alpha",
		confirmation: &shipper.OrderConfirmation{Carrier: "alpha", Tracking: "A123"},
	})

	conf, err := registry.CreateOrder(context.Background(), "alpha", &shipper.ShipmentOrder{})

	require.NoError(t, err)
	assert.Equal(t, "A123", conf.Tracking)
}

func TestRegistry_TestCredentials_UnknownCarrier(t *testing.T) {
	registry := shipper.NewRegistry()

	_, err := registry.TestCredentials(context.Background(), "nope", shipper.Credentials{})

	assert.ErrorIs(t, err, shipper.ErrUnsupportedCarrier)
}

func TestRegistry_Names_RegistrationOrder(t *testing.T) {
	registry := shipper.NewRegistry()
	registry.Register(&stubShipper{name: "charlie"})
	registry.Register(&stubShipper{name: "alpha"})
	registry.Register(&stubShipper{name: "bravo"})

	assert.Equal(t, []string{"charlie", "alpha", "bravo"}, registry.Names())
	assert.Equal(t, 3, registry.Count())
}
