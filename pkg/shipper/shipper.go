// Package shipper provides an abstraction layer for shipping carriers.
package shipper

import (
	"context"
)

// Environment selects sandbox or production behaviour for a carrier
// adapter. In sandbox mode, rate and create-order calls return canned
// data without touching the network; credential tests always make a
// real call regardless of environment.
type Environment string

const (
	EnvSandbox    Environment = "sandbox"
	EnvProduction Environment = "production"
)

// IsProduction reports whether the environment is production.
// Any value other than "production" is treated as sandbox.
func (e Environment) IsProduction() bool {
	return e == EnvProduction
}

// Shipper defines the interface that all shipping carriers must implement.
type Shipper interface {
	// Name returns the carrier identifier (e.g., "canadapost", "fedex", "dhl").
	Name() string

	// Rate returns the carrier's single best (cheapest) quote for the
	// given origin, destination and parcel. A carrier that is
	// unreachable, misconfigured or has no priced service for the
	// request abstains by returning (nil, nil) or an error; callers
	// must treat either as "no quote from this carrier", not as a
	// fatal failure.
	Rate(ctx context.Context, origin, destination Address, parcel Parcel) (*Quote, error)

	// CreateOrder books a shipment with the carrier and returns the
	// carrier-assigned tracking identifier plus a label URL when the
	// carrier provides one in the same call.
	CreateOrder(ctx context.Context, order *ShipmentOrder) (*OrderConfirmation, error)

	// TestCredentials verifies caller-supplied credentials against the
	// carrier's live endpoint. Unlike Rate and CreateOrder it ignores
	// the sandbox short-circuit and surfaces transport and non-200
	// failures as errors carrying the raw response body.
	TestCredentials(ctx context.Context, creds Credentials) (*CredentialCheck, error)
}
