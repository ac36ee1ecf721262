package shipper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Registry manages registered shipping carriers and fans rate requests
// out to all of them.
type Registry struct {
	shippers map[string]Shipper
	order    []string
	mu       sync.RWMutex

	// perCarrierTimeout bounds each carrier's rate call. Timeout is
	// treated the same as any other abstention.
	perCarrierTimeout time.Duration
}

// NewRegistry creates a new carrier registry.
func NewRegistry() *Registry {
	return &Registry{
		shippers:          make(map[string]Shipper),
		perCarrierTimeout: 10 * time.Second,
	}
}

// Register adds a carrier to the registry.
func (r *Registry) Register(s Shipper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shippers[s.Name()]; !ok {
		r.order = append(r.order, s.Name())
	}
	r.shippers[s.Name()] = s
}

// Get returns a carrier by name.
func (r *Registry) Get(name string) (Shipper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.shippers[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedCarrier, name)
}

// Names returns the names of all registered carriers in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Count returns the number of registered carriers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shippers)
}

// RateAll asks every registered carrier for its best quote in
// parallel. The result has a fixed shape: one entry per registered
// carrier, nil when that carrier abstained (unreachable, timed out,
// or no priced options). One carrier's failure never blocks the
// others. Errors are collected per carrier for logging; they are not
// fatal to the call.
func (r *Registry) RateAll(ctx context.Context, origin, destination Address, parcel Parcel) (map[string]*Quote, map[string]error) {
	r.mu.RLock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	shippers := make(map[string]Shipper, len(r.shippers))
	for name, s := range r.shippers {
		shippers[name] = s
	}
	timeout := r.perCarrierTimeout
	r.mu.RUnlock()

	// Every carrier key is present before any goroutine starts writing;
	// after this point the map is only touched under mu.
	quotes := make(map[string]*Quote, len(names))
	errs := make(map[string]error)
	for _, name := range names {
		quotes[name] = nil
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)

	for _, name := range names {
		s := shippers[name]

		g.Go(func() error {
			rateCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			quote, err := s.Rate(rateCtx, origin, destination, parcel)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[s.Name()] = err
				return nil // abstention, continue with other carriers
			}
			quotes[s.Name()] = quote
			return nil
		})
	}

	g.Wait()
	return quotes, errs
}

// CreateOrder routes a shipment to the named carrier. An unknown
// carrier id is a hard error; no fallback carrier is attempted.
func (r *Registry) CreateOrder(ctx context.Context, carrierID string, order *ShipmentOrder) (*OrderConfirmation, error) {
	s, err := r.Get(carrierID)
	if err != nil {
		return nil, err
	}
	return s.CreateOrder(ctx, order)
}

// TestCredentials routes a credential check to the named carrier.
func (r *Registry) TestCredentials(ctx context.Context, carrierID string, creds Credentials) (*CredentialCheck, error) {
	s, err := r.Get(carrierID)
	if err != nil {
		return nil, err
	}
	return s.TestCredentials(ctx, creds)
}
