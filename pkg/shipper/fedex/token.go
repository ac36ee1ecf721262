package fedex

import (
	"context"
	"sync"
	"time"

	"github.com/dermanova/shipping/pkg/shipper"
)

// tokenLifetime is how long a fetched bearer token is reused. FedEx
// issues tokens with a 3600 s lifetime; the 3300 s window leaves a
// safety margin so a token never expires mid-flight.
const tokenLifetime = 3300 * time.Second

// tokenCache caches one OAuth bearer token for the lifetime of the
// process. It is shared by every request going through the owning
// API client and keyed by nothing but carrier identity: not per-user,
// not per-destination. Nothing is persisted; a restarted process
// fetches a fresh token on first use.
type tokenCache struct {
	mu     sync.Mutex
	value  string
	expiry time.Time
	now    func() time.Time
}

func newTokenCache() *tokenCache {
	return &tokenCache{now: time.Now}
}

// get returns the cached token, invoking grant only when no valid
// token is held. The mutex is held across the grant so concurrent
// callers never trigger duplicate grant requests. An empty token from
// the grant maps to ErrTokenUnavailable, which callers surface as a
// quote abstention rather than a crash.
func (tc *tokenCache) get(ctx context.Context, grant func(context.Context) (string, error)) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.value != "" && tc.now().Before(tc.expiry) {
		return tc.value, nil
	}

	token, err := grant(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", shipper.ErrTokenUnavailable
	}

	tc.value = token
	tc.expiry = tc.now().Add(tokenLifetime)
	return token, nil
}

// expire forces the next get to refresh. Test hook.
func (tc *tokenCache) expire() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.expiry = tc.now().Add(-time.Second)
}
