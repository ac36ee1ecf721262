package shipper_test

import (
	"regexp"
	"testing"

	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var trackingPattern = regexp.MustCompile(`^DN-\d{12}-[0-9A-F]{6}$`)

func TestGenerateTrackingNumber_Format(t *testing.T) {
	tn := shipper.GenerateTrackingNumber()
	assert.Regexp(t, trackingPattern, tn)
}

// Uniqueness is birthday-bound only: 10k draws from a 24-bit suffix
// within the same timestamp second expect a handful of collisions, so
// the test bounds duplicates rather than forbidding them. A generator
// with broken randomness collides thousands of times.
func TestGenerateTrackingNumber_Distribution(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	dupes := 0
	for i := 0; i < 10000; i++ {
		tn := shipper.GenerateTrackingNumber()
		require.Regexp(t, trackingPattern, tn)
		if _, ok := seen[tn]; ok {
			dupes++
		}
		seen[tn] = struct{}{}
	}
	assert.Less(t, dupes, 50)
}

func TestRandomDigits(t *testing.T) {
	d := shipper.RandomDigits(8)
	assert.Regexp(t, `^\d{8}$`, d)
}
