package shipper

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// trackingPrefix is the storefront's brand prefix on internal
// shipment references.
const trackingPrefix = "DN"

// GenerateTrackingNumber produces the system's internal,
// carrier-independent shipment reference in the form
// DN-yymmddhhmmss-XXXXXX, where the suffix is 6 uppercase hex
// characters from 3 cryptographically random bytes. The reference is
// generated before any carrier is contacted and is kept alongside the
// carrier's own tracking identifier. There is no collision check;
// callers storing references under a unique key must regenerate on
// conflict.
func GenerateTrackingNumber() string {
	var b [3]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("%s-%s-%s",
		trackingPrefix,
		time.Now().Format("060102150405"),
		strings.ToUpper(fmt.Sprintf("%x", b)),
	)
}

// RandomDigits returns n decimal digits from crypto/rand. Carrier
// adapters use it for synthetic sandbox tracking numbers.
func RandomDigits(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	for i := range buf {
		buf[i] = '0' + buf[i]%10
	}
	return string(buf)
}
