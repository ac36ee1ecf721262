package shipper

import (
	"fmt"
	"sort"
	"strings"
)

// Address represents a shipment origin or destination. Postal code is
// the only field every carrier requires; country defaults to "CA".
type Address struct {
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Province   string `json:"province"` // e.g., "ON", "QC", "BC"
	Country    string `json:"country"`  // ISO 3166-1 alpha-2, e.g., "CA", "US"
}

// Normalized returns a copy with the country defaulted to "CA" and the
// postal code upper-cased with spaces removed, the form carrier APIs
// expect.
func (a Address) Normalized() Address {
	a.PostalCode = strings.ReplaceAll(strings.ToUpper(a.PostalCode), " ", "")
	if a.Country == "" {
		a.Country = "CA"
	}
	return a
}

// Parcel is the combined package for a shipment: weight in kg,
// dimensions in cm. All fields are >= 0.
type Parcel struct {
	Weight float64
	Length float64
	Width  float64
	Height float64
}

// Quote is one carrier's best price for a shipment. Price is a
// currency-agnostic decimal; Delivery is a human-readable estimate
// such as "3 days".
type Quote struct {
	Carrier  string  `json:"carrier"`
	Price    float64 `json:"price"`
	Delivery string  `json:"delivery"`
}

// Party identifies one end of a shipment.
type Party struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
	Street  string  `json:"street"`
}

// ShipmentOrder is a booked-shipment request: who ships, who receives,
// and the combined parcel. Constructed by the checkout flow and passed
// opaquely to the carrier adapter.
type ShipmentOrder struct {
	Shipper   Party
	Recipient Party
	Parcel    Parcel
}

// OrderConfirmation is the result of creating a shipment with a
// carrier. Tracking is the carrier-issued identifier; Label is nil
// when the carrier requires a separate call to fetch the label.
type OrderConfirmation struct {
	Carrier  string  `json:"carrier"`
	Tracking string  `json:"tracking"`
	Label    *string `json:"label"`
}

// CredentialCheck is the raw diagnostic result of a credential test:
// the HTTP status and the response body as returned by the carrier.
// It is a pass-through for operator inspection, not a normalized
// result.
type CredentialCheck struct {
	Status   int    `json:"status"`
	Response string `json:"response"`
}

// Credentials holds caller-supplied carrier credentials for the
// credential-test path. Keys are carrier-specific (e.g. "client_id",
// "api_key").
type Credentials map[string]string

// Require returns an error naming every listed key that is missing or
// empty. The check runs before any network call.
func (c Credentials) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if strings.TrimSpace(c[k]) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
}
