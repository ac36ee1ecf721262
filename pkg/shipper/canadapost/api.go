package canadapost

import (
	"context"
)

// APIClient defines the interface for Canada Post API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// GetRates fetches priced service options from the rating API
	GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error)

	// CreateShipment creates a new shipment order
	CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error)
}

// ============================================================================
// API Request/Response Types (match Canada Post REST/XML API structure)
// ============================================================================

// RatesRequest represents a Canada Post rate quote request.
type RatesRequest struct {
	CustomerNumber     string
	OriginPostal       string
	DestinationPostal  string
	DestinationCountry string
	Weight             float64
	Dimensions         Dimensions
}

// Dimensions represents package dimensions in centimetres.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// RatesResponse represents the Canada Post rate quote response.
type RatesResponse struct {
	Rates []Rate
}

// Rate represents a single priced service option.
type Rate struct {
	ServiceCode     string
	ServiceName     string
	Price           float64
	ExpectedTransit int
}

// ShipmentRequest represents a Canada Post shipment creation request.
type ShipmentRequest struct {
	CustomerNumber string
	ServiceCode    string
	Sender         ShipmentParty
	Destination    ShipmentParty
	ParcelWeight   float64
	Dimensions     Dimensions
}

// ShipmentParty is one end of a shipment.
type ShipmentParty struct {
	Name       string
	Phone      string
	Street     string
	City       string
	Province   string
	PostalCode string
	Country    string
}

// ShipmentResponse represents the Canada Post shipment creation response.
type ShipmentResponse struct {
	ShipmentID  string
	TrackingPIN string
}

// APIError represents an error from the Canada Post API.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Description
}
