package fedex

import (
	"context"
)

// APIClient defines the interface for FedEx API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// GetRates fetches priced service options from the FedEx rate API
	GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error)

	// CreateShipment creates a new shipment order
	CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error)
}

// ============================================================================
// API Request/Response Types (match FedEx REST API structure)
// ============================================================================

// AccountNumber wraps the FedEx account number.
type AccountNumber struct {
	Value string `json:"value"`
}

// RatesRequest represents a FedEx rate quote request.
// POST /rate/v1/rates/quotes
type RatesRequest struct {
	AccountNumber     AccountNumber     `json:"accountNumber"`
	RequestedShipment RequestedShipment `json:"requestedShipment"`
}

// RequestedShipment holds the shipment details for a rate request.
type RequestedShipment struct {
	Shipper                   RateParty         `json:"shipper"`
	Recipient                 RateParty         `json:"recipient"`
	PickupType                string            `json:"pickupType"`
	RateRequestType           []string          `json:"rateRequestType"`
	RequestedPackageLineItems []PackageLineItem `json:"requestedPackageLineItems"`
}

// RateParty is one end of the shipment in a rate request.
type RateParty struct {
	Address APIAddress `json:"address"`
}

// APIAddress is a FedEx wire-format address.
type APIAddress struct {
	PostalCode          string `json:"postalCode"`
	City                string `json:"city,omitempty"`
	StateOrProvinceCode string `json:"stateOrProvinceCode,omitempty"`
	CountryCode         string `json:"countryCode"`
}

// PackageLineItem is one package in the shipment.
type PackageLineItem struct {
	Weight     Weight         `json:"weight"`
	Dimensions *DimensionsAPI `json:"dimensions,omitempty"`
}

// Weight is a FedEx weight value.
type Weight struct {
	Units string  `json:"units"` // "KG"
	Value float64 `json:"value"`
}

// DimensionsAPI are FedEx package dimensions.
type DimensionsAPI struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Units  string  `json:"units"` // "CM"
}

// RatesResponse represents the FedEx rate quote response.
type RatesResponse struct {
	Output RateOutput `json:"output"`
}

// RateOutput holds the rate reply list.
type RateOutput struct {
	RateReplyDetails []RateReplyDetail `json:"rateReplyDetails"`
}

// RateReplyDetail is one priced service option.
type RateReplyDetail struct {
	ServiceType          string                `json:"serviceType"`
	ServiceName          string                `json:"serviceName"`
	Commit               *CommitDetail         `json:"commit,omitempty"`
	RatedShipmentDetails []RatedShipmentDetail `json:"ratedShipmentDetails"`
}

// RatedShipmentDetail carries the price for one rating option.
type RatedShipmentDetail struct {
	TotalNetCharge float64 `json:"totalNetCharge"`
	Currency       string  `json:"currency"`
}

// CommitDetail carries the delivery commitment.
type CommitDetail struct {
	TransitTime string `json:"transitTime"` // e.g. "TWO_DAYS"
}

// ShipmentRequest represents a FedEx shipment creation request.
// POST /ship/v1/shipments
type ShipmentRequest struct {
	AccountNumber        AccountNumber         `json:"accountNumber"`
	LabelResponseOptions string                `json:"labelResponseOptions"`
	RequestedShipment    ShipRequestedShipment `json:"requestedShipment"`
}

// ShipRequestedShipment holds the shipment details for creation.
type ShipRequestedShipment struct {
	Shipper                   ShipParty          `json:"shipper"`
	Recipients                []ShipParty        `json:"recipients"`
	ServiceType               string             `json:"serviceType"`
	PackagingType             string             `json:"packagingType"`
	PickupType                string             `json:"pickupType"`
	ShippingChargesPayment    Payment            `json:"shippingChargesPayment"`
	LabelSpecification        LabelSpecification `json:"labelSpecification"`
	RequestedPackageLineItems []PackageLineItem  `json:"requestedPackageLineItems"`
}

// ShipParty is one end of the shipment with contact details.
type ShipParty struct {
	Contact Contact    `json:"contact"`
	Address APIAddress `json:"address"`
}

// Contact holds person-level contact info.
type Contact struct {
	PersonName  string `json:"personName"`
	PhoneNumber string `json:"phoneNumber"`
}

// Payment describes who pays for the shipment.
type Payment struct {
	PaymentType string `json:"paymentType"` // "SENDER"
}

// LabelSpecification describes the requested label.
type LabelSpecification struct {
	ImageType      string `json:"imageType"` // "PDF"
	LabelStockType string `json:"labelStockType"`
}

// ShipmentResponse represents the FedEx shipment creation response.
type ShipmentResponse struct {
	Output ShipOutput `json:"output"`
}

// ShipOutput holds the created shipments.
type ShipOutput struct {
	TransactionShipments []TransactionShipment `json:"transactionShipments"`
}

// TransactionShipment is one created shipment.
type TransactionShipment struct {
	MasterTrackingNumber string          `json:"masterTrackingNumber"`
	PieceResponses       []PieceResponse `json:"pieceResponses"`
}

// PieceResponse is one package within a shipment.
type PieceResponse struct {
	TrackingNumber   string            `json:"trackingNumber"`
	PackageDocuments []PackageDocument `json:"packageDocuments"`
}

// PackageDocument is a label or other document attached to a piece.
type PackageDocument struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
}

// tokenResponse is the OAuth client-credentials grant response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// APIError represents an error from the FedEx API.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}
