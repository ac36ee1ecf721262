package dhl

import (
	"context"
)

// APIClient defines the interface for DHL Express API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// GetRates fetches priced products from the DHL rating API
	GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error)

	// CreateShipment creates a new shipment order
	CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error)
}

// ============================================================================
// API Request/Response Types (match DHL Express REST API structure)
// ============================================================================

// RatesRequest represents a DHL rate quote request.
// POST /rates
type RatesRequest struct {
	CustomerDetails     CustomerDetails `json:"customerDetails"`
	Accounts            []Account       `json:"accounts"`
	Packages            []Package       `json:"packages"`
	IsCustomsDeclarable bool            `json:"isCustomsDeclarable"`
	UnitOfMeasurement   string          `json:"unitOfMeasurement"` // "metric"
}

// CustomerDetails holds both ends of the shipment.
type CustomerDetails struct {
	ShipperDetails  PostalDetails `json:"shipperDetails"`
	ReceiverDetails PostalDetails `json:"receiverDetails"`
}

// PostalDetails is a DHL wire-format address.
type PostalDetails struct {
	PostalCode  string `json:"postalCode"`
	CityName    string `json:"cityName,omitempty"`
	CountryCode string `json:"countryCode"`
}

// Account identifies the billing account.
type Account struct {
	TypeCode string `json:"typeCode"` // "shipper"
	Number   string `json:"number"`
}

// Package is one piece in the shipment.
type Package struct {
	Weight     float64       `json:"weight"` // kg
	Dimensions DimensionsAPI `json:"dimensions"`
}

// DimensionsAPI are package dimensions in centimetres.
type DimensionsAPI struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RatesResponse represents the DHL rate quote response.
type RatesResponse struct {
	Products []Product `json:"products"`
}

// Product is one priced service option.
type Product struct {
	ProductName          string                `json:"productName"`
	ProductCode          string                `json:"productCode"`
	TotalPrice           []TotalPrice          `json:"totalPrice"`
	DeliveryCapabilities *DeliveryCapabilities `json:"deliveryCapabilities,omitempty"`
}

// TotalPrice is a price in one currency view.
type TotalPrice struct {
	CurrencyType  string  `json:"currencyType"` // "BILLC"
	Price         float64 `json:"price"`
	PriceCurrency string  `json:"priceCurrency"`
}

// DeliveryCapabilities carries the transit estimate.
type DeliveryCapabilities struct {
	TotalTransitDays int `json:"totalTransitDays"`
}

// ShipmentRequest represents a DHL shipment creation request.
// POST /shipments
type ShipmentRequest struct {
	PlannedShippingDateAndTime string          `json:"plannedShippingDateAndTime"`
	Pickup                     Pickup          `json:"pickup"`
	ProductCode                string          `json:"productCode"`
	Accounts                   []Account       `json:"accounts"`
	CustomerDetails            ShipmentParties `json:"customerDetails"`
	Content                    ShipmentContent `json:"content"`
}

// Pickup describes pickup arrangements.
type Pickup struct {
	IsRequested bool `json:"isRequested"`
}

// ShipmentParties holds full contact details for both ends.
type ShipmentParties struct {
	ShipperDetails  ShipmentParty `json:"shipperDetails"`
	ReceiverDetails ShipmentParty `json:"receiverDetails"`
}

// ShipmentParty is one end of the shipment.
type ShipmentParty struct {
	PostalAddress      PostalAddress      `json:"postalAddress"`
	ContactInformation ContactInformation `json:"contactInformation"`
}

// PostalAddress is a full DHL address.
type PostalAddress struct {
	PostalCode   string `json:"postalCode"`
	CityName     string `json:"cityName"`
	CountryCode  string `json:"countryCode"`
	ProvinceCode string `json:"provinceCode,omitempty"`
	AddressLine1 string `json:"addressLine1"`
}

// ContactInformation holds person-level contact info.
type ContactInformation struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// ShipmentContent describes the packages being shipped.
type ShipmentContent struct {
	Packages            []Package `json:"packages"`
	IsCustomsDeclarable bool      `json:"isCustomsDeclarable"`
	Description         string    `json:"description"`
	UnitOfMeasurement   string    `json:"unitOfMeasurement"`
}

// ShipmentResponse represents the DHL shipment creation response.
type ShipmentResponse struct {
	ShipmentTrackingNumber string     `json:"shipmentTrackingNumber"`
	Documents              []Document `json:"documents"`
}

// Document is a label or other document returned with the shipment.
type Document struct {
	TypeCode    string `json:"typeCode"` // "label"
	ImageFormat string `json:"imageFormat"`
	URL         string `json:"url,omitempty"`
	Content     string `json:"content,omitempty"` // base64 when inlined
}

// APIError represents an error from the DHL API.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Title + ": " + e.Detail
	}
	return e.Title
}
