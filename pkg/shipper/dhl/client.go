// Package dhl provides integration with the DHL Express REST shipping API.
package dhl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const carrierName = "dhl"

// Canned sandbox quote. Contract constants for demo/staging
// environments.
const (
	SandboxPrice    = 29.99
	SandboxDelivery = "3 days"
)

const sandboxTrackingPrefix = "DHL"

const credentialTestTimeout = 30 * time.Second

// Config holds DHL configuration.
type Config struct {
	AccountNumber string
	APIKey        string
	Environment   shipper.Environment
	BaseURL       string // optional override; derived from Environment when empty
}

// Client is the DHL shipper client.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
}

// New creates a new DHL client.
func New(cfg Config, logger *otelzap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = SandboxBaseURL
		if cfg.Environment.IsProduction() {
			cfg.BaseURL = ProductionBaseURL
		}
	}

	return &Client{
		config: cfg,
		apiClient: NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
		}),
		logger: logger,
	}
}

// NewWithAPIClient creates a new DHL client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// Rate returns DHL's cheapest priced product for the parcel.
// In sandbox mode it returns the canned quote without a network call.
func (c *Client) Rate(ctx context.Context, origin, destination shipper.Address, parcel shipper.Parcel) (*shipper.Quote, error) {
	if !c.config.Environment.IsProduction() {
		return &shipper.Quote{Carrier: carrierName, Price: SandboxPrice, Delivery: SandboxDelivery}, nil
	}

	origin = origin.Normalized()
	destination = destination.Normalized()

	c.logger.Info("Getting DHL rates",
		zap.String("origin_postal", origin.PostalCode),
		zap.String("destination_postal", destination.PostalCode),
		zap.Float64("weight_kg", parcel.Weight),
	)

	apiResp, err := c.apiClient.GetRates(ctx, &RatesRequest{
		CustomerDetails: CustomerDetails{
			ShipperDetails: PostalDetails{
				PostalCode:  origin.PostalCode,
				CityName:    origin.City,
				CountryCode: origin.Country,
			},
			ReceiverDetails: PostalDetails{
				PostalCode:  destination.PostalCode,
				CityName:    destination.City,
				CountryCode: destination.Country,
			},
		},
		Accounts:            []Account{{TypeCode: "shipper", Number: c.config.AccountNumber}},
		Packages:            []Package{parcelToPackage(parcel)},
		IsCustomsDeclarable: origin.Country != destination.Country,
		UnitOfMeasurement:   "metric",
	})
	if err != nil {
		c.logger.Error("DHL API error", zap.Error(err))
		return nil, err
	}

	best, price := cheapest(apiResp.Products)
	if best == nil {
		return nil, nil
	}

	delivery := ""
	if best.DeliveryCapabilities != nil {
		delivery = transitString(best.DeliveryCapabilities.TotalTransitDays)
	}
	return &shipper.Quote{
		Carrier:  carrierName,
		Price:    price,
		Delivery: delivery,
	}, nil
}

// CreateOrder creates a shipment with DHL. The shipments API returns
// label documents in the same response; Label carries the document
// URL when one is provided.
func (c *Client) CreateOrder(ctx context.Context, order *shipper.ShipmentOrder) (*shipper.OrderConfirmation, error) {
	if !c.config.Environment.IsProduction() {
		return &shipper.OrderConfirmation{
			Carrier:  carrierName,
			Tracking: sandboxTrackingPrefix + shipper.RandomDigits(8),
		}, nil
	}

	c.logger.Info("Creating DHL shipment",
		zap.String("recipient", order.Recipient.Name),
		zap.String("destination_postal", order.Recipient.Address.PostalCode),
	)

	shipperAddr := order.Shipper.Address.Normalized()
	recipientAddr := order.Recipient.Address.Normalized()

	apiResp, err := c.apiClient.CreateShipment(ctx, &ShipmentRequest{
		PlannedShippingDateAndTime: time.Now().Format("2006-01-02T15:04:05 GMT-07:00"),
		Pickup:                     Pickup{IsRequested: false},
		ProductCode:                "P",
		Accounts:                   []Account{{TypeCode: "shipper", Number: c.config.AccountNumber}},
		CustomerDetails: ShipmentParties{
			ShipperDetails: ShipmentParty{
				PostalAddress: PostalAddress{
					PostalCode:   shipperAddr.PostalCode,
					CityName:     shipperAddr.City,
					CountryCode:  shipperAddr.Country,
					ProvinceCode: shipperAddr.Province,
					AddressLine1: order.Shipper.Street,
				},
				ContactInformation: ContactInformation{
					FullName: order.Shipper.Name,
					Phone:    order.Shipper.Phone,
				},
			},
			ReceiverDetails: ShipmentParty{
				PostalAddress: PostalAddress{
					PostalCode:   recipientAddr.PostalCode,
					CityName:     recipientAddr.City,
					CountryCode:  recipientAddr.Country,
					ProvinceCode: recipientAddr.Province,
					AddressLine1: order.Recipient.Street,
				},
				ContactInformation: ContactInformation{
					FullName: order.Recipient.Name,
					Phone:    order.Recipient.Phone,
				},
			},
		},
		Content: ShipmentContent{
			Packages:            []Package{parcelToPackage(order.Parcel)},
			IsCustomsDeclarable: shipperAddr.Country != recipientAddr.Country,
			Description:         "Beauty products",
			UnitOfMeasurement:   "metric",
		},
	})
	if err != nil {
		c.logger.Error("DHL API error", zap.Error(err))
		return nil, err
	}

	var label *string
	for i := range apiResp.Documents {
		if apiResp.Documents[i].TypeCode == "label" && apiResp.Documents[i].URL != "" {
			label = &apiResp.Documents[i].URL
			break
		}
	}

	return &shipper.OrderConfirmation{
		Carrier:  carrierName,
		Tracking: apiResp.ShipmentTrackingNumber,
		Label:    label,
	}, nil
}

// TestCredentials submits a minimal rate request with the
// caller-supplied account number and API key. It always makes a real
// call, even in sandbox mode.
func (c *Client) TestCredentials(ctx context.Context, creds shipper.Credentials) (*shipper.CredentialCheck, error) {
	if err := creds.Require("account_number", "api_key"); err != nil {
		return nil, err
	}

	probe := &RatesRequest{
		CustomerDetails: CustomerDetails{
			ShipperDetails:  PostalDetails{PostalCode: "K1A0B1", CityName: "Ottawa", CountryCode: "CA"},
			ReceiverDetails: PostalDetails{PostalCode: "V6B2W2", CityName: "Vancouver", CountryCode: "CA"},
		},
		Accounts:          []Account{{TypeCode: "shipper", Number: creds["account_number"]}},
		Packages:          []Package{{Weight: 1, Dimensions: DimensionsAPI{Length: 10, Width: 10, Height: 10}}},
		UnitOfMeasurement: "metric",
	}
	jsonBody, err := json.Marshal(probe)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, credentialTestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/rates", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("DHL-API-Key", creds["api_key"])

	httpClient := &http.Client{Timeout: credentialTestTimeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, shipper.NewCarrierError(carrierName, "CREDENTIAL_TEST", "request failed").WithCause(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, shipper.NewCarrierError(carrierName, "CREDENTIAL_TEST", "unexpected status").
			WithStatusCode(resp.StatusCode).
			WithBody(string(body))
	}

	return &shipper.CredentialCheck{Status: resp.StatusCode, Response: string(body)}, nil
}

// ============================================================================
// Helpers
// ============================================================================

func parcelToPackage(parcel shipper.Parcel) Package {
	return Package{
		Weight: parcel.Weight,
		Dimensions: DimensionsAPI{
			Length: parcel.Length,
			Width:  parcel.Width,
			Height: parcel.Height,
		},
	}
}

// cheapest returns the lowest-priced product using the billing-currency
// price, along with that price.
func cheapest(products []Product) (*Product, float64) {
	var best *Product
	var bestPrice float64
	for i := range products {
		price := billedPrice(products[i].TotalPrice)
		if price <= 0 {
			continue
		}
		if best == nil || price < bestPrice {
			best = &products[i]
			bestPrice = price
		}
	}
	return best, bestPrice
}

func billedPrice(prices []TotalPrice) float64 {
	for _, p := range prices {
		if p.CurrencyType == "BILLC" {
			return p.Price
		}
	}
	if len(prices) > 0 {
		return prices[0].Price
	}
	return 0
}

func transitString(days int) string {
	if days <= 0 {
		return ""
	}
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

var _ shipper.Shipper = (*Client)(nil)
