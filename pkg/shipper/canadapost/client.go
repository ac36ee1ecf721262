// Package canadapost provides integration with the Canada Post shipping API.
package canadapost

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const carrierName = "canadapost"

// Canned sandbox quote. These values are part of the contract for
// demo/staging environments, not test fixtures.
const (
	SandboxPrice    = 9.99
	SandboxDelivery = "5 days"
)

// sandboxTrackingPrefix is prepended to synthetic tracking numbers in
// sandbox mode.
const sandboxTrackingPrefix = "CP"

// credentialTestTimeout bounds the diagnostic credential-test call.
const credentialTestTimeout = 30 * time.Second

// Config holds Canada Post configuration.
type Config struct {
	CustomerNumber string
	Username       string
	Password       string
	Environment    shipper.Environment
	BaseURL        string // optional override; derived from Environment when empty
}

// Client is the Canada Post shipper client.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
}

// New creates a new Canada Post client.
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
			BaseURL:        cfg.BaseURL,
			CustomerNumber: cfg.CustomerNumber,
			Username:       cfg.Username,
			Password:       cfg.Password,
		}),
		logger: logger,
	}
}

// NewWithAPIClient creates a new Canada Post client with a custom API client.
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

// Rate returns Canada Post's cheapest priced service for the parcel.
// In sandbox mode it returns the canned quote without a network call.
func (c *Client) Rate(ctx context.Context, origin, destination shipper.Address, parcel shipper.Parcel) (*shipper.Quote, error) {
	if !c.config.Environment.IsProduction() {
		return &shipper.Quote{Carrier: carrierName, Price: SandboxPrice, Delivery: SandboxDelivery}, nil
	}

	origin = origin.Normalized()
	destination = destination.Normalized()

	c.logger.Info("Getting Canada Post rates",
		zap.String("origin_postal", origin.PostalCode),
		zap.String("destination_postal", destination.PostalCode),
		zap.Float64("weight_kg", parcel.Weight),
	)

	apiResp, err := c.apiClient.GetRates(ctx, &RatesRequest{
		CustomerNumber:     c.config.CustomerNumber,
		OriginPostal:       origin.PostalCode,
		DestinationPostal:  destination.PostalCode,
		DestinationCountry: destination.Country,
		Weight:             parcel.Weight,
		Dimensions: Dimensions{
			Length: parcel.Length,
			Width:  parcel.Width,
			Height: parcel.Height,
		},
	})
	if err != nil {
		c.logger.Error("Canada Post API error", zap.Error(err))
		return nil, err
	}

	best := cheapest(apiResp.Rates)
	if best == nil {
		return nil, nil
	}
	return &shipper.Quote{
		Carrier:  carrierName,
		Price:    best.Price,
		Delivery: transitString(best.ExpectedTransit),
	}, nil
}

// CreateOrder creates a shipment with Canada Post. The label is never
// returned here: Canada Post serves the label artifact from a separate
// follow-up endpoint, so Label is nil by design.
func (c *Client) CreateOrder(ctx context.Context, order *shipper.ShipmentOrder) (*shipper.OrderConfirmation, error) {
	if !c.config.Environment.IsProduction() {
		return &shipper.OrderConfirmation{
			Carrier:  carrierName,
			Tracking: sandboxTrackingPrefix + shipper.RandomDigits(8),
		}, nil
	}

	c.logger.Info("Creating Canada Post shipment",
		zap.String("recipient", order.Recipient.Name),
		zap.String("destination_postal", order.Recipient.Address.PostalCode),
	)

	apiResp, err := c.apiClient.CreateShipment(ctx, &ShipmentRequest{
		CustomerNumber: c.config.CustomerNumber,
		ServiceCode:    "DOM.RP",
		Sender:         partyToAPI(order.Shipper),
		Destination:    partyToAPI(order.Recipient),
		ParcelWeight:   order.Parcel.Weight,
		Dimensions: Dimensions{
			Length: order.Parcel.Length,
			Width:  order.Parcel.Width,
			Height: order.Parcel.Height,
		},
	})
	if err != nil {
		c.logger.Error("Canada Post API error", zap.Error(err))
		return nil, err
	}

	return &shipper.OrderConfirmation{
		Carrier:  carrierName,
		Tracking: apiResp.TrackingPIN,
	}, nil
}

// TestCredentials verifies a customer number, username and password
// against the rating endpoint. It always makes a real call, even in
// sandbox mode.
func (c *Client) TestCredentials(ctx context.Context, creds shipper.Credentials) (*shipper.CredentialCheck, error) {
	if err := creds.Require("customer_number", "username", "password"); err != nil {
		return nil, err
	}

	scenario := mailingScenario{
		Xmlns:            "http://www.canadapost.ca/ws/ship/rate-v4",
		CustomerNumber:   creds["customer_number"],
		OriginPostalCode: "K1A0B1",
		ParcelCharacter:  parcelCharacteristics{Weight: 1},
		Destination: xmlDestination{
			Domestic: &xmlDomestic{PostalCode: "V6B2W2"},
		},
	}
	xmlBody, err := xml.Marshal(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, credentialTestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/rs/ship/price", bytes.NewReader(xmlBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(creds["username"], creds["password"])
	req.Header.Set("Content-Type", "application/vnd.cpc.ship.rate-v4+xml")
	req.Header.Set("Accept", "application/vnd.cpc.ship.rate-v4+xml")

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

func partyToAPI(p shipper.Party) ShipmentParty {
	addr := p.Address.Normalized()
	return ShipmentParty{
		Name:       p.Name,
		Phone:      p.Phone,
		Street:     p.Street,
		City:       addr.City,
		Province:   addr.Province,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}
}

func cheapest(rates []Rate) *Rate {
	var best *Rate
	for i := range rates {
		if rates[i].Price <= 0 {
			continue
		}
		if best == nil || rates[i].Price < best.Price {
			best = &rates[i]
		}
	}
	return best
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
