// Package fedex provides integration with the FedEx REST shipping API.
package fedex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const carrierName = "fedex"

// Canned sandbox quote. Contract constants for demo/staging
// environments.
const (
	SandboxPrice    = 24.99
	SandboxDelivery = "2 days"
)

const sandboxTrackingPrefix = "FDX"

const credentialTestTimeout = 30 * time.Second

// Config holds FedEx configuration.
type Config struct {
	ClientID      string
	ClientSecret  string
	AccountNumber string
	Environment   shipper.Environment
	BaseURL       string // optional override; derived from Environment when empty
}

// Client is the FedEx shipper client.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
}

// New creates a new FedEx client.
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
			BaseURL:      cfg.BaseURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
		}),
		logger: logger,
	}
}

// NewWithAPIClient creates a new FedEx client with a custom API client.
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

// Rate returns FedEx's cheapest priced service for the parcel.
// In sandbox mode it returns the canned quote without a network call.
func (c *Client) Rate(ctx context.Context, origin, destination shipper.Address, parcel shipper.Parcel) (*shipper.Quote, error) {
	if !c.config.Environment.IsProduction() {
		return &shipper.Quote{Carrier: carrierName, Price: SandboxPrice, Delivery: SandboxDelivery}, nil
	}

	origin = origin.Normalized()
	destination = destination.Normalized()

	c.logger.Info("Getting FedEx rates",
		zap.String("origin_postal", origin.PostalCode),
		zap.String("destination_postal", destination.PostalCode),
		zap.Float64("weight_kg", parcel.Weight),
	)

	apiResp, err := c.apiClient.GetRates(ctx, &RatesRequest{
		AccountNumber: AccountNumber{Value: c.config.AccountNumber},
		RequestedShipment: RequestedShipment{
			Shipper:         RateParty{Address: addressToAPI(origin)},
			Recipient:       RateParty{Address: addressToAPI(destination)},
			PickupType:      "DROPOFF_AT_FEDEX_LOCATION",
			RateRequestType: []string{"ACCOUNT"},
			RequestedPackageLineItems: []PackageLineItem{
				packageLineItem(parcel),
			},
		},
	})
	if err != nil {
		c.logger.Error("FedEx API error", zap.Error(err))
		return nil, err
	}

	best := cheapest(apiResp.Output.RateReplyDetails)
	if best == nil {
		return nil, nil
	}

	delivery := ""
	if best.Commit != nil {
		delivery = transitString(best.Commit.TransitTime)
	}
	return &shipper.Quote{
		Carrier:  carrierName,
		Price:    best.RatedShipmentDetails[0].TotalNetCharge,
		Delivery: delivery,
	}, nil
}

// CreateOrder creates a shipment with FedEx. The ship API returns the
// label URL in the same response, so Label is populated synchronously
// when present.
func (c *Client) CreateOrder(ctx context.Context, order *shipper.ShipmentOrder) (*shipper.OrderConfirmation, error) {
	if !c.config.Environment.IsProduction() {
		return &shipper.OrderConfirmation{
			Carrier:  carrierName,
			Tracking: sandboxTrackingPrefix + shipper.RandomDigits(8),
		}, nil
	}

	c.logger.Info("Creating FedEx shipment",
		zap.String("recipient", order.Recipient.Name),
		zap.String("destination_postal", order.Recipient.Address.PostalCode),
	)

	apiResp, err := c.apiClient.CreateShipment(ctx, &ShipmentRequest{
		AccountNumber:        AccountNumber{Value: c.config.AccountNumber},
		LabelResponseOptions: "URL_ONLY",
		RequestedShipment: ShipRequestedShipment{
			Shipper:                partyToAPI(order.Shipper),
			Recipients:             []ShipParty{partyToAPI(order.Recipient)},
			ServiceType:            "FEDEX_GROUND",
			PackagingType:          "YOUR_PACKAGING",
			PickupType:             "DROPOFF_AT_FEDEX_LOCATION",
			ShippingChargesPayment: Payment{PaymentType: "SENDER"},
			LabelSpecification:     LabelSpecification{ImageType: "PDF", LabelStockType: "PAPER_4X6"},
			RequestedPackageLineItems: []PackageLineItem{
				packageLineItem(order.Parcel),
			},
		},
	})
	if err != nil {
		c.logger.Error("FedEx API error", zap.Error(err))
		return nil, err
	}

	if len(apiResp.Output.TransactionShipments) == 0 {
		return nil, shipper.NewCarrierError(carrierName, "EMPTY_RESPONSE", "no shipment in response")
	}
	shipment := apiResp.Output.TransactionShipments[0]

	var label *string
	if len(shipment.PieceResponses) > 0 && len(shipment.PieceResponses[0].PackageDocuments) > 0 {
		url := shipment.PieceResponses[0].PackageDocuments[0].URL
		if url != "" {
			label = &url
		}
	}

	return &shipper.OrderConfirmation{
		Carrier:  carrierName,
		Tracking: shipment.MasterTrackingNumber,
		Label:    label,
	}, nil
}

// TestCredentials performs a client-credentials grant with the
// caller-supplied id and secret. It always makes a real call, even in
// sandbox mode.
func (c *Client) TestCredentials(ctx context.Context, creds shipper.Credentials) (*shipper.CredentialCheck, error) {
	if err := creds.Require("client_id", "client_secret", "account_number"); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", creds["client_id"])
	form.Set("client_secret", creds["client_secret"])

	ctx, cancel := context.WithTimeout(ctx, credentialTestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

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

func addressToAPI(addr shipper.Address) APIAddress {
	return APIAddress{
		PostalCode:          addr.PostalCode,
		City:                addr.City,
		StateOrProvinceCode: addr.Province,
		CountryCode:         addr.Country,
	}
}

func partyToAPI(p shipper.Party) ShipParty {
	return ShipParty{
		Contact: Contact{PersonName: p.Name, PhoneNumber: p.Phone},
		Address: addressToAPI(p.Address.Normalized()),
	}
}

func packageLineItem(parcel shipper.Parcel) PackageLineItem {
	item := PackageLineItem{
		Weight: Weight{Units: "KG", Value: parcel.Weight},
	}
	if parcel.Length > 0 {
		item.Dimensions = &DimensionsAPI{
			Length: parcel.Length,
			Width:  parcel.Width,
			Height: parcel.Height,
			Units:  "CM",
		}
	}
	return item
}

// cheapest returns the lowest-priced option carrying a usable price.
func cheapest(details []RateReplyDetail) *RateReplyDetail {
	var best *RateReplyDetail
	for i := range details {
		if len(details[i].RatedShipmentDetails) == 0 {
			continue
		}
		price := details[i].RatedShipmentDetails[0].TotalNetCharge
		if price <= 0 {
			continue
		}
		if best == nil || price < best.RatedShipmentDetails[0].TotalNetCharge {
			best = &details[i]
		}
	}
	return best
}

func transitString(transit string) string {
	switch transit {
	case "ONE_DAY":
		return "1 day"
	case "TWO_DAYS":
		return "2 days"
	case "THREE_DAYS":
		return "3 days"
	case "FOUR_DAYS":
		return "4 days"
	case "FIVE_DAYS":
		return "5 days"
	case "SIX_DAYS":
		return "6 days"
	case "SEVEN_DAYS":
		return "7 days"
	default:
		return ""
	}
}

var _ shipper.Shipper = (*Client)(nil)
