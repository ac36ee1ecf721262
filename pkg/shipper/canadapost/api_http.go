package canadapost

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Base URLs per environment. Canada Post runs a dedicated
// customer-test gateway for sandbox accounts.
const (
	ProductionBaseURL = "https://soa-gw.canadapost.ca"
	SandboxBaseURL    = "https://ct.soa-gw.canadapost.ca"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP/XML.
type HTTPAPIClient struct {
	baseURL        string
	customerNumber string
	username       string
	password       string
	httpClient     *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL        string
	CustomerNumber string
	Username       string
	Password       string
	Timeout        time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPAPIClient{
		baseURL:        cfg.BaseURL,
		customerNumber: cfg.CustomerNumber,
		username:       cfg.Username,
		password:       cfg.Password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ============================================================================
// XML Request/Response structures for Canada Post API
// ============================================================================

// mailingScenario is the XML structure for rate requests (rate-v4).
type mailingScenario struct {
	XMLName          xml.Name              `xml:"mailing-scenario"`
	Xmlns            string                `xml:"xmlns,attr"`
	CustomerNumber   string                `xml:"customer-number,omitempty"`
	ParcelCharacter  parcelCharacteristics `xml:"parcel-characteristics"`
	OriginPostalCode string                `xml:"origin-postal-code"`
	Destination      xmlDestination        `xml:"destination"`
}

type parcelCharacteristics struct {
	Weight     float64        `xml:"weight"`
	Dimensions *xmlDimensions `xml:"dimensions,omitempty"`
}

type xmlDimensions struct {
	Length float64 `xml:"length"`
	Width  float64 `xml:"width"`
	Height float64 `xml:"height"`
}

type xmlDestination struct {
	Domestic      *xmlDomestic      `xml:"domestic,omitempty"`
	International *xmlInternational `xml:"international,omitempty"`
}

type xmlDomestic struct {
	PostalCode string `xml:"postal-code"`
}

type xmlInternational struct {
	CountryCode string `xml:"country-code"`
}

// priceQuotes is the XML response structure for rates.
type priceQuotes struct {
	XMLName    xml.Name     `xml:"price-quotes"`
	PriceQuote []priceQuote `xml:"price-quote"`
}

type priceQuote struct {
	ServiceCode     string          `xml:"service-code"`
	ServiceLink     serviceLink     `xml:"service-link"`
	PriceDetails    priceDetails    `xml:"price-details"`
	ServiceStandard serviceStandard `xml:"service-standard"`
}

type serviceLink struct {
	ServiceName string `xml:"service-name"`
	Href        string `xml:"href,attr"`
}

type priceDetails struct {
	Base float64 `xml:"base"`
	Due  float64 `xml:"due"`
}

type serviceStandard struct {
	ExpectedTransitTime  int    `xml:"expected-transit-time"`
	ExpectedDeliveryDate string `xml:"expected-delivery-date"`
}

// shipmentInfo is the XML structure for shipment requests (shipment-v8).
type shipmentInfo struct {
	XMLName      xml.Name     `xml:"shipment"`
	Xmlns        string       `xml:"xmlns,attr"`
	DeliverySpec deliverySpec `xml:"delivery-spec"`
}

type deliverySpec struct {
	ServiceCode     string                `xml:"service-code"`
	Sender          xmlSenderInfo         `xml:"sender"`
	Destination     xmlDestinationInfo    `xml:"destination"`
	ParcelCharacter parcelCharacteristics `xml:"parcel-characteristics"`
}

type xmlSenderInfo struct {
	Name           string            `xml:"name"`
	ContactPhone   string            `xml:"contact-phone"`
	AddressDetails xmlAddressDetails `xml:"address-details"`
}

type xmlDestinationInfo struct {
	Name           string            `xml:"name"`
	AddressDetails xmlAddressDetails `xml:"address-details"`
}

type xmlAddressDetails struct {
	AddressLine1  string `xml:"address-line-1"`
	City          string `xml:"city"`
	ProvState     string `xml:"prov-state"`
	PostalZipCode string `xml:"postal-zip-code"`
	CountryCode   string `xml:"country-code"`
}

// shipmentInfoResponse is the XML response for shipment creation.
type shipmentInfoResponse struct {
	XMLName        xml.Name `xml:"shipment-info"`
	ShipmentID     string   `xml:"shipment-id"`
	ShipmentStatus string   `xml:"shipment-status"`
	TrackingPIN    string   `xml:"tracking-pin"`
}

// messages is the XML error response structure.
type messages struct {
	XMLName xml.Name  `xml:"messages"`
	Message []message `xml:"message"`
}

type message struct {
	Code        string `xml:"code"`
	Description string `xml:"description"`
}

// ============================================================================
// API Implementation
// ============================================================================

// GetRates fetches priced service options from the Canada Post API.
func (c *HTTPAPIClient) GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error) {
	scenario := mailingScenario{
		Xmlns:            "http://www.canadapost.ca/ws/ship/rate-v4",
		CustomerNumber:   req.CustomerNumber,
		OriginPostalCode: req.OriginPostal,
		ParcelCharacter: parcelCharacteristics{
			Weight: req.Weight,
		},
	}

	if req.Dimensions.Length > 0 {
		scenario.ParcelCharacter.Dimensions = &xmlDimensions{
			Length: req.Dimensions.Length,
			Width:  req.Dimensions.Width,
			Height: req.Dimensions.Height,
		}
	}

	if req.DestinationCountry == "" || req.DestinationCountry == "CA" {
		scenario.Destination.Domestic = &xmlDomestic{PostalCode: req.DestinationPostal}
	} else {
		scenario.Destination.International = &xmlInternational{CountryCode: req.DestinationCountry}
	}

	xmlBody, err := xml.Marshal(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/rs/ship/price", "application/vnd.cpc.ship.rate-v4+xml", xmlBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp)
	}

	var quotes priceQuotes
	if err := xml.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	rates := make([]Rate, len(quotes.PriceQuote))
	for i, q := range quotes.PriceQuote {
		rates[i] = Rate{
			ServiceCode:     q.ServiceCode,
			ServiceName:     q.ServiceLink.ServiceName,
			Price:           q.PriceDetails.Due,
			ExpectedTransit: q.ServiceStandard.ExpectedTransitTime,
		}
	}

	return &RatesResponse{Rates: rates}, nil
}

// CreateShipment creates a new shipment via the Canada Post API.
func (c *HTTPAPIClient) CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error) {
	shipment := shipmentInfo{
		Xmlns: "http://www.canadapost.ca/ws/shipment-v8",
		DeliverySpec: deliverySpec{
			ServiceCode: req.ServiceCode,
			Sender: xmlSenderInfo{
				Name:         req.Sender.Name,
				ContactPhone: req.Sender.Phone,
				AddressDetails: xmlAddressDetails{
					AddressLine1:  req.Sender.Street,
					City:          req.Sender.City,
					ProvState:     req.Sender.Province,
					PostalZipCode: req.Sender.PostalCode,
					CountryCode:   req.Sender.Country,
				},
			},
			Destination: xmlDestinationInfo{
				Name: req.Destination.Name,
				AddressDetails: xmlAddressDetails{
					AddressLine1:  req.Destination.Street,
					City:          req.Destination.City,
					ProvState:     req.Destination.Province,
					PostalZipCode: req.Destination.PostalCode,
					CountryCode:   req.Destination.Country,
				},
			},
			ParcelCharacter: parcelCharacteristics{
				Weight: req.ParcelWeight,
			},
		},
	}

	if req.Dimensions.Length > 0 {
		shipment.DeliverySpec.ParcelCharacter.Dimensions = &xmlDimensions{
			Length: req.Dimensions.Length,
			Width:  req.Dimensions.Width,
			Height: req.Dimensions.Height,
		}
	}

	xmlBody, err := xml.Marshal(shipment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	path := fmt.Sprintf("/rs/%s/%s/shipment", req.CustomerNumber, req.CustomerNumber)
	resp, err := c.doRequest(ctx, http.MethodPost, path, "application/vnd.cpc.shipment-v8+xml", xmlBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, parseError(resp)
	}

	var shipmentResp shipmentInfoResponse
	if err := xml.NewDecoder(resp.Body).Decode(&shipmentResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &ShipmentResponse{
		ShipmentID:  shipmentResp.ShipmentID,
		TrackingPIN: shipmentResp.TrackingPIN,
	}, nil
}

// ============================================================================
// HTTP Helpers
// ============================================================================

func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path, contentType string, body []byte) (*http.Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Canada Post uses Basic Auth with the API username and password.
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept-Language", "en-CA")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", contentType)
	}

	return c.httpClient.Do(req)
}

func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var msgs messages
	if err := xml.Unmarshal(body, &msgs); err == nil && len(msgs.Message) > 0 {
		return &APIError{
			Code:        msgs.Message[0].Code,
			Description: msgs.Message[0].Description,
		}
	}

	return &APIError{
		Code:        fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Description: string(body),
	}
}

var _ APIClient = (*HTTPAPIClient)(nil)
