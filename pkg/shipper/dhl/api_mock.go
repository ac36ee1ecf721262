package dhl

import (
	"context"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors bool

	OnGetRates       func(ctx context.Context, req *RatesRequest) (*RatesResponse, error)
	OnCreateShipment func(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// GetRates returns mock priced products.
func (m *MockAPIClient) GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error) {
	if m.SimulateErrors {
		return nil, &APIError{Status: 500, Title: "MOCK_ERROR", Detail: "Simulated API error"}
	}

	if m.OnGetRates != nil {
		return m.OnGetRates(ctx, req)
	}

	return &RatesResponse{
		Products: []Product{
			{
				ProductName:          "EXPRESS WORLDWIDE",
				ProductCode:          "P",
				TotalPrice:           []TotalPrice{{CurrencyType: "BILLC", Price: 42.10, PriceCurrency: "CAD"}},
				DeliveryCapabilities: &DeliveryCapabilities{TotalTransitDays: 3},
			},
			{
				ProductName:          "EXPRESS 12:00",
				ProductCode:          "Y",
				TotalPrice:           []TotalPrice{{CurrencyType: "BILLC", Price: 58.90, PriceCurrency: "CAD"}},
				DeliveryCapabilities: &DeliveryCapabilities{TotalTransitDays: 2},
			},
		},
	}, nil
}

// CreateShipment creates a mock shipment.
func (m *MockAPIClient) CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error) {
	if m.SimulateErrors {
		return nil, &APIError{Status: 500, Title: "MOCK_ERROR", Detail: "Simulated API error"}
	}

	if m.OnCreateShipment != nil {
		return m.OnCreateShipment(ctx, req)
	}

	tracking := "JD" + uuid.New().String()[:10]
	return &ShipmentResponse{
		ShipmentTrackingNumber: tracking,
		Documents: []Document{
			{TypeCode: "label", ImageFormat: "PDF", URL: "https://express.api.dhl.com/labels/" + tracking + ".pdf"},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
