package canadapost

import (
	"context"
	"fmt"
	"time"

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

// GetRates returns mock priced service options.
func (m *MockAPIClient) GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error) {
	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnGetRates != nil {
		return m.OnGetRates(ctx, req)
	}

	return &RatesResponse{
		Rates: []Rate{
			{ServiceCode: "DOM.RP", ServiceName: "Regular Parcel", Price: 12.65, ExpectedTransit: 5},
			{ServiceCode: "DOM.XP", ServiceName: "Xpresspost", Price: 25.30, ExpectedTransit: 2},
			{ServiceCode: "DOM.PC", ServiceName: "Priority", Price: 44.29, ExpectedTransit: 1},
		},
	}, nil
}

// CreateShipment creates a mock shipment.
func (m *MockAPIClient) CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error) {
	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnCreateShipment != nil {
		return m.OnCreateShipment(ctx, req)
	}

	return &ShipmentResponse{
		ShipmentID:  "cp-ship-" + uuid.New().String()[:8],
		TrackingPIN: fmt.Sprintf("%d", 1000000000000+time.Now().UnixNano()%9000000000000),
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
