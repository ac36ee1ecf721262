package fedex

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

// GetRates returns mock priced service options.
func (m *MockAPIClient) GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error) {
	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Message: "Simulated API error"}
	}

	if m.OnGetRates != nil {
		return m.OnGetRates(ctx, req)
	}

	return &RatesResponse{
		Output: RateOutput{
			RateReplyDetails: []RateReplyDetail{
				{
					ServiceType:          "FEDEX_GROUND",
					ServiceName:          "FedEx Ground",
					Commit:               &CommitDetail{TransitTime: "FIVE_DAYS"},
					RatedShipmentDetails: []RatedShipmentDetail{{TotalNetCharge: 18.75, Currency: "CAD"}},
				},
				{
					ServiceType:          "FEDEX_2_DAY",
					ServiceName:          "FedEx 2Day",
					Commit:               &CommitDetail{TransitTime: "TWO_DAYS"},
					RatedShipmentDetails: []RatedShipmentDetail{{TotalNetCharge: 32.40, Currency: "CAD"}},
				},
				{
					ServiceType:          "PRIORITY_OVERNIGHT",
					ServiceName:          "FedEx Priority Overnight",
					Commit:               &CommitDetail{TransitTime: "ONE_DAY"},
					RatedShipmentDetails: []RatedShipmentDetail{{TotalNetCharge: 61.10, Currency: "CAD"}},
				},
			},
		},
	}, nil
}

// CreateShipment creates a mock shipment.
func (m *MockAPIClient) CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error) {
	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Message: "Simulated API error"}
	}

	if m.OnCreateShipment != nil {
		return m.OnCreateShipment(ctx, req)
	}

	tracking := "7949" + uuid.New().String()[:8]
	return &ShipmentResponse{
		Output: ShipOutput{
			TransactionShipments: []TransactionShipment{
				{
					MasterTrackingNumber: tracking,
					PieceResponses: []PieceResponse{
						{
							TrackingNumber: tracking,
							PackageDocuments: []PackageDocument{
								{URL: "https://www.fedex.com/label/" + tracking + ".pdf", ContentType: "LABEL"},
							},
						},
					},
				},
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
