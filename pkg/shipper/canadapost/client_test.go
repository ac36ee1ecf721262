package canadapost_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/dermanova/shipping/pkg/shipper/canadapost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(env shipper.Environment, mockClient *canadapost.MockAPIClient) *canadapost.Client {
	logger := otelzap.New(zap.NewNop())
	return canadapost.NewWithAPIClient(
		canadapost.Config{CustomerNumber: "1234567", Environment: env},
		mockClient,
		logger,
	)
}

var (
	origin      = shipper.Address{PostalCode: "M5V1A1", City: "Toronto", Province: "ON"}
	destination = shipper.Address{PostalCode: "V6B2W2", City: "Vancouver", Province: "BC"}
	parcel      = shipper.Parcel{Weight: 2.5, Length: 30, Width: 20, Height: 10}
)

func TestClient_Rate_Sandbox(t *testing.T) {
	// The mock would error on any call; the canned quote proves the
	// sandbox path never reaches the API client.
	mockAPI := canadapost.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(shipper.EnvSandbox, mockAPI)

	quote, err := client.Rate(context.Background(), origin, destination, parcel)

	require.NoError(t, err)
	assert.Equal(t, "canadapost", quote.Carrier)
	assert.Equal(t, canadapost.SandboxPrice, quote.Price)
	assert.Equal(t, canadapost.SandboxDelivery, quote.Delivery)
}

func TestClient_Rate_PicksCheapest(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	client := newTestClient(shipper.EnvProduction, mockAPI)

	quote, err := client.Rate(context.Background(), origin, destination, parcel)

	require.NoError(t, err)
	// Default mock returns Regular Parcel 12.65, Xpresspost 25.30,
	// Priority 44.29.
	assert.Equal(t, 12.65, quote.Price)
	assert.Equal(t, "5 days", quote.Delivery)
}

func TestClient_Rate_SkipsUnpricedOptions(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	mockAPI.OnGetRates = func(ctx context.Context, req *canadapost.RatesRequest) (*canadapost.RatesResponse, error) {
		return &canadapost.RatesResponse{
			Rates: []canadapost.Rate{
				{ServiceCode: "DOM.EP", ServiceName: "Expedited", Price: 0, ExpectedTransit: 4},
				{ServiceCode: "DOM.XP", ServiceName: "Xpresspost", Price: 25.30, ExpectedTransit: 2},
			},
		}, nil
	}
	client := newTestClient(shipper.EnvProduction, mockAPI)

	quote, err := client.Rate(context.Background(), origin, destination, parcel)

	require.NoError(t, err)
	assert.Equal(t, 25.30, quote.Price)
	assert.Equal(t, "2 days", quote.Delivery)
}

func TestClient_Rate_AbstainsOnNoOptions(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	mockAPI.OnGetRates = func(ctx context.Context, req *canadapost.RatesRequest) (*canadapost.RatesResponse, error) {
		return &canadapost.RatesResponse{}, nil
	}
	client := newTestClient(shipper.EnvProduction, mockAPI)

	quote, err := client.Rate(context.Background(), origin, destination, parcel)

	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestClient_Rate_APIError(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(shipper.EnvProduction, mockAPI)

	_, err := client.Rate(context.Background(), origin, destination, parcel)

	assert.Error(t, err)
}

func TestClient_CreateOrder_Sandbox(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(shipper.EnvSandbox, mockAPI)

	conf, err := client.CreateOrder(context.Background(), &shipper.ShipmentOrder{
		Recipient: shipper.Party{Name: "Jane Smith", Address: destination},
		Parcel:    parcel,
	})

	require.NoError(t, err)
	assert.Equal(t, "canadapost", conf.Carrier)
	assert.Regexp(t, regexp.MustCompile(`^CP\d{8}$`), conf.Tracking)
	assert.Nil(t, conf.Label)
}

func TestClient_CreateOrder_Production(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	mockAPI.OnCreateShipment = func(ctx context.Context, req *canadapost.ShipmentRequest) (*canadapost.ShipmentResponse, error) {
		assert.Equal(t, "1234567", req.CustomerNumber)
		return &canadapost.ShipmentResponse{ShipmentID: "cp-ship-1", TrackingPIN: "1234567890123"}, nil
	}
	client := newTestClient(shipper.EnvProduction, mockAPI)

	conf, err := client.CreateOrder(context.Background(), &shipper.ShipmentOrder{
		Shipper:   shipper.Party{Name: "DermaNova Fulfillment", Address: origin},
		Recipient: shipper.Party{Name: "Jane Smith", Address: destination},
		Parcel:    parcel,
	})

	require.NoError(t, err)
	assert.Equal(t, "1234567890123", conf.Tracking)
	// Canada Post serves the label from a follow-up endpoint, so the
	// label is always nil at creation time.
	assert.Nil(t, conf.Label)
}

func TestClient_TestCredentials_MissingFields(t *testing.T) {
	client := newTestClient(shipper.EnvSandbox, canadapost.NewMockAPIClient())

	_, err := client.TestCredentials(context.Background(), shipper.Credentials{
		"username": "merchant",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, shipper.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "customer_number")
	assert.Contains(t, err.Error(), "password")
}

func TestClient_Name(t *testing.T) {
	client := newTestClient(shipper.EnvSandbox, canadapost.NewMockAPIClient())
	assert.Equal(t, "canadapost", client.Name())
}
