package dhl_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/dermanova/shipping/pkg/shipper/dhl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(env shipper.Environment, mockClient *dhl.MockAPIClient) *dhl.Client {
	logger := otelzap.New(zap.NewNop())
	return dhl.NewWithAPIClient(
		dhl.Config{AccountNumber: "123456789", Environment: env},
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
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(shipper.EnvSandbox, mockAPI)

	quote, err := client.Rate(context.Background(), origin, destination, parcel)

	require.NoError(t, err)
	assert.Equal(t, "dhl", quote.Carrier)
	assert.Equal(t, dhl.SandboxPrice, quote.Price)
	assert.Equal(t, dhl.SandboxDelivery, quote.Delivery)
}

func TestClient_Rate_PicksCheapest(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	client := newTestClient(shipper.EnvProduction, mockAPI)

	quote, err := client.Rate(context.Background(), origin, destination, parcel)

	require.NoError(t, err)
	// Default mock: Express Worldwide 42.10, Express 12:00 58.90.
	assert.Equal(t, 42.10, quote.Price)
	assert.Equal(t, "3 days", quote.Delivery)
}

func TestClient_Rate_UsesBillingCurrencyPrice(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.OnGetRates = func(ctx context.Context, req *dhl.RatesRequest) (*dhl.RatesResponse, error) {
		return &dhl.RatesResponse{
			Products: []dhl.Product{
				{
					ProductName: "EXPRESS WORLDWIDE",
					ProductCode: "P",
					TotalPrice: []dhl.TotalPrice{
						{CurrencyType: "BASEC", Price: 39.00, PriceCurrency: "USD"},
						{CurrencyType: "BILLC", Price: 51.25, PriceCurrency: "CAD"},
					},
					DeliveryCapabilities: &dhl.DeliveryCapabilities{TotalTransitDays: 1},
				},
			},
		}, nil
	}
	client := newTestClient(shipper.EnvProduction, mockAPI)

	quote, err := client.Rate(context.Background(), origin, destination, parcel)

	require.NoError(t, err)
	assert.Equal(t, 51.25, quote.Price)
	assert.Equal(t, "1 day", quote.Delivery)
}

func TestClient_Rate_AbstainsOnNoProducts(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.OnGetRates = func(ctx context.Context, req *dhl.RatesRequest) (*dhl.RatesResponse, error) {
		return &dhl.RatesResponse{}, nil
	}
	client := newTestClient(shipper.EnvProduction, mockAPI)

	quote, err := client.Rate(context.Background(), origin, destination, parcel)

	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestClient_CreateOrder_Sandbox(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(shipper.EnvSandbox, mockAPI)

	conf, err := client.CreateOrder(context.Background(), &shipper.ShipmentOrder{
		Recipient: shipper.Party{Name: "Jane Smith", Address: destination},
		Parcel:    parcel,
	})

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^DHL\d{8}$`), conf.Tracking)
	assert.Nil(t, conf.Label)
}

func TestClient_CreateOrder_Production_LabelURL(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	client := newTestClient(shipper.EnvProduction, mockAPI)

	conf, err := client.CreateOrder(context.Background(), &shipper.ShipmentOrder{
		Shipper:   shipper.Party{Name: "DermaNova Fulfillment", Address: origin},
		Recipient: shipper.Party{Name: "Jane Smith", Address: destination},
		Parcel:    parcel,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, conf.Tracking)
	require.NotNil(t, conf.Label)
	assert.Contains(t, *conf.Label, ".pdf")
}

func TestClient_TestCredentials_MissingFields(t *testing.T) {
	client := newTestClient(shipper.EnvSandbox, dhl.NewMockAPIClient())

	_, err := client.TestCredentials(context.Background(), shipper.Credentials{})

	require.Error(t, err)
	assert.ErrorIs(t, err, shipper.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "account_number, api_key")
}

func TestClient_TestCredentials_SendsAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rates", r.URL.Path)
		assert.Equal(t, "key-abc", r.Header.Get("DHL-API-Key"))
		w.Write([]byte(`{"products":[]}`))
	}))
	defer srv.Close()

	logger := otelzap.New(zap.NewNop())
	client := dhl.NewWithAPIClient(
		dhl.Config{Environment: shipper.EnvSandbox, BaseURL: srv.URL},
		dhl.NewMockAPIClient(),
		logger,
	)

	check, err := client.TestCredentials(context.Background(), shipper.Credentials{
		"account_number": "123456789",
		"api_key":        "key-abc",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, check.Status)
	assert.Contains(t, check.Response, "products")
}

func TestClient_Name(t *testing.T) {
	client := newTestClient(shipper.EnvSandbox, dhl.NewMockAPIClient())
	assert.Equal(t, "dhl", client.Name())
}
