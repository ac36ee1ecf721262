package config_test

import (
	"testing"

	"github.com/dermanova/shipping/internal/config"
	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "sandbox", cfg.Environment)
	assert.True(t, cfg.CanadaPostEnabled)
	assert.True(t, cfg.FedExEnabled)
	assert.True(t, cfg.DHLEnabled)
	assert.Equal(t, "CA", cfg.OriginCountry)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SHIPPING_ENVIRONMENT", "production")
	t.Setenv("FEDEX_ENABLED", "false")
	t.Setenv("ORIGIN_POSTAL_CODE", "M5V1A1")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.FedExEnabled)
	assert.Equal(t, shipper.EnvProduction, cfg.ShippingEnvironment())
	assert.Equal(t, "M5V1A1", cfg.OriginAddress().PostalCode)
}

func TestShippingEnvironment_DefaultsToSandbox(t *testing.T) {
	cfg := &config.Config{Environment: "staging"}
	assert.Equal(t, shipper.EnvSandbox, cfg.ShippingEnvironment())
}

func TestOriginParty(t *testing.T) {
	cfg := &config.Config{
		OriginName:       "DermaNova Fulfillment",
		OriginPhone:      "416-555-0100",
		OriginStreet:     "100 Warehouse Rd",
		OriginCity:       "Toronto",
		OriginProvince:   "ON",
		OriginPostalCode: "M5V1A1",
		OriginCountry:    "CA",
	}

	party := cfg.OriginParty()

	assert.Equal(t, "DermaNova Fulfillment", party.Name)
	assert.Equal(t, "100 Warehouse Rd", party.Street)
	assert.Equal(t, "M5V1A1", party.Address.PostalCode)
	assert.Equal(t, "ON", party.Address.Province)
}
