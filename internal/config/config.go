package config

import (
	"fmt"

	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"80"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Environment selects sandbox or production carrier behavior for
	// the whole process. Anything other than "production" is sandbox.
	Environment string `envconfig:"SHIPPING_ENVIRONMENT" default:"sandbox"`

	// Origin warehouse, the ship-from address for all quotes and orders.
	OriginName       string `envconfig:"ORIGIN_NAME" default:"DermaNova Fulfillment"`
	OriginPhone      string `envconfig:"ORIGIN_PHONE"`
	OriginStreet     string `envconfig:"ORIGIN_STREET"`
	OriginCity       string `envconfig:"ORIGIN_CITY"`
	OriginProvince   string `envconfig:"ORIGIN_PROVINCE"`
	OriginPostalCode string `envconfig:"ORIGIN_POSTAL_CODE"`
	OriginCountry    string `envconfig:"ORIGIN_COUNTRY" default:"CA"`

	// Canada Post
	CanadaPostCustomerNumber string `envconfig:"CANADAPOST_CUSTOMER_NUMBER"`
	CanadaPostUsername       string `envconfig:"CANADAPOST_USERNAME"`
	CanadaPostPassword       string `envconfig:"CANADAPOST_PASSWORD"`
	CanadaPostBaseURL        string `envconfig:"CANADAPOST_BASE_URL"`
	CanadaPostEnabled        bool   `envconfig:"CANADAPOST_ENABLED" default:"true"`

	// FedEx
	FedExClientID      string `envconfig:"FEDEX_CLIENT_ID"`
	FedExClientSecret  string `envconfig:"FEDEX_CLIENT_SECRET"`
	FedExAccountNumber string `envconfig:"FEDEX_ACCOUNT_NUMBER"`
	FedExBaseURL       string `envconfig:"FEDEX_BASE_URL"`
	FedExEnabled       bool   `envconfig:"FEDEX_ENABLED" default:"true"`

	// DHL Express
	DHLAccountNumber string `envconfig:"DHL_ACCOUNT_NUMBER"`
	DHLAPIKey        string `envconfig:"DHL_API_KEY"`
	DHLBaseURL       string `envconfig:"DHL_BASE_URL"`
	DHLEnabled       bool   `envconfig:"DHL_ENABLED" default:"true"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://jaeger-collector.observability.svc.cluster.local:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"dermanova-shipping"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// ShippingEnvironment maps the configured environment string onto the
// shipper environment enum.
func (c *Config) ShippingEnvironment() shipper.Environment {
	if c.Environment == "production" {
		return shipper.EnvProduction
	}
	return shipper.EnvSandbox
}

// OriginAddress returns the configured ship-from address.
func (c *Config) OriginAddress() shipper.Address {
	return shipper.Address{
		PostalCode: c.OriginPostalCode,
		City:       c.OriginCity,
		Province:   c.OriginProvince,
		Country:    c.OriginCountry,
	}
}

// OriginParty returns the configured ship-from party for shipment orders.
func (c *Config) OriginParty() shipper.Party {
	return shipper.Party{
		Name:    c.OriginName,
		Phone:   c.OriginPhone,
		Street:  c.OriginStreet,
		Address: c.OriginAddress(),
	}
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("shipping.environment", c.Environment),
		attribute.Bool("canadapost.enabled", c.CanadaPostEnabled),
		attribute.Bool("fedex.enabled", c.FedExEnabled),
		attribute.Bool("dhl.enabled", c.DHLEnabled),
	}
}
