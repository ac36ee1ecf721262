package main

import (
	"context"

	"github.com/dermanova/shipping/internal/config"
	"github.com/dermanova/shipping/internal/telemetry"
	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/dermanova/shipping/pkg/shipper/canadapost"
	"github.com/dermanova/shipping/pkg/shipper/dhl"
	"github.com/dermanova/shipping/pkg/shipper/fedex"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version, cfg.Attributes()...)
	return shutdown, err
}

func initShipperRegistry(cfg *config.Config, logger *otelzap.Logger) *shipper.Registry {
	registry := shipper.NewRegistry()
	env := cfg.ShippingEnvironment()

	if cfg.CanadaPostEnabled {
		cp := canadapost.New(canadapost.Config{
			CustomerNumber: cfg.CanadaPostCustomerNumber,
			Username:       cfg.CanadaPostUsername,
			Password:       cfg.CanadaPostPassword,
			Environment:    env,
			BaseURL:        cfg.CanadaPostBaseURL,
		}, logger)
		registry.Register(cp)
	}

	if cfg.FedExEnabled {
		fx := fedex.New(fedex.Config{
			ClientID:      cfg.FedExClientID,
			ClientSecret:  cfg.FedExClientSecret,
			AccountNumber: cfg.FedExAccountNumber,
			Environment:   env,
			BaseURL:       cfg.FedExBaseURL,
		}, logger)
		registry.Register(fx)
	}

	if cfg.DHLEnabled {
		dh := dhl.New(dhl.Config{
			AccountNumber: cfg.DHLAccountNumber,
			APIKey:        cfg.DHLAPIKey,
			Environment:   env,
			BaseURL:       cfg.DHLBaseURL,
		}, logger)
		registry.Register(dh)
	}

	return registry
}
