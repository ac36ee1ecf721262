// Package shipping is the service layer tying cart lines, the product
// catalog, and the carrier registry together.
package shipping

import (
	"context"
	"time"

	"github.com/dermanova/shipping/internal/telemetry"
	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const rateRequestTimeout = 20 * time.Second

// Service exposes the shipping operations the storefront uses.
type Service struct {
	registry *shipper.Registry
	catalog  shipper.ProductLookup
	origin   shipper.Party
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
}

// New creates a shipping service.
func New(registry *shipper.Registry, catalog shipper.ProductLookup, origin shipper.Party, logger *otelzap.Logger, metrics *telemetry.Metrics) *Service {
	return &Service{
		registry: registry,
		catalog:  &loggingLookup{next: catalog, logger: logger},
		origin:   origin,
		logger:   logger,
		metrics:  metrics,
	}
}

// loggingLookup records which cart lines were silently skipped because
// the product has no catalog entry.
type loggingLookup struct {
	next   shipper.ProductLookup
	logger *otelzap.Logger
}

func (l *loggingLookup) Product(ctx context.Context, id int64) (*shipper.ProductDimensions, error) {
	dims, err := l.next.Product(ctx, id)
	if err == nil && dims == nil {
		l.logger.Ctx(ctx).Debug("Product missing from catalog, skipping",
			zap.Int64("product_id", id))
	}
	return dims, err
}

// Result is a shipment creation outcome: the carrier confirmation plus
// our internal order reference.
type Result struct {
	Reference    string                     `json:"reference"`
	Confirmation *shipper.OrderConfirmation `json:"confirmation"`
}

// CalculateShippingRates builds one parcel from the cart lines and
// quotes every registered carrier in parallel. The returned map always
// has one entry per carrier; a nil value means that carrier produced
// no quote.
func (s *Service) CalculateShippingRates(ctx context.Context, items []shipper.CartItem, destination shipper.Address) (map[string]*shipper.Quote, error) {
	start := time.Now()

	parcel, err := shipper.BuildParcel(ctx, s.catalog, items)
	if err != nil {
		s.metrics.RecordRequest("rates", "all", "error", time.Since(start).Seconds())
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, rateRequestTimeout)
	defer cancel()

	quotes, errs := s.registry.RateAll(ctx, s.origin.Address, destination, parcel)
	for carrier, carrierErr := range errs {
		s.logger.Ctx(ctx).Warn("Carrier failed to quote",
			zap.String("carrier", carrier),
			zap.Error(carrierErr),
		)
		s.metrics.RecordError(carrier, "rate")
	}

	s.metrics.RecordRequest("rates", "all", "ok", time.Since(start).Seconds())
	return quotes, nil
}

// OrderRequest describes a shipment to dispatch to one carrier.
type OrderRequest struct {
	CarrierID string
	Recipient shipper.Party
	Items     []shipper.CartItem
}

// CreateShippingOrder dispatches a shipment to the named carrier and
// attaches an internal order reference alongside the carrier tracking
// value. Unknown carriers fail immediately.
func (s *Service) CreateShippingOrder(ctx context.Context, req OrderRequest) (*Result, error) {
	start := time.Now()

	parcel, err := shipper.BuildParcel(ctx, s.catalog, req.Items)
	if err != nil {
		s.metrics.RecordRequest("create_order", req.CarrierID, "error", time.Since(start).Seconds())
		return nil, err
	}

	confirmation, err := s.registry.CreateOrder(ctx, req.CarrierID, &shipper.ShipmentOrder{
		Shipper:   s.origin,
		Recipient: req.Recipient,
		Parcel:    parcel,
	})
	if err != nil {
		s.metrics.RecordRequest("create_order", req.CarrierID, "error", time.Since(start).Seconds())
		s.metrics.RecordError(req.CarrierID, "create_order")
		return nil, err
	}

	reference := shipper.GenerateTrackingNumber()
	s.logger.Ctx(ctx).Info("Shipment created",
		zap.String("carrier", req.CarrierID),
		zap.String("reference", reference),
		zap.String("tracking", confirmation.Tracking),
	)

	s.metrics.RecordRequest("create_order", req.CarrierID, "ok", time.Since(start).Seconds())
	return &Result{Reference: reference, Confirmation: confirmation}, nil
}

// TestCarrierCredentials runs the carrier's credential diagnostic with
// caller-supplied credentials.
func (s *Service) TestCarrierCredentials(ctx context.Context, carrierID string, creds shipper.Credentials) (*shipper.CredentialCheck, error) {
	start := time.Now()

	check, err := s.registry.TestCredentials(ctx, carrierID, creds)
	if err != nil {
		s.metrics.RecordRequest("test_credentials", carrierID, "error", time.Since(start).Seconds())
		s.metrics.RecordError(carrierID, "test_credentials")
		return nil, err
	}

	s.metrics.RecordRequest("test_credentials", carrierID, "ok", time.Since(start).Seconds())
	return check, nil
}

// Carriers lists the registered carrier ids in registration order.
func (s *Service) Carriers() []string {
	return s.registry.Names()
}
