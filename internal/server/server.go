// Package server exposes the shipping service as a JSON HTTP API for
// the storefront checkout and admin settings pages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dermanova/shipping/internal/shipping"
	"github.com/dermanova/shipping/pkg/shipper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Server is the HTTP server for the shipping service.
type Server struct {
	port    int
	service *shipping.Service
	logger  *otelzap.Logger
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, service *shipping.Service, logger *otelzap.Logger) *Server {
	return &Server{
		port:    cfg.Port,
		service: service,
		logger:  logger,
	}
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/shipping/rates", s.handleRates)
	mux.HandleFunc("POST /api/shipping/orders", s.handleCreateOrder)
	mux.HandleFunc("POST /api/shipping/carriers/{id}/test", s.handleTestCredentials)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type ratesRequest struct {
	Destination shipper.Address    `json:"destination"`
	Items       []shipper.CartItem `json:"items"`
}

type ratesResponse struct {
	Rates map[string]*shipper.Quote `json:"rates"`
}

// handleRates quotes every carrier for one cart. The rates map always
// carries one key per registered carrier; null means that carrier has
// no quote, so the storefront renders only the non-null entries.
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	var req ratesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Destination.PostalCode == "" {
		s.writeError(w, http.StatusBadRequest, "destination postal code is required")
		return
	}

	quotes, err := s.service.CalculateShippingRates(r.Context(), req.Items, req.Destination)
	if err != nil {
		s.logger.Ctx(r.Context()).Error("Rate calculation failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, ratesResponse{Rates: quotes})
}

type createOrderRequest struct {
	Carrier   string             `json:"carrier"`
	Recipient shipper.Party      `json:"recipient"`
	Items     []shipper.CartItem `json:"items"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Carrier == "" {
		s.writeError(w, http.StatusBadRequest, "carrier is required")
		return
	}

	result, err := s.service.CreateShippingOrder(r.Context(), shipping.OrderRequest{
		CarrierID: req.Carrier,
		Recipient: req.Recipient,
		Items:     req.Items,
	})
	if err != nil {
		if errors.Is(err, shipper.ErrUnsupportedCarrier) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Ctx(r.Context()).Error("Order creation failed",
			zap.String("carrier", req.Carrier),
			zap.Error(err),
		)
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, result)
}

// handleTestCredentials runs the admin "verify my keys" diagnostic.
// Credential checks always hit the carrier, so failures surface the
// raw carrier response for the admin page to display.
func (s *Server) handleTestCredentials(w http.ResponseWriter, r *http.Request) {
	carrierID := r.PathValue("id")

	var creds shipper.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	check, err := s.service.TestCarrierCredentials(r.Context(), carrierID, creds)
	if err != nil {
		switch {
		case errors.Is(err, shipper.ErrUnsupportedCarrier):
			s.writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, shipper.ErrMissingCredentials):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	s.writeJSON(w, http.StatusOK, check)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
