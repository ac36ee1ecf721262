package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dermanova/shipping/internal/catalog"
	"github.com/dermanova/shipping/internal/server"
	"github.com/dermanova/shipping/internal/shipping"
	"github.com/dermanova/shipping/internal/telemetry"
	"github.com/dermanova/shipping/pkg/shipper"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "shipping",
	Short:   "DermaNova Shipping - Multi-carrier rate and fulfillment service",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the shipping API server",
	RunE:  runServe,
}

var verifyCarrierCmd = &cobra.Command{
	Use:   "verify-carrier",
	Short: "Run a live credential check against one carrier",
	RunE:  runVerifyCarrier,
}

func init() {
	verifyCarrierCmd.Flags().String("carrier", "", "carrier id (canadapost, fedex, dhl)")
	verifyCarrierCmd.Flags().StringToString("cred", nil, "credential key=value, repeatable")
	verifyCarrierCmd.MarkFlagRequired("carrier")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(verifyCarrierCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	store, err := catalog.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer store.Close()

	registry := initShipperRegistry(cfg, logger)
	metrics := telemetry.NewMetrics()
	service := shipping.New(registry, store, cfg.OriginParty(), logger, metrics)

	logger.Info("Starting DermaNova shipping service",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Environment),
		zap.Strings("carriers", registry.Names()),
	)

	srv := server.New(server.Config{Port: cfg.Port}, service, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runVerifyCarrier(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	carrierID, _ := cmd.Flags().GetString("carrier")
	credPairs, _ := cmd.Flags().GetStringToString("cred")

	creds := make(shipper.Credentials, len(credPairs))
	for k, v := range credPairs {
		creds[k] = v
	}

	registry := initShipperRegistry(cfg, logger)
	check, err := registry.TestCredentials(ctx, carrierID, creds)
	if err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}

	out, _ := json.MarshalIndent(check, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
