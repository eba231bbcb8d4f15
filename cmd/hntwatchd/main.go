package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hntwatch/hntwatch/internal/api"
	"github.com/hntwatch/hntwatch/internal/config"
	"github.com/hntwatch/hntwatch/internal/helium"
	"github.com/hntwatch/hntwatch/internal/logging"
	"github.com/hntwatch/hntwatch/internal/poller"
	"github.com/hntwatch/hntwatch/internal/sensor"
	"github.com/hntwatch/hntwatch/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging.
	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	slog.Info("hntwatch starting",
		"port", cfg.Port,
		"wallets", len(cfg.Wallets),
		"hotspots", len(cfg.Hotspots),
		"pollInterval", cfg.PollInterval(),
		"pricePollInterval", cfg.PricePollInterval(),
		"apiTimeout", cfg.APITimeout(),
		"dbPath", cfg.DBPath,
	)

	// Open state database and run migrations.
	st, err := store.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.RunMigrations(); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Build the Helium API client and register sensors.
	client := helium.New(cfg.APITimeout())

	p := poller.New(st)
	if err := registerSensors(p, client, cfg); err != nil {
		slog.Error("failed to register sensors", "error", err)
		os.Exit(1)
	}

	p.Start()

	// Build API router and start the HTTP server.
	router := api.NewRouter(&api.Dependencies{
		Poller:    p,
		StartedAt: time.Now().UTC(),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
	}

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sig := <-done
	slog.Info("shutdown signal received", "signal", sig)

	// Stop the poller first (cancel refresh goroutines, wait for them).
	p.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("hntwatch stopped")
}

// registerSensors creates and registers one sensor per configured entity:
// the oracle price, the network stats, one per wallet, one per hotspot.
func registerSensors(p *poller.Poller, client *helium.Client, cfg *config.Config) error {
	if err := p.Add(sensor.NewPrice(client), cfg.PricePollInterval()); err != nil {
		return err
	}
	if err := p.Add(sensor.NewStats(client), cfg.PollInterval()); err != nil {
		return err
	}

	for _, addr := range cfg.Wallets {
		if err := p.Add(sensor.NewWallet(client, addr), cfg.PollInterval()); err != nil {
			return err
		}
	}
	for _, addr := range cfg.Hotspots {
		if err := p.Add(sensor.NewHotspot(client, addr), cfg.PollInterval()); err != nil {
			return err
		}
	}

	slog.Info("sensors registered",
		"total", p.SensorCount(),
		"wallets", len(cfg.Wallets),
		"hotspots", len(cfg.Hotspots),
	)
	return nil
}
