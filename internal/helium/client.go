package helium

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hntwatch/hntwatch/internal/config"
)

// Client fetches wallet, hotspot, price, and stats documents from the
// Helium explorer and oracle APIs. All methods are safe for concurrent use.
//
// A nil result with a nil error means the upstream returned a non-2xx
// status: callers treat that as "no data" and keep their previous state.
type Client struct {
	httpClient    *http.Client
	explorerURL   string
	oracleURL     string
	explorerLimit *RateLimiter
	oracleLimit   *RateLimiter
}

// New creates a Client against the production Helium endpoints.
func New(timeout time.Duration) *Client {
	return NewWithBaseURLs(timeout, config.ExplorerBaseURL, config.OracleBaseURL)
}

// NewWithBaseURLs creates a Client with custom base URLs (for testing).
func NewWithBaseURLs(timeout time.Duration, explorerURL, oracleURL string) *Client {
	transport := &http.Transport{
		MaxConnsPerHost:     config.HTTPMaxConnsPerHost,
		MaxIdleConnsPerHost: config.HTTPMaxIdleConnsPerHost,
		MaxIdleConns:        config.HTTPMaxIdleConns,
	}

	slog.Info("helium client created",
		"explorerURL", explorerURL,
		"oracleURL", oracleURL,
		"timeout", timeout,
	)

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		explorerURL:   explorerURL,
		oracleURL:     oracleURL,
		explorerLimit: NewRateLimiter("explorer", config.RateLimitExplorer),
		oracleLimit:   NewRateLimiter("oracle", config.RateLimitOracle),
	}
}

// walletEnvelope wraps the accounts response payload.
type walletEnvelope struct {
	Data Wallet `json:"data"`
}

// hotspotEnvelope wraps the hotspots response payload.
type hotspotEnvelope struct {
	Data Hotspot `json:"data"`
}

// priceEnvelope wraps the oracle price response payload.
type priceEnvelope struct {
	Data PriceQuote `json:"data"`
}

// Wallet fetches the account document for the given wallet address.
func (c *Client) Wallet(ctx context.Context, address string) (*Wallet, error) {
	url := c.explorerURL + config.WalletPath + address

	body, err := c.doGet(ctx, c.explorerLimit, url)
	if err != nil {
		return nil, fmt.Errorf("fetch wallet %s: %w", address, err)
	}
	if body == nil {
		return nil, nil
	}

	var env walletEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: wallet %s: %v", config.ErrBadResponse, address, err)
	}

	slog.Debug("wallet fetched",
		"address", address,
		"balance", env.Data.Balance,
		"block", env.Data.Block,
	)
	return &env.Data, nil
}

// Hotspot fetches the hotspot document for the given hotspot address.
func (c *Client) Hotspot(ctx context.Context, address string) (*Hotspot, error) {
	url := c.explorerURL + config.HotspotPath + address

	body, err := c.doGet(ctx, c.explorerLimit, url)
	if err != nil {
		return nil, fmt.Errorf("fetch hotspot %s: %w", address, err)
	}
	if body == nil {
		return nil, nil
	}

	var env hotspotEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: hotspot %s: %v", config.ErrBadResponse, address, err)
	}

	slog.Debug("hotspot fetched",
		"address", address,
		"name", env.Data.Name,
		"online", env.Data.Status.Online,
	)
	return &env.Data, nil
}

// OraclePrice fetches the current HNT oracle price.
func (c *Client) OraclePrice(ctx context.Context) (*PriceQuote, error) {
	url := c.oracleURL + config.OraclePricePath

	body, err := c.doGet(ctx, c.oracleLimit, url)
	if err != nil {
		return nil, fmt.Errorf("fetch oracle price: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	var env priceEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: oracle price: %v", config.ErrBadResponse, err)
	}

	slog.Debug("oracle price fetched",
		"price", env.Data.Price,
		"block", env.Data.Block,
	)
	return &env.Data, nil
}

// NetworkStats fetches network-wide stats. The stats endpoint returns a
// plain object, not a data envelope.
func (c *Client) NetworkStats(ctx context.Context) (*NetworkStats, error) {
	url := c.explorerURL + config.StatsPath

	body, err := c.doGet(ctx, c.explorerLimit, url)
	if err != nil {
		return nil, fmt.Errorf("fetch network stats: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	var stats NetworkStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("%w: network stats: %v", config.ErrBadResponse, err)
	}

	slog.Debug("network stats fetched",
		"hotspots", stats.Hotspots,
		"blocks", stats.Blocks,
	)
	return &stats, nil
}

// doGet performs a rate-limited GET request. A nil body with a nil error
// means the upstream returned a non-2xx status ("no data").
func (c *Client) doGet(ctx context.Context, limit *RateLimiter, url string) ([]byte, error) {
	if err := limit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter cancelled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("helium request failed",
			"url", url,
			"error", err,
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("helium non-2xx response, treating as no data",
			"url", url,
			"status", resp.StatusCode,
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
		return nil, nil
	}

	slog.Debug("helium GET ok",
		"url", url,
		"status", resp.StatusCode,
		"size", len(body),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return body, nil
}
