package helium

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hntwatch/hntwatch/internal/config"
)

const testTimeout = 5 * time.Second

// newTestClient points both base URLs at the same test server.
func newTestClient(srv *httptest.Server) *Client {
	return NewWithBaseURLs(testTimeout, srv.URL, srv.URL)
}

func TestWallet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/abc123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"address":"abc123","balance":500000000,"block":5,"dc_balance":3}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	wallet, err := c.Wallet(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Wallet() error = %v", err)
	}
	if wallet == nil {
		t.Fatal("Wallet() returned nil wallet")
	}
	if wallet.Balance != 500000000 {
		t.Errorf("Balance = %d, want 500000000", wallet.Balance)
	}
	if wallet.Block != 5 {
		t.Errorf("Block = %d, want 5", wallet.Block)
	}
	if wallet.DCBalance != 3 {
		t.Errorf("DCBalance = %d, want 3", wallet.DCBalance)
	}
}

func TestWallet_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	wallet, err := c.Wallet(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Wallet() error = %v, want nil for non-2xx", err)
	}
	if wallet != nil {
		t.Errorf("Wallet() = %+v, want nil for non-2xx", wallet)
	}
}

func TestWallet_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [not json`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.Wallet(context.Background(), "abc123")
	if err == nil {
		t.Fatal("Wallet() with malformed body should fail")
	}
	if !errors.Is(err, config.ErrBadResponse) {
		t.Errorf("error = %v, want ErrBadResponse", err)
	}
}

func TestWallet_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	c := newTestClient(srv)
	_, err := c.Wallet(context.Background(), "abc123")
	if err == nil {
		t.Fatal("Wallet() against closed server should fail")
	}
	if errors.Is(err, config.ErrBadResponse) {
		t.Errorf("transport error should not be ErrBadResponse: %v", err)
	}
}

func TestHotspot_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hotspots/hs1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"address":"hs1","name":"fancy-iron-fox","status":{"online":true,"height":900001},
			"owner":"own1","block":900100,"reward_scale":0.9,"last_poc_challenge":"xyz"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	hs, err := c.Hotspot(context.Background(), "hs1")
	if err != nil {
		t.Fatalf("Hotspot() error = %v", err)
	}
	if hs.Name != "fancy-iron-fox" {
		t.Errorf("Name = %q, want fancy-iron-fox", hs.Name)
	}
	if !hs.Status.Online {
		t.Error("Status.Online = false, want true")
	}
	if hs.RewardScale != 0.9 {
		t.Errorf("RewardScale = %f, want 0.9", hs.RewardScale)
	}
	if hs.Owner != "own1" {
		t.Errorf("Owner = %q, want own1", hs.Owner)
	}
	if hs.LastPoCChallenge != "xyz" {
		t.Errorf("LastPoCChallenge = %q, want xyz", hs.LastPoCChallenge)
	}
}

func TestOraclePrice_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oracle/prices/current" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"price":1000000000,"block":100,"timestamp":"2021-06-02T08:09:39Z"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	quote, err := c.OraclePrice(context.Background())
	if err != nil {
		t.Fatalf("OraclePrice() error = %v", err)
	}
	if quote.Price != 1000000000 {
		t.Errorf("Price = %d, want 1000000000", quote.Price)
	}
	if quote.Block != 100 {
		t.Errorf("Block = %d, want 100", quote.Block)
	}
	if quote.Timestamp != "2021-06-02T08:09:39Z" {
		t.Errorf("Timestamp = %q, want 2021-06-02T08:09:39Z", quote.Timestamp)
	}
}

func TestNetworkStats_PlainObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stats" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		// No data envelope on the stats endpoint.
		w.Write([]byte(`{"hotspots":25000,"blocks":900123,"countries":62,"cities":3100}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	stats, err := c.NetworkStats(context.Background())
	if err != nil {
		t.Fatalf("NetworkStats() error = %v", err)
	}
	if stats.Hotspots != 25000 {
		t.Errorf("Hotspots = %d, want 25000", stats.Hotspots)
	}
	if stats.Blocks != 900123 {
		t.Errorf("Blocks = %d, want 900123", stats.Blocks)
	}
}

func TestDoGet_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.OraclePrice(ctx); err == nil {
		t.Fatal("OraclePrice() with cancelled context should fail")
	}
}
