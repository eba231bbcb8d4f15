package sensor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/hntwatch/hntwatch/internal/config"
	"github.com/hntwatch/hntwatch/internal/helium"
)

// testServer serves fixed bodies per path.
type testServer struct {
	srv    *httptest.Server
	bodies map[string]string
	status int
}

func newTestServer(bodies map[string]string) *testServer {
	ts := &testServer{bodies: bodies, status: http.StatusOK}
	ts.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := ts.bodies[r.URL.Path]
		if !ok || ts.status != http.StatusOK {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	return ts
}

func (ts *testServer) client() *helium.Client {
	return helium.NewWithBaseURLs(5*time.Second, ts.srv.URL, ts.srv.URL)
}

func (ts *testServer) close() { ts.srv.Close() }

func TestPrice_Refresh(t *testing.T) {
	ts := newTestServer(map[string]string{
		"/oracle/prices/current": `{"data":{"price":1000000000,"block":100,"timestamp":"2021-06-02T08:09:39Z"}}`,
	})
	defer ts.close()

	s := NewPrice(ts.client())
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if got := s.State(); got != 10.00 {
		t.Errorf("State() = %v, want 10.00", got)
	}
	attrs := s.Attributes()
	if attrs[AttrBlock] != int64(100) {
		t.Errorf("attrs[block] = %v, want 100", attrs[AttrBlock])
	}
	if attrs[AttrTimestamp] != "2021-06-02T08:09:39Z" {
		t.Errorf("attrs[timestamp] = %v, want 2021-06-02T08:09:39Z", attrs[AttrTimestamp])
	}
	if attrs[AttrAttribution] != config.Attribution {
		t.Errorf("attrs[attribution] = %v, want %q", attrs[AttrAttribution], config.Attribution)
	}
	if !s.Available() {
		t.Error("Available() = false after successful refresh")
	}
}

func TestWallet_Refresh(t *testing.T) {
	ts := newTestServer(map[string]string{
		"/accounts/w1": `{"data":{"address":"w1","balance":500000000,"block":5,"dc_balance":3}}`,
	})
	defer ts.close()

	s := NewWallet(ts.client(), "w1")
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if got := s.State(); got != 5.00 {
		t.Errorf("State() = %v, want 5.00", got)
	}
	attrs := s.Attributes()
	if attrs[AttrBlock] != int64(5) {
		t.Errorf("attrs[block] = %v, want 5", attrs[AttrBlock])
	}
	if attrs[AttrDCBalance] != int64(3) {
		t.Errorf("attrs[dc_balance] = %v, want 3", attrs[AttrDCBalance])
	}
	if attrs[AttrAddress] != "w1" {
		t.Errorf("attrs[address] = %v, want w1", attrs[AttrAddress])
	}
	if s.UniqueID() != "helium_wallet_w1" {
		t.Errorf("UniqueID() = %q, want helium_wallet_w1", s.UniqueID())
	}
}

func TestHotspot_Refresh(t *testing.T) {
	ts := newTestServer(map[string]string{
		"/hotspots/h1": `{"data":{"address":"h1","name":"Foo","status":{"online":true},"block":1,"reward_scale":0.9,"owner":"abc","last_poc_challenge":"xyz"}}`,
	})
	defer ts.close()

	s := NewHotspot(ts.client(), "h1")
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if got := s.State(); got != true {
		t.Errorf("State() = %v, want true", got)
	}
	if s.Name() != "Helium Foo" {
		t.Errorf("Name() = %q, want Helium Foo", s.Name())
	}
	attrs := s.Attributes()
	if attrs[AttrBlock] != int64(1) {
		t.Errorf("attrs[block] = %v, want 1", attrs[AttrBlock])
	}
	if attrs[AttrRewardScale] != 0.9 {
		t.Errorf("attrs[reward_scale] = %v, want 0.9", attrs[AttrRewardScale])
	}
	if attrs[AttrOwner] != "abc" {
		t.Errorf("attrs[owner] = %v, want abc", attrs[AttrOwner])
	}
	if attrs[AttrLastPoCChallenge] != "xyz" {
		t.Errorf("attrs[last_poc_challenge] = %v, want xyz", attrs[AttrLastPoCChallenge])
	}
}

func TestStats_Refresh(t *testing.T) {
	ts := newTestServer(map[string]string{
		"/stats": `{"hotspots":25000,"blocks":900123,"countries":62,"cities":3100}`,
	})
	defer ts.close()

	s := NewStats(ts.client())
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if got := s.State(); got != int64(25000) {
		t.Errorf("State() = %v, want 25000", got)
	}
	attrs := s.Attributes()
	if attrs[AttrBlocks] != int64(900123) {
		t.Errorf("attrs[blocks] = %v, want 900123", attrs[AttrBlocks])
	}
}

func TestRefresh_NoDataKeepsState(t *testing.T) {
	ts := newTestServer(map[string]string{
		"/accounts/w1": `{"data":{"address":"w1","balance":500000000,"block":5,"dc_balance":3}}`,
	})
	defer ts.close()

	s := NewWallet(ts.client(), "w1")
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}

	// Flip the server to 404s: the sensor must keep its prior state.
	ts.status = http.StatusNotFound
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh() error = %v, want nil for non-2xx", err)
	}

	if got := s.State(); got != 5.00 {
		t.Errorf("State() = %v after 404, want prior 5.00", got)
	}
	if !s.Available() {
		t.Error("Available() = false after non-2xx, want true (no data is not a failure)")
	}
}

func TestRefresh_Idempotent(t *testing.T) {
	ts := newTestServer(map[string]string{
		"/hotspots/h1": `{"data":{"address":"h1","name":"Foo","status":{"online":true},"block":1,"reward_scale":0.9,"owner":"abc","last_poc_challenge":"xyz"}}`,
	})
	defer ts.close()

	s := NewHotspot(ts.client(), "h1")
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}
	stateBefore := s.State()
	attrsBefore := s.Attributes()

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh() error = %v", err)
	}

	if s.State() != stateBefore {
		t.Errorf("State() changed across identical fetches: %v -> %v", stateBefore, s.State())
	}
	if !reflect.DeepEqual(s.Attributes(), attrsBefore) {
		t.Errorf("Attributes() changed across identical fetches: %v -> %v", attrsBefore, s.Attributes())
	}
}

func TestRefresh_TransportErrorMarksUnavailable(t *testing.T) {
	ts := newTestServer(map[string]string{
		"/oracle/prices/current": `{"data":{"price":1000000000,"block":100,"timestamp":"T"}}`,
	})

	s := NewPrice(ts.client())
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}

	ts.close() // connection refused from here on
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() against closed server should fail")
	}

	if s.Available() {
		t.Error("Available() = true after transport error, want false")
	}
	if got := s.State(); got != 10.00 {
		t.Errorf("State() = %v after transport error, want prior 10.00", got)
	}
}

func TestRestore(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.close()

	s := NewWallet(ts.client(), "w1")
	s.Restore(Snapshot{
		UniqueID: "helium_wallet_w1",
		State:    7.25,
		Attributes: map[string]any{
			AttrBlock:     float64(42), // JSON round-trip turns ints into float64
			AttrDCBalance: float64(9),
		},
		LastUpdated: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	})

	if got := s.State(); got != 7.25 {
		t.Errorf("State() = %v after restore, want 7.25", got)
	}
	if s.Available() {
		t.Error("Available() = true after restore, want false until first live refresh")
	}
	attrs := s.Attributes()
	if attrs[AttrBlock] != float64(42) {
		t.Errorf("attrs[block] = %v, want 42", attrs[AttrBlock])
	}
	if attrs[AttrAddress] != "w1" {
		t.Errorf("attrs[address] = %v, want w1 (preset attribute kept)", attrs[AttrAddress])
	}
	if s.LastUpdated().IsZero() {
		t.Error("LastUpdated() is zero after restore")
	}
}

func TestRestore_KeepsFetchedName(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.close()

	s := NewHotspot(ts.client(), "h1")
	s.Restore(Snapshot{
		UniqueID: "helium_hotspot_h1",
		Name:     "Helium Brisk Mauve Penguin",
		State:    true,
		Attributes: map[string]any{
			AttrAddress: "h1",
		},
		LastUpdated: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	})

	if got := s.Name(); got != "Helium Brisk Mauve Penguin" {
		t.Errorf("Name() = %q after restore, want persisted display name", got)
	}

	// A snapshot without a name leaves the constructor default alone.
	w := NewWallet(ts.client(), "w1")
	before := w.Name()
	w.Restore(Snapshot{UniqueID: "helium_wallet_w1", State: 1.0})
	if got := w.Name(); got != before {
		t.Errorf("Name() = %q after nameless restore, want %q", got, before)
	}
}
