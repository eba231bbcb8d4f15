// Package sensor implements the read-only sensor values hntwatch exposes:
// plain data holders paired with a refresh function, decoupled from any
// host platform so the fetch/update cycle is independently testable.
package sensor

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/hntwatch/hntwatch/internal/config"
)

// Attribute keys shared across sensors.
const (
	AttrAttribution      = "attribution"
	AttrAddress          = "address"
	AttrBlock            = "block"
	AttrTimestamp        = "timestamp"
	AttrDCBalance        = "dc_balance"
	AttrRewardScale      = "reward_scale"
	AttrOwner            = "owner"
	AttrLastPoCChallenge = "last_poc_challenge"
	AttrBlocks           = "blocks"
	AttrCountries        = "countries"
	AttrCities           = "cities"
)

// Sensor is the capability set every sensor kind shares: a unique id, a
// state with attributes, and a refresh operation.
type Sensor interface {
	// UniqueID returns the stable identifier, e.g. "helium_wallet_<address>".
	UniqueID() string
	// Name returns the human-readable sensor name.
	Name() string
	// Unit returns the unit of measurement for the state, or "".
	Unit() string
	// State returns the current state value (float64, bool, or int64).
	State() any
	// Attributes returns a copy of the attribute map.
	Attributes() map[string]any
	// Available reports whether the most recent refresh attempt succeeded.
	Available() bool
	// LastUpdated returns the time of the last successful refresh or restore.
	LastUpdated() time.Time
	// Refresh fetches fresh data and overwrites state and attributes.
	// A "no data" response leaves state unchanged and returns nil; a
	// transport error marks the sensor unavailable and is returned.
	Refresh(ctx context.Context) error
	// Restore seeds state and attributes from a persisted snapshot.
	// The sensor stays unavailable until its first live refresh succeeds.
	Restore(snap Snapshot)
}

// Snapshot is a point-in-time copy of a sensor, used by the HTTP API and
// for best-effort state persistence.
type Snapshot struct {
	UniqueID    string         `json:"unique_id"`
	Name        string         `json:"name"`
	State       any            `json:"state"`
	Unit        string         `json:"unit,omitempty"`
	Available   bool           `json:"available"`
	Attributes  map[string]any `json:"attributes"`
	LastUpdated time.Time      `json:"last_updated"`
}

// Take captures a snapshot of the given sensor.
func Take(s Sensor) Snapshot {
	return Snapshot{
		UniqueID:    s.UniqueID(),
		Name:        s.Name(),
		State:       s.State(),
		Unit:        s.Unit(),
		Available:   s.Available(),
		Attributes:  s.Attributes(),
		LastUpdated: s.LastUpdated(),
	}
}

// baseSensor holds the state shared by all sensor kinds. The mutex guards
// against concurrent API reads while the poll goroutine writes.
type baseSensor struct {
	mu          sync.RWMutex
	uniqueID    string
	name        string
	unit        string
	state       any
	attrs       map[string]any
	available   bool
	lastUpdated time.Time
}

func newBase(uniqueID, name, unit string) baseSensor {
	return baseSensor{
		uniqueID: uniqueID,
		name:     name,
		unit:     unit,
		attrs: map[string]any{
			AttrAttribution: config.Attribution,
		},
	}
}

func (b *baseSensor) UniqueID() string { return b.uniqueID }

func (b *baseSensor) Unit() string { return b.unit }

func (b *baseSensor) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

func (b *baseSensor) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *baseSensor) Attributes() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	attrs := make(map[string]any, len(b.attrs))
	for k, v := range b.attrs {
		attrs[k] = v
	}
	return attrs
}

func (b *baseSensor) Available() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.available
}

func (b *baseSensor) LastUpdated() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastUpdated
}

// Restore seeds state and attributes from a persisted snapshot without
// marking the sensor available. A snapshot name takes precedence over the
// constructor default so fetched display names survive a restart.
func (b *baseSensor) Restore(snap Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if snap.Name != "" {
		b.name = snap.Name
	}
	b.state = snap.State
	for k, v := range snap.Attributes {
		b.attrs[k] = v
	}
	b.lastUpdated = snap.LastUpdated
}

// update overwrites the state, merges attrs, and marks the sensor available.
func (b *baseSensor) update(state any, attrs map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = state
	for k, v := range attrs {
		b.attrs[k] = v
	}
	b.available = true
	b.lastUpdated = time.Now().UTC()
}

// markUnavailable flags a failed refresh. State and attributes are kept.
func (b *baseSensor) markUnavailable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.available = false
}

// bonesToFloat converts a 10^8-denominated integer to a value rounded to
// two decimals (HNT for balances, USD for oracle prices).
func bonesToFloat(v int64) float64 {
	return math.Round(float64(v)/config.BoneDivisor*100) / 100
}
