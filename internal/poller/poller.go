// Package poller schedules sensor refreshes: one goroutine per sensor,
// each on its own fixed interval. Sensors own their state exclusively, so
// no coordination is needed between poll goroutines.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hntwatch/hntwatch/internal/config"
	"github.com/hntwatch/hntwatch/internal/sensor"
	"github.com/hntwatch/hntwatch/internal/store"
)

// entry pairs a sensor with its poll interval.
type entry struct {
	sensor   sensor.Sensor
	interval time.Duration
}

// Poller owns the refresh goroutines for all registered sensors.
type Poller struct {
	store *store.Store // nil disables persistence

	mu      sync.Mutex
	entries []*entry
	byID    map[string]sensor.Sensor
	cancel  context.CancelFunc
	started bool

	wg sync.WaitGroup
}

// New creates a Poller. A nil store disables state persistence and restore.
func New(st *store.Store) *Poller {
	return &Poller{
		store: st,
		byID:  make(map[string]sensor.Sensor),
	}
}

// Add registers a sensor to be refreshed every interval. If a persisted
// snapshot exists for the sensor it is restored immediately. Must be
// called before Start.
func (p *Poller) Add(s sensor.Sensor, interval time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("cannot add sensor %s: poller already started", s.UniqueID())
	}
	if _, dup := p.byID[s.UniqueID()]; dup {
		return fmt.Errorf("sensor %s already registered", s.UniqueID())
	}

	if p.store != nil {
		snap, err := p.store.LoadSnapshot(s.UniqueID())
		if err != nil {
			slog.Warn("failed to load persisted sensor state",
				"sensor", s.UniqueID(),
				"error", err,
			)
		} else if snap != nil {
			s.Restore(*snap)
			slog.Info("sensor state restored",
				"sensor", s.UniqueID(),
				"state", snap.State,
				"persistedAt", snap.LastUpdated,
			)
		}
	}

	p.entries = append(p.entries, &entry{sensor: s, interval: interval})
	p.byID[s.UniqueID()] = s

	slog.Info("sensor registered",
		"sensor", s.UniqueID(),
		"interval", interval,
	)
	return nil
}

// SensorCount returns the number of registered sensors.
func (p *Poller) SensorCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Snapshots returns a snapshot of every registered sensor, sorted by id.
func (p *Poller) Snapshots() []sensor.Snapshot {
	p.mu.Lock()
	entries := make([]*entry, len(p.entries))
	copy(entries, p.entries)
	p.mu.Unlock()

	snaps := make([]sensor.Snapshot, 0, len(entries))
	for _, e := range entries {
		snaps = append(snaps, sensor.Take(e.sensor))
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].UniqueID < snaps[j].UniqueID })
	return snaps
}

// Snapshot returns the snapshot of one sensor by unique id.
func (p *Poller) Snapshot(uniqueID string) (sensor.Snapshot, bool) {
	p.mu.Lock()
	s, ok := p.byID[uniqueID]
	p.mu.Unlock()

	if !ok {
		return sensor.Snapshot{}, false
	}
	return sensor.Take(s), true
}

// Start launches one refresh goroutine per registered sensor. Each sensor
// is refreshed immediately, then on every interval tick.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.started = true
	entries := make([]*entry, len(p.entries))
	copy(entries, p.entries)
	p.mu.Unlock()

	for _, e := range entries {
		p.wg.Add(1)
		go p.run(ctx, e)
	}

	slog.Info("poller started", "sensors", len(entries))
}

// Stop cancels all refresh goroutines and waits for them to finish,
// bounded by the shutdown timeout.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	p.mu.Unlock()

	slog.Info("poller stopping", "sensors", p.SensorCount())
	cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("all sensor goroutines stopped cleanly")
	case <-time.After(config.ShutdownTimeout):
		slog.Warn("poller shutdown timed out, some goroutines may still be running",
			"timeout", config.ShutdownTimeout,
		)
	}
}

// run is the poll loop goroutine for a single sensor.
func (p *Poller) run(ctx context.Context, e *entry) {
	defer p.wg.Done()

	slog.Info("sensor goroutine started",
		"sensor", e.sensor.UniqueID(),
		"interval", e.interval,
	)

	// First refresh immediately so sensors are live before the first tick.
	p.refresh(ctx, e.sensor)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("sensor goroutine exiting",
				"sensor", e.sensor.UniqueID(),
				"reason", ctx.Err(),
			)
			return
		case <-ticker.C:
			p.refresh(ctx, e.sensor)
		}
	}
}

// refresh runs one refresh cycle for a sensor and persists the result.
func (p *Poller) refresh(ctx context.Context, s sensor.Sensor) {
	cycleID := uuid.New().String()

	start := time.Now()
	err := s.Refresh(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		if ctx.Err() != nil {
			return // shutting down, not a real failure
		}
		slog.Warn("sensor refresh failed, unavailable until next success",
			"cycleID", cycleID,
			"sensor", s.UniqueID(),
			"elapsed", elapsed,
			"error", err,
		)
		return
	}

	slog.Debug("sensor refresh completed",
		"cycleID", cycleID,
		"sensor", s.UniqueID(),
		"state", s.State(),
		"available", s.Available(),
		"elapsed", elapsed,
	)

	if p.store != nil && s.Available() {
		if err := p.store.SaveSnapshot(sensor.Take(s)); err != nil {
			// Persistence is best-effort: log and move on.
			slog.Warn("failed to persist sensor state",
				"cycleID", cycleID,
				"sensor", s.UniqueID(),
				"error", err,
			)
		}
	}
}
