package sensor

import (
	"context"
	"log/slog"

	"github.com/hntwatch/hntwatch/internal/helium"
)

// StatsUniqueID is the fixed id of the network stats sensor.
const StatsUniqueID = "helium_network_stats"

// Stats exposes network-wide totals. Its state is the hotspot count.
type Stats struct {
	baseSensor
	client *helium.Client
}

// NewStats creates the network stats sensor.
func NewStats(client *helium.Client) *Stats {
	return &Stats{
		baseSensor: newBase(StatsUniqueID, "Helium Network Stats", ""),
		client:     client,
	}
}

// Refresh fetches network stats and updates state and attributes.
func (s *Stats) Refresh(ctx context.Context) error {
	stats, err := s.client.NetworkStats(ctx)
	if err != nil {
		s.markUnavailable()
		return err
	}
	if stats == nil {
		slog.Debug("no network stats data, keeping previous state", "sensor", s.UniqueID())
		return nil
	}

	s.update(stats.Hotspots, map[string]any{
		AttrBlocks:    stats.Blocks,
		AttrCountries: stats.Countries,
		AttrCities:    stats.Cities,
	})

	slog.Info("network stats sensor updated",
		"sensor", s.UniqueID(),
		"hotspots", stats.Hotspots,
		"blocks", stats.Blocks,
	)
	return nil
}
