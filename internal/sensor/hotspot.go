package sensor

import (
	"context"
	"log/slog"
	"time"

	"github.com/hntwatch/hntwatch/internal/helium"
)

// Hotspot exposes the online status of one hotspot address.
// Its name tracks the animal name reported by the explorer once known.
type Hotspot struct {
	baseSensor
	client  *helium.Client
	address string
}

// NewHotspot creates a hotspot sensor for the given address.
func NewHotspot(client *helium.Client, address string) *Hotspot {
	h := &Hotspot{
		baseSensor: newBase("helium_hotspot_"+address, "Helium Hotspot "+address, ""),
		client:     client,
		address:    address,
	}
	h.attrs[AttrAddress] = address
	return h
}

// Address returns the hotspot address this sensor tracks.
func (s *Hotspot) Address() string { return s.address }

// Refresh fetches the hotspot document and updates state, name, and attributes.
func (s *Hotspot) Refresh(ctx context.Context) error {
	hotspot, err := s.client.Hotspot(ctx, s.address)
	if err != nil {
		s.markUnavailable()
		return err
	}
	if hotspot == nil {
		slog.Debug("no hotspot data, keeping previous state",
			"sensor", s.UniqueID(),
			"address", s.address,
		)
		return nil
	}

	s.mu.Lock()
	s.state = hotspot.Status.Online
	if hotspot.Name != "" {
		s.name = "Helium " + hotspot.Name
	}
	s.attrs[AttrBlock] = hotspot.Block
	s.attrs[AttrRewardScale] = hotspot.RewardScale
	s.attrs[AttrOwner] = hotspot.Owner
	s.attrs[AttrLastPoCChallenge] = hotspot.LastPoCChallenge
	s.available = true
	s.lastUpdated = time.Now().UTC()
	s.mu.Unlock()

	slog.Info("hotspot sensor updated",
		"sensor", s.UniqueID(),
		"name", hotspot.Name,
		"online", hotspot.Status.Online,
		"block", hotspot.Block,
		"rewardScale", hotspot.RewardScale,
	)
	return nil
}
