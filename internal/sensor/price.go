package sensor

import (
	"context"
	"log/slog"

	"github.com/hntwatch/hntwatch/internal/config"
	"github.com/hntwatch/hntwatch/internal/helium"
)

// PriceUniqueID is the fixed id of the oracle price sensor.
const PriceUniqueID = "helium_oracle_hnt_price"

// Price exposes the current HNT oracle price in USD.
type Price struct {
	baseSensor
	client *helium.Client
}

// NewPrice creates the oracle price sensor.
func NewPrice(client *helium.Client) *Price {
	return &Price{
		baseSensor: newBase(PriceUniqueID, "Helium HNT Oracle Price", config.UnitUSD),
		client:     client,
	}
}

// Refresh fetches the current oracle price and updates state and attributes.
func (s *Price) Refresh(ctx context.Context) error {
	quote, err := s.client.OraclePrice(ctx)
	if err != nil {
		s.markUnavailable()
		return err
	}
	if quote == nil {
		slog.Debug("no oracle price data, keeping previous state", "sensor", s.UniqueID())
		return nil
	}

	s.update(bonesToFloat(quote.Price), map[string]any{
		AttrBlock:     quote.Block,
		AttrTimestamp: quote.Timestamp,
	})

	slog.Info("price sensor updated",
		"sensor", s.UniqueID(),
		"priceUSD", s.State(),
		"block", quote.Block,
	)
	return nil
}
