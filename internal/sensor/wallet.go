package sensor

import (
	"context"
	"log/slog"

	"github.com/hntwatch/hntwatch/internal/config"
	"github.com/hntwatch/hntwatch/internal/helium"
)

// Wallet exposes the HNT balance of one wallet address.
type Wallet struct {
	baseSensor
	client  *helium.Client
	address string
}

// NewWallet creates a wallet sensor for the given address.
func NewWallet(client *helium.Client, address string) *Wallet {
	w := &Wallet{
		baseSensor: newBase("helium_wallet_"+address, "Helium Wallet "+address, config.UnitHNT),
		client:     client,
		address:    address,
	}
	w.attrs[AttrAddress] = address
	return w
}

// Address returns the wallet address this sensor tracks.
func (s *Wallet) Address() string { return s.address }

// Refresh fetches the wallet document and updates state and attributes.
func (s *Wallet) Refresh(ctx context.Context) error {
	wallet, err := s.client.Wallet(ctx, s.address)
	if err != nil {
		s.markUnavailable()
		return err
	}
	if wallet == nil {
		slog.Debug("no wallet data, keeping previous state",
			"sensor", s.UniqueID(),
			"address", s.address,
		)
		return nil
	}

	s.update(bonesToFloat(wallet.Balance), map[string]any{
		AttrBlock:     wallet.Block,
		AttrDCBalance: wallet.DCBalance,
	})

	slog.Info("wallet sensor updated",
		"sensor", s.UniqueID(),
		"balanceHNT", s.State(),
		"block", wallet.Block,
		"dcBalance", wallet.DCBalance,
	)
	return nil
}
