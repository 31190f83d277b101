package ledger

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

const optKey = "ledger"

// Genesis is the json layout of the ledger section of the genesis file.
type Genesis struct {
	Assets   []Asset          `json:"assets"`
	Balances []GenesisBalance `json:"balances"`
}

// GenesisBalance funds the holding account of Owner.
type GenesisBalance struct {
	Owner  barter.Address `json:"owner"`
	Ticker string         `json:"ticker"`
	Amount uint64         `json:"amount"`
}

// Initializer fulfils the barter.Initializer interface to load data from
// the genesis file.
type Initializer struct{}

var _ barter.Initializer = Initializer{}

// FromGenesis registers all assets and funds the listed holding accounts.
func (Initializer) FromGenesis(opts barter.Options, kv barter.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	ctrl := NewController()
	assets := make(map[string]Asset, len(gen.Assets))
	for _, a := range gen.Assets {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "asset %s", a.Ticker)
		}
		if err := ctrl.RegisterAsset(kv, a); err != nil {
			return err
		}
		assets[a.Ticker] = a
	}
	for i, b := range gen.Balances {
		asset, ok := assets[b.Ticker]
		if !ok {
			return errors.Wrapf(ErrAssetTypeMismatch, "balance %d: unknown ticker %q", i, b.Ticker)
		}
		addr, err := ctrl.ProvisionHoldingAccount(kv, b.Owner, asset)
		if err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}
		if err := ctrl.Issue(kv, addr, b.Amount); err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}
	}
	return nil
}
