package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/store"
	"github.com/iov-one/barter/weavetest"
	"github.com/iov-one/barter/weavetest/assert"
	"github.com/iov-one/barter/x/ledger"
)

var (
	assetA = ledger.Asset{Ticker: "AAA", Decimals: 6}
	assetB = ledger.Asset{Ticker: "BBB", Decimals: 2}
)

type routes map[string]barter.Handler

func (r routes) Handle(path string, h barter.Handler) {
	r[path] = h
}

// fixture is a store with both assets registered and two funded parties.
type fixture struct {
	kv     barter.CacheableKVStore
	bank   ledger.BaseController
	auth   *weavetest.CtxAuth
	routes routes
	maker  crypto.PrivateKey
	taker  crypto.PrivateKey
}

func newFixture(t testing.TB, makerA, takerB uint64) *fixture {
	t.Helper()
	f := &fixture{
		kv:     store.MemStore(),
		bank:   ledger.NewController(),
		auth:   &weavetest.CtxAuth{Key: "auth"},
		routes: make(routes),
		maker:  weavetest.NewKey(),
		taker:  weavetest.NewKey(),
	}
	assert.Nil(t, f.bank.RegisterAsset(f.kv, assetA))
	assert.Nil(t, f.bank.RegisterAsset(f.kv, assetB))
	f.fund(t, f.maker, assetA, makerA)
	f.fund(t, f.taker, assetB, takerB)
	RegisterRoutes(f.routes, f.auth, f.bank)
	return f
}

func (f *fixture) fund(t testing.TB, key crypto.PrivateKey, asset ledger.Asset, amount uint64) {
	t.Helper()
	addr, err := f.bank.ProvisionHoldingAccount(f.kv, key.PublicKey().Address(), asset)
	assert.Nil(t, err)
	assert.Nil(t, f.bank.Issue(f.kv, addr, amount))
}

// balance returns the balance of the holding account of key, zero if it
// does not exist.
func (f *fixture) balance(t testing.TB, key crypto.PrivateKey, asset ledger.Asset) uint64 {
	t.Helper()
	acc, err := f.bank.Account(f.kv, ledger.HoldingAddress(key.PublicKey().Address(), asset.Ticker))
	if err != nil {
		return 0
	}
	return acc.Balance
}

// deliver runs msg signed by signer in a cache wrap that is written only
// when the handler succeeds.
func (f *fixture) deliver(t testing.TB, signer crypto.PrivateKey, msg barter.Msg) (*barter.DeliverResult, error) {
	t.Helper()
	h, ok := f.routes[msg.Path()]
	if !ok {
		t.Fatalf("no handler for %s", msg.Path())
	}
	ctx := f.auth.SetConditions(context.Background(), signer.PublicKey().Condition())
	db := f.kv.CacheWrap()
	res, err := h.Deliver(ctx, db, &weavetest.Tx{Msg: msg})
	if err != nil {
		db.Discard()
		return nil, err
	}
	assert.Nil(t, db.Write())
	return res, nil
}

func (f *fixture) check(t testing.TB, signer crypto.PrivateKey, msg barter.Msg) error {
	t.Helper()
	ctx := f.auth.SetConditions(context.Background(), signer.PublicKey().Condition())
	db := f.kv.CacheWrap()
	defer db.Discard()
	_, err := f.routes[msg.Path()].Check(ctx, db, &weavetest.Tx{Msg: msg})
	return err
}

func (f *fixture) open(t testing.TB, seed, deposit, required uint64) barter.Address {
	t.Helper()
	res, err := f.deliver(t, f.maker, &OpenMsg{
		Maker:          f.maker.PublicKey(),
		Seed:           seed,
		AssetA:         assetA,
		AssetB:         assetB,
		AmountRequired: required,
		DepositAmount:  deposit,
	})
	assert.Nil(t, err)
	return res.Data
}

func (f *fixture) settleMsg(escrow barter.Address) *SettleMsg {
	return &SettleMsg{
		Taker:  f.taker.PublicKey(),
		Escrow: escrow,
		Maker:  f.maker.PublicKey(),
		AssetA: assetA,
		AssetB: assetB,
	}
}

// total sums the balances of all holding accounts of given asset.
func (f *fixture) total(t testing.TB, asset ledger.Asset, owners ...barter.Address) uint64 {
	t.Helper()
	var sum uint64
	for _, o := range owners {
		acc, err := f.bank.Account(f.kv, ledger.HoldingAddress(o, asset.Ticker))
		if err == nil {
			sum += acc.Balance
		}
	}
	return sum
}
