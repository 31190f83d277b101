package app

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/app"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/weavetest"
	"github.com/iov-one/barter/weavetest/assert"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/ledger"
	"github.com/iov-one/barter/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "barter-app-test"

var (
	assetA = ledger.Asset{Ticker: "AAA", Decimals: 6}
	assetB = ledger.Asset{Ticker: "BBB", Decimals: 2}
)

type testApp struct {
	t      *testing.T
	runner *app.Runner
}

func newTestApp(t *testing.T, maker, taker crypto.PrivateKey) *testApp {
	t.Helper()
	runner, err := Application("", log.NewNopLogger())
	assert.Nil(t, err)

	state, err := json.Marshal(ledger.Genesis{
		Assets: []ledger.Asset{assetA, assetB},
		Balances: []ledger.GenesisBalance{
			{Owner: maker.PublicKey().Address(), Ticker: "AAA", Amount: 1000},
			{Owner: taker.PublicKey().Address(), Ticker: "BBB", Amount: 500},
		},
	})
	assert.Nil(t, err)
	gen := app.Genesis{
		ChainID:  chainID,
		AppState: barter.Options{"ledger": state},
	}
	assert.Nil(t, runner.InitChain(gen, Initializer()))
	return &testApp{t: t, runner: runner}
}

// submit signs msg with all signers, using their current sequences, and
// delivers it.
func (a *testApp) submit(msg barter.Msg, signers ...crypto.PrivateKey) (*barter.DeliverResult, error) {
	a.t.Helper()
	tx := &Tx{Msg: msg}
	for _, s := range signers {
		raw, err := a.runner.Query("/auth", s.PublicKey())
		assert.Nil(a.t, err)
		var user sigs.UserData
		assert.Nil(a.t, json.Unmarshal(raw, &user))
		assert.Nil(a.t, tx.Sign(s, chainID, user.Sequence))
	}
	raw, err := tx.Marshal()
	assert.Nil(a.t, err)
	if _, err := a.runner.CheckTx(raw); err != nil {
		return nil, err
	}
	return a.runner.DeliverTx(raw)
}

func (a *testApp) balance(owner crypto.PrivateKey, ticker string) uint64 {
	a.t.Helper()
	addr := ledger.HoldingAddress(owner.PublicKey().Address(), ticker)
	raw, err := a.runner.Query("/accounts", addr)
	if errors.ErrNotFound.Is(err) {
		return 0
	}
	assert.Nil(a.t, err)
	var acc ledger.AccountView
	assert.Nil(a.t, json.Unmarshal(raw, &acc))
	return acc.Balance
}

func TestOpenAndSettle(t *testing.T) {
	maker, taker := weavetest.NewKey(), weavetest.NewKey()
	a := newTestApp(t, maker, taker)

	res, err := a.submit(&escrow.OpenMsg{
		Maker:          maker.PublicKey(),
		Seed:           42,
		AssetA:         assetA,
		AssetB:         assetB,
		AmountRequired: 100,
		DepositAmount:  250,
	}, maker)
	assert.Nil(t, err)
	addr := barter.Address(res.Data)
	assert.Equal(t, uint64(750), a.balance(maker, "AAA"))

	raw, err := a.runner.Query("/escrows", addr)
	assert.Nil(t, err)
	var view escrow.EscrowView
	assert.Nil(t, json.Unmarshal(raw, &view))
	assert.Equal(t, uint64(250), view.Locked)
	assert.Equal(t, uint64(100), view.AmountRequired)

	// the escrow can not be opened twice
	_, err = a.submit(&escrow.OpenMsg{
		Maker:          maker.PublicKey(),
		Seed:           42,
		AssetA:         assetA,
		AssetB:         assetB,
		AmountRequired: 1,
		DepositAmount:  1,
	}, maker)
	assert.IsErr(t, errors.ErrAlreadyExists, err)

	settle := &escrow.SettleMsg{
		Taker:  taker.PublicKey(),
		Escrow: addr,
		Maker:  maker.PublicKey(),
		AssetA: assetA,
		AssetB: assetB,
	}
	// unsigned transactions never reach the handler
	_, err = a.submit(settle)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = a.submit(settle, taker)
	assert.Nil(t, err)

	assert.Equal(t, uint64(250), a.balance(taker, "AAA"))
	assert.Equal(t, uint64(400), a.balance(taker, "BBB"))
	assert.Equal(t, uint64(100), a.balance(maker, "BBB"))
	assert.Equal(t, uint64(750), a.balance(maker, "AAA"))

	_, err = a.runner.Query("/escrows", addr)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestOpenAndCancel(t *testing.T) {
	maker, taker := weavetest.NewKey(), weavetest.NewKey()
	a := newTestApp(t, maker, taker)

	res, err := a.submit(&escrow.OpenMsg{
		Maker:          maker.PublicKey(),
		Seed:           7,
		AssetA:         assetA,
		AssetB:         assetB,
		AmountRequired: 600,
		DepositAmount:  1000,
	}, maker)
	assert.Nil(t, err)
	addr := barter.Address(res.Data)
	assert.Equal(t, uint64(0), a.balance(maker, "AAA"))

	// the taker cannot afford it, nothing changes
	_, err = a.submit(&escrow.SettleMsg{
		Taker:  taker.PublicKey(),
		Escrow: addr,
		Maker:  maker.PublicKey(),
		AssetA: assetA,
		AssetB: assetB,
	}, taker)
	assert.IsErr(t, escrow.ErrEscrowInsufficientFunds, err)
	assert.Equal(t, uint64(500), a.balance(taker, "BBB"))

	// only the maker may cancel
	cancel := &escrow.CancelMsg{Maker: maker.PublicKey(), Escrow: addr}
	_, err = a.submit(cancel, taker)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = a.submit(cancel, maker)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000), a.balance(maker, "AAA"))

	raw, err := a.runner.Query("/escrows/maker", maker.PublicKey())
	assert.Nil(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestReplayIsRejected(t *testing.T) {
	maker, taker := weavetest.NewKey(), weavetest.NewKey()
	a := newTestApp(t, maker, taker)

	tx := &Tx{Msg: &escrow.OpenMsg{
		Maker:          maker.PublicKey(),
		Seed:           1,
		AssetA:         assetA,
		AssetB:         assetB,
		AmountRequired: 1,
		DepositAmount:  1,
	}}
	assert.Nil(t, tx.Sign(maker, chainID, 0))
	raw, err := tx.Marshal()
	assert.Nil(t, err)

	_, err = a.runner.DeliverTx(raw)
	assert.Nil(t, err)
	_, err = a.runner.DeliverTx(raw)
	assert.IsErr(t, sigs.ErrInvalidSequence, err)
	assert.Equal(t, uint64(999), a.balance(maker, "AAA"))
}
