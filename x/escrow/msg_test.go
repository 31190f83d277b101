package escrow

import (
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/weavetest"
	"github.com/iov-one/barter/weavetest/assert"
	"github.com/iov-one/barter/x/ledger"
)

func TestMsgValidate(t *testing.T) {
	maker := weavetest.NewKey().PublicKey()
	taker := weavetest.NewKey().PublicKey()
	escrow, _, err := DeriveAddress(maker, 1)
	assert.Nil(t, err)

	cases := map[string]struct {
		msg     barter.Msg
		wantErr *errors.Error
	}{
		"valid open": {
			msg: &OpenMsg{Maker: maker, Seed: 1, AssetA: assetA, AssetB: assetB, AmountRequired: 1, DepositAmount: 1},
		},
		"open without maker": {
			msg:     &OpenMsg{Seed: 1, AssetA: assetA, AssetB: assetB, AmountRequired: 1, DepositAmount: 1},
			wantErr: errors.ErrInvalidInput,
		},
		"open with invalid asset": {
			msg:     &OpenMsg{Maker: maker, AssetA: ledger.Asset{Ticker: "x"}, AssetB: assetB, AmountRequired: 1, DepositAmount: 1},
			wantErr: errors.ErrInvalidInput,
		},
		"open requiring nothing": {
			msg:     &OpenMsg{Maker: maker, AssetA: assetA, AssetB: assetB, DepositAmount: 1},
			wantErr: errors.ErrInvalidAmount,
		},
		"open depositing nothing": {
			msg:     &OpenMsg{Maker: maker, AssetA: assetA, AssetB: assetB, AmountRequired: 1},
			wantErr: errors.ErrInvalidAmount,
		},
		"valid settle": {
			msg: &SettleMsg{Taker: taker, Escrow: escrow, Maker: maker, AssetA: assetA, AssetB: assetB},
		},
		"settle without escrow": {
			msg:     &SettleMsg{Taker: taker, Maker: maker, AssetA: assetA, AssetB: assetB},
			wantErr: errors.ErrInvalidInput,
		},
		"settle without taker": {
			msg:     &SettleMsg{Escrow: escrow, Maker: maker, AssetA: assetA, AssetB: assetB},
			wantErr: errors.ErrInvalidInput,
		},
		"valid cancel": {
			msg: &CancelMsg{Maker: maker, Escrow: escrow},
		},
		"cancel with short escrow": {
			msg:     &CancelMsg{Maker: maker, Escrow: escrow[:20]},
			wantErr: errors.ErrInvalidInput,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}
