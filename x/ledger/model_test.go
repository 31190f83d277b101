package ledger

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store"
	"github.com/iov-one/barter/weavetest/assert"
)

func TestAssetValidate(t *testing.T) {
	cases := map[string]struct {
		asset   Asset
		wantErr *errors.Error
	}{
		"valid":          {asset: Asset{Ticker: "IOV", Decimals: 9}},
		"four letters":   {asset: Asset{Ticker: "USDC", Decimals: 6}},
		"lower case":     {asset: Asset{Ticker: "iov"}, wantErr: errors.ErrInvalidInput},
		"too long":       {asset: Asset{Ticker: "TOOLONG"}, wantErr: errors.ErrInvalidInput},
		"many decimals":  {asset: Asset{Ticker: "IOV", Decimals: 19}, wantErr: errors.ErrInvalidInput},
		"missing ticker": {asset: Asset{}, wantErr: errors.ErrInvalidInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.asset.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestAccountEncoding(t *testing.T) {
	acc := Account{
		Owner:   barter.NewAddress([]byte("owner")),
		Ticker:  "IOV",
		Balance: 1234,
	}
	raw, err := acc.Marshal()
	assert.Nil(t, err)

	var got Account
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, acc, got)

	// an empty account encodes to nothing but the owner and ticker
	acc.Balance = 0
	raw, err = acc.Marshal()
	assert.Nil(t, err)
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, uint64(0), got.Balance)
}

func TestAssetDecimalsNotTruncated(t *testing.T) {
	// ticker "AAA" followed by decimals 1<<32 + 6
	raw := append([]byte{0x0a, 3, 'A', 'A', 'A', 0x10}, proto.EncodeVarint(1<<32+6)...)

	var got Asset
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, uint64(1<<32+6), got.Decimals)
	assert.IsErr(t, errors.ErrInvalidInput, got.Validate())

	registered := Asset{Ticker: "AAA", Decimals: 6}
	if got.Equals(registered) {
		t.Fatal("descriptor matches a different asset type")
	}
	db := store.MemStore()
	ctrl := NewController()
	assert.Nil(t, ctrl.RegisterAsset(db, registered))
	assert.IsErr(t, ErrAssetTypeMismatch, ctrl.CheckAsset(db, got))

	assert.IsErr(t, errors.ErrInvalidInput, got.Unmarshal([]byte{0x10, 0xff}))
}
