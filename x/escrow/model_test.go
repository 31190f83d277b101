package escrow

import (
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store"
	"github.com/iov-one/barter/weavetest"
	"github.com/iov-one/barter/weavetest/assert"
)

func TestDeriveAddress(t *testing.T) {
	maker := weavetest.NewKey().PublicKey()

	addr, bump, err := DeriveAddress(maker, 1)
	assert.Nil(t, err)
	assert.Nil(t, addr.Validate())
	if barter.IsOnCurve(addr) {
		t.Fatal("escrow address is on curve")
	}

	again, againBump, err := DeriveAddress(maker, 1)
	assert.Nil(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, bump, againBump)

	created, err := CreateAddress(maker, 1, bump)
	assert.Nil(t, err)
	assert.Equal(t, addr, created)

	other, _, err := DeriveAddress(maker, 2)
	assert.Nil(t, err)
	if other.Equals(addr) {
		t.Fatal("different seeds share an address")
	}
	stranger, _, err := DeriveAddress(weavetest.NewKey().PublicKey(), 1)
	assert.Nil(t, err)
	if stranger.Equals(addr) {
		t.Fatal("different makers share an address")
	}

	_, _, err = DeriveAddress(nil, 1)
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestCanonicalBump(t *testing.T) {
	maker := weavetest.NewKey().PublicKey()
	for seed := uint64(0); seed < 20; seed++ {
		_, bump, err := DeriveAddress(maker, seed)
		assert.Nil(t, err)
		// every greater bump must land on the curve
		for b := 255; b > int(bump); b-- {
			_, err := CreateAddress(maker, seed, uint8(b))
			assert.IsErr(t, barter.ErrOnCurve, err)
		}
	}
}

func newState(t testing.TB, seed uint64) (barter.Address, *EscrowState) {
	t.Helper()
	maker := weavetest.NewKey().PublicKey()
	addr, bump, err := DeriveAddress(maker, seed)
	assert.Nil(t, err)
	return addr, &EscrowState{
		Seed:           seed,
		Maker:          maker,
		AssetA:         assetA,
		AssetB:         assetB,
		AmountRequired: 50,
		Bump:           uint32(bump),
	}
}

func TestEscrowStateEncoding(t *testing.T) {
	_, state := newState(t, 1)
	assert.Nil(t, state.Validate())

	raw, err := state.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, discriminator, raw[:8])

	var got EscrowState
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, *state, got)

	assert.IsErr(t, errors.ErrInvalidType, got.Unmarshal(raw[8:]))
	assert.IsErr(t, errors.ErrInvalidType, got.Unmarshal(nil))
	assert.IsErr(t, errors.ErrInvalidInput, got.Unmarshal(raw[:len(raw)-1]))

	state.Bump = 300
	raw, err = state.Marshal()
	assert.Nil(t, err)
	assert.IsErr(t, errors.ErrInvalidInput, got.Unmarshal(raw))
	_, err = state.Address()
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestEscrowStateValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*EscrowState)
		wantErr *errors.Error
	}{
		"valid":          {mutate: func(*EscrowState) {}},
		"missing maker":  {mutate: func(e *EscrowState) { e.Maker = nil }, wantErr: errors.ErrInvalidInput},
		"invalid asset":  {mutate: func(e *EscrowState) { e.AssetA.Ticker = "a" }, wantErr: errors.ErrInvalidInput},
		"nothing wanted": {mutate: func(e *EscrowState) { e.AmountRequired = 0 }, wantErr: errors.ErrInvalidAmount},
		"bump too big":   {mutate: func(e *EscrowState) { e.Bump = 256 }, wantErr: errors.ErrInvalidInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, state := newState(t, 1)
			tc.mutate(state)
			err := state.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestBucket(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()
	addr, state := newState(t, 1)

	_, err := b.Read(db, addr)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = b.Delete(db, addr)
	assert.IsErr(t, errors.ErrNotFound, err)

	size, err := b.Create(db, addr, state)
	assert.Nil(t, err)
	raw, _ := state.Marshal()
	assert.Equal(t, len(raw), size)

	_, err = b.Create(db, addr, state)
	assert.IsErr(t, errors.ErrAlreadyExists, err)

	got, err := b.Read(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, state, got)

	keys, err := b.ByMaker(db, state.Maker)
	assert.Nil(t, err)
	assert.Equal(t, []barter.Address{addr}, keys)

	released, err := b.Delete(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, size, released)

	keys, err = b.ByMaker(db, state.Maker)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))
}
