package barter_test

import (
	"bytes"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/weavetest"
	"github.com/iov-one/barter/weavetest/assert"
)

func TestIsOnCurve(t *testing.T) {
	// every public key is a curve point
	for i := 0; i < 20; i++ {
		pub := weavetest.NewKey().PublicKey()
		if !barter.IsOnCurve(pub) {
			t.Fatalf("public key %s not on curve", pub)
		}
	}

	identity := make([]byte, 32)
	identity[0] = 1
	assert.Equal(t, true, barter.IsOnCurve(identity))
	// negative zero x is decoded as the identity
	identity[31] = 0x80
	assert.Equal(t, true, barter.IsOnCurve(identity))

	// y = 2 has no matching x
	notOnCurve := make([]byte, 32)
	notOnCurve[0] = 2
	assert.Equal(t, false, barter.IsOnCurve(notOnCurve))

	assert.Equal(t, false, barter.IsOnCurve([]byte{1, 2, 3}))
}

func TestFindDerivedAddress(t *testing.T) {
	program := barter.NewAddress([]byte("test/program"))
	seeds := [][]byte{[]byte("escrow"), weavetest.NewKey().PublicKey()}

	addr, bump, err := barter.FindDerivedAddress(program, seeds...)
	assert.Nil(t, err)
	assert.Equal(t, false, barter.IsOnCurve(addr))
	assert.Nil(t, addr.Validate())

	// derivation is deterministic
	again, againBump, err := barter.FindDerivedAddress(program, seeds...)
	assert.Nil(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, bump, againBump)

	// the bump reproduces the address
	created, err := barter.CreateDerivedAddress(program, append(seeds, []byte{bump})...)
	assert.Nil(t, err)
	assert.Equal(t, addr, created)

	// any bump above the canonical one lands on the curve
	for b := int(bump) + 1; b <= 255; b++ {
		_, err := barter.CreateDerivedAddress(program, append(seeds, []byte{uint8(b)})...)
		assert.IsErr(t, barter.ErrOnCurve, err)
	}

	other, _, err := barter.FindDerivedAddress(barter.NewAddress([]byte("other/program")), seeds...)
	assert.Nil(t, err)
	if bytes.Equal(addr, other) {
		t.Fatal("programs must not share derived addresses")
	}
}

func TestDerivationLimits(t *testing.T) {
	program := barter.NewAddress([]byte("test/program"))

	tooMany := make([][]byte, barter.MaxSeeds+1)
	_, err := barter.CreateDerivedAddress(program, tooMany...)
	assert.IsErr(t, errors.ErrInvalidInput, err)

	// the bump counts as a seed
	_, _, err = barter.FindDerivedAddress(program, make([][]byte, barter.MaxSeeds)...)
	assert.IsErr(t, errors.ErrInvalidInput, err)

	_, err = barter.CreateDerivedAddress(program, make([]byte, barter.MaxSeedLen+1))
	assert.IsErr(t, errors.ErrInvalidInput, err)

	_, err = barter.CreateDerivedAddress(barter.Address{1, 2})
	assert.IsErr(t, errors.ErrInvalidInput, err)
}
