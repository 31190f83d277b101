package barter

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/barter/errors"
)

const (
	// MaxSeeds is the maximum number of seeds accepted by a derivation,
	// the bump included.
	MaxSeeds = 16
	// MaxSeedLen is the maximum length of a single seed.
	MaxSeedLen = 32

	derivedMarker = "ProgramDerivedAddress"
)

// CreateDerivedAddress computes the address owned by program for the given
// seeds. The result is rejected when it happens to be a valid ed25519 point,
// because only an off curve address is guaranteed to have no private key.
func CreateDerivedAddress(program Address, seeds ...[]byte) (Address, error) {
	if err := program.Validate(); err != nil {
		return nil, errors.Wrap(err, "program")
	}
	if len(seeds) > MaxSeeds {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "%d seeds, max %d", len(seeds), MaxSeeds)
	}
	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLen {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "seed %d is %d bytes, max %d", i, len(s), MaxSeedLen)
		}
		_, _ = h.Write(s)
	}
	_, _ = h.Write(program)
	_, _ = h.Write([]byte(derivedMarker))
	sum := h.Sum(nil)
	if IsOnCurve(sum) {
		return nil, errors.Wrap(ErrOnCurve, "derived address")
	}
	return Address(sum), nil
}

// FindDerivedAddress searches the canonical bump for the given seeds. Bumps
// are tried from 255 down and the first off curve result is returned along
// with the bump that produced it.
func FindDerivedAddress(program Address, seeds ...[]byte) (Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateDerivedAddress(program, withBump...)
		switch {
		case err == nil:
			return addr, uint8(bump), nil
		case ErrOnCurve.Is(err):
			continue
		default:
			return nil, 0, err
		}
	}
	return nil, 0, errors.Wrap(errors.ErrInvalidState, "no viable bump")
}

// ErrOnCurve is returned when a derivation lands on the ed25519 curve.
var ErrOnCurve = errors.Register(100, "address on curve")

// IsOnCurve reports whether the 32 bytes decode to a point of the ed25519
// curve, which is what any ed25519 public key is. Non canonical encodings of
// valid points count as on curve.
func IsOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
