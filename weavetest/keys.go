package weavetest

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/crypto"
)

// NewKey returns a random private key.
func NewKey() crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a random key.
func NewCondition() barter.Condition {
	return NewKey().PublicKey().Condition()
}
