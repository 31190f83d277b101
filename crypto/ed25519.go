/*
Package crypto wraps the ed25519 keys that identify makers and takers.
A public key is turned into a Condition so that the addresses of holding
accounts owned by a key are derived the same way as every other address.
*/
package crypto

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the Condition of a public key.
const ExtensionName = "sigs"

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Validate returns an error if the key is not a proper ed25519 public key.
func (p PublicKey) Validate() error {
	if len(p) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInvalidInput, "public key must be %d bytes, got %d", ed25519.PublicKeySize, len(p))
	}
	return nil
}

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Condition encodes the public key into a permission
func (p PublicKey) Condition() barter.Condition {
	return barter.NewCondition(ExtensionName, "ed25519", p)
}

// Address returns the address of accounts owned by this key.
func (p PublicKey) Address() barter.Address {
	return p.Condition().Address()
}

// Equals checks if two keys are the same.
func (p PublicKey) Equals(o PublicKey) bool {
	return barter.Address(p).Equals(barter.Address(o))
}

func (p PublicKey) String() string {
	return strings.ToUpper(hex.EncodeToString(p))
}

// MarshalJSON provides a hex representation for JSON.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes the hex representation.
func (p *PublicKey) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	key, err := ParsePublicKey(enc)
	if err != nil {
		return err
	}
	*p = key
	return nil
}

// ParsePublicKey decodes a hex encoded public key.
func ParsePublicKey(enc string) (PublicKey, error) {
	raw, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "cannot decode hex")
	}
	key := PublicKey(raw)
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return key, nil
}

// PrivateKey is an ed25519 private key.
type PrivateKey []byte

// Sign returns a matching signature for this private key
func (p PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(p) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInvalidInput, "invalid private key")
	}
	return ed25519.Sign(ed25519.PrivateKey(p), message), nil
}

// PublicKey returns the corresponding PublicKey
func (p PrivateKey) PublicKey() PublicKey {
	pub := ed25519.PrivateKey(p).Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return PrivateKey(priv)
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) PrivateKey {
	return PrivateKey(ed25519.NewKeyFromSeed(seed))
}
