package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
)

// signPrefix versions the layout hashed by SignBytes.
var signPrefix = []byte{0, 0xCA, 0xFE, 0}

// SignBytes returns the digest a key signs to authorize payload on the
// chain at the given sequence:
//
//	sha512(prefix | len(chainID) | chainID | seq (big endian) | payload)
//
// Binding the chain and the sequence keeps a signature from being replayed
// on another chain or twice on the same one.
func SignBytes(payload []byte, chainID string, seq uint64) ([]byte, error) {
	if !barter.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}
	buf := make([]byte, 0, len(signPrefix)+1+len(chainID)+8+len(payload))
	buf = append(buf, signPrefix...)
	buf = append(buf, byte(len(chainID)))
	buf = append(buf, chainID...)
	buf = append(buf, make([]byte, 8)...)
	binary.BigEndian.PutUint64(buf[len(buf)-8:], seq)
	buf = append(buf, payload...)
	sum := sha512.Sum512(buf)
	return sum[:], nil
}

// SignTx signs tx with key for the given chain and sequence.
func SignTx(key crypto.PrivateKey, tx SignedTx, chainID string, seq uint64) (*StdSignature, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	digest, err := SignBytes(payload, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{Pubkey: key.PublicKey(), Signature: sig, Sequence: seq}, nil
}

// VerifyTx checks every signature of tx and advances the sequence of each
// signer. It returns the signer conditions in signature order, empty for an
// unsigned transaction. Any invalid signature fails the whole transaction.
func VerifyTx(db barter.KVStore, tx SignedTx, chainID string) ([]barter.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()
	signers := make([]barter.Condition, 0, len(sigs))
	for i, sig := range sigs {
		cond, err := verify(db, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, cond)
	}
	return signers, nil
}

func verify(db barter.KVStore, sig *StdSignature, payload []byte, chainID string) (barter.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	b := NewBucket()
	user, err := b.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	digest, err := SignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := b.Save(db, user); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}
