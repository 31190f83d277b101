package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	GetSignBytes() ([]byte, error)

	// Signatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature together with the key that created it and the
// sequence it was created for.
type StdSignature struct {
	Sequence  uint64           `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence"`
	Pubkey    crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey"`
	Signature []byte           `protobuf:"bytes,3,opt,name=signature,proto3" json:"signature"`
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if len(s.Pubkey) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

type wireSignature StdSignature

func (m *wireSignature) Reset()         { *m = wireSignature{} }
func (m *wireSignature) String() string { return proto.CompactTextString(m) }
func (*wireSignature) ProtoMessage()    {}

func (s *StdSignature) Marshal() ([]byte, error) {
	return proto.Marshal((*wireSignature)(s))
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*wireSignature)(s)); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}
