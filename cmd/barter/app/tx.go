package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/sigs"
)

// Tx is the envelope of every transaction: a single message together with
// the signatures authorizing it.
type Tx struct {
	Signatures []*sigs.StdSignature
	Msg        barter.Msg
}

// make sure tx fulfills all interfaces
var _ barter.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// msgs returns an empty message for every supported path.
var msgs = map[string]func() barter.Msg{
	escrow.OpenMsg{}.Path():   func() barter.Msg { return &escrow.OpenMsg{} },
	escrow.SettleMsg{}.Path(): func() barter.Msg { return &escrow.SettleMsg{} },
	escrow.CancelMsg{}.Path(): func() barter.Msg { return &escrow.CancelMsg{} },
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (barter.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message of this transaction.
func (tx *Tx) GetMsg() (barter.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "transaction without message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// the sign bytes only come from the data itself, not previous signatures
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

// Sign appends the signature of the given key for the given sequence.
func (tx *Tx) Sign(signer crypto.PrivateKey, chainID string, seq uint64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// wireTx is the encoded form of Tx. The message is carried as bytes
// together with its path, which selects the type to decode it into.
type wireTx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3"`
	Path       string               `protobuf:"bytes,2,opt,name=path,proto3"`
	Msg        []byte               `protobuf:"bytes,3,opt,name=msg,proto3"`
}

func (m *wireTx) Reset()         { *m = wireTx{} }
func (m *wireTx) String() string { return proto.CompactTextString(m) }
func (*wireTx) ProtoMessage()    {}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "transaction without message")
	}
	raw, err := tx.Msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "message")
	}
	return proto.Marshal(&wireTx{
		Signatures: tx.Signatures,
		Path:       tx.Msg.Path(),
		Msg:        raw,
	})
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	var w wireTx
	if err := proto.Unmarshal(raw, &w); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	newMsg, ok := msgs[w.Path]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "message path %q", w.Path)
	}
	msg := newMsg()
	if err := msg.Unmarshal(w.Msg); err != nil {
		return errors.Wrapf(err, "message %q", w.Path)
	}
	tx.Signatures = w.Signatures
	tx.Msg = msg
	return nil
}
