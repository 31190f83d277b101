package sigs

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// StdTx implements SignedTx over raw bytes
type StdTx struct {
	Msg        barter.Msg
	SignBytes  []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{SignBytes: payload}
}

func (tx StdTx) GetMsg() (barter.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "no message")
	}
	return tx.Msg, nil
}

func (tx StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx StdTx) GetSignBytes() ([]byte, error) {
	return tx.SignBytes, nil
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []barter.Condition
}

var _ barter.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx barter.Context, store barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &barter.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx barter.Context, store barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &barter.DeliverResult{}, nil
}
