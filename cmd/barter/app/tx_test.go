package app

import (
	"bytes"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/weavetest"
	"github.com/iov-one/barter/weavetest/assert"
	"github.com/iov-one/barter/x/escrow"
)

func TestTxDecoder(t *testing.T) {
	maker := weavetest.NewKey()
	tx := &Tx{Msg: &escrow.CancelMsg{
		Maker:  maker.PublicKey(),
		Escrow: weavetest.NewCondition().Address(),
	}}
	unsigned, err := tx.GetSignBytes()
	assert.Nil(t, err)

	assert.Nil(t, tx.Sign(maker, chainID, 3))
	signed, err := tx.GetSignBytes()
	assert.Nil(t, err)
	if !bytes.Equal(unsigned, signed) {
		t.Fatal("signatures must not change the sign bytes")
	}

	raw, err := tx.Marshal()
	assert.Nil(t, err)
	decoded, err := TxDecoder(raw)
	assert.Nil(t, err)
	assert.Equal(t, tx, decoded)

	unknown, err := proto.Marshal(&wireTx{Path: "escrow/steal", Msg: []byte{1}})
	assert.Nil(t, err)
	broken, err := proto.Marshal(&wireTx{Path: "escrow/cancel", Msg: []byte{0xff}})
	assert.Nil(t, err)

	cases := map[string]struct {
		raw     []byte
		wantErr *errors.Error
	}{
		"unknown path": {
			raw:     unknown,
			wantErr: errors.ErrNotFound,
		},
		"no message": {
			raw:     nil,
			wantErr: errors.ErrNotFound,
		},
		"broken message": {
			raw:     broken,
			wantErr: errors.ErrInvalidInput,
		},
		"truncated": {
			raw:     raw[:len(raw)-3],
			wantErr: errors.ErrInvalidInput,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := TxDecoder(tc.raw)
			assert.IsErr(t, tc.wantErr, err)
		})
	}

	_, err = (&Tx{}).GetMsg()
	assert.IsErr(t, errors.ErrInvalidInput, err)
}
