package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store"
	"github.com/iov-one/barter/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	ctx := barter.WithLogger(context.Background(), log.NewTMLogger(&buf))
	db := store.MemStore()
	boom := &weavetest.Handler{Panic: "vault exploded"}

	_, err := NewRecovery().Check(ctx, db, nil, boom)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.True(t, strings.Contains(buf.String(), "vault exploded"), buf.String())

	buf.Reset()
	_, err = NewRecovery().Deliver(ctx, db, nil, boom)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.True(t, strings.Contains(buf.String(), "recovered panic"), buf.String())

	buf.Reset()
	_, err = NewRecovery().Deliver(ctx, db, nil, &weavetest.Handler{DeliverErr: errors.ErrNotFound})
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, "", buf.String())
}
