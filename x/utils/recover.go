package utils

import (
	"fmt"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Recovery converts a panic further down the chain into an ErrPanic and logs
// it with its stack. It must sit outside of the Savepoint so that the writes
// of a panicking message are discarded.
type Recovery struct{}

var _ barter.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx, next barter.Checker) (res *barter.CheckResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx, next barter.Deliverer) (res *barter.DeliverResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

func logPanic(ctx barter.Context, err *error) {
	if errors.ErrPanic.Is(*err) {
		barter.GetLogger(ctx).Error("recovered panic", "err", fmt.Sprintf("%+v", *err))
	}
}
