/*
Package sigs verifies the ed25519 signatures of a transaction and keeps the
per key sequence that protects against replays.
*/
package sigs

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Decorator rejects transactions that carry no valid signature. The
// verified signers are put in the context for Authenticate.
type Decorator struct{}

var _ barter.Decorator = Decorator{}

func NewDecorator() Decorator {
	return Decorator{}
}

func (Decorator) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx, next barter.Checker) (*barter.CheckResult, error) {
	ctx, err := authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (Decorator) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx, next barter.Deliverer) (*barter.DeliverResult, error) {
	ctx, err := authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func authenticate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (barter.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "unsigned transaction type %T", tx)
	}
	signers, err := VerifyTx(db, stx, barter.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "verify signatures")
	}
	if len(signers) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), nil
}
