package utils

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Savepoint runs Deliver in a cache wrap of the store. The cache is written
// only when the rest of the chain succeeds, so a rejected message leaves no
// partial balance or escrow change behind. Check runs on a scratch store
// anyway and passes straight through.
type Savepoint struct{}

var _ barter.Decorator = Savepoint{}

// NewSavepoint returns the deliver savepoint decorator.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

func (Savepoint) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx, next barter.Checker) (*barter.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (Savepoint) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx, next barter.Deliverer) (*barter.DeliverResult, error) {
	cacheable, ok := db.(barter.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "savepoint needs a cacheable store")
	}
	cache := cacheable.CacheWrap()
	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "savepoint")
	}
	return res, nil
}
