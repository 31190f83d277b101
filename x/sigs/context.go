package sigs

import (
	"context"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/x"
)

type signersKey struct{}

func withSigners(ctx barter.Context, signers []barter.Condition) barter.Context {
	return context.WithValue(ctx, signersKey{}, signers)
}

// Authenticate reports the keys that signed the transaction being processed.
// Only the Decorator sets them.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx barter.Context) []barter.Condition {
	signers, _ := ctx.Value(signersKey{}).([]barter.Condition)
	return signers
}

func (a Authenticate) HasAddress(ctx barter.Context, addr barter.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
