package weavetest

import (
	"context"

	"github.com/iov-one/barter"
)

// Auth authenticates a fixed set of signers, whatever the context.
type Auth struct {
	Signers []barter.Condition
}

func (a *Auth) GetConditions(barter.Context) []barter.Condition {
	return a.Signers
}

func (a *Auth) HasAddress(_ barter.Context, addr barter.Address) bool {
	return hasAddress(a.Signers, addr)
}

// CtxAuth authenticates the signers attached to the context with
// SetConditions. Use distinct keys to run unrelated authenticators side by
// side.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetConditions(ctx barter.Context, signers ...barter.Condition) barter.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), signers)
}

func (a *CtxAuth) GetConditions(ctx barter.Context) []barter.Condition {
	signers, _ := ctx.Value(ctxAuthKey(a.Key)).([]barter.Condition)
	return signers
}

func (a *CtxAuth) HasAddress(ctx barter.Context, addr barter.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(signers []barter.Condition, addr barter.Address) bool {
	for _, c := range signers {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
