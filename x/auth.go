/*
Package x holds what the extensions share: the Authenticator that tells a
handler who signed the transaction it processes.
*/
package x

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Authenticator reports the signers of the current transaction. Handlers
// receive one in their constructor instead of reading x/sigs directly.
type Authenticator interface {
	GetConditions(barter.Context) []barter.Condition
	HasAddress(barter.Context, barter.Address) bool
}

// ChainAuth merges the signers of several authenticators.
func ChainAuth(auths ...Authenticator) Authenticator {
	return multiAuth(auths)
}

type multiAuth []Authenticator

func (m multiAuth) GetConditions(ctx barter.Context) []barter.Condition {
	var all []barter.Condition
	for _, a := range m {
		all = append(all, a.GetConditions(ctx)...)
	}
	return all
}

func (m multiAuth) HasAddress(ctx barter.Context, addr barter.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// RequireSigner returns ErrUnauthorized unless addr signed the transaction.
// The party names the role of addr in the error, for example "maker".
func RequireSigner(ctx barter.Context, auth Authenticator, addr barter.Address, party string) error {
	if addr == nil || !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature required", party)
	}
	return nil
}
