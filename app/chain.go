package app

import "github.com/iov-one/barter"

// Decorators is an ordered list of decorators waiting for the handler they
// wrap. The first decorator sees a transaction first.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//		utils.NewSavepoint(),
//	).WithHandler(router)
type Decorators []barter.Decorator

// ChainDecorators collects the decorators in call order. Nil entries are
// skipped.
func ChainDecorators(ds ...barter.Decorator) Decorators {
	return Decorators(nil).Chain(ds...)
}

// Chain returns a copy with ds appended.
func (d Decorators) Chain(ds ...barter.Decorator) Decorators {
	out := make(Decorators, 0, len(d)+len(ds))
	out = append(out, d...)
	for _, dec := range ds {
		if dec != nil {
			out = append(out, dec)
		}
	}
	return out
}

// WithHandler binds the chain to h.
func (d Decorators) WithHandler(h barter.Handler) barter.Handler {
	for i := len(d) - 1; i >= 0; i-- {
		h = link{dec: d[i], next: h}
	}
	return h
}

// link runs one decorator around the rest of the chain.
type link struct {
	dec  barter.Decorator
	next barter.Handler
}

func (l link) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
