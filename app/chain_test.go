package app

import (
	"context"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/weavetest"
	"github.com/iov-one/barter/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &countingDecorator{}
	c2 := &countingDecorator{}
	c3 := &countingDecorator{}
	h := &weavetest.Handler{}

	chain := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
	)
	stack := chain.Chain(panicDecorator{}, nil, c3).WithHandler(h)
	assert.Equal(t, 4, len(chain))

	bg := context.Background()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/ok"}}

	// make some calls, make sure it is fine
	_, err := stack.Check(bg, nil, tx)
	assert.NoError(t, err)
	_, err = stack.Deliver(bg, nil, tx)
	assert.NoError(t, err)

	// decorators are counted double, once in, once out
	assert.Equal(t, 4, c1.count)
	assert.Equal(t, 4, c2.count)
	assert.Equal(t, 4, c3.count)
	assert.Equal(t, 2, h.CallCount())

	// now, let's trigger a panic
	boom := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/panic"}}
	_, err = stack.Check(bg, nil, boom)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(bg, nil, boom)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 8, c1.count)
	// note that c2 is called twice in, but not out
	assert.Equal(t, 6, c2.count)
	// and those two ins don't make it to c3 due to panic
	assert.Equal(t, 4, c3.count)
	assert.Equal(t, 2, h.CallCount())
}

// countingDecorator counts every entry into and every return from the
// decorator.
type countingDecorator struct {
	count int
}

func (c *countingDecorator) Check(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Checker) (*barter.CheckResult, error) {
	c.count++
	res, err := next.Check(ctx, store, tx)
	c.count++
	return res, err
}

func (c *countingDecorator) Deliver(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Deliverer) (*barter.DeliverResult, error) {
	c.count++
	res, err := next.Deliver(ctx, store, tx)
	c.count++
	return res, err
}

// panicDecorator panics for every message routed to test/panic.
type panicDecorator struct{}

func (panicDecorator) Check(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Checker) (*barter.CheckResult, error) {
	if barter.GetPath(tx) == "test/panic" {
		panic("boom")
	}
	return next.Check(ctx, store, tx)
}

func (panicDecorator) Deliver(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Deliverer) (*barter.DeliverResult, error) {
	if barter.GetPath(tx) == "test/panic" {
		panic("boom")
	}
	return next.Deliver(ctx, store, tx)
}
