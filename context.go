package barter

import (
	"context"

	"github.com/tendermint/tendermint/libs/log"
)

// Context carries the logger and the chain id from the Runner down to the
// handlers, plus whatever the decorators add on the way (the signers).
type Context = context.Context

type (
	loggerKey  struct{}
	chainIDKey struct{}
)

var nopLogger = log.NewNopLogger()

func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithLogInfo returns a context whose logger adds keyvals to every line.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}

// GetLogger never returns nil. Without a logger in ctx it discards
// everything.
func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(log.Logger); ok {
		return l
	}
	return nopLogger
}

// WithChainID binds ctx to a chain. Signatures verify only against the
// chain they were made for.
func WithChainID(ctx Context, chainID string) Context {
	return context.WithValue(ctx, chainIDKey{}, chainID)
}

// GetChainID is empty before the chain is initialized.
func GetChainID(ctx Context) string {
	id, _ := ctx.Value(chainIDKey{}).(string)
	return id
}
