package utils

import (
	"time"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Logging writes one line per transaction with its route, the time spent
// in the rest of the chain and the outcome. Rejections carry the error code.
type Logging struct{}

var _ barter.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx, next barter.Checker) (*barter.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	logResult(ctx, "check", tx, start, msg, err)
	return res, err
}

func (Logging) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx, next barter.Deliverer) (*barter.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	logResult(ctx, "deliver", tx, start, msg, err)
	return res, err
}

func logResult(ctx barter.Context, phase string, tx barter.Tx, start time.Time, msg string, err error) {
	logger := barter.GetLogger(ctx).With(
		"phase", phase,
		"path", barter.GetPath(tx),
		"took_us", int64(time.Since(start)/time.Microsecond))
	switch {
	case err != nil:
		logger.Info("rejected", "code", errors.Code(err), "err", err)
	case phase == "check":
		logger.Debug("accepted", "log", msg)
	default:
		logger.Info("accepted", "log", msg)
	}
}
