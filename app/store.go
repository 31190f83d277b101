package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (barter.Tx, error)

// Runner contains a data store and all info needed to check, deliver and
// query transactions.
//
// All state transitions are serialized. Every delivered transaction runs in
// its own cache wrap that is written to the store only if the handler
// succeeded, after which the new state is committed as a new version.
type Runner struct {
	mu     sync.Mutex
	logger log.Logger

	store *state

	decoder     TxDecoder
	handler     barter.Handler
	queryRouter barter.QueryRouter

	// chainID is loaded from db in initialization
	// saved once in InitChain
	chainID string

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID)
	baseContext barter.Context
}

// NewRunner initializes the runner into a ready state, loading the chain id
// from the given store if it was initialized before.
func NewRunner(
	kv barter.CommitKVStore,
	decoder TxDecoder,
	handler barter.Handler,
	queryRouter barter.QueryRouter,
) (*Runner, error) {
	store, err := loadState(kv)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		store:       store,
		decoder:     decoder,
		handler:     handler,
		queryRouter: queryRouter,
		baseContext: context.Background(),
	}
	r.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(store.deliver)
	if err != nil {
		return nil, err
	}
	if chainID != "" {
		r.chainID = chainID
		r.baseContext = barter.WithChainID(r.baseContext, chainID)
	}
	return r, nil
}

// WithLogger sets the logger on the Runner and returns it,
// to make it easy to chain in initialization
//
// also sets baseContext logger
func (r *Runner) WithLogger(logger log.Logger) *Runner {
	r.baseContext = barter.WithLogger(r.baseContext, logger)
	r.logger = logger
	return r
}

// Logger returns the application base logger
func (r *Runner) Logger() log.Logger {
	return r.logger
}

// GetChainID returns the current chainID
func (r *Runner) GetChainID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chainID
}

// CommitInfo returns the latest committed version and hash.
func (r *Runner) CommitInfo() (barter.CommitID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.info()
}

// InitChain stores the chain id and runs the initializer over the genesis
// application state. It can be called only once in the lifetime of a store.
func (r *Runner) InitChain(gen Genesis, init barter.Initializer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.chainID != "" {
		return errors.Wrapf(errors.ErrAlreadyExists, "app state previously loaded for chain: %s", r.chainID)
	}
	if err := gen.Validate(); err != nil {
		return err
	}

	deliver := r.store.deliver
	if err := saveChainID(deliver, gen.ChainID); err != nil {
		r.store.reset()
		return err
	}
	if err := init.FromGenesis(gen.AppState, deliver); err != nil {
		r.store.reset()
		return errors.Wrap(err, "genesis")
	}
	id, err := r.store.commit()
	if err != nil {
		return err
	}

	r.chainID = gen.ChainID
	r.baseContext = barter.WithChainID(r.baseContext, gen.ChainID)
	r.logger.Info("chain initialized",
		"chain_id", gen.ChainID,
		"version", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash))
	return nil
}

// CheckTx runs the handler check phase on a scratch copy of the state. Nothing
// is ever persisted.
func (r *Runner) CheckTx(txBytes []byte) (*barter.CheckResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.loadTx(txBytes)
	if err != nil {
		return nil, err
	}
	ctx := barter.WithLogInfo(r.baseContext,
		"call", "check_tx",
		"path", barter.GetPath(tx))

	cache := r.store.check.CacheWrap()
	defer cache.Discard()
	res, err := r.handler.Check(ctx, cache, tx)
	if err != nil {
		barter.GetLogger(ctx).Debug("check rejected", "code", errors.Code(err), "err", err)
		return nil, errors.Redact(err)
	}
	return res, nil
}

// DeliverTx executes the transaction. On success the state change is
// committed, on failure every write of the transaction is discarded.
func (r *Runner) DeliverTx(txBytes []byte) (*barter.DeliverResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.chainID == "" {
		return nil, errors.Wrap(errors.ErrInvalidState, "chain not initialized")
	}

	tx, err := r.loadTx(txBytes)
	if err != nil {
		return nil, err
	}
	ctx := barter.WithLogInfo(r.baseContext,
		"call", "deliver_tx",
		"path", barter.GetPath(tx))

	cache := r.store.deliver.CacheWrap()
	res, err := r.deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		barter.GetLogger(ctx).Debug("deliver rejected", "code", errors.Code(err), "err", err)
		return nil, errors.Redact(err)
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write transaction")
	}
	id, err := r.store.commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	barter.GetLogger(ctx).Debug("committed", "version", id.Version)
	return res, nil
}

func (r *Runner) deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (_ *barter.DeliverResult, err error) {
	defer errors.Recover(&err)
	return r.handler.Deliver(ctx, db, tx)
}

// loadTx calls the decoder, and capture any panics
func (r *Runner) loadTx(txBytes []byte) (tx barter.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = r.decoder(txBytes)
	if err != nil {
		return nil, errors.Wrap(err, "decode transaction")
	}
	return tx, nil
}

// Query gets data from the committed state. The handler registered for path
// interprets data, and its result is returned json encoded.
func (r *Runner) Query(path string, data []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	qh := r.queryRouter.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "query path %q, known paths are %s",
			path, strings.Join(r.queryRouter.Paths(), " "))
	}

	db := r.store.committed.CacheWrap()
	defer db.Discard()

	res, err := qh.Query(db, data)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return raw, nil
}

// Close releases the underlying database, if it holds one.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.store.committed.(interface{ Close() }); ok {
		c.Close()
	}
}
