/*
Package app links together all the various components
to construct the barter application.
*/
package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/app"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store/iavl"
	"github.com/iov-one/barter/x"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/ledger"
	"github.com/iov-one/barter/x/sigs"
	"github.com/iov-one/barter/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		// a failing message never leaves partial writes behind
		utils.NewSavepoint(),
	)
}

// Router returns a router dispatching all escrow messages.
func Router(authFn x.Authenticator, bank ledger.Controller) *app.Router {
	r := app.NewRouter()
	escrow.RegisterRoutes(r, authFn, bank)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/auth", "/accounts", "/accounts/owner", "/escrows"
// and "/escrows/maker"
func QueryRouter(bank ledger.Controller) barter.QueryRouter {
	r := barter.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		ledger.RegisterQuery,
		func(qr barter.QueryRouter) { escrow.RegisterQuery(qr, bank) },
	)
	return r
}

// Initializer loads every extension from the genesis app state.
func Initializer() barter.Initializer {
	return barter.ChainInitializers(ledger.Initializer{})
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into the Runner.
func Stack(bank ledger.Controller) barter.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn, bank))
}

// Application constructs the runner over the store persisted at dbPath.
// An empty dbPath keeps all state in memory.
func Application(dbPath string, logger log.Logger) (*app.Runner, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	bank := ledger.NewController()
	r, err := app.NewRunner(kv, TxDecoder, Stack(bank), QueryRouter(bank))
	if err != nil {
		return nil, err
	}
	return r.WithLogger(logger), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (barter.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	kv, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, err
	}
	return kv, nil
}
