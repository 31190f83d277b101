package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/app"
	bapp "github.com/iov-one/barter/cmd/barter/app"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/x/ledger"
	"github.com/iov-one/barter/x/sigs"
	"golang.org/x/crypto/ed25519"
)

// openRunner loads the configuration from home and opens the application
// database. The returned runner must be closed.
func openRunner(home string) (*app.Runner, *Config, error) {
	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	r, err := bapp.Application(cfg.DatabasePath(home), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open database: %s", err)
	}
	return r, cfg, nil
}

// decodePrivateKey reads a private key file written by keygen.
func decodePrivateKey(path string) (crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}
	return crypto.PrivateKey(raw), nil
}

// query runs the query and decodes its json result into dest.
func query(r *app.Runner, path string, data []byte, dest interface{}) error {
	raw, err := r.Query(path, data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// resolveAsset returns the registered asset type with given ticker.
func resolveAsset(r *app.Runner, ticker string) (ledger.Asset, error) {
	var a ledger.Asset
	if err := query(r, "/assets", []byte(ticker), &a); err != nil {
		return a, fmt.Errorf("asset %q: %s", ticker, err)
	}
	return a, nil
}

// submit signs msg with the key and delivers it. Check runs first so that
// a failing transaction never touches the deliver state.
func submit(r *app.Runner, key crypto.PrivateKey, msg barter.Msg) (*barter.DeliverResult, error) {
	var user sigs.UserData
	if err := query(r, "/auth", key.PublicKey(), &user); err != nil {
		return nil, err
	}
	tx := &bapp.Tx{Msg: msg}
	if err := tx.Sign(key, r.GetChainID(), user.Sequence); err != nil {
		return nil, fmt.Errorf("cannot sign transaction: %s", err)
	}
	raw, err := tx.Marshal()
	if err != nil {
		return nil, fmt.Errorf("cannot serialize transaction: %s", err)
	}
	if _, err := r.CheckTx(raw); err != nil {
		return nil, err
	}
	return r.DeliverTx(raw)
}

// printJSON writes v as indented json.
func printJSON(out io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}
