package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string         `json:"chain_id"`
	AppState barter.Options `json:"app_state"`
}

// Validate makes sure the chain id is acceptable.
func (g Genesis) Validate() error {
	if !barter.IsValidChainID(g.ChainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id: %q", g.ChainID)
	}
	return nil
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrNotFound, "genesis file: %s", err)
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "genesis file: %s", err)
	}
	return gen, nil
}

// Save writes the genesis as indented json to filePath.
func (g Genesis) Save(filePath string) error {
	raw, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	if err := ioutil.WriteFile(filePath, raw, 0600); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
