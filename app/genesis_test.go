package app

import (
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dummyKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(opts barter.Options, kv barter.KVStore) error {
	var value string
	if err := opts.ReadOptions(dummyKey, &value); err != nil {
		return err
	}
	return kv.Set([]byte(dummyKey), []byte(value))
}

type countInit struct {
	called int
}

func (c *countInit) FromGenesis(opts barter.Options, kv barter.KVStore) error {
	c.called++
	return nil
}

func TestLoadAndInitGenesis(t *testing.T) {
	cases := map[string]struct {
		file      string
		wantLoad  bool
		wantInit  bool
		chainID   string
		initCalls int
		stored    []byte
	}{
		"missing file": {
			file: "bad_file.json",
		},
		"valid genesis": {
			file:      "testdata/genesis.json",
			wantLoad:  true,
			wantInit:  true,
			chainID:   "test-chain-67",
			initCalls: 1,
			stored:    []byte("secret"),
		},
		"app state rejected": {
			file:     "testdata/bad_genesis.json",
			wantLoad: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			gen, err := LoadGenesis(tc.file)
			if !tc.wantLoad {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			counter := new(countInit)
			r, err := NewRunner(iavl.NewMemCommitStore(), nil, NewRouter(), barter.NewQueryRouter())
			require.NoError(t, err)
			assert.Equal(t, "", r.GetChainID())

			err = r.InitChain(gen, barter.ChainInitializers(dummyInit{}, counter))
			assert.Equal(t, tc.wantInit, err == nil, "%+v", err)
			assert.Equal(t, tc.chainID, r.GetChainID())
			assert.Equal(t, tc.initCalls, counter.called)

			// a failed genesis leaves nothing staged
			val, err := r.store.deliver.Get([]byte(dummyKey))
			require.NoError(t, err)
			assert.Equal(t, tc.stored, val)
		})
	}
}

func TestInitChainOnce(t *testing.T) {
	r, err := NewRunner(iavl.NewMemCommitStore(), nil, NewRouter(), barter.NewQueryRouter())
	require.NoError(t, err)

	err = r.InitChain(Genesis{ChainID: "bad"}, barter.ChainInitializers())
	assert.True(t, errors.ErrInvalidInput.Is(err))

	gen := Genesis{ChainID: "barter-test"}
	require.NoError(t, r.InitChain(gen, barter.ChainInitializers()))
	err = r.InitChain(gen, barter.ChainInitializers())
	assert.True(t, errors.ErrAlreadyExists.Is(err))
}

func TestGenesisSave(t *testing.T) {
	gen, err := LoadGenesis("testdata/genesis.json")
	require.NoError(t, err)

	path := t.TempDir() + "/genesis.json"
	require.NoError(t, gen.Save(path))
	loaded, err := LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, gen.ChainID, loaded.ChainID)
	assert.JSONEq(t, string(gen.AppState[dummyKey]), string(loaded.AppState[dummyKey]))
}
