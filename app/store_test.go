package app

import (
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store/iavl"
	"github.com/iov-one/barter/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRunner(t *testing.T) *Runner {
	t.Helper()

	r := NewRouter()
	r.Handle("ok", &weavetest.Handler{StoreKey: []byte("ok"), StoreValue: []byte("1")})
	r.Handle("fail", &weavetest.Handler{
		StoreKey:   []byte("fail"),
		StoreValue: []byte("1"),
		CheckErr:   errors.ErrInvalidState,
		DeliverErr: errors.ErrInvalidState,
	})
	r.Handle("panic", &weavetest.Handler{StoreKey: []byte("panic"), StoreValue: []byte("1"), Panic: "boom"})

	qr := barter.NewQueryRouter()
	qr.Register("/get", barter.QueryFunc(func(db barter.ReadOnlyKVStore, key []byte) (interface{}, error) {
		v, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		return string(v), nil
	}))

	decoder := func(raw []byte) (barter.Tx, error) {
		if len(raw) == 0 {
			return nil, errors.Wrap(errors.ErrInvalidInput, "empty")
		}
		return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: string(raw)}}, nil
	}

	runner, err := NewRunner(iavl.NewMemCommitStore(), decoder, r, qr)
	require.NoError(t, err)
	require.NoError(t, runner.InitChain(Genesis{ChainID: "runner-test"}, barter.ChainInitializers()))
	return runner
}

func TestRunnerDeliver(t *testing.T) {
	r := testRunner(t)
	before, err := r.CommitInfo()
	require.NoError(t, err)

	_, err = r.DeliverTx([]byte("ok"))
	require.NoError(t, err)
	after, err := r.CommitInfo()
	require.NoError(t, err)
	assert.Equal(t, before.Version+1, after.Version)

	res, err := r.Query("/get", []byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, `"1"`, string(res))

	// failures leave no trace and create no version
	_, err = r.DeliverTx([]byte("fail"))
	assert.True(t, errors.ErrInvalidState.Is(err))
	_, err = r.DeliverTx([]byte("panic"))
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = r.DeliverTx([]byte("unknown"))
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.DeliverTx(nil)
	assert.True(t, errors.ErrInvalidInput.Is(err))

	for _, key := range []string{"fail", "panic"} {
		res, err := r.Query("/get", []byte(key))
		require.NoError(t, err)
		assert.Equal(t, `""`, string(res), key)
	}
	last, err := r.CommitInfo()
	require.NoError(t, err)
	assert.Equal(t, after, last)
}

func TestRunnerCheckDoesNotWrite(t *testing.T) {
	r := testRunner(t)

	_, err := r.CheckTx([]byte("ok"))
	require.NoError(t, err)
	_, err = r.CheckTx([]byte("fail"))
	assert.True(t, errors.ErrInvalidState.Is(err))

	res, err := r.Query("/get", []byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, `""`, string(res))
}

func TestRunnerRequiresChain(t *testing.T) {
	r, err := NewRunner(iavl.NewMemCommitStore(), nil, NewRouter(), barter.NewQueryRouter())
	require.NoError(t, err)
	_, err = r.DeliverTx([]byte("ok"))
	assert.True(t, errors.ErrInvalidState.Is(err))

	_, err = r.Query("/missing", nil)
	assert.True(t, errors.ErrNotFound.Is(err))
}
