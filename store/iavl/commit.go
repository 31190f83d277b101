/*
Package iavl persists the state in an iavl tree backed by goleveldb.

Transactions never touch the tree directly. They run on a cache wrap, which
is written into the working tree on success. Commit saves the working tree
as a new version.
*/
package iavl

import (
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// cacheSize is the number of tree nodes kept in memory.
const cacheSize = 10000

// CommitStore is a versioned store persisted in an iavl tree.
type CommitStore struct {
	tree *iavl.MutableTree
	db   dbm.DB
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore opens, or creates, the goleveldb database name in dir.
func NewCommitStore(dir, name string) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return CommitStore{}, errors.Wrapf(errors.ErrDatabase, "open %s/%s: %s", dir, name, err)
	}
	return CommitStore{tree: iavl.NewMutableTree(db, cacheSize), db: db}, nil
}

// NewMemCommitStore returns a store that is never written to disk.
func NewMemCommitStore() CommitStore {
	db := dbm.NewMemDB()
	return CommitStore{tree: iavl.NewMutableTree(db, cacheSize), db: db}
}

func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.Get(key)
	return val, nil
}

// CacheWrap stages changes over the working tree.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewCache(working{tree: s.tree})
}

func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{Version: version, Hash: hash}, nil
}

func (s CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{Version: s.tree.Version(), Hash: s.tree.Hash()}, nil
}

// Close releases the database. The store cannot be used afterwards.
func (s CommitStore) Close() {
	s.db.Close()
}

// working exposes the uncommitted tree as a KVStore.
type working struct {
	tree *iavl.MutableTree
}

var _ store.KVStore = working{}

func (w working) Get(key []byte) ([]byte, error) {
	_, val := w.tree.Get(key)
	return val, nil
}

func (w working) Has(key []byte) (bool, error) {
	return w.tree.Has(key), nil
}

func (w working) Set(key, value []byte) error {
	w.tree.Set(key, value)
	return nil
}

func (w working) Delete(key []byte) error {
	w.tree.Remove(key)
	return nil
}

func (w working) Iterator(start, end []byte) (store.Iterator, error) {
	var pairs [][2][]byte
	w.tree.IterateRange(start, end, true, func(key, value []byte) bool {
		pairs = append(pairs, [2][]byte{key, value})
		return false
	})
	return store.NewSliceIterator(pairs...), nil
}
