package barter

// ReadOnlyKVStore gives read access to the state.
type ReadOnlyKVStore interface {
	// Get returns the value stored under key, nil if there is none.
	Get(key []byte) ([]byte, error)

	// Has returns true if a value is stored under key.
	Has(key []byte) (bool, error)

	// Iterator returns the pairs with start <= key < end in ascending key
	// order. A nil start or end leaves that side of the range open.
	// The store must not be written while the iterator is in use.
	Iterator(start, end []byte) (Iterator, error)
}

// KVStore gives read and write access to the state.
type KVStore interface {
	ReadOnlyKVStore

	Set(key, value []byte) error
	Delete(key []byte) error
}

// Iterator walks over a range of key value pairs.
//
//	it, err := db.Iterator(start, end)
//	...
//	defer it.Close()
//	for ; it.Valid(); it.Next() {
//		use(it.Key(), it.Value())
//	}
type Iterator interface {
	// Valid is false once the iterator moved past the last pair.
	Valid() bool
	// Next moves to the following pair. It panics if the iterator is not
	// valid.
	Next()
	// Key and Value of the current pair. Both must be treated as read
	// only and panic if the iterator is not valid.
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore is a store that can stage writes in a cache.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap stages writes over another store. Reads through the cache see
// the staged writes. Write applies them to the store underneath, Discard
// drops them. A cache can itself be cache wrapped, which allows nested all
// or nothing sections.
type KVCacheWrap interface {
	CacheableKVStore

	Write() error
	Discard()
}

// CommitKVStore is a versioned store persisted to disk. Changes are staged
// in a cache wrap, written, and then made durable by Commit.
type CommitKVStore interface {
	// Get reads from the working state.
	Get(key []byte) ([]byte, error)

	CacheWrap() KVCacheWrap

	// Commit persists the working state as a new version.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the last version that was fully persisted.
	LoadLatestVersion() error

	LatestVersion() (CommitID, error)
}

// CommitID identifies a persisted version by its number and root hash.
type CommitID struct {
	Version int64
	Hash    []byte
}
