package store

import "github.com/iov-one/barter"

type (
	ReadOnlyKVStore  = barter.ReadOnlyKVStore
	KVStore          = barter.KVStore
	Iterator         = barter.Iterator
	CacheableKVStore = barter.CacheableKVStore
	KVCacheWrap      = barter.KVCacheWrap
	CommitKVStore    = barter.CommitKVStore
	CommitID         = barter.CommitID
)
