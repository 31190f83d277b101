package store

import (
	"bytes"

	"github.com/google/btree"
)

// cacheDegree is the btree degree of a cache. Caches live for a single
// transaction, so they stay small.
const cacheDegree = 8

// Cache stages writes in a btree on top of a parent store.
type Cache struct {
	parent KVStore
	staged *btree.BTree
}

var _ KVCacheWrap = (*Cache)(nil)

// NewCache returns an empty cache over parent. A nil parent makes a
// standalone in memory store, which cannot be written anywhere.
func NewCache(parent KVStore) *Cache {
	return &Cache{parent: parent, staged: btree.New(cacheDegree)}
}

// MemStore returns an in memory store, mostly useful in tests.
func MemStore() CacheableKVStore {
	return NewCache(nil)
}

// CacheWrap stages writes on top of this cache.
func (c *Cache) CacheWrap() KVCacheWrap {
	return NewCache(c)
}

// Write applies all staged changes to the parent in key order and empties
// the cache.
func (c *Cache) Write() error {
	if c.parent == nil {
		return nil
	}
	var err error
	c.staged.Ascend(func(i btree.Item) bool {
		e := i.(entry)
		if e.deleted {
			err = c.parent.Delete(e.key)
		} else {
			err = c.parent.Set(e.key, e.value)
		}
		return err == nil
	})
	c.Discard()
	return err
}

// Discard drops all staged changes.
func (c *Cache) Discard() {
	c.staged = btree.New(cacheDegree)
}

func (c *Cache) Set(key, value []byte) error {
	c.staged.ReplaceOrInsert(entry{key: key, value: value})
	return nil
}

func (c *Cache) Delete(key []byte) error {
	c.staged.ReplaceOrInsert(entry{key: key, deleted: true})
	return nil
}

func (c *Cache) Get(key []byte) ([]byte, error) {
	if e, ok := c.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	if c.parent == nil {
		return nil, nil
	}
	return c.parent.Get(key)
}

func (c *Cache) Has(key []byte) (bool, error) {
	if e, ok := c.lookup(key); ok {
		return !e.deleted, nil
	}
	if c.parent == nil {
		return false, nil
	}
	return c.parent.Has(key)
}

func (c *Cache) lookup(key []byte) (entry, bool) {
	i := c.staged.Get(entry{key: key})
	if i == nil {
		return entry{}, false
	}
	return i.(entry), true
}

// Iterator merges the staged changes with the parent content. The result
// is collected upfront, so writing to the cache while iterating is safe.
func (c *Cache) Iterator(start, end []byte) (Iterator, error) {
	var staged []entry
	ascendRange(c.staged, start, end, func(i btree.Item) bool {
		staged = append(staged, i.(entry))
		return true
	})

	var parent []entry
	if c.parent != nil {
		it, err := c.parent.Iterator(start, end)
		if err != nil {
			return nil, err
		}
		for ; it.Valid(); it.Next() {
			parent = append(parent, entry{key: it.Key(), value: it.Value()})
		}
		it.Close()
	}
	return &sliceIterator{entries: merge(parent, staged)}, nil
}

// merge returns the live entries of both sorted lists. A staged entry
// replaces the parent entry with the same key.
func merge(parent, staged []entry) []entry {
	res := make([]entry, 0, len(parent)+len(staged))
	for len(parent) > 0 || len(staged) > 0 {
		var next entry
		switch {
		case len(staged) == 0:
			next, parent = parent[0], parent[1:]
		case len(parent) == 0:
			next, staged = staged[0], staged[1:]
		default:
			switch cmp := bytes.Compare(parent[0].key, staged[0].key); {
			case cmp < 0:
				next, parent = parent[0], parent[1:]
			case cmp > 0:
				next, staged = staged[0], staged[1:]
			default:
				next, parent, staged = staged[0], parent[1:], staged[1:]
			}
		}
		if !next.deleted {
			res = append(res, next)
		}
	}
	return res
}

func ascendRange(bt *btree.BTree, start, end []byte, fn btree.ItemIterator) {
	switch {
	case start == nil && end == nil:
		bt.Ascend(fn)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, fn)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, fn)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, fn)
	}
}

// entry is a staged change. Entries are ordered by key.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
