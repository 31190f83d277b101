package orm

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"regexp"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Model is impelemented by any entity that can be stored using ModelBucket.
type Model interface {
	barter.Persistent
	Validate() error
}

// Indexer calculates the secondary index key for a given model. Returning a
// nil key means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// ModelBucket is implemented by buckets that operates on Models.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db barter.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if an entity with given key exists.
	Has(db barter.ReadOnlyKVStore, key []byte) (bool, error)

	// Put saves given model in the database, overwriting any previous
	// value. It returns the number of bytes stored.
	Put(db barter.KVStore, key []byte, m Model) (int, error)

	// Create saves given model in the database. It returns
	// ErrAlreadyExists if an entity with given key exists.
	Create(db barter.KVStore, key []byte, m Model) (int, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist,
	// otherwise the number of bytes released.
	Delete(db barter.KVStore, key []byte) (int, error)

	// IndexKeys returns the primary keys of all entities indexed under
	// value in the named index, in ascending order.
	IndexKeys(db barter.ReadOnlyKVStore, index string, value []byte) ([][]byte, error)
}

// isBucketName is used to verify bucket and index names.
var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// BucketOption configures a model bucket.
type BucketOption func(*modelBucket)

// WithIndex maintains a secondary index called name, calculated with fn.
func WithIndex(name string, fn Indexer) BucketOption {
	if !isBucketName(name) {
		panic("illegal index name: " + name)
	}
	return func(b *modelBucket) {
		b.indexes = append(b.indexes, index{name: name, fn: fn})
	}
}

// NewModelBucket returns a ModelBucket storing instances of the same type as
// example under the prefix "name:". Index entries are stored under
// "_i.name_index:".
func NewModelBucket(name string, example Model, opts ...BucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("illegal bucket name: " + name)
	}
	t := reflect.TypeOf(example)
	if t.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	b := &modelBucket{
		name:   name,
		prefix: []byte(name + ":"),
		model:  t.Elem(),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes []index
}

var _ ModelBucket = (*modelBucket)(nil)

type index struct {
	name string
	fn   Indexer
}

func (ix index) prefix(bucket string) []byte {
	return []byte("_i." + bucket + "_" + ix.name + ":")
}

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append([]byte(nil), mb.prefix...), key...)
}

func (mb *modelBucket) One(db barter.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be represented as %s", dest, mb.model)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "get")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal %s", mb.name)
	}
	return nil
}

func (mb *modelBucket) Has(db barter.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return false, errors.Wrap(err, "has")
	}
	return ok, nil
}

func (mb *modelBucket) Create(db barter.KVStore, key []byte, m Model) (int, error) {
	exists, err := mb.Has(db, key)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, errors.Wrapf(errors.ErrAlreadyExists, "%s %X", mb.name, key)
	}
	return mb.Put(db, key, m)
}

func (mb *modelBucket) Put(db barter.KVStore, key []byte, m Model) (int, error) {
	if len(key) == 0 {
		return 0, errors.Wrap(errors.ErrInvalidInput, "empty key")
	}
	if reflect.TypeOf(m) != reflect.PtrTo(mb.model) {
		return 0, errors.Wrapf(errors.ErrInvalidType, "%T cannot be stored as %s", m, mb.model)
	}
	if err := m.Validate(); err != nil {
		return 0, errors.Wrap(err, "invalid model")
	}
	if len(mb.indexes) > 0 {
		old, err := mb.load(db, key)
		if err != nil {
			return 0, err
		}
		if err := mb.updateIndexes(db, key, old, m); err != nil {
			return 0, err
		}
	}
	raw, err := m.Marshal()
	if err != nil {
		return 0, errors.Wrap(err, "marshal")
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return 0, errors.Wrap(err, "cannot store in the database")
	}
	return len(raw), nil
}

func (mb *modelBucket) Delete(db barter.KVStore, key []byte) (int, error) {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return 0, errors.Wrap(err, "get")
	}
	if raw == nil {
		return 0, errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	if len(mb.indexes) > 0 {
		old, err := mb.load(db, key)
		if err != nil {
			return 0, err
		}
		if err := mb.updateIndexes(db, key, old, nil); err != nil {
			return 0, err
		}
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return 0, errors.Wrap(err, "delete")
	}
	return len(raw), nil
}

func (mb *modelBucket) IndexKeys(db barter.ReadOnlyKVStore, name string, value []byte) ([][]byte, error) {
	ix, ok := mb.index(name)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "no index %q in %s", name, mb.name)
	}
	start := indexValuePrefix(ix.prefix(mb.name), value)
	it, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, errors.Wrap(err, "iterator")
	}
	defer it.Close()

	var keys [][]byte
	for ; it.Valid(); it.Next() {
		keys = append(keys, append([]byte(nil), it.Key()[len(start):]...))
	}
	return keys, nil
}

func (mb *modelBucket) index(name string) (index, bool) {
	for _, ix := range mb.indexes {
		if ix.name == name {
			return ix, true
		}
	}
	return index{}, false
}

// load returns the currently stored model or nil.
func (mb *modelBucket) load(db barter.ReadOnlyKVStore, key []byte) (Model, error) {
	m := reflect.New(mb.model).Interface().(Model)
	switch err := mb.One(db, key, m); {
	case err == nil:
		return m, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

func (mb *modelBucket) updateIndexes(db barter.KVStore, key []byte, prev, next Model) error {
	for _, ix := range mb.indexes {
		var before, after []byte
		var err error
		if prev != nil {
			if before, err = ix.fn(prev); err != nil {
				return errors.Wrapf(err, "index %s", ix.name)
			}
		}
		if next != nil {
			if after, err = ix.fn(next); err != nil {
				return errors.Wrapf(err, "index %s", ix.name)
			}
		}
		if before != nil && bytes.Equal(before, after) {
			continue
		}
		if before != nil {
			if err := db.Delete(indexKey(ix.prefix(mb.name), before, key)); err != nil {
				return errors.Wrap(err, "remove index")
			}
		}
		if after != nil {
			if err := db.Set(indexKey(ix.prefix(mb.name), after, key), []byte{}); err != nil {
				return errors.Wrap(err, "add index")
			}
		}
	}
	return nil
}

// indexKey is prefix | len(value) | value | key. The length keeps the
// value boundary, so that a lookup never matches a longer or shorter value.
func indexKey(prefix, value, key []byte) []byte {
	return append(indexValuePrefix(prefix, value), key...)
}

func indexValuePrefix(prefix, value []byte) []byte {
	res := make([]byte, len(prefix)+4, len(prefix)+4+len(value))
	copy(res, prefix)
	binary.BigEndian.PutUint32(res[len(prefix):], uint32(len(value)))
	return append(res, value...)
}

// prefixEnd returns the first key that does not start with prefix, or nil
// when there is no such key.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
