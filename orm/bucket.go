/*
Package orm stores typed objects in prefixed regions of a key value store.

Every Bucket owns the keys starting with its name and holds one kind of
object. Secondary indexes registered on a bucket are kept in sync on every
Save and Delete and can be queried like the bucket itself.
*/
package orm

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

var validBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket reads and writes objects cloned from proto under the prefix
// "<name>:". Programs wrap it in a bucket of their own type.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Cloneable
	indexes map[string]Index
}

var _ loom.QueryHandler = Bucket{}

// NewBucket panics on a name that is not 3 to 10 lowercase letters or
// underscores.
func NewBucket(name string, proto Cloneable) Bucket {
	if !validBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{
		name:   name,
		prefix: []byte(name + ":"),
		proto:  proto,
	}
}

func (b Bucket) Name() string {
	return b.name
}

// Register exposes the bucket under "/<path>" and each index under
// "/<path>/<index>". An empty path uses the bucket name.
func (b Bucket) Register(path string, r loom.QueryRouter) {
	if path == "" {
		path = b.name
	}
	root := "/" + path
	r.Register(root, b)
	for name, idx := range b.indexes {
		r.Register(root+"/"+name, idx)
	}
}

// Query answers key lookups and prefix scans over the bucket. A missing
// key yields no models.
func (b Bucket) Query(db loom.ReadOnlyKVStore, mod string, data []byte) ([]loom.Model, error) {
	if mod == loom.PrefixQueryMod {
		return queryPrefix(db, b.DBKey(data))
	}
	if mod != loom.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	key := b.DBKey(data)
	value, err := db.Get(key)
	if err != nil || value == nil {
		return nil, err
	}
	return []loom.Model{loom.Pair(key, value)}, nil
}

// DBKey returns a fresh slice holding the prefixed key.
func (b Bucket) DBKey(key []byte) []byte {
	res := make([]byte, 0, len(b.prefix)+len(key))
	res = append(res, b.prefix...)
	return append(res, key...)
}

// Get returns nil without an error when nothing is stored under key.
func (b Bucket) Get(db loom.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	return b.Parse(key, raw)
}

// Parse decodes a stored value into a new object keyed by key.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, err
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates obj, updates the indexes and writes it. Index conflicts
// abort before the object is written.
func (b Bucket) Save(db loom.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.reindex(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

// Delete removes the object and its index entries. Deleting a missing key
// is not an error.
func (b Bucket) Delete(db loom.KVStore, key []byte) error {
	if err := b.reindex(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// reindex moves the index entries of the object stored under key to those
// of next. Indexes are visited by name so writes happen in a fixed order.
func (b Bucket) reindex(db loom.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	stored, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if stored == nil && next == nil {
		return nil
	}
	names := make([]string, 0, len(b.indexes))
	for name := range b.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := b.indexes[name].Update(db, stored, next); err != nil {
			return err
		}
	}
	return nil
}

// WithIndex returns a copy of the bucket with one more index. It panics if
// the name is taken.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	return b.WithMultiKeyIndex(name, single(indexer), unique)
}

// WithMultiKeyIndex is WithIndex for an indexer producing many values.
func (b Bucket) WithMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("index %q already registered on %s", name, b.name))
	}
	indexes := map[string]Index{
		name: NewMultiKeyIndex(b.name+"_"+name, indexer, unique, b.DBKey),
	}
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	b.indexes = indexes
	return b
}

// GetIndexed loads every object indexed under value by the named index.
func (b Bucket) GetIndexed(db loom.ReadOnlyKVStore, name string, value []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, name)
	}
	refs, err := idx.Refs(db, value)
	if err != nil || len(refs) == 0 {
		return nil, err
	}
	objs := make([]Object, 0, len(refs))
	for _, key := range refs {
		obj, err := b.Get(db, key)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
