package orm

import (
	"bytes"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// Index maps values derived from objects back to the primary keys of the
// objects they were derived from.
type Index interface {
	loom.QueryHandler

	Name() string

	// Update must be called with the stored and the new version of an
	// object whenever the bucket writes it. A nil prev is an insert, a nil
	// save a delete. The primary key of both must match.
	Update(db loom.KVStore, prev Object, save Object) error

	// Refs returns the primary keys indexed under value, in key order.
	Refs(db loom.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

const indexPrefix = "_i."

// Indexer derives the index value of an object. A nil value leaves the
// object out of the index.
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer derives any number of index values of an object.
type MultiKeyIndexer func(Object) ([][]byte, error)

// refIndex stores one entry per index value. A unique index keeps the
// primary key itself as the entry, others a MultiRef.
type refIndex struct {
	name    string
	prefix  []byte
	unique  bool
	valueOf MultiKeyIndexer
	primary func([]byte) []byte
}

var _ Index = refIndex{}

// NewMultiKeyIndex builds an index named name. refKey turns a primary key
// into the db key of the object, it is only used by queries.
func NewMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool, refKey func([]byte) []byte) Index {
	return refIndex{
		name:    name,
		prefix:  []byte(indexPrefix + name + ":"),
		unique:  unique,
		valueOf: indexer,
		primary: refKey,
	}
}

// NewIndex is NewMultiKeyIndex for an indexer producing one value.
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return NewMultiKeyIndex(name, single(indexer), unique, refKey)
}

func single(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		v, err := indexer(obj)
		if err != nil || v == nil {
			return nil, err
		}
		return [][]byte{v}, nil
	}
}

func (i refIndex) Name() string {
	return i.name
}

func (i refIndex) dbKey(value []byte) []byte {
	key := make([]byte, 0, len(i.prefix)+len(value))
	key = append(key, i.prefix...)
	return append(key, value...)
}

// values returns the non empty index values of obj.
func (i refIndex) values(obj Object) ([][]byte, error) {
	if obj == nil {
		return nil, nil
	}
	all, err := i.valueOf(obj)
	if err != nil {
		return nil, err
	}
	res := all[:0:0]
	for _, v := range all {
		if len(v) != 0 {
			res = append(res, v)
		}
	}
	return res, nil
}

func (i refIndex) Update(db loom.KVStore, prev Object, save Object) error {
	var pk []byte
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "index update without objects")
	case prev == nil:
		pk = save.Key()
	case save != nil && !bytes.Equal(prev.Key(), save.Key()):
		return errors.Wrap(errors.ErrInput, "primary key cannot change")
	default:
		pk = prev.Key()
	}

	before, err := i.values(prev)
	if err != nil {
		return err
	}
	after, err := i.values(save)
	if err != nil {
		return err
	}
	added, dropped := without(after, before), without(before, after)

	// nothing is written unless every new value is free
	if i.unique {
		for _, v := range added {
			taken, err := db.Has(i.dbKey(v))
			if err != nil {
				return err
			}
			if taken {
				return errors.Wrap(errors.ErrDuplicate, i.name)
			}
		}
	}
	for _, v := range dropped {
		if err := i.unlink(db, v, pk); err != nil {
			return err
		}
	}
	for _, v := range added {
		if err := i.link(db, v, pk); err != nil {
			return err
		}
	}
	return nil
}

func (i refIndex) link(db loom.KVStore, value, pk []byte) error {
	key := i.dbKey(value)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if i.unique {
		if cur != nil {
			return errors.Wrap(errors.ErrDuplicate, i.name)
		}
		return db.Set(key, pk)
	}
	refs, err := decodeMultiRef(cur)
	if err != nil {
		return err
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	return storeRefs(db, key, refs)
}

func (i refIndex) unlink(db loom.KVStore, value, pk []byte) error {
	key := i.dbKey(value)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s has no entry %X", i.name, value)
	}
	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrNotFound, "%s entry %X belongs to another object", i.name, value)
		}
		return db.Delete(key)
	}
	refs, err := decodeMultiRef(cur)
	if err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	return storeRefs(db, key, refs)
}

func (i refIndex) Refs(db loom.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.dbKey(value))
	if err != nil {
		return nil, err
	}
	return i.decode(raw)
}

func (i refIndex) decode(raw []byte) ([][]byte, error) {
	switch {
	case raw == nil:
		return nil, nil
	case i.unique:
		return [][]byte{raw}, nil
	}
	refs, err := decodeMultiRef(raw)
	if err != nil {
		return nil, errors.Wrap(err, "index refs")
	}
	return refs.Refs, nil
}

// Query resolves index entries to the objects they reference. Returned
// models carry the object db key and value.
func (i refIndex) Query(db loom.ReadOnlyKVStore, mod string, data []byte) ([]loom.Model, error) {
	var entries []loom.Model
	switch mod {
	case loom.KeyQueryMod:
		raw, err := db.Get(i.dbKey(data))
		if err != nil {
			return nil, err
		}
		if raw != nil {
			entries = append(entries, loom.Pair(nil, raw))
		}
	case loom.PrefixQueryMod:
		var err error
		if entries, err = queryPrefix(db, i.dbKey(data)); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}

	var res []loom.Model
	for _, e := range entries {
		refs, err := i.decode(e.Value)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			key := i.primary(ref)
			value, err := db.Get(key)
			if err != nil {
				return nil, err
			}
			res = append(res, loom.Pair(key, value))
		}
	}
	return res, nil
}

func decodeMultiRef(raw []byte) (*MultiRef, error) {
	refs := new(MultiRef)
	if raw == nil {
		return refs, nil
	}
	if err := refs.Unmarshal(raw); err != nil {
		return nil, err
	}
	return refs, nil
}

// storeRefs writes refs under key, dropping the entry once it is empty.
func storeRefs(db loom.KVStore, key []byte, refs *MultiRef) error {
	if refs.Size() == 0 {
		return db.Delete(key)
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}

// without returns the values of from missing in other.
func without(from, other [][]byte) [][]byte {
	var res [][]byte
	for _, v := range from {
		found := false
		for _, o := range other {
			if bytes.Equal(v, o) {
				found = true
				break
			}
		}
		if !found {
			res = append(res, v)
		}
	}
	return res
}
