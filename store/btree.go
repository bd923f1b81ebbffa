package store

import (
	"bytes"

	"github.com/google/btree"
)

// DefaultFreeListSize is the number of btree nodes kept for reuse when no
// free list is shared.
const DefaultFreeListSize = btree.DefaultFreeListSize

// MemStore returns an empty in-memory store without persistence.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap keeps pending writes in a btree over a read only parent.
// Reads see the pending writes first. Write replays them into batch.
type BTreeCacheWrap struct {
	pending *btree.BTree
	free    *btree.FreeList
	parent  ReadOnlyKVStore
	batch   Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap caches writes to parent until they are flushed into
// batch. Layers may share free to recycle btree nodes, nil allocates a new
// list.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		pending: btree.NewWithFreeList(2, free),
		free:    free,
		parent:  parent,
		batch:   batch,
	}
}

// CacheWrap opens a layer whose writes land in this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the pending writes and empties the layer.
func (b BTreeCacheWrap) Write() error {
	defer b.Discard()
	return b.batch.Write()
}

// Discard drops the pending writes. The batch is left as is and must not
// be written afterwards.
func (b BTreeCacheWrap) Discard() {
	for b.pending.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.pending.ReplaceOrInsert(cached{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.pending.ReplaceOrInsert(cached{key: key, deleted: true})
	return b.batch.Delete(key)
}

// lookup returns the pending write for key, if any.
func (b BTreeCacheWrap) lookup(key []byte) (cached, bool) {
	item := b.pending.Get(cached{key: key})
	if item == nil {
		return cached{}, false
	}
	return item.(cached), true
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	c, ok := b.lookup(key)
	if !ok {
		return b.parent.Get(key)
	}
	if c.deleted {
		return nil, nil
	}
	return c.value, nil
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	c, ok := b.lookup(key)
	if !ok {
		return b.parent.Has(key)
	}
	return !c.deleted, nil
}

// Iterator walks [start, end) in ascending order over the parent with the
// pending writes applied.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	return b.merged(start, end, false)
}

// ReverseIterator is Iterator in descending order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	return b.merged(start, end, true)
}

func (b BTreeCacheWrap) merged(start, end []byte, reverse bool) (Iterator, error) {
	var (
		parent Iterator
		err    error
	)
	if reverse {
		parent, err = b.parent.ReverseIterator(start, end)
	} else {
		parent, err = b.parent.Iterator(start, end)
	}
	if err != nil {
		return nil, err
	}
	return newMergeIterator(collectRange(b.pending, start, end, reverse), parent, reverse), nil
}

// cached is a pending write. Lookups build one with only the key set.
type cached struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = cached{}

func (c cached) Less(than btree.Item) bool {
	return bytes.Compare(c.key, than.(cached).key) < 0
}
