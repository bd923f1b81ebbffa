package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/loom/errors"
)

// collectRange returns a snapshot of all btree items within [start, end),
// in iteration order. Iterating over a snapshot keeps the iterator valid
// even if the cache is written to while it is in use.
func collectRange(bt *btree.BTree, start, end []byte, reverse bool) []cached {
	var items []cached

	if !reverse {
		visit := func(i btree.Item) bool {
			k := i.(cached)
			if end != nil && bytes.Compare(k.key, end) >= 0 {
				return false
			}
			items = append(items, k)
			return true
		}
		if start == nil {
			bt.Ascend(visit)
		} else {
			bt.AscendGreaterOrEqual(cached{key: start}, visit)
		}
		return items
	}

	visit := func(i btree.Item) bool {
		k := i.(cached)
		if start != nil && bytes.Compare(k.key, start) < 0 {
			return false
		}
		// End is exclusive.
		if end != nil && bytes.Equal(k.key, end) {
			return true
		}
		items = append(items, k)
		return true
	}
	if end == nil {
		bt.Descend(visit)
	} else {
		bt.DescendLessOrEqual(cached{key: end}, visit)
	}
	return items
}

// mergeIterator combines the cached items with the iterator of the parent
// store. Cached values shadow the parent, cached deletes hide it.
type mergeIterator struct {
	local   []cached
	pos     int
	reverse bool

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool
	peeked     bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(local []cached, parent Iterator, reverse bool) *mergeIterator {
	return &mergeIterator{
		local:   local,
		reverse: reverse,
		parent:  parent,
	}
}

func (m *mergeIterator) peekParent() error {
	if m.peeked || m.parentDone {
		return nil
	}
	k, v, err := m.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		m.parentDone = true
		return nil
	}
	if err != nil {
		return err
	}
	m.parentKey, m.parentVal, m.peeked = k, v, true
	return nil
}

// compare orders keys in the direction of iteration.
func (m *mergeIterator) compare(a, b []byte) int {
	c := bytes.Compare(a, b)
	if m.reverse {
		return -c
	}
	return c
}

func (m *mergeIterator) Next() (key, value []byte, err error) {
	for {
		if err := m.peekParent(); err != nil {
			return nil, nil, err
		}
		hasLocal := m.pos < len(m.local)

		switch {
		case !hasLocal && !m.peeked:
			return nil, nil, errors.ErrIteratorDone
		case !hasLocal:
			m.peeked = false
			return m.parentKey, m.parentVal, nil
		}

		item := m.local[m.pos]
		if m.peeked {
			switch c := m.compare(item.key, m.parentKey); {
			case c > 0:
				m.peeked = false
				return m.parentKey, m.parentVal, nil
			case c == 0:
				// Cache shadows the parent value.
				m.peeked = false
			}
		}

		m.pos++
		if !item.deleted {
			return item.key, item.value, nil
		}
	}
}

func (m *mergeIterator) Release() {
	m.parent.Release()
	m.local = nil
}
