package store

import (
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest/assert"
)

// StoreFactory returns an empty store and a function releasing its
// resources.
type StoreFactory func() (CacheableKVStore, func())

// RunSuite checks the behaviour shared by every CacheableKVStore: reads
// through cache layers, write and discard of a layer, and ordered iteration
// over a layer merged with its parent.
//
// Implementations call it from their own tests, so btree and iavl stores
// are held to the same contract.
func RunSuite(t *testing.T, factory StoreFactory) {
	t.Run("layers", func(t *testing.T) { checkLayers(t, factory) })
	t.Run("shadowing", func(t *testing.T) { checkShadowing(t, factory) })
	t.Run("iteration", func(t *testing.T) { checkIteration(t, factory) })
}

func checkLayers(t *testing.T, factory StoreFactory) {
	base, release := factory()
	defer release()

	alice, bob, carol := []byte("alice"), []byte("bob"), []byte("carol")

	expectEntry(t, base, alice, nil)
	assert.Nil(t, base.Set(alice, []byte("100")))
	expectEntry(t, base, alice, []byte("100"))

	tx := base.CacheWrap()
	expectEntry(t, tx, alice, []byte("100"))
	assert.Nil(t, tx.Set(bob, []byte("5")))
	expectEntry(t, tx, bob, []byte("5"))
	expectEntry(t, base, bob, nil)

	assert.Nil(t, tx.Write())
	expectEntry(t, base, bob, []byte("5"))

	failed := base.CacheWrap()
	assert.Nil(t, failed.Set(carol, []byte("7")))
	assert.Nil(t, failed.Delete(alice))
	failed.Discard()
	expectEntry(t, base, carol, nil)
	expectEntry(t, base, alice, []byte("100"))

	// a layer opened before a sibling writes reads through to the base
	stale := base.CacheWrap()
	closing := base.CacheWrap()
	assert.Nil(t, closing.Delete(alice))
	assert.Nil(t, closing.Write())
	expectEntry(t, stale, alice, nil)
	expectEntry(t, stale, bob, []byte("5"))
}

func checkShadowing(t *testing.T, factory StoreFactory) {
	cases := map[string]struct {
		base   []Op
		layer  []Op
		before map[string]string
		after  map[string]string
	}{
		"overwrite": {
			base:   []Op{SetOp([]byte("a"), []byte("1"))},
			layer:  []Op{SetOp([]byte("a"), []byte("2"))},
			before: map[string]string{"a": "1"},
			after:  map[string]string{"a": "2"},
		},
		"delete existing": {
			base:   []Op{SetOp([]byte("a"), []byte("1")), SetOp([]byte("b"), []byte("1"))},
			layer:  []Op{DelOp([]byte("a"))},
			before: map[string]string{"a": "1", "b": "1"},
			after:  map[string]string{"a": "", "b": "1"},
		},
		"set then delete": {
			layer: []Op{SetOp([]byte("c"), []byte("3")), DelOp([]byte("c"))},
			after: map[string]string{"c": ""},
		},
		"delete then set": {
			base:   []Op{SetOp([]byte("c"), []byte("3"))},
			layer:  []Op{DelOp([]byte("c")), SetOp([]byte("c"), []byte("4"))},
			before: map[string]string{"c": "3"},
			after:  map[string]string{"c": "4"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			base, release := factory()
			defer release()
			applyAll(t, base, tc.base)

			layer := base.CacheWrap()
			applyAll(t, layer, tc.layer)
			for k, v := range tc.before {
				expectEntry(t, base, []byte(k), valueOf(v))
			}
			for k, v := range tc.after {
				expectEntry(t, layer, []byte(k), valueOf(v))
			}

			assert.Nil(t, layer.Write())
			for k, v := range tc.after {
				expectEntry(t, base, []byte(k), valueOf(v))
			}
		})
	}
}

func checkIteration(t *testing.T, factory StoreFactory) {
	// even accounts live in the base, odd ones are added by the layer,
	// every fifth one is deleted by the layer and every seventh updated
	var baseOps, layerOps []Op
	var want []Model
	for i := 0; i < 40; i++ {
		key := []byte(fmt.Sprintf("acct:%02d", i))
		value := []byte(fmt.Sprintf("v%d", i))
		if i%2 == 0 {
			baseOps = append(baseOps, SetOp(key, value))
		} else {
			layerOps = append(layerOps, SetOp(key, value))
		}
		switch {
		case i%5 == 0:
			layerOps = append(layerOps, DelOp(key))
			continue
		case i%7 == 0:
			value = []byte(fmt.Sprintf("updated%d", i))
			layerOps = append(layerOps, SetOp(key, value))
		}
		want = append(want, Pair(key, value))
	}
	// deleting what never existed is not visible
	layerOps = append(layerOps, DelOp([]byte("acct:99")))

	key := func(i int) []byte { return []byte(fmt.Sprintf("acct:%02d", i)) }
	cases := map[string]struct {
		start, end []byte
	}{
		"everything":        {},
		"from a key":        {start: key(13)},
		"until a key":       {end: key(22)},
		"closed range":      {start: key(7), end: key(31)},
		"start on deleted":  {start: key(10), end: key(20)},
		"empty range":       {start: key(14), end: key(14)},
		"before first key":  {end: []byte("acct:")},
		"after last key":    {start: []byte("acct:~")},
		"prefix of the set": {start: []byte("acct:1"), end: []byte("acct:2")},
	}

	base, release := factory()
	defer release()
	applyAll(t, base, baseOps)
	layer := base.CacheWrap()
	applyAll(t, layer, layerOps)

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			expected := inRange(want, tc.start, tc.end)

			it, err := layer.Iterator(tc.start, tc.end)
			assert.Nil(t, err)
			expectIteration(t, it, expected)

			it, err = layer.ReverseIterator(tc.start, tc.end)
			assert.Nil(t, err)
			expectIteration(t, it, reversed(expected))
		})
	}
}

func expectEntry(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
	has, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, want != nil, has)
}

func expectIteration(t testing.TB, it Iterator, want []Model) {
	t.Helper()
	defer it.Release()
	for i, m := range want {
		key, value, err := it.Next()
		assert.Nil(t, err)
		if !bytes.Equal(m.Key, key) {
			t.Fatalf("entry %d: want key %q, got %q", i, m.Key, key)
		}
		assert.Equal(t, m.Value, value)
	}
	if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want end of iteration, got %+v", err)
	}
}

func applyAll(t testing.TB, kv SetDeleter, ops []Op) {
	t.Helper()
	for _, op := range ops {
		assert.Nil(t, op.Apply(kv))
	}
}

func valueOf(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s)
}

// inRange returns the sorted models with start <= key < end. A nil bound
// is open.
func inRange(models []Model, start, end []byte) []Model {
	sorted := make([]Model, len(models))
	copy(sorted, models)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Key, sorted[j].Key) < 0
	})
	var res []Model
	for _, m := range sorted {
		if start != nil && bytes.Compare(m.Key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(m.Key, end) >= 0 {
			continue
		}
		res = append(res, m)
	}
	return res
}

func reversed(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}
