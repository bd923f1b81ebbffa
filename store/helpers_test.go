package store

import (
	"testing"

	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest/assert"
)

// TestSliceIterator makes sure the basic slice iterator works.
func TestSliceIterator(t *testing.T) {
	const size = 10

	ks := randKeys(size, 8)
	vs := randKeys(size, 40)

	models := make([]Model, size)
	for i := 0; i < size; i++ {
		models[i].Key = ks[i]
		models[i].Value = vs[i]
	}

	iter := NewSliceIterator(models)
	for i := 0; i < size; i++ {
		k, v, err := iter.Next()
		assert.Nil(t, err)
		assert.Equal(t, ks[i], k)
		assert.Equal(t, vs[i], v)
	}
	_, _, err := iter.Next()
	assert.IsErr(t, errors.ErrIteratorDone, err)

	released := NewSliceIterator(models)
	released.Release()
	_, _, err = released.Next()
	assert.IsErr(t, errors.ErrIteratorDone, err)
}

func TestNonAtomicBatch(t *testing.T) {
	base := MemStore()
	b := NewNonAtomicBatch(base)
	assert.Nil(t, b.Set([]byte("k"), []byte("v")))
	assert.Nil(t, b.Delete([]byte("gone")))
	assert.Equal(t, 2, len(b.ShowOps()))

	has, err := base.Has([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	assert.Nil(t, b.Write())
	got, err := base.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 0, len(b.ShowOps()))
}
