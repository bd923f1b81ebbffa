package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/loom/loomtest/assert"
	"github.com/iov-one/loom/store"
)

func makeBase() (store.CacheableKVStore, func()) {
	commit, cleanup := makeCommitStore()
	return commit.Adapter(), cleanup
}

func makeCommitStore() (*CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }
	commit, err := NewCommitStore(tmpDir, "base")
	if err != nil {
		cleanup()
		panic(err)
	}
	return commit, cleanup
}

func TestAdapterStore(t *testing.T) {
	store.RunSuite(t, makeBase)
}

func TestCommitOverwrite(t *testing.T) {
	commit, cleanup := makeCommitStore()
	defer cleanup()
	commit.numHistory = 1

	id, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)
	if len(id.Hash) != 0 {
		t.Fatal("hash is not empty")
	}

	k1, k2, k3 := []byte("initializer"), []byte("temp"), []byte("escrow")

	parent := commit.CacheWrap()
	assert.Nil(t, parent.Set(k1, []byte("1000")))
	assert.Nil(t, parent.Set(k2, []byte("500")))
	assert.Nil(t, parent.Write())
	id, err = commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	if len(id.Hash) == 0 {
		t.Fatal("hash is empty")
	}

	child := commit.CacheWrap()
	assert.Nil(t, child.Set(k1, []byte("1500")))
	assert.Nil(t, child.Delete(k2))
	assert.Nil(t, child.Set(k3, []byte("121")))

	// Committed state is untouched until the child is written and
	// committed.
	got, err := commit.Get(k2)
	assert.Nil(t, err)
	assert.Equal(t, []byte("500"), got)

	assert.Nil(t, child.Write())
	id, err = commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), id.Version)

	got, err = commit.Get(k1)
	assert.Nil(t, err)
	assert.Equal(t, []byte("1500"), got)
	got, err = commit.Get(k2)
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestMemCommitStore(t *testing.T) {
	mem := NewMemCommitStore()
	assert.Nil(t, mem.LoadLatestVersion())
	id, err := mem.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)

	for i := 0; i < DefaultHistorySize+3; i++ {
		c := mem.CacheWrap()
		assert.Nil(t, c.Set([]byte("slot"), []byte{byte(i)}))
		assert.Nil(t, c.Write())
		id, err = mem.Commit()
		assert.Nil(t, err)
		assert.Equal(t, int64(i+1), id.Version)
	}

	got, err := mem.Get([]byte("slot"))
	assert.Nil(t, err)
	assert.Equal(t, []byte{byte(DefaultHistorySize + 2)}, got)
}
