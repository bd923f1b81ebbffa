package loomtest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) (db loom.CommitKVStore, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "loomtest")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}

	cleanup = func() { os.RemoveAll(dbpath) }
	db, err = iavl.NewCommitStore(dbpath, "db")
	if err != nil {
		cleanup()
		t.Fatalf("cannot open commit store: %s", err)
	}
	return db, cleanup
}
