package store

import "github.com/iov-one/loom"

// Move references for all storage types into this package for shorter
// names everywhere.

type (
	ReadOnlyKVStore  = loom.ReadOnlyKVStore
	SetDeleter       = loom.SetDeleter
	KVStore          = loom.KVStore
	Batch            = loom.Batch
	Iterator         = loom.Iterator
	CacheableKVStore = loom.CacheableKVStore
	KVCacheWrap      = loom.KVCacheWrap
	CommitKVStore    = loom.CommitKVStore
	CommitID         = loom.CommitID
	Model            = loom.Model
)

// Pair constructs a model from a key-value pair.
var Pair = loom.Pair
