package app

import (
	"sync"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// CommitStore keeps two cache layers over a committed store: one for
// DeliverTx and one for CheckTx. Commit flushes the deliver layer, drops
// the check layer and opens fresh ones.
type CommitStore struct {
	committed loom.CommitKVStore

	mu      sync.Mutex
	deliver loom.KVCacheWrap
	check   loom.KVCacheWrap
}

func NewCommitStore(kv loom.CommitKVStore) (*CommitStore, error) {
	if err := kv.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	cs := &CommitStore{committed: kv}
	cs.reopen()
	return cs, nil
}

func (cs *CommitStore) reopen() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and hash of the last commit.
func (cs *CommitStore) CommitInfo() (loom.CommitID, error) {
	return cs.committed.LatestVersion()
}

func (cs *CommitStore) Commit() (loom.CommitID, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.deliver.Write(); err != nil {
		return loom.CommitID{}, err
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reopen()
	return id, nil
}

func (cs *CommitStore) CheckStore() loom.CacheableKVStore {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.check
}

func (cs *CommitStore) DeliverStore() loom.CacheableKVStore {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.deliver
}

// keys under "_lm:" are reserved for the app itself
const chainIDKey = "_lm:chainID"

func loadChainID(kv loom.ReadOnlyKVStore) (string, error) {
	raw, err := kv.Get([]byte(chainIDKey))
	return string(raw), err
}

// saveChainID records the chain id once. A second call fails.
func saveChainID(kv loom.KVStore, chainID string) error {
	if !loom.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	key := []byte(chainIDKey)
	switch set, err := kv.Has(key); {
	case err != nil:
		return errors.Wrap(err, "read chain id")
	case set:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	return errors.Wrap(kv.Set(key, []byte(chainID)), "save chain id")
}
