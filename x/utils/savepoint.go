package utils

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error.
// Wrapping the runtime with it makes every transaction all or nothing.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ loom.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx loom.Context, store loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	cache, ok := cacheWrap(store)
	if !ok {
		return next.Check(ctx, store, tx)
	}

	res, err := next.Check(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx loom.Context, store loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	cache, ok := cacheWrap(store)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}

func cacheWrap(store loom.KVStore) (loom.KVCacheWrap, bool) {
	cstore, ok := store.(loom.CacheableKVStore)
	if !ok {
		return nil, false
	}
	return cstore.CacheWrap(), true
}
