package app

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes one query path of an abci application as a
// ReadOnlyKVStore. Keys are interpreted by the query handler registered
// under that path.
type ABCIStore struct {
	app  abci.Application
	path string
}

var _ loom.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading through the given query path, for
// example "/accounts".
func NewABCIStore(app abci.Application, path string) *ABCIStore {
	return &ABCIStore{app: app, path: path}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query(a.path, key)
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d results for a single key", len(models))
	}
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return v != nil, err
}

// Iterator lists everything under the store path. Only the entire range
// can be requested.
func (a *ABCIStore) Iterator(start, end []byte) (loom.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrInput, "only the entire range can be iterated")
	}
	models, err := a.query(a.path+"?"+loom.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator lists everything under the store path backwards.
func (a *ABCIStore) ReverseIterator(start, end []byte) (loom.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrInput, "only the entire range can be iterated")
	}
	models, err := a.query(a.path+"?"+loom.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) query(path string, data []byte) ([]loom.Model, error) {
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != 0 {
		return nil, errors.Wrapf(errors.ErrState, "query %s: %s", path, res.Log)
	}
	return toModels(res.Key, res.Value)
}

func toModels(keys, values []byte) ([]loom.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
