package app

import (
	"context"
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest/assert"
	"github.com/iov-one/loom/store/iavl"
	abci "github.com/tendermint/tendermint/abci/types"
)

// genesisWriter copies every genesis option into the store under its name.
type genesisWriter struct {
	params loom.GenesisParams
}

func (g *genesisWriter) FromGenesis(opts loom.Options, params loom.GenesisParams, kv loom.KVStore) error {
	g.params = params
	for name, raw := range opts {
		if err := kv.Set([]byte("opt:"+name), raw); err != nil {
			return err
		}
	}
	return nil
}

// prefixReader serves queries straight from the store.
type prefixReader struct{}

func (prefixReader) Query(db loom.ReadOnlyKVStore, mod string, data []byte) ([]loom.Model, error) {
	key := append([]byte("opt:"), data...)
	if mod == loom.PrefixQueryMod {
		it, err := db.Iterator(key, []byte("opt;"))
		if err != nil {
			return nil, err
		}
		defer it.Release()
		var res []loom.Model
		for {
			k, v, err := it.Next()
			if errors.ErrIteratorDone.Is(err) {
				return res, nil
			}
			if err != nil {
				return nil, err
			}
			res = append(res, loom.Pair(k, v))
		}
	}
	v, err := db.Get(key)
	if err != nil || v == nil {
		return nil, err
	}
	return []loom.Model{loom.Pair(key, v)}, nil
}

func newTestStoreApp(t testing.TB) (*StoreApp, *genesisWriter) {
	t.Helper()
	qr := loom.NewQueryRouter()
	qr.Register("/opts", prefixReader{})
	init := &genesisWriter{}
	s := NewStoreApp("test", iavl.NewMemCommitStore(), qr, context.Background()).WithInit(init)
	return s, init
}

func TestStoreAppGenesis(t *testing.T) {
	s, init := newTestStoreApp(t)
	assert.Equal(t, "", s.GetChainID())

	s.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain",
		AppStateBytes: []byte(`{"alpha": 1, "beta": "two"}`),
	})
	assert.Equal(t, "test-chain", s.GetChainID())
	assert.Equal(t, "test-chain", init.params.ChainID)

	// The chain id can be written only once.
	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{
			ChainId:       "test-chain",
			AppStateBytes: []byte(`{}`),
		})
	})

	res := s.Commit()
	info := s.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, res.Data, info.LastBlockAppHash)
	assert.Equal(t, "test", info.Data)

	q := s.Query(abci.RequestQuery{Path: "/opts", Data: []byte("beta")})
	assert.Equal(t, uint32(0), q.Code)
	var values ResultSet
	assert.Nil(t, values.Unmarshal(q.Value))
	assert.Equal(t, [][]byte{[]byte(`"two"`)}, values.Results)

	q = s.Query(abci.RequestQuery{Path: "/opts?prefix"})
	assert.Equal(t, uint32(0), q.Code)
	var keys ResultSet
	assert.Nil(t, keys.Unmarshal(q.Key))
	assert.Equal(t, [][]byte{[]byte("opt:alpha"), []byte("opt:beta")}, keys.Results)

	q = s.Query(abci.RequestQuery{Path: "/nothing"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), q.Code)
}

func TestStoreAppReloadsChainID(t *testing.T) {
	db := iavl.NewMemCommitStore()
	s := NewStoreApp("test", db, loom.NewQueryRouter(), context.Background())
	s.InitChain(abci.RequestInitChain{ChainId: "reload-chain", AppStateBytes: []byte(`{}`)})
	s.Commit()

	again := NewStoreApp("test", db, loom.NewQueryRouter(), context.Background())
	assert.Equal(t, "reload-chain", again.GetChainID())
	assert.Equal(t, "reload-chain", loom.GetChainID(again.BlockContext()))
	h, ok := loom.GetHeight(again.BlockContext())
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(1), h)
}

func TestStoreAppRejectsEmptyAppState(t *testing.T) {
	s, _ := newTestStoreApp(t)
	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{ChainId: "test-chain"})
	})
}

func TestBeginBlockSetsContext(t *testing.T) {
	s, _ := newTestStoreApp(t)
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 7, ChainID: "test-chain"}})

	h, ok := loom.GetHeight(s.BlockContext())
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(7), h)
	header, ok := loom.GetHeader(s.BlockContext())
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(7), header.Height)
}

func TestSplitPath(t *testing.T) {
	cases := map[string]struct {
		path     string
		wantPath string
		wantMod  string
	}{
		"plain":    {path: "/accounts", wantPath: "/accounts"},
		"prefix":   {path: "/accounts?prefix", wantPath: "/accounts", wantMod: "prefix"},
		"only mod": {path: "?prefix", wantPath: "", wantMod: "prefix"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			path, mod := splitPath(tc.path)
			assert.Equal(t, tc.wantPath, path)
			assert.Equal(t, tc.wantMod, mod)
		})
	}
}

func TestJoinResults(t *testing.T) {
	models := []loom.Model{
		loom.Pair([]byte("a"), []byte("1")),
		loom.Pair([]byte("b"), []byte("2")),
	}
	got, err := JoinResults(ResultsFromKeys(models), ResultsFromValues(models))
	assert.Nil(t, err)
	assert.Equal(t, models, got)

	_, err = JoinResults(ResultsFromKeys(models), ResultsFromValues(models[:1]))
	if !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestABCIStore(t *testing.T) {
	s, _ := newTestStoreApp(t)
	s.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain",
		AppStateBytes: []byte(`{"alpha": 1, "beta": 2}`),
	})
	s.Commit()

	db := NewABCIStore(NewBaseApp(s, nil, nil, false), "/opts")
	v, err := db.Get([]byte("alpha"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), v)

	ok, err := db.Has([]byte("gamma"))
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	it, err := db.ReverseIterator(nil, nil)
	assert.Nil(t, err)
	key, _, err := it.Next()
	assert.Nil(t, err)
	assert.Equal(t, []byte("opt:beta"), key)
	it.Release()

	_, err = db.Iterator([]byte("a"), nil)
	if !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error: %v", err)
	}
}
