package client

import (
	"context"
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/app"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/ledger"
	"github.com/iov-one/loom/loomtest/assert"
	"github.com/iov-one/loom/store/iavl"
	"github.com/iov-one/loom/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
)

var (
	alice   = loom.Address{1}
	bob     = loom.Address{2}
	carol   = loom.Address{3}
	program = loom.Address{9}
)

// fixture writes a few accounts and a single signer state.
type fixture struct{}

func (fixture) FromGenesis(_ loom.Options, _ loom.GenesisParams, kv loom.KVStore) error {
	accts := ledger.NewBucket()
	if err := accts.Store(kv, alice, loom.NewAccount(100, 0, loom.Address{})); err != nil {
		return err
	}
	if err := accts.Store(kv, bob, loom.NewAccount(7, 4, program)); err != nil {
		return err
	}
	if err := accts.Store(kv, carol, loom.NewAccount(8, 0, program)); err != nil {
		return err
	}
	user := sigs.NewUser(alice)
	sigs.AsUser(user).Sequence = 3
	return sigs.NewBucket().Save(kv, user)
}

func newQuerier(t testing.TB) Querier {
	t.Helper()
	qr := loom.NewQueryRouter()
	ledger.RegisterQuery(qr)
	sigs.RegisterQuery(qr)
	s := app.NewStoreApp("accounts", iavl.NewMemCommitStore(), qr, context.Background()).
		WithInit(fixture{})
	s.InitChain(abci.RequestInitChain{ChainId: "query-chain", AppStateBytes: []byte(`{}`)})
	s.Commit()
	return s
}

func TestGetAccount(t *testing.T) {
	q := newQuerier(t)

	acct, err := GetAccount(q, bob)
	assert.Nil(t, err)
	assert.Equal(t, uint64(7), acct.Lamports)
	assert.Equal(t, program, acct.Owner)
	assert.Equal(t, 4, len(acct.Data))

	acct, err = GetAccount(q, loom.Address{42})
	assert.Nil(t, err)
	if acct != nil {
		t.Fatalf("unexpected account %+v", acct)
	}
}

func TestAccountsByOwner(t *testing.T) {
	q := newQuerier(t)

	owned, err := AccountsByOwner(q, program)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(owned))
	got := map[loom.Address]uint64{}
	for _, k := range owned {
		got[k.Address] = k.Account.Lamports
	}
	assert.Equal(t, map[loom.Address]uint64{bob: 7, carol: 8}, got)

	owned, err = AccountsByOwner(q, loom.Address{42})
	assert.Nil(t, err)
	assert.Equal(t, 0, len(owned))
}

func TestNextSequence(t *testing.T) {
	q := newQuerier(t)

	cases := map[string]struct {
		signer loom.Address
		want   int64
	}{
		"known signer":   {signer: alice, want: 3},
		"unknown signer": {signer: bob, want: 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			seq, err := NextSequence(q, tc.signer)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, seq)
		})
	}
}

func TestQueryUnknownPath(t *testing.T) {
	q := newQuerier(t)
	_, err := query(q, "/nothing", nil)
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
