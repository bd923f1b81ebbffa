/*
Package vmtest runs programs in a memory backed executor for tests.
*/
package vmtest

import (
	"context"
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/ledger"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/store"
	"github.com/iov-one/loom/vm"
)

// Env is a single chain state with a set of registered programs. Every
// Execute call is a transaction in the block at Height.
type Env struct {
	t        testing.TB
	DB       store.CacheableKVStore
	Registry *vm.Registry
	Height   int64
}

// NewEnv returns an empty chain at height 1.
func NewEnv(t testing.TB) *Env {
	return &Env{
		t:        t,
		DB:       store.MemStore(),
		Registry: vm.NewRegistry(),
		Height:   1,
	}
}

// T returns the test the environment belongs to.
func (e *Env) T() testing.TB {
	return e.t
}

// Register adds a program to the executor.
func (e *Env) Register(id loom.Address, name string, p loom.Program) *Env {
	e.Registry.Register(id, name, p)
	return e
}

// Advance moves the chain forward by given number of slots.
func (e *Env) Advance(slots int64) {
	e.Height += slots
}

// Context returns the context of a transaction in the current block.
func (e *Env) Context() loom.Context {
	return loom.WithHeight(context.Background(), e.Height)
}

// Execute runs a transaction signed by signers. Nothing is written when an
// error is returned.
func (e *Env) Execute(signers []loom.Address, ixs ...loom.Instruction) (*loom.DeliverResult, error) {
	exec := vm.NewExecutor(e.Registry, &loomtest.Auth{Signers: signers})
	cache := e.DB.CacheWrap()
	res, err := exec.Deliver(e.Context(), cache, &loomtest.Tx{Instructions: ixs})
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		e.t.Fatalf("cannot write cache: %s", err)
	}
	return res, nil
}

// MustExecute is Execute that fails the test on error.
func (e *Env) MustExecute(signers []loom.Address, ixs ...loom.Instruction) *loom.DeliverResult {
	e.t.Helper()
	res, err := e.Execute(signers, ixs...)
	if err != nil {
		e.t.Fatalf("cannot execute: %+v", err)
	}
	return res
}

// SetAccount stores the account directly, bypassing all programs.
func (e *Env) SetAccount(addr loom.Address, acct *loom.Account) {
	e.t.Helper()
	if err := ledger.NewBucket().Store(e.DB, addr, acct); err != nil {
		e.t.Fatalf("cannot store account %s: %s", addr, err)
	}
}

// Fund creates a system owned account holding given lamports.
func (e *Env) Fund(addr loom.Address, lamports uint64) {
	e.t.Helper()
	e.SetAccount(addr, &loom.Account{Lamports: lamports})
}

// Account returns the stored account or nil if it does not exist.
func (e *Env) Account(addr loom.Address) *loom.Account {
	e.t.Helper()
	a, err := ledger.NewBucket().Load(e.DB, addr)
	if err != nil {
		e.t.Fatalf("cannot load account %s: %s", addr, err)
	}
	return a
}

// Lamports returns the balance of an account, zero when it does not exist.
func (e *Env) Lamports(addr loom.Address) uint64 {
	e.t.Helper()
	if a := e.Account(addr); a != nil {
		return a.Lamports
	}
	return 0
}

// Rent returns the rent parameters the executor uses.
func (e *Env) Rent() loom.Rent {
	e.t.Helper()
	r, err := vm.LoadRent(e.DB)
	if err != nil {
		e.t.Fatalf("cannot load rent: %s", err)
	}
	return r
}
