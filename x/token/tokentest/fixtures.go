/*
Package tokentest creates token program state for tests without going
through instructions.
*/
package tokentest

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/vm/vmtest"
	"github.com/iov-one/loom/x/system"
	"github.com/iov-one/loom/x/token"
)

// Setup registers the system and token programs.
func Setup(env *vmtest.Env) *vmtest.Env {
	return env.
		Register(system.ProgramID, "system", system.Program{}).
		Register(token.ProgramID, "token", token.Program{})
}

// NewMint stores an initialized, rent exempt mint.
func NewMint(env *vmtest.Env, authority loom.Address) loom.Address {
	addr := loomtest.NewAddress()
	put(env, addr, &token.Mint{MintAuthority: authority, Initialized: true}, token.MintLen)
	return addr
}

// NewAccount stores an initialized, rent exempt token account holding
// amount tokens of mint. The mint supply grows accordingly.
func NewAccount(env *vmtest.Env, mint, owner loom.Address, amount uint64) loom.Address {
	m := Mint(env, mint)
	if m == nil {
		env.T().Fatalf("mint %s does not exist", mint)
	}
	m.Supply += amount
	put(env, mint, m, token.MintLen)

	addr := loomtest.NewAddress()
	put(env, addr, &token.TokenAccount{Mint: mint, Owner: owner, Amount: amount, Initialized: true}, token.AccountLen)
	return addr
}

// Account returns the token account stored under addr, or nil.
func Account(env *vmtest.Env, addr loom.Address) *token.TokenAccount {
	acct := env.Account(addr)
	if acct == nil {
		return nil
	}
	var a token.TokenAccount
	if err := a.Unmarshal(acct.Data); err != nil {
		env.T().Fatalf("account %s: %s", addr, err)
	}
	return &a
}

// Balance returns the token amount of addr, zero if it does not exist.
func Balance(env *vmtest.Env, addr loom.Address) uint64 {
	if a := Account(env, addr); a != nil {
		return a.Amount
	}
	return 0
}

// Mint returns the mint stored under addr, or nil.
func Mint(env *vmtest.Env, addr loom.Address) *token.Mint {
	acct := env.Account(addr)
	if acct == nil {
		return nil
	}
	var m token.Mint
	if err := m.Unmarshal(acct.Data); err != nil {
		env.T().Fatalf("mint %s: %s", addr, err)
	}
	return &m
}

func put(env *vmtest.Env, addr loom.Address, state loom.Marshaller, size int) {
	raw, err := state.Marshal()
	if err != nil {
		env.T().Fatalf("cannot marshal %T: %s", state, err)
	}
	env.SetAccount(addr, &loom.Account{
		Lamports: env.Rent().MinimumBalance(size),
		Data:     raw,
		Owner:    token.ProgramID,
	})
}
