package vm

import (
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/loomtest/assert"
	"github.com/iov-one/loom/store"
)

// calleeB credits one lamport from the first account to the second. The
// first account must be owned by progB.
var calleeB = loom.ProgramFunc(func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
	if len(accts) < 2 {
		return nil
	}
	if err := accts[0].SubLamports(1); err != nil {
		return err
	}
	return accts[1].AddLamports(1)
})

func TestInvoke(t *testing.T) {
	pda, bump, err := loom.FindProgramAddress(progA, []byte("vault"))
	assert.Nil(t, err)
	_, otherBump, err := loom.FindProgramAddress(progA, []byte("other"))
	assert.Nil(t, err)

	cases := map[string]struct {
		metas   []loom.AccountMeta
		signers []loom.Address
		caller  loom.ProgramFunc
		wantErr *errors.Error
		want    map[loom.Address]*loom.Account
	}{
		"callee moves lamports of its account": {
			metas: []loom.AccountMeta{loom.Writable(bob, false), loom.Writable(alice, false)},
			caller: func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				return host.Invoke(ctx, loom.Instruction{
					ProgramID: progB,
					Accounts:  []loom.AccountMeta{loom.Writable(bob, false), loom.Writable(alice, false)},
					Data:      []byte{0},
				})
			},
			want: map[loom.Address]*loom.Account{
				alice: {Lamports: 101, Owner: progA, Data: []byte{0}},
				bob:   {Lamports: 49, Owner: progB},
			},
		},
		"caller keeps working after the call": {
			metas: []loom.AccountMeta{loom.Writable(bob, false), loom.Writable(alice, false)},
			caller: func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				err := host.Invoke(ctx, loom.Instruction{
					ProgramID: progB,
					Accounts:  []loom.AccountMeta{loom.Writable(bob, false), loom.Writable(alice, false)},
					Data:      []byte{0},
				})
				if err != nil {
					return err
				}
				accts[1].Data[0] = 5
				return nil
			},
			want: map[loom.Address]*loom.Account{
				alice: {Lamports: 101, Owner: progA, Data: []byte{5}},
				bob:   {Lamports: 49, Owner: progB},
			},
		},
		"caller breaks rules before the call": {
			metas: []loom.AccountMeta{loom.Writable(bob, false), loom.Writable(alice, false)},
			caller: func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				accts[0].Lamports--
				accts[1].Lamports++
				return host.Invoke(ctx, loom.Instruction{ProgramID: progB, Data: []byte{0}})
			},
			wantErr: errors.ErrExternalLamportSpend,
		},
		"writable escalation": {
			metas: []loom.AccountMeta{loom.ReadOnly(bob, false), loom.Writable(alice, false)},
			caller: func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				return host.Invoke(ctx, loom.Instruction{
					ProgramID: progB,
					Accounts:  []loom.AccountMeta{loom.Writable(bob, false), loom.Writable(alice, false)},
					Data:      []byte{0},
				})
			},
			wantErr: errors.ErrPrivilegeEscalation,
		},
		"signer escalation": {
			metas: []loom.AccountMeta{loom.Writable(bob, false)},
			caller: func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				return host.Invoke(ctx, loom.Instruction{
					ProgramID: progB,
					Accounts:  []loom.AccountMeta{loom.Writable(bob, true)},
					Data:      []byte{0},
				})
			},
			wantErr: errors.ErrPrivilegeEscalation,
		},
		"signer passed down": {
			metas:   []loom.AccountMeta{loom.Writable(bob, true)},
			signers: []loom.Address{bob},
			caller: func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				return host.Invoke(ctx, loom.Instruction{
					ProgramID: progB,
					Accounts:  []loom.AccountMeta{loom.ReadOnly(bob, true)},
					Data:      []byte{0},
				})
			},
		},
		"derived address signs with seeds": {
			metas: []loom.AccountMeta{loom.Writable(pda, false)},
			caller: func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				return host.Invoke(ctx, loom.Instruction{
					ProgramID: progB,
					Accounts:  []loom.AccountMeta{loom.ReadOnly(pda, true)},
					Data:      []byte{0},
				}, loom.SignerSeeds(bump, []byte("vault")))
			},
		},
		"derived address with wrong seeds": {
			metas: []loom.AccountMeta{loom.Writable(pda, false)},
			caller: func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				return host.Invoke(ctx, loom.Instruction{
					ProgramID: progB,
					Accounts:  []loom.AccountMeta{loom.ReadOnly(pda, true)},
					Data:      []byte{0},
				}, loom.SignerSeeds(otherBump, []byte("other")))
			},
			wantErr: errors.ErrPrivilegeEscalation,
		},
		"account not passed to the caller": {
			metas: []loom.AccountMeta{loom.Writable(bob, false)},
			caller: func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				return host.Invoke(ctx, loom.Instruction{
					ProgramID: progB,
					Accounts:  []loom.AccountMeta{loom.Writable(alice, false)},
					Data:      []byte{0},
				})
			},
			wantErr: errors.ErrNotEnoughAccountKeys,
		},
		"unbounded recursion": {
			caller: func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				return host.Invoke(ctx, loom.Instruction{ProgramID: id, Data: []byte{0}})
			},
			wantErr: errors.ErrCallDepth,
		},
		"reentrancy": {
			caller: func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				if data[0] == 1 {
					return nil
				}
				return host.Invoke(ctx, loom.Instruction{ProgramID: other, Data: []byte{0}})
			},
			wantErr: errors.ErrReentrancy,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			storeAccounts(t, db, map[loom.Address]*loom.Account{
				alice: {Lamports: 100, Owner: progA, Data: []byte{0}},
				bob:   {Lamports: 50, Owner: progB},
			})

			reg := NewRegistry()
			reg.Register(progA, "alpha", tc.caller)
			reg.Register(progB, "beta", calleeB)
			// other always calls back into progA
			reg.Register(other, "gamma", loom.ProgramFunc(func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				return host.Invoke(ctx, loom.Instruction{ProgramID: progA, Data: []byte{1}})
			}))
			exec := NewExecutor(reg, &loomtest.Auth{Signers: tc.signers})

			tx := &loomtest.Tx{Instructions: []loom.Instruction{
				{ProgramID: progA, Accounts: tc.metas, Data: []byte{0}},
			}}
			_, err := exec.Deliver(testContext(), db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			for addr, want := range tc.want {
				assert.Equal(t, want, loadAccount(t, db, addr))
			}
		})
	}
}

func TestMaxCallDepth(t *testing.T) {
	cases := map[string]struct {
		conf     []byte
		wantCall int
	}{
		"default": {
			wantCall: 4,
		},
		"configured": {
			conf:     []byte(`{"vm": {"max_call_depth": 2}}`),
			wantCall: 2,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if tc.conf != nil {
				err := ConfigInitializer().FromGenesis(loom.Options{"conf": tc.conf}, loom.GenesisParams{}, db)
				assert.Nil(t, err)
			}

			var calls int
			reg := NewRegistry()
			reg.Register(progA, "alpha", loom.ProgramFunc(func(ctx loom.Context, host loom.Host, id loom.Address, accts []*loom.AccountInfo, data []byte) error {
				calls++
				return host.Invoke(ctx, loom.Instruction{ProgramID: id, Data: []byte{0}})
			}))
			exec := NewExecutor(reg, &loomtest.Auth{})
			tx := &loomtest.Tx{Instructions: []loom.Instruction{{ProgramID: progA, Data: []byte{0}}}}
			_, err := exec.Deliver(testContext(), db, tx)
			if !errors.ErrCallDepth.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.wantCall, calls)
		})
	}
}
