package checker

import (
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/vm/vmtest"
	"github.com/iov-one/loom/x/system"
)

func TestCheckAccounts(t *testing.T) {
	payer := loomtest.SequenceAddress(1)
	fresh := loomtest.SequenceAddress(2)
	owned := loomtest.SequenceAddress(3)
	foreign := loomtest.SequenceAddress(4)

	cases := map[string]struct {
		ix      loom.Instruction
		wantErr *errors.Error
	}{
		"valid accounts": {
			ix: NewCheckAccountsInstruction(payer, fresh, owned),
		},
		"account to create exists": {
			ix:      NewCheckAccountsInstruction(payer, owned, owned),
			wantErr: errors.ErrAccountAlreadyInitialized,
		},
		"account to change does not exist": {
			ix:      NewCheckAccountsInstruction(payer, fresh, fresh),
			wantErr: errors.ErrUninitializedAccount,
		},
		"account to change owned by another program": {
			ix:      NewCheckAccountsInstruction(payer, fresh, foreign),
			wantErr: errors.ErrIncorrectProgramID,
		},
		"wrong system program": {
			ix: func() loom.Instruction {
				ix := NewCheckAccountsInstruction(payer, fresh, owned)
				ix.Accounts[3] = loom.ReadOnly(foreign, false)
				return ix
			}(),
			wantErr: errors.ErrIncorrectProgramID,
		},
		"too few accounts": {
			ix: func() loom.Instruction {
				ix := NewCheckAccountsInstruction(payer, fresh, owned)
				ix.Accounts = ix.Accounts[:3]
				return ix
			}(),
			wantErr: errors.ErrNotEnoughAccountKeys,
		},
		"payer did not sign": {
			ix: func() loom.Instruction {
				ix := NewCheckAccountsInstruction(payer, fresh, owned)
				ix.Accounts[0] = loom.ReadOnly(payer, false)
				return ix
			}(),
			wantErr: errors.ErrMissingRequiredSignature,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			env := vmtest.NewEnv(t).Register(ProgramID, "checker", Program{})
			env.Fund(payer, 100)
			env.SetAccount(owned, &loom.Account{Lamports: 10, Data: []byte{1}, Owner: ProgramID})
			env.SetAccount(foreign, &loom.Account{Lamports: 10, Owner: loomtest.SequenceAddress(9)})

			_, err := env.Execute([]loom.Address{payer}, tc.ix)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestRunningAsSystemProgram(t *testing.T) {
	env := vmtest.NewEnv(t).Register(system.ProgramID, "system", Program{})
	ix := NewCheckAccountsInstruction(loomtest.SequenceAddress(1), loomtest.SequenceAddress(2), loomtest.SequenceAddress(3))
	ix.ProgramID = system.ProgramID
	_, err := env.Execute([]loom.Address{loomtest.SequenceAddress(1)}, ix)
	if !errors.ErrIncorrectProgramID.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
