package system

import (
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/loomtest/assert"
	"github.com/iov-one/loom/vm/vmtest"
)

func TestSystemProgram(t *testing.T) {
	funder := loomtest.SequenceAddress(1)
	fresh := loomtest.SequenceAddress(2)
	owned := loomtest.SequenceAddress(3)
	prog := loomtest.SequenceAddress(9)

	cases := map[string]struct {
		ix      loom.Instruction
		signers []loom.Address
		wantErr *errors.Error
		want    map[loom.Address]*loom.Account
	}{
		"create account": {
			ix:      NewCreateAccountInstruction(funder, fresh, 100, 4, prog),
			signers: []loom.Address{funder, fresh},
			want: map[loom.Address]*loom.Account{
				funder: {Lamports: 900},
				fresh:  {Lamports: 100, Data: make([]byte, 4), Owner: prog},
			},
		},
		"create without new account signature": {
			ix:      NewCreateAccountInstruction(funder, fresh, 100, 4, prog),
			signers: []loom.Address{funder},
			wantErr: errors.ErrMissingRequiredSignature,
		},
		"create existing account": {
			ix:      NewCreateAccountInstruction(funder, owned, 100, 4, prog),
			signers: []loom.Address{funder, owned},
			wantErr: errors.ErrAccountAlreadyInitialized,
		},
		"create without funds": {
			ix:      NewCreateAccountInstruction(funder, fresh, 1001, 0, prog),
			signers: []loom.Address{funder, fresh},
			wantErr: errors.ErrInsufficientFunds,
		},
		"create funded by program account": {
			ix:      NewCreateAccountInstruction(owned, fresh, 1, 0, prog),
			signers: []loom.Address{owned, fresh},
			wantErr: errors.ErrIncorrectProgramID,
		},
		"create too big": {
			ix:      NewCreateAccountInstruction(funder, fresh, 1, MaxPermittedDataLength+1, prog),
			signers: []loom.Address{funder, fresh},
			wantErr: errors.ErrInvalidArgument,
		},
		"transfer": {
			ix:      NewTransferInstruction(funder, owned, 10),
			signers: []loom.Address{funder},
			want: map[loom.Address]*loom.Account{
				funder: {Lamports: 990},
				owned:  {Lamports: 60, Data: []byte{1}, Owner: prog},
			},
		},
		"transfer everything": {
			ix:      NewTransferInstruction(funder, fresh, 1000),
			signers: []loom.Address{funder},
			want: map[loom.Address]*loom.Account{
				funder: nil,
				fresh:  {Lamports: 1000},
			},
		},
		"transfer too much": {
			ix:      NewTransferInstruction(funder, fresh, 1001),
			signers: []loom.Address{funder},
			wantErr: errors.ErrInsufficientFunds,
		},
		"transfer from program account": {
			ix:      NewTransferInstruction(owned, funder, 1),
			signers: []loom.Address{owned},
			wantErr: errors.ErrIncorrectProgramID,
		},
		"assign": {
			ix:      NewAssignInstruction(funder, prog),
			signers: []loom.Address{funder},
			want: map[loom.Address]*loom.Account{
				funder: {Lamports: 1000, Owner: prog},
			},
		},
		"assign program account": {
			ix:      NewAssignInstruction(owned, funder),
			signers: []loom.Address{owned},
			wantErr: errors.ErrIncorrectProgramID,
		},
		"unknown tag": {
			ix: loom.Instruction{
				ProgramID: ProgramID,
				Accounts:  []loom.AccountMeta{loom.Writable(funder, true)},
				Data:      []byte{7},
			},
			signers: []loom.Address{funder},
			wantErr: errors.ErrInvalidInstruction,
		},
		"short payload": {
			ix: loom.Instruction{
				ProgramID: ProgramID,
				Accounts:  []loom.AccountMeta{loom.Writable(funder, true), loom.Writable(fresh, false)},
				Data:      []byte{TagTransfer, 1, 2},
			},
			signers: []loom.Address{funder},
			wantErr: errors.ErrInvalidInstruction,
		},
		"missing accounts": {
			ix: loom.Instruction{
				ProgramID: ProgramID,
				Accounts:  []loom.AccountMeta{loom.Writable(funder, true)},
				Data:      mustEncode(TagTransfer, TransferArgs{Lamports: 1}),
			},
			signers: []loom.Address{funder},
			wantErr: errors.ErrNotEnoughAccountKeys,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			env := vmtest.NewEnv(t).Register(ProgramID, "system", Program{})
			env.Fund(funder, 1000)
			env.SetAccount(owned, &loom.Account{Lamports: 50, Data: []byte{1}, Owner: prog})

			_, err := env.Execute(tc.signers, tc.ix)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			for addr, want := range tc.want {
				assert.Equal(t, want, env.Account(addr))
			}
		})
	}
}
