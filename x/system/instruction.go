package system

import (
	"github.com/iov-one/loom"
)

// ProgramID of the system program.
var ProgramID = loom.Address{}

// MaxPermittedDataLength is the biggest account a single CreateAccount can
// allocate.
const MaxPermittedDataLength = loom.MaxAccountDataLen

// Instruction tags.
const (
	TagCreateAccount uint8 = 0
	TagAssign        uint8 = 1
	TagTransfer      uint8 = 2
)

// CreateAccountArgs funds a new account, allocates its data and assigns it
// to Owner.
type CreateAccountArgs struct {
	Lamports uint64
	Space    uint64
	Owner    loom.Address
}

// AssignArgs hands an account over to another program.
type AssignArgs struct {
	Owner loom.Address
}

// TransferArgs moves lamports.
type TransferArgs struct {
	Lamports uint64
}

// NewCreateAccountInstruction returns an instruction creating newAcct
// funded by from. Both accounts must sign.
func NewCreateAccountInstruction(from, newAcct loom.Address, lamports, space uint64, owner loom.Address) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(from, true),
			loom.Writable(newAcct, true),
		},
		Data: mustEncode(TagCreateAccount, CreateAccountArgs{Lamports: lamports, Space: space, Owner: owner}),
	}
}

// NewAssignInstruction returns an instruction assigning acct to owner.
func NewAssignInstruction(acct, owner loom.Address) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts:  []loom.AccountMeta{loom.Writable(acct, true)},
		Data:      mustEncode(TagAssign, AssignArgs{Owner: owner}),
	}
}

// NewTransferInstruction returns an instruction moving lamports from one
// system account to any account.
func NewTransferInstruction(from, to loom.Address, lamports uint64) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(from, true),
			loom.Writable(to, false),
		},
		Data: mustEncode(TagTransfer, TransferArgs{Lamports: lamports}),
	}
}

// Encoding fixed size structures cannot fail.
func mustEncode(tag uint8, args interface{}) []byte {
	data, err := loom.EncodeInstructionData(tag, args)
	if err != nil {
		panic(err)
	}
	return data
}
