package vault

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/x/system"
)

// ProgramID of the vault program.
var ProgramID = loom.MustParseAddress("Vau1t11111111111111111111111111111111111111")

const (
	TagInitialize uint8 = 0
	TagDeposit    uint8 = 1
	TagWithdraw   uint8 = 2
)

// AmountArgs is the payload of Deposit and Withdraw.
type AmountArgs struct {
	Amount uint64
}

// MustAddress is Address of the vault program that panics on failure.
func MustAddress(initializer loom.Address) loom.Address {
	addr, _, err := Address(ProgramID, initializer)
	if err != nil {
		panic(err)
	}
	return addr
}

// NewInitializeInstruction creates the vault of initializer unless it
// already exists.
func NewInitializeInstruction(initializer loom.Address) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(initializer, true),
			loom.Writable(MustAddress(initializer), false),
			loom.ReadOnly(system.ProgramID, false),
		},
		Data: mustEncode(TagInitialize, nil),
	}
}

func NewDepositInstruction(initializer loom.Address, amount uint64) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(initializer, true),
			loom.Writable(MustAddress(initializer), false),
			loom.ReadOnly(system.ProgramID, false),
		},
		Data: mustEncode(TagDeposit, AmountArgs{Amount: amount}),
	}
}

func NewWithdrawInstruction(initializer loom.Address, amount uint64) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(initializer, true),
			loom.Writable(MustAddress(initializer), false),
		},
		Data: mustEncode(TagWithdraw, AmountArgs{Amount: amount}),
	}
}

func mustEncode(tag uint8, args interface{}) []byte {
	data, err := loom.EncodeInstructionData(tag, args)
	if err != nil {
		panic(err)
	}
	return data
}
