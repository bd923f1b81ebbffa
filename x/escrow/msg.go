package escrow

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/x/system"
	"github.com/iov-one/loom/x/token"
)

// ProgramID of the escrow program.
var ProgramID = loom.MustParseAddress("ECh7FQHy1hDxkiYjPVi8tYhmZ2oHE1zJqsyxbP4vS3nd")

// AuthoritySeed derives the address owning all deposits.
var AuthoritySeed = []byte("escrow")

// Instruction tags.
const (
	TagInitEscrow    uint8 = 0
	TagExchange      uint8 = 1
	TagResetTimeLock uint8 = 2
	TagCancel        uint8 = 3
)

// AmountArgs is the payload of InitEscrow and Exchange.
type AmountArgs struct {
	Amount uint64
}

// Authority returns the derived address owning the deposits of given
// escrow program, together with its bump seed.
func Authority(programID loom.Address) (loom.Address, uint8) {
	addr, bump, err := loom.FindProgramAddress(programID, AuthoritySeed)
	if err != nil {
		panic(err)
	}
	return addr, bump
}

// NewInitEscrowInstruction opens an escrow. tempHolding must be a token
// account of the initializer holding the deposit. The record key signs so
// that the record account can be created.
func NewInitEscrowInstruction(initializer, tempHolding, initializerReceive, record loom.Address, expectedAmount uint64) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(initializer, true),
			loom.Writable(tempHolding, false),
			loom.ReadOnly(initializerReceive, false),
			loom.Writable(record, true),
			loom.ReadOnly(token.ProgramID, false),
			loom.ReadOnly(system.ProgramID, false),
		},
		Data: mustEncode(TagInitEscrow, AmountArgs{Amount: expectedAmount}),
	}
}

// NewExchangeInstruction completes the swap. amount is what the taker
// expects to receive and must equal the deposit.
func NewExchangeInstruction(taker, takerSending, takerReceive, tempHolding, initializer, initializerReceive, record loom.Address, amount uint64) loom.Instruction {
	authority, _ := Authority(ProgramID)
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.ReadOnly(taker, true),
			loom.Writable(takerSending, false),
			loom.Writable(takerReceive, false),
			loom.Writable(tempHolding, false),
			loom.Writable(initializer, false),
			loom.Writable(initializerReceive, false),
			loom.Writable(record, false),
			loom.ReadOnly(token.ProgramID, false),
			loom.ReadOnly(authority, false),
		},
		Data: mustEncode(TagExchange, AmountArgs{Amount: amount}),
	}
}

// NewResetTimeLockInstruction restarts the exchange window.
func NewResetTimeLockInstruction(initializer, record loom.Address) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.ReadOnly(initializer, true),
			loom.Writable(record, false),
		},
		Data: mustEncode(TagResetTimeLock, nil),
	}
}

// NewCancelInstruction returns the deposit into refund and closes the
// escrow.
func NewCancelInstruction(initializer, tempHolding, refund, record loom.Address) loom.Instruction {
	authority, _ := Authority(ProgramID)
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(initializer, true),
			loom.Writable(tempHolding, false),
			loom.Writable(refund, false),
			loom.Writable(record, false),
			loom.ReadOnly(token.ProgramID, false),
			loom.ReadOnly(authority, false),
		},
		Data: mustEncode(TagCancel, nil),
	}
}

func mustEncode(tag uint8, args interface{}) []byte {
	data, err := loom.EncodeInstructionData(tag, args)
	if err != nil {
		panic(err)
	}
	return data
}
