package token

import (
	"github.com/iov-one/loom"
)

// Instruction tags.
const (
	TagInitializeMint    uint8 = 0
	TagInitializeAccount uint8 = 1
	TagTransfer          uint8 = 2
	TagSetAuthority      uint8 = 3
	TagCloseAccount      uint8 = 4
	TagMintTo            uint8 = 5
)

type InitializeMintArgs struct {
	Decimals      uint8
	MintAuthority loom.Address
}

type TransferArgs struct {
	Amount uint64
}

type SetAuthorityArgs struct {
	NewOwner loom.Address
}

type MintToArgs struct {
	Amount uint64
}

// NewInitializeMintInstruction initializes an empty mint account owned by
// the token program.
func NewInitializeMintInstruction(mint, authority loom.Address, decimals uint8) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts:  []loom.AccountMeta{loom.Writable(mint, false)},
		Data:      mustEncode(TagInitializeMint, InitializeMintArgs{Decimals: decimals, MintAuthority: authority}),
	}
}

// NewInitializeAccountInstruction initializes an empty token account of
// mint, held by owner.
func NewInitializeAccountInstruction(account, mint, owner loom.Address) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(account, false),
			loom.ReadOnly(mint, false),
			loom.ReadOnly(owner, false),
		},
		Data: mustEncode(TagInitializeAccount, nil),
	}
}

// NewTransferInstruction moves tokens between two accounts of the same
// mint. authority must own the source account.
func NewTransferInstruction(source, destination, authority loom.Address, amount uint64) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(source, false),
			loom.Writable(destination, false),
			loom.ReadOnly(authority, true),
		},
		Data: mustEncode(TagTransfer, TransferArgs{Amount: amount}),
	}
}

// NewSetAuthorityInstruction hands a token account over to newOwner.
func NewSetAuthorityInstruction(account, currentOwner, newOwner loom.Address) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(account, false),
			loom.ReadOnly(currentOwner, true),
		},
		Data: mustEncode(TagSetAuthority, SetAuthorityArgs{NewOwner: newOwner}),
	}
}

// NewCloseAccountInstruction removes an empty token account and sends its
// lamports to destination.
func NewCloseAccountInstruction(account, destination, owner loom.Address) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(account, false),
			loom.Writable(destination, false),
			loom.ReadOnly(owner, true),
		},
		Data: mustEncode(TagCloseAccount, nil),
	}
}

// NewMintToInstruction creates amount new tokens in destination.
func NewMintToInstruction(mint, destination, authority loom.Address, amount uint64) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(mint, false),
			loom.Writable(destination, false),
			loom.ReadOnly(authority, true),
		},
		Data: mustEncode(TagMintTo, MintToArgs{Amount: amount}),
	}
}

func mustEncode(tag uint8, args interface{}) []byte {
	data, err := loom.EncodeInstructionData(tag, args)
	if err != nil {
		panic(err)
	}
	return data
}
