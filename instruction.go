package loom

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/loom/errors"
)

// AccountMeta names one account of an instruction. The order of metas is
// part of every program's contract.
type AccountMeta struct {
	Address    Address
	IsSigner   bool
	IsWritable bool
}

// Writable returns the meta of an account the instruction may modify.
func Writable(addr Address, signer bool) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: signer, IsWritable: true}
}

// ReadOnly returns the meta of an account the instruction only reads.
func ReadOnly(addr Address, signer bool) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: signer}
}

// Instruction is a single program call.
type Instruction struct {
	ProgramID Address
	Accounts  []AccountMeta
	Data      []byte
}

func (ix Instruction) Validate() error {
	if len(ix.Data) == 0 {
		return errors.Wrap(errors.ErrInvalidInstruction, "empty data")
	}
	return nil
}

// EncodeInstructionData returns the tag byte followed by the borsh
// encoding of args. args may be nil for instructions without arguments.
func EncodeInstructionData(tag uint8, args interface{}) ([]byte, error) {
	out := []byte{tag}
	if args == nil {
		return out, nil
	}
	raw, err := bin.MarshalBorsh(args)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, err.Error())
	}
	return append(out, raw...), nil
}

// SplitInstructionData returns the tag byte and the argument payload.
func SplitInstructionData(data []byte) (uint8, []byte, error) {
	if len(data) == 0 {
		return 0, nil, errors.Wrap(errors.ErrInvalidInstruction, "missing tag")
	}
	return data[0], data[1:], nil
}

// DecodeInstructionArgs decodes a borsh payload into args. A payload too
// short for args is an invalid instruction.
func DecodeInstructionArgs(payload []byte, args interface{}) error {
	if err := bin.UnmarshalBorsh(args, payload); err != nil {
		return errors.Wrap(errors.ErrInvalidInstruction, err.Error())
	}
	return nil
}
