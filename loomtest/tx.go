package loomtest

import "github.com/iov-one/loom"

// Tx is a mock implementation of the loom.Tx interface. It carries a fixed
// list of instructions.
type Tx struct {
	Instructions []loom.Instruction
	// Err if set is returned by the serialization methods.
	Err error
}

var _ loom.Tx = (*Tx)(nil)

func (tx *Tx) GetInstructions() []loom.Instruction {
	return tx.Instructions
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	return nil, tx.Err
}
