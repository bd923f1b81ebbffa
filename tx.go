package loom

// Marshaller is anything that can be represented in binary.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal.
//
// This is separated from Marshal, as this almost always requires a
// pointer, and functions that only need to marshal bytes can use the
// Marshaller interface to access non-pointers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx represent the data sent from the user to the chain. It carries the
// instructions to run in order, along with whatever is needed to
// authenticate the sender.
type Tx interface {
	Persistent

	// GetInstructions returns the instructions to execute. All of them
	// succeed or the transaction has no effect.
	GetInstructions() []Instruction
}

// TxDecoder can parse bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)
