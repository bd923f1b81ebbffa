package loom

// Program is the code owning a set of accounts. Process runs one
// instruction against the accounts the caller named, in order.
//
// A program mutates accounts in place. Every other effect goes through
// host.Invoke. A returned error aborts the whole transaction.
type Program interface {
	Process(ctx Context, host Host, programID Address, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(ctx Context, host Host, programID Address, accounts []*AccountInfo, data []byte) error

func (fn ProgramFunc) Process(ctx Context, host Host, programID Address, accounts []*AccountInfo, data []byte) error {
	return fn(ctx, host, programID, accounts, data)
}

// Host is the runtime a program is executing in. Every program invocation
// gets its own Host.
type Host interface {
	// Invoke runs ix as a cross program invocation. Every account ix
	// names must have been passed to the calling program. An account may
	// be marked as signer only if it signed the caller, or if it is the
	// address derived from the calling program id and one of signers.
	Invoke(ctx Context, ix Instruction, signers ...Seeds) error

	// Clock returns the clock of the executing block.
	Clock() Clock

	// Rent returns the current rent parameters.
	Rent() Rent
}
