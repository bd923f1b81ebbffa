package escrow

import (
	"github.com/iov-one/loom/errors"
)

// Escrow program reserves 60~69 error codes
var (
	ErrExpectedAmountMismatch = errors.Register(60, "offered amount does not match the deposit")
	ErrEscrowUnlockTime       = errors.Register(61, "escrow is still locked")
	ErrEscrowTimeout          = errors.Register(62, "escrow timed out")
)
