package token

import (
	"github.com/iov-one/loom/errors"
)

// Token program reserves 70~79 error codes
var (
	ErrMintMismatch   = errors.Register(70, "account does not belong to the mint")
	ErrOwnerMismatch  = errors.Register(71, "owner does not match")
	ErrNonZeroBalance = errors.Register(72, "account with tokens cannot be closed")
)
