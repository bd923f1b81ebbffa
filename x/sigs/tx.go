package sigs

import (
	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction content without signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the tx.
	GetSignatures() []*StdSignature
}

// StdSignature is a single ed25519 signature over the sign bytes of a
// transaction, bound to the signer sequence.
type StdSignature struct {
	Pubkey    loom.Address
	Signature solana.Signature
	Sequence  int64
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(errors.ErrSequence, "negative")
	}
	if s.Pubkey.IsZero() {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature.IsZero() {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
