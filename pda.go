package loom

import (
	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/loom/errors"
)

// Seeds is one signer seed set, bump seed included. A program passes it to
// Host.Invoke as the proof that the derived address it signs for belongs to
// the program. The host verifies it by recomputing the address.
type Seeds [][]byte

// FindProgramAddress derives the off-curve address controlled by
// programID for given seeds. It returns the address and the bump seed that
// must be appended to the seeds to recreate it.
//
// Nobody holds a private key for the returned address. Only programID can
// sign for it, by passing the seeds with the bump to Host.Invoke.
func FindProgramAddress(programID Address, seeds ...[]byte) (Address, uint8, error) {
	// Copy so that the bump append below never writes into the caller
	// slice.
	s := make([][]byte, len(seeds), len(seeds)+1)
	copy(s, seeds)
	pk, bump, err := solana.FindProgramAddress(s, solana.PublicKey(programID))
	if err != nil {
		return Address{}, 0, errors.Wrap(errors.ErrInvalidSeeds, err.Error())
	}
	return Address(pk), bump, nil
}

// CreateProgramAddress recomputes a program derived address from the full
// seed set, bump included. An error is returned if the seeds produce a
// point on the ed25519 curve.
func CreateProgramAddress(programID Address, seeds Seeds) (Address, error) {
	pk, err := solana.CreateProgramAddress(seeds, solana.PublicKey(programID))
	if err != nil {
		return Address{}, errors.Wrap(errors.ErrInvalidSeeds, err.Error())
	}
	return Address(pk), nil
}

// SignerSeeds returns the seed set for a derived address found with
// FindProgramAddress, ready to be passed to Host.Invoke.
func SignerSeeds(bump uint8, seeds ...[]byte) Seeds {
	s := make(Seeds, 0, len(seeds)+1)
	s = append(s, seeds...)
	return append(s, []byte{bump})
}
