package vault

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// Len is the size of the data of a vault account.
const Len = 32

// Seed prefixes the seeds of every vault address.
var Seed = []byte("vault")

// Vault is the data of a vault account.
type Vault struct {
	Initializer loom.Address
}

func (v *Vault) Marshal() ([]byte, error) {
	raw, err := bin.MarshalBorsh(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return raw, nil
}

func (v *Vault) Unmarshal(raw []byte) error {
	if len(raw) != Len {
		return errors.Wrapf(errors.ErrInvalidAccountData, "%d bytes, want %d", len(raw), Len)
	}
	if err := bin.UnmarshalBorsh(v, raw); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return nil
}

// Address returns the vault address of initializer and its bump seed.
func Address(programID, initializer loom.Address) (loom.Address, uint8, error) {
	return loom.FindProgramAddress(programID, Seed, initializer.Bytes())
}

// loadFor reads the vault held in info and ensures it belongs to
// initializer.
func loadFor(info *loom.AccountInfo, programID, initializer loom.Address) (*Vault, error) {
	if !info.IsOwnedBy(programID) {
		return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "vault %s", info.Key)
	}
	var v Vault
	if err := v.Unmarshal(info.Data); err != nil {
		return nil, err
	}
	if v.Initializer != initializer {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "vault %s does not belong to %s", info.Key, initializer)
	}
	return &v, nil
}
