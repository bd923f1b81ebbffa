package lever

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// PowerStatus is the data of a power account.
type PowerStatus struct {
	IsOn bool
}

func (p *PowerStatus) Marshal() ([]byte, error) {
	raw, err := bin.MarshalBorsh(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return raw, nil
}

func (p *PowerStatus) Unmarshal(raw []byte) error {
	if err := bin.UnmarshalBorsh(p, raw); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return nil
}

func (p PowerStatus) String() string {
	if p.IsOn {
		return "on"
	}
	return "off"
}

func loadStatus(info *loom.AccountInfo, programID loom.Address) (*PowerStatus, error) {
	if !info.IsOwnedBy(programID) {
		return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "power %s", info.Key)
	}
	var p PowerStatus
	if err := p.Unmarshal(info.Data); err != nil {
		return nil, err
	}
	return &p, nil
}

func storeStatus(info *loom.AccountInfo, p *PowerStatus) error {
	raw, err := p.Marshal()
	if err != nil {
		return err
	}
	if len(raw) != len(info.Data) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "power %s has %d bytes, want %d", info.Key, len(info.Data), len(raw))
	}
	copy(info.Data, raw)
	return nil
}
