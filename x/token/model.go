package token

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// ProgramID of the token program.
var ProgramID = loom.MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

const (
	// MintLen is the size of the data of a mint account.
	MintLen = 42
	// AccountLen is the size of the data of a token account.
	AccountLen = 73
)

// Mint describes a token.
type Mint struct {
	MintAuthority loom.Address
	Supply        uint64
	Decimals      uint8
	Initialized   bool
}

func (m *Mint) Marshal() ([]byte, error) {
	return marshalFixed(m, MintLen)
}

func (m *Mint) Unmarshal(raw []byte) error {
	return unmarshalFixed(m, raw, MintLen)
}

// TokenAccount holds the balance of a single mint.
type TokenAccount struct {
	Mint        loom.Address
	Owner       loom.Address
	Amount      uint64
	Initialized bool
}

func (a *TokenAccount) Marshal() ([]byte, error) {
	return marshalFixed(a, AccountLen)
}

func (a *TokenAccount) Unmarshal(raw []byte) error {
	return unmarshalFixed(a, raw, AccountLen)
}

func marshalFixed(v interface{}, size int) ([]byte, error) {
	raw, err := bin.MarshalBorsh(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	if len(raw) != size {
		return nil, errors.Wrapf(errors.ErrHuman, "encoded %d bytes, want %d", len(raw), size)
	}
	return raw, nil
}

func unmarshalFixed(v interface{}, raw []byte, size int) error {
	if len(raw) != size {
		return errors.Wrapf(errors.ErrInvalidAccountData, "%d bytes, want %d", len(raw), size)
	}
	if err := bin.UnmarshalBorsh(v, raw); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return nil
}

// store writes m into the account data, which must be of the right size.
func store(info *loom.AccountInfo, m loom.Marshaller) error {
	raw, err := m.Marshal()
	if err != nil {
		return err
	}
	if len(info.Data) != len(raw) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "account %s has %d bytes, want %d", info.Key, len(info.Data), len(raw))
	}
	copy(info.Data, raw)
	return nil
}

func readState(info *loom.AccountInfo, dst loom.Persistent) error {
	if !info.IsOwnedBy(ProgramID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "account %s is not a token account", info.Key)
	}
	return errors.Wrapf(dst.Unmarshal(info.Data), "account %s", info.Key)
}

// LoadMint reads an initialized mint.
func LoadMint(info *loom.AccountInfo) (*Mint, error) {
	var m Mint
	if err := readState(info, &m); err != nil {
		return nil, err
	}
	if !m.Initialized {
		return nil, errors.Wrapf(errors.ErrUninitializedAccount, "mint %s", info.Key)
	}
	return &m, nil
}

// LoadAccount reads an initialized token account.
func LoadAccount(info *loom.AccountInfo) (*TokenAccount, error) {
	var a TokenAccount
	if err := readState(info, &a); err != nil {
		return nil, err
	}
	if !a.Initialized {
		return nil, errors.Wrapf(errors.ErrUninitializedAccount, "token account %s", info.Key)
	}
	return &a, nil
}
