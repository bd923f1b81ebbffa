package loom

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/loom/errors"
)

// Account is the unit of durable state. The owner program is the only one
// allowed to change its data or take lamports from it. An account holding
// zero lamports does not exist.
type Account struct {
	Lamports   uint64
	Data       []byte
	Owner      Address
	Executable bool
}

// NewAccount returns an account owned by owner with space zeroed bytes of
// data.
func NewAccount(lamports uint64, space int, owner Address) *Account {
	return &Account{
		Lamports: lamports,
		Data:     make([]byte, space),
		Owner:    owner,
	}
}

func (a *Account) Marshal() ([]byte, error) {
	raw, err := bin.MarshalBorsh(*a)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

func (a *Account) Unmarshal(raw []byte) error {
	if err := bin.UnmarshalBorsh(a, raw); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// Validate returns an error for accounts that can never be stored.
func (a *Account) Validate() error {
	if a.Executable && len(a.Data) != 0 {
		return errors.Wrap(errors.ErrModel, "executable account cannot hold data")
	}
	return nil
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	c := *a
	if a.Data != nil {
		c.Data = make([]byte, len(a.Data))
		copy(c.Data, a.Data)
	}
	return &c
}

// IsDataZeroed returns true if every data byte is zero.
func (a *Account) IsDataZeroed() bool {
	for _, b := range a.Data {
		if b != 0 {
			return false
		}
	}
	return true
}

// AccountInfo is the view of an account a program receives for one
// instruction. Infos that name the same key within a transaction share the
// same Account.
type AccountInfo struct {
	Key        Address
	IsSigner   bool
	IsWritable bool
	*Account
}

// IsOwnedBy returns true if the account is owned by given program.
func (a *AccountInfo) IsOwnedBy(programID Address) bool {
	return a.Owner == programID
}

// AddLamports credits the account, failing on overflow.
func (a *AccountInfo) AddLamports(amount uint64) error {
	total := a.Lamports + amount
	if total < a.Lamports {
		return errors.Wrapf(errors.ErrAmountOverflow, "%s balance", a.Key)
	}
	a.Lamports = total
	return nil
}

// SubLamports debits the account, failing if the balance is too low.
func (a *AccountInfo) SubLamports(amount uint64) error {
	if a.Lamports < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%s has %d, need %d", a.Key, a.Lamports, amount)
	}
	a.Lamports -= amount
	return nil
}

// Close moves every lamport of the account to dest and zeroes its data.
// The account is removed from the store once the transaction commits.
func (a *AccountInfo) Close(dest *AccountInfo) error {
	if dest.Account == a.Account {
		return errors.Wrap(errors.ErrInvalidArgument, "cannot close an account into itself")
	}
	if err := dest.AddLamports(a.Lamports); err != nil {
		return err
	}
	a.Lamports = 0
	for i := range a.Data {
		a.Data[i] = 0
	}
	return nil
}

// AccountCursor hands out instruction accounts in the order the caller
// supplied them.
type AccountCursor struct {
	accounts []*AccountInfo
	pos      int
}

// NewAccountCursor returns a cursor positioned at the first account.
func NewAccountCursor(accounts []*AccountInfo) *AccountCursor {
	return &AccountCursor{accounts: accounts}
}

// Next returns the next account or ErrNotEnoughAccountKeys when the
// caller supplied fewer accounts than the instruction requires.
func (c *AccountCursor) Next() (*AccountInfo, error) {
	if c.pos >= len(c.accounts) {
		return nil, errors.Wrapf(errors.ErrNotEnoughAccountKeys, "account %d missing", c.pos)
	}
	a := c.accounts[c.pos]
	c.pos++
	return a, nil
}

// NextSigner is Next that additionally requires the account to have signed.
func (c *AccountCursor) NextSigner() (*AccountInfo, error) {
	a, err := c.Next()
	if err != nil {
		return nil, err
	}
	if !a.IsSigner {
		return nil, errors.Wrapf(errors.ErrMissingRequiredSignature, "account %s", a.Key)
	}
	return a, nil
}

// Remaining returns all accounts not yet consumed.
func (c *AccountCursor) Remaining() []*AccountInfo {
	return c.accounts[c.pos:]
}
