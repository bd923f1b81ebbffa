package escrow

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

const (
	// Len is the size of the data of an escrow record account.
	Len = 121

	// UnlockDelay is the number of slots after initialization before an
	// exchange is accepted.
	UnlockDelay = 100
	// TimeoutDelay is the number of slots the exchange window stays open.
	TimeoutDelay = 1000
)

// Escrow is the record of a single pending swap.
type Escrow struct {
	Initialized bool
	// Initializer created the escrow and receives every refund.
	Initializer loom.Address
	// TempHolding is the token account holding the deposit. It is owned by
	// the escrow authority while the escrow exists.
	TempHolding loom.Address
	// InitializerReceive is the token account the taker pays into.
	InitializerReceive loom.Address
	// ExpectedAmount is what the initializer wants in return.
	ExpectedAmount uint64
	UnlockTime     uint64
	TimeoutTime    uint64
}

func (e *Escrow) Marshal() ([]byte, error) {
	raw, err := bin.MarshalBorsh(e)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return raw, nil
}

func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) != Len {
		return errors.Wrapf(errors.ErrInvalidAccountData, "%d bytes, want %d", len(raw), Len)
	}
	if err := bin.UnmarshalBorsh(e, raw); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return nil
}

// Validate ensures the window of an initialized record is consistent.
func (e *Escrow) Validate() error {
	if !e.Initialized {
		return nil
	}
	if e.UnlockTime >= e.TimeoutTime {
		return errors.Wrapf(errors.ErrInvalidAccountData, "unlock %d not before timeout %d", e.UnlockTime, e.TimeoutTime)
	}
	return nil
}

// ResetTimeLock opens a new window starting at now.
func (e *Escrow) ResetTimeLock(now uint64) error {
	unlock := now + UnlockDelay
	if unlock < now {
		return errors.Wrap(errors.ErrAmountOverflow, "unlock time")
	}
	timeout := unlock + TimeoutDelay
	if timeout < unlock {
		return errors.Wrap(errors.ErrAmountOverflow, "timeout time")
	}
	e.UnlockTime = unlock
	e.TimeoutTime = timeout
	return nil
}

// Window tells where a slot is relative to the exchange window.
type Window int

const (
	BeforeWindow Window = iota
	InWindow
	AfterWindow
)

func (w Window) String() string {
	switch w {
	case BeforeWindow:
		return "before window"
	case InWindow:
		return "in window"
	case AfterWindow:
		return "after window"
	default:
		return "unknown window"
	}
}

// WindowAt returns the window state at given slot. Both bounds are part of
// the window.
func (e *Escrow) WindowAt(now uint64) Window {
	switch {
	case now < e.UnlockTime:
		return BeforeWindow
	case now > e.TimeoutTime:
		return AfterWindow
	default:
		return InWindow
	}
}

// load reads an initialized record owned by programID.
func load(info *loom.AccountInfo, programID loom.Address) (*Escrow, error) {
	if info.Lamports == 0 && len(info.Data) == 0 {
		return nil, errors.Wrapf(errors.ErrUninitializedAccount, "escrow %s does not exist", info.Key)
	}
	if !info.IsOwnedBy(programID) {
		return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "escrow %s", info.Key)
	}
	var e Escrow
	if err := e.Unmarshal(info.Data); err != nil {
		return nil, err
	}
	if !e.Initialized {
		return nil, errors.Wrapf(errors.ErrUninitializedAccount, "escrow %s", info.Key)
	}
	return &e, nil
}

// save validates e and writes it into the record account.
func save(info *loom.AccountInfo, e *Escrow) error {
	if err := e.Validate(); err != nil {
		return err
	}
	raw, err := e.Marshal()
	if err != nil {
		return err
	}
	if len(info.Data) != len(raw) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "escrow %s has %d bytes, want %d", info.Key, len(info.Data), len(raw))
	}
	copy(info.Data, raw)
	return nil
}
