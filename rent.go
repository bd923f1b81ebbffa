package loom

import (
	"math"
	"math/bits"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/loom/errors"
)

// AccountStorageOverhead is the number of bytes every account is charged
// for on top of its data.
const AccountStorageOverhead = 128

// MaxAccountDataLen is the biggest data an account can be created with.
const MaxAccountDataLen = 10 * 1024 * 1024

// Rent describes how much a stored account must hold to be kept forever.
type Rent struct {
	LamportsPerByteYear uint64 `json:"lamports_per_byte_year"`
	ExemptionYears      uint64 `json:"exemption_years"`
}

// DefaultRent returns the rent parameters used when genesis declares none.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionYears:      2,
	}
}

// MinimumBalance returns the lamports an account with dataLen bytes of data
// must hold to be rent exempt. A balance that does not fit in a uint64
// is reported as math.MaxUint64.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	min, ok := r.minimumBalance(dataLen)
	if !ok {
		return math.MaxUint64
	}
	return min
}

func (r Rent) minimumBalance(dataLen int) (uint64, bool) {
	hi, perYear := bits.Mul64(uint64(AccountStorageOverhead+dataLen), r.LamportsPerByteYear)
	if hi != 0 {
		return 0, false
	}
	hi, total := bits.Mul64(perYear, r.ExemptionYears)
	return total, hi == 0
}

// IsExempt returns true if balance is enough to keep an account of dataLen
// bytes.
func (r Rent) IsExempt(balance uint64, dataLen int) bool {
	return balance >= r.MinimumBalance(dataLen)
}

func (r Rent) Validate() error {
	if r.LamportsPerByteYear == 0 {
		return errors.Wrap(errors.ErrModel, "lamports per byte year must be positive")
	}
	if r.ExemptionYears == 0 {
		return errors.Wrap(errors.ErrModel, "exemption years must be positive")
	}
	if _, ok := r.minimumBalance(MaxAccountDataLen); !ok {
		return errors.Wrap(errors.ErrAmountOverflow, "minimum balance of the largest account")
	}
	return nil
}

func (r Rent) Marshal() ([]byte, error) {
	raw, err := bin.MarshalBorsh(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

func (r *Rent) Unmarshal(raw []byte) error {
	if err := bin.UnmarshalBorsh(r, raw); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}
