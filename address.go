package loom

import (
	"encoding/json"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/loom/errors"
)

// AddressLength is the length of all addresses.
const AddressLength = solana.PublicKeyLength

// Address is the 32 byte key of an account. It is either an ed25519 public
// key or a program derived address. Its text form is base58.
//
// The zero address is the system program id.
type Address solana.PublicKey

// ParseAddress decodes the base58 text form of an address.
func ParseAddress(s string) (Address, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return Address{}, errors.Wrapf(errors.ErrInput, "address %q: %s", s, err)
	}
	return Address(pk), nil
}

// MustParseAddress is ParseAddress that panics on invalid input. Use it
// only for constant declarations.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromBytes copies b into an address. It returns an error if b is
// not exactly AddressLength long.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, errors.Wrapf(errors.ErrInput, "address length %d", len(b))
	}
	copy(a[:], b)
	return a, nil
}

// PublicKey returns the address as a solana public key.
func (a Address) PublicKey() solana.PublicKey {
	return solana.PublicKey(a)
}

// Bytes returns a copy of the raw address.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// Equals returns true if both addresses are the same.
func (a Address) Equals(b Address) bool {
	return a == b
}

// IsZero returns true for the all zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// IsOnCurve returns true if the address is a valid ed25519 point, which
// means a private key may exist for it. Program derived addresses are
// never on the curve.
func (a Address) IsOnCurve() bool {
	return solana.IsOnCurve(a[:])
}

func (a Address) String() string {
	return solana.PublicKey(a).String()
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "address must be a string")
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(raw []byte) error {
	parsed, err := ParseAddress(string(raw))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
