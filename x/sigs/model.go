package sigs

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData holds the replay protection state of a single signer.
type UserData struct {
	Pubkey   loom.Address
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

// Marshal serializes the user with borsh.
func (u *UserData) Marshal() ([]byte, error) {
	raw, err := bin.MarshalBorsh(u)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

// Unmarshal loads the user from its borsh form.
func (u *UserData) Unmarshal(raw []byte) error {
	if err := bin.UnmarshalBorsh(u, raw); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

func (u *UserData) Validate() error {
	if u.Pubkey.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "pubkey")
	}
	if u.Sequence < 0 {
		return errors.Wrap(errors.ErrSequence, "negative")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(errors.ErrSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	next := u.Sequence + 1

	// Clients encode the sequence as a javascript safe integer.
	const maxSequenceValue = (1 << 53) - 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

//-------------------- Object Wrapper -------

// AsUser will safely type-cast any value from Bucket to a UserData
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser constructs an object from a pubkey. A zero pubkey produces the
// bucket prototype.
func NewUser(pubkey loom.Address) orm.Object {
	var key []byte
	if !pubkey.IsZero() {
		key = pubkey.Bytes()
	}
	return orm.NewSimpleObj(key, &UserData{Pubkey: pubkey})
}

// Bucket extends orm.Bucket with GetOrCreate
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewUser(loom.Address{})),
	}
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db loom.KVStore, pubkey loom.Address) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Bytes())
	if err == nil && obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, err
}
