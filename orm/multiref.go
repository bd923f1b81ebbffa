package orm

import (
	"bytes"
	"sort"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/loom/errors"
)

var _ Model = (*MultiRef)(nil)

// MultiRef is a sorted set of primary keys, the value of a non unique
// index entry.
type MultiRef struct {
	Refs [][]byte
}

// NewMultiRef fails if refs holds a duplicate.
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	m := new(MultiRef)
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MultiRef) Marshal() ([]byte, error) {
	raw, err := bin.MarshalBorsh(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

func (m *MultiRef) Unmarshal(raw []byte) error {
	if err := bin.UnmarshalBorsh(m, raw); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

func (m *MultiRef) Size() int {
	return len(m.Refs)
}

// Add inserts ref in order. It fails with ErrDuplicate if ref is present.
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.search(ref)
	if found {
		return errors.Wrapf(errors.ErrDuplicate, "ref %X", ref)
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove fails with ErrNotFound if ref is missing.
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.search(ref)
	if !found {
		return errors.Wrapf(errors.ErrNotFound, "ref %X", ref)
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// search returns the position of ref, or where it would be inserted.
func (m *MultiRef) search(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}

// Validate rejects an empty set, which is never stored.
func (m *MultiRef) Validate() error {
	if len(m.Refs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}
