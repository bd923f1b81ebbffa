package orm

import (
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/loom/errors"
)

// Counter is a minimal model used to exercise buckets and indexes.
type Counter struct {
	Count int64
}

func NewCounter(count int64) *Counter {
	return &Counter{Count: count}
}

func (c *Counter) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(c)
}

func (c *Counter) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrap(errors.ErrState, "invalid counter length")
	}
	if err := bin.UnmarshalBorsh(c, raw); err != nil {
		return errors.Wrap(errors.ErrState, err.Error())
	}
	return nil
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative count")
	}
	return nil
}

func encodeCount(n int64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(n))
	return raw
}
