package loom

import "github.com/iov-one/loom/errors"

// Clock is the time source a program reads. Slot is the block height the
// instruction executes in. UnixTimestamp is the block wall time, zero when
// the block carries none.
type Clock struct {
	Slot          uint64
	UnixTimestamp int64
}

// CurrentClock builds the clock for the block declared in the context. It
// is computed on every call and never cached.
func CurrentClock(ctx Context) (Clock, error) {
	height, ok := GetHeight(ctx)
	if !ok {
		return Clock{}, errors.Wrap(errors.ErrHuman, "block height not present in the context")
	}
	if height < 0 {
		return Clock{}, errors.Wrapf(errors.ErrState, "negative height %d", height)
	}
	c := Clock{Slot: uint64(height)}
	if t, err := BlockTime(ctx); err == nil {
		c.UnixTimestamp = t.Unix()
	}
	return c, nil
}
