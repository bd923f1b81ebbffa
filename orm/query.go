package orm

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// prefixRange returns the iteration bounds covering every key that starts
// with prefix. A nil end means no upper bound.
func prefixRange(prefix []byte) ([]byte, []byte) {
	start := append([]byte(nil), prefix...)
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return start, end[:i+1]
		}
	}
	return start, nil
}

// ConsumeIterator will read all remaining data into an
// array and release the iterator
func ConsumeIterator(it loom.Iterator) ([]loom.Model, error) {
	defer it.Release()

	var res []loom.Model
	for {
		key, value, err := it.Next()
		switch {
		case err == nil:
			res = append(res, loom.Pair(key, value))
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}

func queryPrefix(db loom.ReadOnlyKVStore, prefix []byte) ([]loom.Model, error) {
	start, end := prefixRange(prefix)
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(it)
}
