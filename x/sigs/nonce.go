package sigs

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing. If the signer was never seen, counting starts with
// zero.
func NextNonce(db loom.ReadOnlyKVStore, signer loom.Address) (int64, error) {
	obj, err := NewBucket().Get(db, signer.Bytes())
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	if u := AsUser(obj); u != nil {
		return u.Sequence, nil
	}
	return 0, nil
}
