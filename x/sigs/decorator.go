/*
Package sigs verifies transaction signatures and keeps a sequence per
signer so a signed transaction cannot be replayed.

The Decorator records the verified signers in the context, where
Authenticate reads them. Sequences are stored in the "sigs" bucket and
exposed under the "/auth" query path.
*/
package sigs

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// RegisterQuery exposes the sequences under "/auth".
func RegisterQuery(qr loom.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures of a SignedTx against the chain id of
// the context. Other transactions pass through untouched.
type Decorator struct {
	optional bool
}

var _ loom.Decorator = Decorator{}

// NewDecorator rejects a signed transaction without signatures.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs returns a copy accepting transactions with no
// signature. Signatures that are present must still verify.
func (d Decorator) AllowMissingSigs() Decorator {
	d.optional = true
	return d
}

func (d Decorator) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	ctx, err := d.verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d Decorator) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	ctx, err := d.verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d Decorator) verify(ctx loom.Context, db loom.KVStore, tx loom.Tx) (loom.Context, error) {
	signed, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil
	}
	signers, err := VerifyTxSignatures(db, signed, loom.GetChainID(ctx))
	switch {
	case err != nil:
		return nil, errors.Wrap(err, "verify signatures")
	case len(signers) == 0 && !d.optional:
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), nil
}
