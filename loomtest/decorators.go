package loomtest

import (
	"fmt"

	"github.com/iov-one/loom"
)

// Decorator is a mock loom.Decorator. Every call is counted when it
// enters, whatever happens next.
//
// A set CheckErr or DeliverErr is returned without calling the next
// handler. Writes are applied to the store before the next handler runs,
// or after it succeeded when WriteAfter is set. A positive PanicFrom makes
// the decorator panic at that block height and above.
type Decorator struct {
	checks, delivers int

	CheckErr   error
	DeliverErr error

	Writes     []loom.Model
	WriteAfter bool

	PanicFrom int64
}

var _ loom.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	d.checks++
	if err := d.before(ctx, db, d.CheckErr); err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return res, d.after(db)
}

func (d *Decorator) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	d.delivers++
	if err := d.before(ctx, db, d.DeliverErr); err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return res, d.after(db)
}

func (d *Decorator) before(ctx loom.Context, db loom.KVStore, fail error) error {
	if d.PanicFrom > 0 {
		if h, ok := loom.GetHeight(ctx); ok && h >= d.PanicFrom {
			panic(fmt.Sprintf("decorator reached height %d", h))
		}
	}
	if fail != nil {
		return fail
	}
	if d.WriteAfter {
		return nil
	}
	return write(db, d.Writes)
}

func (d *Decorator) after(db loom.KVStore) error {
	if !d.WriteAfter {
		return nil
	}
	return write(db, d.Writes)
}

// CheckCallCount returns the number of Check calls.
func (d *Decorator) CheckCallCount() int { return d.checks }

// DeliverCallCount returns the number of Deliver calls.
func (d *Decorator) DeliverCallCount() int { return d.delivers }

// CallCount returns the number of Check and Deliver calls.
func (d *Decorator) CallCount() int { return d.checks + d.delivers }

// Decorate returns a handler that runs h behind d.
func Decorate(h loom.Handler, d loom.Decorator) loom.Handler {
	return decorated{handler: h, decorator: d}
}

type decorated struct {
	handler   loom.Handler
	decorator loom.Decorator
}

func (d decorated) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.handler)
}

func (d decorated) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.handler)
}
