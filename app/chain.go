package app

import (
	"reflect"

	"github.com/iov-one/loom"
)

// Decorators is an ordered chain of decorators, not yet resolved by a
// Handler. The first decorator is the outermost one.
type Decorators []loom.Decorator

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (usually the program executor),
returns a Handler that will execute this whole stack.

	app.ChainDecorators(
	  utils.NewLogging(),
	  utils.NewRecovery(),
	  sigs.NewDecorator(),
	  utils.NewSavepoint().OnCheck(),
	).WithHandler(
	  vm.NewExecutor(registry, auth),
	)

Nil decorators are skipped, so optional parts of a stack can be passed
unconditionally.
*/
func ChainDecorators(chain ...loom.Decorator) Decorators {
	return Decorators(nil).Chain(chain...)
}

// Chain returns a new chain with the given decorators appended.
func (d Decorators) Chain(chain ...loom.Decorator) Decorators {
	out := make(Decorators, 0, len(d)+len(chain))
	out = append(out, d...)
	for _, dec := range chain {
		if !isNil(dec) {
			out = append(out, dec)
		}
	}
	return out
}

func isNil(d loom.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler resolves the stack and returns a Handler that passes
// through every decorator before calling h.
func (d Decorators) WithHandler(h loom.Handler) loom.Handler {
	for i := len(d) - 1; i >= 0; i-- {
		h = step{d: d[i], next: h}
	}
	return h
}

// step is one decorator bound to the rest of the stack.
type step struct {
	d    loom.Decorator
	next loom.Handler
}

var _ loom.Handler = step{}

func (s step) Check(ctx loom.Context, store loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx loom.Context, store loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
