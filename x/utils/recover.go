package utils

import (
	"strings"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// Recovery turns a panic raised while a transaction runs into an ErrPanic
// naming the programs the transaction calls.
type Recovery struct{}

var _ loom.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (_ *loom.CheckResult, err error) {
	defer recoverProgram(ctx, tx, &err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (_ *loom.DeliverResult, err error) {
	defer recoverProgram(ctx, tx, &err)
	return next.Deliver(ctx, db, tx)
}

// recoverProgram must be deferred directly, recover only works one frame
// below the panic.
func recoverProgram(ctx loom.Context, tx loom.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	ids := programsOf(tx)
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	programs := strings.Join(names, ",")
	loom.GetLogger(ctx).Error("program panic", "programs", programs, "panic", r)
	*err = errors.Wrapf(errors.ErrPanic, "programs [%s]: %v", programs, r)
}
