package vm

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/ledger"
	"github.com/iov-one/loom/x"
)

// Executor runs the instructions of a transaction against the account
// store.
type Executor struct {
	registry *Registry
	auth     x.Authenticator
	accounts ledger.Bucket
	metrics  *Metrics
}

var _ loom.Handler = (*Executor)(nil)

// NewExecutor returns an executor running programs of registry. Signers of
// every instruction are checked against auth.
func NewExecutor(registry *Registry, auth x.Authenticator) *Executor {
	return &Executor{
		registry: registry,
		auth:     auth,
		accounts: ledger.NewBucket(),
	}
}

// WithMetrics returns a copy of the executor reporting to m.
func (e *Executor) WithMetrics(m *Metrics) *Executor {
	c := *e
	c.metrics = m
	return &c
}

// Check executes the transaction. Changes are kept in the check state so
// that following transactions of the same block see them.
func (e *Executor) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	log, err := e.execute(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &loom.CheckResult{Log: log}, nil
}

// Deliver executes the transaction.
func (e *Executor) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	log, err := e.execute(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &loom.DeliverResult{Log: log}, nil
}

func (e *Executor) execute(ctx loom.Context, db loom.KVStore, tx loom.Tx) (string, error) {
	ixs := tx.GetInstructions()
	if len(ixs) == 0 {
		return "", errors.Wrap(errors.ErrInvalidInstruction, "no instructions")
	}
	for i, ix := range ixs {
		if err := ix.Validate(); err != nil {
			return "", errors.Wrapf(err, "instruction %d", i)
		}
		for _, m := range ix.Accounts {
			if m.IsSigner && !e.auth.HasAddress(ctx, m.Address) {
				return "", errors.Wrapf(errors.ErrMissingRequiredSignature, "instruction %d: account %s", i, m.Address)
			}
		}
	}
	if _, err := loom.CurrentClock(ctx); err != nil {
		return "", err
	}
	rent, err := LoadRent(db)
	if err != nil {
		return "", errors.Wrap(err, "rent")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return "", errors.Wrap(err, "configuration")
	}

	txn := newTxAccounts(e.accounts)
	if err := txn.load(db, ixs); err != nil {
		return "", err
	}

	rec := &loom.LogRecorder{}
	ctx = loom.WithLogRecorder(ctx, rec)
	for i, ix := range ixs {
		f := &frame{
			ctx:       ctx,
			exec:      e,
			txn:       txn,
			rent:      rent,
			conf:      conf,
			programID: ix.ProgramID,
			accounts:  txn.infos(ix.Accounts),
			stack:     []loom.Address{ix.ProgramID},
		}
		if err := f.run(ix.Data); err != nil {
			return rec.String(), errors.Wrapf(err, "instruction %d", i)
		}
	}
	if err := txn.commit(db); err != nil {
		return rec.String(), err
	}
	return rec.String(), nil
}
