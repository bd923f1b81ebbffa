package vm

import (
	"time"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// frame is a single program call. It is the Host the program runs with.
type frame struct {
	ctx       loom.Context
	exec      *Executor
	txn       *txAccounts
	rent      loom.Rent
	conf      Configuration
	programID loom.Address
	accounts  []*loom.AccountInfo
	stack     []loom.Address
	snap      *snapshot
}

var _ loom.Host = (*frame)(nil)

func (f *frame) Clock() loom.Clock {
	// Presence of the height is checked before any program runs.
	c, _ := loom.CurrentClock(f.ctx)
	return c
}

func (f *frame) Rent() loom.Rent {
	return f.rent
}

// run executes the program of this frame and verifies its changes.
func (f *frame) run(data []byte) error {
	prog, ok := f.exec.registry.Program(f.programID)
	if !ok {
		return errors.Wrapf(errors.ErrUnknownProgram, "%s", f.programID)
	}
	name := f.exec.registry.Name(f.programID)
	f.snap = takeSnapshot(f.accounts)

	start := time.Now()
	err := prog.Process(f.ctx, f, f.programID, f.accounts, data)
	if err == nil {
		err = f.snap.verify(f.programID)
	}
	f.exec.metrics.observe(name, time.Since(start), err)
	if err != nil {
		return errors.Wrapf(err, "program %s", name)
	}
	return nil
}

func (f *frame) Invoke(ctx loom.Context, ix loom.Instruction, signers ...loom.Seeds) error {
	if uint32(len(f.stack)) >= f.conf.MaxCallDepth {
		return errors.Wrapf(errors.ErrCallDepth, "max %d", f.conf.MaxCallDepth)
	}
	// Only a program calling itself directly may appear twice on the stack.
	for i, id := range f.stack {
		if id == ix.ProgramID && i != len(f.stack)-1 {
			return errors.Wrapf(errors.ErrReentrancy, "program %s", ix.ProgramID)
		}
	}

	derived := make(map[loom.Address]bool, len(signers))
	for _, seeds := range signers {
		addr, err := loom.CreateProgramAddress(f.programID, seeds)
		if err != nil {
			return err
		}
		derived[addr] = true
	}

	for _, m := range ix.Accounts {
		signer, writable, ok := f.privileges(m.Address)
		if !ok {
			return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "account %s not passed to the caller", m.Address)
		}
		if m.IsWritable && !writable {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "account %s is not writable", m.Address)
		}
		if m.IsSigner && !signer && !derived[m.Address] {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "account %s did not sign", m.Address)
		}
	}

	// Changes made so far belong to the caller and must be valid before the
	// callee can build on them.
	if err := f.snap.verify(f.programID); err != nil {
		return err
	}

	callee := &frame{
		ctx:       ctx,
		exec:      f.exec,
		txn:       f.txn,
		rent:      f.rent,
		conf:      f.conf,
		programID: ix.ProgramID,
		accounts:  f.txn.infos(ix.Accounts),
		stack:     append(append([]loom.Address(nil), f.stack...), ix.ProgramID),
	}
	if err := callee.run(ix.Data); err != nil {
		return err
	}
	f.snap.refresh()
	return nil
}

// privileges returns the merged signer and writable flags the caller holds
// for given account.
func (f *frame) privileges(addr loom.Address) (signer, writable, ok bool) {
	for _, a := range f.accounts {
		if a.Key != addr {
			continue
		}
		ok = true
		signer = signer || a.IsSigner
		writable = writable || a.IsWritable
	}
	return signer, writable, ok
}
