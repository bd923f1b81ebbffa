package vm

import (
	"bytes"
	"math/bits"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/ledger"
)

// txAccounts holds every account a transaction references. Each account is
// loaded once and shared by all infos naming it.
type txAccounts struct {
	bucket   ledger.Bucket
	accounts map[loom.Address]*loom.Account
	loaded   map[loom.Address]*loom.Account
	writable map[loom.Address]bool
	order    []loom.Address
}

func newTxAccounts(b ledger.Bucket) *txAccounts {
	return &txAccounts{
		bucket:   b,
		accounts: make(map[loom.Address]*loom.Account),
		loaded:   make(map[loom.Address]*loom.Account),
		writable: make(map[loom.Address]bool),
	}
}

// load reads all accounts of given instructions. A missing account is an
// empty system owned account.
func (t *txAccounts) load(db loom.ReadOnlyKVStore, ixs []loom.Instruction) error {
	for _, ix := range ixs {
		for _, m := range ix.Accounts {
			if m.IsWritable {
				t.writable[m.Address] = true
			}
			if _, ok := t.accounts[m.Address]; ok {
				continue
			}
			acct, err := t.bucket.Load(db, m.Address)
			if err != nil {
				return err
			}
			if acct == nil {
				acct = &loom.Account{}
			}
			t.loaded[m.Address] = acct.Copy()
			t.accounts[m.Address] = acct
			t.order = append(t.order, m.Address)
		}
	}
	return nil
}

func (t *txAccounts) infos(metas []loom.AccountMeta) []*loom.AccountInfo {
	infos := make([]*loom.AccountInfo, len(metas))
	for i, m := range metas {
		infos[i] = &loom.AccountInfo{
			Key:        m.Address,
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
			Account:    t.accounts[m.Address],
		}
	}
	return infos
}

// commit writes back every writable account that changed. Accounts left
// without lamports are removed.
func (t *txAccounts) commit(db loom.KVStore) error {
	for _, addr := range t.order {
		if !t.writable[addr] {
			continue
		}
		acct := t.accounts[addr]
		if sameAccount(t.loaded[addr], acct) {
			continue
		}
		if err := t.bucket.Store(db, addr, acct); err != nil {
			return err
		}
	}
	return nil
}

func sameAccount(a, b *loom.Account) bool {
	return a.Lamports == b.Lamports &&
		a.Owner == b.Owner &&
		a.Executable == b.Executable &&
		bytes.Equal(a.Data, b.Data)
}

// snapshot is the state of the accounts of one frame at the moment the
// frame was entered or last returned from a nested call.
type snapshot struct {
	keys     []loom.Address
	before   map[loom.Address]*loom.Account
	writable map[loom.Address]bool
	current  map[loom.Address]*loom.Account
}

func takeSnapshot(infos []*loom.AccountInfo) *snapshot {
	s := &snapshot{
		before:   make(map[loom.Address]*loom.Account),
		writable: make(map[loom.Address]bool),
		current:  make(map[loom.Address]*loom.Account),
	}
	for _, info := range infos {
		if info.IsWritable {
			s.writable[info.Key] = true
		}
		if _, ok := s.current[info.Key]; ok {
			continue
		}
		s.keys = append(s.keys, info.Key)
		s.current[info.Key] = info.Account
		s.before[info.Key] = info.Account.Copy()
	}
	return s
}

// refresh accepts the current state as the new baseline.
func (s *snapshot) refresh() {
	for _, k := range s.keys {
		s.before[k] = s.current[k].Copy()
	}
}

// verify checks that programID changed only what it may change since the
// snapshot was taken.
func (s *snapshot) verify(programID loom.Address) error {
	var sumBefore, sumAfter uint128
	for _, k := range s.keys {
		pre, post := s.before[k], s.current[k]
		if err := verifyAccount(programID, k, s.writable[k], pre, post); err != nil {
			return err
		}
		sumBefore = sumBefore.add(pre.Lamports)
		sumAfter = sumAfter.add(post.Lamports)
	}
	if sumBefore != sumAfter {
		return errors.Wrapf(errors.ErrUnbalancedInstruction, "program %s", programID)
	}
	return nil
}

func verifyAccount(programID, key loom.Address, writable bool, pre, post *loom.Account) error {
	owned := pre.Owner == programID

	if pre.Owner != post.Owner {
		if !writable || !owned || pre.Executable || !post.IsDataZeroed() {
			return errors.Wrapf(errors.ErrModifiedProgramID, "account %s", key)
		}
	}
	if post.Lamports < pre.Lamports && !owned {
		return errors.Wrapf(errors.ErrExternalLamportSpend, "account %s", key)
	}
	if post.Lamports != pre.Lamports && !writable {
		return errors.Wrapf(errors.ErrReadonlyLamportChange, "account %s", key)
	}
	if !bytes.Equal(pre.Data, post.Data) {
		if !writable {
			return errors.Wrapf(errors.ErrReadonlyDataModified, "account %s", key)
		}
		if !owned {
			return errors.Wrapf(errors.ErrExternalAccountDataModified, "account %s", key)
		}
	}
	if pre.Executable != post.Executable {
		return errors.Wrapf(errors.ErrExecutableModified, "account %s", key)
	}
	return nil
}

// uint128 sums lamports without overflowing.
type uint128 struct {
	hi, lo uint64
}

func (u uint128) add(v uint64) uint128 {
	lo, carry := bits.Add64(u.lo, v, 0)
	return uint128{hi: u.hi + carry, lo: lo}
}
