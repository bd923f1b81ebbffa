package ledger

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

const optKey = "accounts"

// GenesisAccount is used to parse the json from genesis file. Data is
// base64 encoded.
type GenesisAccount struct {
	Address    loom.Address `json:"address"`
	Lamports   uint64       `json:"lamports"`
	Owner      loom.Address `json:"owner"`
	Data       []byte       `json:"data,omitempty"`
	Executable bool         `json:"executable,omitempty"`
}

// Initializer loads the accounts declared in the genesis file.
type Initializer struct{}

var _ loom.Initializer = Initializer{}

// FromGenesis stores every account listed under "accounts".
func (Initializer) FromGenesis(opts loom.Options, params loom.GenesisParams, kv loom.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	bucket := NewBucket()
	for i, a := range accts {
		if a.Lamports == 0 {
			return errors.Wrapf(errors.ErrInput, "account %d (%s) without lamports", i, a.Address)
		}
		if prev, err := bucket.Load(kv, a.Address); err != nil {
			return err
		} else if prev != nil {
			return errors.Wrapf(errors.ErrDuplicate, "account %s", a.Address)
		}
		acct := &loom.Account{
			Lamports:   a.Lamports,
			Data:       a.Data,
			Owner:      a.Owner,
			Executable: a.Executable,
		}
		if err := bucket.Store(kv, a.Address, acct); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
