package ledger

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/orm"
)

// BucketName is where we store the accounts
const BucketName = "accounts"

// NativeLoaderID owns the executable accounts of the built-in programs.
var NativeLoaderID = loom.MustParseAddress("NativeLoader1111111111111111111111111111111")

// Bucket stores accounts by address with a secondary index on the owner.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes an account bucket with the owner index.
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(loom.Account))).
		WithIndex("owner", ownerIndexer, false)
	return Bucket{Bucket: b}
}

func ownerIndexer(obj orm.Object) ([]byte, error) {
	acct, ok := obj.Value().(*loom.Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return acct.Owner.Bytes(), nil
}

// RegisterQuery exposes "/accounts" and "/accounts/owner".
func RegisterQuery(qr loom.QueryRouter) {
	NewBucket().Register(BucketName, qr)
}

// Load returns the account stored under addr, or nil if it does not exist.
func (b Bucket) Load(db loom.ReadOnlyKVStore, addr loom.Address) (*loom.Account, error) {
	obj, err := b.Get(db, addr.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "load account %s", addr)
	}
	if obj == nil {
		return nil, nil
	}
	return obj.Value().(*loom.Account), nil
}

// Store writes the account under addr. An account without lamports is
// removed instead.
func (b Bucket) Store(db loom.KVStore, addr loom.Address, acct *loom.Account) error {
	if acct == nil || acct.Lamports == 0 {
		return b.Delete(db, addr.Bytes())
	}
	if err := b.Save(db, orm.NewSimpleObj(addr.Bytes(), acct)); err != nil {
		return errors.Wrapf(err, "store account %s", addr)
	}
	return nil
}

// Keyed is an account together with its address.
type Keyed struct {
	Address loom.Address
	*loom.Account
}

// ByOwner returns all accounts owned by given program, sorted by address.
func (b Bucket) ByOwner(db loom.ReadOnlyKVStore, owner loom.Address) ([]Keyed, error) {
	objs, err := b.GetIndexed(db, "owner", owner.Bytes())
	if err != nil {
		return nil, err
	}
	res := make([]Keyed, 0, len(objs))
	for _, obj := range objs {
		addr, err := loom.AddressFromBytes(obj.Key())
		if err != nil {
			return nil, err
		}
		res = append(res, Keyed{Address: addr, Account: obj.Value().(*loom.Account)})
	}
	return res, nil
}
