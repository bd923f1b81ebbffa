package client

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/app"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/ledger"
	"github.com/iov-one/loom/x/sigs"
)

// Querier runs abci queries. Both Client and abci.Application implement
// it, so the account helpers work against a remote node and an in-process
// application alike.
type Querier interface {
	Query(RequestQuery) ResponseQuery
}

var _ Querier = (*Client)(nil)

// GetAccount returns the account stored under addr, or nil if there is
// none.
func GetAccount(q Querier, addr loom.Address) (*loom.Account, error) {
	models, err := query(q, "/"+ledger.BucketName, addr.Bytes())
	if err != nil || len(models) == 0 {
		return nil, err
	}
	var acct loom.Account
	if err := acct.Unmarshal(models[0].Value); err != nil {
		return nil, err
	}
	return &acct, nil
}

// AccountsByOwner returns every account owned by the program.
func AccountsByOwner(q Querier, owner loom.Address) ([]ledger.Keyed, error) {
	models, err := query(q, "/"+ledger.BucketName+"/owner", owner.Bytes())
	if err != nil {
		return nil, err
	}
	prefix := len(ledger.BucketName) + 1
	res := make([]ledger.Keyed, 0, len(models))
	for _, m := range models {
		if len(m.Key) < prefix {
			return nil, errors.Wrapf(errors.ErrState, "unexpected key %X", m.Key)
		}
		addr, err := loom.AddressFromBytes(m.Key[prefix:])
		if err != nil {
			return nil, err
		}
		var acct loom.Account
		if err := acct.Unmarshal(m.Value); err != nil {
			return nil, err
		}
		res = append(res, ledger.Keyed{Address: addr, Account: &acct})
	}
	return res, nil
}

// NextSequence returns the sequence the next signature of signer must
// carry.
func NextSequence(q Querier, signer loom.Address) (int64, error) {
	models, err := query(q, "/auth", signer.Bytes())
	if err != nil || len(models) == 0 {
		return 0, err
	}
	var user sigs.UserData
	if err := user.Unmarshal(models[0].Value); err != nil {
		return 0, err
	}
	return user.Sequence, nil
}

func query(q Querier, path string, data []byte) ([]loom.Model, error) {
	res := q.Query(RequestQuery{Path: path, Data: data})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return app.JoinResults(&keys, &values)
}
