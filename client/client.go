package client

import (
	"context"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	nm "github.com/tendermint/tendermint/node"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// searchPageSize is the number of transactions requested per search page.
const searchPageSize = 50

// Client talks to a loom node through the tendermint rpc. Subscriptions
// are in subscribe.go, the blocking helpers built on top of them in
// wait.go and account reads in accounts.go.
type Client struct {
	conn rpcclient.Client
}

// NewClient uses an existing tendermint rpc connection.
func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn}
}

// NewLocalClient connects to a node running in the same process.
func NewLocalClient(node *nm.Node) *Client {
	return NewClient(NewLocalConnection(node))
}

// Status returns the latest height known to the node.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	res, err := c.conn.Status()
	if err != nil {
		return nil, networkErr("status", err)
	}
	return &Status{
		Height:     res.SyncInfo.LatestBlockHeight,
		CatchingUp: res.SyncInfo.CatchingUp,
	}, nil
}

// Header returns the header of the block at height. It fails when the
// block does not exist yet.
func (c *Client) Header(ctx context.Context, height int64) (*Header, error) {
	res, err := c.conn.BlockchainInfo(height, height)
	if err != nil {
		return nil, networkErr("blockchain info", err)
	}
	if len(res.BlockMetas) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "header at %d", height)
	}
	return &res.BlockMetas[0].Header, nil
}

// SubmitTx broadcasts tx and returns once CheckTx accepted it. A rejection
// is returned as the registered error of its code. Use WatchTx to learn
// the outcome of DeliverTx.
func (c *Client) SubmitTx(ctx context.Context, tx loom.Tx) (TransactionID, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}
	res, err := c.conn.BroadcastTxSync(raw)
	if err != nil {
		return nil, networkErr("broadcast", err)
	}
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		return nil, err
	}
	return TransactionID(res.Hash), nil
}

// Query runs an abci query against the latest committed state. Network
// failures are reported with the ErrNetwork code, so the response can be
// handled like any application error.
func (c *Client) Query(q RequestQuery) ResponseQuery {
	opts := rpcclient.ABCIQueryOptions{Height: q.Height, Prove: q.Prove}
	res, err := c.conn.ABCIQueryWithOptions(q.Path, q.Data, opts)
	if err != nil {
		code, log := errors.ABCIInfo(networkErr("query", err), false)
		return ResponseQuery{Code: code, Log: log}
	}
	return res.Response
}

// GetTxByID returns the committed transaction with given hash.
func (c *Client) GetTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	res, err := c.conn.Tx(id, false)
	if err != nil {
		return nil, networkErr("tx", err)
	}
	r := fromResultTx(res)
	return &r, nil
}

// SearchTx returns every committed transaction matching query, reading
// all result pages.
func (c *Client) SearchTx(ctx context.Context, query TxQuery) ([]*CommitResult, error) {
	var found []*CommitResult
	for page := 1; ; page++ {
		res, err := c.conn.TxSearch(query, false, page, searchPageSize)
		if err != nil {
			return nil, networkErr("tx search", err)
		}
		for _, tx := range res.Txs {
			r := fromResultTx(tx)
			found = append(found, &r)
		}
		if len(res.Txs) < searchPageSize || len(found) >= res.TotalCount {
			return found, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrTimeout, err.Error())
		}
	}
}

func fromResultTx(tx *ctypes.ResultTx) CommitResult {
	return commitResult(tx.Hash, tx.Height, tx.TxResult)
}

func fromEventTx(ev tmtypes.EventDataTx) CommitResult {
	return commitResult(ev.Tx.Hash(), ev.Height, ev.Result)
}

func commitResult(id []byte, height int64, deliver abci.ResponseDeliverTx) CommitResult {
	res, err := loom.ParseDeliverOrError(deliver)
	return CommitResult{ID: id, Height: height, Result: res, Err: err}
}

func networkErr(call string, err error) error {
	return errors.Wrapf(errors.ErrNetwork, "%s: %s", call, err)
}
