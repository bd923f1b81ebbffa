package client

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// indexDelay is how long the node needs after a block to index its
// transactions.
const indexDelay = 100 * time.Millisecond

// SubscribeTxByID blocks until the transaction is delivered or ctx is
// done.
func (c *Client) SubscribeTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	results := make(chan CommitResult, 1)
	if err := c.SubscribeTx(ctx, QueryTxByID(id), results); err != nil {
		return nil, err
	}
	res, ok := <-results
	if !ok {
		return nil, errors.Wrap(errors.ErrTimeout, "subscription ended before the tx was delivered")
	}
	return &res, nil
}

// WatchTx blocks until the transaction is in a block. A transaction
// committed before the call is found by a lookup, so there is no race
// between submitting and watching.
func (c *Client) WatchTx(ctx context.Context, id TransactionID) (*CommitResult, error) {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		res *CommitResult
		err error
	}
	delivered := make(chan outcome, 1)
	go func() {
		res, err := c.SubscribeTxByID(subCtx, id)
		delivered <- outcome{res: res, err: err}
	}()

	// a failed lookup only means the tx is not committed yet
	if res, err := c.GetTxByID(ctx, id); err == nil {
		return res, nil
	}
	o := <-delivered
	return o.res, o.err
}

// CommitTx submits tx and waits for it to be delivered.
func (c *Client) CommitTx(ctx context.Context, tx loom.Tx) (*CommitResult, error) {
	id, err := c.SubmitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.WatchTx(ctx, id)
	if err != nil {
		return nil, err
	}
	time.Sleep(indexDelay)
	return res, nil
}

// WatchTxs watches all transactions in parallel. Results are in the order
// of ids. If any watch fails one of the errors is returned.
func (c *Client) WatchTxs(ctx context.Context, ids []TransactionID) ([]*CommitResult, error) {
	results := make([]*CommitResult, len(ids))
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first error
	)
	for i, id := range ids {
		if id == nil {
			continue
		}
		wg.Add(1)
		go func(i int, id TransactionID) {
			defer wg.Done()
			res, err := c.WatchTx(ctx, id)
			if err != nil {
				mu.Lock()
				if first == nil {
					first = err
				}
				mu.Unlock()
				return
			}
			results[i] = res
		}(i, id)
	}
	wg.Wait()
	if first != nil {
		return nil, first
	}
	return results, nil
}

// CommitTxs submits all transactions in order and waits until every one
// of them is delivered. A CheckTx rejection stops the submission and is
// returned. DeliverTx failures are reported in the Err field of each
// result.
func (c *Client) CommitTxs(ctx context.Context, txs []loom.Tx) ([]*CommitResult, error) {
	ids := make([]TransactionID, 0, len(txs))
	for _, tx := range txs {
		id, err := c.SubmitTx(ctx, tx)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return c.WatchTxs(ctx, ids)
}

// WaitForNextBlock returns the header of the next block.
func (c *Client) WaitForNextBlock(ctx context.Context) (*Header, error) {
	return c.waitForHeader(ctx, func(Header) bool { return true })
}

// WaitForHeight returns the first new header at or above height. A height
// already reached still waits for the next block.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	return c.waitForHeader(ctx, func(h Header) bool { return h.Height >= height })
}

func (c *Client) waitForHeader(ctx context.Context, match func(Header) bool) (*Header, error) {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 2)
	if err := c.SubscribeHeaders(subCtx, headers); err != nil {
		return nil, err
	}
	for h := range headers {
		if match(h) {
			time.Sleep(indexDelay)
			return &h, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrTimeout, err.Error())
	}
	return nil, errors.Wrap(errors.ErrNetwork, "header subscription closed")
}
