package client

import (
	"context"
	"fmt"

	"github.com/iov-one/loom/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmquery "github.com/tendermint/tendermint/libs/pubsub/query"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// SubscribeHeaders sends every new block header to results until ctx is
// done. results is closed when the subscription ends.
func (c *Client) SubscribeHeaders(ctx context.Context, results chan<- Header, options ...Option) error {
	events, err := c.subscribe(ctx, QueryForHeader(), options...)
	if err != nil {
		return err
	}
	go func() {
		defer close(results)
		forward(ctx, events, func(ev ctypes.ResultEvent) bool {
			data, ok := ev.Data.(tmtypes.EventDataNewBlockHeader)
			if !ok {
				return true
			}
			select {
			case results <- data.Header:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()
	return nil
}

// SubscribeTx sends every delivered transaction matching query to results
// until ctx is done. results is closed when the subscription ends.
func (c *Client) SubscribeTx(ctx context.Context, query TxQuery, results chan<- CommitResult, options ...Option) error {
	q := fmt.Sprintf("%s AND %s", queryForEvent(tmtypes.EventTx), query)
	events, err := c.subscribe(ctx, q, options...)
	if err != nil {
		return err
	}
	go func() {
		defer close(results)
		forward(ctx, events, func(ev ctypes.ResultEvent) bool {
			data, ok := ev.Data.(tmtypes.EventDataTx)
			if !ok {
				return true
			}
			select {
			case results <- fromEventTx(data):
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()
	return nil
}

// forward hands events to fn until ctx is done, the event channel closes
// or fn returns false.
func forward(ctx context.Context, events <-chan ctypes.ResultEvent, fn func(ctypes.ResultEvent) bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open || !fn(ev) {
				return
			}
		}
	}
}

// subscribe registers query with the node. The subscription is removed
// once ctx is done.
func (c *Client) subscribe(ctx context.Context, query string, options ...Option) (<-chan ctypes.ResultEvent, error) {
	var capacity []int
	for _, o := range options {
		if oc, ok := o.(OptionCapacity); ok {
			capacity = []int{oc.Capacity}
		}
	}
	q, err := tmquery.New(query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "query %q: %s", query, err)
	}

	subscriber := cmn.RandStr(16)
	events, err := c.conn.Subscribe(ctx, subscriber, q.String(), capacity...)
	if err != nil {
		return nil, networkErr("subscribe", err)
	}
	go func() {
		<-ctx.Done()
		_ = c.conn.Unsubscribe(context.Background(), subscriber, q.String())
	}()
	return events, nil
}
