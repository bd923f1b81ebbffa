package app

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a complete abci application: StoreApp for state and queries
// plus a decoder and a handler for CheckTx and DeliverTx.
type BaseApp struct {
	*StoreApp
	decoder loom.TxDecoder
	handler loom.Handler
	// debug keeps stack traces in the returned logs
	debug bool
}

var _ abci.Application = BaseApp{}

func NewBaseApp(store *StoreApp, decoder loom.TxDecoder, handler loom.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler, debug: debug}
}

// DeliverTx runs the handler against the deliver cache.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	ctx, tx, err := b.prepare("deliver_tx", raw)
	if err != nil {
		return loom.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return loom.DeliverOrError(res, err, b.debug)
}

// CheckTx runs the handler against the check cache.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	ctx, tx, err := b.prepare("check_tx", raw)
	if err != nil {
		return loom.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return loom.CheckOrError(res, err, b.debug)
}

// prepare decodes raw and returns the block context annotated for the
// call. A panicking decoder is reported as an error.
func (b BaseApp) prepare(call string, raw []byte) (ctx loom.Context, tx loom.Tx, err error) {
	defer errors.Recover(&err)
	if tx, err = b.decoder(raw); err != nil {
		return nil, nil, err
	}
	ctx = loom.WithLogInfo(b.BlockContext(), "call", call, "instructions", len(tx.GetInstructions()))
	return ctx, tx, nil
}
