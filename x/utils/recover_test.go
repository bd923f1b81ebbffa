package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestRecovery(t *testing.T) {
	token, escrow := loomtest.SequenceAddress(1), loomtest.SequenceAddress(2)

	cases := map[string]struct {
		tx       loom.Tx
		programs string
	}{
		"no transaction": {
			tx:       nil,
			programs: "programs []",
		},
		"one program": {
			tx:       &loomtest.Tx{Instructions: []loom.Instruction{{ProgramID: escrow}}},
			programs: "programs [" + escrow.String() + "]",
		},
		"repeated calls are named once": {
			tx: &loomtest.Tx{Instructions: []loom.Instruction{
				{ProgramID: token}, {ProgramID: escrow}, {ProgramID: token},
			}},
			programs: "programs [" + token.String() + "," + escrow.String() + "]",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := loom.WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
			db := store.MemStore()
			var h panicHandler

			_, err := NewRecovery().Check(ctx, db, tc.tx, h)
			assert.True(t, errors.ErrPanic.Is(err))
			assert.True(t, strings.Contains(err.Error(), tc.programs), err.Error())
			assert.True(t, strings.Contains(err.Error(), "check panic"), err.Error())

			_, err = NewRecovery().Deliver(ctx, db, tc.tx, h)
			assert.True(t, errors.ErrPanic.Is(err))
			assert.True(t, strings.Contains(err.Error(), "deliver panic"), err.Error())

			out := buf.String()
			assert.Equal(t, 2, strings.Count(out, "program panic"), out)
		})
	}
}

func TestRecoveryPassesThrough(t *testing.T) {
	tx := &loomtest.Tx{Instructions: []loom.Instruction{{}}}
	h := &loomtest.Handler{DeliverResult: loom.DeliverResult{Log: "done"}}

	res, err := NewRecovery().Deliver(context.Background(), store.MemStore(), tx, h)
	assert.NoError(t, err)
	assert.Equal(t, "done", res.Log)
}

type panicHandler struct{}

var _ loom.Handler = panicHandler{}

func (panicHandler) Check(loom.Context, loom.KVStore, loom.Tx) (*loom.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(loom.Context, loom.KVStore, loom.Tx) (*loom.DeliverResult, error) {
	panic("deliver panic")
}
