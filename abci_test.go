package loom

import (
	"fmt"
	"strings"
	"testing"

	"github.com/iov-one/loom/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/common"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantLog  string
		wantCode uint32
	}{
		"stdlib error is hidden": {
			err:      fmt.Errorf("base"),
			wantLog:  "internal error",
			wantCode: 1,
		},
		"stdlib error in debug mode": {
			err:      fmt.Errorf("base"),
			debug:    true,
			wantLog:  "base",
			wantCode: 1,
		},
		"program error": {
			err:      errors.Wrap(errors.ErrNotRentExempt, "slot 99"),
			wantLog:  "slot 99: not rent exempt",
			wantCode: errors.ErrNotRentExempt.ABCICode(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := DeliverTxError(tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, dres.Code)
			assert.True(t, strings.HasPrefix(dres.Log, "cannot deliver tx: "+tc.wantLog))

			cres := CheckTxError(tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, cres.Code)
			assert.True(t, strings.HasPrefix(cres.Log, "cannot check tx: "+tc.wantLog))
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	dres := DeliverResult{Data: d, Log: msg}
	ad := dres.ToABCI()
	assert.EqualValues(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Empty(t, ad.Tags)

	tags := []common.KVPair{{Key: []byte("program"), Value: []byte("escrow")}}
	dres = DeliverResult{Tags: tags}
	assert.Equal(t, tags, dres.ToABCI().Tags)

	cres := CheckResult{Data: d, Log: msg}
	ac := cres.ToABCI()
	assert.EqualValues(t, d, ac.Data)
	assert.Equal(t, msg, ac.Log)

	res := DeliverOrError(&dres, errors.ErrNotFound, false)
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
}

func TestParseDeliverOrError(t *testing.T) {
	res, err := ParseDeliverOrError(DeliverOrError(nil, errors.Wrap(errors.ErrInsufficientFunds, "need 5"), false))
	assert.Nil(t, res)
	assert.True(t, errors.ErrInsufficientFunds.Is(err))

	ok := &DeliverResult{Log: "Program log: hello", Tags: []common.KVPair{{Key: []byte("k"), Value: []byte("v")}}}
	res, err = ParseDeliverOrError(DeliverOrError(ok, nil, false))
	assert.NoError(t, err)
	assert.Equal(t, ok, res)
}
