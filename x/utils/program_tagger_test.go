package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramTagger(t *testing.T) {
	p1 := loomtest.SequenceAddress(1)
	p2 := loomtest.SequenceAddress(2)

	tx := &loomtest.Tx{Instructions: []loom.Instruction{
		{ProgramID: p1},
		{ProgramID: p2},
		{ProgramID: p1},
	}}

	cases := map[string]struct {
		handler  *loomtest.Handler
		wantErr  bool
		wantTags []string
	}{
		"success tags each program once": {
			handler:  &loomtest.Handler{},
			wantTags: []string{p1.String(), p2.String()},
		},
		"failure adds nothing": {
			handler: &loomtest.Handler{DeliverErr: errors.New("fail")},
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res, err := NewProgramTagger().Deliver(context.Background(), store.MemStore(), tx, tc.handler)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, len(tc.wantTags), len(res.Tags))
			for i, want := range tc.wantTags {
				assert.Equal(t, ProgramKey, string(res.Tags[i].Key))
				assert.Equal(t, want, string(res.Tags[i].Value))
			}
		})
	}
}
