package escrow

import (
	"math"
	"testing"

	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/loomtest/assert"
)

func TestEscrowSize(t *testing.T) {
	e := Escrow{
		Initialized:        true,
		Initializer:        loomtest.SequenceAddress(1),
		TempHolding:        loomtest.SequenceAddress(2),
		InitializerReceive: loomtest.SequenceAddress(3),
		ExpectedAmount:     500,
		UnlockTime:         math.MaxUint64 - 1,
		TimeoutTime:        math.MaxUint64,
	}
	raw, err := e.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, Len, len(raw))

	var got Escrow
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, e, got)

	if err := got.Unmarshal(raw[:Len-1]); !errors.ErrInvalidAccountData.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestWindowAt(t *testing.T) {
	var e Escrow
	assert.Nil(t, e.ResetTimeLock(10))
	assert.Equal(t, uint64(10+UnlockDelay), e.UnlockTime)
	assert.Equal(t, uint64(10+UnlockDelay+TimeoutDelay), e.TimeoutTime)

	cases := map[string]struct {
		now  uint64
		want Window
	}{
		"just initialized":  {now: 10, want: BeforeWindow},
		"one before unlock": {now: e.UnlockTime - 1, want: BeforeWindow},
		"at unlock":         {now: e.UnlockTime, want: InWindow},
		"at timeout":        {now: e.TimeoutTime, want: InWindow},
		"one after timeout": {now: e.TimeoutTime + 1, want: AfterWindow},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := e.WindowAt(tc.now); got != tc.want {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestResetTimeLockOverflow(t *testing.T) {
	cases := map[string]struct {
		now     uint64
		wantErr *errors.Error
	}{
		"max slot":              {now: math.MaxUint64, wantErr: errors.ErrAmountOverflow},
		"timeout overflows":     {now: math.MaxUint64 - UnlockDelay, wantErr: errors.ErrAmountOverflow},
		"largest accepted slot": {now: math.MaxUint64 - UnlockDelay - TimeoutDelay},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := Escrow{UnlockTime: 1, TimeoutTime: 2}
			err := e.ResetTimeLock(tc.now)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				assert.Equal(t, Escrow{UnlockTime: 1, TimeoutTime: 2}, e)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	bad := Escrow{Initialized: true, UnlockTime: 5, TimeoutTime: 5}
	if err := bad.Validate(); !errors.ErrInvalidAccountData.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	var empty Escrow
	assert.Nil(t, empty.Validate())
}
