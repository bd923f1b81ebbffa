package assert

import (
	"testing"

	"github.com/iov-one/loom/errors"
)

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		ErrWant  error
		ErrGot   error
		WantFail bool
	}{
		"same error": {
			ErrWant:  errors.ErrNotRentExempt,
			ErrGot:   errors.ErrNotRentExempt,
			WantFail: false,
		},
		"compared to nil": {
			ErrWant:  nil,
			ErrGot:   errors.ErrNotRentExempt,
			WantFail: true,
		},
		"both nil": {
			ErrWant:  nil,
			ErrGot:   nil,
			WantFail: false,
		},
		"wrapped": {
			ErrWant:  errors.ErrInvalidInstruction,
			ErrGot:   errors.Wrap(errors.ErrInvalidInstruction, "test"),
			WantFail: false,
		},
		"different kind": {
			ErrWant:  errors.ErrInvalidInstruction,
			ErrGot:   errors.Wrap(errors.ErrNotRentExempt, "test"),
			WantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			IsErr(mock, tc.ErrWant, tc.ErrGot)
			failed := mock.failcalls > 0
			if tc.WantFail != failed {
				t.Fatalf("unexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

func TestEqualAndNil(t *testing.T) {
	mock := &tmock{TB: t}
	Equal(mock, 1, 2)
	Nil(mock, errors.ErrEmpty)
	Equal(mock, []byte("a"), []byte("a"))
	Nil(mock, (*errors.Error)(nil))
	if mock.failcalls != 2 {
		t.Fatalf("want 2 failures, got %d", mock.failcalls)
	}
}

type tmock struct {
	testing.TB
	failcalls int
}

func (t *tmock) Error(args ...interface{}) {
	t.TB.Log(args...)
	t.failcalls++
}

func (t *tmock) Errorf(s string, args ...interface{}) {
	t.TB.Logf(s, args...)
	t.failcalls++
}

func (t *tmock) Fatal(args ...interface{}) {
	t.TB.Log(args...)
	t.failcalls++
}

func (t *tmock) Fatalf(s string, args ...interface{}) {
	t.TB.Logf(s, args...)
	t.failcalls++
}
