package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Generic host errors.
var (
	// ErrUnauthorized is returned when a signature or an authority check
	// fails outside of a program.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is used when a requested record does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned when a transaction or instruction envelope is
	// malformed and cannot be processed at all.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned when a persisted value fails validation.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a unique key is used twice.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when application reaches a code path which
	// should never be reached if the code was written correctly.
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a value fails a not empty assertion.
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an object is in an invalid state.
	ErrState = Register(10, "invalid state")

	// ErrType is returned whenever the type is not what was expected.
	ErrType = Register(11, "invalid type")

	// ErrNetwork is returned when a node cannot be reached.
	ErrNetwork = Register(12, "network")

	// ErrTimeout is returned when a result did not arrive in time.
	ErrTimeout = Register(13, "timeout")

	// ErrInput stands for general input problems.
	ErrInput = Register(14, "invalid input")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrSignature is returned when a transaction signature cannot be
	// verified.
	ErrSignature = Register(17, "invalid signature")

	// ErrSequence is returned when a signature sequence is not the next
	// expected value for the signer.
	ErrSequence = Register(18, "invalid sequence")

	// ErrUnknownProgram is returned when an instruction targets a program
	// id that has no registered program.
	ErrUnknownProgram = Register(19, "unknown program")

	// ErrDatabase is returned when the underlying storage fails.
	ErrDatabase = Register(50, "database")

	// ErrIteratorDone is returned by an iterator when there are no more
	// items to read. It is a signal, not a failure.
	ErrIteratorDone = Register(51, "iterator done")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)

// Program errors. Every program returns one of these (or a program specific
// code registered in its own package) to reject an instruction. All of them
// are terminal and abort the whole transaction.
var (
	ErrInvalidInstruction        = Register(20, "invalid instruction")
	ErrNotRentExempt             = Register(21, "not rent exempt")
	ErrAmountOverflow            = Register(22, "amount overflow")
	ErrAccountAlreadyInitialized = Register(23, "account already initialized")
	ErrUninitializedAccount      = Register(24, "uninitialized account")
	ErrIncorrectProgramID        = Register(25, "incorrect program id")
	ErrNotEnoughAccountKeys      = Register(26, "not enough account keys")
	ErrInvalidAccountData        = Register(27, "invalid account data")
	ErrMissingRequiredSignature  = Register(28, "missing required signature")
	ErrInsufficientFunds         = Register(29, "insufficient funds")
	ErrInvalidArgument           = Register(30, "invalid argument")
	ErrInvalidSeeds              = Register(31, "invalid seeds")
)

// Runtime verification errors. These are raised by the executor when a
// program breaks an account ownership rule, never by the programs
// themselves.
var (
	ErrExternalAccountDataModified = Register(40, "instruction modified data of an account it does not own")
	ErrExternalLamportSpend        = Register(41, "instruction spent from the balance of an account it does not own")
	ErrReadonlyLamportChange       = Register(42, "instruction changed the balance of a read-only account")
	ErrReadonlyDataModified        = Register(43, "instruction modified data of a read-only account")
	ErrModifiedProgramID           = Register(44, "instruction illegally modified the program id of an account")
	ErrExecutableModified          = Register(45, "instruction changed executable bit of an account")
	ErrUnbalancedInstruction       = Register(46, "sum of account balances before and after instruction do not match")
	ErrPrivilegeEscalation         = Register(47, "cross-program invocation with unauthorized signer or writable account")
	ErrCallDepth                   = Register(48, "cross-program invocation call depth too deep")
	ErrReentrancy                  = Register(49, "cross-program invocation reentrancy not allowed for this instruction")
)

// registry maps every code to its root error. Code 1 is kept for errors
// without a code.
var registry = map[uint32]*Error{
	internalABCICode: nil,
}

// Register declares a root error. It must only be called while packages
// initialize and panics if code is taken.
func Register(code uint32, description string) *Error {
	if prev, taken := registry[code]; taken {
		panic(fmt.Sprintf("error code %d already registered: %q", code, prev.Error()))
	}
	root := &Error{code: code, desc: description}
	registry[code] = root
	return root
}

// Error is a root error. Errors created at runtime wrap one of them so
// that a client can recognize them by code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode is the code returned to clients.
func (e Error) ABCICode() uint32 {
	return e.code
}

// New is Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is reports whether err, or any error it wraps, is e. A nil e matches
// nil errors, including typed nil pointers.
func (e *Error) Is(err error) bool {
	if e == nil {
		return err == nil || reflect.ValueOf(err).IsNil()
	}
	for ; err != nil; err = cause(err) {
		if err == e {
			return true
		}
	}
	return false
}

// cause returns the error wrapped by err, or nil.
func cause(err error) error {
	if c, ok := err.(causer); ok {
		return c.Cause()
	}
	return nil
}

type causer interface {
	Cause() error
}

// Wrap adds description to err. A nil err stays nil, so the result of a
// call can be wrapped without checking it first. The stack trace is
// recorded by the innermost Wrap only.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover turns a panic into an ErrPanic assigned to *err. It only works
// when deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType wraps err with the dynamic type of obj.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}
