package errors

import (
	"errors"
	"fmt"
	"reflect"
)

const (
	// SuccessABCICode is the code of a response without an error.
	SuccessABCICode = 0

	// errors without a registered root share this code and, outside of
	// debug mode, this log
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log to put in an ABCI response for err.
//
// An error without a code gets code 1 and its message is hidden unless
// debug is set. Debug mode also prints stack traces.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCIError rebuilds an error from an ABCI response. The result wraps the
// root registered under code so Is works on the client side. A code that
// is not registered gives a plain error.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	if root := registry[code]; root != nil {
		return &wrappedError{msg: log, parent: root}
	}
	return errors.New(log)
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first layer of err that has one.
func abciCode(err error) uint32 {
	if isNil(err) {
		return SuccessABCICode
	}
	for ; err != nil; err = cause(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
	}
	return internalABCICode
}

// isNil also catches typed nil pointers stored in an error interface.
func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Redact replaces errors without a code, and recovered panics, with a
// generic internal error. It does nothing in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
