package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

type stackTracer interface {
	error
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stack trace frame carried by given
// error or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

func matchesFunc(f errors.Frame, prefixes ...string) bool {
	fn := funcName(f)
	for _, prefix := range prefixes {
		if strings.HasPrefix(fn, prefix) {
			return true
		}
	}
	return false
}

func funcName(f errors.Frame) string {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

func fileLine(f errors.Frame) (string, int) {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(uintptr(f) - 1)
}

func trimInternal(st errors.StackTrace) errors.StackTrace {
	// Trim our internal parts here. Manual cleanup of the wrapping
	// helpers always happens at the top of the stack.
	for len(st) > 0 && matchesFunc(st[0],
		"github.com/iov-one/loom/errors.Wrap",
		"github.com/iov-one/loom/errors.Wrapf",
		"github.com/iov-one/loom/errors.(*Error).New",
		"github.com/iov-one/loom/errors.(*Error).Newf",
		"github.com/iov-one/loom/errors.WithType",
	) {
		st = st[1:]
	}
	// Trim out the go runtime at the bottom of the stack.
	for len(st) > 0 && matchesFunc(st[len(st)-1], "runtime.") {
		st = st[:len(st)-1]
	}
	return st
}

func writeSimpleFrame(s io.Writer, f errors.Frame) {
	file, line := fileLine(f)
	// Cut the path to the last two directory segments, for example
	// iov-one/loom/errors/errors.go
	chunks := strings.SplitN(file, "/src/", 2)
	file = chunks[len(chunks)-1]
	if parts := strings.Split(file, "/"); len(parts) > 4 {
		file = strings.Join(parts[len(parts)-4:], "/")
	}
	fmt.Fprintf(s, " [%s:%d]", file, line)
}

// Format works like pkg/errors, with additions.
//
//	%s is just the error message
//	%+v is the full stack trace
//	%v appends a compressed [filename:line] where the error was created
func (e *wrappedError) Format(s fmt.State, verb rune) {
	// Normal output is the same as calling Error().
	if verb != 'v' {
		fmt.Fprint(s, e.Error())
		return
	}

	stack := trimInternal(stackTrace(e))
	if s.Flag('+') {
		fmt.Fprintf(s, "%+v\n", stack)
		fmt.Fprint(s, e.Error())
	} else {
		fmt.Fprint(s, e.Error())
		if len(stack) > 0 {
			writeSimpleFrame(s, stack[0])
		}
	}
}
