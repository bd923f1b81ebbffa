/*
Package errors implements the registered error codes used by the host and
every program.

Reuse the root errors declared here whenever one fits. A program that needs
its own failure kind registers it once, at package initialization, with
Register(code, description). The code is what a client receives in the ABCI
response and is the only stable way to tell failures apart.

Create instances with ErrXyz.New("...") or errors.Wrap(err, "...") at the
point of failure so that a stack trace is attached. Only the most inner wrap
records the trace.

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created

Test for a kind with ErrXyz.Is(err); it unwraps all layers.
*/
package errors
