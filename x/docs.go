/*
Package x contains some standard extensions

Extensions implement common functionality (Handler, Decorator,
Program, etc.) and can be combined together to construct an
application.

All sub-packages are various extensions. The programs under x
(system, token, escrow, lever, vault, checker) are registered
with the runtime and invoked by transaction instructions. The
remaining packages (sigs, utils) are decorators that wrap the
runtime handler.
*/
package x
