/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package owns a single configuration object stored under its own key. The
object is loaded from the "conf" section of the genesis file during chain
initialization and read back with Load whenever the package needs it.
*/
package gconf
