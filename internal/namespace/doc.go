// Package namespace models the host namespace the gateway introspects at
// startup: a flat table of named values, some of which are invocable
// functions, some types, modules or constants.
//
// The gateway only needs a handful of capabilities from it: iterate names,
// fetch a value, test invocability, and optionally read a signature
// (Introspectable) and documentation (Documented).
package namespace
