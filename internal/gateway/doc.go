// Package gateway turns a host namespace into a registry of MCP tools and
// dispatches calls against it.
//
// Registration runs once at startup through a Pipeline:
//
//	members := namespace.Enumerate(ns)   // every name in the namespace
//	Policy.Classify(member)              // accepted, overridden or excluded
//	Builder.Build(member)                // generic descriptor for accepted ones
//	Registry.Register(descriptor)        // plus built-ins and overrides
//	Registry.Seal()
//
// Exposed names carry the "openc3_" prefix. Hand-written overrides replace
// the generic adapter of a handful of functions whose argument shapes need
// special handling; a name collision between any two descriptors aborts
// startup with a DuplicateNameError.
//
// At call time the Gateway coerces JSON-looking string arguments, invokes the
// adapter under a deadline, recovers panics, and flattens the typed Outcome
// into one text payload:
//
//	nil result          -> "Successfully executed <tool>"
//	scalar              -> its textual form
//	map or slice        -> indented JSON
//	unknown tool        -> "Error: tool '<name>' not found"
//	adapter error       -> "Error executing <tool>: <message>"
//
// Sessions follow Uninitialized -> Initialized -> Closed; closing a session
// cancels its in-flight calls.
package gateway
