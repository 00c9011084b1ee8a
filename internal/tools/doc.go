// Package tools holds the hand-written tools the gateway installs next to
// the generic ones: the ping and stream_ping built-ins, and the override
// table for the command, telemetry and check functions whose argument
// shapes a generic adapter cannot express.
//
// Check functions are evaluated here rather than on the server. They read
// the item with the matching telemetry method and return a CHECK line on
// success or a *cosmos.CheckError when the condition does not hold.
package tools
