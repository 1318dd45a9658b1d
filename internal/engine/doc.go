// Package engine provides an ephemeral, thread-safe, in-memory implementation
// of the flow.Engine interface.
//
// # Purpose
//
// The real processing engine lives outside this repository. This package
// stands in for it when running the UI without one and in tests: it owns
// variable values and the user arguments the UI registers, and it is the
// sole writer of a variable's live enabled/hidden state after load.
//
// # Characteristics
//
//   - **Ephemeral:** values are reset on every Load
//   - **Thread-Safe:** sync.Map per concern, keyed by variable pointer
//   - **Typed:** every write is coerced with flow.Coerce; mismatches are rejected
//
// State changes are pushed to a StateSink (the UI handle) using the user
// argument recorded for the variable.
package engine
