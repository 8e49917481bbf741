// Package engine wires formula validation, compilation and the facts
// store into the operations the CLI exposes.
//
// An Engine owns no connection of its own: the *store.Store is injected
// and its lifetime belongs to the caller. Every operation is synchronous
// and runs at most two store round trips (the validation probe and the
// result query). Nothing is retried; store failures surface immediately
// as RuntimeErrors with a code the caller can branch on.
//
// Each operation is stamped with a request number from the engine's
// Sequence so log lines of one request can be correlated.
package engine
