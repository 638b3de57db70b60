// Package flows contains pure-function orchestrators for every Engine operation.
//
// Each flow function (RunValidate, RunResolve, etc.) accepts a typed
// dependency struct and returns a tagged result without side-effects beyond
// those dependencies. The tags let the host package log the precise rejection
// reason while exposing only a collapsed failure outward. This design enables
// exhaustive unit testing with stub dependencies and keeps the Engine type thin.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the token codec, the revocation store,
// and the identity provider. They do NOT own any of these resources —
// ownership stays with the Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import authcore (to avoid import cycles).
//   - Perform I/O directly — all I/O is mediated through dependency functions.
package flows
