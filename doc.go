// Package authcore provides the authentication-token lifecycle: issuance of
// signed, typed tokens, verification with expiry and type enforcement, and a
// revocation mechanism backed by a shared, time-expiring key-value store.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. Each validation or resolution call is an independent,
// stateless unit of work; the only shared state is the process-wide
// configuration and the lazily-dialed revocation-store handle.
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// [Identity], and the [IdentityProvider] collaborator contract. Orchestration
// lives under internal/flows; the token codec and the revocation store are
// the token and revocation sub-packages.
//
// # Failure semantics
//
// Internal components report precise failure kinds (bad signature, expiry,
// type mismatch, revocation, store outage). The Engine boundary collapses all
// of them into [ErrUnauthenticated] so that callers cannot use rejection
// detail as an oracle; only the active-account policy gate stays
// distinguishable as [ErrAccountInactive]. A revocation-store outage rejects
// tokens — the store failing is never interpreted as "not revoked".
package authcore
