// Package revocation maintains the shared negative-list of revoked token
// identifiers ("the blacklist"). Markers live in Redis under a fixed key
// prefix with a per-key TTL equal to the remaining lifetime of the revoked
// token, so the backend expires entries on its own.
//
// Absence of a marker means "not known to be revoked" — nothing more. A token
// can still be invalid for signature or expiry reasons; the blacklist is
// purely an additional negative filter. Backend failures surface as
// [ErrStoreUnavailable] so that validation paths can fail closed.
package revocation
