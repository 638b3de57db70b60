// Package token issues and verifies signed, typed credentials. Access and
// refresh tokens use distinct signing secrets so that compromising one secret
// never forges the other token class. Verification enforces signature, expiry,
// and token-type claims with strict whole-second timestamp semantics.
package token
