package flows

import (
	"context"
	"time"

	"github.com/MrEthical07/authcore/token"
)

// IdentityRecord is a flow-local identity model used by resolve flows. The
// root engine converts it to and from its exported identity type.
type IdentityRecord struct {
	ID         string
	Username   string
	Email      string
	FirstName  string
	LastName   string
	IsActive   bool
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Placeholder display values synthesized for degraded token payloads. These
// sentinels are a deliberate leniency carried over from the wire contract:
// a payload carrying nothing but a subject still resolves.
const (
	PlaceholderUsername  = "unknown"
	PlaceholderEmail     = "unknown@example.com"
	PlaceholderFirstName = "Unknown"
	PlaceholderLastName  = "User"
)

// ResolveFailureKind classifies resolve failures for root-level mapping.
type ResolveFailureKind int

const (
	ResolveFailureNone ResolveFailureKind = iota
	ResolveFailureToken
	ResolveFailureNotFound
	ResolveFailureLookup
)

// ResolveResult returns either a resolved identity or a classified failure.
// Rejection carries the token-level detail when Failure is ResolveFailureToken.
type ResolveResult struct {
	Failure   ResolveFailureKind
	Rejection RejectionKind
	Err       error
	Claims    *token.Claims
	Identity  *IdentityRecord
}

// ResolveDeps captures identity-resolution dependencies. Validate is
// pre-bound by the host to the access-token class with expiry verification
// enabled. LookupBySubject returns (nil, nil) when no record exists.
type ResolveDeps struct {
	Validate        func(ctx context.Context, encoded string) ValidateResult
	LookupBySubject func(ctx context.Context, subject string) (*IdentityRecord, error)
}

// RunResolve validates an access token and resolves the caller's identity
// record through the injected lookup. The active-account policy gate is NOT
// applied here; an inactive record still resolves so that callers can layer
// the gate separately.
func RunResolve(ctx context.Context, encoded string, deps ResolveDeps) ResolveResult {
	vr := deps.Validate(ctx, encoded)
	if vr.Rejection != RejectNone {
		return ResolveResult{Failure: ResolveFailureToken, Rejection: vr.Rejection, Err: vr.Err}
	}

	record, err := deps.LookupBySubject(ctx, vr.Claims.Subject)
	if err != nil {
		return ResolveResult{Failure: ResolveFailureLookup, Err: err, Claims: vr.Claims}
	}
	if record == nil {
		return ResolveResult{Failure: ResolveFailureNotFound, Claims: vr.Claims}
	}

	return ResolveResult{Claims: vr.Claims, Identity: record}
}

// RunResolveCoarse validates an access token and synthesizes a placeholder
// identity from the subject claim alone, without consulting the identity
// store. This is the degraded-payload mode: partially-populated payloads
// resolve instead of failing.
func RunResolveCoarse(ctx context.Context, encoded string, deps ResolveDeps) ResolveResult {
	vr := deps.Validate(ctx, encoded)
	if vr.Rejection != RejectNone {
		return ResolveResult{Failure: ResolveFailureToken, Rejection: vr.Rejection, Err: vr.Err}
	}

	return ResolveResult{Claims: vr.Claims, Identity: SynthesizeIdentity(vr.Claims.Subject)}
}

// SynthesizeIdentity builds the placeholder identity for a bare subject:
// fixed sentinel display fields, active, unverified.
func SynthesizeIdentity(subject string) *IdentityRecord {
	now := time.Now()
	return &IdentityRecord{
		ID:         subject,
		Username:   PlaceholderUsername,
		Email:      PlaceholderEmail,
		FirstName:  PlaceholderFirstName,
		LastName:   PlaceholderLastName,
		IsActive:   true,
		IsVerified: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
