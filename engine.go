package authcore

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MrEthical07/authcore/internal/flows"
	"github.com/MrEthical07/authcore/revocation"
	"github.com/MrEthical07/authcore/token"
)

// Engine is the boundary consumed by the surrounding HTTP layer. Instances
// are built through [Builder.Build], treated as immutable afterwards, and
// safe for concurrent use.
type Engine struct {
	config   Config
	codec    *token.Codec
	store    *revocation.Store
	provider IdentityProvider
	logger   zerolog.Logger
}

// Close releases the revocation-store handle if the engine dialed it itself.
// Injected Redis clients remain open.
func (e *Engine) Close() error {
	if e == nil || e.store == nil {
		return nil
	}
	return e.store.Close()
}

// IssueAccessToken signs a new access token for subject using the configured
// default access TTL. Signing failures surface as [ErrTokenSigning]: fatal to
// the request, recoverable to the process.
func (e *Engine) IssueAccessToken(subject string) (string, error) {
	return e.issue(subject, token.TypeAccess, 0)
}

// IssueRefreshToken signs a new refresh token for subject using the
// configured default refresh TTL.
func (e *Engine) IssueRefreshToken(subject string) (string, error) {
	return e.issue(subject, token.TypeRefresh, 0)
}

// IssueAccessTokenWithTTL is [Engine.IssueAccessToken] with an explicit
// lifetime override.
func (e *Engine) IssueAccessTokenWithTTL(subject string, ttl time.Duration) (string, error) {
	return e.issue(subject, token.TypeAccess, ttl)
}

// IssueRefreshTokenWithTTL is [Engine.IssueRefreshToken] with an explicit
// lifetime override.
func (e *Engine) IssueRefreshTokenWithTTL(subject string, ttl time.Duration) (string, error) {
	return e.issue(subject, token.TypeRefresh, ttl)
}

func (e *Engine) issue(subject string, typ token.Type, ttl time.Duration) (string, error) {
	if e == nil || e.codec == nil {
		return "", ErrEngineNotReady
	}

	var (
		encoded string
		err     error
	)
	if ttl == 0 {
		encoded, err = e.codec.Issue(subject, typ)
	} else {
		encoded, err = e.codec.IssueWithTTL(subject, typ, ttl)
	}
	if err != nil {
		e.logger.Error().Err(err).Str("token_type", string(typ)).Msg("token signing failed")
		return "", fmt.Errorf("%w: %v", ErrTokenSigning, err)
	}
	return encoded, nil
}

// ValidateAccessToken verifies an access token: signature, expiry, type
// claim, and revocation. On any rejection it returns [ErrUnauthenticated];
// the precise reason is logged, never surfaced.
func (e *Engine) ValidateAccessToken(ctx context.Context, encoded string) (*token.Claims, error) {
	return e.validate(ctx, encoded, token.TypeAccess, true)
}

// ValidateRefreshToken verifies a refresh token the same way
// [Engine.ValidateAccessToken] verifies an access token.
func (e *Engine) ValidateRefreshToken(ctx context.Context, encoded string) (*token.Claims, error) {
	return e.validate(ctx, encoded, token.TypeRefresh, true)
}

// Introspect decodes a token of the given type without enforcing expiry.
// Signature, type claim, and revocation are still checked. Diagnostic paths
// only — never use the result for access control.
func (e *Engine) Introspect(ctx context.Context, encoded string, typ token.Type) (*token.Claims, error) {
	return e.validate(ctx, encoded, typ, false)
}

func (e *Engine) validate(ctx context.Context, encoded string, typ token.Type, verifyExpiry bool) (*token.Claims, error) {
	if e == nil || e.codec == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	result := flows.RunValidate(ctx, encoded, typ, verifyExpiry, e.validateDeps())
	if result.Rejection != flows.RejectNone {
		e.logRejection(result.Rejection, result.Err, typ)
		return nil, ErrUnauthenticated
	}
	return result.Claims, nil
}

// RevokeToken blacklists a token's identifier so the token stops being
// honored before its natural expiry. The marker's TTL equals the token's
// remaining lifetime; already-expired tokens get a negligible window. The
// token's expiry is deliberately not enforced here — revoking an expired
// token is a harmless no-op, not an error.
func (e *Engine) RevokeToken(ctx context.Context, encoded string, typ token.Type) error {
	if e == nil || e.codec == nil || e.store == nil {
		return ErrEngineNotReady
	}

	claims, err := e.codec.Decode(encoded, typ, false)
	if err != nil {
		e.logger.Debug().Err(err).Str("token_type", string(typ)).Msg("revoke rejected: undecodable token")
		return ErrUnauthenticated
	}

	var remaining time.Duration
	if claims.ExpiresAt != nil {
		remaining = time.Until(claims.ExpiresAt.Time)
	}

	if err := e.store.Revoke(ctx, claims.ID, remaining); err != nil {
		e.logger.Error().Err(err).Msg("revocation write failed")
		return err
	}
	return nil
}

// ResolveCurrentUser validates encoded as an access token and resolves the
// caller's identity record through the injected provider. Every failure mode
// — token rejection, unknown subject, lookup outage — collapses to
// [ErrUnauthenticated]. The active-account gate is NOT applied; layer
// [Engine.RequireActiveUser] for that.
func (e *Engine) ResolveCurrentUser(ctx context.Context, encoded string) (*Identity, error) {
	if e == nil || e.codec == nil || e.provider == nil {
		return nil, ErrEngineNotReady
	}

	result := flows.RunResolve(ctx, encoded, e.resolveDeps())
	return e.finishResolve(result)
}

// ResolveCoarse validates encoded as an access token and returns a
// synthesized placeholder identity built from the subject claim alone,
// without consulting the identity provider. This degraded-payload leniency is
// part of the contract; do not tighten it.
func (e *Engine) ResolveCoarse(ctx context.Context, encoded string) (*Identity, error) {
	if e == nil || e.codec == nil {
		return nil, ErrEngineNotReady
	}

	result := flows.RunResolveCoarse(ctx, encoded, e.resolveDeps())
	return e.finishResolve(result)
}

func (e *Engine) finishResolve(result flows.ResolveResult) (*Identity, error) {
	switch result.Failure {
	case flows.ResolveFailureNone:
		return identityFromRecord(result.Identity), nil
	case flows.ResolveFailureToken:
		e.logRejection(result.Rejection, result.Err, token.TypeAccess)
	case flows.ResolveFailureNotFound:
		e.logger.Debug().Str("subject", result.Claims.Subject).Msg("resolve rejected: unknown subject")
	case flows.ResolveFailureLookup:
		e.logger.Error().Err(result.Err).Msg("identity lookup failed")
	}
	return nil, ErrUnauthenticated
}

// RequireActiveUser enforces the active-account policy gate on a resolved
// identity. Active identities pass through unchanged; inactive ones fail with
// [ErrAccountInactive], which stays distinguishable from credential failures
// because it is a policy decision, not a forgery signal.
func (e *Engine) RequireActiveUser(identity *Identity) (*Identity, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if !identity.IsActive {
		e.logger.Debug().Str("subject", identity.ID).Msg("inactive account rejected")
		return nil, ErrAccountInactive
	}
	return identity, nil
}

// Ping returns a point-in-time revocation-backend availability check and
// latency.
func (e *Engine) Ping(ctx context.Context) (time.Duration, error) {
	if e == nil || e.store == nil {
		return 0, ErrEngineNotReady
	}
	return e.store.Ping(ctx)
}

func (e *Engine) validateDeps() flows.ValidateDeps {
	return flows.ValidateDeps{
		Decode:    e.codec.Decode,
		IsRevoked: e.store.IsRevoked,
	}
}

func (e *Engine) resolveDeps() flows.ResolveDeps {
	return flows.ResolveDeps{
		Validate: func(ctx context.Context, encoded string) flows.ValidateResult {
			return flows.RunValidate(ctx, encoded, token.TypeAccess, true, e.validateDeps())
		},
		LookupBySubject: func(ctx context.Context, subject string) (*flows.IdentityRecord, error) {
			identity, err := e.provider.LookupBySubject(ctx, subject)
			if err != nil {
				return nil, err
			}
			return recordFromIdentity(identity), nil
		},
	}
}

func (e *Engine) logRejection(kind flows.RejectionKind, err error, typ token.Type) {
	e.logger.Debug().
		Err(err).
		Str("token_type", string(typ)).
		Str("reason", kind.String()).
		Msg("token rejected")
}
