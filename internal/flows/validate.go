package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/authcore/token"
)

// RejectionKind classifies validation failures for root-level mapping and
// internal logging. Only the root engine collapses these into the single
// unauthenticated failure shown to callers.
type RejectionKind int

const (
	RejectNone RejectionKind = iota
	RejectInvalidSignature
	RejectExpired
	RejectTypeMismatch
	RejectRevoked
	RejectStoreUnavailable
)

// String returns the log label for the rejection kind.
func (k RejectionKind) String() string {
	switch k {
	case RejectNone:
		return "none"
	case RejectInvalidSignature:
		return "invalid_signature"
	case RejectExpired:
		return "expired"
	case RejectTypeMismatch:
		return "type_mismatch"
	case RejectRevoked:
		return "revoked"
	case RejectStoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// ValidateResult returns either accepted claims or a classified rejection.
type ValidateResult struct {
	Rejection RejectionKind
	Err       error
	Claims    *token.Claims
}

// ValidateDeps captures token-validation dependencies.
type ValidateDeps struct {
	Decode    func(encoded string, expected token.Type, verifyExpiry bool) (*token.Claims, error)
	IsRevoked func(ctx context.Context, id string) (bool, error)
}

// RunValidate executes one validation call: decode and verify the token, then
// consult the revocation store. Terminal outcomes only; no state is retained
// across calls, and the revocation read is the sole side channel.
//
// A revocation-store failure rejects the token (fail closed). An unreachable
// store must never be interpreted as "not revoked".
func RunValidate(ctx context.Context, encoded string, expected token.Type, verifyExpiry bool, deps ValidateDeps) ValidateResult {
	claims, err := deps.Decode(encoded, expected, verifyExpiry)
	if err != nil {
		return ValidateResult{Rejection: classifyDecodeError(err), Err: err}
	}

	revoked, err := deps.IsRevoked(ctx, claims.ID)
	if err != nil {
		return ValidateResult{Rejection: RejectStoreUnavailable, Err: err}
	}
	if revoked {
		return ValidateResult{Rejection: RejectRevoked}
	}

	return ValidateResult{Claims: claims}
}

func classifyDecodeError(err error) RejectionKind {
	switch {
	case errors.Is(err, token.ErrExpired):
		return RejectExpired
	case errors.Is(err, token.ErrTypeMismatch):
		return RejectTypeMismatch
	default:
		return RejectInvalidSignature
	}
}
