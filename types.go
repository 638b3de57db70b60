package authcore

import (
	"context"
	"time"

	"github.com/MrEthical07/authcore/internal/flows"
)

// Identity is the caller's identity record as resolved from the external
// user store, or synthesized by the coarse resolve mode. The core never
// mutates the underlying record.
type Identity struct {
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

// IdentityProvider is the lookup contract the surrounding persistence layer
// must implement. LookupBySubject returns (nil, nil) when no record exists
// for the subject; it must not itself perform authentication logic.
type IdentityProvider interface {
	LookupBySubject(ctx context.Context, subject string) (*Identity, error)
}

// IdentityProviderFunc adapts a plain function to [IdentityProvider].
type IdentityProviderFunc func(ctx context.Context, subject string) (*Identity, error)

// LookupBySubject calls f.
func (f IdentityProviderFunc) LookupBySubject(ctx context.Context, subject string) (*Identity, error) {
	return f(ctx, subject)
}

func identityFromRecord(record *flows.IdentityRecord) *Identity {
	if record == nil {
		return nil
	}
	return &Identity{
		ID:         record.ID,
		Username:   record.Username,
		Email:      record.Email,
		FirstName:  record.FirstName,
		LastName:   record.LastName,
		IsActive:   record.IsActive,
		IsVerified: record.IsVerified,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

func recordFromIdentity(identity *Identity) *flows.IdentityRecord {
	if identity == nil {
		return nil
	}
	return &flows.IdentityRecord{
		ID:         identity.ID,
		Username:   identity.Username,
		Email:      identity.Email,
		FirstName:  identity.FirstName,
		LastName:   identity.LastName,
		IsActive:   identity.IsActive,
		IsVerified: identity.IsVerified,
		CreatedAt:  identity.CreatedAt,
		UpdatedAt:  identity.UpdatedAt,
	}
}
