package authcore

import "errors"

var (
	// ErrUnauthenticated is the uniform failure surfaced for every token-path
	// rejection: bad signature, expiry, type mismatch, revocation, store
	// outage, and unknown subjects all collapse to it. The precise reason is
	// logged internally, never exposed.
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrAccountInactive is returned by the active-account policy gate. It is
	// deliberately distinguishable from ErrUnauthenticated: it reflects a
	// policy decision about a real, validated identity, not a credential
	// failure.
	ErrAccountInactive = errors.New("inactive user")
	// ErrTokenSigning is returned when issuance fails to sign a token. It is
	// a server-side failure, distinct from client credential failures.
	ErrTokenSigning = errors.New("could not create token")
	// ErrEngineNotReady is returned when an Engine is used before Build or
	// through a nil receiver.
	ErrEngineNotReady = errors.New("engine not initialized")
)
