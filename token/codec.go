package token

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidSignature is returned when a token is malformed, carries an
// unexpected signing algorithm, or fails signature verification.
var ErrInvalidSignature = errors.New("invalid token signature")

// ErrExpired is returned when a token's expiry timestamp is at or before the
// current time and expiry verification is enabled.
var ErrExpired = errors.New("token has expired")

// ErrTypeMismatch is returned when a token's type claim does not match the
// type the caller demanded.
var ErrTypeMismatch = errors.New("invalid token type")

// Type tags a token as belonging to one of the two credential classes.
type Type string

const (
	// TypeAccess is the short-lived credential authorizing per-request API access.
	TypeAccess Type = "access"
	// TypeRefresh is the longer-lived credential used to obtain new access tokens.
	TypeRefresh Type = "refresh"
)

// SigningMethod selects the HMAC family used to sign both token classes.
type SigningMethod string

const (
	// MethodHS256 is an exported constant selecting HMAC-SHA256 signing.
	MethodHS256 SigningMethod = "hs256"
	// MethodHS384 is an exported constant selecting HMAC-SHA384 signing.
	MethodHS384 SigningMethod = "hs384"
	// MethodHS512 is an exported constant selecting HMAC-SHA512 signing.
	MethodHS512 SigningMethod = "hs512"
)

// Claims is the decoded payload of a signed token. The subject, issuance and
// expiry timestamps, and the unique jti ride in the embedded registered
// claims; TokenType carries the credential class.
type Claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Type returns the credential class tag carried by the claims.
func (c *Claims) Type() Type {
	return Type(c.TokenType)
}

// Config holds codec configuration. Instances are treated as immutable after
// [NewCodec] validates them.
type Config struct {
	SigningMethod SigningMethod
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Codec creates and parses signed, typed tokens. A Codec is a pure function
// of its configuration plus the current clock and is safe for concurrent use.
type Codec struct {
	config  Config
	secrets map[Type][]byte
}

// NewCodec validates cfg and returns a ready [Codec].
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = MethodHS256
	}
	switch cfg.SigningMethod {
	case MethodHS256, MethodHS384, MethodHS512:
	default:
		return nil, errors.New("unsupported signing method")
	}
	if len(cfg.AccessSecret) == 0 {
		return nil, errors.New("access secret is required")
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("refresh secret is required")
	}
	if bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}

	return &Codec{
		config: cfg,
		secrets: map[Type][]byte{
			TypeAccess:  cfg.AccessSecret,
			TypeRefresh: cfg.RefreshSecret,
		},
	}, nil
}

// Issue builds and signs a token of the given type for subject using the
// configured default TTL for that type. Each call generates a fresh random
// jti, so two tokens for the same subject and type never collide in the
// revocation store.
func (c *Codec) Issue(subject string, typ Type) (string, error) {
	return c.IssueWithTTL(subject, typ, c.defaultTTL(typ))
}

// IssueWithTTL is [Codec.Issue] with an explicit lifetime override. A
// non-positive ttl produces an already-expired token; diagnostic and test
// paths rely on this.
func (c *Codec) IssueWithTTL(subject string, typ Type, ttl time.Duration) (string, error) {
	secret, ok := c.secrets[typ]
	if !ok {
		return "", ErrTypeMismatch
	}

	// Whole-second timestamps: the wire contract carries UNIX epoch seconds.
	now := time.Now().Truncate(time.Second)
	claims := Claims{
		TokenType: string(typ),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(c.method(), claims).SignedString(secret)
}

// Decode verifies encoded against the secret for its claimed type and returns
// the parsed claims.
//
// The type claim is checked before signature verification, so demanding the
// wrong type always fails with [ErrTypeMismatch] regardless of signature
// validity. Signature or structural failures return [ErrInvalidSignature].
// When verifyExpiry is true, a token whose expiry is at or before the current
// time returns [ErrExpired]; when false, an expired token still decodes
// (introspection paths only, never access control).
func (c *Codec) Decode(encoded string, expected Type, verifyExpiry bool) (*Claims, error) {
	unverified := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(encoded, unverified); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if unverified.Type() != expected {
		return nil, ErrTypeMismatch
	}

	secret, ok := c.secrets[expected]
	if !ok {
		return nil, ErrTypeMismatch
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.method().Alg()}),
	}
	if !verifyExpiry {
		options = append(options, jwt.WithoutClaimsValidation())
	}

	parsed, err := jwt.NewParser(options...).ParseWithClaims(
		encoded,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}

func (c *Codec) defaultTTL(typ Type) time.Duration {
	if typ == TypeRefresh {
		return c.config.RefreshTTL
	}
	return c.config.AccessTTL
}

func (c *Codec) method() jwt.SigningMethod {
	switch c.config.SigningMethod {
	case MethodHS384:
		return jwt.SigningMethodHS384
	case MethodHS512:
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}
