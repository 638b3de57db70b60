package authcore

import (
	"bytes"
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrEthical07/authcore/token"
)

// Config defines the process-wide settings for the token lifecycle. Instances
// are treated as immutable after [Builder.Build] validates them.
type Config struct {
	JWT        JWTConfig
	Revocation RevocationConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig holds signing secrets and default lifetimes per token type.
// Access and refresh tokens use distinct secrets — a deliberate blast-radius
// limit: compromising one secret does not forge the other token class.
type JWTConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	SigningMethod string // "hs256" (default), "hs384", "hs512"
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

/*
====================================
REVOCATION CONFIG
====================================
*/

// RevocationConfig holds the shared blacklist store settings. An empty
// RedisURL falls back to the fixed local default endpoint; an empty KeyPrefix
// falls back to "blacklist:".
type RevocationConfig struct {
	RedisURL  string
	KeyPrefix string
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			SigningMethod: string(token.MethodHS256),
			AccessTTL:     30 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
		},
	}
}

func (c Config) validate() error {
	if len(c.JWT.AccessSecret) == 0 {
		return errors.New("access token secret is required")
	}
	if len(c.JWT.RefreshSecret) == 0 {
		return errors.New("refresh token secret is required")
	}
	if bytes.Equal(c.JWT.AccessSecret, c.JWT.RefreshSecret) {
		return errors.New("access and refresh secrets must differ")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("invalid TTL configuration")
	}
	switch token.SigningMethod(c.JWT.SigningMethod) {
	case token.MethodHS256, token.MethodHS384, token.MethodHS512:
	default:
		return errors.New("unsupported signing method")
	}
	return nil
}

type envSettings struct {
	JWTSecretKey        string        `envconfig:"JWT_SECRET_KEY" required:"true"`
	JWTRefreshSecretKey string        `envconfig:"JWT_REFRESH_SECRET_KEY" required:"true"`
	Algorithm           string        `envconfig:"ALGORITHM" default:"hs256"`
	AccessTokenTTL      time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"30m"`
	RefreshTokenTTL     time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`
	RedisURL            string        `envconfig:"REDIS_URL"`
	BlacklistKeyPrefix  string        `envconfig:"BLACKLIST_KEY_PREFIX" default:"blacklist:"`
}

// LoadConfig builds a [Config] from environment variables. JWT_SECRET_KEY and
// JWT_REFRESH_SECRET_KEY are required; everything else has defaults. An unset
// REDIS_URL leaves the revocation store on its fixed local default endpoint.
func LoadConfig() (Config, error) {
	var s envSettings
	if err := envconfig.Process("", &s); err != nil {
		return Config{}, err
	}

	cfg := defaultConfig()
	cfg.JWT.AccessSecret = []byte(s.JWTSecretKey)
	cfg.JWT.RefreshSecret = []byte(s.JWTRefreshSecretKey)
	cfg.JWT.SigningMethod = s.Algorithm
	cfg.JWT.AccessTTL = s.AccessTokenTTL
	cfg.JWT.RefreshTTL = s.RefreshTokenTTL
	cfg.Revocation.RedisURL = s.RedisURL
	cfg.Revocation.KeyPrefix = s.BlacklistKeyPrefix

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
