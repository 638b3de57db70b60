package authcore

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/MrEthical07/authcore/revocation"
	"github.com/MrEthical07/authcore/token"
)

// Builder assembles an [Engine]. Construction is allocation-only: no I/O
// happens until the first Engine operation touches the revocation store.
type Builder struct {
	config   Config
	redis    redis.UniversalClient
	provider IdentityProvider
	logger   zerolog.Logger
	haveLog  bool

	built bool
}

// New returns a Builder pre-loaded with default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis injects an already-connected client for the revocation store.
// Without it, the engine lazily dials the configured store URL on first use,
// creating exactly one shared handle per Engine.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithIdentityProvider injects the identity-lookup collaborator. Required.
func (b *Builder) WithIdentityProvider(provider IdentityProvider) *Builder {
	b.provider = provider
	return b
}

// WithLogger sets the structured logger used for internal rejection-reason
// logging. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	b.haveLog = true
	return b
}

// Build validates the configuration and returns a ready [Engine]. A Builder
// is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.provider == nil {
		return nil, errors.New("identity provider is required")
	}
	if err := b.config.validate(); err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(token.Config{
		SigningMethod: token.SigningMethod(b.config.JWT.SigningMethod),
		AccessSecret:  b.config.JWT.AccessSecret,
		RefreshSecret: b.config.JWT.RefreshSecret,
		AccessTTL:     b.config.JWT.AccessTTL,
		RefreshTTL:    b.config.JWT.RefreshTTL,
	})
	if err != nil {
		return nil, err
	}

	var store *revocation.Store
	if b.redis != nil {
		store = revocation.NewStore(b.redis, b.config.Revocation.KeyPrefix)
	} else {
		store = revocation.NewLazyStore(b.config.Revocation.RedisURL, b.config.Revocation.KeyPrefix)
	}

	logger := b.logger
	if !b.haveLog {
		logger = zerolog.Nop()
	}

	b.built = true
	return &Engine{
		config:   b.config,
		codec:    codec,
		store:    store,
		provider: b.provider,
		logger:   logger.With().Str("component", "authcore").Logger(),
	}, nil
}
