package revocation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable is returned when the backing store cannot be reached.
// Callers on validation paths must treat it as a rejection, never as
// "not revoked".
var ErrStoreUnavailable = errors.New("revocation store unavailable")

const (
	// DefaultURL is the fixed local endpoint used when no store URL is configured.
	DefaultURL = "redis://localhost:6379/0"
	// DefaultKeyPrefix is the namespace prepended to every revocation key.
	DefaultKeyPrefix = "blacklist:"

	markerValue = "1"

	// Non-positive TTLs still set a marker, but its practical window is
	// negligible. Redis rejects SET with a zero or negative expiry.
	minMarkerTTL = time.Second
)

// Store wraps the shared key-value cache holding revocation markers. The
// zero value is not usable; construct via [NewStore] or [NewLazyStore].
// All methods are safe for concurrent use.
type Store struct {
	prefix string

	dialOnce   sync.Once
	dial       func() (redis.UniversalClient, error)
	client     redis.UniversalClient
	dialErr    error
	ownsClient bool
}

// NewStore returns a Store on an already-connected client. The caller keeps
// ownership of the client; [Store.Close] will not touch it.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	return &Store{
		prefix: normalizePrefix(prefix),
		client: client,
	}
}

// NewLazyStore returns a Store that dials url on first use. The handle is
// created exactly once even under concurrent first callers, and reused for
// the life of the process. An empty url falls back to [DefaultURL].
func NewLazyStore(url, prefix string) *Store {
	if url == "" {
		url = DefaultURL
	}

	return &Store{
		prefix: normalizePrefix(prefix),
		dial: func() (redis.UniversalClient, error) {
			opts, err := redis.ParseURL(url)
			if err != nil {
				return nil, err
			}
			return redis.NewClient(opts), nil
		},
	}
}

// Revoke sets a marker for id with the given TTL. Re-revoking the same id
// simply refreshes the marker. TTLs at or below zero are clamped to a
// one-second window.
func (s *Store) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	client, err := s.conn()
	if err != nil {
		return err
	}

	if ttl < minMarkerTTL {
		ttl = minMarkerTTL
	}

	if err := client.Set(ctx, s.key(id), markerValue, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether a live marker exists for id, including markers
// set by other processes sharing the backing store.
func (s *Store) IsRevoked(ctx context.Context, id string) (bool, error) {
	client, err := s.conn()
	if err != nil {
		return false, err
	}

	n, err := client.Exists(ctx, s.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

// Clear removes the marker for id. TTL expiry makes this unnecessary for
// correctness; tests and manual un-revocation use it.
func (s *Store) Clear(ctx context.Context, id string) error {
	client, err := s.conn()
	if err != nil {
		return err
	}

	if err := client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time backend availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	client, err := s.conn()
	if err != nil {
		return 0, err
	}

	start := time.Now()
	if err := client.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return time.Since(start), nil
}

// Close releases the connection handle if this Store dialed it. Injected
// clients remain open.
func (s *Store) Close() error {
	if !s.ownsClient || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Store) conn() (redis.UniversalClient, error) {
	s.dialOnce.Do(func() {
		if s.client != nil || s.dial == nil {
			return
		}
		s.client, s.dialErr = s.dial()
		s.ownsClient = s.dialErr == nil
	})

	if s.dialErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, s.dialErr)
	}
	if s.client == nil {
		return nil, ErrStoreUnavailable
	}
	return s.client, nil
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func normalizePrefix(prefix string) string {
	if prefix == "" {
		return DefaultKeyPrefix
	}
	return prefix
}
