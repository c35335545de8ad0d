package cache

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// options holds settings shared by the cache backends.
type options struct {
	clock      Clock
	defaultTTL time.Duration
	namespace  Namespace
	logger     *zerolog.Logger
}

// Option configures a cache backend.
type Option func(*options)

// WithClock sets the time source (for testing).
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithDefaultTTL sets the TTL used when Set receives a non-positive TTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.defaultTTL = ttl
		}
	}
}

// WithNamespace sets the key prefix used by shared backends (Redis).
func WithNamespace(ns Namespace) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

func newOptions(backend string, opts []Option) options {
	o := options{
		clock:      SystemClock,
		defaultTTL: DefaultTTL,
		namespace:  DefaultNamespace,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		logger := log.With().Str("component", "cache").Str("backend", backend).Logger()
		o.logger = &logger
	}
	return o
}
