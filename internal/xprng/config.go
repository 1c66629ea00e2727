// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package xprng provides the second, independent ChaCha20-based CSPRNG
// source consumed by the enhanced entropy mixer. It exists because the
// mixer's security argument (spec.md §4.2.2) requires two sources that
// do not share internal state with one another or with the package's
// primary crypto/rand-backed generator.
package xprng

import (
	"runtime"
	"time"
)

// Config defines the tunable parameters for a xprng Source.
//
// Fields mirror the pooled, auto-rekeying ChaCha20 stream this package
// is built from: output is rotated to a fresh key/nonce after a
// configurable number of bytes, giving the mixer's second source its
// own forward secrecy independent of the primary generator.
type Config struct {
	// MaxBytesPerKey is the maximum number of bytes generated per key/nonce
	// before triggering automatic rekeying. If zero, a default of 1 GiB is used.
	MaxBytesPerKey uint64

	// MaxInitRetries is the maximum number of attempts to initialize a pool
	// entry before giving up. If zero, a default of 3 is used.
	MaxInitRetries int

	// MaxRekeyAttempts specifies the number of attempts to perform asynchronous
	// rekeying before giving up and leaving the existing cipher in place.
	// If zero, a default of 5 is used.
	MaxRekeyAttempts int

	// MaxRekeyBackoff specifies the maximum duration for exponential backoff
	// during rekey attempts. If zero, a default of 2 seconds is used.
	MaxRekeyBackoff time.Duration

	// RekeyBackoff is the initial delay before retrying a failed rekey
	// operation. If zero, the default is 100 milliseconds.
	RekeyBackoff time.Duration

	// Shards controls the number of independent pools used for parallelism.
	// If zero, defaults to runtime.GOMAXPROCS(0).
	Shards int
}

const (
	maxRekeyAttempts = 5
	rekeyBackoff     = 100 * time.Millisecond
	maxRekeyBackoff  = 2 * time.Second
	maxBytesPerKey   = 1 << 30
)

// DefaultConfig returns a Config populated with conservative defaults.
func DefaultConfig() Config {
	return Config{
		MaxBytesPerKey:   maxBytesPerKey,
		MaxInitRetries:   3,
		MaxRekeyAttempts: maxRekeyAttempts,
		MaxRekeyBackoff:  maxRekeyBackoff,
		RekeyBackoff:     rekeyBackoff,
		Shards:           runtime.GOMAXPROCS(0),
	}
}

// Option defines a functional option for customizing a Config.
type Option func(*Config)

// WithMaxBytesPerKey sets the maximum output in bytes per key before rekeying.
func WithMaxBytesPerKey(n uint64) Option {
	return func(cfg *Config) { cfg.MaxBytesPerKey = n }
}

// WithMaxInitRetries sets the maximum number of pool initialization retries.
func WithMaxInitRetries(r int) Option {
	return func(cfg *Config) { cfg.MaxInitRetries = r }
}

// WithMaxRekeyAttempts sets the maximum number of retries for asynchronous rekeying.
func WithMaxRekeyAttempts(r int) Option {
	return func(cfg *Config) { cfg.MaxRekeyAttempts = r }
}

// WithMaxRekeyBackoff sets the maximum duration for rekey exponential backoff.
func WithMaxRekeyBackoff(d time.Duration) Option {
	return func(cfg *Config) { cfg.MaxRekeyBackoff = d }
}

// WithRekeyBackoff sets the initial backoff duration for rekey retries.
func WithRekeyBackoff(d time.Duration) Option {
	return func(cfg *Config) { cfg.RekeyBackoff = d }
}

// WithShards sets the number of independent sync.Pool shards to use.
//
// If n <= 0, the number of shards defaults to runtime.GOMAXPROCS(0).
func WithShards(n int) Option {
	return func(cfg *Config) { cfg.Shards = n }
}
