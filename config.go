// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package securecrypto

import "runtime"

// Config defines the tunable parameters for a RandomGenerator's internal
// pool. The pool exists to spread the per-call scratch-buffer allocation
// used by the hex/Base64 convenience encoders across shards, reducing
// contention under concurrent use; it does not gate or rekey the
// underlying crypto/rand source, which has no per-key budget to exhaust.
type Config struct {
	// Shards controls the number of independent pool shards used to
	// reduce allocation contention under concurrent use. If zero,
	// defaults to runtime.GOMAXPROCS(0).
	Shards int

	// MaxInitRetries is the number of times construction retries the
	// initial entropy-quality probe before giving up. If zero, a
	// default of 3 is used.
	MaxInitRetries int
}

const defaultMaxInitRetries = 3

// DefaultConfig returns a Config populated with production-safe defaults.
func DefaultConfig() Config {
	return Config{
		Shards:         runtime.GOMAXPROCS(0),
		MaxInitRetries: defaultMaxInitRetries,
	}
}

// Option defines a functional option for customizing a Config.
type Option func(*Config)

// WithShards sets the number of independent pool shards to use.
//
// If n <= 0, the number of shards defaults to runtime.GOMAXPROCS(0).
func WithShards(n int) Option {
	return func(cfg *Config) { cfg.Shards = n }
}

// WithMaxInitRetries sets the maximum number of entropy-quality probe
// retries performed during construction.
func WithMaxInitRetries(r int) Option {
	return func(cfg *Config) { cfg.MaxInitRetries = r }
}
