// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package xprng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/chacha20"
)

// Source is an independent, self-rekeying CSPRNG stream. It is safe for
// concurrent use; each Read borrows an instance from an internal pool.
type Source interface {
	io.Reader

	// Config returns a copy of the configuration in effect for this Source.
	Config() Config
}

// source wraps a sync.Pool of cipher instances to provide an io.Reader
// that efficiently reuses ChaCha20-based stream state.
type source struct {
	config *Config
	pools  []*sync.Pool
}

// New constructs a Source backed by a pool of ChaCha20 stream instances.
//
// Each stream is seeded with a unique key and nonce from crypto/rand and
// automatically rotates to a fresh key/nonce pair after emitting
// Config.MaxBytesPerKey bytes. New returns an error if the pool cannot be
// initialized after Config.MaxInitRetries attempts.
func New(opts ...Option) (Source, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Shards <= 0 {
		cfg.Shards = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxBytesPerKey == 0 {
		cfg.MaxBytesPerKey = maxBytesPerKey
	}
	if cfg.MaxInitRetries <= 0 {
		cfg.MaxInitRetries = 3
	}
	if cfg.MaxRekeyAttempts <= 0 {
		cfg.MaxRekeyAttempts = maxRekeyAttempts
	}
	if cfg.RekeyBackoff <= 0 {
		cfg.RekeyBackoff = rekeyBackoff
	}

	pools := make([]*sync.Pool, cfg.Shards)
	for i := range pools {
		cfg := cfg
		pools[i] = &sync.Pool{
			New: func() interface{} {
				var (
					s   *stream
					err error
				)
				for r := 0; r < cfg.MaxInitRetries; r++ {
					if s, err = newStream(&cfg); err == nil {
						return s
					}
				}
				return nil
			},
		}

		var initErr error
		item := pools[i].Get()
		if item == nil {
			initErr = fmt.Errorf("xprng: pool initialization failed after %d retries", cfg.MaxInitRetries)
		} else {
			pools[i].Put(item)
		}
		if initErr != nil {
			return nil, initErr
		}
	}

	return &source{pools: pools, config: &cfg}, nil
}

// Config returns a copy of the Source's configuration.
func (s *source) Config() Config {
	return *s.config
}

func shardIndex(n int) int {
	return mrand.IntN(n)
}

// Read fills b with cryptographically secure random bytes.
func (s *source) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	n := len(s.pools)
	shard := 0
	if n > 1 {
		shard = shardIndex(n)
	}

	st := s.pools[shard].Get().(*stream)
	defer s.pools[shard].Put(st)

	return st.Read(b)
}

// stream implements io.Reader using a ChaCha20 cipher, and supports
// asynchronous, nonblocking rotation of the underlying key/nonce pair.
type stream struct {
	config *Config

	// cipher holds the active *chacha20.Cipher. Stored in an atomic.Value
	// so loads and stores are safe and nonblocking.
	cipher atomic.Value

	// usage tracks the total number of bytes output under the current key.
	usage uint64

	// rekeying is a 0/1 flag (set via atomic CAS) so only one background
	// goroutine at a time performs the expensive rekey operation.
	rekeying uint32
}

func (st *stream) Read(b []byte) (int, error) {
	n := len(b)
	if n == 0 {
		return 0, nil
	}

	c := st.cipher.Load().(*chacha20.Cipher)
	c.XORKeyStream(b, b)

	atomic.AddUint64(&st.usage, uint64(n))
	if atomic.LoadUint64(&st.usage) > st.config.MaxBytesPerKey {
		if atomic.CompareAndSwapUint32(&st.rekeying, 0, 1) {
			go st.asyncRekey()
		}
	}

	return n, nil
}

func newStream(config *Config) (*stream, error) {
	c, err := newCipher()
	if err != nil {
		return nil, err
	}
	st := &stream{config: config}
	st.cipher.Store(c)
	return st, nil
}

// newCipher generates a new *chacha20.Cipher seeded with a cryptographically
// secure random key and nonce, zeroizing the seed material immediately after
// use.
func newCipher() (*chacha20.Cipher, error) {
	key := make([]byte, chacha20.KeySize)
	nonce := make([]byte, chacha20.NonceSizeX)

	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("xprng: failed to read key: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("xprng: failed to read nonce: %w", err)
	}

	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)

	for i := range key {
		key[i] = 0
	}
	for i := range nonce {
		nonce[i] = 0
	}

	if err != nil {
		return nil, fmt.Errorf("xprng: unable to initialize cipher: %w", err)
	}
	return c, nil
}

// asyncRekey performs an asynchronous, non-blocking rotation of the
// stream's cipher. It runs in its own goroutine and retries up to
// Config.MaxRekeyAttempts times with jittered exponential backoff.
func (st *stream) asyncRekey() {
	defer atomic.StoreUint32(&st.rekeying, 0)

	base := st.config.RekeyBackoff
	maxBackoff := st.config.MaxRekeyBackoff
	if maxBackoff == 0 {
		maxBackoff = maxRekeyBackoff
	}

	for i := 0; i < st.config.MaxRekeyAttempts; i++ {
		c, err := newCipher()
		if err == nil {
			st.cipher.Store(c)
			atomic.StoreUint64(&st.usage, 0)
			return
		}

		var b [8]byte
		if _, err := rand.Read(b[:]); err == nil {
			rnd := binary.BigEndian.Uint64(b[:])
			delay := base + time.Duration(rnd%uint64(base))
			time.Sleep(delay)
		} else {
			time.Sleep(base)
		}

		base *= 2
		if base > maxBackoff {
			base = maxBackoff
		}
	}
}
