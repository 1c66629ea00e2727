// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package securecrypto

import (
	"runtime"
	"sync"
)

// SecureBuffer owns a fixed-length byte region and guarantees it is
// zeroized on every exit path out of Use, whether Use's callback returns
// normally or with an error.
//
// A SecureBuffer is single-use: once a Use call has returned, the
// underlying region has already been overwritten with zeros, and a
// second Use call observes that zeroed region. This is defined behavior,
// not an error, matching the "use-then-zeroed" contract callers may
// depend on.
//
// The zero value is not usable; construct with WrapSecureBuffer.
type SecureBuffer struct {
	mu   sync.Mutex
	data []byte
}

// WrapSecureBuffer takes ownership of b and returns a SecureBuffer over
// it. Wrapping never fails. The caller must not retain or mutate b after
// this call.
func WrapSecureBuffer(b []byte) *SecureBuffer {
	return &SecureBuffer{data: b}
}

// NewSecureBuffer allocates a fresh zero-filled SecureBuffer of n bytes.
func NewSecureBuffer(n int) *SecureBuffer {
	return WrapSecureBuffer(make([]byte, n))
}

// Len returns the length of the buffer's region. Len does not consume
// the buffer and is safe to call before or after Use.
func (s *SecureBuffer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Use invokes fn with a mutable view of the buffer's bytes and returns
// whatever fn returns. Before Use itself returns — on normal completion
// or on an error from fn — the entire region is overwritten with zero
// bytes using a write the compiler cannot optimize away.
//
// Calling Use a second time is defined behavior: fn observes an
// all-zero view, since the first call already zeroized the region.
func (s *SecureBuffer) Use(fn func(b []byte) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer zeroize(s.data)

	return fn(s.data)
}

// UseSecureBuffer invokes fn with a mutable view of s's bytes and returns
// whatever fn returns, zeroizing s's region before returning in the same
// manner as SecureBuffer.Use. It exists as a free function, rather than a
// generic method, because Go methods cannot carry their own type
// parameters.
func UseSecureBuffer[T any](s *SecureBuffer, fn func(b []byte) (T, error)) (T, error) {
	var result T
	err := s.Use(func(b []byte) error {
		v, err := fn(b)
		result = v
		return err
	})
	return result, err
}

// zeroize overwrites b with zeros. A plain range-and-assign loop over a
// slice that is never read again is a classic dead-store-elimination
// target; runtime.KeepAlive after the loop forces the compiler to treat
// the writes as observable, the same guard used around sensitive-buffer
// wipes elsewhere in the wider crypto ecosystem.
func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
