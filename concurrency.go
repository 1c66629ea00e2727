// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package securecrypto

import (
	"context"

	"github.com/mavbozo/securecrypto/internal/dispatch"
)

// computePool and ioPool back the Context-suffixed variants of this
// package's operations. The library owns no ambient scheduler beyond
// these two fixed-size pools: CPU-bound cryptographic work (key
// derivation, AEAD encrypt/decrypt) dispatches onto computePool, and
// file I/O dispatches onto ioPool, matching the split the concurrency
// model calls for.
var (
	computePool = dispatch.NewComputePool()
	ioPool      = dispatch.NewIOPool(0)
)

// DeriveKeyContext is DeriveKey dispatched onto the compute pool,
// returning early with ctx.Err() if ctx is cancelled before a worker
// slot is available.
func DeriveKeyContext(ctx context.Context, masterKey []byte, domain, kdfContext string, keySize int, algorithm HKDFAlgorithm) (*SecureBuffer, error) {
	return dispatch.Do(ctx, computePool, func() (*SecureBuffer, error) {
		return DeriveKey(masterKey, domain, kdfContext, keySize, algorithm)
	})
}

// EncryptBytesContext is EncryptBytes dispatched onto the compute pool.
func EncryptBytesContext(ctx context.Context, key, plaintext []byte) ([]byte, error) {
	return dispatch.Do(ctx, computePool, func() ([]byte, error) {
		return EncryptBytes(key, plaintext)
	})
}

// DecryptBytesContext is DecryptBytes dispatched onto the compute pool.
func DecryptBytesContext(ctx context.Context, key, framed []byte) ([]byte, error) {
	return dispatch.Do(ctx, computePool, func() ([]byte, error) {
		return DecryptBytes(key, framed)
	})
}

// EncryptFileContext is EncryptFile dispatched onto the I/O pool.
func EncryptFileContext(ctx context.Context, key []byte, srcPath, dstPath string) error {
	_, err := dispatch.Do(ctx, ioPool, func() (struct{}, error) {
		return struct{}{}, EncryptFile(key, srcPath, dstPath)
	})
	return err
}

// DecryptFileContext is DecryptFile dispatched onto the I/O pool.
func DecryptFileContext(ctx context.Context, key []byte, srcPath, dstPath string) error {
	_, err := dispatch.Do(ctx, ioPool, func() (struct{}, error) {
		return struct{}{}, DecryptFile(key, srcPath, dstPath)
	})
	return err
}
