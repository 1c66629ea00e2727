// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package securecrypto

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
)

// HKDFAlgorithm is a closed enumeration of the HMAC variants this
// package's key derivation supports.
type HKDFAlgorithm int

const (
	// SHA256 selects HMAC-SHA256 (32-byte MAC). This is the recommended
	// default.
	SHA256 HKDFAlgorithm = iota

	// SHA512 selects HMAC-SHA512 (64-byte MAC).
	SHA512

	// SHA1 selects HMAC-SHA1 (20-byte MAC). Deprecated: retained only
	// for interoperability with legacy callers; prefer SHA256 or SHA512
	// for new key material.
	SHA1
)

func (a HKDFAlgorithm) hashFunc() func() hash.Hash {
	switch a {
	case SHA512:
		return sha512.New
	case SHA1:
		return sha1.New
	default:
		return sha256.New
	}
}

// macLen returns the HMAC output length in bytes for the algorithm.
func (a HKDFAlgorithm) macLen() int {
	switch a {
	case SHA512:
		return sha512.Size
	case SHA1:
		return sha1.Size
	default:
		return sha256.Size
	}
}

// infoPrefix and infoVersionTag form the domain-separation info string's
// fixed wire-format contract. The literal ".v1:" tag MUST NOT change
// without bumping the library's derivation scheme version, since doing
// so would silently re-derive every existing key under a new identity.
const (
	infoPrefix     = "com.mavbozo.androidsecurecrypto."
	infoVersionTag = ".v1:"
)

// buildInfo constructs the HKDF info string "prefix + domain + tag +
// context" as UTF-8 bytes.
func buildInfo(domain, context string) []byte {
	info := make([]byte, 0, len(infoPrefix)+len(domain)+len(infoVersionTag)+len(context))
	info = append(info, infoPrefix...)
	info = append(info, domain...)
	info = append(info, infoVersionTag...)
	info = append(info, context...)
	return info
}

// DeriveKey derives a keySize-byte key from masterKey using HKDF
// (RFC 5869) with an all-zero salt (the "salt not provided" case) and an
// info string that domain-separates the output by domain and context.
//
// Preconditions are checked in this order; the first failure is
// returned:
//  1. keySize must be positive.
//  2. masterKey must be at least 16 bytes.
//  3. domain must not be empty.
//  4. context must not be empty.
//
// For fixed (masterKey, domain, context, keySize, algorithm), DeriveKey
// is deterministic: it returns bit-for-bit identical output across
// calls and across conforming implementations.
func DeriveKey(masterKey []byte, domain, context string, keySize int, algorithm HKDFAlgorithm) (*SecureBuffer, error) {
	if keySize <= 0 {
		return nil, newError(KindInvalidArgument, "key size must be positive")
	}
	if len(masterKey) < 16 {
		return nil, newError(KindInvalidArgument, "master key too short")
	}
	if domain == "" {
		return nil, newError(KindInvalidArgument, "domain must not be empty")
	}
	if context == "" {
		return nil, newError(KindInvalidArgument, "context must not be empty")
	}

	hashFn := algorithm.hashFunc()
	hashLen := algorithm.macLen()
	if keySize > 255*hashLen {
		return nil, newError(KindInvalidArgument, "key size exceeds maximum HKDF output length for this algorithm")
	}

	// RFC 5869 §2.2: when no salt is provided, it is set to a string of
	// HashLen zeros.
	salt := make([]byte, hashLen)
	defer zeroize(salt)

	info := buildInfo(domain, context)

	prk := hkdf.Extract(hashFn, masterKey, salt)
	defer zeroize(prk)

	out := make([]byte, keySize)
	expander := hkdf.Expand(hashFn, prk, info)
	if _, err := io.ReadFull(expander, out); err != nil {
		zeroize(out)
		return nil, wrapError(KindBackendUnavailable, "HKDF expand failed", err)
	}

	return WrapSecureBuffer(out), nil
}
