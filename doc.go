// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package securecrypto provides a small, mobile-oriented set of
// cryptographic primitives: a zeroizing SecureBuffer, a labelled CSPRNG
// entropy provider (with an optional two-source "enhanced" mixer), an
// HKDF-based key derivation function with strict domain separation, and
// a self-describing, version-tagged AES-256-GCM ciphertext container.
//
// The four pieces are meant to be used together: RandomGenerator or
// EnhancedRandomGenerator supplies key and IV material, DeriveKey turns
// a master key plus a domain/context pair into a derived key held in a
// SecureBuffer, and EncryptBytes/DecryptBytes (or the String/File
// variants) consume that derived key to produce or open framed
// ciphertext.
//
// This package does not implement asymmetric cryptography, signatures,
// streaming/chunked encryption, password-based key derivation, key
// storage, or user authentication.
package securecrypto
