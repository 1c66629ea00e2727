// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package securecrypto

import (
	"crypto/rand"
	"crypto/sha512"
	"io"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/mavbozo/securecrypto/internal/xprng"
)

// EnhancedRandomGenerator composes the package's base RandomGenerator
// with a second, independent CSPRNG source and a process-stable
// "platform identity" string, mixing all three through SHA-512. This
// adds defense-in-depth against a single compromised source dominating
// the output; it does not strengthen entropy beyond the strongest
// input. Its EntropyQuality is always QualityHardware — construction
// fails outright if the platform identity cannot be obtained, rather
// than silently downgrading the label.
type EnhancedRandomGenerator struct {
	base     *RandomGenerator
	second   xprng.Source
	identity []byte
}

// NewEnhancedRandomGenerator constructs an EnhancedRandomGenerator.
// Construction fails with KindBackendUnavailable if the process-wide
// platform-identity singleton cannot be initialized, or if either
// underlying CSPRNG source cannot be constructed.
func NewEnhancedRandomGenerator(opts ...Option) (*EnhancedRandomGenerator, error) {
	identity, err := platformIdentity()
	if err != nil {
		return nil, err
	}

	base, err := NewRandomGenerator(opts...)
	if err != nil {
		return nil, err
	}

	second, err := xprng.New()
	if err != nil {
		return nil, wrapError(KindBackendUnavailable, "failed to initialize secondary entropy source", err)
	}

	return &EnhancedRandomGenerator{base: base, second: second, identity: identity}, nil
}

// Quality always reports QualityHardware for an EnhancedRandomGenerator.
func (e *EnhancedRandomGenerator) Quality() EntropyQuality {
	return QualityHardware
}

// NextBytes produces n mixed bytes: a draw from the base generator is
// combined with two further independent draws and the platform
// identity via hkdfMix (see DESIGN.md for the legacyMix alternative and
// why hkdfMix is the chosen default).
func (e *EnhancedRandomGenerator) NextBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, newError(KindInvalidArgument, "size must be positive")
	}

	baseEntropy, err := e.base.NextBytes(n)
	if err != nil {
		return nil, err
	}
	defer zeroize(baseEntropy)

	block1 := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, block1); err != nil {
		return nil, wrapError(KindBackendUnavailable, "failed to read first mixer block", err)
	}
	defer zeroize(block1)

	block2 := make([]byte, n)
	if _, err := io.ReadFull(e.second, block2); err != nil {
		return nil, wrapError(KindBackendUnavailable, "failed to read second mixer block", err)
	}
	defer zeroize(block2)

	return hkdfMix(block1, block2, baseEntropy, e.identity, n)
}

// NextSecureBytes is NextBytes wrapped for zeroization.
func (e *EnhancedRandomGenerator) NextSecureBytes(n int) (*SecureBuffer, error) {
	b, err := e.NextBytes(n)
	if err != nil {
		return nil, err
	}
	return WrapSecureBuffer(b), nil
}

// hkdfMix is the chosen mixer: HKDF-Extract(SHA-512, salt=identity,
// ikm=block1‖block2‖baseEntropy) followed by HKDF-Expand to n bytes.
// This is strictly stronger than legacyMix's truncated-hash chaining
// and carries no length-extension-shaped construction, at the cost of
// not being byte-compatible with any prior deployment (see DESIGN.md).
func hkdfMix(block1, block2, baseEntropy, identity []byte, n int) ([]byte, error) {
	ikm := make([]byte, 0, len(block1)+len(block2)+len(baseEntropy))
	ikm = append(ikm, block1...)
	ikm = append(ikm, block2...)
	ikm = append(ikm, baseEntropy...)
	defer zeroize(ikm)

	prk := hkdf.Extract(sha512.New, ikm, identity)
	defer zeroize(prk)

	out := make([]byte, n)
	expander := hkdf.Expand(sha512.New, prk, nil)
	if _, err := io.ReadFull(expander, out); err != nil {
		zeroize(out)
		return nil, wrapError(KindBackendUnavailable, "mixer HKDF expand failed", err)
	}
	return out, nil
}

// legacyMix reproduces the original truncated-SHA-512-chain mixer
// documented as an Open Question: XOR the three inputs together, then
// absorb each 64-byte chunk of the result plus the identity string
// through a freshly reset SHA-512 instance, copying min(64, remaining)
// digest bytes into the output per chunk. It exists only so that exact
// byte-for-byte interoperability with a prior deployment can be
// reinstated by swapping NextBytes' call from hkdfMix to legacyMix; it
// is not reachable from any exported API.
func legacyMix(block1, block2, baseEntropy, identity []byte, n int) []byte {
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[i] = block1[i] ^ block2[i] ^ baseEntropy[i%len(baseEntropy)]
	}
	defer zeroize(result)

	out := make([]byte, n)
	for offset := 0; offset < n; offset += sha512.Size {
		end := offset + sha512.Size
		if end > n {
			end = n
		}
		h := sha512.New()
		h.Write(result[offset:end])
		h.Write(identity)
		digest := h.Sum(nil)

		copyLen := end - offset
		copy(out[offset:end], digest[:copyLen])
	}
	return out
}

// platformIdentity returns the process-wide, process-stable identity
// string used as the mixer's salt/domain tag. It is opaque, non-secret,
// and lazily initialized exactly once; initialization failure is
// latched and re-returned on every subsequent call.
var (
	platformIdentityOnce  sync.Once
	platformIdentityBytes []byte
	platformIdentityErr   error
)

func platformIdentity() ([]byte, error) {
	platformIdentityOnce.Do(func() {
		id, err := uuid.NewRandom()
		if err != nil {
			platformIdentityErr = wrapError(KindBackendUnavailable, "failed to obtain platform identity", err)
			return
		}
		platformIdentityBytes = []byte(id.String())
	})
	return platformIdentityBytes, platformIdentityErr
}
