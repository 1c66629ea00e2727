// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package securecrypto

import (
	"bytes"
	"crypto/sha512"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EnhancedRandomGenerator_QualityIsAlwaysHardware(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	e, err := NewEnhancedRandomGenerator()
	require.NoError(t, err)
	is.Equal(QualityHardware, e.Quality())
}

func Test_EnhancedRandomGenerator_NextBytes_Length(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	e, err := NewEnhancedRandomGenerator()
	require.NoError(t, err)

	for _, size := range []int{1, 16, 64, 256} {
		b, err := e.NextBytes(size)
		is.NoError(err)
		is.Len(b, size)
	}
}

func Test_EnhancedRandomGenerator_NextBytes_RejectsNonPositive(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	e, err := NewEnhancedRandomGenerator()
	require.NoError(t, err)

	_, err = e.NextBytes(0)
	is.True(IsInvalidArgument(err))
}

func Test_EnhancedRandomGenerator_NextBytes_Distinct(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	e, err := NewEnhancedRandomGenerator()
	require.NoError(t, err)

	a, err := e.NextBytes(32)
	require.NoError(t, err)
	b, err := e.NextBytes(32)
	require.NoError(t, err)
	is.False(bytes.Equal(a, b))
}

func Test_EnhancedRandomGenerator_NextSecureBytes_Zeroizes(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	e, err := NewEnhancedRandomGenerator()
	require.NoError(t, err)

	sb, err := e.NextSecureBytes(16)
	require.NoError(t, err)

	err = sb.Use(func(b []byte) error {
		is.Len(b, 16)
		return nil
	})
	is.NoError(err)

	err = sb.Use(func(b []byte) error {
		is.Equal(make([]byte, 16), b, "region must be zeroized after the first Use")
		return nil
	})
	is.NoError(err)
}

func Test_PlatformIdentity_StableWithinProcess(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a, err := platformIdentity()
	require.NoError(t, err)
	b, err := platformIdentity()
	require.NoError(t, err)
	is.Equal(a, b, "platform identity must be stable within a process")
}

// Test_LegacyMix_DeterministicGivenInputs documents legacyMix's exact
// byte layout: identical inputs reproduce identical output, and the
// chunk/digest-truncation boundary at 64 bytes is respected.
func Test_LegacyMix_DeterministicGivenInputs(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	n := 100 // spans two chunks: 64 + 36
	block1 := bytes.Repeat([]byte{0x11}, n)
	block2 := bytes.Repeat([]byte{0x22}, n)
	baseEntropy := bytes.Repeat([]byte{0x33}, 16)
	identity := []byte("fixed-identity")

	out1 := legacyMix(block1, block2, baseEntropy, identity, n)
	out2 := legacyMix(block1, block2, baseEntropy, identity, n)

	is.Len(out1, n)
	is.True(bytes.Equal(out1, out2), "legacyMix must be a pure function of its inputs")

	xored := make([]byte, n)
	for i := range xored {
		xored[i] = block1[i] ^ block2[i] ^ baseEntropy[i%len(baseEntropy)]
	}
	first := sha512.Sum512(append(append([]byte(nil), xored[:64]...), identity...))
	second := sha512.Sum512(append(append([]byte(nil), xored[64:]...), identity...))
	is.Equal(first[:], out1[:64], "first chunk is the full 64-byte digest")
	is.Equal(second[:36], out1[64:], "final chunk is the digest truncated to 36 bytes")
}

// Test_HkdfMix_DeterministicGivenInputs mirrors the above for the
// chosen default mixer.
func Test_HkdfMix_DeterministicGivenInputs(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	n := 48
	block1 := bytes.Repeat([]byte{0xAA}, n)
	block2 := bytes.Repeat([]byte{0xBB}, n)
	baseEntropy := bytes.Repeat([]byte{0xCC}, n)
	identity := []byte("fixed-identity")

	out1, err := hkdfMix(block1, block2, baseEntropy, identity, n)
	require.NoError(t, err)
	out2, err := hkdfMix(block1, block2, baseEntropy, identity, n)
	require.NoError(t, err)

	is.Len(out1, n)
	is.True(bytes.Equal(out1, out2))
}

func Test_HkdfMix_DiffersFromLegacyMix(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	n := 48
	block1 := bytes.Repeat([]byte{0xAA}, n)
	block2 := bytes.Repeat([]byte{0xBB}, n)
	baseEntropy := bytes.Repeat([]byte{0xCC}, n)
	identity := []byte("fixed-identity")

	legacy := legacyMix(block1, block2, baseEntropy, identity, n)
	hk, err := hkdfMix(block1, block2, baseEntropy, identity, n)
	require.NoError(t, err)

	is.False(bytes.Equal(legacy, hk), "the two documented mixers must not coincidentally agree")
}
