// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package securecrypto

import (
	"bytes"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RandomGenerator_NextBytes_Length(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	g, err := NewRandomGenerator()
	require.NoError(t, err)

	for _, size := range []int{1, 2, 16, 32, 64, 1024} {
		b, err := g.NextBytes(size)
		is.NoError(err)
		is.Len(b, size)
	}
}

func Test_RandomGenerator_NextBytes_RejectsNonPositive(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	g, err := NewRandomGenerator()
	require.NoError(t, err)

	for _, size := range []int{0, -1, -100} {
		_, err := g.NextBytes(size)
		is.Error(err)
		is.True(IsInvalidArgument(err), "size=%d should be InvalidArgument", size)
	}
}

func Test_RandomGenerator_NextBytes_Distinct(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	g, err := NewRandomGenerator()
	require.NoError(t, err)

	a, err := g.NextBytes(32)
	is.NoError(err)
	b, err := g.NextBytes(32)
	is.NoError(err)
	is.False(bytes.Equal(a, b), "successive draws must differ")
}

func Test_RandomGenerator_NextSecureBytes_Zeroizes(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	g, err := NewRandomGenerator()
	require.NoError(t, err)

	sb, err := g.NextSecureBytes(16)
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

func Test_RandomGenerator_Concurrency(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	g, err := NewRandomGenerator(WithShards(4))
	require.NoError(t, err)

	const goroutines = 32
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := g.NextBytes(64); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		is.NoError(err)
	}
}

func Test_GenerateBytes_Length(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	for _, size := range []int{1, 8, 256} {
		b, err := GenerateBytes(size)
		is.NoError(err)
		is.Len(b, size)
	}
}

func Test_GenerateBytes_RejectsZeroOrNegative(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := GenerateBytes(0)
	is.True(IsInvalidArgument(err))

	_, err = GenerateBytes(-1)
	is.True(IsInvalidArgument(err))
}

var hexPattern = regexp.MustCompile(`^[0-9a-f]+$`)

func Test_GenerateAsHex_LengthAndAlphabet(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	for _, size := range []int{1, 2, 16, 100} {
		s, err := GenerateAsHex(size)
		is.NoError(err)
		is.Len(s, 2*size)
		is.True(hexPattern.MatchString(s), "hex output %q must match [0-9a-f]+", s)
	}
}

func Test_GenerateAsBase64_Variants(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		variant Base64Variant
	}{
		{"Default", Base64Default},
		{"NoPadding", Base64NoPadding},
		{"UrlSafe", Base64UrlSafe},
		{"UrlSafeNoPadding", Base64UrlSafeNoPadding},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			is := assert.New(t)

			for _, size := range []int{1, 3, 16, 33} {
				s, err := GenerateAsBase64(size, tc.variant)
				is.NoError(err, "size=%d variant=%s", size, tc.name)

				decoded, err := tc.variant.encoding().DecodeString(s)
				is.NoError(err, fmt.Sprintf("decode size=%d variant=%s", size, tc.name))
				is.Len(decoded, size)
			}
		})
	}
}

func Test_EntropyQuality_String(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal("Hardware", QualityHardware.String())
	is.Equal("Fallback", QualityFallback.String())
}
