// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package securecrypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Fuzz_DeriveKey_DeterministicOrRejected checks that for any fuzzed
// domain/context pair, DeriveKey either rejects the input with
// InvalidArgument or produces a deterministic key of the requested size.
func Fuzz_DeriveKey_DeterministicOrRejected(f *testing.F) {
	f.Add("myapp.encryption", "user-data-key")
	f.Add("", "context")
	f.Add("domain", "")
	f.Add("a", "b")

	masterKey := allBytes(32, 0x7A)

	f.Fuzz(func(t *testing.T, domain, context string) {
		is := assert.New(t)

		sb1, err1 := DeriveKey(masterKey, domain, context, 32, SHA256)
		sb2, err2 := DeriveKey(masterKey, domain, context, 32, SHA256)

		if domain == "" || context == "" {
			is.True(IsInvalidArgument(err1))
			is.True(IsInvalidArgument(err2))
			return
		}

		is.NoError(err1)
		is.NoError(err2)
		is.Equal(32, sb1.Len())
		is.Equal(32, sb2.Len())

		clone := func(b []byte) ([]byte, error) { return append([]byte(nil), b...), nil }
		out1, _ := UseSecureBuffer(sb1, clone)
		out2, _ := UseSecureBuffer(sb2, clone)
		is.Equal(out1, out2)
	})
}
