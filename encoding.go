// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package securecrypto

import "encoding/base64"

// Base64Variant selects one of the four Base64 alphabets/padding
// combinations this package supports for textual random output.
type Base64Variant int

const (
	// Base64Default is the standard alphabet ('+', '/'), padded.
	Base64Default Base64Variant = iota

	// Base64NoPadding is the standard alphabet, unpadded.
	Base64NoPadding

	// Base64UrlSafe is the URL-safe alphabet ('-', '_'), padded.
	Base64UrlSafe

	// Base64UrlSafeNoPadding is the URL-safe alphabet, unpadded.
	Base64UrlSafeNoPadding
)

// encoding returns the *base64.Encoding implementing this variant.
func (v Base64Variant) encoding() *base64.Encoding {
	switch v {
	case Base64NoPadding:
		return base64.RawStdEncoding
	case Base64UrlSafe:
		return base64.URLEncoding
	case Base64UrlSafeNoPadding:
		return base64.RawURLEncoding
	default:
		return base64.StdEncoding
	}
}
