// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package securecrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/binary"
	"unicode/utf8"
)

// Cipher format constants for AES-256-GCM, the only CipherFormat this
// package implements. A second format would need its own id and
// parameter-block layout; parseHeader and DecryptBytes accept only id
// 0x01 and its 16-byte parameter block.
const (
	aesGCMAlgorithmID   byte = 0x01
	aesGCMParamsLength       = 16 // IV (12) || tag bit length (4)
	aesGCMKeySize            = 32
	aesGCMIVLength           = 12
	aesGCMTagBits       uint32 = 128

	headerMagic     = "SECB"
	headerVersion   = 0x01
	headerFixedSize = 8 // magic(4) || version(1) || algorithm id(1) || params length(2)
)

// encodeHeader emits the 8-byte fixed prefix followed by params.
func encodeHeader(algorithmID byte, params []byte) []byte {
	buf := make([]byte, headerFixedSize+len(params))
	copy(buf[0:4], headerMagic)
	buf[4] = headerVersion
	buf[5] = algorithmID
	binary.BigEndian.PutUint16(buf[6:8], uint16(len(params)))
	copy(buf[headerFixedSize:], params)
	return buf
}

// parsedHeader is the result of successfully validating a framed
// ciphertext's header.
type parsedHeader struct {
	algorithmID byte
	params      []byte
	headerLen   int
}

// parseHeader validates data's header in the order spec'd: truncation,
// magic, version, algorithm id, declared parameter length, then
// parameter-block truncation. The first failing step determines the returned
// InvalidHeader sub-reason.
func parseHeader(data []byte) (*parsedHeader, error) {
	if len(data) < headerFixedSize {
		return nil, newError(KindInvalidHeader, "truncated header")
	}
	if string(data[0:4]) != headerMagic {
		return nil, newError(KindInvalidHeader, "invalid magic")
	}
	if data[4] != headerVersion {
		return nil, newError(KindInvalidHeader, "unsupported version")
	}
	algorithmID := data[5]
	if algorithmID != aesGCMAlgorithmID {
		return nil, newError(KindInvalidHeader, "unsupported algorithm")
	}

	paramsLen := binary.BigEndian.Uint16(data[6:8])
	if paramsLen < 1 || int(paramsLen) != aesGCMParamsLength {
		return nil, newError(KindInvalidHeader, "invalid params length")
	}

	total := headerFixedSize + int(paramsLen)
	if len(data) < total {
		return nil, newError(KindInvalidHeader, "truncated params")
	}

	return &parsedHeader{
		algorithmID: algorithmID,
		params:      data[headerFixedSize:total],
		headerLen:   total,
	}, nil
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, wrapError(KindInvalidArgument, "failed to initialize AES cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, wrapError(KindInvalidArgument, "failed to initialize GCM", err)
	}
	return gcm, nil
}

func validateAESGCMKey(key []byte) error {
	if len(key) != aesGCMKeySize {
		return newError(KindInvalidArgument, "Key must be 32 bytes for AES-GCM")
	}
	return nil
}

// EncryptBytes encrypts plaintext under key (which must be exactly 32
// bytes) using AES-256-GCM with a freshly generated 96-bit IV, and
// returns the framed ciphertext: an 8+16-byte header followed by the
// GCM output (ciphertext with appended 16-byte tag).
func EncryptBytes(key, plaintext []byte) ([]byte, error) {
	if err := validateAESGCMKey(key); err != nil {
		return nil, err
	}

	gen, err := sharedGenerator()
	if err != nil {
		return nil, err
	}
	iv, err := gen.NextBytes(aesGCMIVLength)
	if err != nil {
		return nil, err
	}

	gcm, err := newAESGCM(key)
	if err != nil {
		return nil, err
	}

	params := make([]byte, aesGCMParamsLength)
	copy(params[0:aesGCMIVLength], iv)
	binary.BigEndian.PutUint32(params[aesGCMIVLength:aesGCMParamsLength], aesGCMTagBits)

	ciphertext := gcm.Seal(nil, iv, plaintext, nil)

	header := encodeHeader(aesGCMAlgorithmID, params)
	return append(header, ciphertext...), nil
}

// DecryptBytes reverses EncryptBytes. Header validation happens entirely
// before cipher initialization, so a corrupted magic, version, algorithm
// id, parameter length or tag length fails with InvalidHeader, never
// AuthFailure. The IV bytes are not validated: a corrupted IV, a wrong
// key or a tampered ciphertext body fails with AuthFailure, never
// InvalidArgument.
func DecryptBytes(key, framed []byte) ([]byte, error) {
	if err := validateAESGCMKey(key); err != nil {
		return nil, err
	}

	hdr, err := parseHeader(framed)
	if err != nil {
		return nil, err
	}

	iv := hdr.params[0:aesGCMIVLength]
	tagBits := binary.BigEndian.Uint32(hdr.params[aesGCMIVLength:aesGCMParamsLength])
	if tagBits != aesGCMTagBits {
		return nil, newError(KindInvalidHeader, "unexpected tag length")
	}

	gcm, err := newAESGCM(key)
	if err != nil {
		return nil, err
	}

	body := framed[hdr.headerLen:]
	plaintext, err := gcm.Open(nil, iv, body, nil)
	if err != nil {
		return nil, wrapError(KindAuthFailure, "authentication failed", err)
	}
	return plaintext, nil
}

// EncryptString encrypts s and returns the framed ciphertext encoded as
// standard, padded Base64 with no line breaks.
func EncryptString(key []byte, s string) (string, error) {
	ct, err := EncryptBytes(key, []byte(s))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// DecryptString decodes s from standard, padded Base64, decrypts the
// result, and interprets the plaintext as UTF-8.
func DecryptString(key []byte, s string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", wrapError(KindEncodingFailure, "invalid base64 input", err)
	}

	plaintext, err := DecryptBytes(key, raw)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(plaintext) {
		return "", newError(KindEncodingFailure, "decrypted plaintext is not valid UTF-8")
	}
	return string(plaintext), nil
}
