// Copyright (c) 2025 The mavbozo/securecrypto Authors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package securecrypto

import (
	"os"
	"path/filepath"
)

// maxFileSize is the largest source file EncryptFile or DecryptFile will
// read into memory. This package does not support chunked/streaming
// encryption (see Non-goals), so the entire file must fit in memory.
const maxFileSize = 10 * 1024 * 1024 // 10 MiB

// EncryptFile reads srcPath entirely into memory, encrypts it under key,
// and writes the framed ciphertext to dstPath. The destination write is
// atomic from the caller's perspective: the framed output is written to
// a temporary file in dstPath's directory, then renamed into place, so
// a reader never observes a partially written destination.
//
// EncryptFile rejects source files larger than 10 MiB.
func EncryptFile(key []byte, srcPath, dstPath string) error {
	plaintext, err := readFileWithSizeCap(srcPath)
	if err != nil {
		return err
	}

	sb := WrapSecureBuffer(plaintext)
	var framed []byte
	err = sb.Use(func(b []byte) error {
		var encErr error
		framed, encErr = EncryptBytes(key, b)
		return encErr
	})
	if err != nil {
		return err
	}

	return atomicWriteFile(dstPath, framed)
}

// DecryptFile reverses EncryptFile: it reads srcPath entirely into
// memory, decrypts it under key, and writes the plaintext to dstPath
// via the same write-temp-then-rename discipline.
//
// DecryptFile rejects encrypted source files larger than 10 MiB.
func DecryptFile(key []byte, srcPath, dstPath string) error {
	framed, err := readFileWithSizeCap(srcPath)
	if err != nil {
		return err
	}

	plaintext, err := DecryptBytes(key, framed)
	if err != nil {
		return err
	}
	defer zeroize(plaintext)

	return atomicWriteFile(dstPath, plaintext)
}

func readFileWithSizeCap(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, wrapError(KindIoFailure, "failed to stat source file", err)
	}
	if info.Size() > maxFileSize {
		return nil, newError(KindInvalidArgument, "source file exceeds maximum allowed size")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError(KindIoFailure, "failed to read source file", err)
	}
	return data, nil
}

// atomicWriteFile writes data to a temporary file beside dst and renames
// it into place, so a cancelled or interrupted write never leaves dst
// partially written — "readable destination implies authenticated
// plaintext" (or, for EncryptFile, implies a fully-framed ciphertext).
func atomicWriteFile(dst string, data []byte) error {
	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, ".securecrypto-tmp-*")
	if err != nil {
		return wrapError(KindIoFailure, "failed to create temporary file", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()

	if writeErr != nil {
		os.Remove(tmpPath)
		return wrapError(KindIoFailure, "failed to write temporary file", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return wrapError(KindIoFailure, "failed to close temporary file", closeErr)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return wrapError(KindIoFailure, "failed to rename temporary file into place", err)
	}
	return nil
}
