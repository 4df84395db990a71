// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chacharng

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/decred/dcrd/crypto/blake256"
	"github.com/decred/dcrd/crypto/rand"
)

// NewKernel fills buf with a fresh kernel read from the system entropy source.
// An error with the kind ErrInvalidKernel is returned when buf is not
// KernelWords words.
func NewKernel(buf []uint32) error {
	return NewKernelFromReader(buf, rand.Reader())
}

// NewKernelFromReader fills buf with a kernel read from the provided entropy
// source.  An error with the kind ErrInvalidKernel is returned when buf is not
// KernelWords words and buf is left untouched when reading fails.
func NewKernelFromReader(buf []uint32, entropy io.Reader) error {
	if err := checkKernel(buf); err != nil {
		return err
	}
	var b [KernelWords * 4]byte
	if _, err := io.ReadFull(entropy, b[:]); err != nil {
		return fmt.Errorf("unable to read kernel entropy: %w", err)
	}
	for i := range buf {
		buf[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	clear(b[:])
	return nil
}

// DeriveKernel returns the kernel obtained by hashing the provided seed
// material with BLAKE-256.  The same seed always produces the same kernel,
// so the seed must be kept as secret as the kernel itself.
func DeriveKernel(seed []byte) []uint32 {
	digest := blake256.Sum256(seed)
	kernel := make([]uint32, KernelWords)
	for i := range kernel {
		kernel[i] = binary.LittleEndian.Uint32(digest[i*4:])
	}
	return kernel
}
