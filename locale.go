// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chacharng

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/decred/chacharng/internal/chacha"
)

// Locale identifies the next block to generate within the output space of a
// kernel.  The output space consists of 2^64 streams that each contain 2^64
// pebbles, where each pebble is one 512-bit block.
//
// Locales are ordered lexicographically by stream and then pebble.  A locale
// is a plain value and none of its methods modify it, so it may be freely
// copied and shared.
type Locale struct {
	Pebble uint64
	Stream uint64
}

// Skip returns the locale that is n pebbles past the receiver.  Skipping past
// the final pebble of a stream moves to the next stream.  Skipping zero
// pebbles returns the receiver unchanged.
//
// An error with the kind ErrLocaleOverflow is returned when the result would
// need to move past the final stream.  The receiver is returned in that case.
func (l Locale) Skip(n uint64) (Locale, error) {
	pebble, carry := bits.Add64(l.Pebble, n, 0)
	if carry == 0 {
		return Locale{Pebble: pebble, Stream: l.Stream}, nil
	}
	if l.Stream == math.MaxUint64 {
		str := fmt.Sprintf("unable to skip %d pebbles from %v: the final "+
			"stream is exhausted", n, l)
		log.Debugf("Locale overflow: %s", str)
		err := makeError(ErrLocaleOverflow, str)
		err.RawErr = ErrStreamExhausted
		return l, err
	}
	return Locale{Pebble: pebble, Stream: l.Stream + 1}, nil
}

// Mock returns the locale that generating nBytes more bytes of output from the
// receiver would leave the caller at, without generating any output.  Every
// started block counts as consumed, so any non-zero number of bytes up to
// BlockSize advances by exactly one pebble.
//
// It fails in the same way as Skip.
func (l Locale) Mock(nBytes uint64) (Locale, error) {
	return l.Skip(blocksForBytes(nBytes))
}

// Equals returns whether the receiver and other identify the same block.
func (l Locale) Equals(other Locale) bool {
	return l == other
}

// Cmp compares the receiver to other and returns -1 when the receiver comes
// first, 0 when they are equal, and 1 when the receiver comes later.
func (l Locale) Cmp(other Locale) int {
	switch {
	case l.Stream < other.Stream:
		return -1
	case l.Stream > other.Stream:
		return 1
	case l.Pebble < other.Pebble:
		return -1
	case l.Pebble > other.Pebble:
		return 1
	}
	return 0
}

// String returns the locale in a human-readable form.
func (l Locale) String() string {
	return fmt.Sprintf("stream %d pebble %d", l.Stream, l.Pebble)
}

// position returns the block function position words for the locale.
func (l Locale) position() [chacha.PositionWords]uint32 {
	return [chacha.PositionWords]uint32{
		uint32(l.Pebble >> 32), uint32(l.Pebble),
		uint32(l.Stream >> 32), uint32(l.Stream),
	}
}

// blocksForBytes returns the number of blocks needed to produce n bytes.
func blocksForBytes(n uint64) uint64 {
	blocks := n / BlockSize
	if n%BlockSize != 0 {
		blocks++
	}
	return blocks
}
