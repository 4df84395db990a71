// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chacharng

import (
	"encoding/binary"
	"testing"
)

// TestBlockViewsRoundTrip ensures the byte and 64-bit word views of generated
// blocks agree with the canonical 32-bit words and convert back to them
// exactly.
func TestBlockViewsRoundTrip(t *testing.T) {
	t.Parallel()

	locale := Locale{Pebble: 0xfffffffffffffff0, Stream: 3}
	for i := 0; i < 32; i++ {
		b, next, err := GenerateBlock(testKernel, DefaultRounds, locale)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		locale = next

		// Reinterpreting the byte view as 32-bit words must give the
		// canonical words.
		buf := b.Bytes()
		for j, w := range b {
			if got := binary.LittleEndian.Uint32(buf[j*4:]); got != w {
				t.Fatalf("block %d word %d: byte view gives %08x, want %08x",
					i, j, got, w)
			}
		}

		// Merging adjacent words must give the 64-bit view.
		words := b.Uint64s()
		for j, w := range words {
			merged := uint64(b[2*j]) | uint64(b[2*j+1])<<32
			if merged != w {
				t.Fatalf("block %d word %d: merged %016x, want %016x", i, j,
					merged, w)
			}
			if got := binary.LittleEndian.Uint64(buf[j*8:]); got != w {
				t.Fatalf("block %d word %d: byte view gives %016x, want "+
					"%016x", i, j, got, w)
			}
		}

		// Both views convert back to the canonical form.
		if got := BlockFromBytes(&buf); got != b {
			t.Fatalf("block %d: byte view round trip -- got %08x, want %08x",
				i, got, b)
		}
		if got := BlockFromUint64s(&words); got != b {
			t.Fatalf("block %d: 64-bit view round trip -- got %08x, want "+
				"%08x", i, got, b)
		}
	}
}

// TestPutBytes ensures writing the byte view into a larger buffer only touches
// the first BlockSize bytes.
func TestPutBytes(t *testing.T) {
	t.Parallel()

	b := Block{0x03020100, 0x07060504}
	buf := make([]byte, BlockSize+4)
	for i := range buf {
		buf[i] = 0xff
	}
	b.PutBytes(buf)
	for i := 0; i < 8; i++ {
		if buf[i] != byte(i) {
			t.Fatalf("byte %d: got %02x, want %02x", i, buf[i], i)
		}
	}
	for i := 8; i < BlockSize; i++ {
		if buf[i] != 0 {
			t.Fatalf("byte %d: got %02x, want 00", i, buf[i])
		}
	}
	for i := BlockSize; i < len(buf); i++ {
		if buf[i] != 0xff {
			t.Fatalf("byte %d was modified", i)
		}
	}
}
