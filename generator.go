// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chacharng

import (
	"encoding/binary"
	"math/bits"
)

// Generator is a deterministic pseudorandom number generator that reads the
// block stream of a kernel starting from a locale.  It provides an io.Reader
// over the byte view of the blocks as well as uniformly-distributed integers.
//
// The bytes read from a Generator are identical to those FillBytes produces
// for the same kernel, rounds and starting locale.  Generator methods are not
// safe for concurrent access.
type Generator struct {
	stream *blockStream
	buf    [BlockSize]byte
	off    int
}

// NewGenerator returns a generator for the provided kernel and rounds that
// starts at the given locale.  The same errors as GenerateBlock are possible
// for invalid arguments.
func NewGenerator(kernel []uint32, rounds int, locale Locale) (*Generator, error) {
	s, err := newBlockStream(kernel, rounds, locale)
	if err != nil {
		return nil, err
	}
	return &Generator{stream: s, off: BlockSize}, nil
}

// Locale returns the locale of the next block the generator will produce.
// Bytes of the current block that have not been read yet are not part of it,
// so resuming from the returned locale skips them.
func (g *Generator) Locale() Locale {
	return g.stream.locale
}

// Buffered returns the number of bytes of the current block that have not
// been read yet.
func (g *Generator) Buffered() int {
	return BlockSize - g.off
}

// Read fills p with the next len(p) bytes of the stream.  The only possible
// error is ErrLocaleOverflow once the address space of the kernel is
// exhausted, in which case n is the number of bytes read before then.
func (g *Generator) Read(p []byte) (n int, err error) {
	for len(p) > 0 {
		if g.off == BlockSize {
			// Whole blocks bypass the buffer.
			if len(p) >= BlockSize {
				var b Block
				if err := g.stream.block(&b); err != nil {
					return n, err
				}
				b.PutBytes(p)
				n += BlockSize
				p = p[BlockSize:]
				continue
			}
			var b Block
			if err := g.stream.block(&b); err != nil {
				return n, err
			}
			g.buf = b.Bytes()
			g.off = 0
		}
		copied := copy(p, g.buf[g.off:])
		g.off += copied
		n += copied
		p = p[copied:]
	}
	return n, nil
}

// read fills b and panics when the address space is exhausted.
func (g *Generator) read(b []byte) {
	if _, err := g.Read(b); err != nil {
		panic(err)
	}
}

// Uint32 returns a uniform random uint32.  It panics when the address space of
// the kernel is exhausted.
func (g *Generator) Uint32() uint32 {
	var b [4]byte
	g.read(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// Uint64 returns a uniform random uint64.  It panics when the address space of
// the kernel is exhausted.
func (g *Generator) Uint64() uint64 {
	var b [8]byte
	g.read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// Uint64N returns a random uint64 in range [0,n) without modulo bias.
// Panics if n == 0.
func (g *Generator) Uint64N(n uint64) uint64 {
	if n == 0 {
		panic("chacharng: invalid argument to Uint64N")
	}
	if n == 1 {
		return 0
	}
	n--
	mask := ^uint64(0) >> bits.LeadingZeros64(n)
	for {
		v := g.Uint64() & mask
		if v <= n {
			return v
		}
	}
}

// IntN returns, as an int, a random non-negative integer in [0,n) without
// modulo bias.
// Panics if n <= 0.
func (g *Generator) IntN(n int) int {
	if n <= 0 {
		panic("chacharng: invalid argument to IntN")
	}
	return int(g.Uint64N(uint64(n)))
}

// Shuffle randomizes the order of n elements by swapping the elements at
// indexes i and j.
// Panics if n < 0.
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	if n < 0 {
		panic("chacharng: invalid argument to Shuffle")
	}

	// Fisher-Yates shuffle: https://en.wikipedia.org/wiki/Fisher%E2%80%93Yates_shuffle
	for i := n - 1; i > 0; i-- {
		j := int(g.Uint64N(uint64(i + 1)))
		swap(i, j)
	}
}
