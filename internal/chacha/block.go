// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chacha implements the ChaCha block function with a caller-chosen
// number of rounds.
//
// The block function is a pure transform from a 256-bit key, four 32-bit
// position words, and a round count to a single 512-bit output block.  It does
// not validate its inputs, keep any state, or allocate.  The caller is
// expected to only supply a positive even number of rounds.
package chacha

import "math/bits"

const (
	// KeyWords is the number of 32-bit words in a key.
	KeyWords = 8

	// PositionWords is the number of 32-bit words that identify the position
	// of a block.
	PositionWords = 4

	// BlockWords is the number of 32-bit words in an output block.
	BlockWords = 16
)

// The constants are the little-endian encoding of "expand 32-byte k".
const (
	sigma0 uint32 = 0x61707865
	sigma1 uint32 = 0x3320646e
	sigma2 uint32 = 0x79622d32
	sigma3 uint32 = 0x6b206574
)

// QuarterRound applies the ChaCha quarter round to the four provided words and
// returns the mixed words.
func QuarterRound(a, b, c, d uint32) (uint32, uint32, uint32, uint32) {
	a += b
	d ^= a
	d = bits.RotateLeft32(d, 16)
	c += d
	b ^= c
	b = bits.RotateLeft32(b, 12)
	a += b
	d ^= a
	d = bits.RotateLeft32(d, 8)
	c += d
	b ^= c
	b = bits.RotateLeft32(b, 7)
	return a, b, c, d
}

// QuarterRoundState applies the quarter round to the words of the state at the
// provided indices in place.
func QuarterRoundState(state *[BlockWords]uint32, a, b, c, d int) {
	state[a], state[b], state[c], state[d] = QuarterRound(state[a], state[b],
		state[c], state[d])
}

// Block computes the output block for the given key and position words using
// rounds/2 double rounds and stores the result in out.
//
// The state is laid out as the four constants, followed by the eight key
// words, followed by the four position words.  Feeding the position words as
// a 32-bit block counter followed by a 96-bit nonce yields the block function
// of RFC 7539.
func Block(out *[BlockWords]uint32, key *[KeyWords]uint32, position *[PositionWords]uint32, rounds int) {
	j0, j1, j2, j3 := sigma0, sigma1, sigma2, sigma3
	j4, j5, j6, j7 := key[0], key[1], key[2], key[3]
	j8, j9, j10, j11 := key[4], key[5], key[6], key[7]
	j12, j13, j14, j15 := position[0], position[1], position[2], position[3]

	x0, x1, x2, x3 := j0, j1, j2, j3
	x4, x5, x6, x7 := j4, j5, j6, j7
	x8, x9, x10, x11 := j8, j9, j10, j11
	x12, x13, x14, x15 := j12, j13, j14, j15

	for i := 0; i < rounds; i += 2 {
		// Columns.
		x0, x4, x8, x12 = QuarterRound(x0, x4, x8, x12)
		x1, x5, x9, x13 = QuarterRound(x1, x5, x9, x13)
		x2, x6, x10, x14 = QuarterRound(x2, x6, x10, x14)
		x3, x7, x11, x15 = QuarterRound(x3, x7, x11, x15)

		// Diagonals.
		x0, x5, x10, x15 = QuarterRound(x0, x5, x10, x15)
		x1, x6, x11, x12 = QuarterRound(x1, x6, x11, x12)
		x2, x7, x8, x13 = QuarterRound(x2, x7, x8, x13)
		x3, x4, x9, x14 = QuarterRound(x3, x4, x9, x14)
	}

	out[0], out[1], out[2], out[3] = x0+j0, x1+j1, x2+j2, x3+j3
	out[4], out[5], out[6], out[7] = x4+j4, x5+j5, x6+j6, x7+j7
	out[8], out[9], out[10], out[11] = x8+j8, x9+j9, x10+j10, x11+j11
	out[12], out[13], out[14], out[15] = x12+j12, x13+j13, x14+j14, x15+j15
}
