// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chacharng

import (
	"encoding/binary"

	"github.com/decred/chacharng/internal/chacha"
)

const (
	// KernelWords is the number of 32-bit words in a kernel.
	KernelWords = chacha.KeyWords

	// BlockWords is the number of 32-bit words in a block.
	BlockWords = chacha.BlockWords

	// BlockUint64s is the number of 64-bit words in a block.
	BlockUint64s = BlockWords / 2

	// BlockSize is the number of bytes in a block.
	BlockSize = BlockWords * 4

	// DefaultRounds is the recommended number of rounds.  Any positive even
	// number of rounds is accepted, so choosing a number of rounds appropriate
	// for the strength required is left to the caller.
	DefaultRounds = 20
)

// Block is a single 512-bit output of the block function in its canonical form
// of 16 32-bit words.  The byte and 64-bit word views are derived from the
// canonical form and convert back to it exactly.
type Block [BlockWords]uint32

// Bytes returns the byte view of the block.  Each word is encoded in little
// endian and the words are laid out in order.
func (b *Block) Bytes() [BlockSize]byte {
	var out [BlockSize]byte
	b.PutBytes(out[:])
	return out
}

// PutBytes writes the byte view of the block to the first BlockSize bytes of
// dst.  It will panic if dst is shorter than BlockSize.
func (b *Block) PutBytes(dst []byte) {
	_ = dst[BlockSize-1]
	for i, w := range b {
		binary.LittleEndian.PutUint32(dst[i*4:], w)
	}
}

// Uint64s returns the 64-bit word view of the block.  Adjacent words are
// paired so that word 2i forms the low half and word 2i+1 the high half of
// 64-bit word i.
func (b *Block) Uint64s() [BlockUint64s]uint64 {
	var out [BlockUint64s]uint64
	for i := range out {
		out[i] = uint64(b[2*i]) | uint64(b[2*i+1])<<32
	}
	return out
}

// BlockFromBytes returns the block with the provided byte view.
func BlockFromBytes(buf *[BlockSize]byte) Block {
	var b Block
	for i := range b {
		b[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return b
}

// BlockFromUint64s returns the block with the provided 64-bit word view.
func BlockFromUint64s(words *[BlockUint64s]uint64) Block {
	var b Block
	for i, w := range words {
		b[2*i] = uint32(w)
		b[2*i+1] = uint32(w >> 32)
	}
	return b
}
