// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chacharng

import (
	"fmt"

	"github.com/decred/chacharng/internal/chacha"
)

// checkKernel returns an error if the kernel is not exactly KernelWords words.
func checkKernel(kernel []uint32) error {
	if len(kernel) != KernelWords {
		str := fmt.Sprintf("kernel must be %d words, got %d", KernelWords,
			len(kernel))
		return makeError(ErrInvalidKernel, str)
	}
	return nil
}

// checkRounds returns an error if the number of rounds is not a positive even
// number.
func checkRounds(rounds int) error {
	if rounds <= 0 || rounds%2 != 0 {
		str := fmt.Sprintf("rounds must be a positive even number, got %d",
			rounds)
		return makeError(ErrInvalidRounds, str)
	}
	return nil
}

// blockStream produces consecutive blocks starting from a locale and tracks
// the locale of the next block to produce.  It also hands out the 64-bit words
// of the produced blocks one at a time for the fixed-width samplers.
type blockStream struct {
	key    [KernelWords]uint32
	rounds int
	locale Locale

	words [BlockUint64s]uint64
	next  int
}

// newBlockStream validates the kernel and rounds and returns a stream that
// starts at the provided locale.
func newBlockStream(kernel []uint32, rounds int, locale Locale) (*blockStream, error) {
	if err := checkKernel(kernel); err != nil {
		return nil, err
	}
	if err := checkRounds(rounds); err != nil {
		return nil, err
	}
	s := &blockStream{
		rounds: rounds,
		locale: locale,
		next:   BlockUint64s,
	}
	copy(s.key[:], kernel)
	return s, nil
}

// block generates the block at the current locale into b and advances the
// locale by one pebble.  Nothing is generated when the locale can't be
// advanced.
func (s *blockStream) block(b *Block) error {
	next, err := s.locale.Skip(1)
	if err != nil {
		return err
	}
	position := s.locale.position()
	chacha.Block((*[BlockWords]uint32)(b), &s.key, &position, s.rounds)
	s.locale = next
	return nil
}

// uint64 returns the next unused 64-bit word of the stream, generating a new
// block once all words of the current one have been handed out.
func (s *blockStream) uint64() (uint64, error) {
	if s.next == BlockUint64s {
		var b Block
		if err := s.block(&b); err != nil {
			return 0, err
		}
		s.words = b.Uint64s()
		s.next = 0
	}
	w := s.words[s.next]
	s.next++
	return w, nil
}

// GenerateBlock returns the block at the provided locale along with the locale
// of the following block.
//
// An error is returned when the kernel is not KernelWords words, when rounds
// is not a positive even number, or when the locale can't be advanced.  The
// provided locale is returned unchanged on error.
func GenerateBlock(kernel []uint32, rounds int, locale Locale) (Block, Locale, error) {
	s, err := newBlockStream(kernel, rounds, locale)
	if err != nil {
		return Block{}, locale, err
	}
	var b Block
	if err := s.block(&b); err != nil {
		return Block{}, locale, err
	}
	return b, s.locale, nil
}

// FillBytes fills out with the byte view of consecutive blocks starting at the
// provided locale and returns the locale that follows the final block used.
// The final block is only partially consumed when len(out) is not a multiple
// of BlockSize and its remaining bytes are discarded.  Filling an empty buffer
// returns the provided locale.
//
// The same errors as GenerateBlock are possible.  All of them are detected
// before out is modified.
func FillBytes(out []byte, kernel []uint32, rounds int, locale Locale) (Locale, error) {
	s, err := newBlockStream(kernel, rounds, locale)
	if err != nil {
		return locale, err
	}
	if len(out) == 0 {
		return locale, nil
	}
	if _, err := locale.Mock(uint64(len(out))); err != nil {
		return locale, err
	}

	var b Block
	for len(out) >= BlockSize {
		if err := s.block(&b); err != nil {
			return locale, err
		}
		b.PutBytes(out)
		out = out[BlockSize:]
	}
	if len(out) > 0 {
		if err := s.block(&b); err != nil {
			return locale, err
		}
		buf := b.Bytes()
		copy(out, buf[:])
	}
	return s.locale, nil
}
