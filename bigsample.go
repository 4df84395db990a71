// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chacharng

import (
	"fmt"
	"math/big"
)

// MaxBigBits is the width of the signed integers FillBigIntegers supports.
const MaxBigBits = BlockSize * 8

var (
	// bigOne is 1 represented as a big.Int.  It is defined here to avoid the
	// overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// minBigBound is the smallest supported bound, -2^511.
	minBigBound = new(big.Int).Neg(new(big.Int).Lsh(bigOne, MaxBigBits-1))

	// maxBigBound is the largest supported bound, 2^511 - 1.
	maxBigBound = new(big.Int).Sub(new(big.Int).Lsh(bigOne, MaxBigBits-1),
		bigOne)
)

// bigRange returns maxVal - minVal - 1 along with the smallest all-ones mask
// covering it.  An error is returned when the interval contains fewer than two
// values or either bound is outside of [-2^511, 2^511 - 1].
func bigRange(minVal, maxVal *big.Int) (*big.Int, *big.Int, error) {
	if minVal == nil || maxVal == nil {
		return nil, nil, makeError(ErrInvalidRange, "interval bounds must "+
			"not be nil")
	}
	r := new(big.Int).Sub(maxVal, minVal)
	if r.Cmp(bigOne) <= 0 {
		str := fmt.Sprintf("interval [%v, %v) must contain at least two "+
			"values", minVal, maxVal)
		return nil, nil, makeError(ErrInvalidRange, str)
	}
	for _, bound := range []*big.Int{minVal, maxVal} {
		if bound.Cmp(minBigBound) < 0 || bound.Cmp(maxBigBound) > 0 {
			str := fmt.Sprintf("bound %v is outside of the supported "+
				"%d-bit signed range", bound, MaxBigBits)
			return nil, nil, makeError(ErrInvalidWidth, str)
		}
	}
	r.Sub(r, bigOne)

	// Intervals that fit in 64 bits are the common case, so build the mask in
	// 64-bit form and only fall back to big shifts for wider ranges.
	if r.IsUint64() {
		return r, new(big.Int).SetUint64(maskFor(r.Uint64())), nil
	}
	mask := new(big.Int).Set(r)
	shifted := new(big.Int)
	for shift := uint(1); shift < MaxBigBits; shift <<= 1 {
		mask.Or(mask, shifted.Rsh(mask, shift))
	}
	return r, mask, nil
}

// FillBigIntegers fills out with integers that are uniformly distributed over
// the half-open interval [minVal, maxVal) and returns the locale that follows
// the final block used.  Both bounds must be within [-2^511, 2^511 - 1].  Nil
// entries of out are allocated while existing ones are overwritten.
//
// Every attempt consumes one whole block, even when it is rejected.  The byte
// view of the block is read as a 512-bit big-endian unsigned integer, masked
// down to the smallest all-ones value covering the interval, and discarded
// when it falls outside of it.
//
// An error with the kind ErrInvalidRange is returned when the interval
// contains fewer than two values and one with the kind ErrInvalidWidth when a
// bound is outside of the supported range, in addition to the errors possible
// with GenerateBlock.  The provided locale is returned unchanged and out is
// left untouched on error, including when the address space runs out midway.
// The bounds are never modified, even when they are also entries of out.
func FillBigIntegers(out []*big.Int, minVal, maxVal *big.Int, kernel []uint32, rounds int, locale Locale) (Locale, error) {
	s, err := newBlockStream(kernel, rounds, locale)
	if err != nil {
		return locale, err
	}
	r, mask, err := bigRange(minVal, maxVal)
	if err != nil {
		return locale, err
	}

	if len(out) == 0 {
		return locale, nil
	}

	// Offsets are collected first so nothing in out changes unless every
	// value could be produced.  The base is copied since entries of out may
	// alias the bounds.
	var b Block
	offsets := make([]big.Int, len(out))
	for i := range offsets {
		v := &offsets[i]
		for {
			if err := s.block(&b); err != nil {
				return locale, err
			}
			buf := b.Bytes()
			v.SetBytes(buf[:])
			if v.And(v, mask).Cmp(r) <= 0 {
				break
			}
		}
	}
	base := new(big.Int).Set(minVal)
	for i := range out {
		if out[i] == nil {
			out[i] = new(big.Int)
		}
		out[i].Add(base, &offsets[i])
	}
	return s.locale, nil
}
