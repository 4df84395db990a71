// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chacharng

import (
	"fmt"

	"github.com/decred/dcrd/math/uint256"
)

// uint256Range returns maxVal - minVal - 1 along with the smallest all-ones
// mask covering it.  An error is returned when the interval contains fewer
// than two values.
func uint256Range(minVal, maxVal *uint256.Uint256) (uint256.Uint256, uint256.Uint256, error) {
	var r, mask uint256.Uint256
	if minVal == nil || maxVal == nil {
		return r, mask, makeError(ErrInvalidRange, "interval bounds must "+
			"not be nil")
	}
	two := new(uint256.Uint256).SetUint64(2)
	if !maxVal.Gt(minVal) || r.Set(maxVal).Sub(minVal).Lt(two) {
		str := fmt.Sprintf("interval [%v, %v) must contain at least two "+
			"values", minVal, maxVal)
		return r, mask, makeError(ErrInvalidRange, str)
	}
	r.Sub(new(uint256.Uint256).SetUint64(1))

	var shifted uint256.Uint256
	mask.Set(&r)
	for shift := uint32(1); shift < 256; shift <<= 1 {
		mask.Or(shifted.Set(&mask).Rsh(shift))
	}
	return r, mask, nil
}

// FillUint256s fills out with unsigned 256-bit integers that are uniformly
// distributed over the half-open interval [minVal, maxVal) and returns the
// locale that follows the final block used.
//
// It avoids the per-value allocations of FillBigIntegers and consumes the
// block stream in exactly the same way, one whole block per attempt, so both
// produce the same values and locale for the same interval.  The final 32 bytes of the
// byte view of each block are read as a big-endian integer, which are the low
// 256 bits of the integer FillBigIntegers reads.
//
// An error with the kind ErrInvalidRange is returned when the interval
// contains fewer than two values, in addition to the errors possible with
// GenerateBlock.  The provided locale is returned unchanged and out is left
// untouched on error, including when the address space runs out midway.
func FillUint256s(out []uint256.Uint256, minVal, maxVal *uint256.Uint256, kernel []uint32, rounds int, locale Locale) (Locale, error) {
	s, err := newBlockStream(kernel, rounds, locale)
	if err != nil {
		return locale, err
	}
	r, mask, err := uint256Range(minVal, maxVal)
	if err != nil {
		return locale, err
	}

	if len(out) == 0 {
		return locale, nil
	}

	// Values are only copied to out once all of them have been produced.
	var b Block
	base := *minVal
	vals := make([]uint256.Uint256, len(out))
	for i := range vals {
		v := &vals[i]
		for {
			if err := s.block(&b); err != nil {
				return locale, err
			}
			buf := b.Bytes()
			v.SetBytes((*[32]byte)(buf[BlockSize-32:]))
			if !v.And(&mask).Gt(&r) {
				break
			}
		}
		v.Add(&base)
	}
	copy(out, vals)
	return s.locale, nil
}
