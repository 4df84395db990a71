// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chacharng

import "fmt"

// Integer is the set of fixed-width integer types FillIntegers can produce.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// maskFor returns the smallest value of the form 2^k - 1 that is greater than
// or equal to v.
func maskFor(v uint64) uint64 {
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v
}

// integerRange returns maxVal - minVal - 1 computed in two's complement, which
// is the largest offset from minVal that lies within [minVal, maxVal).  An
// error is returned when the interval contains fewer than two values.
func integerRange[T Integer](minVal, maxVal T) (uint64, error) {
	// Conversion to uint64 sign extends signed types, so the difference is
	// the exact width of the interval whenever maxVal > minVal.
	if maxVal <= minVal || uint64(maxVal)-uint64(minVal) < 2 {
		str := fmt.Sprintf("interval [%d, %d) must contain at least two "+
			"values", minVal, maxVal)
		return 0, makeError(ErrInvalidRange, str)
	}
	return uint64(maxVal) - uint64(minVal) - 1, nil
}

// uniform returns a uniformly distributed value in [0, r] by drawing masked
// 64-bit words from the stream until one is within range.  Each attempt
// consumes exactly one 64-bit word regardless of the size of r.
func (s *blockStream) uniform(r, mask uint64) (uint64, error) {
	for {
		v, err := s.uint64()
		if err != nil {
			return 0, err
		}
		if v &= mask; v <= r {
			return v, nil
		}
	}
}

// FillIntegers fills out with integers that are uniformly distributed over the
// half-open interval [minVal, maxVal) and returns the locale that follows the
// final block used.
//
// Each value is chosen by rejection sampling: a 64-bit word is drawn from the
// block stream, masked down to the smallest all-ones value covering the
// interval, and discarded when it falls outside of it.  Every attempt draws a
// fresh 64-bit word, 8 per block, no matter the width of T.  Unused words of
// the final block are discarded.
//
// An error with the kind ErrInvalidRange is returned when the interval
// contains fewer than two values, in addition to the errors possible with
// GenerateBlock.  The provided locale is returned unchanged and out is left
// untouched on error, including when the address space runs out midway.
func FillIntegers[T Integer](out []T, minVal, maxVal T, kernel []uint32, rounds int, locale Locale) (Locale, error) {
	s, err := newBlockStream(kernel, rounds, locale)
	if err != nil {
		return locale, err
	}
	r, err := integerRange(minVal, maxVal)
	if err != nil {
		return locale, err
	}
	if len(out) == 0 {
		return locale, nil
	}

	// Consumption depends on the rejections, so values are only copied to out
	// once all of them have been produced.
	mask := maskFor(r)
	base := uint64(minVal)
	vals := make([]T, len(out))
	for i := range vals {
		v, err := s.uniform(r, mask)
		if err != nil {
			return locale, err
		}
		vals[i] = T(base + v)
	}
	copy(out, vals)
	return s.locale, nil
}
