// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chacharng

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// TestMaskFor ensures the all-ones mask covering a value is computed
// correctly.
func TestMaskFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want uint64
	}{
		{0, 0},
		{1, 1},
		{2, 3},
		{5, 7},
		{8, 15},
		{255, 255},
		{256, 511},
		{1<<32 - 1, 1<<32 - 1},
		{1 << 32, 1<<33 - 1},
		{1 << 63, math.MaxUint64},
		{math.MaxUint64 - 1, math.MaxUint64},
	}
	for _, test := range tests {
		if got := maskFor(test.in); got != test.want {
			t.Errorf("maskFor(%#x) -- got %#x, want %#x", test.in, got,
				test.want)
		}
	}
}

// TestFillIntegersVectors ensures filling fixed-width integers produces known
// values and locales for a variety of widths and intervals.
func TestFillIntegersVectors(t *testing.T) {
	t.Parallel()

	t.Run("int8 die", func(t *testing.T) {
		got := make([]int8, 20)
		start := Locale{Pebble: 5, Stream: 9}
		next, err := FillIntegers(got, 1, 7, testKernel, 20, start)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []int8{4, 4, 4, 2, 2, 4, 2, 3, 4, 1, 1, 3, 1, 1, 1, 6, 3, 2, 4, 4}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected values -- got %v, want %v", got, want)
		}
		if wantNext := (Locale{Pebble: 9, Stream: 9}); next != wantNext {
			t.Fatalf("unexpected locale -- got %v, want %v", next, wantNext)
		}
	})

	t.Run("int16 signed interval", func(t *testing.T) {
		got := make([]int16, 10)
		next, err := FillIntegers(got, -1000, 1000, testKernel, 12, Locale{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []int16{-502, 348, -159, 1, -911, 577, -135, 509, 672, -299}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected values -- got %v, want %v", got, want)
		}
		if wantNext := (Locale{Pebble: 2}); next != wantNext {
			t.Fatalf("unexpected locale -- got %v, want %v", next, wantNext)
		}
	})

	t.Run("int64 nearly full width", func(t *testing.T) {
		got := make([]int64, 9)
		next, err := FillIntegers(got, math.MinInt64, math.MaxInt64,
			testKernel, 20, Locale{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []int64{
			-1578012656518038215, -3942095838980620915,
			5506458395325511050, 1307428006561434802,
			3108434420605657899, -1981645157808796097,
			-5934627540433534427, -8340284667426887742,
			-5030962430797465384,
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected values -- got %v, want %v", got, want)
		}
		if wantNext := (Locale{Pebble: 2}); next != wantNext {
			t.Fatalf("unexpected locale -- got %v, want %v", next, wantNext)
		}
	})

	t.Run("byte interval", func(t *testing.T) {
		// Every masked word is accepted, so the eight values are the low
		// bytes of the eight 64-bit words of the first block.
		got := make([]uint16, 8)
		next, err := FillIntegers(got, 0, 256, testKernel, 20, Locale{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []uint16{57, 141, 138, 178, 43, 63, 37, 194}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected values -- got %v, want %v", got, want)
		}
		if wantNext := (Locale{Pebble: 1}); next != wantNext {
			t.Fatalf("unexpected locale -- got %v, want %v", next, wantNext)
		}
	})
}

// TestFillIntegersConsumption ensures every attempt consumes one 64-bit word
// of the stream no matter the width of the result and that the unused words
// of the final block are discarded.
func TestFillIntegersConsumption(t *testing.T) {
	t.Parallel()

	// The 64-bit words of the first two blocks.
	var words []uint64
	locale := Locale{}
	for i := 0; i < 2; i++ {
		b, next, err := GenerateBlock(testKernel, 20, locale)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		w := b.Uint64s()
		words = append(words, w[:]...)
		locale = next
	}

	for _, n := range []int{1, 7, 8, 9, 16} {
		got := make([]uint8, n)
		next, err := FillIntegers(got, 0, math.MaxUint8, testKernel, 20,
			Locale{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// The interval [0, 255) rejects masked words equal to 255, so
		// replay the same selection over the known words.
		var want []uint8
		used := 0
		for len(want) < n {
			v := words[used] & 0xff
			used++
			if v < math.MaxUint8 {
				want = append(want, uint8(v))
			}
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%d values: got %v, want %v", n, got, want)
		}
		wantNext := Locale{Pebble: uint64((used + BlockUint64s - 1) / BlockUint64s)}
		if next != wantNext {
			t.Fatalf("%d values: unexpected locale -- got %v, want %v", n,
				next, wantNext)
		}
	}
}

// TestFillIntegersBounds ensures the generated values stay within the
// requested interval for extreme bounds of every width.
func TestFillIntegersBounds(t *testing.T) {
	t.Parallel()

	const n = 256
	checkRange := func(t *testing.T, name string, in func() error) {
		t.Helper()
		if err := in(); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}

	checkRange(t, "int8", func() error {
		out := make([]int8, n)
		if _, err := FillIntegers(out, math.MinInt8, math.MaxInt8, testKernel, 8, Locale{}); err != nil {
			return err
		}
		for _, v := range out {
			if v == math.MaxInt8 {
				t.Errorf("int8 value %d outside of interval", v)
			}
		}
		return nil
	})
	checkRange(t, "int16", func() error {
		out := make([]int16, n)
		if _, err := FillIntegers(out, -3, -1, testKernel, 8, Locale{}); err != nil {
			return err
		}
		for _, v := range out {
			if v != -3 && v != -2 {
				t.Errorf("int16 value %d outside of interval", v)
			}
		}
		return nil
	})
	checkRange(t, "int32", func() error {
		out := make([]int32, n)
		if _, err := FillIntegers(out, math.MinInt32, 0, testKernel, 8, Locale{}); err != nil {
			return err
		}
		for _, v := range out {
			if v >= 0 {
				t.Errorf("int32 value %d outside of interval", v)
			}
		}
		return nil
	})
	checkRange(t, "int64", func() error {
		out := make([]int64, n)
		if _, err := FillIntegers(out, math.MaxInt64-2, math.MaxInt64, testKernel, 8, Locale{}); err != nil {
			return err
		}
		for _, v := range out {
			if v < math.MaxInt64-2 || v == math.MaxInt64 {
				t.Errorf("int64 value %d outside of interval", v)
			}
		}
		return nil
	})
	checkRange(t, "uint32", func() error {
		out := make([]uint32, n)
		if _, err := FillIntegers(out, 1<<31, math.MaxUint32, testKernel, 8, Locale{}); err != nil {
			return err
		}
		for _, v := range out {
			if v < 1<<31 || v == math.MaxUint32 {
				t.Errorf("uint32 value %d outside of interval", v)
			}
		}
		return nil
	})
	checkRange(t, "uint64", func() error {
		out := make([]uint64, n)
		if _, err := FillIntegers(out, 0, math.MaxUint64, testKernel, 8, Locale{}); err != nil {
			return err
		}
		for _, v := range out {
			if v == math.MaxUint64 {
				t.Errorf("uint64 value %d outside of interval", v)
			}
		}
		return nil
	})
	checkRange(t, "uint", func() error {
		out := make([]uint, n)
		if _, err := FillIntegers(out, 10, 12, testKernel, 8, Locale{}); err != nil {
			return err
		}
		for _, v := range out {
			if v != 10 && v != 11 {
				t.Errorf("uint value %d outside of interval", v)
			}
		}
		return nil
	})
}

// TestFillIntegersUniformity performs a chi-squared goodness of fit test on a
// small interval to catch gross bias in the rejection sampler.
func TestFillIntegersUniformity(t *testing.T) {
	t.Parallel()

	const (
		numValues = 60000
		numBins   = 6
	)
	out := make([]int, numValues)
	if _, err := FillIntegers(out, 1, 7, testKernel, 20, Locale{Stream: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var counts [numBins]int
	for _, v := range out {
		if v < 1 || v >= 7 {
			t.Fatalf("value %d outside of interval", v)
		}
		counts[v-1]++
	}

	// The critical value for 5 degrees of freedom at p = 0.0001 is 25.74.
	const expected = float64(numValues) / numBins
	var chiSq float64
	for _, c := range counts {
		d := float64(c) - expected
		chiSq += d * d / expected
	}
	if chiSq > 25.74 {
		t.Fatalf("distribution is biased: counts %v, chi-squared %.2f",
			counts, chiSq)
	}
}

// TestFillIntegersErrors ensures invalid intervals and arguments are rejected
// with the locale unchanged and nothing written.
func TestFillIntegersErrors(t *testing.T) {
	t.Parallel()

	locale := Locale{Pebble: 3, Stream: 4}
	check := func(name string, next Locale, err, wantErr error) {
		t.Helper()
		if !errors.Is(err, wantErr) {
			t.Errorf("%s: mismatched err -- got %v, want %v", name, err,
				wantErr)
		}
		if next != locale {
			t.Errorf("%s: locale changed -- got %v, want %v", name, next,
				locale)
		}
	}

	out8 := make([]int8, 4)
	next, err := FillIntegers(out8, 5, 6, testKernel, 20, locale)
	check("int8 single value", next, err, ErrInvalidRange)
	next, err = FillIntegers(out8, 5, 5, testKernel, 20, locale)
	check("int8 empty", next, err, ErrInvalidRange)
	next, err = FillIntegers(out8, math.MaxInt8, math.MinInt8, testKernel, 20, locale)
	check("int8 reversed", next, err, ErrInvalidRange)
	for _, v := range out8 {
		if v != 0 {
			t.Fatalf("output modified on error: %v", out8)
		}
	}

	out16 := make([]uint16, 1)
	next, err = FillIntegers(out16, 10, 3, testKernel, 20, locale)
	check("uint16 reversed", next, err, ErrInvalidRange)

	out32 := make([]int32, 1)
	next, err = FillIntegers(out32, -1, 0, testKernel, 20, locale)
	check("int32 single value", next, err, ErrInvalidRange)

	out64 := make([]uint64, 1)
	next, err = FillIntegers(out64, math.MaxUint64-1, math.MaxUint64, testKernel, 20, locale)
	check("uint64 single value", next, err, ErrInvalidRange)
	next, err = FillIntegers(out64, math.MaxUint64, 0, testKernel, 20, locale)
	check("uint64 reversed", next, err, ErrInvalidRange)

	outI64 := make([]int64, 1)
	next, err = FillIntegers(outI64, math.MaxInt64, math.MinInt64, testKernel, 20, locale)
	check("int64 reversed", next, err, ErrInvalidRange)

	next, err = FillIntegers(out8, 0, 10, testKernel[:3], 20, locale)
	check("short kernel", next, err, ErrInvalidKernel)
	next, err = FillIntegers(out8, 0, 10, testKernel, 5, locale)
	check("odd rounds", next, err, ErrInvalidRounds)

	final := Locale{Pebble: math.MaxUint64, Stream: math.MaxUint64}
	next, err = FillIntegers(out8, 0, 10, testKernel, 20, final)
	if !errors.Is(err, ErrLocaleOverflow) || next != final {
		t.Errorf("final locale: got (%v, %v), want (%v, %v)", next, err,
			final, ErrLocaleOverflow)
	}

	// An empty output with a valid interval generates nothing.
	next, err = FillIntegers([]int8{}, 0, 10, testKernel, 20, locale)
	if err != nil || next != locale {
		t.Errorf("empty output: got (%v, %v), want (%v, nil)", next, err,
			locale)
	}
}

// TestFillIntegersExhausted ensures running out of address space after some
// values were already produced leaves the output untouched.
func TestFillIntegersExhausted(t *testing.T) {
	t.Parallel()

	// Only the block at pebble MaxUint64-1 can be produced, which holds 8
	// words and is not enough for 20 values.
	locale := Locale{Pebble: math.MaxUint64 - 1, Stream: math.MaxUint64}
	out := make([]int64, 20)
	for i := range out {
		out[i] = -7
	}
	next, err := FillIntegers(out, 0, 1000, testKernel, 20, locale)
	if !errors.Is(err, ErrLocaleOverflow) {
		t.Fatalf("mismatched err -- got %v, want %v", err, ErrLocaleOverflow)
	}
	if next != locale {
		t.Fatalf("locale changed -- got %v, want %v", next, locale)
	}
	for i, v := range out {
		if v != -7 {
			t.Fatalf("value %d modified on error: %v", i, out)
		}
	}

	// The same block satisfies a request that fits in it.
	next, err = FillIntegers(out[:4], 0, 1000, testKernel, 20, locale)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (Locale{Pebble: math.MaxUint64, Stream: math.MaxUint64}); next != want {
		t.Fatalf("unexpected locale -- got %v, want %v", next, want)
	}
	for i, v := range out[:4] {
		if v < 0 || v >= 1000 {
			t.Fatalf("value %d out of range: %d", i, v)
		}
	}
}
