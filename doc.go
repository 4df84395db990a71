// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package chacharng implements a deterministic, addressable, cryptographically
secure pseudorandom generator built on the ChaCha block function.

The output for a kernel is a sequence of 512-bit blocks, each identified by a
locale.  A locale consists of a stream and a pebble, giving 2^64 streams of
2^64 pebbles each.  The output depends only on the kernel, the number of
rounds, and the locale, so callers may seek to any position, skip over output
without generating it, and resume later with bit-identical continuation.

# Kernels and rounds

A kernel is 8 32-bit words of secret key material.  NewKernel fills a kernel
from the system entropy source, NewKernelFromReader from any io.Reader, and
DeriveKernel derives one from seed material with BLAKE-256.

Any positive even number of rounds is accepted.  DefaultRounds is the
recommended choice; picking a smaller number trades security margin for speed
and is the responsibility of the caller.

# Locales

Every operation that generates output takes the locale to start from and
returns the locale that follows the final block it used.  Locale.Skip advances
a locale by a number of blocks and Locale.Mock computes the locale that
generating a number of bytes would leave the caller at, both without
generating anything.  Advancing past the final stream is reported with
ErrLocaleOverflow rather than wrapping around.

Since output depends on nothing but the locale, independent workers may be
handed disjoint locale ranges and run in parallel without any coordination.
FillBytesParallel does exactly that for byte output.  Reusing a locale with the
same kernel simply repeats earlier output and is not detected.

# Sampling

FillBytes produces raw bytes.  FillIntegers produces fixed-width integers and
FillBigIntegers arbitrary-precision integers of up to 512 bits, each uniformly
distributed over a half-open interval [minVal, maxVal) by rejection sampling
against an all-ones mask, so no modulo bias is introduced.  FillUint256s is an
allocation-free variant for unsigned 256-bit intervals that produces the same
values as FillBigIntegers.

The fixed-width sampler consumes one 64-bit word of the stream per attempt,
regardless of the width of the result, while the arbitrary-precision samplers
consume one whole block per attempt.  These consumption rates are part of the
output format since they determine the returned locales.

# Generator

Generator wraps a kernel, rounds and locale into a stateful io.Reader along
with convenience methods for integers and shuffling.

# Errors

Errors returned by this package are of type chacharng.Error and wrap an
ErrorKind, so callers can check for a specific kind with errors.Is.  All
arguments are validated before anything is generated, and the locale passed in
is returned unchanged whenever an error occurs.
*/
package chacharng
