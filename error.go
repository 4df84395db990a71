// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chacharng

import "errors"

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidKernel indicates a kernel does not consist of exactly
	// KernelWords words.
	ErrInvalidKernel = ErrorKind("ErrInvalidKernel")

	// ErrInvalidRounds indicates a round count that is not a positive even
	// number.
	ErrInvalidRounds = ErrorKind("ErrInvalidRounds")

	// ErrInvalidRange indicates a half-open interval that contains fewer than
	// two values.
	ErrInvalidRange = ErrorKind("ErrInvalidRange")

	// ErrInvalidWidth indicates an arbitrary-precision bound that lies outside
	// of the supported signed 512-bit range.
	ErrInvalidWidth = ErrorKind("ErrInvalidWidth")

	// ErrLocaleOverflow indicates advancing a locale would require the stream
	// to move past its maximum value.  The address space for the kernel is
	// exhausted and generation can only continue with a different kernel.
	ErrLocaleOverflow = ErrorKind("ErrLocaleOverflow")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// ErrStreamExhausted is the underlying arithmetic condition carried in the
// RawErr field of an ErrLocaleOverflow error.
var ErrStreamExhausted = errors.New("stream counter overflows 64 bits")

// Error identifies an error related to generating random data.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	RawErr      error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
