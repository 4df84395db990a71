// Copyright (c) 2017-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/decred/chacharng"
	"golang.org/x/term"
)

// promptSeed reads seed material from the terminal with the provided file
// descriptor without echoing it and returns the kernel derived from it.  The
// seed is cleared once the kernel has been derived.
func promptSeed(fd int, prompt io.Writer) ([]uint32, error) {
	fmt.Fprint(prompt, "Seed: ")
	seed, err := term.ReadPassword(fd)
	fmt.Fprint(prompt, "\n")
	if err != nil {
		return nil, fmt.Errorf("unable to read seed: %w", err)
	}
	defer clear(seed)

	if len(seed) == 0 {
		return nil, errors.New("the seed must not be empty")
	}
	return chacharng.DeriveKernel(seed), nil
}
