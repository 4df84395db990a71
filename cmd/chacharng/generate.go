// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"io"
	"math/big"
	"strconv"

	"github.com/decred/chacharng"
	"github.com/decred/chacharng/internal/progresslog"
	"github.com/decred/dcrd/math/uint256"
	"lukechampine.com/blake3"
)

const (
	// byteChunkSize is the number of bytes generated between writes in bytes
	// mode.  It must be a multiple of the block size so only the final chunk
	// partially consumes a block.
	byteChunkSize = 1 << 20

	// valueChunkSize is the number of values generated between writes in the
	// integer modes.
	valueChunkSize = 4096

	// digestSize is the size of the BLAKE3 digest written in digest mode.
	digestSize = 32
)

// errTerminalOutput is returned when raw bytes would be written to a terminal.
var errTerminalOutput = errors.New("refusing to write raw bytes to a " +
	"terminal -- use --hex, --digest, or --force")

// generator writes the output of the configured mode in chunks while logging
// progress.
type generator struct {
	cfg       *config
	w         io.Writer
	progress  *progresslog.Logger
	generated uint64
	line      []byte
}

// progressFn returns the percentage of the requested output generated so far.
func (g *generator) progressFn() float64 {
	return float64(g.generated) * 100 / float64(g.cfg.Count)
}

// logProgress records the generation of n values that advanced the locale from
// prev to next.
func (g *generator) logProgress(prev, next chacharng.Locale, n uint64) {
	g.generated += n
	done := g.generated == g.cfg.Count
	g.progress.LogProgress(next.Pebble-prev.Pebble, n, next, done,
		g.progressFn)
}

// writeLine writes the passed text followed by a newline.
func (g *generator) writeLine(text []byte) error {
	g.line = append(append(g.line[:0], text...), '\n')
	_, err := g.w.Write(g.line)
	return err
}

// bytes generates the configured number of bytes using parallel workers.
func (g *generator) bytes(ctx context.Context) (chacharng.Locale, error) {
	cfg := g.cfg
	locale := cfg.locale
	buf := make([]byte, min(cfg.Count, byteChunkSize))
	for remaining := cfg.Count; remaining > 0; {
		n := min(remaining, uint64(len(buf)))
		next, err := chacharng.FillBytesParallel(ctx, buf[:n], cfg.kernel,
			cfg.Rounds, locale, cfg.Workers)
		if err != nil {
			return locale, err
		}
		if _, err := g.w.Write(buf[:n]); err != nil {
			return locale, err
		}
		g.logProgress(locale, next, n)
		locale = next
		remaining -= n
	}
	return locale, nil
}

// ints generates the configured number of 64-bit signed integers.
func (g *generator) ints(ctx context.Context) (chacharng.Locale, error) {
	cfg := g.cfg
	locale := cfg.locale
	minVal, maxVal := cfg.minVal.Int64(), cfg.maxVal.Int64()
	buf := make([]int64, min(cfg.Count, valueChunkSize))
	var text []byte
	for remaining := cfg.Count; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return locale, err
		}
		n := min(remaining, uint64(len(buf)))
		next, err := chacharng.FillIntegers(buf[:n], minVal, maxVal,
			cfg.kernel, cfg.Rounds, locale)
		if err != nil {
			return locale, err
		}
		for _, v := range buf[:n] {
			text = strconv.AppendInt(text[:0], v, 10)
			if err := g.writeLine(text); err != nil {
				return locale, err
			}
		}
		g.logProgress(locale, next, n)
		locale = next
		remaining -= n
	}
	return locale, nil
}

// bigInts generates the configured number of arbitrary-precision integers.
func (g *generator) bigInts(ctx context.Context) (chacharng.Locale, error) {
	cfg := g.cfg
	locale := cfg.locale
	buf := make([]*big.Int, min(cfg.Count, valueChunkSize))
	var text []byte
	for remaining := cfg.Count; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return locale, err
		}
		n := min(remaining, uint64(len(buf)))
		next, err := chacharng.FillBigIntegers(buf[:n], cfg.minVal,
			cfg.maxVal, cfg.kernel, cfg.Rounds, locale)
		if err != nil {
			return locale, err
		}
		for _, v := range buf[:n] {
			text = v.Append(text[:0], 10)
			if err := g.writeLine(text); err != nil {
				return locale, err
			}
		}
		g.logProgress(locale, next, n)
		locale = next
		remaining -= n
	}
	return locale, nil
}

// uint256s generates the configured number of unsigned 256-bit integers.
func (g *generator) uint256s(ctx context.Context) (chacharng.Locale, error) {
	cfg := g.cfg
	locale := cfg.locale
	var minVal, maxVal uint256.Uint256
	minVal.SetBig(cfg.minVal)
	maxVal.SetBig(cfg.maxVal)
	buf := make([]uint256.Uint256, min(cfg.Count, valueChunkSize))
	var text []byte
	for remaining := cfg.Count; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return locale, err
		}
		n := min(remaining, uint64(len(buf)))
		next, err := chacharng.FillUint256s(buf[:n], &minVal, &maxVal,
			cfg.kernel, cfg.Rounds, locale)
		if err != nil {
			return locale, err
		}
		for i := range buf[:n] {
			text = buf[i].ToBig().Append(text[:0], 10)
			if err := g.writeLine(text); err != nil {
				return locale, err
			}
		}
		g.logProgress(locale, next, n)
		locale = next
		remaining -= n
	}
	return locale, nil
}

// run generates the output described by the configuration into stdout and
// returns the locale following the last block used.  When an error occurs the
// returned locale follows the last block whose output was completely written.
//
// Raw bytes are not written when stdout is a terminal unless forced.
func run(ctx context.Context, cfg *config, stdout io.Writer, isTerminal bool) (chacharng.Locale, error) {
	hexOut := cfg.Mode == modeBytes && cfg.Hex
	rawBytes := cfg.Mode == modeBytes && !cfg.Hex && !cfg.Digest
	if rawBytes && isTerminal && !cfg.Force {
		return cfg.locale, errTerminalOutput
	}

	bw := bufio.NewWriter(stdout)
	var w io.Writer = bw
	var hasher *blake3.Hasher
	if cfg.Digest {
		hasher = blake3.New(digestSize, nil)
		w = hasher
	}
	if hexOut {
		w = hex.NewEncoder(w)
	}
	g := &generator{
		cfg:      cfg,
		w:        w,
		progress: progresslog.New("Generated", rngcLog),
	}

	var next chacharng.Locale
	var err error
	switch cfg.Mode {
	case modeBytes:
		next, err = g.bytes(ctx)
	case modeInt:
		next, err = g.ints(ctx)
	case modeBig:
		next, err = g.bigInts(ctx)
	case modeUint256:
		next, err = g.uint256s(ctx)
	}

	switch {
	case hasher != nil:
		if err == nil {
			_, err = bw.WriteString(hex.EncodeToString(hasher.Sum(nil)) + "\n")
		}
	case hexOut && cfg.Count > 0:
		if err == nil {
			err = bw.WriteByte('\n')
		}
	}
	if flushErr := bw.Flush(); err == nil {
		err = flushErr
	}
	return next, err
}
