// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chacharng

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunkBlocks is the smallest number of blocks handed to a single worker by
// FillBytesParallel.
const minChunkBlocks = 64

// FillBytesParallel fills out with exactly the same bytes FillBytes would and
// returns the same locale, but splits the work into contiguous chunks that are
// generated concurrently by up to the given number of workers.  A
// non-positive number of workers uses one worker per CPU.
//
// Each chunk starts on a block boundary at the locale obtained by skipping
// over the blocks of the chunks before it, so no coordination between the
// workers is needed.  The context is checked before each chunk is generated
// and its error is returned when it is done.  The provided locale is returned
// unchanged on error and out may be partially written in that case.
func FillBytesParallel(ctx context.Context, out []byte, kernel []uint32, rounds int, locale Locale, workers int) (Locale, error) {
	if err := checkKernel(kernel); err != nil {
		return locale, err
	}
	if err := checkRounds(rounds); err != nil {
		return locale, err
	}
	if len(out) == 0 {
		return locale, nil
	}
	end, err := locale.Mock(uint64(len(out)))
	if err != nil {
		return locale, err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	numBlocks := blocksForBytes(uint64(len(out)))
	chunkBlocks := numBlocks / uint64(workers)
	if numBlocks%uint64(workers) != 0 {
		chunkBlocks++
	}
	chunkBlocks = max(chunkBlocks, minChunkBlocks)
	log.Tracef("Filling %d bytes from %v using %d workers with chunks of %d "+
		"blocks", len(out), locale, workers, chunkBlocks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for first := uint64(0); first < numBlocks; first += chunkBlocks {
		// The chunk locales can't overflow since the end locale is valid.
		chunkLocale, _ := locale.Skip(first)
		start := first * BlockSize
		stop := min(start+chunkBlocks*BlockSize, uint64(len(out)))
		chunk := out[start:stop]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := FillBytes(chunk, kernel, rounds, chunkLocale)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return locale, err
	}
	return end, nil
}
