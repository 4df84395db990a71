// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package progresslog

import (
	"fmt"
	"sync"
	"time"

	"github.com/decred/slog"
)

// logInterval is the minimum time between progress messages that are not
// forced.
const logInterval = 10 * time.Second

// pickNoun returns the singular or plural form of a noun depending on the
// provided count.
func pickNoun(n uint64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// Logger provides periodic logging of progress towards generating a large
// amount of random output.
type Logger struct {
	sync.Mutex
	subsystemLogger slog.Logger
	progressAction  string

	// lastLogTime tracks the last time a log statement was shown.
	lastLogTime time.Time

	// These fields accumulate information about generated output between log
	// statements.
	receivedBlocks uint64
	receivedValues uint64
}

// New returns a new progress logger.
func New(progressAction string, logger slog.Logger) *Logger {
	return &Logger{
		lastLogTime:     time.Now(),
		progressAction:  progressAction,
		subsystemLogger: logger,
	}
}

// LogProgress accumulates the provided number of blocks and values and
// periodically (every 10 seconds) logs an information message to show
// progress to the user along with duration and totals included.
//
// The force flag may be used to force a log message to be shown regardless of
// the time the last one was shown.
//
// The progress message is templated as follows:
//  {progressAction} {numBlocks} {blocks|block} in the last {timePeriod}
//  ({numValues} {values|value}, next {locale}, ~{progress}% done)
func (l *Logger) LogProgress(blocks, values uint64, locale fmt.Stringer, forceLog bool, progressFn func() float64) {
	l.Lock()
	defer l.Unlock()

	l.receivedBlocks += blocks
	l.receivedValues += values
	now := time.Now()
	duration := now.Sub(l.lastLogTime)
	if !forceLog && duration < logInterval {
		return
	}

	l.subsystemLogger.Infof("%s %d %s in the last %0.2fs (%d %s, next %v, "+
		"~%.2f%% done)", l.progressAction,
		l.receivedBlocks, pickNoun(l.receivedBlocks, "block", "blocks"),
		duration.Seconds(),
		l.receivedValues, pickNoun(l.receivedValues, "value", "values"),
		locale, progressFn())

	l.receivedBlocks = 0
	l.receivedValues = 0
	l.lastLogTime = now
}

// SetLastLogTime updates the last time data was logged to the provided time.
func (l *Logger) SetLastLogTime(time time.Time) {
	l.Lock()
	l.lastLogTime = time
	l.Unlock()
}
