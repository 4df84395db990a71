// Copyright (c) 2021-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.
//
//go:build windows || aix || android || darwin || dragonfly || freebsd || hurd || illumos || ios || linux || netbsd || openbsd || solaris

package main

import (
	"syscall"
)

func init() {
	// Output is commonly piped into tools such as head that close the pipe
	// early.  Catching SIGPIPE turns the failed write into an error so the
	// resume locale is still logged instead of the process being killed.
	interruptSignals = append(interruptSignals, syscall.SIGTERM,
		syscall.SIGHUP, syscall.SIGPIPE)
}
