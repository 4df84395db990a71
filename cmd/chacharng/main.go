// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/decred/chacharng/internal/version"
	flags "github.com/jessevdk/go-flags"
	"golang.org/x/term"
)

// chacharngMain is the real main function for chacharng.  It is necessary to
// work around the fact that deferred functions do not run when os.Exit() is
// called.
func chacharngMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	cfg, _, err := loadConfig(appName, os.Args[1:])
	if err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			return nil
		}
		fmt.Fprintln(os.Stderr, err)
		var e errSuppressUsage
		if !errors.As(err, &e) {
			fmt.Fprintf(os.Stderr, "Use %s -h to show usage\n", appName)
		}
		return err
	}

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s %s/%s)\n", appName,
			version.String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	}

	// Write the freshly generated kernel and exit if requested.
	if cfg.GenKernel {
		fmt.Println(formatKernel(cfg.kernel))
		return nil
	}

	if !cfg.NoFileLogging {
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		err := initLogRotator(logFile, cfg.LogSize, cfg.MaxLogFiles)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		defer logRotator.Close()
	}

	// Get a context that will be canceled when a shutdown signal has been
	// triggered from an OS signal such as SIGINT (Ctrl+C).
	ctx := shutdownListener()

	rngcLog.Infof("Version %s (Go version %s %s/%s)", version.String(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	rngcLog.Debugf("Generating %d in %s mode with %d rounds from %v",
		cfg.Count, cfg.Mode, cfg.Rounds, cfg.locale)

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	next, err := run(ctx, cfg, os.Stdout, isTerminal)
	if err != nil {
		rngcLog.Errorf("Generation failed: %v", err)
		if next != cfg.locale {
			rngcLog.Infof("Output before %v was written.  Resume with "+
				"--pebble=%d --stream=%d", next, next.Pebble, next.Stream)
		}
		return err
	}
	rngcLog.Infof("Next locale is %v.  Resume with --pebble=%d --stream=%d",
		next, next.Pebble, next.Stream)
	return nil
}

func main() {
	if err := chacharngMain(); err != nil {
		os.Exit(1)
	}
}
