// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/decred/chacharng"
	"github.com/decred/dcrd/dcrutil/v4"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "chacharng.conf"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "chacharng.log"
	defaultLogLevel       = "info"
	defaultLogSize        = 10 // MiB
	defaultMaxLogFiles    = 3
	defaultMode           = modeBytes
	defaultCount          = 64
	defaultMin            = "0"
	defaultMax            = "100"
)

// Output modes.
const (
	modeBytes   = "bytes"
	modeInt     = "int"
	modeBig     = "big"
	modeUint256 = "uint256"
)

var (
	defaultHomeDir    = dcrutil.AppDataDir("chacharng", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)

	// maxUint256 is the largest bound accepted in uint256 mode.
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256),
		big.NewInt(1))
)

// config defines the configuration options for chacharng.
//
// See loadConfig for details on the configuration load process.
type config struct {
	// General application behavior.
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`

	// Generation.
	Rounds     int    `short:"r" long:"rounds" description:"Number of ChaCha rounds; must be a positive even number"`
	Kernel     string `short:"k" long:"kernel" description:"Kernel as 64 hex characters holding 8 little-endian 32-bit words"`
	Seed       string `short:"s" long:"seed" description:"Derive the kernel from the given seed material instead"`
	PromptSeed bool   `long:"promptseed" description:"Derive the kernel from seed material read from the terminal without echo"`
	GenKernel  bool   `long:"genkernel" description:"Write a fresh random kernel in the format accepted by --kernel and exit"`
	Pebble     uint64 `long:"pebble" description:"Pebble of the first block to generate"`
	Stream     uint64 `long:"stream" description:"Stream of the first block to generate"`
	Mode       string `short:"m" long:"mode" description:"Output mode {bytes, int, big, uint256}"`
	Count      uint64 `short:"n" long:"count" description:"Number of bytes in bytes mode or values in the other modes"`
	Min        string `long:"min" description:"Inclusive lower bound of generated values; accepts 0x prefixed hex"`
	Max        string `long:"max" description:"Exclusive upper bound of generated values; accepts 0x prefixed hex"`
	Workers    int    `short:"w" long:"workers" description:"Number of workers used in bytes mode; 0 uses one per CPU"`

	// Output.
	Hex    bool `long:"hex" description:"Write bytes mode output hex encoded; only valid in bytes mode"`
	Digest bool `long:"digest" description:"Write the BLAKE3 digest of the output instead of the output itself"`
	Force  bool `short:"f" long:"force" description:"Write raw bytes even when standard output is a terminal"`

	// Logging.
	LogDir        string `long:"logdir" description:"Directory to log output"`
	NoFileLogging bool   `long:"nofilelogging" description:"Disable file logging"`
	LogSize       int64  `long:"logsize" description:"Maximum size in MiB of a log file before it is rotated"`
	MaxLogFiles   int    `long:"maxlogfiles" description:"Maximum number of rotated log files to keep"`
	DebugLevel    string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`

	// The following fields are derived from the options above.
	kernel []uint32
	locale chacharng.Locale
	minVal *big.Int
	maxVal *big.Int
}

// errSuppressUsage signifies that an error that happened during the initial
// configuration phase should suppress the usage output since it was not caused
// by the user.
type errSuppressUsage string

// Error implements the error interface.
func (e errSuppressUsage) Error() string {
	return string(e)
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Nothing to do when no path is given.
	if path == "" {
		return path
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows cmd.exe-style
	// %VARIABLE%, but the variables can still be expanded via POSIX-style
	// $VARIABLE.
	path = os.ExpandEnv(path)
	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path)
	}

	// Expand initial ~ to the current user's home directory, or ~otheruser to
	// otheruser's home directory.  On Windows, both forward and backward
	// slashes can be used.
	path = path[1:]

	var pathSeparators string
	if runtime.GOOS == "windows" {
		pathSeparators = string(os.PathSeparator) + "/"
	} else {
		pathSeparators = string(os.PathSeparator)
	}

	userName := ""
	if i := strings.IndexAny(path, pathSeparators); i != -1 {
		userName = path[:i]
		path = path[i:]
	}

	homeDir := ""
	var u *user.User
	var err error
	if userName == "" {
		u, err = user.Current()
	} else {
		u, err = user.Lookup(userName)
	}
	if err == nil {
		homeDir = u.HomeDir
	}
	// Fallback to CWD if user lookup fails or user has no home directory.
	if homeDir == "" {
		homeDir = "."
	}

	return filepath.Join(homeDir, path)
}

// newConfigParser returns a new command line flags parser.
func newConfigParser(cfg *config, options flags.Options) *flags.Parser {
	return flags.NewParser(cfg, options)
}

// parseKernel determines the kernel from the configured hex kernel, seed, or
// seed prompt.  A fresh random kernel is returned when none is provided.
func parseKernel(cfg *config) ([]uint32, error) {
	var sources int
	for _, set := range []bool{cfg.Kernel != "", cfg.Seed != "",
		cfg.PromptSeed, cfg.GenKernel} {

		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, errors.New("only one of the kernel, seed, promptseed, " +
			"and genkernel options may be specified")
	}

	kernel := make([]uint32, chacharng.KernelWords)
	switch {
	case cfg.Kernel != "":
		b, err := hex.DecodeString(cfg.Kernel)
		if err != nil {
			return nil, fmt.Errorf("malformed kernel: %w", err)
		}
		if len(b) != chacharng.KernelWords*4 {
			return nil, fmt.Errorf("kernel must be %d hex characters, got %d",
				chacharng.KernelWords*8, len(cfg.Kernel))
		}
		err = chacharng.NewKernelFromReader(kernel, bytes.NewReader(b))
		clear(b)
		if err != nil {
			return nil, err
		}

	case cfg.Seed != "":
		kernel = chacharng.DeriveKernel([]byte(cfg.Seed))

	case cfg.PromptSeed:
		return promptSeed(int(os.Stdin.Fd()), os.Stderr)

	default:
		if err := chacharng.NewKernel(kernel); err != nil {
			return nil, err
		}
	}
	return kernel, nil
}

// formatKernel returns the kernel in the hex format parseKernel accepts.
func formatKernel(kernel []uint32) string {
	b := make([]byte, 0, len(kernel)*4)
	for _, w := range kernel {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return hex.EncodeToString(b)
}

// parseBound parses an interval bound in decimal or 0x prefixed hex.
func parseBound(name, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("malformed %s bound %q", name, s)
	}
	return v, nil
}

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in chacharng functioning properly without any config
// settings while still allowing the user to override settings with config
// files and command line options.  Command line options always take
// precedence.
func loadConfig(appName string, args []string) (*config, []string, error) {
	// Default config.
	cfg := config{
		ConfigFile:  defaultConfigFile,
		Rounds:      chacharng.DefaultRounds,
		Mode:        defaultMode,
		Count:       defaultCount,
		Min:         defaultMin,
		Max:         defaultMax,
		LogDir:      defaultLogDir,
		LogSize:     defaultLogSize,
		MaxLogFiles: defaultMaxLogFiles,
		DebugLevel:  defaultLogLevel,
	}

	// Pre-parse the command line options to see if an alternative config file
	// or the version flag was specified.  Any errors aside from the help
	// message error can be ignored here since they will be caught by the final
	// parse below.
	preCfg := cfg
	preParser := newConfigParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			return nil, nil, err
		}
	}

	// Show the version and exit if the version flag was specified.
	if preCfg.ShowVersion {
		return &preCfg, nil, nil
	}

	// Load additional config from file.
	parser := newConfigParser(&cfg, flags.Default&^flags.PrintErrors)
	configFile := cleanAndExpandPath(preCfg.ConfigFile)
	err = flags.NewIniParser(parser).ParseFile(configFile)
	if err != nil {
		var e *os.PathError
		if !errors.As(err, &e) || preCfg.ConfigFile != defaultConfigFile {
			str := "%s: failed to load config file %q: %w"
			return nil, nil, fmt.Errorf(str, appName, configFile, err)
		}
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		return nil, nil, errSuppressUsage("listed supported subsystems")
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", appName, err)
	}

	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	if cfg.LogSize <= 0 {
		str := "%s: the logsize option must be positive, got %d"
		return nil, nil, fmt.Errorf(str, appName, cfg.LogSize)
	}

	if cfg.Rounds <= 0 || cfg.Rounds%2 != 0 {
		str := "%s: the rounds option must be a positive even number, got %d"
		return nil, nil, fmt.Errorf(str, appName, cfg.Rounds)
	}
	if cfg.Workers < 0 {
		str := "%s: the workers option must not be negative, got %d"
		return nil, nil, fmt.Errorf(str, appName, cfg.Workers)
	}

	cfg.kernel, err = parseKernel(&cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", appName, err)
	}
	cfg.locale = chacharng.Locale{Pebble: cfg.Pebble, Stream: cfg.Stream}

	switch cfg.Mode {
	case modeBytes:
		if cfg.Hex && cfg.Digest {
			str := "%s: the hex and digest options can't be used together"
			return nil, nil, fmt.Errorf(str, appName)
		}

	case modeInt, modeBig, modeUint256:
		if cfg.Hex {
			str := "%s: the hex option is only supported in %s mode"
			return nil, nil, fmt.Errorf(str, appName, modeBytes)
		}
		if cfg.minVal, err = parseBound("min", cfg.Min); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", appName, err)
		}
		if cfg.maxVal, err = parseBound("max", cfg.Max); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", appName, err)
		}
		if cfg.minVal.Cmp(cfg.maxVal) >= 0 {
			str := "%s: the min bound %v must be less than the max bound %v"
			return nil, nil, fmt.Errorf(str, appName, cfg.minVal, cfg.maxVal)
		}
		switch {
		case cfg.Mode == modeInt && (!cfg.minVal.IsInt64() ||
			!cfg.maxVal.IsInt64()):
			str := "%s: the bounds must be 64-bit signed integers in int mode"
			return nil, nil, fmt.Errorf(str, appName)

		case cfg.Mode == modeUint256 && (cfg.minVal.Sign() < 0 ||
			cfg.maxVal.Cmp(maxUint256) > 0):
			str := "%s: the bounds must be 256-bit unsigned integers in " +
				"uint256 mode"
			return nil, nil, fmt.Errorf(str, appName)
		}

	default:
		str := "%s: unknown mode %q -- supported modes %v"
		return nil, nil, fmt.Errorf(str, appName, cfg.Mode, []string{
			modeBytes, modeInt, modeBig, modeUint256})
	}

	if cfg.Seed == "" && cfg.Kernel == "" && !cfg.PromptSeed && !cfg.GenKernel {
		rngcLog.Warn("No kernel or seed specified.  Using a fresh random " +
			"kernel, so the output can't be reproduced")
	}

	return &cfg, remainingArgs, nil
}
