package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	html2md "github.com/alnah/go-html2md"
	"github.com/alnah/go-html2md/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// poolAdapter adapts html2md.ConverterPool to the Pool interface.
type poolAdapter struct {
	pool *html2md.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// Acquire returns a converter, or nil when the pool cannot provide one.
// The explicit nil keeps a nil *Converter from becoming a non-nil interface.
func (a *poolAdapter) Acquire() CLIConverter {
	conv := a.pool.Acquire()
	if conv == nil {
		return nil
	}
	return conv
}

// Release returns a converter to the pool.
// Panics if c is not a *html2md.Converter (programmer error).
func (a *poolAdapter) Release(c CLIConverter) {
	if c == nil {
		return
	}
	conv, ok := c.(*html2md.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

// Size returns the pool capacity.
func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]

	switch cmd {
	case "convert":
		return runConvertCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		return runCompletionCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "go-html2md %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	}

	// Default command: "html2md page.html" means "html2md convert page.html"
	if looksLikeInput(cmd) {
		return runConvertCmd(args[1:], env)
	}

	fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
	printUsage(env.Stderr)
	return ExitUsage
}

// isCommand reports whether s names a subcommand (case-sensitive).
func isCommand(s string) bool {
	switch s {
	case "convert", "doctor", "completion", "version", "help":
		return true
	}
	return false
}

// looksLikeInput reports whether a first argument should start a conversion:
// a flag, stdin, an HTML file name, or an existing directory.
func looksLikeInput(s string) bool {
	if s == "" || isCommand(s) {
		return false
	}
	if s == stdinPath || strings.HasPrefix(s, "-") {
		return true
	}
	if fileutil.IsHTMLFile(s) {
		return true
	}
	info, err := os.Stat(s)
	return err == nil && info.IsDir()
}

// runConvertCmd parses convert flags, builds the converter pool and runs
// the conversion.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		// pflag already printed the error and usage
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	logger, err := newLogger(env.Stderr, flags.common)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}
	env.Logger = logger

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(logger.Debugf))

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		// Batch failures were already reported per file, with hints
		var be *batchError
		if errors.As(err, &be) {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
		} else {
			fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, nil))
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// resolveTimeoutWithEnv picks the browser timeout.
// Priority: flag > environment > config. Zero means library default.
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration, configValue string) (time.Duration, error) {
	parse := func(s string) (time.Duration, error) {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %v", ErrInvalidTimeout, s, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w %q: must be positive", ErrInvalidTimeout, s)
		}
		return d, nil
	}

	switch {
	case flagValue != "":
		return parse(flagValue)
	case envValue > 0:
		return envValue, nil
	case configValue != "":
		return parse(configValue)
	}
	return 0, nil
}
