package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/hupe1980/psort/internal/config"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitInvalidArgs   = 2
	ExitInputError    = 3
	ExitOutputError   = 4
	ExitResourceLimit = 5
	ExitSortFailed    = 6
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[psort] Received interrupt, shutting down...")
		cancel()
	}()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("psort", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "YAML configuration file")
	in := fs.String("in", "-", "Input location: path, file://, s3://bucket/key, minio://bucket/key or - for stdin")
	out := fs.String("out", "-", "Output location, same forms as -in; - for stdout")
	format := fs.String("format", "text", "Value format: text, binary or json")
	compression := fs.String("compression", "auto", "Compression: auto, none, gzip, zstd or lz4")
	threshold := fs.Int("threshold", 0, "Segment length sorted sequentially (0 = default)")
	spawnCutoff := fs.Int("spawn-cutoff", 0, "Halves of at most this length never spawn a worker")
	memoryLimit := fs.String("memory-limit", "", "Limit for the value buffer, e.g. 512MiB (empty = unlimited)")
	ioLimit := fs.String("io-limit", "", "Read and write throughput per second, e.g. 64MiB (empty = unlimited)")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn or error")
	logFormat := fs.String("log-format", "text", "Log format: text or json")
	timing := fs.Bool("timing", false, "Print a timing report to stderr")

	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: psort [options] <max_workers>

Read integers, sort them with at most max_workers concurrent worker
goroutines and write them back in non-decreasing order. Reads stdin and
writes stdout by default, one value per line. Options may appear before
or after max_workers; arguments after -- are never read as options.

Options:`)
		fs.PrintDefaults()
	}

	flagArgs, positional := splitArgs(fs, args)
	if err := fs.Parse(flagArgs); err != nil {
		if err == flag.ErrHelp {
			return ExitSuccess
		}
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(*configPath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.Input = *in
		case "out":
			cfg.Output = *out
		case "format":
			cfg.Format = *format
		case "compression":
			cfg.Compression = *compression
		case "threshold":
			cfg.Threshold = *threshold
		case "spawn-cutoff":
			cfg.SpawnCutoff = *spawnCutoff
		case "memory-limit":
			cfg.MemoryLimit, flagErr = parseSizeFlag(f.Name, *memoryLimit, flagErr)
		case "io-limit":
			cfg.IOLimit, flagErr = parseSizeFlag(f.Name, *ioLimit, flagErr)
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = *logFormat
		case "timing":
			cfg.Timing = *timing
		}
	})
	if flagErr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", flagErr)
		return ExitInvalidArgs
	}

	switch len(positional) {
	case 0:
		if cfg.MaxWorkers == 0 {
			fmt.Fprintln(stderr, "Error: <max_workers> is required")
			fs.Usage()
			return ExitInvalidArgs
		}
	case 1:
		n, err := strconv.Atoi(positional[0])
		if err != nil {
			fmt.Fprintf(stderr, "Error: max_workers must be an integer: %q\n", positional[0])
			return ExitInvalidArgs
		}
		cfg.MaxWorkers = n
	default:
		fmt.Fprintln(stderr, "Error: expected a single <max_workers> argument")
		fs.Usage()
		return ExitInvalidArgs
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	return sortStream(ctx, cfg, stdin, stdout, stderr)
}

// splitArgs separates options from positional arguments so options may
// follow max_workers. A negative integer is positional unless it is the value
// of the preceding option.
func splitArgs(fs *flag.FlagSet, args []string) (flagArgs, positional []string) {
	for k := 0; k < len(args); k++ {
		a := args[k]
		if a == "--" {
			positional = append(positional, args[k+1:]...)
			break
		}
		if a == "-" || !strings.HasPrefix(a, "-") || isInteger(a) {
			positional = append(positional, a)
			continue
		}

		flagArgs = append(flagArgs, a)
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil && !isBoolFlag(f) && k+1 < len(args) {
			k++
			flagArgs = append(flagArgs, args[k])
		}
	}
	return flagArgs, positional
}

func isInteger(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// parseSizeFlag keeps the first error seen while visiting flags.
func parseSizeFlag(name, value string, prev error) (int64, error) {
	if value == "" {
		return 0, prev
	}
	n, err := config.ParseSize(value)
	if err != nil && prev == nil {
		return 0, fmt.Errorf("-%s: %w", name, err)
	}
	return n, prev
}
