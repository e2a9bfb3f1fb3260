package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Stdio(t *testing.T) {
	code, out, errOut := runCLI(t, "5\n3\n3\n1\n4\n1\n5\n9\n2\n6\n", "4")

	require.Equal(t, ExitSuccess, code, errOut)
	assert.Equal(t, "1\n1\n2\n3\n3\n4\n5\n5\n6\n9\n", out)
}

func TestRun_EmptyInput(t *testing.T) {
	code, out, errOut := runCLI(t, "", "1")

	require.Equal(t, ExitSuccess, code, errOut)
	assert.Empty(t, out)
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "sorted", "out.txt.gz")
	require.NoError(t, os.WriteFile(in, []byte("-7\n2147483647\n0\n-2147483648\n"), 0o644))

	code, _, errOut := runCLI(t, "", "-in", in, "-out", out, "-timing", "2")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, errOut, "Read 4 numbers, sorting with 2 workers")
	assert.Contains(t, errOut, "=== TIMING RESULTS ===")
	assert.Contains(t, errOut, "Elements:        4")
	assert.Contains(t, errOut, "Workers:         2")

	// Read the compressed result back through the CLI.
	code, stdout, errOut := runCLI(t, "", "-in", out, "1")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Equal(t, "-2147483648\n-7\n0\n2147483647\n", stdout)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "psort.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_workers: 3\nformat: json\n"), 0o644))

	code, out, errOut := runCLI(t, "[3, 1, 2]", "-config", cfgPath)
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Equal(t, "[1,2,3]\n", out)

	// Flags win over the file.
	code, out, errOut = runCLI(t, "3\n1\n", "-config", cfgPath, "-format", "text")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Equal(t, "1\n3\n", out)
}

func TestRun_InvalidArgs(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"Missing", nil, "<max_workers> is required"},
		{"NotANumber", []string{"four"}, "must be an integer"},
		{"Zero", []string{"0"}, "max workers must be positive"},
		{"Negative", []string{"-1"}, "max workers must be positive"},
		{"NegativeAfterSeparator", []string{"--", "-2"}, "max workers must be positive"},
		{"TooMany", []string{"1", "2"}, "single <max_workers>"},
		{"UnknownFlag", []string{"-bogus", "1"}, "flag provided but not defined"},
		{"UnknownFormat", []string{"-format", "csv", "1"}, "csv"},
		{"BadMemoryLimit", []string{"-memory-limit", "lots", "1"}, "-memory-limit"},
		{"BadLocation", []string{"-in", "ftp://host/x", "1"}, "unsupported scheme"},
		{"MissingConfig", []string{"-config", "/does/not/exist.yaml", "1"}, "read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, "", tt.args...)
			assert.Equal(t, ExitInvalidArgs, code)
			assert.Contains(t, errOut, tt.errMsg)
		})
	}
}

func TestRun_OptionsAfterWorkers(t *testing.T) {
	code, out, errOut := runCLI(t, "[3, -1, 2]", "4", "-format", "json", "-timing")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Equal(t, "[-1,2,3]\n", out)
	assert.Contains(t, errOut, "Workers:         4")

	// A negative option value is not mistaken for max_workers.
	code, out, errOut = runCLI(t, "2\n1\n", "-spawn-cutoff", "-1", "2")
	assert.Equal(t, ExitInvalidArgs, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "spawn_cutoff")
}

func TestSplitArgs(t *testing.T) {
	fs := flag.NewFlagSet("psort", flag.ContinueOnError)
	fs.String("format", "", "")
	fs.Bool("timing", false, "")

	flags, positional := splitArgs(fs, []string{"-timing", "8", "-format", "bin", "-format=json", "--", "-x"})
	assert.Equal(t, []string{"-timing", "-format", "bin", "-format=json"}, flags)
	assert.Equal(t, []string{"8", "-x"}, positional)

	flags, positional = splitArgs(fs, []string{"-3", "--timing"})
	assert.Equal(t, []string{"--timing"}, flags)
	assert.Equal(t, []string{"-3"}, positional)
}

func TestRun_Help(t *testing.T) {
	code, _, errOut := runCLI(t, "", "-h")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, errOut, "Usage: psort")
}

func TestRun_InputErrors(t *testing.T) {
	code, out, errOut := runCLI(t, "1\nx\n", "2")
	assert.Equal(t, ExitInputError, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "line 2")

	code, _, _ = runCLI(t, "", "-in", filepath.Join(t.TempDir(), "missing.txt"), "2")
	assert.Equal(t, ExitInputError, code)
}

func TestRun_MemoryLimit(t *testing.T) {
	var input strings.Builder
	for i := range 10_000 {
		input.WriteString(strings.Repeat("9", 1+i%5))
		input.WriteByte('\n')
	}

	code, out, errOut := runCLI(t, input.String(), "-memory-limit", "1KiB", "2")
	assert.Equal(t, ExitResourceLimit, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "memory limit exceeded")
}

func TestRun_OutputError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	// A regular file cannot be used as a directory.
	code, _, errOut := runCLI(t, "2\n1\n", "-out", filepath.Join(blocker, "out.txt"), "1")
	assert.Equal(t, ExitOutputError, code)
	assert.Contains(t, errOut, "write")
}
