package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/psort"
	"github.com/hupe1980/psort/blobstore/minio"
	"github.com/hupe1980/psort/blobstore/s3"
	"github.com/hupe1980/psort/codec"
	"github.com/hupe1980/psort/internal/config"
	"github.com/hupe1980/psort/internal/stream"
	"github.com/hupe1980/psort/resource"
)

// timings collects the durations of one run.
type timings struct {
	read  time.Duration
	sort  time.Duration
	write time.Duration
	total time.Duration
}

func sortStream(ctx context.Context, cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) int {
	start := time.Now()

	src, err := stream.ParseLocation(cfg.Input)
	if err != nil {
		fmt.Fprintf(stderr, "Error: input: %v\n", err)
		return ExitInvalidArgs
	}
	dst, err := stream.ParseLocation(cfg.Output)
	if err != nil {
		fmt.Fprintf(stderr, "Error: output: %v\n", err)
		return ExitInvalidArgs
	}

	c, err := codec.ByName(cfg.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}
	logger = logger.WithRunID(uuid.NewString()).WithWorkers(cfg.MaxWorkers)

	ctrl := resource.NewController(resource.Config{
		MemoryLimitBytes:   cfg.MemoryLimit,
		IOLimitBytesPerSec: cfg.IOLimit,
	})
	resolver := newResolver(cfg, stdin, stdout)

	var t timings

	readStart := time.Now()
	values, err := stream.ReadAll(ctx, resolver, src, stream.ReadOptions{
		Codec:       c,
		Compression: cfg.Compression,
		Controller:  ctrl,
	})
	t.read = time.Since(readStart)
	logger.LogRead(ctx, src.String(), len(values), t.read, err)
	if err != nil {
		fmt.Fprintf(stderr, "Error: read %s: %v\n", src, err)
		if errors.Is(err, resource.ErrMemoryLimitExceeded) {
			return ExitResourceLimit
		}
		return ExitInputError
	}
	defer stream.Release(ctrl, values)

	if cfg.Timing {
		fmt.Fprintf(stderr, "Read %d numbers, sorting with %d workers\n", len(values), cfg.MaxWorkers)
	}

	sortStart := time.Now()
	stats, err := psort.SortWithStats(values, cfg.MaxWorkers,
		psort.WithThreshold(cfg.Threshold),
		psort.WithSpawnCutoff(cfg.SpawnCutoff),
		psort.WithLogger(logger),
	)
	t.sort = time.Since(sortStart)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var wpe *psort.WorkerPanicError
		if errors.As(err, &wpe) {
			logger.Debug("worker stack", "stack", string(wpe.Stack))
			return ExitSortFailed
		}
		return ExitGeneralError
	}
	logger.Info("sorted",
		"count", len(values),
		"partitions", stats.Partitions,
		"spawned", stats.Spawned,
		"peak_workers", stats.PeakWorkers,
	)

	writeStart := time.Now()
	err = stream.WriteAll(ctx, resolver, dst, values, stream.WriteOptions{
		Codec:       c,
		Compression: cfg.Compression,
		Controller:  ctrl,
	})
	t.write = time.Since(writeStart)
	logger.LogWrite(ctx, dst.String(), len(values), t.write, err)
	if err != nil {
		fmt.Fprintf(stderr, "Error: write %s: %v\n", dst, err)
		return ExitOutputError
	}

	t.total = time.Since(start)
	if cfg.Timing {
		printTimings(stderr, t, len(values), cfg.MaxWorkers)
	}

	return ExitSuccess
}

func newLogger(cfg config.Config, w io.Writer) (*psort.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Log.Format, "json") {
		return psort.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return psort.NewLogger(slog.NewTextHandler(w, opts)), nil
}

func newResolver(cfg config.Config, stdin io.Reader, stdout io.Writer) *stream.Resolver {
	var s3Opts []s3.Option
	if cfg.S3.Region != "" {
		s3Opts = append(s3Opts, s3.WithRegion(cfg.S3.Region))
	}
	if cfg.S3.Endpoint != "" {
		s3Opts = append(s3Opts, s3.WithEndpoint(cfg.S3.Endpoint))
	}
	if cfg.S3.Prefix != "" {
		s3Opts = append(s3Opts, s3.WithPrefix(cfg.S3.Prefix))
	}

	return &stream.Resolver{
		Stdin:     stdin,
		Stdout:    stdout,
		S3Options: s3Opts,
		MinIO: minio.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Secure:    cfg.MinIO.Secure,
			Region:    cfg.MinIO.Region,
		},
	}
}

func printTimings(w io.Writer, t timings, n, workers int) {
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

	sortMS := ms(t.sort)
	fmt.Fprintln(w, "=== TIMING RESULTS ===")
	fmt.Fprintf(w, "Sorting time:    %.2f ms (%.3f seconds)\n", sortMS, t.sort.Seconds())
	fmt.Fprintf(w, "I/O time:        %.2f ms (reading + writing)\n", ms(t.read+t.write))
	fmt.Fprintf(w, "Total time:      %.2f ms (%.3f seconds)\n", ms(t.total), t.total.Seconds())
	fmt.Fprintf(w, "Elements:        %d\n", n)
	fmt.Fprintf(w, "Workers:         %d\n", workers)
	if sortMS > 0 {
		fmt.Fprintf(w, "Performance:     %.0f elements/ms\n", float64(n)/sortMS)
	}
}
