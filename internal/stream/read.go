package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/psort/blobstore"
	"github.com/hupe1980/psort/codec"
	"github.com/hupe1980/psort/resource"
)

const (
	elemSize = 4

	// minBuffer is the initial element capacity when the size is unknown.
	minBuffer = 1024

	// cancelCheckEvery is how many decoded values pass between context checks.
	cancelCheckEvery = 1 << 16
)

// CompressionAuto selects compression from the file extension. Standard
// input has no name, so its compression is detected from magic bytes.
const CompressionAuto = "auto"

// ReadOptions configures ReadAll.
type ReadOptions struct {
	// Codec decodes values. Defaults to codec.Default.
	Codec codec.Codec
	// Compression is a codec.CompressionByName name or CompressionAuto.
	// Empty means CompressionAuto.
	Compression string
	// Controller throttles IO and accounts the value buffer. May be nil.
	Controller *resource.Controller
}

// ReadAll reads every value stored at loc.
//
// The returned slice is charged to opts.Controller; call Release once it is
// no longer needed. On error nothing stays charged.
func ReadAll(ctx context.Context, r *Resolver, loc Location, opts ReadOptions) ([]int32, error) {
	c := opts.Codec
	if c == nil {
		c = codec.Default
	}

	src, sizeHint, closeFn, err := openSource(ctx, r, loc)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	br := bufio.NewReaderSize(resource.NewRateLimitedReader(ctx, src, opts.Controller), 64<<10)

	comp, err := readCompression(opts.Compression, loc, br)
	if err != nil {
		return nil, err
	}
	if comp != codec.CompressionNone {
		sizeHint = 0
	}

	dr, err := codec.NewReader(br, comp)
	if err != nil {
		return nil, fmt.Errorf("%s decompressor: %w", comp, err)
	}
	defer dr.Close()

	buf := &buffer{ctrl: opts.Controller}
	if _, ok := c.(codec.Binary); ok && sizeHint > 0 {
		if err := buf.grow(int(sizeHint / elemSize)); err != nil {
			return nil, err
		}
	}

	err = c.Decode(dr, func(v int32) error {
		if len(buf.values)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return buf.append(v)
	})
	if err != nil {
		buf.release()
		return nil, fmt.Errorf("decode %s: %w", loc, err)
	}

	return buf.values, nil
}

// Release returns the memory charged for values read by ReadAll.
func Release(ctrl *resource.Controller, values []int32) {
	ctrl.ReleaseMemory(int64(cap(values)) * elemSize)
}

func openSource(ctx context.Context, r *Resolver, loc Location) (io.Reader, int64, func(), error) {
	if loc.Scheme == SchemeStdio {
		return r.stdin(), 0, func() {}, nil
	}

	store, name, err := r.Store(ctx, loc)
	if err != nil {
		return nil, 0, nil, err
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, 0, nil, fmt.Errorf("open %s: %w", loc, blobstore.ErrNotFound)
		}
		return nil, 0, nil, fmt.Errorf("open %s: %w", loc, err)
	}

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		_ = blob.Close()
		return nil, 0, nil, fmt.Errorf("read %s: %w", loc, err)
	}

	return rc, blob.Size(), func() {
		_ = rc.Close()
		_ = blob.Close()
	}, nil
}

func readCompression(name string, loc Location, br *bufio.Reader) (codec.Compression, error) {
	if name != "" && name != CompressionAuto {
		return codec.CompressionByName(name)
	}
	if loc.Scheme != SchemeStdio {
		return codec.DetectCompression(loc.Name()), nil
	}
	return codec.Sniff(br), nil
}

// buffer grows a value slice under the memory controller.
type buffer struct {
	ctrl   *resource.Controller
	values []int32
}

func (b *buffer) grow(n int) error {
	if n <= cap(b.values) {
		return nil
	}
	if err := b.ctrl.AcquireMemory(int64(n-cap(b.values)) * elemSize); err != nil {
		return fmt.Errorf("buffer for %d values: %w", n, err)
	}

	next := make([]int32, len(b.values), n)
	copy(next, b.values)
	b.values = next
	return nil
}

func (b *buffer) append(v int32) error {
	if len(b.values) == cap(b.values) {
		if err := b.grow(max(minBuffer, 2*cap(b.values))); err != nil {
			return err
		}
	}
	b.values = append(b.values, v)
	return nil
}

func (b *buffer) release() {
	Release(b.ctrl, b.values)
	b.values = nil
}
