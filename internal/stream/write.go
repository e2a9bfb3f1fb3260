package stream

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/psort/blobstore"
	"github.com/hupe1980/psort/codec"
	"github.com/hupe1980/psort/resource"
)

// WriteOptions configures WriteAll.
type WriteOptions struct {
	// Codec encodes values. Defaults to codec.Default.
	Codec codec.Codec
	// Compression is a codec.CompressionByName name or CompressionAuto.
	// Empty means CompressionAuto, which only looks at the extension.
	Compression string
	// Controller throttles IO. May be nil.
	Controller *resource.Controller
}

// WriteAll writes values to loc. Object and file outputs become visible
// only when every value has been written.
func WriteAll(ctx context.Context, r *Resolver, loc Location, values []int32, opts WriteOptions) error {
	c := opts.Codec
	if c == nil {
		c = codec.Default
	}

	comp := codec.DetectCompression(loc.Name())
	if opts.Compression != "" && opts.Compression != CompressionAuto {
		var err error
		if comp, err = codec.CompressionByName(opts.Compression); err != nil {
			return err
		}
	}

	if loc.Scheme == SchemeStdio {
		return encode(ctx, r.stdout(), c, comp, values, opts.Controller)
	}

	store, name, err := r.Store(ctx, loc)
	if err != nil {
		return err
	}

	wb, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create %s: %w", loc, err)
	}

	if err := encode(ctx, wb, c, comp, values, opts.Controller); err != nil {
		_ = blobstore.Abort(wb)
		return fmt.Errorf("write %s: %w", loc, err)
	}
	if err := wb.Sync(); err != nil {
		_ = blobstore.Abort(wb)
		return fmt.Errorf("sync %s: %w", loc, err)
	}
	if err := wb.Close(); err != nil {
		return fmt.Errorf("commit %s: %w", loc, err)
	}
	return nil
}

func encode(ctx context.Context, w io.Writer, c codec.Codec, comp codec.Compression, values []int32, ctrl *resource.Controller) error {
	cw, err := codec.NewWriter(resource.NewRateLimitedWriter(ctx, w, ctrl), comp)
	if err != nil {
		return fmt.Errorf("%s compressor: %w", comp, err)
	}

	if err := c.Encode(cw, values); err != nil {
		_ = cw.Close()
		return err
	}
	return cw.Close()
}
