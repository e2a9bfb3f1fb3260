// Package codec encodes and decodes sequences of 32-bit integers.
//
// A codec only defines the byte layout of the values. Compression is applied
// around it (see Compression), and where the bytes live is the business of
// the blobstore package.
package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnknownCodec is returned by ByName for an unsupported name.
var ErrUnknownCodec = errors.New("codec: unknown format")

// Codec encodes/decodes int32 sequences.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Decode reads values from r until EOF and calls fn for each one in
	// order. A non-nil error from fn stops decoding and is returned as is.
	Decode(r io.Reader, fn func(int32) error) error

	// Encode writes values to w.
	Encode(w io.Writer, values []int32) error

	// Name returns the stable name of the codec.
	Name() string
}

// Default is the codec used when no format is configured.
var Default Codec = Text{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "text", "txt":
		return Text{}, nil
	case "binary", "bin", "raw":
		return Binary{}, nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// DecodeAll decodes every value from r into a new slice.
func DecodeAll(c Codec, r io.Reader) ([]int32, error) {
	var out []int32
	err := c.Decode(r, func(v int32) error {
		out = append(out, v)
		return nil
	})
	return out, err
}
