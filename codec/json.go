package codec

import (
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
)

// JSON encodes the whole sequence as a single JSON array of numbers. It is
// backed by github.com/goccy/go-json.
type JSON struct{}

// Name returns "json".
func (JSON) Name() string { return "json" }

// ErrNotArray is returned when JSON input is not a single array.
var ErrNotArray = errors.New("codec: json input is not an array")

// Decode implements Codec. Values are streamed to fn one at a time, so the
// array is never held in memory as a whole. Empty input decodes to no values.
func (JSON) Decode(r io.Reader, fn func(int32) error) error {
	dec := gojson.NewDecoder(r)

	tok, err := dec.Token()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if d, ok := tok.(gojson.Delim); !ok || d != '[' {
		return fmt.Errorf("%w: got %v", ErrNotArray, tok)
	}

	for index := 0; dec.More(); index++ {
		var v int32
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("codec: json element %d: %w", index, err)
		}
		if err := fn(v); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("codec: json closing bracket: %w", err)
	}
	return nil
}

// Encode implements Codec. A nil slice is written as an empty array.
func (JSON) Encode(w io.Writer, values []int32) error {
	if values == nil {
		values = []int32{}
	}
	return gojson.NewEncoder(w).Encode(values)
}
