package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// SyntaxError reports a line of a text stream that is not a valid int32.
type SyntaxError struct {
	Line int
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("codec: line %d: invalid integer %q: %v", e.Line, e.Text, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Text encodes one base-10 integer per line. Surrounding whitespace and blank
// lines are ignored on decode.
type Text struct{}

// Name returns "text".
func (Text) Name() string { return "text" }

// Decode implements Codec.
func (Text) Decode(r io.Reader, fn func(int32) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)

	line := 0
	for sc.Scan() {
		line++

		field := bytes.TrimSpace(sc.Bytes())
		if len(field) == 0 {
			continue
		}

		v, err := strconv.ParseInt(string(field), 10, 32)
		if err != nil {
			return &SyntaxError{Line: line, Text: string(field), Err: err}
		}

		if err := fn(int32(v)); err != nil {
			return err
		}
	}

	return sc.Err()
}

// Encode implements Codec.
func (Text) Encode(w io.Writer, values []int32) error {
	bw := bufio.NewWriterSize(w, 64<<10)

	var buf [16]byte
	for _, v := range values {
		b := strconv.AppendInt(buf[:0], int64(v), 10)
		b = append(b, '\n')
		if _, err := bw.Write(b); err != nil {
			return err
		}
	}

	return bw.Flush()
}
