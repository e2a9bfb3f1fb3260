package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrTruncated is returned when a binary stream ends inside a value.
var ErrTruncated = errors.New("codec: truncated binary stream")

// binaryChunk is the number of values converted per buffered write.
const binaryChunk = 4096

// Binary encodes values as consecutive 4-byte little-endian two's complement
// integers without any framing.
type Binary struct{}

// Name returns "binary".
func (Binary) Name() string { return "binary" }

// Decode implements Codec.
func (Binary) Decode(r io.Reader, fn func(int32) error) error {
	br := bufio.NewReaderSize(r, 64<<10)

	var (
		buf [4]byte
		off int64
	)
	for {
		n, err := io.ReadFull(br, buf[:])
		switch {
		case err == io.EOF:
			return nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return fmt.Errorf("%w: %d trailing bytes at offset %d", ErrTruncated, n, off)
		case err != nil:
			return err
		}

		if err := fn(int32(binary.LittleEndian.Uint32(buf[:]))); err != nil {
			return err
		}
		off += 4
	}
}

// Encode implements Codec.
func (Binary) Encode(w io.Writer, values []int32) error {
	buf := make([]byte, 0, 4*min(len(values), binaryChunk))

	for len(values) > 0 {
		n := min(len(values), binaryChunk)
		buf = buf[:0]
		for _, v := range values[:n] {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
		values = values[n:]
	}

	return nil
}
