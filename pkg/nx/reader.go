package nx

import (
	"encoding/binary"
	"fmt"
	"io"
)

// reader is a little-endian reader over a seekable stream that refuses to
// read past size.
type reader struct {
	r    io.ReadSeeker
	off  int64
	size int64
}

func newReader(rs io.ReadSeeker, size int64) *reader {
	return &reader{r: rs, size: size}
}

func (r *reader) readN(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid read length %d", n)
	}
	buf := make([]byte, n)
	if err := r.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// readFull fills b from the current offset.
func (r *reader) readFull(b []byte) error {
	if r.off+int64(len(b)) > r.size {
		return io.ErrUnexpectedEOF
	}
	if _, err := io.ReadFull(r.r, b); err != nil {
		return unexpected(err)
	}
	r.off += int64(len(b))
	return nil
}

func (r *reader) readU16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) readU64() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// seek moves to an absolute offset within the stream.
func (r *reader) seek(off uint64) error {
	if off > uint64(r.size) {
		return io.ErrUnexpectedEOF
	}
	if _, err := r.r.Seek(int64(off), io.SeekStart); err != nil {
		return err
	}
	r.off = int64(off)
	return nil
}

// tableFits reports whether count entries of width bytes starting at off lie
// within the stream.
func (r *reader) tableFits(off uint64, count uint32, width uint64) bool {
	size := uint64(r.size)
	if off > size {
		return false
	}
	return uint64(count)*width <= size-off
}
