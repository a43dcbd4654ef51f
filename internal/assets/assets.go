// Package assets fetches raw bitmap and audio payloads from a container.
//
// The nx reader only exposes asset ids and their dimensions or lengths.
// Source resolves those ids through the container's bitmap and audio offset
// tables and returns the stored bytes unchanged; decoding pixels or samples
// is left to the caller.
package assets

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/samcharles93/nxpack/pkg/nx"
)

// Loader returns the stored bytes for asset references found in node values.
// Header reports the table counts so callers can tell a missing asset from
// a corrupt one.
type Loader interface {
	Header() nx.Header
	Bitmap(ref nx.BitmapRef) ([]byte, error)
	Audio(ref nx.AudioRef) ([]byte, error)
}

// Source reads assets on demand from a random-access container.
// It is safe for concurrent use when the underlying ReaderAt is.
type Source struct {
	ra     io.ReaderAt
	size   int64
	header nx.Header
	closer io.Closer
}

// Open opens the container at path for asset reads.
// The returned source must be closed to release the file.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", nx.ErrIO, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: stat: %w", nx.ErrIO, err)
	}
	src, err := NewSource(f, st.Size())
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

// NewSource reads the container header from ra and returns a Source over it.
func NewSource(ra io.ReaderAt, size int64) (*Source, error) {
	hdr, err := nx.ReadHeader(io.NewSectionReader(ra, 0, size))
	if err != nil {
		return nil, err
	}
	return &Source{ra: ra, size: size, header: hdr}, nil
}

// Close releases the file opened by Open. It is a no-op for NewSource.
func (s *Source) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// Header returns the container header read when the source was created.
func (s *Source) Header() nx.Header { return s.header }

// Bitmap returns the stored bitmap bytes for ref. Bitmaps are stored with a
// u32 length prefix, which is not part of the result.
func (s *Source) Bitmap(ref nx.BitmapRef) ([]byte, error) {
	off, err := s.tableEntry("bitmap", s.header.BitmapOffset, s.header.BitmapCount, ref.ID)
	if err != nil {
		return nil, err
	}
	var lenBuf [4]byte
	if err := s.readAt(lenBuf[:], off); err != nil {
		return nil, fmt.Errorf("%w: bitmap %d length: %w", nx.ErrIO, ref.ID, err)
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	return s.payload("bitmap", ref.ID, off+4, uint64(n))
}

// Audio returns ref.Length bytes of audio data for ref.
func (s *Source) Audio(ref nx.AudioRef) ([]byte, error) {
	off, err := s.tableEntry("audio", s.header.AudioOffset, s.header.AudioCount, ref.ID)
	if err != nil {
		return nil, err
	}
	return s.payload("audio", ref.ID, off, uint64(ref.Length))
}

// tableEntry reads the absolute offset stored for id in an offset table.
func (s *Source) tableEntry(kind string, table uint64, count, id uint32) (uint64, error) {
	if id >= count {
		return 0, fmt.Errorf("%w: %s %d of %d", nx.ErrOutOfBounds, kind, id, count)
	}
	size := uint64(s.size)
	if table > size || uint64(id)*8 > size-table {
		return 0, fmt.Errorf("%w: %s table entry %d at %d+%d exceeds file size %d",
			nx.ErrOutOfBounds, kind, id, table, uint64(id)*8, size)
	}
	var buf [8]byte
	if err := s.readAt(buf[:], table+uint64(id)*8); err != nil {
		return 0, fmt.Errorf("%w: %s %d offset: %w", nx.ErrIO, kind, id, err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (s *Source) payload(kind string, id uint32, off, n uint64) ([]byte, error) {
	size := uint64(s.size)
	if off > size || n > size-off {
		return nil, fmt.Errorf("%w: %s %d data [%d, +%d) exceeds file size %d",
			nx.ErrOutOfBounds, kind, id, off, n, size)
	}
	out := make([]byte, n)
	if err := s.readAt(out, off); err != nil {
		return nil, fmt.Errorf("%w: %s %d data: %w", nx.ErrIO, kind, id, err)
	}
	return out, nil
}

func (s *Source) readAt(b []byte, off uint64) error {
	if off > uint64(s.size) || uint64(len(b)) > uint64(s.size)-off {
		return io.ErrUnexpectedEOF
	}
	n, err := s.ra.ReadAt(b, int64(off))
	if n == len(b) {
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
