package nx

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// File is a fully loaded container. It holds no OS resources and is safe for
// concurrent use by multiple readers.
type File struct {
	header  Header
	strings stringTable
	nodes   []record
}

// Open loads the container at path.
// The file is mapped read-only where mmap is available and read through the
// file handle otherwise. Either way everything is copied out and the file is
// closed before Open returns.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioErr("open", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, ioErr("stat", err)
	}
	size64 := stat.Size()
	if size64 < 0 || size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: file size %d", ErrOutOfBounds, size64)
	}

	data, unmap, err := mapFile(f, int(size64))
	if err == nil {
		defer func() { _ = unmap() }()
		return load(bytes.NewReader(data), size64)
	}

	// Fallback path that does not require mmap support.
	return load(f, size64)
}

// Load reads a container from rs, which must be positioned at offset 0.
func Load(rs io.ReadSeeker) (*File, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, ioErr("seek end", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, ioErr("seek start", err)
	}
	return load(rs, size)
}

func load(rs io.ReadSeeker, size int64) (*File, error) {
	hdr, err := ReadHeader(rs)
	if err != nil {
		return nil, err
	}
	if hdr.NodeCount == 0 {
		return nil, fmt.Errorf("%w: container has no root node", ErrOutOfBounds)
	}

	r := newReader(rs, size)
	r.off = HeaderSize

	strs, err := readStringTable(r, hdr.StringOffset, hdr.StringCount)
	if err != nil {
		return nil, err
	}
	nodes, err := readNodeTable(r, hdr.NodeOffset, hdr.NodeCount, strs)
	if err != nil {
		return nil, err
	}

	return &File{
		header:  hdr,
		strings: strs,
		nodes:   nodes,
	}, nil
}

// Header returns a copy of the container header.
func (f *File) Header() Header { return f.header }

// Len is the number of nodes in the container.
func (f *File) Len() int { return len(f.nodes) }

// StringCount is the number of entries in the string table.
func (f *File) StringCount() int { return len(f.strings) }

// StringAt returns the string with the given id.
func (f *File) StringAt(id uint32) (string, bool) {
	return f.strings.lookup(id)
}

// Strings calls fn for every string in id order until fn returns false.
func (f *File) Strings(fn func(id uint32, s string) bool) {
	for i, s := range f.strings {
		if !fn(uint32(i), s) {
			return
		}
	}
}
