package nx

import (
	"encoding/binary"
	"io"
)

// Header is the fixed 52-byte block at the start of every container.
// Each table is described by an entry count and an absolute file offset.
type Header struct {
	Magic        [4]byte
	NodeCount    uint32
	NodeOffset   uint64
	StringCount  uint32
	StringOffset uint64
	BitmapCount  uint32
	BitmapOffset uint64
	AudioCount   uint32
	AudioOffset  uint64
}

// Valid reports whether the header carries the PKG4 magic.
func (h Header) Valid() bool {
	return string(h.Magic[:]) == Magic
}

// ReadHeader reads the fixed header from the start of r.
// The magic is read and checked on its own so that nothing past it is
// consumed from a stream that is not a container.
func ReadHeader(r io.Reader) (Header, error) {
	var raw [HeaderSize]byte
	if _, err := io.ReadFull(r, raw[:4]); err != nil {
		return Header{}, ioErr("read magic", unexpected(err))
	}
	var magic Header
	copy(magic.Magic[:], raw[:4])
	if !magic.Valid() {
		return Header{}, ErrBadMagic
	}
	if _, err := io.ReadFull(r, raw[4:]); err != nil {
		return Header{}, ioErr("read header", unexpected(err))
	}
	return decodeHeader(&raw), nil
}

func decodeHeader(b *[HeaderSize]byte) Header {
	var h Header
	copy(h.Magic[:], b[0:4])
	h.NodeCount = binary.LittleEndian.Uint32(b[4:8])
	h.NodeOffset = binary.LittleEndian.Uint64(b[8:16])
	h.StringCount = binary.LittleEndian.Uint32(b[16:20])
	h.StringOffset = binary.LittleEndian.Uint64(b[20:28])
	h.BitmapCount = binary.LittleEndian.Uint32(b[28:32])
	h.BitmapOffset = binary.LittleEndian.Uint64(b[32:40])
	h.AudioCount = binary.LittleEndian.Uint32(b[40:44])
	h.AudioOffset = binary.LittleEndian.Uint64(b[44:52])
	return h
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
