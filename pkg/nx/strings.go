package nx

import (
	"fmt"
	"unicode/utf8"
)

// stringTable holds the decoded strings in id order.
type stringTable []string

func (t stringTable) lookup(id uint32) (string, bool) {
	if uint64(id) >= uint64(len(t)) {
		return "", false
	}
	return t[id], true
}

// readStringTable decodes count strings through the offset table at off.
// Offsets are not ordered by id, so every entry is a seek away and back.
func readStringTable(r *reader, off uint64, count uint32) (stringTable, error) {
	if !r.tableFits(off, count, offsetSize) {
		return nil, fmt.Errorf("%w: string table [%d, +%d*%d) exceeds file size %d",
			ErrOutOfBounds, off, count, offsetSize, r.size)
	}
	if err := r.seek(off); err != nil {
		return nil, ioErr("seek string table", err)
	}

	table := make(stringTable, count)
	for i := range count {
		strOff, err := r.readU64()
		if err != nil {
			return nil, ioErr(fmt.Sprintf("read string offset %d", i), err)
		}
		back := r.off

		if err := r.seek(strOff); err != nil {
			return nil, ioErr(fmt.Sprintf("seek string %d", i), err)
		}
		n, err := r.readU16()
		if err != nil {
			return nil, ioErr(fmt.Sprintf("read string %d length", i), err)
		}
		b, err := r.readN(int(n))
		if err != nil {
			return nil, ioErr(fmt.Sprintf("read string %d", i), err)
		}
		if !utf8.Valid(b) {
			return nil, fmt.Errorf("%w: string %d at offset %d", ErrInvalidUTF8, i, strOff)
		}
		table[i] = string(b)

		if err := r.seek(uint64(back)); err != nil {
			return nil, ioErr(fmt.Sprintf("seek back after string %d", i), err)
		}
	}
	return table, nil
}
