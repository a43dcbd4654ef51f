// Package nxtest builds PKG4 containers for tests.
package nxtest

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/nxpack/pkg/nx"
)

// Entry describes one node of a container to build.
// Children are laid out contiguously in breadth-first order.
type Entry struct {
	Name     string
	Tag      uint16
	Payload  [8]byte
	Text     string // interned and referenced from the payload when Tag is text
	Children []Entry
}

func Dir(name string, children ...Entry) Entry {
	return Entry{Name: name, Children: children}
}

func Int(name string, v int64) Entry {
	e := Entry{Name: name, Tag: uint16(nx.TypeInt64)}
	binary.LittleEndian.PutUint64(e.Payload[:], uint64(v))
	return e
}

func Double(name string, v float64) Entry {
	e := Entry{Name: name, Tag: uint16(nx.TypeDouble)}
	binary.LittleEndian.PutUint64(e.Payload[:], math.Float64bits(v))
	return e
}

func Text(name, v string) Entry {
	return Entry{Name: name, Tag: uint16(nx.TypeText), Text: v}
}

func Vector(name string, x, y int32) Entry {
	e := Entry{Name: name, Tag: uint16(nx.TypeVector)}
	binary.LittleEndian.PutUint32(e.Payload[0:4], uint32(x))
	binary.LittleEndian.PutUint32(e.Payload[4:8], uint32(y))
	return e
}

func Bitmap(name string, id uint32, w, h uint16) Entry {
	e := Entry{Name: name, Tag: uint16(nx.TypeBitmap)}
	binary.LittleEndian.PutUint32(e.Payload[0:4], id)
	binary.LittleEndian.PutUint16(e.Payload[4:6], w)
	binary.LittleEndian.PutUint16(e.Payload[6:8], h)
	return e
}

func Audio(name string, id, length uint32) Entry {
	e := Entry{Name: name, Tag: uint16(nx.TypeAudio)}
	binary.LittleEndian.PutUint32(e.Payload[0:4], id)
	binary.LittleEndian.PutUint32(e.Payload[4:8], length)
	return e
}

// Options adds asset tables to a built container.
type Options struct {
	Bitmaps [][]byte // stored as u32 length + bytes
	Audio   [][]byte // stored as raw bytes
	Strings []string // extra strings appended after the ones the tree uses
}

// Layout reports where Build placed each table.
type Layout struct {
	Header        nx.Header
	StringOffsets []uint64
	Nodes         []Entry // flattened, in node index order
}

type flatNode struct {
	entry      Entry
	firstChild uint32
	childCount uint16
}

// Build encodes root and its subtree as a container.
func Build(tb testing.TB, root Entry, opts Options) []byte {
	tb.Helper()
	data, _ := BuildLayout(tb, root, opts)
	return data
}

// BuildLayout is Build that also reports the layout it chose.
func BuildLayout(tb testing.TB, root Entry, opts Options) ([]byte, Layout) {
	tb.Helper()

	nodes := []flatNode{{entry: root}}
	for i := 0; i < len(nodes); i++ {
		children := nodes[i].entry.Children
		if len(children) > math.MaxUint16 {
			tb.Fatalf("node %q has %d children", nodes[i].entry.Name, len(children))
		}
		if len(children) == 0 {
			continue
		}
		nodes[i].firstChild = uint32(len(nodes))
		nodes[i].childCount = uint16(len(children))
		for _, c := range children {
			nodes = append(nodes, flatNode{entry: c})
		}
	}

	var strs []string
	ids := map[string]uint32{}
	intern := func(s string) uint32 {
		if id, ok := ids[s]; ok {
			return id
		}
		id := uint32(len(strs))
		strs = append(strs, s)
		ids[s] = id
		return id
	}
	for i := range nodes {
		intern(nodes[i].entry.Name)
		if nodes[i].entry.Tag == uint16(nx.TypeText) {
			binary.LittleEndian.PutUint32(nodes[i].entry.Payload[0:4], intern(nodes[i].entry.Text))
		}
	}
	for _, s := range opts.Strings {
		intern(s)
	}

	out := make([]byte, nx.HeaderSize)
	hdr := nx.Header{
		NodeCount:   uint32(len(nodes)),
		StringCount: uint32(len(strs)),
		BitmapCount: uint32(len(opts.Bitmaps)),
		AudioCount:  uint32(len(opts.Audio)),
	}
	copy(hdr.Magic[:], nx.Magic)

	// Strings are written in reverse id order so offsets do not increase with id.
	strOffsets := make([]uint64, len(strs))
	for i := len(strs) - 1; i >= 0; i-- {
		strOffsets[i] = uint64(len(out))
		out = binary.LittleEndian.AppendUint16(out, uint16(len(strs[i])))
		out = append(out, strs[i]...)
	}
	hdr.StringOffset = uint64(len(out))
	for _, off := range strOffsets {
		out = binary.LittleEndian.AppendUint64(out, off)
	}

	bmpOffsets := make([]uint64, len(opts.Bitmaps))
	for i, b := range opts.Bitmaps {
		bmpOffsets[i] = uint64(len(out))
		out = binary.LittleEndian.AppendUint32(out, uint32(len(b)))
		out = append(out, b...)
	}
	hdr.BitmapOffset = uint64(len(out))
	for _, off := range bmpOffsets {
		out = binary.LittleEndian.AppendUint64(out, off)
	}

	audOffsets := make([]uint64, len(opts.Audio))
	for i, a := range opts.Audio {
		audOffsets[i] = uint64(len(out))
		out = append(out, a...)
	}
	hdr.AudioOffset = uint64(len(out))
	for _, off := range audOffsets {
		out = binary.LittleEndian.AppendUint64(out, off)
	}

	hdr.NodeOffset = uint64(len(out))
	flat := make([]Entry, len(nodes))
	for i, n := range nodes {
		out = binary.LittleEndian.AppendUint32(out, ids[n.entry.Name])
		out = binary.LittleEndian.AppendUint32(out, n.firstChild)
		out = binary.LittleEndian.AppendUint16(out, n.childCount)
		out = binary.LittleEndian.AppendUint16(out, n.entry.Tag)
		out = append(out, n.entry.Payload[:]...)
		flat[i] = n.entry
	}

	PutHeader(out, hdr)
	return out, Layout{Header: hdr, StringOffsets: strOffsets, Nodes: flat}
}

// PutHeader encodes h into the first HeaderSize bytes of b.
func PutHeader(b []byte, h nx.Header) {
	copy(b[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(b[4:8], h.NodeCount)
	binary.LittleEndian.PutUint64(b[8:16], h.NodeOffset)
	binary.LittleEndian.PutUint32(b[16:20], h.StringCount)
	binary.LittleEndian.PutUint64(b[20:28], h.StringOffset)
	binary.LittleEndian.PutUint32(b[28:32], h.BitmapCount)
	binary.LittleEndian.PutUint64(b[32:40], h.BitmapOffset)
	binary.LittleEndian.PutUint32(b[40:44], h.AudioCount)
	binary.LittleEndian.PutUint64(b[44:52], h.AudioOffset)
}

// PatchChildren overwrites the child span of node idx in an encoded container.
func PatchChildren(b []byte, h nx.Header, idx uint32, first uint32, count uint16) {
	rec := b[h.NodeOffset+uint64(idx)*nx.NodeSize:]
	binary.LittleEndian.PutUint32(rec[4:8], first)
	binary.LittleEndian.PutUint16(rec[8:10], count)
}

// PatchNameID overwrites the name id of node idx in an encoded container.
func PatchNameID(b []byte, h nx.Header, idx uint32, nameID uint32) {
	rec := b[h.NodeOffset+uint64(idx)*nx.NodeSize:]
	binary.LittleEndian.PutUint32(rec[0:4], nameID)
}

// PatchTag overwrites the type tag of node idx in an encoded container.
func PatchTag(b []byte, h nx.Header, idx uint32, tag uint16) {
	rec := b[h.NodeOffset+uint64(idx)*nx.NodeSize:]
	binary.LittleEndian.PutUint16(rec[10:12], tag)
}

// PatchPayload overwrites the inline payload of node idx in an encoded container.
func PatchPayload(b []byte, h nx.Header, idx uint32, payload [8]byte) {
	rec := b[h.NodeOffset+uint64(idx)*nx.NodeSize:]
	copy(rec[12:20], payload[:])
}

// WriteFile builds a container and writes it to dir/name.
func WriteFile(tb testing.TB, dir, name string, root Entry, opts Options) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(tb, root, opts), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}
