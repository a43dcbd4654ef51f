package nx

import (
	"encoding/binary"
	"fmt"
)

// nodeBatch is the number of records read per call while scanning the node table.
const nodeBatch = 4096

// record is one decoded node in the arena.
type record struct {
	name       string
	nameID     uint32
	firstChild uint32
	childCount uint16
	value      Value
}

// decodeRecord decodes a single 20-byte node record.
func decodeRecord(b []byte, strs stringTable) record {
	var payload [8]byte
	copy(payload[:], b[12:20])

	nameID := binary.LittleEndian.Uint32(b[0:4])
	name, _ := strs.lookup(nameID)
	typ := nodeTypeFromTag(binary.LittleEndian.Uint16(b[10:12]))

	return record{
		name:       name,
		nameID:     nameID,
		firstChild: binary.LittleEndian.Uint32(b[4:8]),
		childCount: binary.LittleEndian.Uint16(b[8:10]),
		value:      decodeValue(typ, &payload, strs),
	}
}

// readNodeTable reads count records starting at off, in file order.
func readNodeTable(r *reader, off uint64, count uint32, strs stringTable) ([]record, error) {
	if !r.tableFits(off, count, NodeSize) {
		return nil, fmt.Errorf("%w: node table [%d, +%d*%d) exceeds file size %d",
			ErrOutOfBounds, off, count, NodeSize, r.size)
	}
	if err := r.seek(off); err != nil {
		return nil, ioErr("seek node table", err)
	}

	nodes := make([]record, 0, count)
	buf := make([]byte, min(count, nodeBatch)*NodeSize)
	for uint32(len(nodes)) < count {
		n := min(count-uint32(len(nodes)), nodeBatch)
		chunk := buf[:n*NodeSize]
		if err := r.readFull(chunk); err != nil {
			return nil, ioErr(fmt.Sprintf("read node %d", len(nodes)), err)
		}
		for i := range n {
			nodes = append(nodes, decodeRecord(chunk[i*NodeSize:(i+1)*NodeSize], strs))
		}
	}
	return nodes, nil
}

// Node is a handle to one node of a loaded File. Nodes are small values and
// are cheap to copy; the zero Node belongs to no file.
type Node struct {
	f   *File
	idx uint32
}

var zeroRecord record

func (n Node) rec() *record {
	if n.f == nil || uint64(n.idx) >= uint64(len(n.f.nodes)) {
		return &zeroRecord
	}
	return &n.f.nodes[n.idx]
}

// Valid reports whether n refers to a node of a loaded file.
func (n Node) Valid() bool {
	return n.f != nil && uint64(n.idx) < uint64(len(n.f.nodes))
}

// File returns the container n belongs to.
func (n Node) File() *File { return n.f }

// Index is the position of n in the global node array.
func (n Node) Index() uint32 { return n.idx }

// Name is the resolved display name. Unknown name ids resolve to "".
func (n Node) Name() string { return n.rec().name }

func (n Node) NameID() uint32 { return n.rec().nameID }

func (n Node) FirstChild() uint32 { return n.rec().firstChild }

func (n Node) ChildCount() int { return int(n.rec().childCount) }

func (n Node) HasChildren() bool { return n.rec().childCount > 0 }

func (n Node) Type() NodeType { return n.rec().value.typ }

func (n Node) Value() Value { return n.rec().value }

// As converts the node's value to the requested kind. See Value.Coerce.
func (n Node) As(want Kind) (any, error) {
	return n.rec().value.Coerce(want)
}

// Children returns the node's children. See File.Children.
func (n Node) Children() ([]Node, error) {
	if n.f == nil {
		return nil, fmt.Errorf("%w: node has no file", ErrOutOfBounds)
	}
	return n.f.Children(n)
}

// Child returns the first child named name. See File.ChildNamed.
func (n Node) Child(name string) (Node, error) {
	if n.f == nil {
		return Node{}, fmt.Errorf("%w: node has no file", ErrOutOfBounds)
	}
	return n.f.ChildNamed(n, name)
}

func (n Node) String() string {
	return fmt.Sprintf("%s(%s)", n.Name(), n.Type())
}
