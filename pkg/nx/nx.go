// Package nx reads PKG4 packed resource containers.
//
// A container is a single file holding a hierarchical key/value tree:
//
//	Offset  Size  Field
//	------  ----  -----
//	0x00    4     Magic ("PKG4")
//	0x04    4     Node count
//	0x08    8     Node table offset
//	0x10    4     String count
//	0x14    8     String offset table offset
//	0x1C    4     Bitmap count
//	0x20    8     Bitmap offset table offset
//	0x28    4     Audio count
//	0x2C    8     Audio offset table offset
//
// Nodes are stored as a flat array of 20-byte records. The children of a node
// are one contiguous run of that array, so the tree needs no pointers.
// Containers are loaded eagerly and are immutable once loaded.
package nx

import "fmt"

// PKG4 global constants must never change.
const (
	// Magic is the file magic for all PKG4 containers.
	Magic = "PKG4"

	// HeaderSize is the size of the fixed header in bytes.
	HeaderSize = 4 + 4*(4+8)

	// NodeSize is the size of one node record in bytes.
	NodeSize = 4 + 4 + 2 + 2 + 8

	// offsetSize is the size of one entry in an offset table.
	offsetSize = 8
)

// NodeType is the on-disk type tag of a node.
type NodeType uint16

const (
	TypeNone   NodeType = 0
	TypeInt64  NodeType = 1
	TypeDouble NodeType = 2
	TypeText   NodeType = 3
	TypeVector NodeType = 4
	TypeBitmap NodeType = 5
	TypeAudio  NodeType = 6
)

// nodeTypeFromTag maps a raw tag to a NodeType. Unknown tags read as TypeNone.
func nodeTypeFromTag(tag uint16) NodeType {
	t := NodeType(tag)
	if t > TypeAudio {
		return TypeNone
	}
	return t
}

func (t NodeType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeInt64:
		return "int64"
	case TypeDouble:
		return "double"
	case TypeText:
		return "text"
	case TypeVector:
		return "vector"
	case TypeBitmap:
		return "bitmap"
	case TypeAudio:
		return "audio"
	default:
		return fmt.Sprintf("type(%d)", uint16(t))
	}
}
