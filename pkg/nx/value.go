package nx

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// Vector is a two-dimensional integer point.
type Vector struct {
	X int32
	Y int32
}

// BitmapRef identifies a bitmap in the container's bitmap table.
// The pixel data itself is fetched by an asset loader keyed by ID.
type BitmapRef struct {
	ID     uint32
	Width  uint16
	Height uint16
}

// AudioRef identifies an audio clip in the container's audio table.
type AudioRef struct {
	ID     uint32
	Length uint32
}

// Value is the decoded inline payload of a node. Exactly one variant is
// active, selected by Type.
type Value struct {
	typ  NodeType
	bits uint64
	text string
	vec  Vector
	bmp  BitmapRef
	aud  AudioRef
}

func Int64Value(v int64) Value { return Value{typ: TypeInt64, bits: uint64(v)} }
func DoubleValue(v float64) Value { return Value{typ: TypeDouble, bits: math.Float64bits(v)} }
func TextValue(v string) Value { return Value{typ: TypeText, text: v} }
func VectorValue(v Vector) Value { return Value{typ: TypeVector, vec: v} }
func BitmapValue(v BitmapRef) Value { return Value{typ: TypeBitmap, bmp: v} }
func AudioValue(v AudioRef) Value { return Value{typ: TypeAudio, aud: v} }

// Type reports the active variant.
func (v Value) Type() NodeType { return v.typ }

// IsNone reports whether the value carries no data.
func (v Value) IsNone() bool { return v.typ == TypeNone }

func (v Value) Int64() (int64, bool) {
	return int64(v.bits), v.typ == TypeInt64
}

func (v Value) Double() (float64, bool) {
	return math.Float64frombits(v.bits), v.typ == TypeDouble
}

func (v Value) Text() (string, bool) {
	return v.text, v.typ == TypeText
}

func (v Value) Vector() (Vector, bool) {
	return v.vec, v.typ == TypeVector
}

func (v Value) Bitmap() (BitmapRef, bool) {
	return v.bmp, v.typ == TypeBitmap
}

func (v Value) Audio() (AudioRef, bool) {
	return v.aud, v.typ == TypeAudio
}

// Interface returns the active variant as a plain Go value, or nil for none.
func (v Value) Interface() any {
	switch v.typ {
	case TypeInt64:
		return int64(v.bits)
	case TypeDouble:
		return math.Float64frombits(v.bits)
	case TypeText:
		return v.text
	case TypeVector:
		return v.vec
	case TypeBitmap:
		return v.bmp
	case TypeAudio:
		return v.aud
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.typ {
	case TypeInt64:
		return strconv.FormatInt(int64(v.bits), 10)
	case TypeDouble:
		return strconv.FormatFloat(math.Float64frombits(v.bits), 'g', -1, 64)
	case TypeText:
		return v.text
	case TypeVector:
		return fmt.Sprintf("(%d, %d)", v.vec.X, v.vec.Y)
	case TypeBitmap:
		return fmt.Sprintf("bitmap#%d %dx%d", v.bmp.ID, v.bmp.Width, v.bmp.Height)
	case TypeAudio:
		return fmt.Sprintf("audio#%d len=%d", v.aud.ID, v.aud.Length)
	default:
		return ""
	}
}

// payloadDecoders maps each node type to the routine that reads its 8-byte
// inline payload. Types missing from the table decode as none.
var payloadDecoders = [...]func(p *[8]byte, strs stringTable) Value{
	TypeNone: func(*[8]byte, stringTable) Value { return Value{} },
	TypeInt64: func(p *[8]byte, _ stringTable) Value {
		return Int64Value(int64(binary.LittleEndian.Uint64(p[:])))
	},
	TypeDouble: func(p *[8]byte, _ stringTable) Value {
		return DoubleValue(math.Float64frombits(binary.LittleEndian.Uint64(p[:])))
	},
	TypeText: func(p *[8]byte, strs stringTable) Value {
		s, _ := strs.lookup(binary.LittleEndian.Uint32(p[0:4]))
		return TextValue(s)
	},
	TypeVector: func(p *[8]byte, _ stringTable) Value {
		return VectorValue(Vector{
			X: int32(binary.LittleEndian.Uint32(p[0:4])),
			Y: int32(binary.LittleEndian.Uint32(p[4:8])),
		})
	},
	TypeBitmap: func(p *[8]byte, _ stringTable) Value {
		return BitmapValue(BitmapRef{
			ID:     binary.LittleEndian.Uint32(p[0:4]),
			Width:  binary.LittleEndian.Uint16(p[4:6]),
			Height: binary.LittleEndian.Uint16(p[6:8]),
		})
	},
	TypeAudio: func(p *[8]byte, _ stringTable) Value {
		return AudioValue(AudioRef{
			ID:     binary.LittleEndian.Uint32(p[0:4]),
			Length: binary.LittleEndian.Uint32(p[4:8]),
		})
	},
}

// decodeValue interprets a raw payload according to its type tag.
func decodeValue(t NodeType, p *[8]byte, strs stringTable) Value {
	if int(t) >= len(payloadDecoders) {
		return Value{}
	}
	return payloadDecoders[t](p, strs)
}
