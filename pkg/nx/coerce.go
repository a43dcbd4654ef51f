package nx

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is a type a caller can request from a Value.
type Kind uint8

const (
	KindInt64 Kind = iota + 1
	KindDouble
	KindText
	KindBool
	KindVector
	KindBitmap
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindDouble:
		return "double"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindVector:
		return "vector"
	case KindBitmap:
		return "bitmap"
	case KindAudio:
		return "audio"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind maps a kind name as printed by Kind.String back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "int64", "int":
		return KindInt64, true
	case "double", "float", "float64":
		return KindDouble, true
	case "text", "string":
		return KindText, true
	case "bool":
		return KindBool, true
	case "vector":
		return KindVector, true
	case "bitmap":
		return KindBitmap, true
	case "audio":
		return KindAudio, true
	default:
		return 0, false
	}
}

// Coerce converts v to the requested kind. The result's dynamic type is
// int64, float64, string, bool, Vector, BitmapRef or AudioRef.
//
// Int64 and Double convert to each other and render to Text in plain
// decimal. Text parses to Int64 or Double, failing with a *ParseError.
// Bool is true for a non-zero number, or for text that is not a number
// and equals "true". Vector, Bitmap and Audio only convert to themselves;
// every other request fails with a *TypeMismatchError.
func (v Value) Coerce(want Kind) (any, error) {
	switch v.typ {
	case TypeInt64:
		i := int64(v.bits)
		switch want {
		case KindInt64:
			return i, nil
		case KindDouble:
			return float64(i), nil
		case KindText:
			return strconv.FormatInt(i, 10), nil
		case KindBool:
			return i != 0, nil
		}
	case TypeDouble:
		f := math.Float64frombits(v.bits)
		switch want {
		case KindInt64:
			return doubleToInt64(f)
		case KindDouble:
			return f, nil
		case KindText:
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		case KindBool:
			return f != 0, nil
		}
	case TypeText:
		switch want {
		case KindInt64:
			i, err := strconv.ParseInt(v.text, 10, 64)
			if err != nil {
				return nil, &ParseError{Text: v.text, Want: want, Err: err}
			}
			return i, nil
		case KindDouble:
			f, err := strconv.ParseFloat(v.text, 64)
			if err != nil {
				return nil, &ParseError{Text: v.text, Want: want, Err: err}
			}
			return f, nil
		case KindText:
			return v.text, nil
		case KindBool:
			return textBool(v.text), nil
		}
	case TypeVector:
		if want == KindVector {
			return v.vec, nil
		}
	case TypeBitmap:
		if want == KindBitmap {
			return v.bmp, nil
		}
	case TypeAudio:
		if want == KindAudio {
			return v.aud, nil
		}
	}
	return nil, &TypeMismatchError{Want: want, Got: v.typ}
}

func doubleToInt64(f float64) (int64, error) {
	// -2^63 is exact in float64; 2^63 is the first value past the range.
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, &ParseError{
			Text: strconv.FormatFloat(f, 'g', -1, 64),
			Want: KindInt64,
			Err:  strconv.ErrRange,
		}
	}
	return int64(f), nil
}

func textBool(s string) bool {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0
	}
	return s == "true"
}

// Scalar is the set of Go types As can produce.
type Scalar interface {
	int64 | float64 | string | bool | Vector | BitmapRef | AudioRef
}

// As converts v to T following the rules of Value.Coerce.
func As[T Scalar](v Value) (T, error) {
	var zero T
	var want Kind
	switch any(zero).(type) {
	case int64:
		want = KindInt64
	case float64:
		want = KindDouble
	case string:
		want = KindText
	case bool:
		want = KindBool
	case Vector:
		want = KindVector
	case BitmapRef:
		want = KindBitmap
	case AudioRef:
		want = KindAudio
	}
	out, err := v.Coerce(want)
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

func (v Value) AsInt64() (int64, error)    { return As[int64](v) }
func (v Value) AsDouble() (float64, error) { return As[float64](v) }
func (v Value) AsText() (string, error)    { return As[string](v) }
func (v Value) AsBool() (bool, error)      { return As[bool](v) }
