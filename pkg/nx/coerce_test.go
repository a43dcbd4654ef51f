package nx_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/nxpack/internal/nxtest"
	"github.com/samcharles93/nxpack/pkg/nx"
)

func TestCoercionLaws(t *testing.T) {
	t.Parallel()

	text, err := nx.Int64Value(5).AsText()
	require.NoError(t, err)
	assert.Equal(t, "5", text)

	d, err := nx.TextValue("3.5").AsDouble()
	require.NoError(t, err)
	assert.Equal(t, 3.5, d)

	b, err := nx.TextValue("true").AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	b, err = nx.DoubleValue(0.0).AsBool()
	require.NoError(t, err)
	assert.False(t, b)

	_, err = nx.VectorValue(nx.Vector{X: 1, Y: 2}).AsInt64()
	require.ErrorIs(t, err, nx.ErrTypeMismatch)
	var tm *nx.TypeMismatchError
	require.True(t, errors.As(err, &tm))
	assert.Equal(t, nx.KindInt64, tm.Want)
	assert.Equal(t, nx.TypeVector, tm.Got)
	assert.Contains(t, err.Error(), "vector")
	assert.Contains(t, err.Error(), "int64")
}

func TestCoerceMatrix(t *testing.T) {
	t.Parallel()

	vec := nx.Vector{X: 3, Y: -4}
	bmp := nx.BitmapRef{ID: 1, Width: 2, Height: 3}
	aud := nx.AudioRef{ID: 4, Length: 5}

	tests := []struct {
		name string
		v    nx.Value
		want nx.Kind
		out  any
		err  error
	}{
		{"int to int", nx.Int64Value(-9), nx.KindInt64, int64(-9), nil},
		{"int to double", nx.Int64Value(2), nx.KindDouble, 2.0, nil},
		{"int to text", nx.Int64Value(-12), nx.KindText, "-12", nil},
		{"int zero to bool", nx.Int64Value(0), nx.KindBool, false, nil},
		{"int to bool", nx.Int64Value(3), nx.KindBool, true, nil},
		{"int to vector", nx.Int64Value(3), nx.KindVector, nil, nx.ErrTypeMismatch},

		{"double to int truncates", nx.DoubleValue(-2.9), nx.KindInt64, int64(-2), nil},
		{"double nan to int", nx.DoubleValue(math.NaN()), nx.KindInt64, nil, nx.ErrParse},
		{"double huge to int", nx.DoubleValue(1e300), nx.KindInt64, nil, nx.ErrParse},
		{"double to text", nx.DoubleValue(0.25), nx.KindText, "0.25", nil},
		{"double whole to text", nx.DoubleValue(2), nx.KindText, "2", nil},
		{"double large to text", nx.DoubleValue(1e21), nx.KindText, "1e+21", nil},
		{"double small to text", nx.DoubleValue(1e-7), nx.KindText, "1e-07", nil},
		{"double to bool", nx.DoubleValue(-0.5), nx.KindBool, true, nil},
		{"double to audio", nx.DoubleValue(1), nx.KindAudio, nil, nx.ErrTypeMismatch},

		{"text to int", nx.TextValue("42"), nx.KindInt64, int64(42), nil},
		{"text float to int", nx.TextValue("3.5"), nx.KindInt64, nil, nx.ErrParse},
		{"text garbage to double", nx.TextValue("abc"), nx.KindDouble, nil, nx.ErrParse},
		{"text to text", nx.TextValue("abc"), nx.KindText, "abc", nil},
		{"text zero to bool", nx.TextValue("0"), nx.KindBool, false, nil},
		{"text number to bool", nx.TextValue("0.1"), nx.KindBool, true, nil},
		{"text false to bool", nx.TextValue("false"), nx.KindBool, false, nil},
		{"text other to bool", nx.TextValue("yes"), nx.KindBool, false, nil},
		{"text True to bool", nx.TextValue("True"), nx.KindBool, false, nil},
		{"text to bitmap", nx.TextValue("1"), nx.KindBitmap, nil, nx.ErrTypeMismatch},

		{"vector to vector", nx.VectorValue(vec), nx.KindVector, vec, nil},
		{"vector to text", nx.VectorValue(vec), nx.KindText, nil, nx.ErrTypeMismatch},
		{"vector to bitmap", nx.VectorValue(vec), nx.KindBitmap, nil, nx.ErrTypeMismatch},
		{"bitmap to bitmap", nx.BitmapValue(bmp), nx.KindBitmap, bmp, nil},
		{"bitmap to bool", nx.BitmapValue(bmp), nx.KindBool, nil, nx.ErrTypeMismatch},
		{"bitmap to audio", nx.BitmapValue(bmp), nx.KindAudio, nil, nx.ErrTypeMismatch},
		{"audio to audio", nx.AudioValue(aud), nx.KindAudio, aud, nil},
		{"audio to double", nx.AudioValue(aud), nx.KindDouble, nil, nx.ErrTypeMismatch},

		{"none to text", nx.Value{}, nx.KindText, nil, nx.ErrTypeMismatch},
		{"none to bool", nx.Value{}, nx.KindBool, nil, nx.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := tt.v.Coerce(tt.want)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.out, out)
		})
	}
}

func TestAsGeneric(t *testing.T) {
	t.Parallel()

	v, err := nx.As[int64](nx.TextValue("17"))
	require.NoError(t, err)
	assert.Equal(t, int64(17), v)

	vec, err := nx.As[nx.Vector](nx.VectorValue(nx.Vector{X: 1, Y: 1}))
	require.NoError(t, err)
	assert.Equal(t, nx.Vector{X: 1, Y: 1}, vec)

	_, err = nx.As[nx.AudioRef](nx.VectorValue(nx.Vector{}))
	require.ErrorIs(t, err, nx.ErrTypeMismatch)

	_, err = nx.As[float64](nx.TextValue("x"))
	var pe *nx.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "x", pe.Text)
	assert.Equal(t, nx.KindDouble, pe.Want)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range []nx.Kind{
		nx.KindInt64, nx.KindDouble, nx.KindText, nx.KindBool,
		nx.KindVector, nx.KindBitmap, nx.KindAudio,
	} {
		got, ok := nx.ParseKind(k.String())
		require.True(t, ok, "kind %s", k)
		assert.Equal(t, k, got)
	}
	_, ok := nx.ParseKind("matrix")
	assert.False(t, ok)
}

func TestDecodedValues(t *testing.T) {
	t.Parallel()

	f := mustLoad(t, nxtest.Build(t, sampleTree(), nxtest.Options{}))

	tests := []struct {
		path string
		typ  nx.NodeType
		val  any
	}{
		{"num", nx.TypeInt64, int64(5)},
		{"pi", nx.TypeDouble, 3.5},
		{"name", nx.TypeText, "hello"},
		{"vec", nx.TypeVector, nx.Vector{X: 3, Y: -4}},
		{"img", nx.TypeBitmap, nx.BitmapRef{ID: 9, Width: 32, Height: 16}},
		{"snd", nx.TypeAudio, nx.AudioRef{ID: 2, Length: 1024}},
		{"empty", nx.TypeNone, nil},
	}
	for _, tt := range tests {
		n, err := f.Resolve(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.typ, n.Type(), tt.path)
		assert.Equal(t, tt.val, n.Value().Interface(), tt.path)
	}

	n, err := f.Resolve("name")
	require.NoError(t, err)
	_, err = n.As(nx.KindInt64)
	require.ErrorIs(t, err, nx.ErrParse)

	// A failed coercion leaves the file usable.
	n, err = f.Resolve("num")
	require.NoError(t, err)
	out, err := n.As(nx.KindText)
	require.NoError(t, err)
	assert.Equal(t, "5", out)
}
