// Package render turns container nodes into JSON documents and text trees
// for the nx command and the HTTP API.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/samcharles93/nxpack/pkg/nx"
)

// NodeView is the JSON shape of a node. Children is populated only down to
// the depth requested from NewNodeView; Truncated marks nodes whose children
// were left out.
type NodeView struct {
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	Index      uint32     `json:"index"`
	Type       string     `json:"type"`
	Value      any        `json:"value,omitempty"`
	ChildCount int        `json:"child_count"`
	Children   []NodeView `json:"children,omitempty"`
	Truncated  bool       `json:"truncated,omitempty"`
}

type vectorView struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

type bitmapView struct {
	ID     uint32 `json:"id"`
	Width  uint16 `json:"width"`
	Height uint16 `json:"height"`
}

type audioView struct {
	ID     uint32 `json:"id"`
	Length uint32 `json:"length"`
}

// NewNodeView builds the view of n and its subtree down to depth levels.
// Depth 0 renders n alone; a negative depth renders the whole subtree.
func NewNodeView(n nx.Node, path string, depth int) (NodeView, error) {
	if !n.Valid() {
		return NodeView{}, fmt.Errorf("%w: invalid node", nx.ErrOutOfBounds)
	}
	visits := 0
	return buildView(n, path, depth, 0, &visits)
}

// buildView renders n and its subtree. visits counts rendered nodes; more
// than the file holds means child spans overlap or loop.
func buildView(n nx.Node, path string, depth, level int, visits *int) (NodeView, error) {
	*visits++
	if *visits > n.File().Len() {
		return NodeView{}, fmt.Errorf("%w: child spans revisit node %d", nx.ErrOutOfBounds, n.Index())
	}
	v := NodeView{
		Name:       n.Name(),
		Path:       path,
		Index:      n.Index(),
		Type:       n.Type().String(),
		Value:      ValueJSON(n.Value()),
		ChildCount: n.ChildCount(),
	}
	if !n.HasChildren() {
		return v, nil
	}
	if depth >= 0 && level >= depth {
		v.Truncated = true
		return v, nil
	}
	children, err := n.Children()
	if err != nil {
		return NodeView{}, err
	}
	v.Children = make([]NodeView, 0, len(children))
	for _, c := range children {
		cv, err := buildView(c, JoinPath(path, c.Name()), depth, level+1, visits)
		if err != nil {
			return NodeView{}, err
		}
		v.Children = append(v.Children, cv)
	}
	return v, nil
}

// JoinPath appends a child name to a node path. The root's path is "".
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// ValueJSON returns a JSON-friendly form of v. None renders as nil and
// non-finite doubles render as strings.
func ValueJSON(v nx.Value) any {
	switch v.Type() {
	case nx.TypeInt64:
		i, _ := v.Int64()
		return i
	case nx.TypeDouble:
		d, _ := v.Double()
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return v.String()
		}
		return d
	case nx.TypeText:
		s, _ := v.Text()
		return s
	case nx.TypeVector:
		vec, _ := v.Vector()
		return vectorView{X: vec.X, Y: vec.Y}
	case nx.TypeBitmap:
		b, _ := v.Bitmap()
		return bitmapView{ID: b.ID, Width: b.Width, Height: b.Height}
	case nx.TypeAudio:
		a, _ := v.Audio()
		return audioView{ID: a.ID, Length: a.Length}
	default:
		return nil
	}
}

// CoercedJSON is ValueJSON for the results of nx.Value.Coerce.
func CoercedJSON(out any) any {
	switch v := out.(type) {
	case float64:
		return ValueJSON(nx.DoubleValue(v))
	case nx.Vector:
		return ValueJSON(nx.VectorValue(v))
	case nx.BitmapRef:
		return ValueJSON(nx.BitmapValue(v))
	case nx.AudioRef:
		return ValueJSON(nx.AudioValue(v))
	default:
		return out
	}
}

// JSON encodes v to w, indented when pretty is set.
func JSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// Tree writes the subtree under n as indented text, one node per line.
func Tree(w io.Writer, n nx.Node, path string, depth int) error {
	if !n.Valid() {
		return fmt.Errorf("%w: invalid node", nx.ErrOutOfBounds)
	}
	return n.File().Walk(n, path, depth, func(_ string, c nx.Node, d int) error {
		_, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", d), Line(c))
		return err
	})
}

// Line formats a single node as "name [type] = value (n children)".
func Line(n nx.Node) string {
	var b strings.Builder
	name := n.Name()
	if n.Index() == 0 && name == "" {
		name = "/"
	}
	b.WriteString(name)
	if t := n.Type(); t != nx.TypeNone {
		fmt.Fprintf(&b, " [%s] = ", t)
		if t == nx.TypeText {
			b.WriteString(strconv.Quote(n.Value().String()))
		} else {
			b.WriteString(n.Value().String())
		}
	}
	if c := n.ChildCount(); c > 0 {
		fmt.Fprintf(&b, " (%d children)", c)
	}
	return b.String()
}
