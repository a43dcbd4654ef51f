package nx

import (
	"errors"
	"fmt"
	"strings"
)

// Root returns node 0, the implicit root of every container.
func (f *File) Root() Node {
	return Node{f: f, idx: 0}
}

// Node returns the node at global index i.
func (f *File) Node(i uint32) (Node, error) {
	if uint64(i) >= uint64(len(f.nodes)) {
		return Node{}, fmt.Errorf("%w: node %d of %d", ErrOutOfBounds, i, len(f.nodes))
	}
	return Node{f: f, idx: i}, nil
}

// Children returns the nodes in [FirstChild, FirstChild+ChildCount) in file
// order. A span that runs past the node array means the container is corrupt
// and is reported as ErrOutOfBounds.
func (f *File) Children(n Node) ([]Node, error) {
	if n.f != f {
		return nil, fmt.Errorf("%w: node belongs to another file", ErrOutOfBounds)
	}
	rec := n.rec()
	if rec.childCount == 0 {
		return []Node{}, nil
	}
	start := uint64(rec.firstChild)
	end := start + uint64(rec.childCount)
	if end > uint64(len(f.nodes)) {
		return nil, fmt.Errorf("%w: children [%d, %d) of node %d exceed %d nodes",
			ErrOutOfBounds, start, end, n.idx, len(f.nodes))
	}

	out := make([]Node, 0, rec.childCount)
	for i := start; i < end; i++ {
		out = append(out, Node{f: f, idx: uint32(i)})
	}
	return out, nil
}

// ChildNamed returns the first child of n whose name equals name byte for
// byte. Sibling names are not unique, so later matches are never seen.
func (f *File) ChildNamed(n Node, name string) (Node, error) {
	children, err := f.Children(n)
	if err != nil {
		return Node{}, err
	}
	for _, c := range children {
		if c.rec().name == name {
			return c, nil
		}
	}
	return Node{}, fmt.Errorf("%w: %q under %q", ErrNotFound, name, n.Name())
}

// Resolve walks a '/'-separated path from the root. Empty segments are
// skipped, so "" and "/" both resolve to the root. Resolution stops at the
// first segment with no matching child.
func (f *File) Resolve(path string) (Node, error) {
	cur := f.Root()
	for seg := range strings.SplitSeq(path, "/") {
		if seg == "" {
			continue
		}
		next, err := f.ChildNamed(cur, seg)
		if err != nil {
			return Node{}, fmt.Errorf("resolve %q: %w", path, err)
		}
		cur = next
	}
	return cur, nil
}

// WalkFunc is called by Walk for every visited node with its '/'-joined path
// from the root. The root's path is "". Returning SkipChildren skips the
// node's subtree; any other error stops the walk and is returned by Walk.
type WalkFunc func(path string, n Node, depth int) error

// SkipChildren is used as a return value from WalkFunc to skip a subtree.
var SkipChildren = errors.New("skip children")

// Walk visits the subtree under start depth first, parents before children,
// children in file order. maxDepth < 0 means unlimited; 0 visits only start.
//
// A well-formed tree visits every node at most once, so a walk that makes
// more visits than the file has nodes is following overlapping or cyclic
// child spans and fails with ErrOutOfBounds.
func (f *File) Walk(start Node, startPath string, maxDepth int, fn WalkFunc) error {
	visits := 0
	return f.walk(start, startPath, 0, maxDepth, &visits, fn)
}

func (f *File) walk(n Node, path string, depth, maxDepth int, visits *int, fn WalkFunc) error {
	*visits++
	if *visits > len(f.nodes) {
		return fmt.Errorf("%w: child spans revisit node %d", ErrOutOfBounds, n.idx)
	}
	if err := fn(path, n, depth); err != nil {
		if err == SkipChildren {
			return nil
		}
		return err
	}
	if maxDepth >= 0 && depth >= maxDepth {
		return nil
	}
	children, err := f.Children(n)
	if err != nil {
		return err
	}
	for _, c := range children {
		childPath := c.Name()
		if path != "" {
			childPath = path + "/" + childPath
		}
		if err := f.walk(c, childPath, depth+1, maxDepth, visits, fn); err != nil {
			return err
		}
	}
	return nil
}
