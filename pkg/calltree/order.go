package calltree

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrDuplicateID   = errors.New("duplicate node id")
	ErrDepthOrder    = errors.New("depth decreases")
	ErrParentOrder   = errors.New("parent missing or after child")
	ErrDepthMismatch = errors.New("depth does not follow parent")
	ErrInterleaved   = errors.New("sibling run interleaved")
)

// CheckOrder validates the ordering Merge and the flame graph layout assume.
// It reports every violation found, not only the first one.
func CheckOrder(nodes []Node) error {
	var result *multierror.Error

	seen := make(map[int]Node, len(nodes))
	closed := make(map[int]struct{})
	prevDepth, prevParent := 0, NoParent

	for i, n := range nodes {
		if _, dup := seen[n.ID]; dup {
			result = multierror.Append(result, fmt.Errorf("node %d at %d: %w", n.ID, i, ErrDuplicateID))
		}

		if i > 0 && n.Depth < prevDepth {
			result = multierror.Append(result, fmt.Errorf("node %d at %d: depth %d after %d: %w", n.ID, i, n.Depth, prevDepth, ErrDepthOrder))
		}

		if n.IsRoot() {
			if n.Depth != 0 {
				result = multierror.Append(result, fmt.Errorf("root %d at %d has depth %d: %w", n.ID, i, n.Depth, ErrDepthMismatch))
			}
		} else if parent, ok := seen[n.ParentID]; !ok {
			result = multierror.Append(result, fmt.Errorf("node %d at %d: parent %d: %w", n.ID, i, n.ParentID, ErrParentOrder))
		} else if n.Depth != parent.Depth+1 {
			result = multierror.Append(result, fmt.Errorf("node %d at %d: depth %d under parent depth %d: %w", n.ID, i, n.Depth, parent.Depth, ErrDepthMismatch))
		}

		if i > 0 && (n.Depth != prevDepth || n.ParentID != prevParent) {
			closed[prevParent] = struct{}{}
		}
		if _, ok := closed[n.ParentID]; ok && (i == 0 || n.ParentID != prevParent) {
			result = multierror.Append(result, fmt.Errorf("node %d at %d: children of %d: %w", n.ID, i, n.ParentID, ErrInterleaved))
		}

		if _, dup := seen[n.ID]; !dup {
			seen[n.ID] = n
		}
		prevDepth, prevParent = n.Depth, n.ParentID
	}
	return result.ErrorOrNil()
}

// Canonicalize returns a copy of nodes in the order CheckOrder accepts,
// provided ids are unique and depths are consistent: roots first, then level
// by level with each parent's children grouped in their original relative
// order. Nodes that cannot be reached from a root (dangling parents, cycles)
// are appended at the end in input order. Node fields are not changed.
func Canonicalize(nodes []Node) []Node {
	ids := make(map[int]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}

	children := make(map[int][]int)
	var level []int
	for i, n := range nodes {
		if n.IsRoot() {
			level = append(level, i)
			continue
		}
		if _, ok := ids[n.ParentID]; ok {
			children[n.ParentID] = append(children[n.ParentID], i)
		}
	}

	out := make([]Node, 0, len(nodes))
	placed := make([]bool, len(nodes))
	expanded := make(map[int]struct{})
	for len(level) > 0 {
		var next []int
		for _, i := range level {
			if placed[i] {
				continue
			}
			placed[i] = true
			out = append(out, nodes[i])
			if _, done := expanded[nodes[i].ID]; done {
				continue
			}
			expanded[nodes[i].ID] = struct{}{}
			next = append(next, children[nodes[i].ID]...)
		}
		level = next
	}

	for i, n := range nodes {
		if !placed[i] {
			out = append(out, n)
		}
	}
	return out
}
