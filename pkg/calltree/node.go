// Package calltree holds the flattened call tree used by flame graphs and the
// compaction passes that run over it.
//
// A tree is a []Node in depth-first-friendly order: depth never decreases,
// parents come before their children and siblings sharing a parent are
// contiguous within a depth. Merge and the flamegraph layout rely on that
// order without checking it; CheckOrder and Canonicalize exist for callers
// that cannot guarantee it.
package calltree

// NoParent is the ParentID of a root node.
const NoParent = -1

const (
	unknownName = "unknown"
	mergedName  = "[merged]"
)

// Node is one call site of the flattened tree.
type Node struct {
	ID        int
	ParentID  int
	Depth     int
	Name      string
	TotalSize int64 // this node and everything below it
	SelfSize  int64
	Mapping   string
	Merged    bool

	FileName  string
	StartLine int
}

// DisplayName returns the label used when drawing the node.
func (n Node) DisplayName() string {
	if n.Name == "" {
		return unknownName
	}
	return n.Name
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.ParentID == NoParent
}

// FindRootSize sums TotalSize over the leading run of depth 0 nodes.
func FindRootSize(nodes []Node) int64 {
	var total int64
	for i := 0; i < len(nodes) && nodes[i].Depth == 0; i++ {
		total += nodes[i].TotalSize
	}
	return total
}

// MaxDepth returns the deepest Depth in nodes, or -1 when nodes is empty.
func MaxDepth(nodes []Node) int {
	max := -1
	for _, n := range nodes {
		if n.Depth > max {
			max = n.Depth
		}
	}
	return max
}

// IndexOf returns the position of the node with the given id, or -1.
func IndexOf(nodes []Node, id int) int {
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
