package calltree

// Expand returns the focus selection for nodes[index]: its ancestors from the
// root down, the node itself, then every descendant in input order.
//
// index -1 means "nothing focused" and returns nodes as is; any other index
// outside nodes yields an empty selection. Parents are looked up by id, so
// ids do not have to match positions. A parent id that is not present ends
// the ancestor chain.
func Expand(nodes []Node, index int) []Node {
	if index == -1 {
		return nodes
	}
	if index < -1 || index >= len(nodes) {
		return []Node{}
	}

	byID := make(map[int]int, len(nodes))
	for i, n := range nodes {
		if _, dup := byID[n.ID]; !dup {
			byID[n.ID] = i
		}
	}

	clicked := nodes[index]

	var ancestors []Node
	seen := map[int]struct{}{clicked.ID: {}}
	for parent := clicked.ParentID; parent != NoParent; {
		if _, loop := seen[parent]; loop {
			break
		}
		pos, ok := byID[parent]
		if !ok {
			break
		}
		seen[parent] = struct{}{}
		ancestors = append(ancestors, nodes[pos])
		parent = nodes[pos].ParentID
	}

	selection := make([]Node, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		selection = append(selection, ancestors[i])
	}
	selection = append(selection, clicked)

	inSubtree := map[int]struct{}{clicked.ID: {}}
	for _, n := range nodes[index+1:] {
		if _, ok := inSubtree[n.ParentID]; ok {
			selection = append(selection, n)
			inSubtree[n.ID] = struct{}{}
		}
	}
	return selection
}
