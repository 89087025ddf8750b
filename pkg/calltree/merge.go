package calltree

import "math"

// Merge collapses sibling nodes whose TotalSize is at most minSize into a
// single "[merged]" node per parent and depth.
//
// The survivor keeps the id, self size and mapping of the first node of the
// group and carries the summed TotalSize. Children of absorbed nodes stay in
// the output and are re-parented onto the survivor, so they can in turn merge
// with the survivor's other children. A small node that finds no sibling to
// absorb is emitted unchanged. nodes is never modified.
func Merge(nodes []Node, minSize int64) []Node {
	merged := make([]Node, 0, len(nodes))
	// absorbed id -> id of the node that absorbed it
	redirect := make(map[int]int)

	parentOf := func(n Node) int {
		if to, ok := redirect[n.ParentID]; ok {
			return to
		}
		return n.ParentID
	}

	for i := range nodes {
		if _, ok := redirect[nodes[i].ID]; ok {
			continue
		}

		node := nodes[i]
		node.ParentID = parentOf(node)

		if node.TotalSize > minSize {
			merged = append(merged, node)
			continue
		}

		absorbedAny := false
		for j := i + 1; j < len(nodes); j++ {
			sibling := nodes[j]
			if sibling.Depth != node.Depth {
				break
			}
			if _, ok := redirect[sibling.ID]; ok {
				continue
			}
			if sibling.TotalSize > minSize || parentOf(sibling) != node.ParentID {
				continue
			}
			node.TotalSize += sibling.TotalSize
			redirect[sibling.ID] = node.ID
			absorbedAny = true
		}
		if absorbedAny {
			node.Name = mergedName
			node.Merged = true
		}
		merged = append(merged, node)
	}
	return merged
}

// MinSizeForWidth returns the weight drawn as minPixels wide when rootSize
// spans width pixels. It is the usual threshold handed to Merge.
func MinSizeForWidth(rootSize int64, width, minPixels float64) int64 {
	if width <= 0 || rootSize <= 0 || minPixels <= 0 {
		return 0
	}
	return int64(math.Floor(float64(rootSize) * minPixels / width))
}
