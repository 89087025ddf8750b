package flamegraph

import (
	"fmt"
	"math"
	"sort"

	"github.com/Oloruntobi1/flametui/pkg/calltree"
)

// NodeAt returns the node drawn at (px, py) by the last Draw. The synthetic
// root row never resolves to a node.
func (v *View) NodeAt(px, py float64) (calltree.Node, bool) {
	rowH := v.rowHeight()
	if rowH <= 0 || py < v.originY {
		return calltree.Node{}, false
	}
	depth := int(math.Floor((py-v.originY)/rowH)) - 1
	starts, ok := v.xStarts[depth]
	if !ok || len(starts) == 0 {
		return calltree.Node{}, false
	}

	// Largest start <= px.
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > px }) - 1
	if i < 0 {
		return calltree.Node{}, false
	}
	s, ok := v.slots[slotKey{depth: depth, x: starts[i]}]
	if !ok || px >= starts[i]+s.width {
		return calltree.Node{}, false
	}
	return s.node, true
}

// OnMouseMove records the pointer position and the node under it. It reports
// whether a node is hovered; if none is, the hover state is cleared.
func (v *View) OnMouseMove(px, py float64) bool {
	n, ok := v.NodeAt(px, py)
	if !ok {
		v.OnMouseOut()
		return false
	}
	v.hoverX, v.hoverY = px, py
	v.hovered = n
	v.hasHover = true
	return true
}

// OnMouseClick returns the node under the pointer. Merged nodes are not
// selectable and yield no node.
func (v *View) OnMouseClick(px, py float64) (calltree.Node, bool) {
	n, ok := v.NodeAt(px, py)
	if !ok || n.Merged {
		return calltree.Node{}, false
	}
	return n, true
}

// OnMouseOut clears the hover state.
func (v *View) OnMouseOut() {
	v.hoverX, v.hoverY = -1, -1
	v.hovered = calltree.Node{}
	v.hasHover = false
}

func (v *View) Hovered() (calltree.Node, bool) {
	return v.hovered, v.hasHover
}

// TooltipLines describes the hovered node, wrapping lines longer than
// maxWidth. It returns nil when nothing is hovered.
func (v *View) TooltipLines(charWidth, maxWidth float64) []string {
	if !v.hasHover {
		return nil
	}
	n := v.hovered
	raw := []string{"Name: " + n.DisplayName()}
	if n.Mapping != "" {
		raw = append(raw, "Mapping: "+n.Mapping)
	}
	raw = append(raw,
		fmt.Sprintf("Cumulative: %s (%.2f%%)", DisplaySize(n.TotalSize, v.unit), percent(n.TotalSize, v.rootSize)),
		fmt.Sprintf("Self: %s (%.2f%%)", DisplaySize(n.SelfSize, v.unit), percent(n.SelfSize, v.rootSize)),
	)
	if n.Merged {
		raw = append(raw, "Merged small frames, not expandable")
	}

	var lines []string
	for _, l := range raw {
		lines = append(lines, WrapText(l, charWidth, maxWidth)...)
	}
	return lines
}

func (v *View) drawTooltip(c Canvas, width, height, x, y, charWidth float64) {
	lines := v.TooltipLines(charWidth, width-2*tooltipPadding)
	if len(lines) == 0 {
		return
	}

	textWidth := 0.0
	for _, l := range lines {
		textWidth = math.Max(textWidth, c.MeasureText(l))
	}
	rectW := textWidth + 2*tooltipPadding
	rectH := v.nodeHeight * float64(len(lines)+1)

	rx := v.hoverX + tooltipPadding
	ry := v.hoverY + tooltipPadding/2
	if rx+rectW > x+width {
		rx = x + width - rectW
	}
	if rx < x {
		rx = x
	}
	if ry+rectH > y+height {
		ry = y + height - rectH
	}
	if ry < y {
		ry = y
	}

	c.FillRect(rx, ry, rectW, rectH, TooltipColor)
	for i, l := range lines {
		c.FillText(l, rx+tooltipPadding, ry+float64(i+1)*v.nodeHeight, textWidth, TooltipText)
	}
}
