// Package flamegraph lays out, draws and hit-tests a flattened call tree.
//
// A View draws onto any Canvas. Every node gets a row of its own depth and a
// width proportional to its share of its parent; siblings are tiled left to
// right in input order. The layout of the last Draw is kept so that pointer
// positions can be mapped back to nodes.
package flamegraph

import (
	"sort"

	"github.com/Oloruntobi1/flametui/pkg/calltree"
	"github.com/sahilm/fuzzy"
)

const (
	// DefaultNodeHeight is the row height used unless WithNodeHeight says
	// otherwise.
	DefaultNodeHeight = 18.0
	// DefaultLabelPadding is the gap between a node's left edge and its label.
	DefaultLabelPadding = 5.0

	defaultCharWidth = 7.0
	tooltipPadding   = 8.0
)

// Option configures a View.
type Option func(*View)

// WithNodeHeight sets the height of one row.
func WithNodeHeight(h float64) Option {
	return func(v *View) {
		if h > 0 {
			v.nodeHeight = h
		}
	}
}

// WithThumbnail draws 1 unit high rows in a single colour without labels,
// borders or tooltip.
func WithThumbnail() Option {
	return func(v *View) { v.thumbnail = true }
}

// WithUnit sets the unit of node sizes: "B" for bytes, "" for plain counts.
func WithUnit(unit string) Option {
	return func(v *View) { v.unit = unit }
}

// WithLabelPadding sets the gap between a node's edge and its label.
func WithLabelPadding(p float64) Option {
	return func(v *View) {
		if p >= 0 {
			v.labelPadding = p
		}
	}
}

// WithCharWidth fixes the per-rune width used to crop labels and wrap the
// tooltip instead of measuring it on the canvas.
func WithCharWidth(w float64) Option {
	return func(v *View) {
		if w > 0 {
			v.charWidth = w
		}
	}
}

// WithTooltip toggles drawing the hover tooltip on the canvas. Callers that
// show TooltipLines elsewhere turn it off.
func WithTooltip(enabled bool) Option {
	return func(v *View) { v.tooltip = enabled }
}

type slotKey struct {
	depth int
	x     float64
}

type slot struct {
	node  calltree.Node
	width float64
}

// parentSpan is the horizontal span handed to a node's children.
type parentSpan struct {
	width float64
	nextX float64
	size  int64
}

// View is a flame graph over one node sequence. It is not safe for
// concurrent use.
type View struct {
	nodeHeight   float64
	labelPadding float64
	charWidth    float64
	thumbnail    bool
	tooltip      bool
	unit         string

	nodes     []calltree.Node
	displayed []calltree.Node
	maxDepth  int
	rootSize  int64

	focused  calltree.Node
	hasFocus bool

	highlighted map[int]struct{}

	hoverX, hoverY float64
	hovered        calltree.Node
	hasHover       bool

	originX, originY float64
	xStarts          map[int][]float64
	slots            map[slotKey]slot

	colors colorCache
}

// New returns an empty View. Call SetData before drawing.
func New(opts ...Option) *View {
	v := &View{
		nodeHeight:   DefaultNodeHeight,
		labelPadding: DefaultLabelPadding,
		tooltip:      true,
		unit:         "B",
		maxDepth:     -1,
		colors:       make(colorCache),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.resetIndex()
	v.OnMouseOut()
	return v
}

// SetData replaces the backing sequence. A slice with the same backing array
// and length as the current one counts as unchanged and keeps all state;
// otherwise focus, highlight and hover are dropped and totals recomputed.
// It reports whether the data changed.
func (v *View) SetData(nodes []calltree.Node) bool {
	if sameNodes(v.nodes, nodes) {
		return false
	}
	v.nodes = nodes
	v.displayed = nodes
	v.hasFocus = false
	v.focused = calltree.Node{}
	v.highlighted = nil
	v.rootSize = calltree.FindRootSize(nodes)
	v.maxDepth = calltree.MaxDepth(nodes)
	v.resetIndex()
	v.OnMouseOut()
	return true
}

func sameNodes(a, b []calltree.Node) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// Data returns the backing sequence.
func (v *View) Data() []calltree.Node { return v.nodes }

// Displayed returns the sequence Draw lays out: the backing sequence, or the
// focus selection while a node is focused.
func (v *View) Displayed() []calltree.Node { return v.displayed }

// RootSize is the summed size of the top-level nodes.
func (v *View) RootSize() int64 { return v.rootSize }

func (v *View) Unit() string { return v.unit }

// Height is the height needed to draw every row, root row included.
func (v *View) Height() float64 {
	if len(v.displayed) == 0 {
		return 0
	}
	return float64(v.maxDepth+2) * v.rowHeight()
}

func (v *View) rowHeight() float64 {
	if v.thumbnail {
		return 1
	}
	return v.nodeHeight
}

// Focus narrows the drawing to the node with the given id, its ancestors and
// its descendants. Merged nodes cannot be focused.
func (v *View) Focus(id int) bool {
	idx := calltree.IndexOf(v.nodes, id)
	if idx < 0 || v.nodes[idx].Merged {
		return false
	}
	v.focused = v.nodes[idx]
	v.hasFocus = true
	v.displayed = calltree.Expand(v.nodes, idx)
	v.maxDepth = calltree.MaxDepth(v.displayed)
	v.resetIndex()
	v.OnMouseOut()
	return true
}

// ClearFocus goes back to drawing the whole backing sequence.
func (v *View) ClearFocus() {
	if !v.hasFocus {
		return
	}
	v.hasFocus = false
	v.focused = calltree.Node{}
	v.displayed = v.nodes
	v.maxDepth = calltree.MaxDepth(v.nodes)
	v.resetIndex()
	v.OnMouseOut()
}

func (v *View) Focused() (calltree.Node, bool) {
	return v.focused, v.hasFocus
}

// Highlight marks the nodes whose name fuzzy-matches pattern; the others are
// drawn grey while at least one node matches. An empty pattern clears the
// highlight. It returns the number of matching nodes.
func (v *View) Highlight(pattern string) int {
	v.highlighted = nil
	if pattern == "" || len(v.nodes) == 0 {
		return 0
	}
	names := make([]string, len(v.nodes))
	for i, n := range v.nodes {
		names[i] = n.DisplayName()
	}
	matches := fuzzy.Find(pattern, names)
	if len(matches) == 0 {
		return 0
	}
	v.highlighted = make(map[int]struct{}, len(matches))
	for _, m := range matches {
		v.highlighted[v.nodes[m.Index].ID] = struct{}{}
	}
	return len(v.highlighted)
}

// IsHighlighted reports whether id matched the last Highlight pattern.
func (v *View) IsHighlighted(id int) bool {
	_, ok := v.highlighted[id]
	return ok
}

func (v *View) resetIndex() {
	v.xStarts = make(map[int][]float64)
	v.slots = make(map[slotKey]slot)
}

// Draw lays the displayed sequence out in the width x height box at (x, y)
// and draws it onto c. Rows that start below the box are skipped.
func (v *View) Draw(c Canvas, width, height, x, y float64) {
	v.originX, v.originY = x, y
	v.resetIndex()
	if len(v.displayed) == 0 || width <= 0 || height <= 0 {
		return
	}

	rowH := v.rowHeight()
	charWidth := v.charWidth
	if charWidth <= 0 {
		charWidth = c.MeasureText("M")
	}
	if charWidth <= 0 {
		charWidth = defaultCharWidth
	}

	v.drawRoot(c, width, x, y, charWidth)

	spans := map[int]*parentSpan{
		calltree.NoParent: {width: width, nextX: x, size: v.rootSize},
	}
	for _, n := range v.displayed {
		nodeY := y + rowH*float64(n.Depth+1)
		if nodeY >= y+height {
			break
		}
		parent, ok := spans[n.ParentID]
		if !ok {
			continue
		}

		fullWidth := v.hasFocus && n.Depth <= v.focused.Depth
		greyed := v.hasFocus && n.Depth < v.focused.Depth

		var w float64
		switch {
		case fullWidth:
			w = parent.width
		case parent.size > 0:
			w = float64(n.TotalSize) / float64(parent.size) * parent.width
		}
		// Negative sizes (diff profiles) get no space.
		w = max(w, 0)
		nodeX := parent.nextX
		parent.nextX += w
		spans[n.ID] = &parentSpan{width: w, nextX: nodeX, size: n.TotalSize}
		if w <= 0 {
			continue
		}

		v.drawNode(c, n, nodeX, nodeY, w, charWidth, greyed)

		key := slotKey{depth: n.Depth, x: nodeX}
		if _, taken := v.slots[key]; !taken {
			v.xStarts[n.Depth] = append(v.xStarts[n.Depth], nodeX)
		}
		v.slots[key] = slot{node: n, width: w}
	}

	for _, starts := range v.xStarts {
		sort.Float64s(starts)
	}

	if v.tooltip && v.hasHover && !v.thumbnail {
		v.drawTooltip(c, width, height, x, y, charWidth)
	}
}

func (v *View) drawRoot(c Canvas, width, x, y, charWidth float64) {
	rowH := v.rowHeight()
	if v.thumbnail {
		c.FillRect(x, y, width, rowH, ThumbnailColor)
		return
	}
	c.FillRect(x, y, width, rowH, v.colors.get("root"))
	maxWidth := width - 2*v.labelPadding
	label := CropText("root: "+DisplaySize(v.rootSize, v.unit), charWidth, maxWidth)
	if label != "" {
		c.FillText(label, x+v.labelPadding, y+rowH/2, maxWidth, TextColor)
	}
}

func (v *View) drawNode(c Canvas, n calltree.Node, x, y, w, charWidth float64, greyed bool) {
	rowH := v.rowHeight()
	if v.thumbnail {
		c.FillRect(x, y, w, rowH, ThumbnailColor)
		return
	}

	name := n.DisplayName()
	fill := v.colors.get(name)
	if greyed || (v.highlighted != nil && !v.IsHighlighted(n.ID)) {
		fill = GreyedColor
	}
	c.FillRect(x, y, w, rowH, fill)

	maxWidth := w - 2*v.labelPadding
	if label := CropText(name, charWidth, maxWidth); label != "" {
		c.FillText(label, x+v.labelPadding, y+rowH/2, maxWidth, TextColor)
	}
	c.StrokeRect(x, y, w, rowH, BorderColor)
}
