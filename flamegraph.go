package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Oloruntobi1/flametui/pkg/flamegraph"
)

const borderRune = '▕'

// cell is one terminal character of a TermCanvas.
type cell struct {
	ch     rune // 0 marks the second half of a wide rune
	bg, fg flamegraph.Color
	filled bool
}

// TermCanvas rasterises flame graph draw calls onto a grid of terminal cells,
// one unit per cell. Rect edges are rounded to the nearest cell boundary so
// siblings tile without gaps.
type TermCanvas struct {
	width, height int
	cells         [][]cell
}

func NewTermCanvas(width, height int) *TermCanvas {
	width, height = max(width, 0), max(height, 0)
	cells := make([][]cell, height)
	for i := range cells {
		row := make([]cell, width)
		for j := range row {
			row[j].ch = ' '
		}
		cells[i] = row
	}
	return &TermCanvas{width: width, height: height, cells: cells}
}

func (t *TermCanvas) span(x, y, w, h float64) (x0, x1, y0, y1 int) {
	x0 = max(int(math.Round(x)), 0)
	x1 = min(int(math.Round(x+w)), t.width)
	y0 = max(int(math.Floor(y)), 0)
	y1 = min(int(math.Ceil(y+h)), t.height)
	return x0, x1, y0, y1
}

func (t *TermCanvas) FillRect(x, y, w, h float64, c flamegraph.Color) {
	x0, x1, y0, y1 := t.span(x, y, w, h)
	for row := y0; row < y1; row++ {
		for col := x0; col < x1; col++ {
			t.cells[row][col] = cell{ch: ' ', bg: c, fg: flamegraph.TextColor, filled: true}
		}
	}
}

// StrokeRect marks the right edge of rects at least two cells wide, unless a
// label already occupies that cell.
func (t *TermCanvas) StrokeRect(x, y, w, h float64, c flamegraph.Color) {
	x0, x1, y0, y1 := t.span(x, y, w, h)
	col := x1 - 1
	if col <= x0 {
		return
	}
	for row := y0; row < y1; row++ {
		if cl := &t.cells[row][col]; cl.ch == ' ' {
			cl.ch = borderRune
			cl.fg = c
		}
	}
}

func (t *TermCanvas) FillText(text string, x, y, maxWidth float64, c flamegraph.Color) {
	row := int(math.Floor(y))
	if row < 0 || row >= t.height {
		return
	}
	col := max(int(math.Round(x)), 0)
	end := min(col+int(math.Floor(maxWidth)), t.width)
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > end {
			break
		}
		t.cells[row][col].ch = r
		t.cells[row][col].fg = c
		for k := 1; k < rw; k++ {
			t.cells[row][col+k].ch = 0
		}
		col += rw
	}
}

func (t *TermCanvas) MeasureText(text string) float64 {
	return float64(runewidth.StringWidth(text))
}

// Render returns the grid as styled lines, merging runs of equal colours.
func (t *TermCanvas) Render() string {
	lines := make([]string, t.height)
	for i, row := range t.cells {
		var b strings.Builder
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && row[end].filled == row[start].filled &&
				row[end].bg == row[start].bg && row[end].fg == row[start].fg {
				end++
			}
			b.WriteString(renderRun(row[start:end]))
			start = end
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

func renderRun(run []cell) string {
	var text strings.Builder
	for _, c := range run {
		if c.ch != 0 {
			text.WriteRune(c.ch)
		}
	}
	if !run[0].filled {
		return text.String()
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(run[0].bg.Hex())).
		Foreground(lipgloss.Color(run[0].fg.Hex())).
		Render(text.String())
}

// Plain returns the grid text without styling.
func (t *TermCanvas) Plain() string {
	lines := make([]string, t.height)
	for i, row := range t.cells {
		var b strings.Builder
		for _, c := range row {
			if c.ch != 0 {
				b.WriteRune(c.ch)
			}
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}
