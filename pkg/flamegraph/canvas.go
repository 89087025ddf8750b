package flamegraph

import "unicode/utf8"

// Canvas is an immediate-mode 2D drawing surface.
//
// Coordinates are in the canvas' own units (pixels, terminal cells). Text is
// anchored at its left edge and vertical centre.
type Canvas interface {
	FillRect(x, y, w, h float64, c Color)
	StrokeRect(x, y, w, h float64, c Color)
	FillText(text string, x, y, maxWidth float64, c Color)
	MeasureText(text string) float64
}

type OpKind int

const (
	OpFillRect OpKind = iota
	OpStrokeRect
	OpFillText
)

func (k OpKind) String() string {
	switch k {
	case OpFillRect:
		return "fill"
	case OpStrokeRect:
		return "stroke"
	case OpFillText:
		return "text"
	}
	return "unknown"
}

// Op is one recorded drawing call. W holds maxWidth for text.
type Op struct {
	Kind       OpKind
	X, Y, W, H float64
	Text       string
	Color      Color
}

// Recorder is a Canvas that keeps the draw calls it receives. Text is
// measured as CharWidth per rune.
type Recorder struct {
	CharWidth float64
	Ops       []Op
}

func NewRecorder(charWidth float64) *Recorder {
	return &Recorder{CharWidth: charWidth}
}

func (r *Recorder) FillRect(x, y, w, h float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) StrokeRect(x, y, w, h float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) FillText(text string, x, y, maxWidth float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillText, X: x, Y: y, W: maxWidth, Text: text, Color: c})
}

func (r *Recorder) MeasureText(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * r.CharWidth
}

// Reset drops the recorded calls.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Filter returns the recorded calls of one kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var ops []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			ops = append(ops, op)
		}
	}
	return ops
}
