package flamegraph

import (
	"fmt"
	"html"
	"io"
	"unicode/utf8"
)

// SVGOptions configures an SVGCanvas.
type SVGOptions struct {
	Title    string
	Width    float64
	Height   float64
	FontSize float64
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Title:    "Flame Graph",
		Width:    1200,
		FontSize: 12,
	}
}

// TitleHeight is the space an SVGCanvas reserves above the graph for its
// title.
const TitleHeight = 30.0

// SVGCanvas writes draw calls as SVG elements. The first write error is kept
// and returned by Close; later calls become no-ops.
type SVGCanvas struct {
	w         io.Writer
	charWidth float64
	err       error
}

// NewSVGCanvas writes the document header. Call Close to finish it.
func NewSVGCanvas(w io.Writer, opts SVGOptions) *SVGCanvas {
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	s := &SVGCanvas{w: w, charWidth: opts.FontSize * 0.59}
	s.printf(`<?xml version="1.0" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
<svg version="1.1" width="%g" height="%g" xmlns="http://www.w3.org/2000/svg">
<style>
  text { font-family: monospace; font-size: %gpx; dominant-baseline: middle; }
</style>
<rect x="0" y="0" width="%g" height="%g" fill="white"/>
<text x="%g" y="%g" text-anchor="middle" style="font-size:16px; font-weight:bold;">%s</text>
`,
		opts.Width, opts.Height, opts.FontSize,
		opts.Width, opts.Height,
		opts.Width/2, TitleHeight/2, html.EscapeString(opts.Title))
	return s
}

func (s *SVGCanvas) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *SVGCanvas) FillRect(x, y, w, h float64, c Color) {
	s.printf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\"/>\n", x, y, w, h, c.Hex())
}

func (s *SVGCanvas) StrokeRect(x, y, w, h float64, c Color) {
	s.printf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"none\" stroke=\"%s\" stroke-width=\"0.5\"/>\n", x, y, w, h, c.Hex())
}

func (s *SVGCanvas) FillText(text string, x, y, maxWidth float64, c Color) {
	if text == "" || maxWidth <= 0 {
		return
	}
	s.printf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\">%s</text>\n", x, y, c.Hex(), html.EscapeString(text))
}

func (s *SVGCanvas) MeasureText(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * s.charWidth
}

// Close ends the document.
func (s *SVGCanvas) Close() error {
	s.printf("</svg>\n")
	return s.err
}
