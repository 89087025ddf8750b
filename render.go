package main

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/Oloruntobi1/flametui/pkg/calltree"
	"github.com/Oloruntobi1/flametui/pkg/flamegraph"
)

type svgConfig struct {
	width     float64
	minPixels float64
	noMerge   bool
}

// renderSVG draws the whole call tree of view as a standalone SVG document.
func renderSVG(w io.Writer, view *ProfileView, cfg svgConfig) error {
	if cfg.width <= 0 {
		return fmt.Errorf("invalid width %g", cfg.width)
	}

	nodes := view.Nodes
	if !cfg.noMerge {
		minSize := calltree.MinSizeForWidth(view.TotalValue, cfg.width, cfg.minPixels)
		nodes = calltree.Merge(view.Nodes, minSize)
	}
	log.WithFields(log.Fields{
		"view":   view.Type,
		"nodes":  len(view.Nodes),
		"merged": len(nodes),
	}).Debug("rendering svg")

	graph := flamegraph.New(
		flamegraph.WithUnit(graphUnit(view.Unit)),
		flamegraph.WithTooltip(false),
	)
	graph.SetData(nodes)

	opts := flamegraph.DefaultSVGOptions()
	opts.Title = fmt.Sprintf("%s · total %s", view.Name, formatValue(view.TotalValue, view.Unit))
	opts.Width = cfg.width
	opts.Height = graph.Height() + flamegraph.TitleHeight

	canvas := flamegraph.NewSVGCanvas(w, opts)
	graph.Draw(canvas, cfg.width, graph.Height(), 0, flamegraph.TitleHeight)
	if err := canvas.Close(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}
