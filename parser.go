// parser.go
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/pprof/profile"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Oloruntobi1/flametui/pkg/calltree"
)

// ProfileView is the flattened call tree of one sample type.
type ProfileView struct {
	Name       string // e.g. "alloc_space (bytes)"
	Type       string
	Unit       string
	TotalValue int64 // The sum of all samples in this view.
	Nodes      []calltree.Node
}

// ProfileData holds all the parsed views from a single pprof file.
type ProfileData struct {
	DurationNanos     int64
	DefaultSampleType string
	Views             []*ProfileView
}

// ViewIndex returns the index of the view whose sample type is name, or -1.
func (d *ProfileData) ViewIndex(name string) int {
	for i, v := range d.Views {
		if v.Type == name {
			return i
		}
	}
	return -1
}

// SelectView resolves a sample type name to a view index. An empty name
// picks the profile's default sample type, or the last view when the profile
// names none.
func (d *ProfileData) SelectView(name string) (int, error) {
	if name == "" {
		name = d.DefaultSampleType
	}
	if name == "" {
		return len(d.Views) - 1, nil
	}
	if i := d.ViewIndex(name); i >= 0 {
		return i, nil
	}
	types := make([]string, len(d.Views))
	for i, v := range d.Views {
		types[i] = v.Type
	}
	return -1, fmt.Errorf("sample type %q not found, have %s", name, strings.Join(types, ", "))
}

// isRemote reports whether src should be fetched over HTTP.
func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// openProfile opens a profile file or starts fetching a profile URL.
func openProfile(ctx context.Context, src string) (io.ReadCloser, error) {
	if !isRemote(src) {
		file, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("open profile: %w", err)
		}
		return file, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("bad status: %s: %s", resp.Status, string(body))
	}
	return resp.Body, nil
}

// LoadProfile reads and converts the profile at src, a path or an http(s)
// URL.
func LoadProfile(ctx context.Context, src string) (*ProfileData, error) {
	log.WithField("source", src).Debug("loading profile")
	start := time.Now()

	r, err := openProfile(ctx, src)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := ParsePprofFile(ctx, r)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"source":  src,
		"views":   len(data.Views),
		"elapsed": time.Since(start),
	}).Info("profile loaded")
	return data, nil
}

// ParsePprofFile builds the call tree of every sample type, one goroutine
// per type.
func ParsePprofFile(ctx context.Context, reader io.Reader) (*ProfileData, error) {
	p, err := profile.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("could not parse pprof data: %w", err)
	}

	views := make([]*ProfileView, len(p.SampleType))
	g, ctx := errgroup.WithContext(ctx)
	for i, sampleType := range p.SampleType {
		i, sampleType := i, sampleType
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			nodes, err := calltree.FromProfile(p, i)
			if err != nil {
				return fmt.Errorf("sample type %s: %w", sampleType.Type, err)
			}
			if err := calltree.CheckOrder(nodes); err != nil {
				log.WithError(err).WithField("sample_type", sampleType.Type).Warn("call tree out of order, canonicalizing")
				nodes = calltree.Canonicalize(nodes)
			}
			views[i] = &ProfileView{
				Name:       fmt.Sprintf("%s (%s)", sampleType.Type, sampleType.Unit),
				Type:       sampleType.Type,
				Unit:       sampleType.Unit,
				TotalValue: calltree.FindRootSize(nodes),
				Nodes:      nodes,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := &ProfileData{
		DurationNanos:     p.DurationNanos,
		DefaultSampleType: p.DefaultSampleType,
	}
	for _, v := range views {
		if len(v.Nodes) == 0 {
			log.WithField("sample_type", v.Type).Debug("skipping empty sample type")
			continue
		}
		data.Views = append(data.Views, v)
	}
	if len(data.Views) == 0 {
		return nil, fmt.Errorf("no valid sample data found in profile")
	}
	return data, nil
}

// graphUnit maps a pprof unit to the unit the flame graph labels use.
func graphUnit(unit string) string {
	if unit == "bytes" {
		return "B"
	}
	return ""
}

// formatValue intelligently formats a value based on its unit.
func formatValue(value int64, unit string) string {
	switch unit {
	case "nanoseconds":
		return formatNanos(value)
	case "bytes":
		return formatBytes(value)
	default: // "count", "objects", etc.
		return fmt.Sprintf("%d", value)
	}
}

// formatBytes converts bytes to a human-readable string (KB, MB, GB).
func formatBytes(b int64) string {
	if b == 0 {
		return "0 B"
	}
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func formatNanos(n int64) string {
	if n == 0 {
		return "0s"
	}
	d := time.Duration(n)
	return d.String()
}
