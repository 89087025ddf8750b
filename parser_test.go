package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/pprof/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() *profile.Profile {
	mapping := &profile.Mapping{ID: 1, File: "/usr/bin/server", Start: 0x1000, Limit: 0x9000}
	mainFn := &profile.Function{ID: 1, Name: "main.main", Filename: "main.go"}
	serveFn := &profile.Function{ID: 2, Name: "main.serve", Filename: "serve.go"}
	gcFn := &profile.Function{ID: 3, Name: "runtime.gcBgMarkWorker", Filename: "mgc.go"}

	mainLoc := &profile.Location{ID: 1, Mapping: mapping, Address: 0x1001, Line: []profile.Line{{Function: mainFn, Line: 10}}}
	serveLoc := &profile.Location{ID: 2, Mapping: mapping, Address: 0x1002, Line: []profile.Line{{Function: serveFn, Line: 20}}}
	gcLoc := &profile.Location{ID: 3, Mapping: mapping, Address: 0x1003, Line: []profile.Line{{Function: gcFn, Line: 30}}}

	return &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "samples", Unit: "count"},
			{Type: "cpu", Unit: "nanoseconds"},
			{Type: "alloc_space", Unit: "bytes"},
		},
		DefaultSampleType: "cpu",
		DurationNanos:     1e9,
		Mapping:           []*profile.Mapping{mapping},
		Function:          []*profile.Function{mainFn, serveFn, gcFn},
		Location:          []*profile.Location{mainLoc, serveLoc, gcLoc},
		Sample: []*profile.Sample{
			{Location: []*profile.Location{serveLoc, mainLoc}, Value: []int64{6, 600, 0}},
			{Location: []*profile.Location{mainLoc}, Value: []int64{1, 100, 0}},
			{Location: []*profile.Location{gcLoc}, Value: []int64{3, 300, 0}},
		},
	}
}

func encodedProfile(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, sampleProfile().Write(&buf))
	return buf.Bytes()
}

func TestParsePprofFile(t *testing.T) {
	data, err := ParsePprofFile(context.Background(), bytes.NewReader(encodedProfile(t)))
	require.NoError(t, err)

	// alloc_space carries no samples and is skipped.
	require.Len(t, data.Views, 2)
	assert.Equal(t, "samples (count)", data.Views[0].Name)
	assert.Equal(t, "cpu (nanoseconds)", data.Views[1].Name)
	assert.Equal(t, int64(10), data.Views[0].TotalValue)
	assert.Equal(t, int64(1000), data.Views[1].TotalValue)
	assert.Equal(t, int64(1e9), data.DurationNanos)
	assert.Equal(t, "cpu", data.DefaultSampleType)

	nodes := data.Views[0].Nodes
	require.Len(t, nodes, 3)
	assert.Equal(t, "main.main", nodes[0].Name)
	assert.Equal(t, int64(7), nodes[0].TotalSize)
	assert.Equal(t, int64(1), nodes[0].SelfSize)
	assert.Equal(t, "server", nodes[0].Mapping)
	assert.Equal(t, "runtime.gcBgMarkWorker", nodes[1].Name)
	assert.Equal(t, "main.serve", nodes[2].Name)
	assert.Equal(t, nodes[0].ID, nodes[2].ParentID)
}

func TestParsePprofFileErrors(t *testing.T) {
	_, err := ParsePprofFile(context.Background(), bytes.NewReader([]byte("not a profile")))
	assert.ErrorContains(t, err, "could not parse pprof data")

	empty := sampleProfile()
	for _, s := range empty.Sample {
		s.Value = []int64{0, 0, 0}
	}
	var buf bytes.Buffer
	require.NoError(t, empty.Write(&buf))
	_, err = ParsePprofFile(context.Background(), &buf)
	assert.ErrorContains(t, err, "no valid sample data")
}

func TestSelectView(t *testing.T) {
	data, err := ParsePprofFile(context.Background(), bytes.NewReader(encodedProfile(t)))
	require.NoError(t, err)

	i, err := data.SelectView("")
	require.NoError(t, err)
	assert.Equal(t, 1, i, "default sample type")

	i, err = data.SelectView("samples")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = data.SelectView("inuse_space")
	assert.ErrorContains(t, err, "have samples, cpu")

	data.DefaultSampleType = ""
	i, err = data.SelectView("")
	require.NoError(t, err)
	assert.Equal(t, 1, i, "last view without a default")
}

func TestLoadProfile(t *testing.T) {
	raw := encodedProfile(t)

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cpu.pprof")
		require.NoError(t, os.WriteFile(path, raw, 0o644))

		data, err := LoadProfile(context.Background(), path)
		require.NoError(t, err)
		assert.Len(t, data.Views, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProfile(context.Background(), filepath.Join(t.TempDir(), "nope.pprof"))
		assert.ErrorContains(t, err, "open profile")
	})

	t.Run("url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(raw)
		}))
		defer srv.Close()

		data, err := LoadProfile(context.Background(), srv.URL+"/debug/pprof/profile")
		require.NoError(t, err)
		assert.Len(t, data.Views, 2)
	})

	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "profiling disabled", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := LoadProfile(context.Background(), srv.URL)
		assert.ErrorContains(t, err, "profiling disabled")
	})
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value int64
		unit  string
		want  string
	}{
		{"zero bytes", 0, "bytes", "0 B"},
		{"small bytes", 512, "bytes", "512 B"},
		{"kibibytes", 1536, "bytes", "1.5 KiB"},
		{"mebibytes", 5 * 1024 * 1024, "bytes", "5.0 MiB"},
		{"zero nanos", 0, "nanoseconds", "0s"},
		{"nanos", 1500000, "nanoseconds", "1.5ms"},
		{"count", 42, "count", "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.value, tt.unit))
		})
	}
}

func TestGraphUnit(t *testing.T) {
	assert.Equal(t, "B", graphUnit("bytes"))
	assert.Equal(t, "", graphUnit("nanoseconds"))
	assert.Equal(t, "", graphUnit("count"))
}

func TestGetExplanationForView(t *testing.T) {
	assert.Equal(t, "CPU time", getExplanationForView("samples").Title)
	assert.Equal(t, "CPU time", getExplanationForView("cpu").Title)
	assert.Equal(t, "Allocated memory", getExplanationForView("alloc_space").Title)
	assert.Equal(t, "In-use objects", getExplanationForView("inuse_objects").Title)

	unknown := getExplanationForView("wall")
	assert.Equal(t, "wall", unknown.Title)
	assert.Contains(t, unknown.Description, "No specific explanation")
}
