package calltree

import (
	"testing"

	"github.com/google/pprof/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() *profile.Profile {
	mapping := &profile.Mapping{ID: 1, File: "/usr/bin/server"}
	fn := func(id uint64, name string) *profile.Function {
		return &profile.Function{ID: id, Name: name, Filename: name + ".go"}
	}
	mainFn, serveFn, readFn, gcFn, inlinedFn := fn(1, "main"), fn(2, "serve"), fn(3, "read"), fn(4, "gc"), fn(5, "decode")

	loc := func(id uint64, lines ...*profile.Function) *profile.Location {
		l := &profile.Location{ID: id, Mapping: mapping, Address: 0x1000 + id}
		for i, f := range lines {
			l.Line = append(l.Line, profile.Line{Function: f, Line: int64(10 * (i + 1))})
		}
		return l
	}
	mainLoc := loc(1, mainFn)
	serveLoc := loc(2, serveFn)
	// decode was inlined into read.
	readLoc := loc(3, inlinedFn, readFn)
	gcLoc := loc(4, gcFn)
	rawLoc := &profile.Location{ID: 5, Mapping: mapping, Address: 0xdead}

	return &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "samples", Unit: "count"},
			{Type: "cpu", Unit: "nanoseconds"},
		},
		Mapping:  []*profile.Mapping{mapping},
		Function: []*profile.Function{mainFn, serveFn, readFn, gcFn, inlinedFn},
		Location: []*profile.Location{mainLoc, serveLoc, readLoc, gcLoc, rawLoc},
		Sample: []*profile.Sample{
			{Location: []*profile.Location{readLoc, serveLoc, mainLoc}, Value: []int64{5, 500}},
			{Location: []*profile.Location{serveLoc, mainLoc}, Value: []int64{2, 200}},
			{Location: []*profile.Location{gcLoc}, Value: []int64{3, 300}},
			{Location: []*profile.Location{rawLoc, mainLoc}, Value: []int64{1, 100}},
			{Location: []*profile.Location{gcLoc}, Value: []int64{0, 0}},
		},
	}
}

func TestFromProfile(t *testing.T) {
	nodes, err := FromProfile(testProfile(), 0)
	require.NoError(t, err)
	require.NoError(t, CheckOrder(nodes))

	names := make([]string, 0, len(nodes))
	for i, n := range nodes {
		assert.Equal(t, i, n.ID)
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"main", "gc", "serve", "0xdead", "read", "decode"}, names)

	assert.Equal(t, int64(11), FindRootSize(nodes))

	main := nodes[0]
	assert.Equal(t, int64(8), main.TotalSize)
	assert.Equal(t, int64(0), main.SelfSize)
	assert.Equal(t, "server", main.Mapping)
	assert.Equal(t, "main.go", main.FileName)

	serve := nodes[2]
	assert.Equal(t, 0, serve.ParentID)
	assert.Equal(t, int64(7), serve.TotalSize)
	assert.Equal(t, int64(2), serve.SelfSize)

	decode := nodes[5]
	assert.Equal(t, 3, decode.Depth)
	assert.Equal(t, 4, decode.ParentID)
	assert.Equal(t, int64(5), decode.SelfSize)
	assert.Equal(t, 10, decode.StartLine)
}

func TestFromProfileSampleIndex(t *testing.T) {
	nodes, err := FromProfile(testProfile(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), FindRootSize(nodes))

	_, err = FromProfile(testProfile(), 2)
	assert.Error(t, err)

	_, err = FromProfile(nil, 0)
	assert.Error(t, err)
}
