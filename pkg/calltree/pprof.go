package calltree

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/google/pprof/profile"
)

// frame is one call path of the tree while it is being built.
type frame struct {
	name     string
	mapping  string
	fileName string
	line     int

	total int64
	self  int64

	children []*frame
	byName   map[string]*frame
}

func (f *frame) child(name string) *frame {
	if c, ok := f.byName[name]; ok {
		return c
	}
	c := &frame{name: name, byName: make(map[string]*frame)}
	if f.byName == nil {
		f.byName = make(map[string]*frame)
	}
	f.byName[name] = c
	f.children = append(f.children, c)
	return c
}

// FromProfile flattens the call tree of one sample type of p.
//
// Every distinct root-to-leaf call path becomes a node; inlined frames get
// their own nodes. The result is in canonical order with ids equal to
// positions, and siblings are ordered heaviest first.
func FromProfile(p *profile.Profile, sampleIndex int) ([]Node, error) {
	if p == nil {
		return nil, fmt.Errorf("nil profile")
	}
	if sampleIndex < 0 || sampleIndex >= len(p.SampleType) {
		return nil, fmt.Errorf("sample index %d out of range [0, %d)", sampleIndex, len(p.SampleType))
	}

	root := &frame{}
	for _, s := range p.Sample {
		if sampleIndex >= len(s.Value) {
			continue
		}
		val := s.Value[sampleIndex]
		if val == 0 {
			continue
		}

		// Locations run leaf to root; within a location the last line is the
		// outermost inlined caller.
		current := root
		for i := len(s.Location) - 1; i >= 0; i-- {
			loc := s.Location[i]
			for _, fr := range locationFrames(loc) {
				next := current.child(fr.name)
				if next.fileName == "" {
					next.mapping = fr.mapping
					next.fileName = fr.fileName
					next.line = fr.line
				}
				next.total += val
				current = next
			}
		}
		if current != root {
			current.self += val
		}
	}

	return flatten(root), nil
}

func locationFrames(loc *profile.Location) []frame {
	mapping := ""
	if loc.Mapping != nil && loc.Mapping.File != "" {
		mapping = filepath.Base(loc.Mapping.File)
	}
	if len(loc.Line) == 0 {
		return []frame{{name: fmt.Sprintf("0x%x", loc.Address), mapping: mapping}}
	}

	frames := make([]frame, 0, len(loc.Line))
	for i := len(loc.Line) - 1; i >= 0; i-- {
		line := loc.Line[i]
		fr := frame{mapping: mapping, line: int(line.Line)}
		if line.Function != nil {
			fr.name = line.Function.Name
			fr.fileName = line.Function.Filename
		}
		frames = append(frames, fr)
	}
	return frames
}

// flatten walks the tree level by level so that the output satisfies the
// ordering CheckOrder expects.
func flatten(root *frame) []Node {
	type entry struct {
		f        *frame
		parentID int
	}

	var nodes []Node
	level := []entry{}
	for _, c := range sortedChildren(root) {
		level = append(level, entry{f: c, parentID: NoParent})
	}

	for depth := 0; len(level) > 0; depth++ {
		var next []entry
		for _, e := range level {
			id := len(nodes)
			nodes = append(nodes, Node{
				ID:        id,
				ParentID:  e.parentID,
				Depth:     depth,
				Name:      e.f.name,
				TotalSize: e.f.total,
				SelfSize:  e.f.self,
				Mapping:   e.f.mapping,
				FileName:  e.f.fileName,
				StartLine: e.f.line,
			})
			for _, c := range sortedChildren(e.f) {
				next = append(next, entry{f: c, parentID: id})
			}
		}
		level = next
	}
	return nodes
}

func sortedChildren(f *frame) []*frame {
	children := append([]*frame(nil), f.children...)
	sort.SliceStable(children, func(i, j int) bool {
		if children[i].total != children[j].total {
			return children[i].total > children[j].total
		}
		return children[i].name < children[j].name
	})
	return children
}
