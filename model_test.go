package main

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() *ProfileData {
	return &ProfileData{
		DefaultSampleType: "samples",
		Views: []*ProfileView{
			{Name: "samples (count)", Type: "samples", Unit: "count", TotalValue: 10, Nodes: smallTree()},
			{Name: "alloc_space (bytes)", Type: "alloc_space", Unit: "bytes", TotalValue: 10, Nodes: smallTree()},
		},
	}
}

// sized returns a model that has seen a window size and drawn one frame, so
// hit testing works.
func sized(t *testing.T, opts options) model {
	t.Helper()
	m := newModel(testData(), opts)
	m = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})
	_ = m.View()
	return m
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelLayout(t *testing.T) {
	m := sized(t, options{minPixels: 1})

	gw, gh := m.graphSize()
	assert.Equal(t, 20, gw)
	assert.Equal(t, 10-headerHeight-infoHeight-m.footerHeight(), gh)
	assert.Len(t, m.merged, 3)
	assert.Equal(t, 20, m.mergedWidth)

	m.showSource = true
	gw, _ = m.graphSize()
	assert.Equal(t, 12, gw)
}

func TestModelSelectsSampleType(t *testing.T) {
	m := newModel(testData(), options{sampleType: "alloc_space"})
	assert.Equal(t, 1, m.current)
	assert.Equal(t, "B", m.graph.Unit())

	m = newModel(testData(), options{sampleType: "goroutine"})
	assert.Equal(t, 0, m.current)

	m = newModel(testData(), options{})
	assert.Equal(t, 0, m.current, "default sample type")
}

func TestModelClickFocuses(t *testing.T) {
	m := sized(t, options{minPixels: 1})

	// A spans the first 12 columns of the first frame row.
	m = update(t, m, tea.MouseMsg{X: 2, Y: headerHeight + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	n, ok := m.graph.Focused()
	require.True(t, ok)
	assert.Equal(t, "A", n.Name)
	assert.Equal(t, "focused A", m.status)

	_ = m.View()
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, ok = m.graph.Focused()
	assert.False(t, ok)
}

func TestModelClickOnRootRowClearsFocus(t *testing.T) {
	m := sized(t, options{minPixels: 1})
	require.True(t, m.graph.Focus(2))

	m = update(t, m, tea.MouseMsg{X: 5, Y: headerHeight, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	_, ok := m.graph.Focused()
	assert.False(t, ok)
}

func TestModelHover(t *testing.T) {
	m := sized(t, options{minPixels: 1})

	m = update(t, m, tea.MouseMsg{X: 15, Y: headerHeight + 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	n, ok := m.graph.Hovered()
	require.True(t, ok)
	assert.Equal(t, "B", n.Name)
	assert.Contains(t, m.infoView(), "Name: B")

	// Leaving the graph pane drops the hover.
	m = update(t, m, tea.MouseMsg{X: 15, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	_, ok = m.graph.Hovered()
	assert.False(t, ok)
	assert.Contains(t, m.infoView(), "CPU time")
}

func TestModelSearch(t *testing.T) {
	m := sized(t, options{minPixels: 1})

	m = update(t, m, keyRunes("/"))
	require.True(t, m.searching)
	m = update(t, m, keyRunes("C"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.searching)
	assert.Equal(t, "C", m.pattern)
	assert.True(t, m.graph.IsHighlighted(2))
	assert.False(t, m.graph.IsHighlighted(0))
	assert.Equal(t, `1 frames match "C"`, m.status)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.pattern)
	assert.False(t, m.graph.IsHighlighted(2))
}

func TestModelSwitchSampleType(t *testing.T) {
	m := sized(t, options{minPixels: 1})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.showViews)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.showViews)
	assert.Equal(t, 1, m.current)
	assert.Equal(t, "B", m.graph.Unit())
	assert.Len(t, m.graph.Data(), 3)
}

func TestModelKeepsMergedSliceAcrossRedraws(t *testing.T) {
	m := sized(t, options{minPixels: 1})
	require.True(t, m.graph.Focus(0))

	// Same width: the graph keeps its data and focus.
	m = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 12})
	_, ok := m.graph.Focused()
	assert.True(t, ok)

	// New width: the tree is re-merged and the focus restored by id.
	m = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 12})
	n, ok := m.graph.Focused()
	require.True(t, ok)
	assert.Equal(t, 0, n.ID)
	assert.Equal(t, 30, m.mergedWidth)
}

func TestModelReload(t *testing.T) {
	m := sized(t, options{minPixels: 1})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 1, m.current)

	fresh := testData()
	fresh.Views = []*ProfileView{fresh.Views[1], fresh.Views[0]}
	m = update(t, m, profileUpdateMsg{data: fresh})
	assert.Equal(t, 0, m.current, "keeps the sample type, not the index")
	assert.Equal(t, "alloc_space", m.currentView().Type)
	assert.Contains(t, m.status, "reloaded at")

	m = update(t, m, profileUpdateErr{err: errors.New("reload x: connection refused")})
	assert.True(t, m.statusErr)
	assert.Equal(t, "reload x: connection refused", m.status)
}

func TestModelCopyNeedsAFrame(t *testing.T) {
	m := sized(t, options{minPixels: 1})

	next, cmd := m.Update(keyRunes("y"))
	assert.Nil(t, cmd)
	assert.Equal(t, "nothing to copy: hover or focus a frame", next.(model).status)

	m = update(t, m, clipboardMsg{text: "A"})
	assert.Equal(t, `copied "A"`, m.status)
	m = update(t, m, clipboardMsg{err: errors.New("no clipboard")})
	assert.True(t, m.statusErr)
}

func TestModelQuit(t *testing.T) {
	m := sized(t, options{minPixels: 1})

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelRefreshTicks(t *testing.T) {
	assert.Nil(t, newModel(testData(), options{}).Init())
	assert.NotNil(t, newModel(testData(), options{refresh: 1}).Init())
}

func TestModelHeader(t *testing.T) {
	data := testData()
	data.DurationNanos = 30e9
	m := newModel(data, options{minPixels: 1})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 10})
	m.pattern = "serve"

	header := m.headerView()
	assert.Contains(t, header, "samples (count) · total 10 over 30s")
	assert.Contains(t, header, `search: "serve"`)

	// Narrow terminals get one truncated line.
	m = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})
	assert.Equal(t, 1, lipgloss.Height(m.headerView()))
	assert.Contains(t, m.headerView(), "…")
}
