package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	log "github.com/sirupsen/logrus"

	"github.com/Oloruntobi1/flametui/pkg/calltree"
	"github.com/Oloruntobi1/flametui/pkg/flamegraph"
)

const (
	headerHeight = 1
	infoHeight   = 1
	statusHeight = 1
	sourcePct    = 40 // share of the width given to the source pane
)

// Implements list.Item for a sample type
type item struct {
	view *ProfileView
}

func (i item) Title() string { return i.view.Name }
func (i item) Description() string {
	e := getExplanationForView(i.view.Type)
	return fmt.Sprintf("%s · total %s", e.Title, formatValue(i.view.TotalValue, i.view.Unit))
}
func (i item) FilterValue() string { return i.view.Name }

func viewItems(data *ProfileData) []list.Item {
	items := make([]list.Item, len(data.Views))
	for i, v := range data.Views {
		items[i] = item{view: v}
	}
	return items
}

// options are the command line settings the model needs.
type options struct {
	source     string
	sampleType string
	minPixels  float64
	noMerge    bool
	refresh    time.Duration
	timeout    time.Duration
}

type model struct {
	opts    options
	data    *ProfileData
	current int

	graph *flamegraph.View
	// merged is kept across redraws so the graph sees the same slice and
	// keeps its focus; it is rebuilt when the width, view or data change.
	merged      []calltree.Node
	mergedWidth int
	scroll      int

	views  list.Model
	source viewport.Model
	search textinput.Model
	help   help.Model
	keys   keyMap
	styles Styles

	width, height int
	showViews     bool
	showSource    bool
	searching     bool
	pattern       string
	status        string
	statusErr     bool
	ready         bool
}

func newModel(data *ProfileData, opts options) model {
	styles := defaultStyles()

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "frame name"

	m := model{
		opts:   opts,
		data:   data,
		views:  list.New(viewItems(data), list.NewDefaultDelegate(), 0, 0),
		source: viewport.New(0, 0),
		search: search,
		help:   help.New(),
		keys:   defaultKeyMap(),
		styles: styles,
	}
	m.views.Title = "Sample types"
	m.views.SetShowHelp(false)

	current, err := data.SelectView(opts.sampleType)
	if err != nil {
		log.WithError(err).Warn("using the first sample type")
		current = 0
	}
	m.selectView(current)
	return m
}

func (m model) Init() tea.Cmd {
	if m.opts.refresh > 0 {
		return tickerCmd(m.opts.refresh)
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		m.rebuildGraph()
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchProfileCmd(m.opts.source, m.opts.timeout), tickerCmd(m.opts.refresh))

	case profileUpdateMsg:
		m.reload(msg.data)
		return m, nil

	case profileUpdateErr:
		m.setError(msg.err.Error())
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.setError("clipboard: " + msg.err.Error())
		} else {
			m.setStatus(fmt.Sprintf("copied %q", msg.text))
		}
		return m, nil

	case tea.MouseMsg:
		if !m.showViews {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.showViews {
			return m.updateViews(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	if m.showSource {
		var cmd tea.Cmd
		m.source, cmd = m.source.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Unfocus):
		if _, ok := m.graph.Focused(); ok {
			m.graph.ClearFocus()
			m.scroll = 0
			m.setStatus("focus cleared")
		} else if m.pattern != "" {
			m.pattern = ""
			m.graph.Highlight("")
			m.setStatus("search cleared")
		}
		return nil, true
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.pattern)
		return m.search.Focus(), true
	case key.Matches(msg, m.keys.Views):
		m.showViews = true
		m.views.Select(m.current)
		return nil, true
	case key.Matches(msg, m.keys.Source):
		m.showSource = !m.showSource
		m.layout()
		m.rebuildGraph()
		m.updateSourceView()
		return nil, true
	case key.Matches(msg, m.keys.Copy):
		n, ok := m.graph.Hovered()
		if !ok {
			n, ok = m.graph.Focused()
		}
		if !ok {
			m.setStatus("nothing to copy: hover or focus a frame")
			return nil, true
		}
		return copyCmd(n.DisplayName()), true
	case key.Matches(msg, m.keys.Reload):
		m.setStatus("reloading " + m.opts.source)
		return fetchProfileCmd(m.opts.source, m.opts.timeout), true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return nil, true
	}
	return nil, false
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.pattern = strings.TrimSpace(m.search.Value())
		n := m.graph.Highlight(m.pattern)
		switch {
		case m.pattern == "":
			m.setStatus("search cleared")
		case n == 0:
			m.setError(fmt.Sprintf("no frames match %q", m.pattern))
		default:
			m.setStatus(fmt.Sprintf("%d frames match %q", n, m.pattern))
		}
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m model) updateViews(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.views.FilterState() != list.Filtering {
		switch {
		case msg.Type == tea.KeyEnter:
			m.showViews = false
			if i := m.views.Index(); i != m.current {
				m.selectView(i)
				m.rebuildGraph()
			}
			return m, nil
		case key.Matches(msg, m.keys.Views), msg.Type == tea.KeyEsc && m.views.FilterState() == list.Unfiltered:
			m.showViews = false
			return m, nil
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.views, cmd = m.views.Update(msg)
	return m, cmd
}

// handleMouse maps a terminal cell to the centre of the matching graph cell.
func (m *model) handleMouse(msg tea.MouseMsg) {
	gw, gh := m.graphSize()
	row := msg.Y - headerHeight
	if msg.X < 0 || msg.X >= gw || row < 0 || row >= gh {
		m.graph.OnMouseOut()
		return
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-1)
		return
	case tea.MouseButtonWheelDown:
		m.scrollBy(1)
		return
	}

	px := float64(msg.X) + 0.5
	py := float64(row) + 0.5
	switch msg.Action {
	case tea.MouseActionMotion:
		m.graph.OnMouseMove(px, py)
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if row+m.scroll == 0 {
			// The root row resets the focus.
			m.graph.ClearFocus()
			m.scroll = 0
			return
		}
		n, ok := m.graph.OnMouseClick(px, py)
		if !ok {
			if hovered, hit := m.graph.NodeAt(px, py); hit && hovered.Merged {
				m.setStatus("merged frames cannot be focused")
			}
			return
		}
		m.focus(n)
	}
}

func (m *model) focus(n calltree.Node) {
	if !m.graph.Focus(n.ID) {
		return
	}
	m.scroll = 0
	log.WithFields(log.Fields{"id": n.ID, "name": n.DisplayName()}).Debug("focus")
	m.setStatus("focused " + n.DisplayName())
	m.updateSourceView()
}

func (m *model) scrollBy(delta int) {
	_, gh := m.graphSize()
	limit := max(int(m.graph.Height())-gh, 0)
	m.scroll = min(max(m.scroll+delta, 0), limit)
}

func (m *model) selectView(i int) {
	m.current = i
	m.graph = flamegraph.New(
		flamegraph.WithNodeHeight(1),
		flamegraph.WithLabelPadding(0),
		flamegraph.WithTooltip(false),
		flamegraph.WithUnit(graphUnit(m.currentView().Unit)),
	)
	m.merged = nil
	m.mergedWidth = 0
	m.scroll = 0
	if m.pattern != "" {
		m.graph.Highlight(m.pattern)
	}
}

func (m *model) currentView() *ProfileView {
	return m.data.Views[m.current]
}

// rebuildGraph recomputes the merged sequence for the current graph width.
// A refocus by id keeps the focus across width changes when the node
// survived the merge.
func (m *model) rebuildGraph() {
	gw, _ := m.graphSize()
	if gw <= 0 {
		return
	}
	if m.merged != nil && gw == m.mergedWidth {
		return
	}

	view := m.currentView()
	nodes := view.Nodes
	if !m.opts.noMerge {
		minSize := calltree.MinSizeForWidth(view.TotalValue, float64(gw), m.opts.minPixels)
		nodes = calltree.Merge(view.Nodes, minSize)
	}
	focused, hadFocus := m.graph.Focused()
	m.merged, m.mergedWidth = nodes, gw
	m.graph.SetData(nodes)
	if hadFocus {
		m.graph.Focus(focused.ID)
	}
	if m.pattern != "" {
		m.graph.Highlight(m.pattern)
	}
	m.scrollBy(0)
	log.WithFields(log.Fields{
		"view":   view.Type,
		"width":  gw,
		"nodes":  len(view.Nodes),
		"merged": len(nodes),
	}).Debug("graph rebuilt")
}

func (m *model) reload(data *ProfileData) {
	prev := m.currentView().Type
	m.data = data
	m.views.SetItems(viewItems(data))
	i := data.ViewIndex(prev)
	if i < 0 {
		i = 0
	}
	m.selectView(i)
	m.rebuildGraph()
	m.setStatus("reloaded at " + time.Now().Format(time.TimeOnly))
}

func (m *model) updateSourceView() {
	if !m.showSource {
		return
	}
	n, ok := m.graph.Focused()
	if !ok {
		m.source.SetContent("Click a frame to show its source.")
		return
	}
	m.source.SetContent(sourceForNode(n))
	// The header takes three lines before the first source line.
	m.source.SetYOffset(max(n.StartLine+3-m.source.Height/2, 0))
}

func (m *model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *model) setError(s string) {
	m.status, m.statusErr = s, true
}

func (m *model) footerHeight() int {
	return statusHeight + lipgloss.Height(m.help.View(m.keys))
}

// graphSize is the cell size of the flame graph pane.
func (m *model) graphSize() (int, int) {
	w := m.width
	if m.showSource {
		w = m.width * (100 - sourcePct) / 100
	}
	h := m.height - headerHeight - infoHeight - m.footerHeight()
	return max(w, 0), max(h, 0)
}

func (m *model) layout() {
	gw, gh := m.graphSize()
	bw, bh := m.styles.Source.GetFrameSize()
	m.source.Width = max(m.width-gw-bw, 0)
	m.source.Height = max(gh-bh, 0)
	m.views.SetSize(m.width, gh)
	m.search.Width = max(m.width-2, 0)
	m.help.Width = m.width
}

func (m model) headerView() string {
	view := m.currentView()
	title := fmt.Sprintf("%s · total %s", view.Name, formatValue(view.TotalValue, view.Unit))
	if d := m.data.DurationNanos; d > 0 {
		title += " over " + formatNanos(d)
	}
	if n, ok := m.graph.Focused(); ok {
		title += " · focus: " + n.DisplayName()
	}
	search := ""
	if m.pattern != "" {
		search = fmt.Sprintf(" · search: %q", m.pattern)
	}

	avail := max(m.width-m.styles.Header.GetHorizontalFrameSize(), 0)
	if runewidth.StringWidth(title+search) > avail {
		return m.styles.Header.Width(m.width).Render(runewidth.Truncate(title+search, avail, "…"))
	}
	if search != "" {
		search = m.styles.Match.Inherit(m.styles.Header).Render(search)
	}
	return m.styles.Header.Width(m.width).Render(title + search)
}

func (m model) graphView() string {
	gw, gh := m.graphSize()
	canvas := NewTermCanvas(gw, gh)
	m.graph.Draw(canvas, float64(gw), float64(gh+m.scroll), 0, -float64(m.scroll))
	body := m.styles.Graph.Render(canvas.Render())
	if !m.showSource {
		return body
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, body, m.styles.Source.Render(m.source.View()))
}

// infoView shows the hovered frame, or what the current sample type means.
func (m model) infoView() string {
	if m.searching {
		return m.search.View()
	}
	var text string
	if lines := m.graph.TooltipLines(1, float64(m.width)); len(lines) > 0 {
		text = strings.Join(lines, " │ ")
	} else {
		e := getExplanationForView(m.currentView().Type)
		text = e.Title + ": " + e.Description
	}
	return m.styles.Info.Render(runewidth.Truncate(text, m.width, "…"))
}

func (m model) statusView() string {
	text := m.status
	if text == "" {
		text = fmt.Sprintf("%d sample types · %d frames drawn", len(m.data.Views), len(m.graph.Displayed()))
	}
	style := m.styles.Status
	if m.statusErr {
		style = style.Foreground(m.styles.Error.GetForeground())
	}
	frame := style.GetHorizontalFrameSize()
	return style.Width(m.width).Render(runewidth.Truncate(text, max(m.width-frame, 0), "…"))
}

func (m model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	body := ""
	if m.showViews {
		body = m.views.View()
	} else {
		body = m.graphView()
	}

	return m.styles.Base.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.infoView(),
		m.statusView(),
		m.help.View(m.keys),
	))
}
