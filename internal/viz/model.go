package viz

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/lsys/internal/analysis"
	"github.com/san-kum/lsys/internal/config"
	"github.com/san-kum/lsys/internal/grammar"
	"github.com/san-kum/lsys/internal/raster"
	"github.com/san-kum/lsys/internal/render"
	"github.com/san-kum/lsys/internal/storage"
	"github.com/san-kum/lsys/internal/turtle"
)

const (
	canvasWidth  = 80
	canvasHeight = 24
	statsWidth   = 52

	// AutoInterval is the auto-advance period.
	AutoInterval = 500 * time.Millisecond
	// WrapIteration is where auto-advance restarts after the last iteration.
	WrapIteration = 5
)

type TickMsg time.Time

type renderedMsg struct {
	preset    int
	iteration int
	segs      []turtle.Segment
	series    []analysis.Growth
	elapsed   time.Duration
	err       error
}

type savedMsg struct {
	id  string
	err error
}

// Model is the interactive viewer: one preset at one iteration, drawn on a
// braille canvas.
type Model struct {
	presets   []config.Preset
	selected  int
	iteration int
	maxIter   int
	auto      bool
	pending   bool

	renderer *render.Renderer
	store    *storage.Store

	canvas  *Canvas
	theme   Theme
	styles  styles
	segs    []turtle.Segment
	series  []analysis.Growth
	elapsed time.Duration
	status  string
	err     error
}

// NewModel builds a viewer over presets starting at the one named start.
// store may be nil, which disables saving.
func NewModel(r *render.Renderer, store *storage.Store, presets []config.Preset, start string) Model {
	maxIter := r.Options().MaxIterations
	if maxIter <= 0 {
		maxIter = config.DefaultMaxIterations
	}
	m := Model{
		presets:  presets,
		maxIter:  maxIter,
		renderer: r,
		store:    store,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		theme:    Themes[0],
		styles:   newStyles(Themes[0]),
	}
	for i, p := range presets {
		if p.Name == start {
			m.selected = i
		}
	}
	m.resetIteration()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(AutoInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.requestRender(), tick())
}

func (m Model) Preset() config.Preset { return m.presets[m.selected] }
func (m Model) Iteration() int        { return m.iteration }
func (m Model) Auto() bool            { return m.auto }
func (m Model) Theme() Theme          { return m.theme }
func (m Model) Err() error            { return m.err }
func (m Model) Canvas() *Canvas       { return m.canvas }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		w := max(msg.Width-statsWidth-4, 10)
		h := max(msg.Height-2, 5)
		m.canvas = NewCanvas(w, h)
		m.canvas.Plot(m.segs)

	case TickMsg:
		var cmd tea.Cmd
		if m.auto && !m.pending {
			m.advance()
			cmd = m.requestRender()
		}
		return m, tea.Batch(cmd, tick())

	case renderedMsg:
		if msg.preset != m.selected || msg.iteration != m.iteration {
			return m, nil
		}
		m.pending = false
		if msg.err != nil {
			m.err = msg.err
			if m.auto && errors.Is(msg.err, grammar.ErrResourceLimit) {
				m.iteration = min(WrapIteration, m.maxIter)
				return m, m.requestRender()
			}
			return m, nil
		}
		m.err = nil
		m.segs, m.series, m.elapsed = msg.segs, msg.series, msg.elapsed
		m.canvas.Plot(m.segs)

	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
		} else {
			m.status = "saved " + msg.id
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.selected = (m.selected + 1) % len(m.presets)
		m.resetIteration()
		return m, m.requestRender()
	case "shift+tab":
		m.selected = (m.selected + len(m.presets) - 1) % len(m.presets)
		m.resetIteration()
		return m, m.requestRender()
	case "up", "k":
		if m.iteration < m.maxIter {
			m.iteration++
			return m, m.requestRender()
		}
	case "down", "j":
		if m.iteration > 0 {
			m.iteration--
			return m, m.requestRender()
		}
	case " ":
		m.auto = !m.auto
	case "t":
		m.theme = nextTheme(m.theme.Name)
		m.styles = newStyles(m.theme)
	case "s":
		return m, m.saveCmd()
	}
	return m, nil
}

func (m *Model) resetIteration() {
	m.iteration = min(max(m.presets[m.selected].Iterations, 0), m.maxIter)
}

func (m *Model) advance() {
	m.iteration++
	if m.iteration > m.maxIter {
		m.iteration = min(WrapIteration, m.maxIter)
	}
}

func (m *Model) requestRender() tea.Cmd {
	m.pending = true
	r, p, idx, n := m.renderer, m.presets[m.selected], m.selected, m.iteration
	return func() tea.Msg {
		start := time.Now()
		segs, err := r.Segments(p, n)
		if err != nil {
			return renderedMsg{preset: idx, iteration: n, err: err}
		}
		return renderedMsg{
			preset:    idx,
			iteration: n,
			segs:      segs,
			series:    analysis.GrowthSeries(p.Grammar(), n),
			elapsed:   time.Since(start),
		}
	}
}

func (m Model) saveCmd() tea.Cmd {
	if m.store == nil {
		return func() tea.Msg { return savedMsg{err: errors.New("no data directory")} }
	}
	r, st, p, n := m.renderer, m.store, m.presets[m.selected], m.iteration
	return func() tea.Msg {
		f, err := r.Render(p, n)
		if err != nil {
			return savedMsg{err: err}
		}
		id, err := st.Save(p, []*render.Frame{f}, storage.SaveOptions{Format: raster.PNG})
		return savedMsg{id: id, err: err}
	}
}

func (m Model) View() string {
	st := m.styles
	p := m.presets[m.selected]

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(p.Name)) + "\n")
	s.WriteString(st.sub.Render(p.Description) + "\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Preset", fmt.Sprintf("%d/%d", m.selected+1, len(m.presets)))
	row("Iteration", fmt.Sprintf("%-3d %s", m.iteration, ProgressBar(m.iteration, m.maxIter, 20)))
	if n := len(m.series); n > 0 {
		last := m.series[n-1]
		row("Symbols", fmt.Sprintf("%d", last.Length))
		if last.Ratio > 0 {
			row("Growth", fmt.Sprintf("x%.3f", last.Ratio))
		}
	}
	row("Segments", fmt.Sprintf("%d", len(m.segs)))
	if b := analysis.Bounds(m.segs); !b.Empty() {
		row("Extent", fmt.Sprintf("%.0f x %.0f", b.Width(), b.Height()))
	}
	row("Render", m.elapsed.Round(time.Microsecond).String())

	mode := "MANUAL"
	switch {
	case m.pending:
		mode = "RENDERING"
	case m.auto:
		mode = "AUTO"
	}
	row("Mode", st.active.Render(mode))
	row("Theme", m.theme.Name)

	if len(m.series) > 2 {
		data := make([]float64, len(m.series))
		for i, g := range m.series {
			data[i] = math.Log10(float64(max(g.Length, 1)))
		}
		chart := asciigraph.Plot(data, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("log10 symbols"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + st.warn.Render(m.err.Error()) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}

	s.WriteString(st.help.Render(st.keyHelp("tab", "preset", "↑↓", "iteration", "space", "auto")))
	s.WriteString("\n" + st.keyHelp("t", "theme", "s", "save png", "q", "quit"))

	canvasView := st.canvas.Render(m.canvas.String())
	statsView := st.stats.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run starts the viewer in the alternate screen and blocks until it quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
