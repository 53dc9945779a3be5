package viz

import (
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/driftfield/internal/capture"
	"github.com/san-kum/driftfield/internal/engine"
	"github.com/san-kum/driftfield/internal/export"
	"github.com/san-kum/driftfield/internal/metrics"
	"github.com/san-kum/driftfield/internal/render"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	statsWidth      = 40
	historyCapacity = 120
	maxRecording    = 600

	// DefaultScale is how many field pixels one Braille dot covers.
	DefaultScale = 4.0
)

type TickMsg time.Time

type Options struct {
	FPS   int
	Scale float64
	Theme string

	// Captures receives snapshots and recordings; nil disables both.
	Captures *capture.Store
	Preset   string
	Seed     uint64
	Logger   *log.Logger
}

// Model drives an attached engine from Bubble Tea's update loop.
type Model struct {
	eng      *engine.Engine
	canvas   *Canvas
	surface  *render.Scaled
	opts     Options
	theme    Theme
	cols     int
	rows     int
	running  bool
	showHelp bool
	status   string

	edgeHistory *metrics.Series
	frameTime   *metrics.FrameTime
	frameP95    *metrics.FrameTime
	density     *metrics.EdgeDensity
	tracked     []metrics.Metric
	recording   bool
	recorder    *export.Recorder
	log         *log.Logger
}

type canvasTarget struct{ s render.Surface }

func (t canvasTarget) Context() (render.Surface, error) { return t.s, nil }

// NewModel attaches eng to a canvas sized for a default terminal; the first
// WindowSizeMsg resizes it.
func NewModel(eng *engine.Engine, o Options) (Model, error) {
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}

	cols, rows := canvasSize(defaultCols, defaultRows)
	canvas := NewCanvas(cols, rows)
	surface := render.Scale(canvas.Raster(), o.Scale)
	surface.MinWidth = 1

	m := Model{
		eng:         eng,
		canvas:      canvas,
		surface:     surface,
		opts:        o,
		theme:       GetTheme(o.Theme),
		cols:        cols,
		rows:        rows,
		running:     true,
		edgeHistory: metrics.NewSeries(historyCapacity),
		frameTime:   metrics.NewFrameTime(historyCapacity, 0),
		frameP95:    metrics.NewFrameTime(historyCapacity, 95),
		density:     metrics.NewEdgeDensity(historyCapacity),
		recorder:    export.NewRecorder(maxRecording),
		log:         o.Logger,
	}
	m.tracked = []metrics.Metric{m.frameTime, m.frameP95, m.density}
	w, h := surface.Size()
	if err := eng.Attach(canvasTarget{surface}, w, h); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Run starts the terminal program and blocks until the user quits.
func Run(eng *engine.Engine, o Options) error {
	m, err := NewModel(eng, o)
	if err != nil {
		return err
	}
	defer eng.Stop()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		x, y := m.fieldPoint(msg.X, msg.Y)
		m.eng.PointerMove(x, y)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		case "g":
			m.toggleRecording()
		case "s":
			m.snapshot()
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	if err := m.eng.Frame(); err != nil {
		m.status = err.Error()
		return
	}
	m.canvas.Rasterize()

	st := m.eng.Stats()
	m.edgeHistory.Add(float64(st.Edges))
	metrics.Observe(m.tracked, st)
	if m.recording {
		m.recorder.Add(m.canvas.Raster().Image())
	}
}

// resize fits the canvas to a terminal of w x h cells and reports the new
// field size to the engine.
func (m *Model) resize(w, h int) {
	cols, rows := canvasSize(w, h)
	if cols == m.cols && rows == m.rows {
		return
	}
	m.cols, m.rows = cols, rows
	m.canvas.Resize(cols, rows)
	m.surface.S = m.canvas.Raster()
	fw, fh := m.surface.Size()
	m.eng.Resize(fw, fh)
	if m.recording {
		m.recorder.Reset()
		m.status = "recording restarted after resize"
	}
	m.log.Debug("terminal resized", "cols", cols, "rows", rows, "field", fmt.Sprintf("%dx%d", fw, fh))
}

func (m *Model) reset() {
	m.eng.Stop()
	fw, fh := m.surface.Size()
	if err := m.eng.Attach(canvasTarget{m.surface}, fw, fh); err != nil {
		m.status = err.Error()
		return
	}
	m.edgeHistory.Reset()
	for _, mt := range m.tracked {
		mt.Reset()
	}
	m.status = "repopulated"
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.recorder.Reset()
		m.status = "recording"
		return
	}
	m.recording = false
	m.status = m.save("gif", m.recorder.Frames())
	m.recorder.Reset()
}

func (m *Model) snapshot() {
	m.status = m.save("png", []image.Image{m.canvas.Raster().Image()})
}

func (m *Model) save(format string, frames []image.Image) string {
	if m.opts.Captures == nil {
		return "no capture directory"
	}
	st := m.eng.Stats()
	w, h := m.canvas.Raster().Size()
	id, err := m.opts.Captures.Save(capture.Metadata{
		Format:    format,
		Preset:    m.opts.Preset,
		Seed:      m.opts.Seed,
		Width:     w,
		Height:    h,
		Particles: st.Particles,
		Metrics:   metrics.Values(m.tracked),
	}, frames, 100/m.opts.FPS)
	if err != nil {
		m.log.Error("capture failed", "err", err)
		return "capture failed: " + err.Error()
	}
	m.log.Info("captured", "id", id)
	return "saved " + id
}

// fieldPoint maps a terminal cell to field coordinates at the center of
// the cell's dot block.
func (m Model) fieldPoint(col, row int) (float64, float64) {
	col -= canvasPadX
	row -= canvasPadY
	k := m.surface.K
	return (float64(col)*2 + 1) * k, (float64(row)*4 + 2) * k
}

const (
	canvasPadX = 1
	canvasPadY = 0
)

// canvasSize returns the canvas cells left beside the stats panel.
func canvasSize(w, h int) (int, int) {
	return max(w-statsWidth-2*canvasPadX, 1), max(h-2*canvasPadY-1, 1)
}

func (m Model) View() string {
	t := m.theme
	canvasView := lipgloss.NewStyle().Padding(canvasPadY, canvasPadX).Render(m.canvas.String())

	label := lipgloss.NewStyle().Foreground(t.Muted).Width(12)
	value := lipgloss.NewStyle().Foreground(t.Text)

	st := m.eng.Stats()
	status := "RUNNING"
	statusStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	if !m.running {
		status = "PAUSED"
		statusStyle = statusStyle.Foreground(t.Warning)
	}
	if m.recording {
		status += fmt.Sprintf("  REC %d", m.recorder.Len())
	}

	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).MarginBottom(1).Render(GradientText("DRIFTFIELD", t.Primary, t.Accent)) + "\n")
	s.WriteString(statusStyle.Render(status) + "\n\n")

	if hist := m.edgeHistory.Values(); len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(statsWidth-12), asciigraph.Caption("Edges"))
		s.WriteString(lipgloss.NewStyle().Foreground(t.Graph).Padding(1, 0).Render(chart) + "\n\n")
	}

	s.WriteString(label.Render("Particles") + value.Render(fmt.Sprintf("%d", st.Particles)) + "\n")
	s.WriteString(label.Render("Edges") + value.Render(fmt.Sprintf("%d", st.Edges)) + "\n")
	s.WriteString(label.Render("Field") + value.Render(fmt.Sprintf("%dx%d", st.Width, st.Height)) + "\n")
	s.WriteString(label.Render("Links/pt") + value.Render(fmt.Sprintf("%.2f", m.density.Value())) + "\n")
	s.WriteString(label.Render("Frame") + value.Render(fmt.Sprintf("%.2fms", m.frameTime.Value())) + "\n")
	s.WriteString(label.Render("Frame p95") + value.Render(fmt.Sprintf("%.2fms", m.frameP95.Value())) + "\n")
	s.WriteString(label.Render("Frames") + value.Render(fmt.Sprintf("%d", st.Frames)) + "\n")
	s.WriteString(label.Render("Theme") + value.Render(t.Name) + "\n")
	if m.status != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Accent).Render(m.status) + "\n")
	}
	s.WriteString(lipgloss.NewStyle().Foreground(t.Muted).MarginTop(2).Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nT:Theme  G:Record S:Snap\n?:Help"))

	panel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Muted).
		Padding(1, 2).
		Width(statsWidth - 2).
		Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panel)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Repopulate the field     ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  S        - Save a PNG snapshot      ║
║  Mouse    - Attract particles        ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
