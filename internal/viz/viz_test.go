package viz

import (
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/driftfield/internal/capture"
	"github.com/san-kum/driftfield/internal/engine"
	"github.com/san-kum/driftfield/internal/field"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(1, 3)
	c.Set(-1, 0)
	c.Set(100, 100)

	if got := c.Grid[0][0]; got != blank|0x1|0x80 {
		t.Errorf("expected dots 1 and 8, got %#x", got)
	}
	c.Clear()
	if c.Grid[0][0] != blank {
		t.Errorf("expected blank after clear, got %#x", c.Grid[0][0])
	}
}

func TestCanvasRasterize(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Raster().Clear(color.Black)
	c.Raster().FillCircle(field.Vec2{X: 10, Y: 10}, 3, color.NRGBA{R: 255, A: 255})
	c.Rasterize()

	cell := c.Grid[2][5]
	if cell == blank {
		t.Fatal("expected lit dots at the circle center")
	}
	if col := c.Colors[2][5]; col.R < 0.9 || col.G > 0.1 {
		t.Errorf("expected a red cell, got %+v", col)
	}
	if c.Grid[0][0] != blank {
		t.Errorf("expected dark corner, got %#x", c.Grid[0][0])
	}

	out := c.String()
	if strings.Count(out, "\n") != 5 {
		t.Errorf("expected 5 rows, got %d", strings.Count(out, "\n"))
	}
	if !strings.ContainsRune(out, cell) {
		t.Errorf("expected rendered output to contain %q", cell)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("missing").Name != "neon" {
		t.Error("expected fallback to neon")
	}
	seen := map[string]bool{}
	th := ThemeNeon
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) || th.Name != "neon" {
		t.Errorf("expected NextTheme to visit every theme and wrap, saw %v", seen)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}

func TestGradientText(t *testing.T) {
	if GradientText("", "#000000", "#ffffff") != "" {
		t.Error("expected empty output for empty text")
	}
	out := GradientText("abc", "#ff0000", "#0000ff")
	for _, r := range "abc" {
		if !strings.ContainsRune(out, r) {
			t.Errorf("expected %q in output", r)
		}
	}
}

func newModel(t *testing.T, captures *capture.Store) Model {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.Rand = field.NewRand(9)
	eng := engine.New(opts)
	m, err := NewModel(eng, Options{FPS: 30, Captures: captures})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(eng.Stop)
	return m
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelResize(t *testing.T) {
	m := newModel(t, nil)
	m = update(m, tea.WindowSizeMsg{Width: 142, Height: 41})
	m = update(m, TickMsg(time.Now()))

	// 142 - 40 - 2 = 100 cells, 40 rows; 4 field pixels per dot
	st := m.eng.Stats()
	if st.Width != 800 || st.Height != 640 {
		t.Errorf("expected an 800x640 field, got %dx%d", st.Width, st.Height)
	}
	if st.Particles != 25 {
		t.Errorf("expected 25 particles, got %d", st.Particles)
	}
	if w, h := m.canvas.Raster().Size(); w != 200 || h != 160 {
		t.Errorf("expected a 200x160 dot raster, got %dx%d", w, h)
	}
}

func TestModelPause(t *testing.T) {
	m := newModel(t, nil)
	m = update(m, TickMsg(time.Now()))
	if m.eng.Stats().Frames != 1 {
		t.Fatalf("expected 1 frame, got %d", m.eng.Stats().Frames)
	}

	m = update(m, tea.KeyMsg{Type: tea.KeySpace})
	m = update(m, TickMsg(time.Now()))
	if m.eng.Stats().Frames != 1 {
		t.Errorf("expected no frame while paused, got %d", m.eng.Stats().Frames)
	}
	view := m.View()
	if !strings.Contains(view, "PAUSED") {
		t.Error("expected paused status in view")
	}
	if !strings.Contains(view, "Links/pt") || !strings.Contains(view, "Frame p95") {
		t.Error("expected edge density and p95 frame time in view")
	}
}

func TestModelPointer(t *testing.T) {
	m := newModel(t, nil)
	x, y := m.fieldPoint(11, 3)
	if x != 84 || y != 56 {
		t.Errorf("expected (84,56), got (%f,%f)", x, y)
	}
	m = update(m, tea.MouseMsg{X: 11, Y: 3, Action: tea.MouseActionMotion})
	m = update(m, TickMsg(time.Now()))
	if m.eng.Stats().Frames != 1 {
		t.Errorf("expected frame after pointer move, got %d", m.eng.Stats().Frames)
	}
}

func TestModelSnapshotAndRecording(t *testing.T) {
	store := capture.New(t.TempDir())
	m := newModel(t, store)
	m = update(m, TickMsg(time.Now()))
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if !strings.HasPrefix(m.status, "saved png_") {
		t.Errorf("expected snapshot saved, got status %q", m.status)
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	for i := 0; i < 3; i++ {
		m = update(m, TickMsg(time.Now()))
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	if !strings.HasPrefix(m.status, "saved gif_") {
		t.Errorf("expected recording saved, got status %q", m.status)
	}

	caps, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(caps) != 2 || caps[1].Frames != 3 {
		t.Errorf("expected a snapshot and a 3 frame recording, got %+v", caps)
	}
	for _, name := range []string{"frame_ms", "frame_p95_ms", "edges_per_particle"} {
		if _, ok := caps[1].Metrics[name]; !ok {
			t.Errorf("expected metric %s in capture, got %v", name, caps[1].Metrics)
		}
	}
}

func TestModelWithoutCaptureStore(t *testing.T) {
	m := newModel(t, nil)
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if m.status != "no capture directory" {
		t.Errorf("expected capture to be refused, got %q", m.status)
	}
}

func TestModelQuit(t *testing.T) {
	m := newModel(t, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}
