package gui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/driftfield/internal/engine"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/metrics"
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
)

type Options struct {
	Title  string
	Width  int
	Height int
	FPS    int

	// Wallpaper opens an undecorated window covering the monitor and reads
	// the pointer from the X11 root window.
	Wallpaper bool
	ShowHUD   bool
	Logger    *log.Logger
}

type App struct {
	Engine  *engine.Engine
	Surface *Surface
	Opts    Options

	Paused    bool
	ShowHUD   bool
	Telemetry *metrics.FrameTime
	FrameP95  *metrics.FrameTime
	Density   *metrics.EdgeDensity

	root    *RootPointer
	lastPtr field.Vec2
	log     *log.Logger
}

func initWindow(o Options) {
	rl.SetTraceLogLevel(rl.LogWarning)
	flags := uint32(rl.FlagMsaa4xHint)
	if o.Wallpaper {
		flags |= rl.FlagWindowUndecorated
	} else {
		flags |= rl.FlagWindowResizable
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(o.Width), int32(o.Height), o.Title)
	rl.SetTargetFPS(int32(o.FPS))
	rl.SetExitKey(0)

	if o.Wallpaper {
		m := rl.GetCurrentMonitor()
		rl.SetWindowSize(rl.GetMonitorWidth(m), rl.GetMonitorHeight(m))
		rl.SetWindowPosition(0, 0)
	}
}

// Run opens the window and drives eng from the window's loop until the
// window is closed. It must be called from the main goroutine.
func Run(eng *engine.Engine, o Options) error {
	if o.Title == "" {
		o.Title = "driftfield"
	}
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}

	initWindow(o)
	defer rl.CloseWindow()

	app, err := NewApp(eng, o)
	if err != nil {
		return err
	}
	defer app.Close()

	app.RunLoop()
	return nil
}

func NewApp(eng *engine.Engine, o Options) (*App, error) {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	app := &App{
		Engine:    eng,
		Surface:   NewSurface(w, h),
		Opts:      o,
		ShowHUD:   o.ShowHUD,
		Telemetry: metrics.NewFrameTime(200, 0),
		FrameP95:  metrics.NewFrameTime(200, 95),
		Density:   metrics.NewEdgeDensity(200),
		log:       o.Logger,
	}

	if o.Wallpaper {
		root, err := OpenRootPointer()
		if err != nil {
			app.log.Warn("x11 pointer unavailable, attraction disabled", "err", err)
		} else {
			app.root = root
		}
	}

	if err := eng.Attach(app.Surface, w, h); err != nil {
		app.Surface.Unload()
		return nil, fmt.Errorf("gui: %w", err)
	}
	app.log.Info("window open", "width", w, "height", h, "wallpaper", o.Wallpaper)
	return app, nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) Close() {
	a.Engine.Stop()
	a.Surface.Unload()
	if a.root != nil {
		a.root.Close()
	}
}

// Update handles input and runs one engine frame. It reports false when the
// user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Paused = !a.Paused
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		name := fmt.Sprintf("driftfield_%d.png", a.Engine.Stats().Frames)
		rl.TakeScreenshot(name)
		a.log.Info("screenshot", "file", name)
	}

	if rl.IsWindowResized() {
		w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
		a.Surface.Resize(w, h)
		a.Engine.Resize(w, h)
	}
	a.trackPointer()

	if a.Paused {
		return true
	}
	a.Surface.Begin()
	err := a.Engine.Frame()
	a.Surface.End()
	if err != nil {
		a.log.Error("frame failed", "err", err)
		return false
	}
	metrics.Observe(a.tracked(), a.Engine.Stats())
	return true
}

func (a *App) trackPointer() {
	var p field.Vec2
	if a.root != nil {
		x, y, err := a.root.Position()
		if err != nil {
			return
		}
		win := rl.GetWindowPosition()
		p = windowPoint(x, y, win.X, win.Y)
	} else {
		m := rl.GetMousePosition()
		p = field.Vec2{X: float64(m.X), Y: float64(m.Y)}
	}
	if p != a.lastPtr {
		a.lastPtr = p
		a.Engine.PointerMove(p.X, p.Y)
	}
}

// reset repopulates the field by reattaching.
func (a *App) reset() {
	a.Engine.Stop()
	w, h := a.Surface.Size()
	a.Surface.Resize(w, h)
	if err := a.Engine.Attach(a.Surface, w, h); err != nil {
		a.log.Error("reset failed", "err", err)
	}
	for _, m := range a.tracked() {
		m.Reset()
	}
}

func (a *App) tracked() []metrics.Metric {
	return []metrics.Metric{a.Telemetry, a.FrameP95, a.Density}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	a.Surface.Present()
	if a.ShowHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	st := a.Engine.Stats()
	w, h := a.Surface.Size()

	drawText("driftfield", 30, 30, 24, ColSelect)
	drawText(hudLine(st, a.Density.Value(), a.FrameP95.Value()), 170, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if a.Paused {
		status = "PAUSED"
		col = ColTextDim
	}
	drawText(status, int32(w)-130, 30, 16, col)

	a.DrawTelemetry(30, int32(h)-110)
	drawText("[SPACE] PAUSE  [R] RESET  [H] HUD  [S] SCREENSHOT  [Q] QUIT", int32(w)-580, int32(h)-30, 14, ColTextDim)
	drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, int32(h)-30, 14, ColTextDim)
}

func drawText(text string, x, y, size int32, color rl.Color) {
	rl.DrawText(text, x, y, size, color)
}

// DrawTelemetry plots recent frame cost as a line strip.
func (a *App) DrawTelemetry(x, y int32) {
	samples := a.Telemetry.Samples()
	if len(samples) < 2 {
		return
	}
	const width, height = 400, 60

	minVal, maxVal := samples[0], samples[0]
	for _, v := range samples {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(samples))
	for i, v := range samples {
		px := float32(x) + float32(i)/float32(len(samples))*width
		norm := (v - minVal) / (maxVal - minVal)
		py := float32(y+height) - float32(norm)*height
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	drawText(fmt.Sprintf("%.2f ms", samples[len(samples)-1]), x+width+10, y+height-10, 14, ColText)
}

func hudLine(st engine.Stats, density, p95 float64) string {
	return fmt.Sprintf(":: %d particles  %d edges  %.2f links/pt  p95 %.2f ms", st.Particles, st.Edges, density, p95)
}

// windowPoint converts root window coordinates to window coordinates.
func windowPoint(rootX, rootY int, winX, winY float32) field.Vec2 {
	return field.Vec2{X: float64(rootX) - float64(winX), Y: float64(rootY) - float64(winY)}
}
