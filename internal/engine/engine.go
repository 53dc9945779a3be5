package engine

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/link"
	"github.com/san-kum/driftfield/internal/physics"
	"github.com/san-kum/driftfield/internal/render"
)

// Target supplies the surface frames are drawn on.
type Target interface {
	Context() (render.Surface, error)
}

type Options struct {
	Spawn   field.SpawnPolicy
	Physics physics.Params
	Style   render.Style
	Linker  link.Linker
	Rand    *rand.Rand

	// NewClock builds the pacing clock for each Start.
	NewClock func() Clock

	// OnFrame, when set, runs after every frame on the goroutine that drew
	// it, so it may read the surface. It must not call Stop; canceling the
	// context passed to Start ends the loop from inside the hook.
	OnFrame func(Stats)
	Logger  *log.Logger
}

func DefaultOptions() Options {
	return Options{
		Spawn:    field.DefaultSpawnPolicy(),
		Physics:  physics.DefaultParams(),
		Style:    render.DefaultStyle(),
		Linker:   link.NewWindowLinker(link.DefaultWindow, link.DefaultThreshold),
		NewClock: func() Clock { return NewTickerClock(config.DefaultFPS) },
	}
}

// OptionsFromConfig builds engine options from a validated configuration.
func OptionsFromConfig(cfg *config.Config, logger *log.Logger) (Options, error) {
	sp, err := cfg.SpawnPolicy()
	if err != nil {
		return Options{}, err
	}
	style, err := cfg.Style()
	if err != nil {
		return Options{}, err
	}
	l, err := cfg.Linker()
	if err != nil {
		return Options{}, err
	}
	fps := cfg.Loop.FPS
	return Options{
		Spawn:    sp,
		Physics:  cfg.PhysicsParams(),
		Style:    style,
		Linker:   l,
		Rand:     field.NewRand(cfg.Field.Seed),
		NewClock: func() Clock { return NewTickerClock(fps) },
		Logger:   logger,
	}, nil
}

type size struct{ w, h int }

// Stats is a snapshot of the engine's counters.
type Stats struct {
	Frames     uint64
	Particles  int
	Edges      int
	Generation uint64
	Width      int
	Height     int
	LastFrame  time.Duration
}

type Engine struct {
	spawn    field.SpawnPolicy
	stepper  *physics.Stepper
	linker   link.Linker
	renderer *render.Renderer
	rng      *rand.Rand
	newClock func() Clock
	onFrame  func(Stats)
	log      *log.Logger

	// owned by whoever runs frames
	store   *field.Store
	pointer field.Pointer
	w, h    int

	resizeBox  chan size
	pointerBox chan field.Vec2

	mu       sync.Mutex
	surface  render.Surface
	cancel   context.CancelFunc
	done     chan struct{}
	attached bool

	frames     atomic.Uint64
	particles  atomic.Int64
	edges      atomic.Int64
	generation atomic.Uint64
	dims       atomic.Uint64
	lastFrame  atomic.Int64
}

func New(opts Options) *Engine {
	if opts.Linker == nil {
		opts.Linker = link.NewWindowLinker(link.DefaultWindow, link.DefaultThreshold)
	}
	if opts.Rand == nil {
		opts.Rand = field.NewRand(0)
	}
	if opts.NewClock == nil {
		opts.NewClock = func() Clock { return NewTickerClock(config.DefaultFPS) }
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Engine{
		spawn:      opts.Spawn,
		stepper:    physics.NewStepper(opts.Physics),
		linker:     opts.Linker,
		renderer:   render.New(opts.Style),
		rng:        opts.Rand,
		newClock:   opts.NewClock,
		onFrame:    opts.OnFrame,
		log:        opts.Logger,
		store:      field.NewStore(),
		resizeBox:  make(chan size, 1),
		pointerBox: make(chan field.Vec2, 1),
	}
}

// Start acquires the target's surface, populates the field for a w x h
// surface and runs frames on a new goroutine until Stop or ctx is done.
func (e *Engine) Start(ctx context.Context, target Target, w, h int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done != nil || e.attached {
		return ErrRunning
	}
	s, err := acquire(target)
	if err != nil {
		e.log.Error("start failed", "err", err)
		return err
	}

	e.reset(w, h)
	ctx, cancel := context.WithCancel(ctx)
	clock := e.newClock()
	done := make(chan struct{})
	e.surface, e.cancel, e.done = s, cancel, done

	go e.run(ctx, clock, s, done)
	e.log.Info("engine started", "width", w, "height", h, "particles", e.store.Len())
	return nil
}

// Attach prepares host-driven mode: the caller runs frames with Frame on
// its own schedule.
func (e *Engine) Attach(target Target, w, h int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done != nil || e.attached {
		return ErrRunning
	}
	s, err := acquire(target)
	if err != nil {
		e.log.Error("attach failed", "err", err)
		return err
	}
	e.reset(w, h)
	e.surface, e.attached = s, true
	e.log.Info("engine attached", "width", w, "height", h, "particles", e.store.Len())
	return nil
}

// Frame applies pending events and renders one frame in host-driven mode.
func (e *Engine) Frame() error {
	e.mu.Lock()
	s, ok := e.surface, e.attached
	e.mu.Unlock()
	if !ok {
		return ErrNotAttached
	}
	e.drain()
	e.frame(s)
	return nil
}

// Stop ends the loop or detaches the host. It returns once no further frame
// can run and is safe to call any number of times.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.attached {
		e.surface, e.attached = nil, false
		e.mu.Unlock()
		e.log.Info("engine detached", "frames", e.frames.Load())
		return
	}
	cancel, done := e.cancel, e.done
	e.mu.Unlock()
	if done == nil {
		return
	}
	cancel()
	<-done
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done != nil || e.attached
}

// Resize records the latest surface size. It never blocks; an unapplied
// earlier size is discarded.
func (e *Engine) Resize(w, h int) {
	post(e.resizeBox, size{w, h})
}

// PointerMove records the latest pointer position in surface coordinates.
func (e *Engine) PointerMove(x, y float64) {
	post(e.pointerBox, field.Vec2{X: x, Y: y})
}

func (e *Engine) Stats() Stats {
	d := e.dims.Load()
	return Stats{
		Frames:     e.frames.Load(),
		Particles:  int(e.particles.Load()),
		Edges:      int(e.edges.Load()),
		Generation: e.generation.Load(),
		Width:      int(d >> 32),
		Height:     int(uint32(d)),
		LastFrame:  time.Duration(e.lastFrame.Load()),
	}
}

func (e *Engine) run(ctx context.Context, clock Clock, s render.Surface, done chan struct{}) {
	defer e.release(clock, done)
	for {
		select {
		case <-ctx.Done():
			return
		case sz := <-e.resizeBox:
			e.apply(sz)
		case p := <-e.pointerBox:
			e.pointer.Move(p.X, p.Y)
		case <-clock.C():
			if ctx.Err() != nil {
				return
			}
			e.frame(s)
		}
	}
}

// release runs on every loop exit, whether from Stop or a canceled context.
func (e *Engine) release(clock Clock, done chan struct{}) {
	clock.Stop()
	e.mu.Lock()
	if e.done == done {
		e.cancel()
		e.surface, e.cancel, e.done = nil, nil, nil
	}
	e.mu.Unlock()
	e.log.Info("engine stopped", "frames", e.frames.Load())
	close(done)
}

func (e *Engine) frame(s render.Surface) {
	start := time.Now()
	e.stepper.Step(e.store, e.pointer.Position(), e.w, e.h)
	edges := e.linker.Link(e.store)
	e.renderer.Draw(s, e.store, edges)

	e.edges.Store(int64(len(edges)))
	e.lastFrame.Store(int64(time.Since(start)))
	e.frames.Add(1)
	if e.onFrame != nil {
		e.onFrame(e.Stats())
	}
}

func (e *Engine) drain() {
	select {
	case sz := <-e.resizeBox:
		e.apply(sz)
	default:
	}
	select {
	case p := <-e.pointerBox:
		e.pointer.Move(p.X, p.Y)
	default:
	}
}

// reset discards stale events and repopulates for a fresh run.
func (e *Engine) reset(w, h int) {
	select {
	case <-e.resizeBox:
	default:
	}
	select {
	case <-e.pointerBox:
	default:
	}
	e.pointer.Reset()
	e.frames.Store(0)
	e.edges.Store(0)
	e.populate(w, h)
}

func (e *Engine) apply(sz size) {
	if sz.w == e.w && sz.h == e.h {
		return
	}
	e.log.Debug("resize", "from", fmt.Sprintf("%dx%d", e.w, e.h), "to", fmt.Sprintf("%dx%d", sz.w, sz.h))
	e.populate(sz.w, sz.h)
}

func (e *Engine) populate(w, h int) {
	e.w, e.h = w, h
	n := e.spawn.Populate(e.store, e.rng, w, h)
	e.particles.Store(int64(n))
	e.generation.Store(e.store.Generation())
	e.dims.Store(uint64(uint32(max(w, 0)))<<32 | uint64(uint32(max(h, 0))))
	e.log.Debug("populated", "particles", n, "generation", e.store.Generation())
}

func acquire(target Target) (render.Surface, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target", ErrNoContext)
	}
	s, err := target.Context()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoContext, err)
	}
	if s == nil {
		return nil, ErrNoContext
	}
	return s, nil
}

// post stores v in a single-slot mailbox, replacing any unread value.
func post[T any](box chan T, v T) {
	for {
		select {
		case box <- v:
			return
		default:
		}
		select {
		case <-box:
		default:
		}
	}
}
