package engine

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/link"
	"github.com/san-kum/driftfield/internal/render"
)

const tickWait = 50 * time.Millisecond

type failingTarget struct{}

func (failingTarget) Context() (render.Surface, error) {
	return nil, errors.New("no 2d context")
}

func newTestEngine(clock *ManualClock) *Engine {
	opts := DefaultOptions()
	opts.Rand = field.NewRand(42)
	opts.NewClock = func() Clock { return clock }
	return New(opts)
}

var _ = Describe("Engine", func() {
	var (
		clock  *ManualClock
		eng    *Engine
		raster *render.Raster
	)

	BeforeEach(func() {
		clock = NewManualClock()
		eng = newTestEngine(clock)
		raster = render.NewRaster(800, 600)
	})

	AfterEach(func() {
		eng.Stop()
	})

	Describe("Start", func() {
		It("populates the field for the surface size", func() {
			Expect(eng.Start(context.Background(), raster, 800, 600)).To(Succeed())
			Expect(eng.Running()).To(BeTrue())

			st := eng.Stats()
			Expect(st.Particles).To(Equal(24))
			Expect(st.Width).To(Equal(800))
			Expect(st.Height).To(Equal(600))
		})

		It("renders one frame per tick", func() {
			Expect(eng.Start(context.Background(), raster, 800, 600)).To(Succeed())
			for i := 0; i < 3; i++ {
				Expect(clock.Tick(time.Second)).To(BeTrue())
			}
			Eventually(func() uint64 { return eng.Stats().Frames }).Should(Equal(uint64(3)))
		})

		It("refuses to start twice", func() {
			Expect(eng.Start(context.Background(), raster, 800, 600)).To(Succeed())
			err := eng.Start(context.Background(), raster, 800, 600)
			Expect(err).To(MatchError(ErrRunning))
		})

		It("does not loop when the target has no context", func() {
			err := eng.Start(context.Background(), failingTarget{}, 800, 600)
			Expect(errors.Is(err, ErrNoContext)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("no 2d context"))
			Expect(eng.Running()).To(BeFalse())
			Expect(clock.Tick(tickWait)).To(BeFalse())
			Expect(eng.Stats().Frames).To(BeZero())
		})

		It("exits the loop when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			Expect(eng.Start(ctx, raster, 800, 600)).To(Succeed())
			cancel()
			Eventually(func() bool { return clock.Tick(tickWait) }).Should(BeFalse())
		})

		It("releases the surface and clock when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			Expect(eng.Start(ctx, raster, 800, 600)).To(Succeed())
			cancel()

			Eventually(eng.Running).Should(BeFalse())
			Expect(clock.Stops()).To(Equal(1))
			eng.mu.Lock()
			Expect(eng.surface).To(BeNil())
			eng.mu.Unlock()

			Expect(eng.Start(context.Background(), raster, 800, 600)).To(Succeed())
			Expect(clock.Tick(time.Second)).To(BeTrue())
			eng.Stop()
			Expect(clock.Stops()).To(Equal(2))
		})
	})

	Describe("Stop", func() {
		It("is idempotent and stops frames", func() {
			Expect(eng.Start(context.Background(), raster, 800, 600)).To(Succeed())
			Expect(clock.Tick(time.Second)).To(BeTrue())
			Eventually(func() uint64 { return eng.Stats().Frames }).Should(Equal(uint64(1)))

			eng.Stop()
			eng.Stop()
			Expect(eng.Running()).To(BeFalse())
			Expect(clock.Stops()).To(Equal(1))

			Expect(clock.Tick(tickWait)).To(BeFalse())
			Consistently(func() uint64 { return eng.Stats().Frames }, tickWait).Should(Equal(uint64(1)))
		})

		It("is a no-op before Start", func() {
			eng.Stop()
			Expect(eng.Running()).To(BeFalse())
			Expect(clock.Stops()).To(BeZero())
		})

		It("allows a fresh start after stopping", func() {
			for i := 0; i < 3; i++ {
				Expect(eng.Start(context.Background(), raster, 800, 600)).To(Succeed())
				Expect(clock.Tick(time.Second)).To(BeTrue())
				eng.Stop()
			}
			Expect(clock.Stops()).To(Equal(3))
		})
	})

	Describe("Resize", func() {
		It("replaces the whole population", func() {
			Expect(eng.Start(context.Background(), raster, 800, 600)).To(Succeed())
			before := eng.Stats().Generation

			eng.Resize(400, 300)
			Eventually(func() int { return eng.Stats().Particles }).Should(Equal(6))

			st := eng.Stats()
			Expect(st.Generation).To(Equal(before + 1))
			Expect(st.Width).To(Equal(400))
			Expect(st.Height).To(Equal(300))
		})

		It("keeps only the latest pending size", func() {
			Expect(eng.Attach(raster, 800, 600)).To(Succeed())
			before := eng.Stats().Generation

			eng.Resize(100, 100)
			eng.Resize(200, 200)
			eng.Resize(1000, 1000)
			Expect(eng.Frame()).To(Succeed())

			st := eng.Stats()
			Expect(st.Generation).To(Equal(before + 1))
			Expect(st.Particles).To(Equal(50))
		})

		It("ignores a size that did not change", func() {
			Expect(eng.Attach(raster, 800, 600)).To(Succeed())
			before := eng.Stats().Generation
			eng.Resize(800, 600)
			Expect(eng.Frame()).To(Succeed())
			Expect(eng.Stats().Generation).To(Equal(before))
		})

		It("empties the field for a zero-area surface", func() {
			Expect(eng.Attach(raster, 800, 600)).To(Succeed())
			eng.Resize(0, 600)
			Expect(eng.Frame()).To(Succeed())
			Expect(eng.Stats().Particles).To(BeZero())
		})
	})

	Describe("host-driven frames", func() {
		It("requires Attach", func() {
			Expect(eng.Frame()).To(MatchError(ErrNotAttached))
		})

		It("runs frames on the caller and detaches on Stop", func() {
			Expect(eng.Attach(raster, 800, 600)).To(Succeed())
			Expect(eng.Start(context.Background(), raster, 800, 600)).To(MatchError(ErrRunning))

			for i := 0; i < 5; i++ {
				Expect(eng.Frame()).To(Succeed())
			}
			Expect(eng.Stats().Frames).To(Equal(uint64(5)))
			Expect(eng.Stats().LastFrame).To(BeNumerically(">", 0))

			eng.Stop()
			Expect(eng.Frame()).To(MatchError(ErrNotAttached))
			Expect(clock.Stops()).To(BeZero())
		})

		It("reports edges between nearby particles", func() {
			opts := DefaultOptions()
			opts.Rand = field.NewRand(7)
			opts.Spawn.AreaPerParticle = 1000
			opts.Spawn.Speed = 0
			e := New(opts)
			Expect(e.Attach(render.NewRaster(200, 200), 200, 200)).To(Succeed())
			defer e.Stop()

			Expect(e.Frame()).To(Succeed())
			Expect(e.Stats().Particles).To(Equal(40))
			Expect(e.Stats().Edges).To(BeNumerically(">", 0))
		})
	})

	Describe("OnFrame", func() {
		It("runs on the loop goroutine after each frame", func() {
			seen := make(chan Stats, 4)
			opts := DefaultOptions()
			opts.Rand = field.NewRand(1)
			opts.NewClock = func() Clock { return clock }
			opts.OnFrame = func(st Stats) { seen <- st }
			e := New(opts)
			Expect(e.Start(context.Background(), raster, 800, 600)).To(Succeed())
			defer e.Stop()

			Expect(clock.Tick(time.Second)).To(BeTrue())
			Expect(clock.Tick(time.Second)).To(BeTrue())
			var st Stats
			Eventually(seen).Should(Receive(&st))
			Expect(st.Frames).To(Equal(uint64(1)))
			Eventually(seen).Should(Receive(&st))
			Expect(st.Frames).To(Equal(uint64(2)))
			Expect(st.Particles).To(Equal(24))
		})
	})

	Describe("OnFrame cancel", func() {
		It("ends the loop from inside the hook", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			opts := DefaultOptions()
			opts.Rand = field.NewRand(1)
			opts.NewClock = func() Clock { return clock }
			opts.OnFrame = func(st Stats) {
				if st.Frames == 2 {
					cancel()
				}
			}
			e := New(opts)
			Expect(e.Start(ctx, raster, 800, 600)).To(Succeed())

			Expect(clock.Tick(time.Second)).To(BeTrue())
			Expect(clock.Tick(time.Second)).To(BeTrue())
			Eventually(e.Running).Should(BeFalse())
			Expect(e.Stats().Frames).To(Equal(uint64(2)))
			Expect(clock.Stops()).To(Equal(1))
			e.Stop()
			Expect(clock.Stops()).To(Equal(1))
		})
	})

	Describe("PointerMove", func() {
		It("pulls particles toward the latest pointer", func() {
			opts := DefaultOptions()
			opts.Rand = field.NewRand(3)
			opts.Spawn.AreaPerParticle = 2000
			opts.Spawn.Speed = 0
			opts.Physics.Damping = 1
			e := New(opts)
			Expect(e.Attach(render.NewRaster(300, 300), 300, 300)).To(Succeed())
			defer e.Stop()

			e.PointerMove(10, 10)
			e.PointerMove(150, 150)
			for i := 0; i < 50; i++ {
				Expect(e.Frame()).To(Succeed())
			}

			near := 0
			for _, p := range e.store.Particles() {
				if p.Pos.Dist(field.Vec2{X: 150, Y: 150}) < 150 {
					Expect(p.Vel.Len()).To(BeNumerically(">", 0))
					near++
				}
			}
			Expect(near).To(BeNumerically(">", 0))
		})
	})

	Describe("OptionsFromConfig", func() {
		It("applies the configured sections", func() {
			cfg := config.DefaultConfig()
			cfg.Link.Mode = "grid"
			cfg.Field.Seed = 9
			opts, err := OptionsFromConfig(cfg, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(opts.Linker).To(BeAssignableToTypeOf(&link.GridLinker{}))
			Expect(opts.Spawn.MaxParticles).To(Equal(cfg.Field.MaxParticles))
			Expect(opts.NewClock).NotTo(BeNil())
		})

		It("seeds the field deterministically", func() {
			cfg := config.DefaultConfig()
			cfg.Field.Seed = 11
			positions := func() []field.Vec2 {
				opts, err := OptionsFromConfig(cfg, nil)
				Expect(err).NotTo(HaveOccurred())
				e := New(opts)
				Expect(e.Attach(render.NewRaster(800, 600), 800, 600)).To(Succeed())
				defer e.Stop()
				var out []field.Vec2
				for _, p := range e.store.Particles() {
					out = append(out, p.Pos)
				}
				return out
			}
			Expect(positions()).To(Equal(positions()))
		})

		It("rejects a bad palette", func() {
			cfg := config.DefaultConfig()
			cfg.Field.Palette = []string{"not-a-color"}
			_, err := OptionsFromConfig(cfg, nil)
			Expect(err).To(HaveOccurred())
		})
	})
})
