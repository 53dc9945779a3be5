package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/link"
	"github.com/san-kum/driftfield/internal/physics"
	"github.com/san-kum/driftfield/internal/render"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS        = 60
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultBackground = "#000000"
	DefaultInnerAlpha = 0.95
	DefaultOuterAlpha = 0.98
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Field   FieldConfig   `yaml:"field"`
	Physics PhysicsConfig `yaml:"physics"`
	Link    LinkConfig    `yaml:"link"`
	Render  RenderConfig  `yaml:"render"`
	Loop    LoopConfig    `yaml:"loop"`
}

type FieldConfig struct {
	AreaPerParticle float64     `yaml:"area_per_particle"`
	MaxParticles    int         `yaml:"max_particles"`
	Size            field.Range `yaml:"size"`
	Opacity         field.Range `yaml:"opacity"`
	Speed           float64     `yaml:"speed"`
	AngularSpeed    float64     `yaml:"angular_speed"`
	TrailLength     int         `yaml:"trail_length"`
	Palette         []string    `yaml:"palette"`
	Seed            uint64      `yaml:"seed"`
}

type PhysicsConfig struct {
	AttractRadius   float64 `yaml:"attract_radius"`
	AttractStrength float64 `yaml:"attract_strength"`
	Damping         float64 `yaml:"damping"`
}

type LinkConfig struct {
	Mode      string  `yaml:"mode"`
	Window    int     `yaml:"window"`
	Threshold float64 `yaml:"threshold"`
}

type RenderConfig struct {
	Background   string  `yaml:"background"`
	InnerAlpha   float64 `yaml:"inner_alpha"`
	OuterAlpha   float64 `yaml:"outer_alpha"`
	TrailOpacity float64 `yaml:"trail_opacity"`
	GlowScale    float64 `yaml:"glow_scale"`
	EdgeOpacity  float64 `yaml:"edge_opacity"`
	EdgeWidth    float64 `yaml:"edge_width"`
}

type LoopConfig struct {
	FPS    int `yaml:"fps"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Field: FieldConfig{
			AreaPerParticle: field.DefaultAreaPerParticle,
			MaxParticles:    field.DefaultMaxParticles,
			Size:            field.Range{Min: 2, Max: 8},
			Opacity:         field.Range{Min: 0.2, Max: 1.0},
			Speed:           field.DefaultSpeed,
			AngularSpeed:    field.DefaultAngularSpeed,
			TrailLength:     field.DefaultTrailLength,
			Palette:         append([]string(nil), field.DefaultColors...),
		},
		Physics: PhysicsConfig{
			AttractRadius:   physics.DefaultAttractRadius,
			AttractStrength: physics.DefaultAttractStrength,
			Damping:         physics.DefaultDamping,
		},
		Link: LinkConfig{
			Mode:      "window",
			Window:    link.DefaultWindow,
			Threshold: link.DefaultThreshold,
		},
		Render: RenderConfig{
			Background:   DefaultBackground,
			InnerAlpha:   DefaultInnerAlpha,
			OuterAlpha:   DefaultOuterAlpha,
			TrailOpacity: render.DefaultTrailOpacity,
			GlowScale:    render.DefaultGlowScale,
			EdgeOpacity:  render.DefaultEdgeOpacity,
			EdgeWidth:    render.DefaultEdgeWidth,
		},
		Loop: LoopConfig{
			FPS:    DefaultFPS,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver overlays the YAML file at path onto base and returns base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first out-of-range setting, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	f := c.Field
	switch {
	case f.AreaPerParticle <= 0:
		return invalid("field.area_per_particle must be positive, got %g", f.AreaPerParticle)
	case f.MaxParticles < 0:
		return invalid("field.max_particles must not be negative, got %d", f.MaxParticles)
	case f.Size.Min <= 0 || f.Size.Max < f.Size.Min:
		return invalid("field.size must satisfy 0 < min <= max, got [%g, %g]", f.Size.Min, f.Size.Max)
	case f.Opacity.Min < 0 || f.Opacity.Max > 1 || f.Opacity.Max < f.Opacity.Min:
		return invalid("field.opacity must lie in [0, 1], got [%g, %g]", f.Opacity.Min, f.Opacity.Max)
	case f.Speed < 0 || f.AngularSpeed < 0:
		return invalid("field speeds must not be negative")
	case f.TrailLength < 0:
		return invalid("field.trail_length must not be negative, got %d", f.TrailLength)
	}
	if _, err := field.NewPalette(f.Palette); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	p := c.Physics
	if p.AttractRadius < 0 || p.AttractStrength < 0 {
		return invalid("physics attraction must not be negative")
	}
	if p.Damping < 0 || p.Damping > 1 {
		return invalid("physics.damping must lie in [0, 1], got %g", p.Damping)
	}

	if c.Link.Mode != "" && c.Link.Mode != "window" && c.Link.Mode != "grid" {
		return invalid("link.mode must be window or grid, got %q", c.Link.Mode)
	}
	if c.Link.Window < 1 || c.Link.Threshold <= 0 {
		return invalid("link.window and link.threshold must be positive")
	}

	r := c.Render
	if _, err := colorful.Hex(r.Background); err != nil {
		return invalid("render.background %q: %v", r.Background, err)
	}
	for _, a := range []float64{r.InnerAlpha, r.OuterAlpha, r.TrailOpacity, r.EdgeOpacity} {
		if a < 0 || a > 1 {
			return invalid("render opacities must lie in [0, 1], got %g", a)
		}
	}
	if r.GlowScale < 0 || r.EdgeWidth < 0 {
		return invalid("render sizes must not be negative")
	}

	if c.Loop.FPS <= 0 {
		return invalid("loop.fps must be positive, got %d", c.Loop.FPS)
	}
	if c.Loop.Width < 0 || c.Loop.Height < 0 {
		return invalid("loop size must not be negative, got %dx%d", c.Loop.Width, c.Loop.Height)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

func (c *Config) SpawnPolicy() (field.SpawnPolicy, error) {
	pal, err := field.NewPalette(c.Field.Palette)
	if err != nil {
		return field.SpawnPolicy{}, err
	}
	return field.SpawnPolicy{
		AreaPerParticle: c.Field.AreaPerParticle,
		MaxParticles:    c.Field.MaxParticles,
		Size:            c.Field.Size,
		Opacity:         c.Field.Opacity,
		Speed:           c.Field.Speed,
		AngularSpeed:    c.Field.AngularSpeed,
		TrailLength:     c.Field.TrailLength,
		Palette:         pal,
	}, nil
}

func (c *Config) PhysicsParams() physics.Params {
	return physics.Params{
		AttractRadius:   c.Physics.AttractRadius,
		AttractStrength: c.Physics.AttractStrength,
		Damping:         c.Physics.Damping,
	}
}

func (c *Config) Linker() (link.Linker, error) {
	return link.New(c.Link.Mode, c.Link.Window, c.Link.Threshold)
}

func (c *Config) Style() (render.Style, error) {
	bg, err := colorful.Hex(c.Render.Background)
	if err != nil {
		return render.Style{}, fmt.Errorf("%w: render.background: %w", ErrInvalid, err)
	}
	r, g, b := bg.RGB255()
	base := color.NRGBA{R: r, G: g, B: b}
	return render.Style{
		BackgroundInner: render.WithAlpha(base, c.Render.InnerAlpha),
		BackgroundOuter: render.WithAlpha(base, c.Render.OuterAlpha),
		TrailOpacity:    c.Render.TrailOpacity,
		GlowScale:       c.Render.GlowScale,
		EdgeOpacity:     c.Render.EdgeOpacity,
		EdgeWidth:       c.Render.EdgeWidth,
	}, nil
}
