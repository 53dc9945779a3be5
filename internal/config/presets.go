package config

import "sort"

// Presets tweak the default configuration; each entry overrides only the
// fields it names.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"dense": func(c *Config) {
		c.Field.AreaPerParticle = 8000
		c.Field.MaxParticles = 150
		c.Link.Mode = "grid"
	},
	"calm": func(c *Config) {
		c.Field.Speed = 0.3
		c.Field.AngularSpeed = 0.003
		c.Physics.AttractStrength = 0.004
		c.Physics.Damping = 0.995
		c.Field.Palette = []string{"#4060FF", "#40C0FF", "#8080FF", "#C0A0FF"}
	},
	"constellation": func(c *Config) {
		c.Field.Size.Min, c.Field.Size.Max = 1, 3
		c.Field.MaxParticles = 120
		c.Field.AreaPerParticle = 6000
		c.Field.TrailLength = 0
		c.Link.Mode = "grid"
		c.Link.Threshold = 120
		c.Render.EdgeOpacity = 0.5
		c.Render.GlowScale = 2
		c.Field.Palette = []string{"#FFFFFF", "#C0D0FF", "#FFE0A0"}
	},
	"sparse": func(c *Config) {
		c.Field.AreaPerParticle = 60000
		c.Field.MaxParticles = 20
		c.Field.TrailLength = 8
		c.Render.InnerAlpha = 0.85
		c.Render.OuterAlpha = 0.9
	},
}

// GetPreset returns the default configuration with the named preset applied,
// or nil when no such preset exists.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
