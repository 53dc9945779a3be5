package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/link"
	"github.com/san-kum/driftfield/internal/physics"
	"github.com/san-kum/driftfield/internal/render"
	"github.com/spf13/cobra"
)

func newTestCmd(t *testing.T) *cobra.Command {
	t.Helper()
	preset, configFile = "", ""
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "")
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "")
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "")
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newTestCmd(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Loop.FPS != config.DefaultFPS {
		t.Errorf("expected fps %d, got %d", config.DefaultFPS, cfg.Loop.FPS)
	}
	if cfg.Loop.Width != config.DefaultWidth || cfg.Loop.Height != config.DefaultHeight {
		t.Errorf("expected %dx%d, got %dx%d", config.DefaultWidth, config.DefaultHeight, cfg.Loop.Width, cfg.Loop.Height)
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.yaml")
	if err := os.WriteFile(path, []byte("loop:\n  fps: 24\n  width: 640\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newTestCmd(t)
	configFile = path
	if err := cmd.Flags().Set("width", "320"); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Loop.FPS != 24 {
		t.Errorf("expected fps from file 24, got %d", cfg.Loop.FPS)
	}
	if cfg.Loop.Width != 320 {
		t.Errorf("expected width from flag 320, got %d", cfg.Loop.Width)
	}
	if cfg.Loop.Height != config.DefaultHeight {
		t.Errorf("expected default height %d, got %d", config.DefaultHeight, cfg.Loop.Height)
	}
}

func TestLoadConfigPreset(t *testing.T) {
	cmd := newTestCmd(t)
	preset = "dense"
	if err := cmd.Flags().Set("seed", "7"); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := config.GetPreset("dense")
	if cfg.Field.AreaPerParticle != want.Field.AreaPerParticle {
		t.Errorf("expected area per particle %v, got %v", want.Field.AreaPerParticle, cfg.Field.AreaPerParticle)
	}
	if cfg.Field.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Field.Seed)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cmd := newTestCmd(t)
	preset = "nonexistent"
	if _, err := loadConfig(cmd); err == nil {
		t.Error("expected error for unknown preset")
	}

	cmd = newTestCmd(t)
	if err := cmd.Flags().Set("fps", "0"); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(cmd); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestBenchOneReportsMetrics(t *testing.T) {
	sp := field.DefaultSpawnPolicy()
	sp.AreaPerParticle = 1000
	l := link.NewWindowLinker(link.DefaultWindow, link.DefaultThreshold)
	r := benchOne(sp, physics.DefaultParams(), l, render.New(render.DefaultStyle()), benchSize{200, 200}, 10, 3)

	if r.particles != 40 {
		t.Errorf("expected 40 particles, got %d", r.particles)
	}
	if len(r.series) != 10 {
		t.Errorf("expected 10 frame samples, got %d", len(r.series))
	}
	if r.p95 < 0 || r.density < 0 {
		t.Errorf("expected non-negative metrics, got p95=%f density=%f", r.p95, r.density)
	}
	if r.edges > 0 && r.density == 0 {
		t.Errorf("expected edge density with %d edges", r.edges)
	}
}
