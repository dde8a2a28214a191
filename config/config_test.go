package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Particles.Count != 100 {
		t.Errorf("particles.count = %d, want 100", cfg.Particles.Count)
	}
	if cfg.Derived.DT32 != 0.01 {
		t.Errorf("derived dt = %v, want 0.01", cfg.Derived.DT32)
	}
	if cfg.Derived.Gravity != (mgl32.Vec3{0, -9.81, 0}) {
		t.Errorf("derived gravity = %v", cfg.Derived.Gravity)
	}
	if cfg.Derived.Spacing32 != cfg.Derived.Size32 {
		t.Errorf("zero spacing should fall back to size, got %v", cfg.Derived.Spacing32)
	}
	if got, want := cfg.Derived.KernelRadius, float32(5.0)*float32(0.2); got != want {
		t.Errorf("kernel radius = %v, want %v", got, want)
	}
	if len(cfg.Derived.Drains) != len(cfg.Drains) {
		t.Errorf("derived drains = %d, want %d", len(cfg.Derived.Drains), len(cfg.Drains))
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	overlay := `
physics:
  gravity: [1, 2]
solver:
  kernel_scale: 2
emitters:
  - origin: [0, 3]
    velocity: [1, 0, 0]
    rate: 20
`
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Untouched fields keep their defaults
	if cfg.Physics.DT != 0.01 {
		t.Errorf("dt = %v, want default 0.01", cfg.Physics.DT)
	}
	if cfg.Derived.Gravity != (mgl32.Vec3{1, 2, 0}) {
		t.Errorf("gravity = %v, want {1 2 0}", cfg.Derived.Gravity)
	}
	if cfg.Derived.KernelScale32 != 2 {
		t.Errorf("kernel scale = %v, want 2", cfg.Derived.KernelScale32)
	}
	if len(cfg.Derived.Emitters) != 1 {
		t.Fatalf("emitters = %d, want 1", len(cfg.Derived.Emitters))
	}
	e := cfg.Derived.Emitters[0]
	if e.Name != "emitter-0" {
		t.Errorf("unnamed emitter got name %q", e.Name)
	}
	if e.Origin != (mgl32.Vec3{0, 3, 0}) || e.Rate != 20 {
		t.Errorf("emitter = %+v", e)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
		want    string
	}{
		{"zero dt", "physics:\n  dt: 0\n", "physics.dt"},
		{"negative size", "particles:\n  size: -1\n", "particles.size"},
		{"zero kernel scale", "solver:\n  kernel_scale: 0\n", "solver.kernel_scale"},
		{"bad gravity", "physics:\n  gravity: [1]\n", "physics.gravity"},
		{"bad drain", "drains:\n  - name: pit\n    min: [0, 0, 0, 0]\n", "pit.min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Particles.Count = 42

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Particles.Count != 42 {
		t.Errorf("count = %d, want 42", back.Particles.Count)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() { global = saved }()

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
