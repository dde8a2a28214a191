package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the particle state of a simulation for inspection or resume.
// JSON cannot encode NaN or Inf, so diverged states fail to save.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`
	Tick    int32 `json:"tick"`

	DT           float32 `json:"dt"`
	Size         float32 `json:"size"`
	GravityScale float32 `json:"gravity_scale"`

	Particles []ParticleState `json:"particles"`
	Emitters  []EmitterState  `json:"emitters,omitempty"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ParticleState holds one particle.
type ParticleState struct {
	Position     mgl32.Vec3 `json:"pos"`
	PositionPrev mgl32.Vec3 `json:"prev"`
	Velocity     mgl32.Vec3 `json:"vel"`
}

// EmitterState holds the carried fractional emission of a named emitter.
type EmitterState struct {
	Name  string  `json:"name"`
	Accum float32 `json:"accum"`
}

// CaptureParticles copies the particle buffers into snapshot form.
func CaptureParticles(p *components.ParticleData) []ParticleState {
	out := make([]ParticleState, p.NumParticles())
	for i := range out {
		out[i] = ParticleState{
			Position:     p.Position[i],
			PositionPrev: p.PositionPrev[i],
			Velocity:     p.Velocity[i],
		}
	}
	return out
}

// RestoreParticles rebuilds particle buffers from the snapshot.
func (s *Snapshot) RestoreParticles() *components.ParticleData {
	p := components.NewParticleData(len(s.Particles), s.Size)
	for i, ps := range s.Particles {
		p.Position[i] = ps.Position
		p.PositionPrev[i] = ps.PositionPrev
		p.Velocity[i] = ps.Velocity
	}
	return p
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
