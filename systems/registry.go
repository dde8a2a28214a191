package systems

import "github.com/pthm-cable/liquid/telemetry"

// PhaseInfo describes a step phase for UI display.
type PhaseInfo struct {
	ID          string // Phase name as recorded by the perf collector
	Name        string // Display name
	Description string // What this phase does
	Category    string // Grouping ("host" or "solver")
}

// PhaseRegistry holds metadata about the step phases.
// This centralizes phase naming so the UI and perf tracker stay in sync.
type PhaseRegistry struct {
	phases []PhaseInfo
	byID   map[string]PhaseInfo
}

// NewPhaseRegistry creates a registry with all step phases in execution order.
func NewPhaseRegistry() *PhaseRegistry {
	reg := &PhaseRegistry{
		byID: make(map[string]PhaseInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the phases recorded by the host and the solver.
// Update this when adding new phases.
func (r *PhaseRegistry) registerDefaults() {
	r.Register(PhaseInfo{ID: telemetry.PhaseEmit, Name: "Emit", Description: "Spawns particles from emitters", Category: "host"})
	r.Register(PhaseInfo{ID: telemetry.PhaseDrain, Name: "Drain", Description: "Removes particles inside drains", Category: "host"})

	r.Register(PhaseInfo{ID: telemetry.PhaseResync, Name: "Resync", Description: "Sizes the predicted-position buffer", Category: "solver"})
	r.Register(PhaseInfo{ID: telemetry.PhaseIntegrate, Name: "Integrate", Description: "Applies force and predicts positions", Category: "solver"})
	r.Register(PhaseInfo{ID: telemetry.PhaseBounds, Name: "Bounds", Description: "Reduces predicted positions to a box", Category: "solver"})
	r.Register(PhaseInfo{ID: telemetry.PhaseGrid, Name: "Grid", Description: "Pads the box to whole cells", Category: "solver"})

	r.Register(PhaseInfo{ID: telemetry.PhaseBinning, Name: "Binning", Description: "Sorts particles into cells", Category: "host"})
	r.Register(PhaseInfo{ID: telemetry.PhaseCommit, Name: "Commit", Description: "Moves particles to predicted positions", Category: "solver"})
	r.Register(PhaseInfo{ID: telemetry.PhaseTelemetry, Name: "Telemetry", Description: "Flushes windowed stats", Category: "host"})
}

// Register adds a phase to the registry.
func (r *PhaseRegistry) Register(info PhaseInfo) {
	r.phases = append(r.phases, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *PhaseRegistry) Get(id string) (PhaseInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *PhaseRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *PhaseRegistry) All() []PhaseInfo {
	return r.phases
}

// ByCategory returns phases filtered by category.
func (r *PhaseRegistry) ByCategory(category string) []PhaseInfo {
	var result []PhaseInfo
	for _, info := range r.phases {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all phase IDs in registration order.
func (r *PhaseRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, info := range r.phases {
		ids[i] = info.ID
	}
	return ids
}
