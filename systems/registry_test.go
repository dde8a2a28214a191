package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/liquid/telemetry"
)

func TestPhaseRegistryCoversPerfPhases(t *testing.T) {
	reg := NewPhaseRegistry()

	assert.Equal(t, telemetry.Phases, reg.IDs(), "registry order should match execution order")
	for _, id := range telemetry.Phases {
		info, ok := reg.Get(id)
		assert.True(t, ok, id)
		assert.NotEmpty(t, info.Name, id)
	}

	assert.Equal(t, "unknown", reg.GetName("unknown"))
	assert.Len(t, reg.ByCategory("solver"), 5)
	assert.Len(t, reg.ByCategory("host"), 4)
}
