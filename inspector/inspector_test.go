package inspector

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/components"
	"github.com/pthm-cable/liquid/systems"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		widget  Widget
		options map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar,max:10", WidgetBar, map[string]string{"max": "10"}},
		{"vec,fmt:%.3f,name:Prev", WidgetVec, map[string]string{"fmt": "%.3f", "name": "Prev"}},
		{"skip", WidgetSkip, map[string]string{}},
		{"unknown", WidgetAuto, map[string]string{}},
	}

	for _, tt := range tests {
		widget, options := ParseTag(tt.tag)
		if widget != tt.widget {
			t.Errorf("ParseTag(%q) widget = %v, want %v", tt.tag, widget, tt.widget)
		}
		if len(options) != len(tt.options) {
			t.Errorf("ParseTag(%q) options = %v, want %v", tt.tag, options, tt.options)
			continue
		}
		for k, v := range tt.options {
			if options[k] != v {
				t.Errorf("ParseTag(%q) option %s = %q, want %q", tt.tag, k, options[k], v)
			}
		}
	}
}

func TestExtractFieldsParticleView(t *testing.T) {
	fields := ExtractFields(&ParticleView{Index: 3, Velocity: mgl32.Vec3{1, 2, 3}})

	names := make(map[string]Field)
	for _, f := range fields {
		names[f.Name] = f
	}

	if _, ok := names["NeighborIdx"]; ok {
		t.Error("skipped field should not be extracted")
	}
	if f, ok := names["Prev"]; !ok || f.Widget != WidgetVec {
		t.Errorf("expected renamed vector field Prev, got %+v", f)
	}
	if f := names["Velocity"]; f.Value != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("velocity value = %v", f.Value)
	}
	if f := names["In grid"]; f.Widget != WidgetBool {
		t.Errorf("in grid widget = %v, want bool", f.Widget)
	}
}

func TestExtractFieldsAutoDetect(t *testing.T) {
	type sample struct {
		On     bool
		Dir    mgl32.Vec3
		Count  int
		hidden int
	}
	fields := ExtractFields(sample{hidden: 1})
	if len(fields) != 3 {
		t.Fatalf("expected 3 exported fields, got %d", len(fields))
	}
	want := []Widget{WidgetBool, WidgetVec, WidgetLabel}
	for i, f := range fields {
		if f.Widget != want[i] {
			t.Errorf("%s widget = %v, want %v", f.Name, f.Widget, want[i])
		}
	}

	if ExtractFields(42) != nil {
		t.Error("non-struct should yield no fields")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value any
		fmt   string
		want  string
	}{
		{mgl32.Vec3{1, -2, 0.5}, "%.1f", "(1.0, -2.0, 0.5)"},
		{mgl32.Vec3{1, 2, 3}, "", "(1.00, 2.00, 3.00)"},
		{float32(0.25), "", "0.25"},
		{7, "", "7"},
		{[3]int{1, 2, 0}, "", "[1 2 0]"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.value, tt.fmt); got != tt.want {
			t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.fmt, got, tt.want)
		}
	}
}

func binnedLine(t *testing.T) (*components.ParticleData, *systems.CellBins, float32) {
	t.Helper()
	p := components.NewParticleData(0, 0.1)
	for i := 0; i < 5; i++ {
		p.Append(mgl32.Vec3{float32(i) * 0.5, 0, 0}, mgl32.Vec3{1, 0, 0})
	}
	h := float32(0.6)
	min, max := systems.ComputeBounds(p.Position)
	grid, err := systems.BuildGrid(min, max, h)
	if err != nil {
		t.Fatal(err)
	}
	bins := systems.NewCellBins(0)
	if err := bins.Rebuild(grid, p.Position); err != nil {
		t.Fatal(err)
	}
	return p, bins, h
}

func TestPick(t *testing.T) {
	p, bins, _ := binnedLine(t)

	i, ok := Pick(bins, p.Position, mgl32.Vec3{1.1, 0.05, 0}, 0.2)
	if !ok || i != 2 {
		t.Errorf("Pick near x=1 = %d,%v, want 2,true", i, ok)
	}

	if _, ok := Pick(bins, p.Position, mgl32.Vec3{0.25, 0, 0}, 0.1); ok {
		t.Error("expected no particle within radius between lattice points")
	}

	// Linear fallback when nothing is binned
	bins.Clear()
	i, ok = Pick(bins, p.Position, mgl32.Vec3{1.9, 0, 0}, 0.2)
	if !ok || i != 4 {
		t.Errorf("fallback Pick = %d,%v, want 4,true", i, ok)
	}
}

func TestBuildView(t *testing.T) {
	p, bins, h := binnedLine(t)

	v := BuildView(p, p.Position, bins, h, 2)

	if v.Index != 2 || v.Position != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("unexpected view %+v", v)
	}
	if v.Speed != 1 {
		t.Errorf("speed = %v, want 1", v.Speed)
	}
	// Neighbours at distance 0.5 on both sides
	if v.Neighbors != 2 {
		t.Errorf("neighbors within h = %d, want 2", v.Neighbors)
	}
	if !v.InGrid {
		t.Error("particle should lie inside the grid")
	}
}

func TestInspectorValidate(t *testing.T) {
	ins := NewInspector(1280, 720)
	ins.Select(9)
	ins.Validate(10)
	if _, ok := ins.Selected(); !ok {
		t.Error("selection in range should survive")
	}
	ins.Validate(5)
	if _, ok := ins.Selected(); ok {
		t.Error("selection past the end should be dropped")
	}
}
