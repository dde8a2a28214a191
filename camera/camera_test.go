package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 60, 1, -2)

	if cam.X != 1 || cam.Y != -2 {
		t.Errorf("expected camera at (1, -2), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	if cam.Scale() != 60 {
		t.Errorf("expected scale 60, got %f", cam.Scale())
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 60, 0, 0)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(0, 0)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestWorldYPointsUp(t *testing.T) {
	cam := New(1280, 720, 60, 0, 0)

	_, syUp := cam.WorldToScreen(0, 1)
	if math.Abs(float64(syUp-300)) > 0.01 {
		t.Errorf("world y=1 should be 60px above centre, got sy=%f", syUp)
	}
	sx, _ := cam.WorldToScreen(1, 0)
	if math.Abs(float64(sx-700)) > 0.01 {
		t.Errorf("world x=1 should be 60px right of centre, got sx=%f", sx)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 60, 0.5, -3)
	cam.SetZoom(1.7)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPan(t *testing.T) {
	cam := New(1280, 720, 60, 0, 0)

	// Dragging the view right by 60px moves one world unit
	cam.Pan(60, 0)
	if math.Abs(float64(cam.X-1)) > 1e-5 {
		t.Errorf("expected X=1 after pan, got %f", cam.X)
	}

	// Screen down is world down
	cam.Pan(0, 120)
	if math.Abs(float64(cam.Y+2)) > 1e-5 {
		t.Errorf("expected Y=-2 after pan, got %f", cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 60, 0, 0)

	cam.SetZoom(0.001) // Below min
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(1000) // Above max
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(1280, 720, 60, 0, 0)

	wx, wy := cam.ScreenToWorld(900, 200)
	cam.ZoomAt(900, 200, 2)
	sx, sy := cam.WorldToScreen(wx, wy)

	if math.Abs(float64(sx-900)) > 0.01 || math.Abs(float64(sy-200)) > 0.01 {
		t.Errorf("anchor moved to (%f, %f)", sx, sy)
	}
	if cam.Zoom != 2 {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 64, 0, 0)

	// Visible range: x in [-10, 10], y in [-5.625, 5.625]
	if !cam.IsVisible(0, 0, 0.1) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(30, 20, 0.1) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(-10.5, 0, 1) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 60, 1, 2)
	cam.X = 500
	cam.Y = 500
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 1 || cam.Y != 2 {
		t.Errorf("expected position (1, 2), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
