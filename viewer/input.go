package viewer

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.sim.TogglePaused()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.pending.Reset = true
	}
	if rl.IsKeyPressed(rl.KeyN) && v.sim.Paused() {
		v.pending.Step = true
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controlsPanel.Toggle()
	}

	// Overlay hotkeys; drain the queue so several keys in one frame all apply
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		v.overlays.HandleKeyPress(key)
	}

	v.handleCameraInput()

	mouse := rl.GetMousePosition()
	if v.controlPanel.Contains(mouse.X, mouse.Y) {
		return
	}
	p := v.sim.Particles()
	v.inspector.HandleInput(v.cam, v.sim.Bins(), v.sim.Predicted(), p.Size)
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h

	v.cam.Resize(w, h)
	v.background.Resize(int32(w), int32(h))
	v.inspector.Resize(int32(w), int32(h))
	v.perfPanel.SetPosition(int32(w)-260, int32(h)-260)
	v.controlPanel.SetPosition(10, h-210)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	// Pixels per frame; Pan converts to world units
	const panSpeed = float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
	}

	// Zoom toward the cursor with the wheel
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		v.cam.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}
