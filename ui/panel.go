package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlState is the simulation state the control panel edits.
type ControlState struct {
	Paused       bool
	GravityScale float32
	ShowGrid     bool
	ShowCells    bool
}

// ControlActions reports one-shot requests made through the panel.
type ControlActions struct {
	Reset bool
	Step  bool
}

// Gravity slider range
const (
	MinGravityScale = -2.0
	MaxGravityScale = 4.0
)

// ControlPanel is the raygui panel for pausing, resetting, gravity and grid display.
type ControlPanel struct {
	renderer *Renderer
	x, y     float32
	width    float32
}

// NewControlPanel creates a control panel at the given position.
func NewControlPanel(x, y, width float32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlPanel) SetPosition(x, y float32) {
	c.x = x
	c.y = y
}

// Height returns the panel height in pixels.
func (c *ControlPanel) Height() float32 {
	return 170
}

// Contains reports whether a screen point lies on the panel.
func (c *ControlPanel) Contains(sx, sy float32) bool {
	return sx >= c.x && sx <= c.x+c.width && sy >= c.y && sy <= c.y+c.Height()
}

// Draw renders the panel, updating state from the widgets, and returns the
// buttons pressed this frame.
func (c *ControlPanel) Draw(state *ControlState) ControlActions {
	var actions ControlActions
	pad := float32(c.renderer.Theme.Padding)

	c.renderer.DrawPanel(int32(c.x), int32(c.y), int32(c.width), int32(c.Height()))

	x := c.x + pad
	y := c.y + pad
	rl.DrawText("Controls", int32(x), int32(y), 16, rl.White)
	y += 24

	btnW := (c.width - 3*pad) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: btnW, Height: 24}, toggleText(state.Paused, "Resume", "Pause")) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: x + btnW + pad, Y: y, Width: btnW, Height: 24}, "Reset") {
		actions.Reset = true
	}
	y += 30

	if state.Paused {
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: btnW, Height: 20}, "Step") {
			actions.Step = true
		}
	}
	y += 26

	rl.DrawText(fmt.Sprintf("Gravity x%.2f", state.GravityScale), int32(x), int32(y), 12, rl.LightGray)
	y += 16
	state.GravityScale = gui.SliderBar(
		rl.Rectangle{X: x + 20, Y: y, Width: c.width - 2*pad - 50, Height: 16},
		fmt.Sprintf("%.0f", MinGravityScale), fmt.Sprintf("%.0f", MaxGravityScale),
		state.GravityScale, MinGravityScale, MaxGravityScale,
	)
	y += 26

	state.ShowGrid = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 14, Height: 14}, "Grid box", state.ShowGrid)
	state.ShowCells = gui.CheckBox(rl.Rectangle{X: x + btnW + pad, Y: y, Width: 14, Height: 14}, "Cells", state.ShowCells)

	return actions
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
