package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/liquid/telemetry"
)

// ControlsPanel lists the overlays and their toggle keys.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	// Calculate panel height based on content
	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight // Extra for title

	// Draw panel background
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding

	// Title
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	// Draw overlays by category
	for _, category := range categories {
		// Category header
		catLabel := categoryLabel(category)
		rl.DrawText(catLabel, c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		// Overlays in this category
		for _, desc := range overlays.ByCategory(category) {
			enabled := overlays.IsEnabled(desc.ID)
			c.drawToggle(c.x+padding, y, desc, enabled, c.width-padding*2)
			y += lineHeight
		}

		y += 4 // Gap between categories
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	// Status indicator
	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	// Name
	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	// Key binding (right aligned)
	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "grid":
		return "Grid"
	case "particles":
		return "Particles"
	default:
		return cat
	}
}

// FluidStatsPanel renders the most recent telemetry window.
type FluidStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewFluidStatsPanel creates a new fluid stats panel.
func NewFluidStatsPanel(x, y, width int32) *FluidStatsPanel {
	return &FluidStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (q *FluidStatsPanel) SetPosition(x, y int32) {
	q.x = x
	q.y = y
}

// Draw renders the stats of a window. A window with no end tick shows a placeholder.
func (q *FluidStatsPanel) Draw(ws telemetry.WindowStats) int32 {
	r := q.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	panelHeight := lineHeight*8 + padding*2
	r.DrawPanel(q.x, q.y, q.width, panelHeight)

	y := q.y + padding
	rl.DrawText("Window Stats", q.x+padding, y, 14, rl.White)
	y += lineHeight + 2

	if ws.WindowEndTick == 0 {
		rl.DrawText("(waiting for first window)", q.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
		return y + lineHeight
	}

	inner := q.width - padding*2
	y = r.DrawLabelValue(q.x+padding, y, "Speed mean", fmt.Sprintf("%.3f", ws.SpeedMean))
	y = r.DrawLabelValue(q.x+padding, y, "Speed p90", fmt.Sprintf("%.3f", ws.SpeedP90))
	y = r.DrawLabelValue(q.x+padding, y, "Speed max", fmt.Sprintf("%.3f", ws.SpeedMax))
	y = r.DrawLabelValue(q.x+padding, y, "Flow", fmt.Sprintf("+%d / -%d", ws.Emitted, ws.Drained))

	totalCells := ws.CellsX * ws.CellsY * ws.CellsZ
	fill := float32(0)
	if totalCells > 0 {
		fill = float32(ws.OccupiedCells) / float32(totalCells)
	}
	y = r.DrawBar(q.x+padding, y, "Occupied", fill, fmt.Sprintf("%d/%d", ws.OccupiedCells, totalCells), inner)
	y = r.DrawLabelValue(q.x+padding, y, "Max/cell", fmt.Sprintf("%d", ws.MaxCellOccupancy))

	return y
}
