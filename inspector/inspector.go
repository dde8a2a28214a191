// Package inspector shows the state of a single picked particle.
package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/camera"
	"github.com/pthm-cable/liquid/components"
	"github.com/pthm-cable/liquid/systems"
)

// Panel dimensions
const (
	PanelWidth   = 340
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorNeighbor    = rl.Color{R: 255, G: 220, B: 120, A: 160}
)

// ParticleView is the inspected state of one particle.
type ParticleView struct {
	Index     int        `inspect:"label"`
	Position  mgl32.Vec3 `inspect:"vec,fmt:%.3f"`
	Previous  mgl32.Vec3 `inspect:"vec,fmt:%.3f,name:Prev"`
	Velocity  mgl32.Vec3 `inspect:"vec,fmt:%.3f"`
	Speed     float32    `inspect:"bar,max:10,fmt:%.2f"`
	Cell      [3]int     `inspect:"label"`
	Neighbors int        `inspect:"label,name:Within h"`
	Capped    bool       `inspect:"bool,name:Neighbours capped"`
	InGrid    bool       `inspect:"bool,name:In grid"`

	// Neighbour indices for the highlight, not listed in the panel
	NeighborIdx []int32 `inspect:"skip"`
}

// BuildView collects the state of particle i. bins and predicted must come
// from the same tick; h is the kernel radius.
func BuildView(p *components.ParticleData, predicted []mgl32.Vec3, bins *systems.CellBins, h float32, i int) ParticleView {
	v := ParticleView{
		Index:    i,
		Position: p.Position[i],
		Previous: p.PositionPrev[i],
		Velocity: p.Velocity[i],
		Speed:    p.Velocity[i].Len(),
	}

	grid := bins.Grid()
	if !grid.IsEmpty() && grid.IsFinite() {
		v.Cell = grid.CellCoord(p.Position[i])
		v.InGrid = grid.Contains(p.Position[i])
	}

	if i < len(predicted) && len(predicted) == p.NumParticles() {
		neighbors, capped := bins.QueryRadiusInto(nil, predicted[i], h, int32(i), predicted)
		v.Neighbors = len(neighbors)
		v.Capped = capped
		v.NeighborIdx = make([]int32, len(neighbors))
		for k, n := range neighbors {
			v.NeighborIdx[k] = n.Index
		}
	}
	return v
}

// Pick returns the particle nearest to p within radius. It searches the bins
// and falls back to a linear scan when nothing is binned.
func Pick(bins *systems.CellBins, positions []mgl32.Vec3, p mgl32.Vec3, radius float32) (int, bool) {
	best := -1
	bestSq := radius * radius

	if bins.NumCells() > 0 {
		// A capped query may miss the nearest particle
		neighbors, _ := bins.QueryRadiusInto(nil, p, radius, -1, positions)
		for _, n := range neighbors {
			if n.DistSq <= bestSq {
				best, bestSq = int(n.Index), n.DistSq
			}
		}
		return best, best >= 0
	}

	for i, q := range positions {
		d := q.Sub(p)
		if distSq := d.Dot(d); distSq <= bestSq {
			best, bestSq = i, distSq
		}
	}
	return best, best >= 0
}

// Inspector manages particle selection and panel rendering.
type Inspector struct {
	selected    int
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	return &Inspector{
		panelX: screenWidth - PanelWidth - 10,
		panelY: 10,
	}
}

// Resize re-anchors the panel to the right edge of the screen.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

// HandleInput processes clicks: left selects the particle under the cursor,
// right or Escape deselects.
func (ins *Inspector) HandleInput(cam *camera.Camera, bins *systems.CellBins, positions []mgl32.Vec3, size float32) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	mouse := rl.GetMousePosition()
	mx, my := int32(mouse.X), int32(mouse.Y)

	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if mx >= closeX && mx <= closeX+20 && my >= closeY && my <= closeY+20 {
			ins.Deselect()
			return
		}
		// Clicks inside the panel are ignored
		if mx >= ins.panelX && mx <= ins.panelX+PanelWidth && my >= ins.panelY && my <= ins.panelY+ins.panelHeight() {
			return
		}
	}

	wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
	// Hit radius: particle radius plus a few pixels of slack
	hit := size + 4/cam.Scale()
	if i, ok := Pick(bins, positions, mgl32.Vec3{wx, wy, 0}, hit); ok {
		ins.Select(i)
	}
}

// Select marks particle i as selected.
func (ins *Inspector) Select(i int) {
	ins.selected = i
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the index of the selected particle.
func (ins *Inspector) Selected() (int, bool) {
	return ins.selected, ins.hasSelected
}

// Validate drops the selection if it no longer names a particle.
func (ins *Inspector) Validate(numParticles int) {
	if ins.hasSelected && ins.selected >= numParticles {
		ins.Deselect()
	}
}

// Draw renders the inspector panel for view.
func (ins *Inspector) Draw(view ParticleView) {
	if !ins.hasSelected {
		return
	}

	fields := ExtractFields(view)
	panelHeight := ins.panelHeight()

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("PARTICLE #%d", view.Index), ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	y := ins.panelY + HeaderHeight + PanelPadding
	x := ins.panelX + PanelPadding
	for _, f := range fields {
		if f.Name == "Index" {
			continue
		}
		y += DrawField(x, y, f)
	}
}

// panelHeight is the height of the panel for a ParticleView.
func (ins *Inspector) panelHeight() int32 {
	rows := int32(len(ExtractFields(ParticleView{})) - 1)
	return HeaderHeight + 2*PanelPadding + rows*18
}

// DrawSelectionHighlight circles the selected particle and marks its neighbours.
func (ins *Inspector) DrawSelectionHighlight(cam *camera.Camera, view ParticleView, positions []mgl32.Vec3, size, h float32) {
	if !ins.hasSelected {
		return
	}

	sx, sy := cam.WorldToScreen(view.Position.X(), view.Position.Y())
	scale := cam.Scale()

	for _, n := range view.NeighborIdx {
		if int(n) >= len(positions) {
			continue
		}
		q := positions[n]
		nx, ny := cam.WorldToScreen(q.X(), q.Y())
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: nx, Y: ny}, ColorNeighbor)
	}

	rl.DrawCircleLines(int32(sx), int32(sy), float32(math.Max(float64(size*scale*1.8), 4)), rl.Yellow)
	rl.DrawCircleLines(int32(sx), int32(sy), h*scale, rl.Color{R: 255, G: 255, B: 0, A: 80})
}
