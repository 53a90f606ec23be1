package ecs

import "github.com/hajimehoshi/ebiten/v2"

// View maps world coordinates to the screen: a world point at (X, Y) lands
// on the screen centre, scaled by Zoom.
type View struct {
	X, Y    float64
	Zoom    float64
	ScreenW float64
	ScreenH float64
}

// ToScreen converts a world-space point to screen space.
func (v View) ToScreen(x, y float64) (float64, float64) {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return (x-v.X)*zoom + v.ScreenW/2, (y-v.Y)*zoom + v.ScreenH/2
}

// RenderSystem draws ECS entities each frame.
type RenderSystem interface {
	Draw(w *World, screen *ebiten.Image, view View)
}

// Draw calls all render-capable systems in update order.
func (w *World) Draw(screen *ebiten.Image, view View) {
	if w == nil || screen == nil {
		return
	}
	for _, s := range w.scheduler.Systems() {
		rs, ok := s.(RenderSystem)
		if !ok || rs == nil {
			continue
		}
		rs.Draw(w, screen, view)
	}
}
