package system

import (
	"image/color"
	"sort"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
	"golang.org/x/image/font/basicfont"
)

const dieSize = 48.0

// CameraView resolves the view of the tagged camera, including whatever
// shake, punch or zoom the perturbation controller wrote this tick.
func CameraView(w *ecs.World, screenW, screenH float64) ecs.View {
	view := ecs.View{X: screenW / 2, Y: screenH / 2, Zoom: 1, ScreenW: screenW, ScreenH: screenH}
	camEntity, ok := w.First(component.CameraTagComponent.Kind(), component.CameraComponent.Kind())
	if !ok {
		return view
	}
	cam, _ := ecs.Get(w, camEntity, component.CameraComponent.Kind())
	view.Zoom = cam.ViewZoom()
	if t, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind()); ok {
		view.X = t.X
		view.Y = t.Y
	}
	view.X -= cam.Offset.X / view.Zoom
	view.Y -= cam.Offset.Y / view.Zoom
	return view
}

type renderItem struct {
	e     ecs.Entity
	layer int
}

// RenderSystem draws actors as flat silhouettes, dice and live effect
// particles.
type RenderSystem struct {
	pixel *ebiten.Image
	face  text.Face
}

func NewRenderSystem() *RenderSystem {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &RenderSystem{
		pixel: pixel,
		face:  text.NewGoXFace(basicfont.Face7x13),
	}
}

// Update is a no-op; drawing happens in Draw.
func (r *RenderSystem) Update(w *ecs.World) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image, view ecs.View) {
	if r == nil || w == nil || screen == nil {
		return
	}

	items := make([]renderItem, 0, 16)
	for _, e := range w.Query(component.TransformComponent.Kind(), component.ActorComponent.Kind()) {
		items = append(items, renderItem{e: e, layer: layerOf(w, e)})
	}
	for _, e := range w.Query(component.TransformComponent.Kind(), component.DieRollComponent.Kind()) {
		items = append(items, renderItem{e: e, layer: layerOf(w, e)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].layer != items[j].layer {
			return items[i].layer < items[j].layer
		}
		return uint64(items[i].e) < uint64(items[j].e)
	})

	for _, it := range items {
		t, _ := ecs.Get(w, it.e, component.TransformComponent.Kind())
		if actor, ok := ecs.Get(w, it.e, component.ActorComponent.Kind()); ok {
			anim, _ := ecs.Get(w, it.e, component.AnimatorComponent.Kind())
			r.drawActor(screen, view, t, actor, anim)
			continue
		}
		if die, ok := ecs.Get(w, it.e, component.DieRollComponent.Kind()); ok {
			r.drawDie(screen, view, t, die)
		}
	}

	r.drawParticles(w, screen, view)
}

func layerOf(w *ecs.World, e ecs.Entity) int {
	if layer, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
		return layer.Index
	}
	return 0
}

// drawActor pivots the silhouette at its feet so the death fall rotates
// around the ground contact.
func (r *RenderSystem) drawActor(screen *ebiten.Image, view ecs.View, t *component.Transform, actor *component.Actor, anim *component.Animator) {
	x, y := t.X, t.Y
	rotation := t.Rotation
	tint, alpha := 0.0, 1.0
	if anim != nil {
		x += anim.Offset.X
		y += anim.Offset.Y
		rotation += anim.Rotation
		tint = anim.Tint
		alpha = anim.Alpha
	}

	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(actor.Width, actor.Height)
	op.GeoM.Translate(-actor.Width/2, -actor.Height)
	op.GeoM.Scale(sx, sy)
	op.GeoM.Rotate(rotation)
	op.GeoM.Scale(view.Zoom, view.Zoom)
	px, py := view.ToScreen(x, y)
	op.GeoM.Translate(px, py)
	op.ColorScale.ScaleWithColor(flash(actor.Color, tint))
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(r.pixel, op)
}

func flash(c color.NRGBA, amount float64) color.NRGBA {
	if amount <= 0 {
		return c
	}
	if amount > 1 {
		amount = 1
	}
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*amount)
	}
	return color.NRGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}

func (r *RenderSystem) drawDie(screen *ebiten.Image, view ecs.View, t *component.Transform, die *component.DieRoll) {
	cx, cy := view.ToScreen(t.X, t.Y)
	size := dieSize * view.Zoom

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(-size/2, -size/2)
	op.GeoM.Rotate(die.Angle)
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleWithColor(color.NRGBA{R: 235, G: 228, B: 210, A: 255})
	screen.DrawImage(r.pixel, op)

	label := strconv.Itoa(die.ShownFace)
	tw, th := text.Measure(label, r.face, 0)
	top := &text.DrawOptions{}
	top.GeoM.Translate(cx-tw/2, cy-th/2)
	top.ColorScale.ScaleWithColor(color.Black)
	text.Draw(screen, label, r.face, top)
}

// drawParticles fades each burst over the lifetime of its instance.
func (r *RenderSystem) drawParticles(w *ecs.World, screen *ebiten.Image, view ecs.View) {
	ecs.ForEach(w, component.EffectInstanceComponent.Kind(), func(_ ecs.Entity, inst *component.EffectInstance) {
		if !inst.Active || len(inst.Bodies) == 0 {
			return
		}
		fade := 1.0
		if inst.Lifetime > 0 {
			fade = 1 - inst.Age/inst.Lifetime
		}
		if fade <= 0 {
			return
		}
		c := inst.Color
		c.A = uint8(float64(c.A) * fade)
		radius := float32(inst.Radius * view.Zoom)
		if radius < 1 {
			radius = 1
		}
		for _, body := range inst.Bodies {
			if body == nil {
				continue
			}
			p := body.Position()
			x, y := view.ToScreen(p.X, p.Y)
			vector.DrawFilledCircle(screen, float32(x), float32(y), radius, c, true)
		}
	})
}
