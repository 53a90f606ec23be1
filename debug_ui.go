package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/shieldwall/ecs/component"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

// DebugUI is the F1 panel: one button per combat event, live controller
// state and a tuning export.
type DebugUI struct {
	game   *Game
	ui     *ebitenui.UI
	stats  *widget.Text
	notice *widget.Text

	clipboardOK bool
}

func NewDebugUI(g *Game) *DebugUI {
	d := &DebugUI{game: g}
	if err := clipboard.Init(); err != nil {
		log.Printf("DebugUI: clipboard unavailable: %v", err)
	} else {
		d.clipboardOK = true
	}

	panelImg := imageui.NewNineSliceColor(color.NRGBA{A: 190})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnPressed := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x44, B: 0x22, A: 255})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	btnTextColor := &widget.ButtonTextColor{Idle: colornames.White}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 14, Right: 14}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(240, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionEnd, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)

	panel.AddChild(widget.NewText(
		widget.TextOpts.Text("Combat feedback", &face, colornames.Goldenrod),
	))

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnPressed}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true})),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	panel.AddChild(button("Wound player", g.WoundPlayer))
	panel.AddChild(button("Kill enemy", g.KillEnemy))
	panel.AddChild(button("Block attack", g.BlockAttack))
	panel.AddChild(button("Wound brother", g.WoundBrother))
	panel.AddChild(button("Clear wave", g.ClearWave))
	panel.AddChild(button("Next wave", g.NextWave))
	panel.AddChild(button("Victory", func() { g.EndBattle(true) }))
	panel.AddChild(button("Defeat", func() { g.EndBattle(false) }))
	panel.AddChild(button("Roll die", g.RollDie))
	panel.AddChild(button("Restart", g.Restart))
	panel.AddChild(button("Toggle composed camera", d.toggleCompose))
	panel.AddChild(button("Copy tuning", d.copyTuning))

	d.stats = widget.NewText(widget.TextOpts.Text("", &face, colornames.Lightgray))
	d.notice = widget.NewText(widget.TextOpts.Text("", &face, colornames.Palegreen))
	panel.AddChild(d.stats)
	panel.AddChild(d.notice)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	d.ui = &ebitenui.UI{Container: root}
	return d
}

func (d *DebugUI) Update() {
	g := d.game
	d.stats.Label = fmt.Sprintf(
		"time   %s  x%.2f\ncamera shake %v punch %v\npulse  damage %v kill %v\nblood  %d/%d dropped %d\nblock  %d/%d dropped %d",
		g.dilation.State(), g.dilation.Scale(),
		g.camera.Shaking(), g.camera.Punching(),
		g.pulse.DamageActive(), g.pulse.KillActive(),
		g.effects.InUse(component.EffectBlood), g.effects.Capacity(component.EffectBlood), g.effects.Dropped(component.EffectBlood),
		g.effects.InUse(component.EffectBlock), g.effects.Capacity(component.EffectBlock), g.effects.Dropped(component.EffectBlock),
	)
	d.ui.Update()
}

func (d *DebugUI) Draw(screen *ebiten.Image) {
	d.ui.Draw(screen)
}

func (d *DebugUI) toggleCompose() {
	t := d.game.tuning
	t.Camera.Compose = !t.Camera.Compose
	d.game.applyTuning(t)
	d.notice.Label = fmt.Sprintf("composed camera: %v", t.Camera.Compose)
}

// copyTuning puts the live tuning on the clipboard as feedback.yaml.
func (d *DebugUI) copyTuning() {
	out, err := d.game.tuning.Spec().Marshal()
	if err != nil {
		d.notice.Label = "export failed"
		log.Printf("DebugUI: %v", err)
		return
	}
	if !d.clipboardOK {
		log.Printf("DebugUI: tuning\n%s", out)
		d.notice.Label = "clipboard unavailable, logged"
		return
	}
	clipboard.Write(clipboard.FmtText, out)
	d.notice.Label = "tuning copied"
}
