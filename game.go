package main

import (
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shieldwall/common"
	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
	"github.com/milk9111/shieldwall/ecs/entity"
	"github.com/milk9111/shieldwall/ecs/render"
	"github.com/milk9111/shieldwall/ecs/system"
	"github.com/milk9111/shieldwall/prefabs"
	"github.com/milk9111/shieldwall/timescale"
)

const (
	brotherCount = 2
	enemyCount   = 3
	maxWounds    = 12
)

var background = color.NRGBA{R: 0x1b, G: 0x1d, B: 0x22, A: 0xff}

type Options struct {
	Debug bool
	Watch bool
	Seed  int64
}

// Game is a small shield-wall skirmish used to exercise combat feedback.
// The keyboard stands in for the combat rules and publishes their events.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	tuning   system.Tuning
	dilation *timescale.Dilation
	camera   *system.CameraPerturbationSystem
	pulse    *system.PostProcessPulseSystem
	effects  *system.EffectDispatcherSystem
	poses    *system.PoseAnimatorSystem
	dice     *system.DiceAnimatorSystem
	feedback *system.FeedbackSystem
	renderer *system.RenderSystem

	post  *render.PostProcess
	scene *ebiten.Image

	watcher *prefabs.Watcher
	debug   *DebugUI
	showUI  bool

	player   ecs.Entity
	brothers []ecs.Entity
	enemies  []ecs.Entity
	die      ecs.Entity
	wounds   int
	over     bool
}

func NewGame(opts Options) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		world:  ecs.NewWorld(),
		rng:    rand.New(rand.NewSource(seed)),
		showUI: opts.Debug,
	}

	spec, err := prefabs.LoadFeedbackSpec()
	if err != nil {
		log.Printf("Game: %v, using default tuning", err)
	}
	g.tuning = system.TuningFromSpec(spec)

	g.dilation = timescale.NewDilation(g.tuning.Time)
	g.world.SetTimeScale(g.dilation.Reader())
	g.camera = system.NewCameraPerturbationSystem(g.tuning.Camera, rand.New(rand.NewSource(g.rng.Int63())))
	g.pulse = system.NewPostProcessPulseSystem(g.tuning.PostProcess)
	g.effects = system.NewEffectDispatcherSystem(g.tuning.Effects, entity.NewEffect, rand.New(rand.NewSource(g.rng.Int63())))
	g.poses = system.NewPoseAnimatorSystem()
	g.dice = system.NewDiceAnimatorSystem(rand.New(rand.NewSource(g.rng.Int63())))
	g.renderer = system.NewRenderSystem()

	g.world.AddSystem(g.dilation)
	g.world.AddSystem(g.camera)
	g.world.AddSystem(g.pulse)
	g.world.AddSystem(g.effects)
	g.world.AddSystem(g.poses)
	g.world.AddSystem(g.dice)
	g.world.AddSystem(g.renderer)

	if err := g.spawnScene(); err != nil {
		return nil, err
	}

	g.feedback = system.NewFeedbackSystem(g.tuning.Feedback, system.FeedbackControllers{})
	g.loadScript(g.tuning.Script)
	g.feedback.Activate(g.world.Bus())

	if pp, err := render.NewPostProcess(); err != nil {
		log.Printf("Game: post process disabled: %v", err)
	} else {
		g.post = pp
	}
	g.scene = ebiten.NewImage(common.BaseWidth, common.BaseHeight)

	if opts.Watch {
		g.startWatcher()
	}
	g.debug = NewDebugUI(g)
	return g, nil
}

func (g *Game) spawnScene() error {
	if _, err := entity.NewCamera(g.world); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	if _, err := entity.NewPostProcessVolume(g.world); err != nil {
		return fmt.Errorf("post process: %w", err)
	}
	player, err := entity.NewPlayer(g.world)
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}
	g.player = player
	for i := 0; i < brotherCount; i++ {
		b, err := entity.NewBrotherAt(g.world, 480-float64(i)*70)
		if err != nil {
			return fmt.Errorf("brother: %w", err)
		}
		g.brothers = append(g.brothers, b)
	}
	die, err := entity.NewDie(g.world)
	if err != nil {
		return fmt.Errorf("die: %w", err)
	}
	g.die = die
	return g.spawnWave()
}

func (g *Game) spawnWave() error {
	for _, e := range g.enemies {
		ecs.DestroyEntity(g.world, e)
	}
	g.enemies = g.enemies[:0]
	for i := 0; i < enemyCount; i++ {
		e, err := entity.NewEnemyAt(g.world, 720+float64(i)*80)
		if err != nil {
			return fmt.Errorf("enemy: %w", err)
		}
		if anim, ok := ecs.Get(g.world, e, component.AnimatorComponent.Kind()); ok {
			anim.Phase = g.rng.Float64() * 6
		}
		g.enemies = append(g.enemies, e)
	}
	return nil
}

func (g *Game) loadScript(path string) {
	if path == "" {
		g.feedback.SetScaler(nil)
		return
	}
	scaler, err := system.LoadScriptScaler(path)
	if err != nil {
		log.Printf("Game: %v, damage is used unscripted", err)
		g.feedback.SetScaler(nil)
		return
	}
	g.feedback.SetScaler(scaler)
}

func (g *Game) startWatcher() {
	var dirs []string
	for _, dir := range []string{"prefabs", filepath.Join("prefabs", "scripts")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		log.Printf("Game: hot reload disabled: %v", err)
		return
	}
	g.watcher = w
}

// pollReload applies any edits the watcher reported since the last frame.
func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(path)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("Game: watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) reload(path string) {
	switch {
	case prefabs.IsScriptFile(path):
		if filepath.Base(path) == filepath.Base(g.tuning.Script) {
			g.loadScript(g.tuning.Script)
			log.Printf("Game: reloaded %s", path)
		}
	case filepath.Base(path) == prefabs.FeedbackSpecFile:
		spec, err := prefabs.LoadFeedbackSpec()
		if err != nil {
			log.Printf("Game: keep previous tuning: %v", err)
			return
		}
		g.applyTuning(system.TuningFromSpec(spec))
		log.Printf("Game: reloaded %s", path)
	}
}

func (g *Game) applyTuning(t system.Tuning) {
	scriptChanged := t.Script != g.tuning.Script
	g.tuning = t
	g.dilation.Reconfigure(t.Time)
	g.camera.Reconfigure(t.Camera)
	g.pulse.Reconfigure(t.PostProcess)
	g.effects.Reconfigure(t.Effects)
	g.feedback.Reconfigure(t.Feedback)
	if scriptChanged {
		g.loadScript(t.Script)
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.feedback.Deactivate()
	g.dilation.Close()
}

func (g *Game) Update() error {
	g.pollReload()
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showUI = !g.showUI
	}
	g.handleKeys()
	g.world.Update()
	if g.showUI {
		g.debug.Update()
	}
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		g.WoundPlayer()
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		g.KillEnemy()
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		g.BlockAttack()
	case inpututil.IsKeyJustPressed(ebiten.Key4):
		g.WoundBrother()
	case inpututil.IsKeyJustPressed(ebiten.Key5):
		g.ClearWave()
	case inpututil.IsKeyJustPressed(ebiten.Key6):
		g.EndBattle(true)
	case inpututil.IsKeyJustPressed(ebiten.Key7):
		g.EndBattle(false)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.RollDie()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.NextWave()
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.Restart()
	}
}

func (g *Game) publish(ev ecs.Event) {
	g.world.Bus().Publish(ev)
}

func (g *Game) WoundPlayer() {
	if g.over {
		return
	}
	damage := 1 + g.rng.Intn(4)
	g.wounds += damage
	g.publish(ecs.NewPlayerWounded(damage))
	if g.wounds >= maxWounds {
		g.EndBattle(false)
	}
}

func (g *Game) liveEnemies() []ecs.Entity {
	var out []ecs.Entity
	for _, e := range g.enemies {
		anim, ok := ecs.Get(g.world, e, component.AnimatorComponent.Kind())
		if ok && anim.State != component.PoseDead {
			out = append(out, e)
		}
	}
	return out
}

func (g *Game) KillEnemy() {
	live := g.liveEnemies()
	if len(live) == 0 {
		return
	}
	g.publish(ecs.NewEnemyKilled(live[0]))
	if len(live) == 1 {
		g.publish(ecs.NewWaveCleared())
	}
}

func (g *Game) BlockAttack() {
	live := g.liveEnemies()
	if len(live) == 0 {
		return
	}
	attacker := live[g.rng.Intn(len(live))]
	g.publish(ecs.NewAttackBlocked(attacker, g.player, g.contactPoint(attacker, g.player)))
}

// contactPoint is halfway between the two actors' hit anchors.
func (g *Game) contactPoint(a, b ecs.Entity) cp.Vector {
	pa, okA := g.anchor(a)
	pb, okB := g.anchor(b)
	if !okA || !okB {
		return cp.Vector{}
	}
	return pa.Lerp(pb, 0.5)
}

func (g *Game) anchor(e ecs.Entity) (cp.Vector, bool) {
	t, ok := ecs.Get(g.world, e, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	pos := t.Position()
	if actor, ok := ecs.Get(g.world, e, component.ActorComponent.Kind()); ok {
		pos = pos.Add(actor.Anchor)
	}
	return pos, true
}

func (g *Game) WoundBrother() {
	if len(g.brothers) == 0 || g.over {
		return
	}
	b := g.brothers[g.rng.Intn(len(g.brothers))]
	g.publish(ecs.NewBrotherWounded(b, 1+g.rng.Intn(3)))
}

func (g *Game) ClearWave() {
	for _, e := range g.liveEnemies() {
		g.publish(ecs.NewEnemyKilled(e))
	}
	g.publish(ecs.NewWaveCleared())
}

// NextWave replaces the fallen wave with a fresh one.
func (g *Game) NextWave() {
	if err := g.spawnWave(); err != nil {
		log.Printf("Game: %v", err)
	}
}

func (g *Game) EndBattle(victory bool) {
	if g.over {
		return
	}
	g.over = true
	g.publish(ecs.NewBattleEnded(victory))
}

// Restart resets the skirmish without touching tuning.
func (g *Game) Restart() {
	g.over = false
	g.wounds = 0
	for _, e := range append([]ecs.Entity{g.player}, g.brothers...) {
		if anim, ok := ecs.Get(g.world, e, component.AnimatorComponent.Kind()); ok {
			anim.State = component.PoseIdle
			anim.Elapsed = 0
		}
	}
	g.NextWave()
}

func (g *Game) RollDie() {
	die, ok := ecs.Get(g.world, g.die, component.DieRollComponent.Kind())
	if !ok {
		return
	}
	g.dice.Roll(g.world, g.die, 1+g.rng.Intn(die.Faces))
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Fill(background)
	g.world.Draw(g.scene, system.CameraView(g.world, common.BaseWidth, common.BaseHeight))
	if g.post != nil {
		g.post.Apply(g.world, screen, g.scene)
	} else {
		screen.DrawImage(g.scene, nil)
	}

	ebitenutil.DebugPrint(screen, g.status())
	if g.showUI {
		g.debug.Draw(screen)
	}
}

func (g *Game) status() string {
	handled, last := g.feedback.Handled()
	return fmt.Sprintf(
		"FPS %.0f  TPS %.0f  scale %.2f  wounds %d/%d  events %d (%s)\n"+
			"1 wound  2 kill  3 block  4 brother  5 clear wave  6 victory  7 defeat  N next wave  R roll  Backspace restart  F1 panel",
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.dilation.Scale(), g.wounds, maxWounds, handled, last,
	)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
