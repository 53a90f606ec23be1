package system

import (
	"math/rand"
	"time"

	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
	"github.com/milk9111/shieldwall/tween"
)

const (
	defaultDieFaces    = 6
	defaultRollTime    = 0.9
	defaultSpinSpeed   = 18.0
	dieFlickerInterval = 0.05
)

// DiceAnimatorSystem spins dice and settles them on the face the rule
// engine rolled.
type DiceAnimatorSystem struct {
	rng *rand.Rand
}

func NewDiceAnimatorSystem(rng *rand.Rand) *DiceAnimatorSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DiceAnimatorSystem{rng: rng}
}

// Roll starts a spin that lands on face. Out-of-range faces are clamped.
func (s *DiceAnimatorSystem) Roll(w *ecs.World, e ecs.Entity, face int) bool {
	if s == nil {
		return false
	}
	die, ok := ecs.Get(w, e, component.DieRollComponent.Kind())
	if !ok {
		return false
	}
	if die.Faces <= 0 {
		die.Faces = defaultDieFaces
	}
	if face < 1 {
		face = 1
	}
	if face > die.Faces {
		face = die.Faces
	}
	if die.Duration <= 0 {
		die.Duration = defaultRollTime
	}
	if die.SpinSpeed == 0 {
		die.SpinSpeed = defaultSpinSpeed
	}
	die.Face = face
	die.Rolling = true
	die.Elapsed = 0
	die.FaceTimer = 0
	return true
}

func (s *DiceAnimatorSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Frame().Scaled
	ecs.ForEach(w, component.DieRollComponent.Kind(), func(_ ecs.Entity, die *component.DieRoll) {
		s.step(die, dt)
	})
}

func (s *DiceAnimatorSystem) step(die *component.DieRoll, dt float64) {
	if !die.Rolling || dt <= 0 {
		return
	}
	die.Elapsed += dt
	p := tween.Progress(die.Elapsed, die.Duration)
	if p >= 1 {
		die.Rolling = false
		die.ShownFace = die.Face
		die.Angle = 0
		return
	}

	// Spin slows with an out-cubic curve and the face flickers less often
	// as the die settles.
	die.Angle += die.SpinSpeed * (1 - tween.OutCubic(p)) * dt
	die.FaceTimer -= dt
	if die.FaceTimer <= 0 {
		die.ShownFace = 1 + s.rng.Intn(die.Faces)
		die.FaceTimer = dieFlickerInterval * (1 + 4*p)
	}
}
