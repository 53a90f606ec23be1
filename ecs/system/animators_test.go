package system

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
)

func newAnimated(t *testing.T, w *ecs.World) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.AnimatorComponent.Kind(), &component.Animator{Tuning: DefaultPoseTuning(), Alpha: 1}); err != nil {
		t.Fatalf("add animator: %v", err)
	}
	if err := ecs.Add(w, e, component.ActorComponent.Kind(), &component.Actor{Facing: 1}); err != nil {
		t.Fatalf("add actor: %v", err)
	}
	return e
}

func TestPoseHitReturnsToIdle(t *testing.T) {
	w := ecs.NewWorld()
	s := NewPoseAnimatorSystem()
	w.AddSystem(s)
	e := newAnimated(t, w)

	if !s.PlayHit(w, e, cp.Vector{X: -2}) {
		t.Fatalf("PlayHit failed")
	}
	w.Step(tick)
	anim, _ := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if anim.State != component.PoseHit || anim.Offset.X >= 0 || anim.Tint <= 0 {
		t.Fatalf("expected recoil to the left with tint, got %+v", anim)
	}

	for i := 0; i < 30; i++ {
		w.Step(tick)
	}
	if anim.State != component.PoseIdle || anim.Tint != 0 {
		t.Fatalf("expected idle without tint after hit, got %v tint=%v", anim.State, anim.Tint)
	}
	if math.Abs(anim.Offset.X) > 0 {
		t.Fatalf("idle pose should have no horizontal offset, got %v", anim.Offset)
	}
}

func TestPoseDeathIsTerminal(t *testing.T) {
	w := ecs.NewWorld()
	s := NewPoseAnimatorSystem()
	w.AddSystem(s)
	e := newAnimated(t, w)

	if !s.PlayDeath(w, e) {
		t.Fatalf("PlayDeath failed")
	}
	if s.PlayDeath(w, e) {
		t.Fatalf("second PlayDeath should be ignored")
	}
	if s.PlayHit(w, e, cp.Vector{X: 1}) {
		t.Fatalf("dead entities should ignore hits")
	}
	for i := 0; i < 90; i++ {
		w.Step(tick)
	}
	anim, _ := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if anim.State != component.PoseDead {
		t.Fatalf("dead pose should stay dead, got %v", anim.State)
	}
	if math.Abs(anim.Rotation+DefaultPoseTuning().FallAngle) > 1e-9 {
		t.Fatalf("expected fall to settle at %v, got %v", -DefaultPoseTuning().FallAngle, anim.Rotation)
	}
	if anim.Alpha >= 1 {
		t.Fatalf("dead pose should fade, alpha=%v", anim.Alpha)
	}
}

func TestPoseFollowsScaledTime(t *testing.T) {
	w := ecs.NewWorld()
	w.SetTimeScale(frozenScale{})
	s := NewPoseAnimatorSystem()
	w.AddSystem(s)
	e := newAnimated(t, w)

	s.PlayHit(w, e, cp.Vector{X: 1})
	for i := 0; i < 60; i++ {
		w.Step(tick)
	}
	anim, _ := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if anim.State != component.PoseHit {
		t.Fatalf("hit pose should freeze while scaled time is stopped, got %v", anim.State)
	}
}

func TestAnimatorsWithoutComponents(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	if NewPoseAnimatorSystem().PlayHit(w, e, cp.Vector{}) {
		t.Fatalf("PlayHit without an animator should fail")
	}
	if NewDiceAnimatorSystem(nil).Roll(w, e, 3) {
		t.Fatalf("Roll without a die should fail")
	}
}

func TestDiceSettleOnRolledFace(t *testing.T) {
	tests := []struct {
		name string
		face int
		want int
	}{
		{"in_range", 4, 4},
		{"too_high", 9, 6},
		{"too_low", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			s := NewDiceAnimatorSystem(rand.New(rand.NewSource(3)))
			w.AddSystem(s)
			e := ecs.CreateEntity(w)
			die := &component.DieRoll{Faces: 6, ShownFace: 1}
			if err := ecs.Add(w, e, component.DieRollComponent.Kind(), die); err != nil {
				t.Fatalf("add die: %v", err)
			}

			if !s.Roll(w, e, tt.face) {
				t.Fatalf("Roll failed")
			}
			w.Step(tick)
			if !die.Rolling || die.Angle == 0 {
				t.Fatalf("die should be spinning, got %+v", die)
			}
			for i := 0; i < 120; i++ {
				w.Step(tick)
			}
			if die.Rolling || die.ShownFace != tt.want || die.Angle != 0 {
				t.Fatalf("expected die settled upright on %d, got %+v", tt.want, die)
			}
		})
	}
}
