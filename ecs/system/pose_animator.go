package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
	"github.com/milk9111/shieldwall/tween"
)

func DefaultPoseTuning() component.PoseTuning {
	return component.PoseTuning{
		BobAmplitude:   2.5,
		BobFrequency:   0.8,
		RecoilDistance: 14,
		HitDuration:    0.3,
		FallDuration:   0.7,
		FallAngle:      math.Pi / 2,
	}
}

// PoseAnimatorSystem plays idle bob, hit recoil and death fall on every
// entity with an Animator. Poses are gameplay motion, so they follow
// scaled time and freeze during hit-stop.
type PoseAnimatorSystem struct{}

func NewPoseAnimatorSystem() *PoseAnimatorSystem {
	return &PoseAnimatorSystem{}
}

// PlayHit starts a recoil away from dir. Dead entities ignore it.
func (s *PoseAnimatorSystem) PlayHit(w *ecs.World, e ecs.Entity, dir cp.Vector) bool {
	anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if !ok || anim.State == component.PoseDead {
		return false
	}
	if dir.LengthSq() == 0 {
		dir = cp.Vector{X: -1}
		if actor, ok := ecs.Get(w, e, component.ActorComponent.Kind()); ok && actor.Facing < 0 {
			dir = cp.Vector{X: 1}
		}
	}
	anim.State = component.PoseHit
	anim.Elapsed = 0
	anim.RecoilDir = dir.Normalize()
	anim.Offset = cp.Vector{}
	anim.Rotation = 0
	anim.Tint = 1
	anim.Alpha = 1
	return true
}

// PlayDeath starts the fall. It can only happen once.
func (s *PoseAnimatorSystem) PlayDeath(w *ecs.World, e ecs.Entity) bool {
	anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if !ok || anim.State == component.PoseDead {
		return false
	}
	anim.State = component.PoseDead
	anim.Elapsed = 0
	anim.Offset = cp.Vector{}
	anim.Rotation = 0
	anim.Tint = 0.6
	anim.Alpha = 1
	return true
}

func (s *PoseAnimatorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Frame().Scaled
	ecs.ForEach(w, component.AnimatorComponent.Kind(), func(e ecs.Entity, anim *component.Animator) {
		facing := 1.0
		if actor, ok := ecs.Get(w, e, component.ActorComponent.Kind()); ok && actor.Facing < 0 {
			facing = -1
		}
		stepPose(anim, dt, facing)
	})
}

func stepPose(anim *component.Animator, dt, facing float64) {
	if dt < 0 {
		dt = 0
	}
	tun := anim.Tuning
	anim.Elapsed += dt

	switch anim.State {
	case component.PoseHit:
		p := tween.Progress(anim.Elapsed, tun.HitDuration)
		if p >= 1 {
			anim.State = component.PoseIdle
			anim.Elapsed = 0
			anim.Offset = cp.Vector{}
			anim.Tint = 0
			return
		}
		anim.Offset = anim.RecoilDir.Mult(tun.RecoilDistance * (1 - tween.OutQuad(p)))
		anim.Tint = 1 - p
	case component.PoseDead:
		p := tween.Progress(anim.Elapsed, tun.FallDuration)
		anim.Rotation = -facing * tun.FallAngle * tween.OutBack(p)
		anim.Offset = cp.Vector{Y: 6 * tween.InQuad(p)}
		anim.Tint = 0.6 * (1 - p)
		anim.Alpha = 1 - 0.75*tween.InQuad(p)
	default:
		anim.Alpha = 1
		anim.Tint = 0
		anim.Rotation = 0
		anim.Offset = cp.Vector{Y: tun.BobAmplitude * math.Sin(2*math.Pi*tun.BobFrequency*anim.Elapsed+anim.Phase)}
	}
}
