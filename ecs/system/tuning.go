package system

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shieldwall/prefabs"
	"github.com/milk9111/shieldwall/timescale"
	"github.com/milk9111/shieldwall/tween"
)

// Tuning is every controller's configuration, resolved from a feedback
// spec with defaults filled in.
type Tuning struct {
	Time        timescale.Config
	Camera      CameraPerturbationConfig
	PostProcess PostProcessPulseConfig
	Effects     EffectDispatcherConfig
	Feedback    FeedbackConfig
	Script      string
}

func DefaultTuning() Tuning {
	return Tuning{
		Time:        timescale.DefaultConfig(),
		Camera:      DefaultCameraPerturbationConfig(),
		PostProcess: DefaultPostProcessPulseConfig(),
		Effects:     DefaultEffectDispatcherConfig(),
		Feedback:    DefaultFeedbackConfig(),
	}
}

// TuningFromSpec overlays spec on the defaults. A nil spec yields the
// defaults.
func TuningFromSpec(spec *prefabs.FeedbackSpec) Tuning {
	t := DefaultTuning()
	if spec == nil {
		return t
	}

	t.Time.HitStopScale = spec.Time.HitStopScale
	t.Time.RestoreCurve = curveOr(spec.Time.RestoreCurve, t.Time.RestoreCurve)

	cam := spec.Camera
	setDuration(&t.Camera.ShakeDuration, cam.ShakeDuration)
	if cam.DirectionalBias != nil {
		t.Camera.DirectionalBias = tween.Clamp01(*cam.DirectionalBias)
	}
	t.Camera.ShakeFalloff = curveOr(cam.ShakeFalloff, t.Camera.ShakeFalloff)
	setDuration(&t.Camera.PunchInDuration, cam.PunchInDuration)
	setDuration(&t.Camera.PunchOutDuration, cam.PunchOutDuration)
	if cam.PunchFOVDelta != nil {
		t.Camera.PunchFOVDelta = *cam.PunchFOVDelta
	}
	t.Camera.PunchReturn = curveOr(cam.PunchReturn, t.Camera.PunchReturn)
	t.Camera.Compose = cam.Compose

	pp := spec.PostProcess
	setDuration(&t.PostProcess.DamageDuration, pp.DamageDuration)
	setFloatPtr(&t.PostProcess.DamageVignette, pp.DamageVignette)
	setFloatPtr(&t.PostProcess.DamageChromatic, pp.DamageChromatic)
	t.PostProcess.DamageCurve = curveOr(pp.DamageCurve, t.PostProcess.DamageCurve)
	setDuration(&t.PostProcess.KillDuration, pp.KillDuration)
	setFloatPtr(&t.PostProcess.KillSaturationBoost, pp.KillSaturationBoost)

	setFloat(&t.Effects.Damping, spec.Effects.Damping)
	applyEffectKind(&t.Effects.Blood, spec.Effects.Blood)
	applyEffectKind(&t.Effects.Block, spec.Effects.Block)

	r := spec.Recipes
	fb := &t.Feedback
	setDuration(&fb.HitStop, r.HitStop)
	setFloatPtr(&fb.ShakeIntensity, r.ShakeIntensity)
	setFloat(&fb.WoundShakeMultiplier, r.WoundShakeMultiplier)
	setFloatPtr(&fb.PunchDistance, r.PunchDistance)
	if r.WoundDirection != nil {
		fb.WoundDirection = cp.Vector{X: r.WoundDirection.X, Y: r.WoundDirection.Y}
	}
	if r.PlayerAnchor != nil {
		fb.PlayerAnchor = cp.Vector{X: r.PlayerAnchor.X, Y: r.PlayerAnchor.Y}
	}
	fb.MaxDamageScale = r.MaxDamageScale
	setDuration(&fb.KillHitStop, r.KillHitStop)
	setFloatPtr(&fb.KillShake, r.KillShake)
	setFloatPtr(&fb.KillBloodIntensity, r.KillBloodIntensity)
	setDuration(&fb.BlockHitStop, r.BlockHitStop)
	setFloatPtr(&fb.BlockShake, r.BlockShake)
	setFloatPtr(&fb.BrotherShake, r.BrotherShake)
	setDuration(&fb.WaveSlowDuration, r.WaveSlowDuration)
	setFloat(&fb.WaveSlowScale, r.WaveSlowScale)
	setDuration(&fb.VictorySlowDuration, r.VictorySlowDuration)
	setFloat(&fb.VictorySlowScale, r.VictorySlowScale)
	setDuration(&fb.DefeatSlowDuration, r.DefeatSlowDuration)
	setFloat(&fb.DefeatSlowScale, r.DefeatSlowScale)

	t.Script = r.Script
	return t
}

func applyEffectKind(dst *EffectKindConfig, spec prefabs.EffectKindSpec) {
	if spec.Size != nil && *spec.Size >= 0 {
		dst.Size = *spec.Size
	}
	if spec.MaxGrow != nil && *spec.MaxGrow >= 0 {
		dst.MaxGrow = *spec.MaxGrow
	}
	setDuration(&dst.Lifetime, spec.Lifetime)
	if spec.Particles > 0 {
		dst.Particles = spec.Particles
	}
	if spec.MaxParticles > 0 {
		dst.MaxParticles = spec.MaxParticles
	}
	setFloat(&dst.Speed, spec.Speed)
	setFloat(&dst.Spread, spec.Spread)
	setFloat(&dst.Radius, spec.Radius)
	if spec.GravityScale != nil {
		dst.GravityScale = *spec.GravityScale
	}
	if spec.Color != nil && spec.Color.Color != nil {
		dst.Color = spec.Color.NRGBA()
	}
}

// Spec renders the tuning back into its yaml form.
func (t Tuning) Spec() *prefabs.FeedbackSpec {
	return &prefabs.FeedbackSpec{
		Time: prefabs.TimeDilationSpec{
			HitStopScale: t.Time.HitStopScale,
			RestoreCurve: curveName(t.Time.RestoreCurve),
		},
		Camera: prefabs.CameraShakeSpec{
			ShakeDuration:    t.Camera.ShakeDuration.Seconds(),
			DirectionalBias:  floatPtr(t.Camera.DirectionalBias),
			ShakeFalloff:     curveName(t.Camera.ShakeFalloff),
			PunchInDuration:  t.Camera.PunchInDuration.Seconds(),
			PunchOutDuration: t.Camera.PunchOutDuration.Seconds(),
			PunchFOVDelta:    floatPtr(t.Camera.PunchFOVDelta),
			PunchReturn:      curveName(t.Camera.PunchReturn),
			Compose:          t.Camera.Compose,
		},
		PostProcess: prefabs.PulseSpec{
			DamageDuration:      t.PostProcess.DamageDuration.Seconds(),
			DamageVignette:      floatPtr(t.PostProcess.DamageVignette),
			DamageChromatic:     floatPtr(t.PostProcess.DamageChromatic),
			DamageCurve:         curveName(t.PostProcess.DamageCurve),
			KillDuration:        t.PostProcess.KillDuration.Seconds(),
			KillSaturationBoost: floatPtr(t.PostProcess.KillSaturationBoost),
		},
		Effects: prefabs.EffectsSpec{
			Damping: t.Effects.Damping,
			Blood:   effectKindSpec(t.Effects.Blood),
			Block:   effectKindSpec(t.Effects.Block),
		},
		Recipes: prefabs.RecipeSpec{
			HitStop:              t.Feedback.HitStop.Seconds(),
			ShakeIntensity:       floatPtr(t.Feedback.ShakeIntensity),
			WoundShakeMultiplier: t.Feedback.WoundShakeMultiplier,
			PunchDistance:        floatPtr(t.Feedback.PunchDistance),
			WoundDirection:       &prefabs.VectorSpec{X: t.Feedback.WoundDirection.X, Y: t.Feedback.WoundDirection.Y},
			PlayerAnchor:         &prefabs.VectorSpec{X: t.Feedback.PlayerAnchor.X, Y: t.Feedback.PlayerAnchor.Y},
			MaxDamageScale:       t.Feedback.MaxDamageScale,
			Script:               t.Script,
			KillHitStop:          t.Feedback.KillHitStop.Seconds(),
			KillShake:            floatPtr(t.Feedback.KillShake),
			KillBloodIntensity:   floatPtr(t.Feedback.KillBloodIntensity),
			BlockHitStop:         t.Feedback.BlockHitStop.Seconds(),
			BlockShake:           floatPtr(t.Feedback.BlockShake),
			BrotherShake:         floatPtr(t.Feedback.BrotherShake),
			WaveSlowDuration:     t.Feedback.WaveSlowDuration.Seconds(),
			WaveSlowScale:        t.Feedback.WaveSlowScale,
			VictorySlowDuration:  t.Feedback.VictorySlowDuration.Seconds(),
			VictorySlowScale:     t.Feedback.VictorySlowScale,
			DefeatSlowDuration:   t.Feedback.DefeatSlowDuration.Seconds(),
			DefeatSlowScale:      t.Feedback.DefeatSlowScale,
		},
	}
}

func effectKindSpec(cfg EffectKindConfig) prefabs.EffectKindSpec {
	size := cfg.Size
	grow := cfg.MaxGrow
	gravity := cfg.GravityScale
	return prefabs.EffectKindSpec{
		Size:         &size,
		MaxGrow:      &grow,
		Lifetime:     cfg.Lifetime.Seconds(),
		Particles:    cfg.Particles,
		MaxParticles: cfg.MaxParticles,
		Speed:        cfg.Speed,
		Spread:       cfg.Spread,
		Radius:       cfg.Radius,
		GravityScale: &gravity,
		Color:        &prefabs.YAMLColor{Color: cfg.Color},
	}
}

func setDuration(dst *time.Duration, seconds float64) {
	if seconds > 0 {
		*dst = time.Duration(math.Round(seconds * float64(time.Second)))
	}
}

func setFloat(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

// setFloatPtr applies v as written, including zero and negative values.
func setFloatPtr(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func curveOr(name string, fallback tween.Curve) tween.Curve {
	if c, ok := tween.Lookup(name); ok {
		return c
	}
	return fallback
}

func curveName(c tween.Curve) string {
	return tween.NameOf(c)
}
