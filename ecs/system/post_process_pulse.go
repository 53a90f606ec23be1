package system

import (
	"time"

	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
	"github.com/milk9111/shieldwall/tween"
)

type PostProcessPulseConfig struct {
	DamageDuration time.Duration
	// DamageVignette and DamageChromatic are the amounts added per unit of
	// intensity.
	DamageVignette  float64
	DamageChromatic float64
	DamageCurve     tween.Curve

	KillDuration        time.Duration
	KillSaturationBoost float64
}

func DefaultPostProcessPulseConfig() PostProcessPulseConfig {
	return PostProcessPulseConfig{
		DamageDuration:      400 * time.Millisecond,
		DamageVignette:      0.35,
		DamageChromatic:     0.6,
		DamageCurve:         tween.OutQuad,
		KillDuration:        350 * time.Millisecond,
		KillSaturationBoost: 40,
	}
}

type postProcessBaseline struct {
	vignette   float64
	chromatic  float64
	saturation float64
}

type pulse struct {
	active   bool
	fresh    bool
	elapsed  float64
	duration float64
	// peak values for the parameters this pulse owns
	vignette   float64
	chromatic  float64
	saturation float64
}

// PostProcessPulseSystem owns the shared post-process profile. The damage
// pulse drives vignette and chromatic aberration; the kill pulse drives
// saturation. Each kind resets only its own parameters when restarted.
type PostProcessPulseSystem struct {
	cfg PostProcessPulseConfig

	world    *ecs.World
	volume   ecs.Entity
	base     postProcessBaseline
	attached bool

	damage pulse
	kill   pulse
}

func NewPostProcessPulseSystem(cfg PostProcessPulseConfig) *PostProcessPulseSystem {
	return &PostProcessPulseSystem{cfg: normalizePulseConfig(cfg)}
}

func normalizePulseConfig(cfg PostProcessPulseConfig) PostProcessPulseConfig {
	if cfg.DamageCurve == nil {
		cfg.DamageCurve = tween.OutQuad
	}
	return cfg
}

func (s *PostProcessPulseSystem) Reconfigure(cfg PostProcessPulseConfig) {
	if s == nil {
		return
	}
	s.cfg = normalizePulseConfig(cfg)
}

// Attach resolves the first post-process volume and captures its baseline.
func (s *PostProcessPulseSystem) Attach(w *ecs.World) bool {
	if s == nil || w == nil {
		return false
	}
	if s.attached {
		return s.profile() != nil
	}
	e, ok := w.First(component.PostProcessVolumeComponent.Kind(), component.PostProcessProfileComponent.Kind())
	if !ok {
		return false
	}
	p, ok := ecs.Get(w, e, component.PostProcessProfileComponent.Kind())
	if !ok {
		return false
	}
	s.world = w
	s.volume = e
	s.attached = true
	if p.Vignette != nil {
		s.base.vignette = p.Vignette.Intensity
	}
	if p.ChromaticAberration != nil {
		s.base.chromatic = p.ChromaticAberration.Intensity
	}
	if p.ColorAdjustments != nil {
		s.base.saturation = p.ColorAdjustments.Saturation
	}
	return true
}

func (s *PostProcessPulseSystem) profile() *component.PostProcessProfile {
	if !s.attached {
		return nil
	}
	p, ok := ecs.Get(s.world, s.volume, component.PostProcessProfileComponent.Kind())
	if !ok {
		return nil
	}
	return p
}

// TriggerDamageEffect pushes vignette and chromatic aberration up in
// proportion to intensity and eases them back to baseline. Only the
// resulting parameters are clamped to [0, 1]; negative intensity adds
// nothing.
func (s *PostProcessPulseSystem) TriggerDamageEffect(intensity float64) {
	if s == nil {
		return
	}
	p := s.profile()
	if p == nil || (p.Vignette == nil && p.ChromaticAberration == nil) {
		return
	}
	s.damage = pulse{}
	s.writeDamage(p)

	if intensity < 0 {
		intensity = 0
	}
	s.damage = pulse{
		active:    true,
		fresh:     true,
		duration:  s.cfg.DamageDuration.Seconds(),
		vignette:  tween.Clamp01(s.base.vignette + s.cfg.DamageVignette*intensity),
		chromatic: tween.Clamp01(s.base.chromatic + s.cfg.DamageChromatic*intensity),
	}
	s.writeDamage(p)
}

// TriggerKillEffect boosts saturation and eases it back linearly.
func (s *PostProcessPulseSystem) TriggerKillEffect() {
	if s == nil {
		return
	}
	p := s.profile()
	if p == nil || p.ColorAdjustments == nil {
		return
	}
	s.kill = pulse{}
	s.writeKill(p)

	s.kill = pulse{
		active:     true,
		fresh:      true,
		duration:   s.cfg.KillDuration.Seconds(),
		saturation: clampSaturation(s.base.saturation + s.cfg.KillSaturationBoost),
	}
	s.writeKill(p)
}

func clampSaturation(v float64) float64 {
	if v < -100 {
		return -100
	}
	if v > 100 {
		return 100
	}
	return v
}

// Reset cancels both pulses and writes the baseline.
func (s *PostProcessPulseSystem) Reset() {
	if s == nil {
		return
	}
	s.damage = pulse{}
	s.kill = pulse{}
	if p := s.profile(); p != nil {
		s.writeDamage(p)
		s.writeKill(p)
	}
}

func (s *PostProcessPulseSystem) DamageActive() bool {
	return s != nil && s.damage.active
}

func (s *PostProcessPulseSystem) KillActive() bool {
	return s != nil && s.kill.active
}

func (s *PostProcessPulseSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	if !s.attached {
		s.Attach(w)
	}
	dt := w.Frame().Real
	damageDt, killDt := dt, dt
	if s.damage.fresh {
		s.damage.fresh = false
		damageDt = 0
	}
	if s.kill.fresh {
		s.kill.fresh = false
		killDt = 0
	}
	s.advance(damageDt, killDt)
}

// Advance steps both pulses by dt seconds of real time.
func (s *PostProcessPulseSystem) Advance(dt float64) {
	if s == nil {
		return
	}
	s.damage.fresh = false
	s.kill.fresh = false
	s.advance(dt, dt)
}

func (s *PostProcessPulseSystem) advance(damageDt, killDt float64) {
	if !s.damage.active && !s.kill.active {
		return
	}
	p := s.profile()
	if p == nil {
		s.damage = pulse{}
		s.kill = pulse{}
		return
	}
	if s.damage.active {
		s.damage.elapsed += damageDt
		if s.damage.elapsed >= s.damage.duration {
			s.damage = pulse{}
		}
		s.writeDamage(p)
	}
	if s.kill.active {
		s.kill.elapsed += killDt
		if s.kill.elapsed >= s.kill.duration {
			s.kill = pulse{}
		}
		s.writeKill(p)
	}
}

func (s *PostProcessPulseSystem) writeDamage(p *component.PostProcessProfile) {
	vignette, chromatic := s.base.vignette, s.base.chromatic
	if s.damage.active {
		t := s.cfg.DamageCurve(tween.Progress(s.damage.elapsed, s.damage.duration))
		vignette = tween.Lerp(s.damage.vignette, s.base.vignette, t)
		chromatic = tween.Lerp(s.damage.chromatic, s.base.chromatic, t)
	}
	if p.Vignette != nil {
		p.Vignette.Intensity = vignette
	}
	if p.ChromaticAberration != nil {
		p.ChromaticAberration.Intensity = chromatic
	}
}

func (s *PostProcessPulseSystem) writeKill(p *component.PostProcessProfile) {
	if p.ColorAdjustments == nil {
		return
	}
	if !s.kill.active {
		p.ColorAdjustments.Saturation = s.base.saturation
		return
	}
	t := tween.Progress(s.kill.elapsed, s.kill.duration)
	p.ColorAdjustments.Saturation = tween.Lerp(s.kill.saturation, s.base.saturation, t)
}
