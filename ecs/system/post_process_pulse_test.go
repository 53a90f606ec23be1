package system

import (
	"testing"

	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
)

func newProfileWorld(t *testing.T, profile *component.PostProcessProfile) (*ecs.World, *component.PostProcessProfile) {
	t.Helper()
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PostProcessVolumeComponent.Kind(), &component.PostProcessVolume{}); err != nil {
		t.Fatalf("add volume: %v", err)
	}
	if err := ecs.Add(w, e, component.PostProcessProfileComponent.Kind(), profile); err != nil {
		t.Fatalf("add profile: %v", err)
	}
	return w, profile
}

func fullProfile() *component.PostProcessProfile {
	return &component.PostProcessProfile{
		Vignette:            &component.Vignette{Intensity: 0.2, Smoothness: 0.4},
		ChromaticAberration: &component.ChromaticAberration{Intensity: 0.05},
		ColorAdjustments:    &component.ColorAdjustments{Saturation: -10},
	}
}

func TestDamagePulseReturnsToBaseline(t *testing.T) {
	w, p := newProfileWorld(t, fullProfile())
	s := NewPostProcessPulseSystem(DefaultPostProcessPulseConfig())
	if !s.Attach(w) {
		t.Fatalf("attach failed")
	}

	s.TriggerDamageEffect(1)
	if p.Vignette.Intensity <= 0.2 || p.ChromaticAberration.Intensity <= 0.05 {
		t.Fatalf("damage pulse should raise vignette and aberration, got %v %v", p.Vignette.Intensity, p.ChromaticAberration.Intensity)
	}
	peak := p.Vignette.Intensity
	s.Advance(0.1)
	if p.Vignette.Intensity >= peak {
		t.Fatalf("vignette should ease down, got %v from %v", p.Vignette.Intensity, peak)
	}

	for i := 0; i < 60; i++ {
		s.Advance(tick)
	}
	if p.Vignette.Intensity != 0.2 || p.ChromaticAberration.Intensity != 0.05 {
		t.Fatalf("expected exact baseline, got %v %v", p.Vignette.Intensity, p.ChromaticAberration.Intensity)
	}
	if p.ColorAdjustments.Saturation != -10 {
		t.Fatalf("damage pulse must not touch saturation, got %v", p.ColorAdjustments.Saturation)
	}
}

func TestDamageIntensityIsProportional(t *testing.T) {
	tests := []struct {
		name      string
		intensity float64
		vignette  float64
	}{
		{"half", 0.5, 0.2 + 0.35*0.5},
		{"one", 1, 0.2 + 0.35},
		{"two", 2, 0.2 + 0.35*2},
		{"saturates_at_one", 4, 1},
		{"negative", -1, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, p := newProfileWorld(t, fullProfile())
			s := NewPostProcessPulseSystem(DefaultPostProcessPulseConfig())
			s.Attach(w)
			s.TriggerDamageEffect(tt.intensity)
			if diff := p.Vignette.Intensity - tt.vignette; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("expected vignette %v, got %v", tt.vignette, p.Vignette.Intensity)
			}
		})
	}
}

func TestConsecutiveKillPulses(t *testing.T) {
	w, p := newProfileWorld(t, fullProfile())
	cfg := DefaultPostProcessPulseConfig()
	s := NewPostProcessPulseSystem(cfg)
	w.AddSystem(s)
	w.Step(tick)

	s.TriggerKillEffect()
	w.Step(tick)
	w.Step(tick)
	mid := p.ColorAdjustments.Saturation
	if mid <= -10 {
		t.Fatalf("first kill pulse should raise saturation, got %v", mid)
	}

	s.TriggerKillEffect()
	if got := p.ColorAdjustments.Saturation; got != -10+cfg.KillSaturationBoost {
		t.Fatalf("second pulse should start from baseline plus boost, got %v", got)
	}
	for i := 0; i < 60; i++ {
		w.Step(tick)
	}
	if p.ColorAdjustments.Saturation != -10 {
		t.Fatalf("expected saturation back at baseline -10, got %v", p.ColorAdjustments.Saturation)
	}
}

func TestPulseSkipsMissingSettings(t *testing.T) {
	w, p := newProfileWorld(t, &component.PostProcessProfile{
		Vignette: &component.Vignette{Intensity: 0.1},
	})
	s := NewPostProcessPulseSystem(DefaultPostProcessPulseConfig())
	s.Attach(w)

	s.TriggerKillEffect()
	if s.KillActive() {
		t.Fatalf("kill pulse should be skipped without color adjustments")
	}
	s.TriggerDamageEffect(1)
	if p.Vignette.Intensity <= 0.1 {
		t.Fatalf("vignette should still pulse when aberration is absent")
	}
	for i := 0; i < 60; i++ {
		s.Advance(tick)
	}
	if p.Vignette.Intensity != 0.1 {
		t.Fatalf("expected vignette baseline 0.1, got %v", p.Vignette.Intensity)
	}
}

func TestPulseWithoutProfileIsNoOp(t *testing.T) {
	w := ecs.NewWorld()
	s := NewPostProcessPulseSystem(DefaultPostProcessPulseConfig())
	s.TriggerDamageEffect(1)
	s.TriggerKillEffect()
	s.Update(w)
	s.Reset()
	if s.DamageActive() || s.KillActive() {
		t.Fatalf("no pulse should run without a profile")
	}
}

func TestOverlappingPulsesSettleToBaseline(t *testing.T) {
	w, p := newProfileWorld(t, fullProfile())
	s := NewPostProcessPulseSystem(DefaultPostProcessPulseConfig())
	w.AddSystem(s)
	w.Step(tick)

	s.TriggerDamageEffect(1)
	w.Step(tick)
	s.TriggerKillEffect()
	if !s.DamageActive() || !s.KillActive() {
		t.Fatalf("kill pulse should run alongside the damage pulse")
	}
	if p.Vignette.Intensity <= 0.2 {
		t.Fatalf("kill pulse must not reset the damage parameters, vignette=%v", p.Vignette.Intensity)
	}
	w.Step(tick)
	s.TriggerDamageEffect(2)
	if p.ColorAdjustments.Saturation <= -10 {
		t.Fatalf("damage pulse must not reset saturation, got %v", p.ColorAdjustments.Saturation)
	}

	for i := 0; i < 60; i++ {
		w.Step(tick)
	}
	if s.DamageActive() || s.KillActive() {
		t.Fatalf("both pulses should have finished")
	}
	if p.Vignette.Intensity != 0.2 || p.ChromaticAberration.Intensity != 0.05 || p.ColorAdjustments.Saturation != -10 {
		t.Fatalf("expected exact baseline, got %v %v %v", p.Vignette.Intensity, p.ChromaticAberration.Intensity, p.ColorAdjustments.Saturation)
	}
}

func TestNegativeKillBoostDesaturates(t *testing.T) {
	w, p := newProfileWorld(t, fullProfile())
	cfg := DefaultPostProcessPulseConfig()
	cfg.KillSaturationBoost = -30
	s := NewPostProcessPulseSystem(cfg)
	s.Attach(w)

	s.TriggerKillEffect()
	if got := p.ColorAdjustments.Saturation; got != -40 {
		t.Fatalf("expected desaturated -40, got %v", got)
	}
	for i := 0; i < 60; i++ {
		s.Advance(tick)
	}
	if p.ColorAdjustments.Saturation != -10 {
		t.Fatalf("expected baseline -10, got %v", p.ColorAdjustments.Saturation)
	}
}
