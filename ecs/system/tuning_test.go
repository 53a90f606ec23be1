package system

import (
	"image/color"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shieldwall/prefabs"
	"github.com/milk9111/shieldwall/tween"
	"gopkg.in/yaml.v3"
)

func TestTuningFromNilSpecIsDefault(t *testing.T) {
	got := TuningFromSpec(nil)
	def := DefaultTuning()
	if got.Feedback != def.Feedback {
		t.Fatalf("feedback config = %+v, expected defaults", got.Feedback)
	}
	if got.Effects != def.Effects {
		t.Fatalf("effects config = %+v, expected defaults", got.Effects)
	}
}

func TestTuningFromSpecOverlays(t *testing.T) {
	src := `
time:
  hit_stop_scale: 0.1
  restore_curve: linear
camera:
  shake_duration: 0.5
  directional_bias: 0
  punch_fov_delta: 0
  compose: true
effects:
  blood:
    size: 0
    max_grow: 2
    gravity_scale: 0
    color: "#102030"
recipes:
  hit_stop: 0.08
  wound_direction: { x: 0, y: 1 }
  max_damage_scale: 3
  script: feedback.tengo
`
	var spec prefabs.FeedbackSpec
	if err := yaml.Unmarshal([]byte(src), &spec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := TuningFromSpec(&spec)
	def := DefaultTuning()

	tests := []struct {
		name  string
		ok    bool
		value any
	}{
		{"hit_stop_scale", got.Time.HitStopScale == 0.1, got.Time.HitStopScale},
		{"restore_curve", tween.NameOf(got.Time.RestoreCurve) == "linear", tween.NameOf(got.Time.RestoreCurve)},
		{"shake_duration", got.Camera.ShakeDuration == 500*time.Millisecond, got.Camera.ShakeDuration},
		{"explicit_zero_bias", got.Camera.DirectionalBias == 0, got.Camera.DirectionalBias},
		{"explicit_zero_fov", got.Camera.PunchFOVDelta == 0, got.Camera.PunchFOVDelta},
		{"unset_punch_in_keeps_default", got.Camera.PunchInDuration == def.Camera.PunchInDuration, got.Camera.PunchInDuration},
		{"compose", got.Camera.Compose, got.Camera.Compose},
		{"explicit_zero_pool", got.Effects.Blood.Size == 0, got.Effects.Blood.Size},
		{"max_grow", got.Effects.Blood.MaxGrow == 2, got.Effects.Blood.MaxGrow},
		{"explicit_zero_gravity", got.Effects.Blood.GravityScale == 0, got.Effects.Blood.GravityScale},
		{"color", got.Effects.Blood.Color == color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, got.Effects.Blood.Color},
		{"block_untouched", got.Effects.Block == def.Effects.Block, got.Effects.Block},
		{"hit_stop", got.Feedback.HitStop == 80*time.Millisecond, got.Feedback.HitStop},
		{"wound_direction", got.Feedback.WoundDirection == cp.Vector{X: 0, Y: 1}, got.Feedback.WoundDirection},
		{"unset_anchor_keeps_default", got.Feedback.PlayerAnchor == def.Feedback.PlayerAnchor, got.Feedback.PlayerAnchor},
		{"max_damage_scale", got.Feedback.MaxDamageScale == 3, got.Feedback.MaxDamageScale},
		{"script", got.Script == "feedback.tengo", got.Script},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.ok {
				t.Fatalf("unexpected value %v", tt.value)
			}
		})
	}
}

func TestTuningSpecRestoresTuning(t *testing.T) {
	orig := DefaultTuning()
	orig.Camera.Compose = true
	orig.Feedback.MaxDamageScale = 2.5
	orig.Script = "feedback.tengo"

	back := TuningFromSpec(orig.Spec())
	if back.Feedback != orig.Feedback {
		t.Fatalf("feedback = %+v, expected %+v", back.Feedback, orig.Feedback)
	}
	if back.Effects != orig.Effects {
		t.Fatalf("effects = %+v, expected %+v", back.Effects, orig.Effects)
	}
	if back.Camera.Compose != true || back.Script != orig.Script {
		t.Fatalf("camera/script not restored: %+v %q", back.Camera, back.Script)
	}
	if tween.NameOf(back.PostProcess.DamageCurve) != tween.NameOf(orig.PostProcess.DamageCurve) {
		t.Fatalf("damage curve not restored")
	}
}

func TestEmbeddedFeedbackSpecLoads(t *testing.T) {
	spec, err := prefabs.LoadFeedbackSpec()
	if err != nil {
		t.Fatalf("load feedback spec: %v", err)
	}
	got := TuningFromSpec(spec)
	if got.Script == "" {
		t.Fatalf("embedded spec should name a damage script")
	}
	if _, err := LoadScriptScaler(got.Script); err != nil {
		t.Fatalf("load %s: %v", got.Script, err)
	}
}

func TestTuningHonorsZeroAndNegativeMagnitudes(t *testing.T) {
	src := `
post_process:
  damage_vignette: 0
  damage_chromatic: 0.2
  kill_saturation_boost: -30
recipes:
  shake_intensity: 0
  punch_distance: -2
  kill_shake: 0
  kill_blood_intensity: 0
  block_shake: 0
  brother_shake: 0
`
	var spec prefabs.FeedbackSpec
	if err := yaml.Unmarshal([]byte(src), &spec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := TuningFromSpec(&spec)
	def := DefaultTuning()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"damage_vignette_off", got.PostProcess.DamageVignette, 0},
		{"damage_chromatic", got.PostProcess.DamageChromatic, 0.2},
		{"desaturate_kill", got.PostProcess.KillSaturationBoost, -30},
		{"shake_off", got.Feedback.ShakeIntensity, 0},
		{"punch_out", got.Feedback.PunchDistance, -2},
		{"kill_shake_off", got.Feedback.KillShake, 0},
		{"kill_blood_off", got.Feedback.KillBloodIntensity, 0},
		{"block_shake_off", got.Feedback.BlockShake, 0},
		{"brother_shake_off", got.Feedback.BrotherShake, 0},
		{"unset_multiplier_keeps_default", got.Feedback.WoundShakeMultiplier, def.Feedback.WoundShakeMultiplier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %v, expected %v", tt.got, tt.want)
			}
		})
	}

	back := TuningFromSpec(got.Spec())
	if back.PostProcess.KillSaturationBoost != -30 || back.Feedback.BlockShake != 0 {
		t.Fatalf("export lost explicit values: %+v %+v", back.PostProcess, back.Feedback)
	}
}
