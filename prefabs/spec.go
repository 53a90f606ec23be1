package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// FeedbackSpec is the combat feedback tuning. Durations are in seconds.
// A zero value falls back to the built-in default unless noted.
type FeedbackSpec struct {
	Time        TimeDilationSpec `yaml:"time"`
	Camera      CameraShakeSpec  `yaml:"camera"`
	PostProcess PulseSpec        `yaml:"post_process"`
	Effects     EffectsSpec      `yaml:"effects"`
	Recipes     RecipeSpec       `yaml:"recipes"`
}

type TimeDilationSpec struct {
	// HitStopScale is used as written; zero freezes time.
	HitStopScale float64 `yaml:"hit_stop_scale"`
	RestoreCurve string  `yaml:"restore_curve"`
}

type CameraShakeSpec struct {
	ShakeDuration    float64  `yaml:"shake_duration"`
	DirectionalBias  *float64 `yaml:"directional_bias"`
	ShakeFalloff     string   `yaml:"shake_falloff"`
	PunchInDuration  float64  `yaml:"punch_in_duration"`
	PunchOutDuration float64  `yaml:"punch_out_duration"`
	PunchFOVDelta    *float64 `yaml:"punch_fov_delta"`
	PunchReturn      string   `yaml:"punch_return"`
	Compose          bool     `yaml:"compose"`
}

type PulseSpec struct {
	DamageDuration      float64  `yaml:"damage_duration"`
	// Magnitudes are used as written when present, so zero turns a channel
	// off and a negative kill boost desaturates.
	DamageVignette      *float64 `yaml:"damage_vignette"`
	DamageChromatic     *float64 `yaml:"damage_chromatic"`
	DamageCurve         string   `yaml:"damage_curve"`
	KillDuration        float64  `yaml:"kill_duration"`
	KillSaturationBoost *float64 `yaml:"kill_saturation_boost"`
}

type EffectsSpec struct {
	Damping float64        `yaml:"damping"`
	Blood   EffectKindSpec `yaml:"blood"`
	Block   EffectKindSpec `yaml:"block"`
}

type EffectKindSpec struct {
	Size         *int       `yaml:"size"`
	MaxGrow      *int       `yaml:"max_grow"`
	Lifetime     float64    `yaml:"lifetime"`
	Particles    int        `yaml:"particles"`
	MaxParticles int        `yaml:"max_particles"`
	Speed        float64    `yaml:"speed"`
	Spread       float64    `yaml:"spread"`
	Radius       float64    `yaml:"radius"`
	GravityScale *float64   `yaml:"gravity_scale"`
	Color        *YAMLColor `yaml:"color"`
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// RecipeSpec holds per-event recipe constants. Pointer fields are used as
// written when present; zero disables that request.
type RecipeSpec struct {
	HitStop              float64     `yaml:"hit_stop"`
	ShakeIntensity       *float64    `yaml:"shake_intensity"`
	WoundShakeMultiplier float64     `yaml:"wound_shake_multiplier"`
	PunchDistance        *float64    `yaml:"punch_distance"`
	WoundDirection       *VectorSpec `yaml:"wound_direction"`
	PlayerAnchor         *VectorSpec `yaml:"player_anchor"`
	// MaxDamageScale is used as written; zero leaves damage unclamped.
	MaxDamageScale float64 `yaml:"max_damage_scale"`
	Script         string  `yaml:"script"`

	KillHitStop        float64  `yaml:"kill_hit_stop"`
	KillShake          *float64 `yaml:"kill_shake"`
	KillBloodIntensity *float64 `yaml:"kill_blood_intensity"`

	BlockHitStop float64  `yaml:"block_hit_stop"`
	BlockShake   *float64 `yaml:"block_shake"`

	BrotherShake *float64 `yaml:"brother_shake"`

	WaveSlowDuration    float64 `yaml:"wave_slow_duration"`
	WaveSlowScale       float64 `yaml:"wave_slow_scale"`
	VictorySlowDuration float64 `yaml:"victory_slow_duration"`
	VictorySlowScale    float64 `yaml:"victory_slow_scale"`
	DefeatSlowDuration  float64 `yaml:"defeat_slow_duration"`
	DefeatSlowScale     float64 `yaml:"defeat_slow_scale"`
}

const FeedbackSpecFile = "feedback.yaml"

func LoadFeedbackSpec() (*FeedbackSpec, error) {
	spec, err := LoadSpec[FeedbackSpec](FeedbackSpecFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Marshal renders the spec back to yaml, for copying tuning out of the
// running game.
func (s *FeedbackSpec) Marshal() ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("prefabs: marshal nil feedback spec")
	}
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("prefabs: marshal feedback spec: %w", err)
	}
	return out, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}

// NRGBA returns the color, or opaque white when unset.
func (c YAMLColor) NRGBA() color.NRGBA {
	if c.Color == nil {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.NRGBAModel.Convert(c.Color).(color.NRGBA)
}
