package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type ActorComponentSpec struct {
	Name    string     `yaml:"name"`
	Width   float64    `yaml:"width"`
	Height  float64    `yaml:"height"`
	Color   *YAMLColor `yaml:"color"`
	AnchorX float64    `yaml:"anchor_x"`
	AnchorY float64    `yaml:"anchor_y"`
	Facing  float64    `yaml:"facing"`
}

type AnimatorComponentSpec struct {
	BobAmplitude   float64 `yaml:"bob_amplitude"`
	BobFrequency   float64 `yaml:"bob_frequency"`
	RecoilDistance float64 `yaml:"recoil_distance"`
	HitDuration    float64 `yaml:"hit_duration"`
	FallDuration   float64 `yaml:"fall_duration"`
	FallAngle      float64 `yaml:"fall_angle"`
	Phase          float64 `yaml:"phase"`
}

type DieRollComponentSpec struct {
	Faces     int     `yaml:"faces"`
	Duration  float64 `yaml:"duration"`
	SpinSpeed float64 `yaml:"spin_speed"`
}

type CameraComponentSpec struct {
	Zoom    float64 `yaml:"zoom"`
	Depth   float64 `yaml:"depth"`
	FOV     float64 `yaml:"fov"`
	Focal   float64 `yaml:"focal"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type VignetteComponentSpec struct {
	Intensity  float64    `yaml:"intensity"`
	Smoothness float64    `yaml:"smoothness"`
	Color      *YAMLColor `yaml:"color"`
}

type ChromaticAberrationComponentSpec struct {
	Intensity float64 `yaml:"intensity"`
}

type ColorAdjustmentsComponentSpec struct {
	Saturation   float64 `yaml:"saturation"`
	Contrast     float64 `yaml:"contrast"`
	PostExposure float64 `yaml:"post_exposure"`
}

// PostProcessProfileComponentSpec leaves out any effect the profile does
// not carry.
type PostProcessProfileComponentSpec struct {
	Vignette            *VignetteComponentSpec            `yaml:"vignette"`
	ChromaticAberration *ChromaticAberrationComponentSpec `yaml:"chromatic_aberration"`
	ColorAdjustments    *ColorAdjustmentsComponentSpec    `yaml:"color_adjustments"`
}

type EffectInstanceComponentSpec struct {
	Kind string `yaml:"kind"`
}
