package render

import (
	"image/color"
	"testing"

	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
)

func TestUniforms(t *testing.T) {
	tests := []struct {
		name    string
		profile *component.PostProcessProfile
		key     string
		want    float32
	}{
		{"nil_profile_neutral", nil, "Saturation", 0},
		{"missing_vignette_neutral", &component.PostProcessProfile{}, "VignetteIntensity", 0},
		{"vignette", &component.PostProcessProfile{Vignette: &component.Vignette{Intensity: 0.5, Color: color.NRGBA{A: 255}}}, "VignetteIntensity", 0.5},
		{"chromatic", &component.PostProcessProfile{ChromaticAberration: &component.ChromaticAberration{Intensity: 0.25}}, "Chromatic", 0.25},
		{"saturation", &component.PostProcessProfile{ColorAdjustments: &component.ColorAdjustments{Saturation: -40}}, "Saturation", -40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Uniforms(tt.profile)
			got, ok := u[tt.key].(float32)
			if !ok || got != tt.want {
				t.Fatalf("%s = %v, expected %v", tt.key, u[tt.key], tt.want)
			}
		})
	}
}

func TestProfileNeedsVolume(t *testing.T) {
	w := ecs.NewWorld()
	loose := ecs.CreateEntity(w)
	if err := ecs.Add(w, loose, component.PostProcessProfileComponent.Kind(), &component.PostProcessProfile{}); err != nil {
		t.Fatal(err)
	}
	if Profile(w) != nil {
		t.Fatalf("a profile without a volume tag should be ignored")
	}

	vol := ecs.CreateEntity(w)
	want := &component.PostProcessProfile{ChromaticAberration: &component.ChromaticAberration{}}
	_ = ecs.Add(w, vol, component.PostProcessVolumeComponent.Kind(), &component.PostProcessVolume{})
	_ = ecs.Add(w, vol, component.PostProcessProfileComponent.Kind(), want)
	if got := Profile(w); got != want {
		t.Fatalf("Profile returned %p, expected %p", got, want)
	}
}
