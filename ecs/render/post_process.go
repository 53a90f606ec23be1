package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
)

const postProcessShader = "postprocess.kage"

// PostProcess draws the scene through the shared screen profile.
type PostProcess struct {
	shader *ebiten.Shader
}

func NewPostProcess() (*PostProcess, error) {
	s, err := LoadShader(postProcessShader)
	if err != nil {
		return nil, err
	}
	return &PostProcess{shader: s}, nil
}

// Uniforms flattens a profile into shader uniforms. Absent settings are
// neutral.
func Uniforms(p *component.PostProcessProfile) map[string]any {
	u := map[string]any{
		"VignetteIntensity":  float32(0),
		"VignetteSmoothness": float32(0),
		"VignetteColor":      []float32{0, 0, 0, 1},
		"Chromatic":          float32(0),
		"Saturation":         float32(0),
		"Contrast":           float32(0),
		"Exposure":           float32(0),
	}
	if p == nil {
		return u
	}
	if v := p.Vignette; v != nil {
		u["VignetteIntensity"] = float32(v.Intensity)
		u["VignetteSmoothness"] = float32(v.Smoothness)
		u["VignetteColor"] = []float32{
			float32(v.Color.R) / 255,
			float32(v.Color.G) / 255,
			float32(v.Color.B) / 255,
			float32(v.Color.A) / 255,
		}
	}
	if ca := p.ChromaticAberration; ca != nil {
		u["Chromatic"] = float32(ca.Intensity)
	}
	if adj := p.ColorAdjustments; adj != nil {
		u["Saturation"] = float32(adj.Saturation)
		u["Contrast"] = float32(adj.Contrast)
		u["Exposure"] = float32(adj.PostExposure)
	}
	return u
}

// Profile returns the profile of the post-process volume, if any.
func Profile(w *ecs.World) *component.PostProcessProfile {
	e, ok := w.First(component.PostProcessVolumeComponent.Kind(), component.PostProcessProfileComponent.Kind())
	if !ok {
		return nil
	}
	p, _ := ecs.Get(w, e, component.PostProcessProfileComponent.Kind())
	return p
}

// Apply draws src onto dst with the world's post-process profile.
func (pp *PostProcess) Apply(w *ecs.World, dst, src *ebiten.Image) {
	if dst == nil || src == nil {
		return
	}
	if pp == nil || pp.shader == nil {
		dst.DrawImage(src, nil)
		return
	}
	b := src.Bounds()
	op := &ebiten.DrawRectShaderOptions{Uniforms: Uniforms(Profile(w))}
	op.Images[0] = src
	dst.DrawRectShader(b.Dx(), b.Dy(), pp.shader, op)
}
