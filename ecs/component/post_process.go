package component

import "image/color"

type Vignette struct {
	Intensity  float64
	Smoothness float64
	Color      color.NRGBA
}

type ChromaticAberration struct {
	Intensity float64
}

type ColorAdjustments struct {
	// Saturation is an offset in [-100, 100]; 0 leaves colors untouched.
	Saturation   float64
	Contrast     float64
	PostExposure float64
}

// PostProcessProfile is the shared screen-effect profile. Each sub-setting
// is optional; a nil pointer means the effect is absent from the profile.
type PostProcessProfile struct {
	Vignette            *Vignette
	ChromaticAberration *ChromaticAberration
	ColorAdjustments    *ColorAdjustments
}

var PostProcessProfileComponent = NewComponent[PostProcessProfile]()
