package component

import (
	"image/color"

	"github.com/jakecoffman/cp"
)

type EffectKind string

const (
	EffectBlood EffectKind = "blood"
	EffectBlock EffectKind = "block"
)

// EffectInstance is one pooled transient effect. Bodies live in the
// dispatcher's particle space and are removed when the instance resets.
type EffectInstance struct {
	Kind      EffectKind
	Slot      int
	Active    bool
	Origin    cp.Vector
	Direction cp.Vector
	Intensity float64
	Age       float64
	Lifetime  float64
	Color     color.NRGBA
	Radius    float64
	Bodies    []*cp.Body
}

var EffectInstanceComponent = NewComponent[EffectInstance]()
