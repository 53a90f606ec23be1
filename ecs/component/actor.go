package component

import (
	"image/color"

	"github.com/jakecoffman/cp"
)

// Actor is a warrior drawn as a flat silhouette. Anchor is where hits land,
// relative to the transform.
type Actor struct {
	Name   string
	Width  float64
	Height float64
	Color  color.NRGBA
	Anchor cp.Vector
	// Facing is +1 when looking right and -1 when looking left.
	Facing float64
}

var ActorComponent = NewComponent[Actor]()
