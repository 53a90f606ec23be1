package component

import "github.com/jakecoffman/cp"

type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

func (t Transform) Position() cp.Vector {
	return cp.Vector{X: t.X, Y: t.Y}
}

var TransformComponent = NewComponent[Transform]()
