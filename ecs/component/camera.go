package component

import "github.com/jakecoffman/cp"

// Camera is the view the perturbation controller writes to. Offset is in
// screen pixels, Depth pushes the view toward the scene and FOV is in
// degrees.
type Camera struct {
	Offset cp.Vector
	Depth  float64
	FOV    float64
	Zoom   float64
	// Focal is the depth at which the view appears twice as close.
	Focal float64
}

// ReferenceFOV is the field of view at which Zoom is applied unchanged.
const ReferenceFOV = 60.0

// ViewZoom folds zoom, depth and field of view into a single draw scale.
func (c Camera) ViewZoom() float64 {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	if c.FOV > 0 {
		zoom *= ReferenceFOV / c.FOV
	}
	if c.Focal > 0 {
		zoom *= 1 + c.Depth/c.Focal
	}
	if zoom < 0.05 {
		zoom = 0.05
	}
	return zoom
}

var CameraComponent = NewComponent[Camera]()
