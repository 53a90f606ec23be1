package component

import "github.com/jakecoffman/cp"

type PoseState int

const (
	PoseIdle PoseState = iota
	PoseHit
	PoseDead
)

func (s PoseState) String() string {
	switch s {
	case PoseHit:
		return "hit"
	case PoseDead:
		return "dead"
	default:
		return "idle"
	}
}

type PoseTuning struct {
	BobAmplitude   float64
	BobFrequency   float64
	RecoilDistance float64
	HitDuration    float64
	FallDuration   float64
	FallAngle      float64
}

// Animator drives the idle/hit/death pose of an actor. The animator system
// owns every field below Tuning; renderers only read Offset, Rotation, Tint
// and Alpha.
type Animator struct {
	Tuning PoseTuning
	State  PoseState

	Elapsed   float64
	Phase     float64
	RecoilDir cp.Vector

	Offset   cp.Vector
	Rotation float64
	// Tint is the white-flash amount in [0, 1].
	Tint  float64
	Alpha float64
}

var AnimatorComponent = NewComponent[Animator]()
