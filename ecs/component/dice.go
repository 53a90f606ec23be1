package component

// DieRoll is the visible state of a die. The rule engine decides Face; the
// dice animator only spins toward it.
type DieRoll struct {
	Faces     int
	Face      int
	ShownFace int

	Rolling   bool
	Elapsed   float64
	Duration  float64
	Angle     float64
	SpinSpeed float64
	// FaceTimer counts scaled seconds until the shown face flickers again.
	FaceTimer float64
}

var DieRollComponent = NewComponent[DieRoll]()
