// Package timescale owns the global time scale. Scale can only be written
// from inside this package, and the only writer is Dilation.
package timescale

// Scale is the process-wide time scale read by every frame-driven system.
// The zero value reads as 1.
type Scale struct {
	value float64
	set   bool
}

func NewScale() *Scale {
	return &Scale{value: 1, set: true}
}

// Scale returns the current multiplier for scaled time.
func (s *Scale) Scale() float64 {
	if s == nil || !s.set {
		return 1
	}
	return s.value
}

func (s *Scale) write(v float64) {
	if s == nil {
		return
	}
	if v < 0 {
		v = 0
	}
	s.value = v
	s.set = true
}
