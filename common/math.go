package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// Gravity is the downward acceleration for loose particles, in px/s^2.
	Gravity = 980.0
)
