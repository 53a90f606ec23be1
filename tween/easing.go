// Package tween holds the easing curves and interpolation helpers shared by
// every timed feedback routine.
//
// All curves map a progress value t in [0, 1] to an eased value, with
// Curve(0) == 0 and Curve(1) == 1.
package tween

import (
	"math"
	"reflect"
	"strings"
)

// Curve is an easing function over normalized progress.
type Curve func(t float64) float64

func Linear(t float64) float64 {
	return t
}

func InQuad(t float64) float64 {
	return t * t
}

// OutQuad decelerates toward the end.
func OutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

func InOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func InCubic(t float64) float64 {
	return t * t * t
}

// OutCubic is fast at the start and slow at the end: 1 - (1-t)^3.
func OutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func OutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

// OutBack overshoots slightly before settling.
func OutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

func SmoothStep(t float64) float64 {
	return t * t * (3 - 2*t)
}

var curves = map[string]Curve{
	"linear":       Linear,
	"in_quad":      InQuad,
	"out_quad":     OutQuad,
	"in_out_quad":  InOutQuad,
	"in_cubic":     InCubic,
	"out_cubic":    OutCubic,
	"in_out_cubic": InOutCubic,
	"out_expo":     OutExpo,
	"out_back":     OutBack,
	"smoothstep":   SmoothStep,
}

// Lookup resolves a curve by its yaml name. Names are case-insensitive and
// accept either dashes or underscores.
func Lookup(name string) (Curve, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	c, ok := curves[key]
	return c, ok
}

// ByName is Lookup with a linear fallback.
func ByName(name string) Curve {
	if c, ok := Lookup(name); ok {
		return c
	}
	return Linear
}

// Names returns the registered curve names.
func Names() []string {
	out := make([]string, 0, len(curves))
	for name := range curves {
		out = append(out, name)
	}
	return out
}

// NameOf returns the registered name of c, or "linear" for an unknown or
// nil curve.
func NameOf(c Curve) string {
	if c == nil {
		return "linear"
	}
	ptr := reflect.ValueOf(c).Pointer()
	for name, known := range curves {
		if reflect.ValueOf(known).Pointer() == ptr {
			return name
		}
	}
	return "linear"
}
