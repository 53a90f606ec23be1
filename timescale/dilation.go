package timescale

import (
	"time"

	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/tween"
)

type Config struct {
	// HitStopScale is the scale held during a hit-stop. Zero freezes
	// gameplay completely.
	HitStopScale float64
	// RestoreCurve eases slow motion back toward the target scale.
	RestoreCurve tween.Curve
}

func DefaultConfig() Config {
	return Config{
		HitStopScale: 0,
		RestoreCurve: tween.OutQuad,
	}
}

type phase int

const (
	phaseIdle phase = iota
	phaseHold
	phaseRestore
)

func (p phase) String() string {
	switch p {
	case phaseHold:
		return "hold"
	case phaseRestore:
		return "restore"
	default:
		return "idle"
	}
}

// Dilation drives hit-stop and slow motion. It runs on real time, so it is
// never slowed by the scale it writes. A new request replaces the one in
// flight; every routine ends on the target scale.
type Dilation struct {
	scale  *Scale
	cfg    Config
	target float64
	closed bool

	phase       phase
	fresh       bool
	holdLeft    float64
	restoreFrom float64
	restoreDur  float64
	restoreT    float64
}

func NewDilation(cfg Config) *Dilation {
	if cfg.RestoreCurve == nil {
		cfg.RestoreCurve = tween.OutQuad
	}
	if cfg.HitStopScale < 0 {
		cfg.HitStopScale = 0
	}
	return &Dilation{
		scale:  NewScale(),
		cfg:    cfg,
		target: 1,
	}
}

// Reader exposes the scale for ecs.World.SetTimeScale and other readers.
func (d *Dilation) Reader() *Scale {
	if d == nil {
		return nil
	}
	return d.scale
}

// Scale returns the current global time scale.
func (d *Dilation) Scale() float64 {
	if d == nil {
		return 1
	}
	return d.scale.Scale()
}

func (d *Dilation) TargetScale() float64 {
	if d == nil {
		return 1
	}
	return d.target
}

// Reconfigure replaces the tuning used by the next request.
func (d *Dilation) Reconfigure(cfg Config) {
	if d == nil {
		return
	}
	if cfg.RestoreCurve == nil {
		cfg.RestoreCurve = tween.OutQuad
	}
	if cfg.HitStopScale < 0 {
		cfg.HitStopScale = 0
	}
	d.cfg = cfg
}

// SetTargetScale sets the base gameplay speed. An idle controller applies it
// immediately; a running one restores toward it.
func (d *Dilation) SetTargetScale(v float64) {
	if d == nil || d.closed {
		return
	}
	if v < 0 {
		v = 0
	}
	d.target = v
	if d.phase == phaseIdle {
		d.scale.write(v)
	}
}

// HitStop holds the hit-stop scale for dur of real time, then snaps back to
// the target scale.
func (d *Dilation) HitStop(dur time.Duration) {
	if d == nil || d.closed || dur <= 0 {
		return
	}
	d.start(d.cfg.HitStopScale, dur.Seconds(), 0)
}

// SlowMotion holds scale for the first half of dur and eases back to the
// target over the second half.
func (d *Dilation) SlowMotion(dur time.Duration, scale float64) {
	if d == nil || d.closed || dur <= 0 {
		return
	}
	if scale < 0 {
		scale = 0
	}
	half := dur.Seconds() / 2
	d.start(scale, half, half)
}

func (d *Dilation) start(scale, hold, restore float64) {
	d.cancel()
	d.scale.write(scale)
	d.phase = phaseHold
	d.fresh = true
	d.holdLeft = hold
	d.restoreFrom = scale
	d.restoreDur = restore
	d.restoreT = 0
}

func (d *Dilation) cancel() {
	d.phase = phaseIdle
	d.fresh = false
	d.holdLeft = 0
	d.restoreT = 0
	d.restoreDur = 0
	d.scale.write(d.target)
}

// Active reports whether a hit-stop or slow motion is in flight.
func (d *Dilation) Active() bool {
	return d != nil && d.phase != phaseIdle
}

// State names the current phase for debug display.
func (d *Dilation) State() string {
	if d == nil {
		return phaseIdle.String()
	}
	return d.phase.String()
}

// Close stops any routine without restoring and forces normal speed. Later
// calls are ignored.
func (d *Dilation) Close() {
	if d == nil || d.closed {
		return
	}
	d.phase = phaseIdle
	d.fresh = false
	d.target = 1
	d.scale.write(1)
	d.closed = true
}

// Advance steps the routine by dt seconds of real time.
func (d *Dilation) Advance(dt float64) {
	if d == nil || d.closed || dt <= 0 {
		return
	}
	d.fresh = false

	if d.phase == phaseHold {
		d.holdLeft -= dt
		if d.holdLeft > 0 {
			return
		}
		dt = -d.holdLeft
		d.holdLeft = 0
		if d.restoreDur <= 0 {
			d.finish()
			return
		}
		d.phase = phaseRestore
	}

	if d.phase == phaseRestore {
		d.restoreT += dt
		p := tween.Progress(d.restoreT, d.restoreDur)
		if p >= 1 {
			d.finish()
			return
		}
		d.scale.write(tween.Lerp(d.restoreFrom, d.target, d.cfg.RestoreCurve(p)))
	}
}

func (d *Dilation) finish() {
	d.phase = phaseIdle
	d.scale.write(d.target)
}

// Update advances by the frame's real delta. A routine started while the
// bus dispatched this tick begins counting on the next one.
func (d *Dilation) Update(w *ecs.World) {
	if d == nil || w == nil {
		return
	}
	if d.fresh {
		d.fresh = false
		return
	}
	d.Advance(w.Frame().Real)
}
