package tween

// Lerp interpolates between a and b; t=0 returns a, t=1 returns b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Progress returns elapsed/duration clamped to [0, 1]. A non-positive
// duration is already complete.
func Progress(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return Clamp01(elapsed / duration)
}

// Tween interpolates a single value over a fixed duration. Durations are in
// seconds of whatever clock the owner advances it with.
type Tween struct {
	From     float64
	To       float64
	Duration float64
	Curve    Curve

	elapsed float64
}

func New(from, to, duration float64, curve Curve) Tween {
	if curve == nil {
		curve = Linear
	}
	return Tween{From: from, To: to, Duration: duration, Curve: curve}
}

// Advance moves the tween forward by dt seconds.
func (t *Tween) Advance(dt float64) {
	if t == nil || dt <= 0 {
		return
	}
	t.elapsed += dt
	if t.Duration > 0 && t.elapsed > t.Duration {
		t.elapsed = t.Duration
	}
}

func (t *Tween) Elapsed() float64 {
	if t == nil {
		return 0
	}
	return t.elapsed
}

func (t *Tween) Progress() float64 {
	if t == nil {
		return 1
	}
	return Progress(t.elapsed, t.Duration)
}

func (t *Tween) Done() bool {
	return t == nil || t.Progress() >= 1
}

// Value returns the eased value. Once done it returns To exactly so owners
// never accumulate float drift across repeated runs.
func (t *Tween) Value() float64 {
	if t == nil {
		return 0
	}
	if t.Done() {
		return t.To
	}
	curve := t.Curve
	if curve == nil {
		curve = Linear
	}
	return Lerp(t.From, t.To, curve(t.Progress()))
}

func (t *Tween) Reset() {
	if t == nil {
		return
	}
	t.elapsed = 0
}
