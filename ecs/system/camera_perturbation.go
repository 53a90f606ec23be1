package system

import (
	"math/rand"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
	"github.com/milk9111/shieldwall/tween"
)

type CameraPerturbationConfig struct {
	ShakeDuration time.Duration
	// DirectionalBias is the share of the shake pushed along the hit
	// direction, in [0, 1]. The rest is random jitter.
	DirectionalBias float64
	// ShakeFalloff maps shake progress to how much of the intensity has
	// died off.
	ShakeFalloff tween.Curve

	PunchInDuration  time.Duration
	PunchOutDuration time.Duration
	PunchFOVDelta    float64
	PunchReturn      tween.Curve

	// Compose lets shake and punch run together, summed around the rest
	// state. Otherwise starting either kind cancels the other.
	Compose bool
}

func DefaultCameraPerturbationConfig() CameraPerturbationConfig {
	return CameraPerturbationConfig{
		ShakeDuration:    250 * time.Millisecond,
		DirectionalBias:  0.6,
		ShakeFalloff:     tween.OutQuad,
		PunchInDuration:  60 * time.Millisecond,
		PunchOutDuration: 220 * time.Millisecond,
		PunchFOVDelta:    4,
		PunchReturn:      tween.OutCubic,
	}
}

type shakeLayer struct {
	active    bool
	fresh     bool
	elapsed   float64
	duration  float64
	dir       cp.Vector
	intensity float64
	offset    cp.Vector
}

type punchLayer struct {
	active   bool
	fresh    bool
	elapsed  float64
	inDur    float64
	outDur   float64
	distance float64
	fovDelta float64
	depth    float64
	fov      float64
}

// CameraPerturbationSystem is the only writer of the camera's offset, depth
// and field of view. Shake and punch each keep one layer; a new request
// writes the rest state, cancels the other kind unless Compose is set, and
// replaces its own layer.
type CameraPerturbationSystem struct {
	cfg CameraPerturbationConfig
	rng *rand.Rand

	world     *ecs.World
	camEntity ecs.Entity
	rest      component.Camera
	attached  bool

	shake shakeLayer
	punch punchLayer
}

func NewCameraPerturbationSystem(cfg CameraPerturbationConfig, rng *rand.Rand) *CameraPerturbationSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CameraPerturbationSystem{cfg: normalizeCameraConfig(cfg), rng: rng}
}

func normalizeCameraConfig(cfg CameraPerturbationConfig) CameraPerturbationConfig {
	if cfg.ShakeFalloff == nil {
		cfg.ShakeFalloff = tween.OutQuad
	}
	if cfg.PunchReturn == nil {
		cfg.PunchReturn = tween.OutCubic
	}
	cfg.DirectionalBias = tween.Clamp01(cfg.DirectionalBias)
	return cfg
}

// Reconfigure replaces the tuning for the next request.
func (s *CameraPerturbationSystem) Reconfigure(cfg CameraPerturbationConfig) {
	if s == nil {
		return
	}
	s.cfg = normalizeCameraConfig(cfg)
}

// Attach resolves the first tagged camera and captures its rest state. It
// only succeeds once; later calls report whether a camera is held.
func (s *CameraPerturbationSystem) Attach(w *ecs.World) bool {
	if s == nil || w == nil {
		return false
	}
	if s.attached {
		return s.camera() != nil
	}
	e, ok := w.First(component.CameraTagComponent.Kind(), component.CameraComponent.Kind())
	if !ok {
		return false
	}
	cam, ok := ecs.Get(w, e, component.CameraComponent.Kind())
	if !ok {
		return false
	}
	s.world = w
	s.camEntity = e
	s.rest = *cam
	s.attached = true
	return true
}

func (s *CameraPerturbationSystem) camera() *component.Camera {
	if !s.attached {
		return nil
	}
	cam, ok := ecs.Get(s.world, s.camEntity, component.CameraComponent.Kind())
	if !ok {
		return nil
	}
	return cam
}

// Rest returns the captured rest state.
func (s *CameraPerturbationSystem) Rest() (component.Camera, bool) {
	if s == nil || !s.attached {
		return component.Camera{}, false
	}
	return s.rest, true
}

// DirectionalShake jitters the camera, biased along dir, for the configured
// shake duration of real time.
func (s *CameraPerturbationSystem) DirectionalShake(dir cp.Vector, intensity float64) {
	if s == nil || s.camera() == nil || intensity <= 0 {
		return
	}
	if !s.cfg.Compose {
		s.punch = punchLayer{}
	}
	s.shake = shakeLayer{}
	s.write()

	if dir.LengthSq() > 0 {
		dir = dir.Normalize()
	}
	s.shake = shakeLayer{
		active:    true,
		fresh:     true,
		duration:  s.cfg.ShakeDuration.Seconds(),
		dir:       dir,
		intensity: intensity,
	}
	s.shake.offset = s.sampleShake(0)
	s.write()
}

// Punch pushes the camera in by distance and widens the field of view, then
// eases back to rest.
func (s *CameraPerturbationSystem) Punch(distance float64) {
	if s == nil || s.camera() == nil || distance == 0 {
		return
	}
	if !s.cfg.Compose {
		s.shake = shakeLayer{}
	}
	s.punch = punchLayer{}
	s.write()

	s.punch = punchLayer{
		active:   true,
		fresh:    true,
		inDur:    s.cfg.PunchInDuration.Seconds(),
		outDur:   s.cfg.PunchOutDuration.Seconds(),
		distance: distance,
		fovDelta: s.cfg.PunchFOVDelta,
	}
	s.stepPunch(0)
	s.write()
}

// Reset cancels every layer and puts the camera back at rest.
func (s *CameraPerturbationSystem) Reset() {
	if s == nil {
		return
	}
	s.shake = shakeLayer{}
	s.punch = punchLayer{}
	if s.camera() != nil {
		s.write()
	}
}

func (s *CameraPerturbationSystem) Shaking() bool {
	return s != nil && s.shake.active
}

func (s *CameraPerturbationSystem) Punching() bool {
	return s != nil && s.punch.active
}

// Update advances active layers by the frame's real delta.
func (s *CameraPerturbationSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	if !s.attached {
		s.Attach(w)
	}
	dt := w.Frame().Real
	shakeDt, punchDt := dt, dt
	if s.shake.fresh {
		s.shake.fresh = false
		shakeDt = 0
	}
	if s.punch.fresh {
		s.punch.fresh = false
		punchDt = 0
	}
	s.advance(shakeDt, punchDt)
}

// Advance steps both layers by dt seconds of real time.
func (s *CameraPerturbationSystem) Advance(dt float64) {
	if s == nil {
		return
	}
	s.shake.fresh = false
	s.punch.fresh = false
	s.advance(dt, dt)
}

func (s *CameraPerturbationSystem) advance(shakeDt, punchDt float64) {
	if !s.shake.active && !s.punch.active {
		return
	}
	if s.camera() == nil {
		s.shake = shakeLayer{}
		s.punch = punchLayer{}
		return
	}

	if s.shake.active {
		s.shake.elapsed += shakeDt
		p := tween.Progress(s.shake.elapsed, s.shake.duration)
		if p >= 1 {
			s.shake = shakeLayer{}
		} else if shakeDt > 0 {
			s.shake.offset = s.sampleShake(p)
		}
	}
	if s.punch.active {
		s.stepPunch(punchDt)
	}
	s.write()
}

func (s *CameraPerturbationSystem) sampleShake(p float64) cp.Vector {
	atten := 1 - s.cfg.ShakeFalloff(p)
	if atten <= 0 {
		return cp.Vector{}
	}
	jitter := cp.Vector{X: s.rng.Float64()*2 - 1, Y: s.rng.Float64()*2 - 1}
	bias := s.cfg.DirectionalBias
	if s.shake.dir.LengthSq() == 0 {
		bias = 0
	}
	push := s.shake.dir.Mult(bias * (0.5 + 0.5*s.rng.Float64()))
	return jitter.Mult(1 - bias).Add(push).Mult(s.shake.intensity * atten)
}

func (s *CameraPerturbationSystem) stepPunch(dt float64) {
	pl := &s.punch
	pl.elapsed += dt
	total := pl.inDur + pl.outDur
	if pl.elapsed >= total {
		s.punch = punchLayer{}
		return
	}
	var amount float64
	if pl.elapsed < pl.inDur {
		amount = tween.Progress(pl.elapsed, pl.inDur)
	} else {
		amount = 1 - s.cfg.PunchReturn(tween.Progress(pl.elapsed-pl.inDur, pl.outDur))
	}
	pl.depth = pl.distance * amount
	pl.fov = pl.fovDelta * amount
}

// write assigns rest plus the active layers. With no layer active the
// camera equals the rest state exactly.
func (s *CameraPerturbationSystem) write() {
	cam := s.camera()
	if cam == nil {
		return
	}
	cam.Offset = s.rest.Offset
	cam.Depth = s.rest.Depth
	cam.FOV = s.rest.FOV
	if s.shake.active {
		cam.Offset = s.rest.Offset.Add(s.shake.offset)
	}
	if s.punch.active {
		cam.Depth = s.rest.Depth + s.punch.depth
		cam.FOV = s.rest.FOV + s.punch.fov
	}
}
