package system

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shieldwall/common"
	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
)

type EffectKindConfig struct {
	Size     int
	MaxGrow  int
	Lifetime time.Duration
	// Particles is the body count at intensity 1, capped by MaxParticles.
	Particles    int
	MaxParticles int
	Speed        float64
	// Spread is the cone half-angle around the emit direction, in radians.
	Spread       float64
	Radius       float64
	GravityScale float64
	Color        color.NRGBA
}

type EffectDispatcherConfig struct {
	Blood   EffectKindConfig
	Block   EffectKindConfig
	Damping float64
}

func DefaultEffectDispatcherConfig() EffectDispatcherConfig {
	return EffectDispatcherConfig{
		Blood: EffectKindConfig{
			Size:         8,
			MaxGrow:      8,
			Lifetime:     900 * time.Millisecond,
			Particles:    10,
			MaxParticles: 40,
			Speed:        260,
			Spread:       0.6,
			Radius:       2.5,
			GravityScale: 1,
			Color:        color.NRGBA{R: 150, G: 10, B: 20, A: 255},
		},
		Block: EffectKindConfig{
			Size:         6,
			MaxGrow:      4,
			Lifetime:     400 * time.Millisecond,
			Particles:    14,
			MaxParticles: 14,
			Speed:        340,
			Spread:       math.Pi,
			Radius:       1.5,
			GravityScale: 0.25,
			Color:        color.NRGBA{R: 255, G: 214, B: 120, A: 255},
		},
		Damping: 0.6,
	}
}

// EffectFactory creates an extra pooled instance when a pool runs dry. The
// entity must be owned by the dispatcher from then on.
type EffectFactory func(w *ecs.World, kind component.EffectKind) (ecs.Entity, error)

// dropLogInterval is the minimum real time between exhaustion warnings for
// one kind.
const dropLogInterval = 1.0

// EffectDispatcherSystem owns the pooled blood and shield-spark instances
// and the particle space they emit into. Instances return to their pool
// after their lifetime of real time; particles move on scaled time.
type EffectDispatcherSystem struct {
	cfg     EffectDispatcherConfig
	factory EffectFactory
	rng     *rand.Rand

	world    *ecs.World
	attached bool
	space    *cp.Space
	pools    map[component.EffectKind]*effectPool
	expiries expiryHeap
	now      float64
}

func NewEffectDispatcherSystem(cfg EffectDispatcherConfig, factory EffectFactory, rng *rand.Rand) *EffectDispatcherSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	space.SetDamping(dampingOrDefault(cfg.Damping))
	return &EffectDispatcherSystem{
		cfg:     cfg,
		factory: factory,
		rng:     rng,
		space:   space,
		pools:   make(map[component.EffectKind]*effectPool),
	}
}

func dampingOrDefault(d float64) float64 {
	if d <= 0 || d > 1 {
		return 1
	}
	return d
}

func (s *EffectDispatcherSystem) kindConfig(kind component.EffectKind) EffectKindConfig {
	if kind == component.EffectBlock {
		return s.cfg.Block
	}
	return s.cfg.Blood
}

// Reconfigure changes tuning for later spawns. Pools are never shrunk; a
// larger Size pre-warms the difference.
func (s *EffectDispatcherSystem) Reconfigure(cfg EffectDispatcherConfig) {
	if s == nil {
		return
	}
	s.cfg = cfg
	s.space.SetDamping(dampingOrDefault(cfg.Damping))
	if s.attached {
		s.prewarm()
	}
}

// Space exposes the particle space for rendering.
func (s *EffectDispatcherSystem) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

// Attach binds the dispatcher to w and pre-warms both pools.
func (s *EffectDispatcherSystem) Attach(w *ecs.World) bool {
	if s == nil || w == nil {
		return false
	}
	if s.attached {
		return s.world == w
	}
	s.world = w
	s.attached = true
	s.prewarm()
	return true
}

func (s *EffectDispatcherSystem) prewarm() {
	for _, kind := range []component.EffectKind{component.EffectBlood, component.EffectBlock} {
		p := s.pool(kind)
		want := s.kindConfig(kind).Size
		for len(p.slots)-p.grown < want {
			e, err := s.newInstance(kind)
			if err != nil {
				log.Printf("EffectDispatcher: prewarm %s: %v", kind, err)
				break
			}
			p.add(e)
		}
	}
}

func (s *EffectDispatcherSystem) pool(kind component.EffectKind) *effectPool {
	p, ok := s.pools[kind]
	if !ok {
		p = &effectPool{kind: kind, lastDrop: math.Inf(-1)}
		s.pools[kind] = p
	}
	return p
}

func (s *EffectDispatcherSystem) newInstance(kind component.EffectKind) (ecs.Entity, error) {
	e := ecs.CreateEntity(s.world)
	inst := &component.EffectInstance{Kind: kind, Slot: -1}
	if err := ecs.Add(s.world, e, component.EffectInstanceComponent.Kind(), inst); err != nil {
		ecs.DestroyEntity(s.world, e)
		return 0, fmt.Errorf("add effect instance: %w", err)
	}
	return e, nil
}

func (s *EffectDispatcherSystem) grow(kind component.EffectKind) (ecs.Entity, error) {
	e, err := s.factory(s.world, kind)
	if err != nil {
		return 0, err
	}
	inst, ok := ecs.Get(s.world, e, component.EffectInstanceComponent.Kind())
	if !ok {
		inst = &component.EffectInstance{}
		if err := ecs.Add(s.world, e, component.EffectInstanceComponent.Kind(), inst); err != nil {
			return 0, fmt.Errorf("add effect instance: %w", err)
		}
	}
	inst.Kind = kind
	inst.Active = false
	return e, nil
}

// SpawnBlood emits a blood burst at pos along dir. Intensity scales the
// droplet count and speed.
func (s *EffectDispatcherSystem) SpawnBlood(pos, dir cp.Vector, intensity float64) (EffectHandle, bool) {
	if s == nil || !s.attached {
		return EffectHandle{}, false
	}
	if intensity <= 0 {
		intensity = 1
	}
	if dir.LengthSq() == 0 {
		dir = cp.Vector{X: 0, Y: -1}
	}
	return s.spawn(component.EffectBlood, pos, dir.Normalize(), intensity)
}

// SpawnBlockEffect emits shield sparks at pos.
func (s *EffectDispatcherSystem) SpawnBlockEffect(pos cp.Vector) (EffectHandle, bool) {
	if s == nil || !s.attached {
		return EffectHandle{}, false
	}
	return s.spawn(component.EffectBlock, pos, cp.Vector{X: 0, Y: -1}, 1)
}

func (s *EffectDispatcherSystem) spawn(kind component.EffectKind, pos, dir cp.Vector, intensity float64) (EffectHandle, bool) {
	cfg := s.kindConfig(kind)
	p := s.pool(kind)

	h, ok := p.acquire()
	if !ok && s.factory != nil && p.grown < cfg.MaxGrow {
		e, err := s.grow(kind)
		if err != nil {
			log.Printf("EffectDispatcher: grow %s pool: %v", kind, err)
		} else {
			p.add(e)
			p.grown++
			h, ok = p.acquire()
		}
	}
	if !ok {
		s.drop(p)
		return EffectHandle{}, false
	}

	inst := s.instance(p, h.Slot)
	if inst == nil {
		p.release(h)
		s.drop(p)
		return EffectHandle{}, false
	}
	s.resetInstance(inst)

	inst.Kind = kind
	inst.Slot = h.Slot
	inst.Active = true
	inst.Origin = pos
	inst.Direction = dir
	inst.Intensity = intensity
	inst.Lifetime = cfg.Lifetime.Seconds()
	inst.Color = cfg.Color
	inst.Radius = cfg.Radius
	s.emit(inst, cfg)

	s.expiries.schedule(s.now+inst.Lifetime, h)
	return h, true
}

// instance returns the slot's component, replacing the entity if something
// outside the dispatcher destroyed it.
func (s *EffectDispatcherSystem) instance(p *effectPool, slot int) *component.EffectInstance {
	e := p.slots[slot].entity
	if inst, ok := ecs.Get(s.world, e, component.EffectInstanceComponent.Kind()); ok {
		return inst
	}
	e, err := s.newInstance(p.kind)
	if err != nil {
		log.Printf("EffectDispatcher: replace %s instance: %v", p.kind, err)
		return nil
	}
	p.slots[slot].entity = e
	inst, _ := ecs.Get(s.world, e, component.EffectInstanceComponent.Kind())
	return inst
}

func (s *EffectDispatcherSystem) drop(p *effectPool) {
	p.dropped++
	if s.now-p.lastDrop < dropLogInterval {
		return
	}
	p.lastDrop = s.now
	log.Printf("EffectDispatcher: %s pool exhausted (capacity %d), dropped %d request(s)", p.kind, len(p.slots), p.dropped)
}

func (s *EffectDispatcherSystem) emit(inst *component.EffectInstance, cfg EffectKindConfig) {
	n := int(math.Round(float64(cfg.Particles) * inst.Intensity))
	if n < 1 {
		n = 1
	}
	if cfg.MaxParticles > 0 && n > cfg.MaxParticles {
		n = cfg.MaxParticles
	}
	radius := cfg.Radius
	if radius <= 0 {
		radius = 1
	}
	speedScale := math.Min(1+0.25*(inst.Intensity-1), 2)
	if speedScale < 0.5 {
		speedScale = 0.5
	}
	baseAngle := inst.Direction.ToAngle()
	gravityScale := cfg.GravityScale

	for i := 0; i < n; i++ {
		const mass = 1.0
		body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
		body.SetPosition(inst.Origin)
		angle := baseAngle + (s.rng.Float64()*2-1)*cfg.Spread
		speed := cfg.Speed * speedScale * (0.5 + 0.5*s.rng.Float64())
		body.SetVelocityVector(cp.ForAngle(angle).Mult(speed))
		if gravityScale != 1 {
			body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping, dt float64) {
				cp.BodyUpdateVelocity(b, gravity.Mult(gravityScale), damping, dt)
			})
		}
		s.space.AddBody(body)
		inst.Bodies = append(inst.Bodies, body)
	}
}

// resetInstance deactivates inst and removes every particle it emitted.
func (s *EffectDispatcherSystem) resetInstance(inst *component.EffectInstance) {
	for _, body := range inst.Bodies {
		if body != nil && s.space.ContainsBody(body) {
			s.space.RemoveBody(body)
		}
	}
	inst.Bodies = inst.Bodies[:0]
	inst.Active = false
	inst.Age = 0
	inst.Intensity = 0
}

// Release returns a checked-out instance early. It reports false for stale
// or already returned handles.
func (s *EffectDispatcherSystem) Release(h EffectHandle) bool {
	if s == nil {
		return false
	}
	p, ok := s.pools[h.Kind]
	if !ok || !p.owns(h) {
		return false
	}
	if inst, ok := ecs.Get(s.world, p.slots[h.Slot].entity, component.EffectInstanceComponent.Kind()); ok {
		s.resetInstance(inst)
	}
	return p.release(h)
}

func (s *EffectDispatcherSystem) InUse(kind component.EffectKind) int {
	if s == nil {
		return 0
	}
	if p, ok := s.pools[kind]; ok {
		return p.inUse
	}
	return 0
}

func (s *EffectDispatcherSystem) Capacity(kind component.EffectKind) int {
	if s == nil {
		return 0
	}
	if p, ok := s.pools[kind]; ok {
		return len(p.slots)
	}
	return 0
}

// Dropped counts spawn requests skipped because the pool was exhausted.
func (s *EffectDispatcherSystem) Dropped(kind component.EffectKind) int {
	if s == nil {
		return 0
	}
	if p, ok := s.pools[kind]; ok {
		return p.dropped
	}
	return 0
}

func (s *EffectDispatcherSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	if !s.attached {
		s.Attach(w)
	}
	f := w.Frame()
	s.Advance(f.Real, f.Scaled)
}

// Advance returns expired instances after realDt and moves particles by
// scaledDt.
func (s *EffectDispatcherSystem) Advance(realDt, scaledDt float64) {
	if s == nil || !s.attached {
		return
	}
	if realDt < 0 {
		realDt = 0
	}
	s.now += realDt
	for _, h := range s.expiries.due(s.now) {
		s.Release(h)
	}

	for _, p := range s.pools {
		for _, slot := range p.slots {
			if !slot.inUse {
				continue
			}
			if inst, ok := ecs.Get(s.world, slot.entity, component.EffectInstanceComponent.Kind()); ok {
				inst.Age += realDt
			}
		}
	}

	if scaledDt > 0 {
		s.space.Step(scaledDt)
	}
}
