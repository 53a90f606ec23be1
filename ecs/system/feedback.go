package system

import (
	"log"
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
)

type TimeDilator interface {
	HitStop(d time.Duration)
	SlowMotion(d time.Duration, scale float64)
}

type CameraPerturber interface {
	DirectionalShake(dir cp.Vector, intensity float64)
	Punch(distance float64)
}

type PostProcessPulser interface {
	TriggerDamageEffect(intensity float64)
	TriggerKillEffect()
}

type EffectSpawner interface {
	SpawnBlood(pos, dir cp.Vector, intensity float64) (EffectHandle, bool)
	SpawnBlockEffect(pos cp.Vector) (EffectHandle, bool)
}

type PoseAnimator interface {
	PlayHit(w *ecs.World, e ecs.Entity, dir cp.Vector) bool
	PlayDeath(w *ecs.World, e ecs.Entity) bool
}

// DamageScaler remaps a damage value before it scales a recipe.
type DamageScaler interface {
	Scale(event ecs.EventType, damage float64) (float64, error)
}

// FeedbackControllers are the controllers a recipe drives. Nil fields are
// looked up among the world's systems the first time an event arrives.
type FeedbackControllers struct {
	Time    TimeDilator
	Camera  CameraPerturber
	Pulse   PostProcessPulser
	Effects EffectSpawner
	Poses   PoseAnimator
}

type EffectRequestKind int

const (
	RequestHitStop EffectRequestKind = iota
	RequestSlowMotion
	RequestShake
	RequestPunch
	RequestDamagePulse
	RequestKillPulse
	RequestSpawnBlood
	RequestSpawnBlock
	RequestPoseHit
	RequestPoseDeath
)

func (k EffectRequestKind) String() string {
	switch k {
	case RequestHitStop:
		return "hit_stop"
	case RequestSlowMotion:
		return "slow_motion"
	case RequestShake:
		return "shake"
	case RequestPunch:
		return "punch"
	case RequestDamagePulse:
		return "damage_pulse"
	case RequestKillPulse:
		return "kill_pulse"
	case RequestSpawnBlood:
		return "spawn_blood"
	case RequestSpawnBlock:
		return "spawn_block"
	case RequestPoseHit:
		return "pose_hit"
	case RequestPoseDeath:
		return "pose_death"
	default:
		return "unknown"
	}
}

// EffectRequest is one call into a controller, built per event and applied
// immediately.
type EffectRequest struct {
	Kind      EffectRequestKind
	Magnitude float64
	Direction cp.Vector
	Position  cp.Vector
	Duration  time.Duration
	Target    ecs.Entity
}

type FeedbackConfig struct {
	HitStop              time.Duration
	ShakeIntensity       float64
	WoundShakeMultiplier float64
	PunchDistance        float64
	WoundDirection       cp.Vector
	// PlayerAnchor is used for player effects when no player entity exists.
	PlayerAnchor cp.Vector
	// MaxDamageScale caps the damage multiplier; zero leaves it unclamped.
	MaxDamageScale float64

	KillHitStop        time.Duration
	KillShake          float64
	KillBloodIntensity float64

	BlockHitStop time.Duration
	BlockShake   float64

	BrotherShake float64

	WaveSlowDuration    time.Duration
	WaveSlowScale       float64
	VictorySlowDuration time.Duration
	VictorySlowScale    float64
	DefeatSlowDuration  time.Duration
	DefeatSlowScale     float64
}

func DefaultFeedbackConfig() FeedbackConfig {
	return FeedbackConfig{
		HitStop:              50 * time.Millisecond,
		ShakeIntensity:       4,
		WoundShakeMultiplier: 1.5,
		PunchDistance:        6,
		WoundDirection:       cp.Vector{X: -1, Y: 0},
		PlayerAnchor:         cp.Vector{X: 640, Y: 420},
		KillHitStop:          40 * time.Millisecond,
		KillShake:            3,
		KillBloodIntensity:   1.5,
		BlockHitStop:         30 * time.Millisecond,
		BlockShake:           2,
		BrotherShake:         2,
		WaveSlowDuration:     1200 * time.Millisecond,
		WaveSlowScale:        0.3,
		VictorySlowDuration:  2 * time.Second,
		VictorySlowScale:     0.25,
		DefeatSlowDuration:   3 * time.Second,
		DefeatSlowScale:      0.15,
	}
}

var feedbackEventTypes = []ecs.EventType{
	ecs.EventPlayerWounded,
	ecs.EventEnemyKilled,
	ecs.EventAttackBlocked,
	ecs.EventBrotherWounded,
	ecs.EventWaveCleared,
	ecs.EventBattleEnded,
}

// FeedbackSystem maps combat events to feedback recipes. It holds no
// timing state; every request starts in the frame the event is delivered
// and each controller finishes on its own.
type FeedbackSystem struct {
	cfg    FeedbackConfig
	ctrl   FeedbackControllers
	scaler DamageScaler
	bus    *ecs.Bus

	handled        int
	lastEvent      ecs.EventType
	scriptFailures int
}

func NewFeedbackSystem(cfg FeedbackConfig, ctrl FeedbackControllers) *FeedbackSystem {
	return &FeedbackSystem{cfg: cfg, ctrl: ctrl}
}

func (s *FeedbackSystem) Reconfigure(cfg FeedbackConfig) {
	if s == nil {
		return
	}
	s.cfg = cfg
}

func (s *FeedbackSystem) Config() FeedbackConfig {
	if s == nil {
		return FeedbackConfig{}
	}
	return s.cfg
}

// SetScaler installs a damage remapper. Nil removes it.
func (s *FeedbackSystem) SetScaler(scaler DamageScaler) {
	if s == nil {
		return
	}
	s.scaler = scaler
}

// Activate subscribes to bus. A second Activate moves the subscription.
func (s *FeedbackSystem) Activate(bus *ecs.Bus) {
	if s == nil || bus == nil {
		return
	}
	if s.bus != nil {
		s.bus.Unsubscribe(s)
	}
	bus.Subscribe(s)
	s.bus = bus
}

func (s *FeedbackSystem) Deactivate() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.Unsubscribe(s)
	s.bus = nil
}

func (s *FeedbackSystem) EventTypes() []ecs.EventType {
	return feedbackEventTypes
}

// Handled counts delivered events, for the debug overlay.
func (s *FeedbackSystem) Handled() (int, ecs.EventType) {
	if s == nil {
		return 0, ""
	}
	return s.handled, s.lastEvent
}

func (s *FeedbackSystem) HandleEvent(w *ecs.World, ev ecs.Event) {
	if s == nil {
		return
	}
	s.resolve(w)
	s.handled++
	s.lastEvent = ev.Type
	for _, req := range s.requestsFor(w, ev) {
		s.apply(w, req)
	}
}

// resolve fills missing controllers from the world's systems.
func (s *FeedbackSystem) resolve(w *ecs.World) {
	if w == nil {
		return
	}
	for _, sys := range w.Systems() {
		if s.ctrl.Time == nil {
			if v, ok := sys.(TimeDilator); ok {
				s.ctrl.Time = v
			}
		}
		if s.ctrl.Camera == nil {
			if v, ok := sys.(CameraPerturber); ok {
				s.ctrl.Camera = v
			}
		}
		if s.ctrl.Pulse == nil {
			if v, ok := sys.(PostProcessPulser); ok {
				s.ctrl.Pulse = v
			}
		}
		if s.ctrl.Effects == nil {
			if v, ok := sys.(EffectSpawner); ok {
				s.ctrl.Effects = v
			}
		}
		if s.ctrl.Poses == nil {
			if v, ok := sys.(PoseAnimator); ok {
				s.ctrl.Poses = v
			}
		}
	}
}

func (s *FeedbackSystem) requestsFor(w *ecs.World, ev ecs.Event) []EffectRequest {
	cfg := s.cfg
	switch data := ev.Data.(type) {
	case ecs.PlayerWounded:
		scale := s.damageScale(ev.Type, data.Damage)
		if scale <= 0 {
			return nil
		}
		dir := cfg.WoundDirection
		return []EffectRequest{
			{Kind: RequestHitStop, Duration: scaleDuration(cfg.HitStop, scale)},
			{Kind: RequestShake, Direction: dir, Magnitude: cfg.ShakeIntensity * scale * cfg.WoundShakeMultiplier},
			{Kind: RequestPunch, Magnitude: cfg.PunchDistance * scale},
			{Kind: RequestDamagePulse, Magnitude: scale},
			{Kind: RequestSpawnBlood, Position: s.playerAnchor(w), Direction: dir, Magnitude: scale},
		}

	case ecs.EnemyKilled:
		pos := s.anchorOf(w, data.Enemy, cfg.PlayerAnchor)
		dir := pos.Sub(s.playerAnchor(w))
		if dir.LengthSq() == 0 {
			dir = cfg.WoundDirection.Neg()
		}
		return []EffectRequest{
			{Kind: RequestKillPulse},
			{Kind: RequestHitStop, Duration: cfg.KillHitStop},
			{Kind: RequestShake, Direction: dir, Magnitude: cfg.KillShake},
			{Kind: RequestSpawnBlood, Position: pos, Direction: dir, Magnitude: cfg.KillBloodIntensity},
			{Kind: RequestPoseDeath, Target: data.Enemy},
		}

	case ecs.AttackBlocked:
		pos := data.Point
		if pos.LengthSq() == 0 {
			pos = s.anchorOf(w, data.Defender, s.anchorOf(w, data.Attacker, cfg.PlayerAnchor))
		}
		dir := s.anchorOf(w, data.Defender, pos).Sub(s.anchorOf(w, data.Attacker, pos))
		return []EffectRequest{
			{Kind: RequestSpawnBlock, Position: pos},
			{Kind: RequestShake, Direction: dir, Magnitude: cfg.BlockShake},
			{Kind: RequestHitStop, Duration: cfg.BlockHitStop},
		}

	case ecs.BrotherWounded:
		scale := s.damageScale(ev.Type, data.Damage)
		if scale <= 0 {
			return nil
		}
		dir := cfg.WoundDirection
		return []EffectRequest{
			{Kind: RequestSpawnBlood, Position: s.anchorOf(w, data.Brother, cfg.PlayerAnchor), Direction: dir, Magnitude: scale},
			{Kind: RequestShake, Direction: dir, Magnitude: cfg.BrotherShake * scale},
			{Kind: RequestPoseHit, Target: data.Brother, Direction: dir},
		}

	case ecs.WaveCleared:
		return []EffectRequest{
			{Kind: RequestSlowMotion, Duration: cfg.WaveSlowDuration, Magnitude: cfg.WaveSlowScale},
		}

	case ecs.BattleEnded:
		if data.Victory {
			return []EffectRequest{
				{Kind: RequestSlowMotion, Duration: cfg.VictorySlowDuration, Magnitude: cfg.VictorySlowScale},
				{Kind: RequestKillPulse},
			}
		}
		return []EffectRequest{
			{Kind: RequestSlowMotion, Duration: cfg.DefeatSlowDuration, Magnitude: cfg.DefeatSlowScale},
			{Kind: RequestDamagePulse, Magnitude: 1},
		}

	default:
		log.Printf("Feedback: %s event carries unexpected payload %T", ev.Type, ev.Data)
		return nil
	}
}

func (s *FeedbackSystem) apply(w *ecs.World, req EffectRequest) {
	c := s.ctrl
	switch req.Kind {
	case RequestHitStop:
		if c.Time != nil {
			c.Time.HitStop(req.Duration)
		}
	case RequestSlowMotion:
		if c.Time != nil {
			c.Time.SlowMotion(req.Duration, req.Magnitude)
		}
	case RequestShake:
		if c.Camera != nil {
			c.Camera.DirectionalShake(req.Direction, req.Magnitude)
		}
	case RequestPunch:
		if c.Camera != nil {
			c.Camera.Punch(req.Magnitude)
		}
	case RequestDamagePulse:
		if c.Pulse != nil {
			c.Pulse.TriggerDamageEffect(req.Magnitude)
		}
	case RequestKillPulse:
		if c.Pulse != nil {
			c.Pulse.TriggerKillEffect()
		}
	case RequestSpawnBlood:
		if c.Effects != nil && req.Magnitude > 0 {
			c.Effects.SpawnBlood(req.Position, req.Direction, req.Magnitude)
		}
	case RequestSpawnBlock:
		if c.Effects != nil {
			c.Effects.SpawnBlockEffect(req.Position)
		}
	case RequestPoseHit:
		if c.Poses != nil {
			c.Poses.PlayHit(w, req.Target, req.Direction)
		}
	case RequestPoseDeath:
		if c.Poses != nil {
			c.Poses.PlayDeath(w, req.Target)
		}
	}
}

// damageScale turns raw damage into a recipe multiplier: clamp first, then
// the optional script.
func (s *FeedbackSystem) damageScale(event ecs.EventType, damage int) float64 {
	scale := float64(damage)
	if scale <= 0 {
		return 0
	}
	if s.cfg.MaxDamageScale > 0 && scale > s.cfg.MaxDamageScale {
		scale = s.cfg.MaxDamageScale
	}
	if s.scaler == nil {
		return scale
	}
	scripted, err := s.scaler.Scale(event, scale)
	if err != nil {
		s.scriptFailures++
		if s.scriptFailures == 1 || s.scriptFailures%100 == 0 {
			log.Printf("Feedback: damage script for %s failed (%d so far), using %v: %v", event, s.scriptFailures, scale, err)
		}
		return scale
	}
	if scripted < 0 {
		return 0
	}
	return scripted
}

const maxDuration = time.Duration(math.MaxInt64)

// scaleDuration multiplies d by scale, saturating at maxDuration.
func scaleDuration(d time.Duration, scale float64) time.Duration {
	v := float64(d) * scale
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= float64(maxDuration):
		return maxDuration
	}
	return time.Duration(v)
}

func (s *FeedbackSystem) playerAnchor(w *ecs.World) cp.Vector {
	if e, ok := w.First(component.PlayerTagComponent.Kind(), component.TransformComponent.Kind()); ok {
		return s.anchorOf(w, e, s.cfg.PlayerAnchor)
	}
	return s.cfg.PlayerAnchor
}

// anchorOf returns where effects on e should appear, or fallback when e
// has no transform.
func (s *FeedbackSystem) anchorOf(w *ecs.World, e ecs.Entity, fallback cp.Vector) cp.Vector {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return fallback
	}
	pos := t.Position()
	if actor, ok := ecs.Get(w, e, component.ActorComponent.Kind()); ok {
		pos = pos.Add(actor.Anchor)
	}
	return pos
}
