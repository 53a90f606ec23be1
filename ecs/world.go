package ecs

import (
	"time"

	"github.com/milk9111/shieldwall/ecs/component"
)

// MaxFrameDelta caps a single real-time step so a stalled window or a
// debugger pause does not skip every running effect to its end.
const MaxFrameDelta = 0.25

// World owns entities, component storages, the event bus and the system
// order.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]store
	scheduler *Scheduler
	bus       *Bus

	clock    Clock
	scale    ScaleReader
	frame    Frame
	lastTick time.Time
	ticking  bool
}

// NewWorld creates an empty ECS world driven by the system clock.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]store),
		scheduler: NewScheduler(),
		bus:       NewBus(),
		clock:     SystemClock{},
	}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.scheduler.Add(s)
}

// Systems returns a copy of the update order.
func (w *World) Systems() []System {
	if w == nil {
		return nil
	}
	return w.scheduler.Systems()
}

// Bus returns the world's inbound event bus.
func (w *World) Bus() *Bus {
	if w == nil {
		return nil
	}
	return w.bus
}

// SetClock replaces the real-time source.
func (w *World) SetClock(c Clock) {
	if w == nil || c == nil {
		return
	}
	w.clock = c
	w.ticking = false
}

// SetTimeScale attaches the global time scale. Without one, scaled time
// equals real time.
func (w *World) SetTimeScale(r ScaleReader) {
	if w == nil {
		return
	}
	w.scale = r
}

// TimeScale returns the current global time scale.
func (w *World) TimeScale() float64 {
	if w == nil || w.scale == nil {
		return 1
	}
	return w.scale.Scale()
}

// Frame returns the timing of the tick currently being processed.
func (w *World) Frame() Frame {
	if w == nil {
		return Frame{}
	}
	return w.frame
}

// Update measures the real time since the previous call and runs one tick.
// The first call after creation or SetClock runs a zero-length tick.
func (w *World) Update() {
	if w == nil {
		return
	}
	now := w.clock.Now()
	dt := 0.0
	if w.ticking {
		dt = now.Sub(w.lastTick).Seconds()
	}
	w.lastTick = now
	w.ticking = true
	w.Step(dt)
}

// Step runs one tick with an explicit real-time delta: bus dispatch first,
// then every system in order.
func (w *World) Step(realDt float64) {
	if w == nil {
		return
	}
	if realDt < 0 {
		realDt = 0
	}
	if realDt > MaxFrameDelta {
		realDt = MaxFrameDelta
	}
	scale := w.TimeScale()
	w.frame = Frame{
		Index:  w.frame.Index + 1,
		Real:   realDt,
		Scaled: realDt * scale,
		Scale:  scale,
	}

	w.bus.Dispatch(w)
	w.scheduler.Update(w)
}
