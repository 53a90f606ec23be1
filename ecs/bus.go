package ecs

import (
	"log"
	"runtime/debug"
)

// EventHandler receives routed bus events.
type EventHandler interface {
	// HandleEvent is called synchronously during the dispatch phase, before
	// systems update.
	HandleEvent(w *World, ev Event)

	// EventTypes lists the event types the handler subscribes to.
	EventTypes() []EventType
}

// Bus queues published events and routes them to subscribers once per tick.
//
// Delivery is FIFO across all event types. Handlers for one event run in
// subscription order before the next event is delivered. Events published
// while dispatching are delivered on the next tick. A panicking handler is
// recovered and logged; the bus has no error channel.
type Bus struct {
	handlers map[EventType][]EventHandler
	queue    EventQueue
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]EventHandler)}
}

// Subscribe registers h for each of its event types. Subscribing the same
// handler twice is a no-op.
func (b *Bus) Subscribe(h EventHandler) {
	if b == nil || h == nil {
		return
	}
	if b.handlers == nil {
		b.handlers = make(map[EventType][]EventHandler)
	}
	for _, t := range h.EventTypes() {
		if containsHandler(b.handlers[t], h) {
			continue
		}
		b.handlers[t] = append(b.handlers[t], h)
	}
}

// Unsubscribe removes h from every event type it is registered for.
func (b *Bus) Unsubscribe(h EventHandler) {
	if b == nil || h == nil {
		return
	}
	for t, hs := range b.handlers {
		kept := hs[:0:0]
		for _, registered := range hs {
			if registered != h {
				kept = append(kept, registered)
			}
		}
		if len(kept) == 0 {
			delete(b.handlers, t)
			continue
		}
		b.handlers[t] = kept
	}
}

// Publish queues an event for the next dispatch.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	b.queue.Push(ev)
}

// Pending returns the number of queued events.
func (b *Bus) Pending() int {
	if b == nil {
		return 0
	}
	return b.queue.Len()
}

// HandlerCount returns the number of handlers registered for t.
func (b *Bus) HandlerCount(t EventType) int {
	if b == nil {
		return 0
	}
	return len(b.handlers[t])
}

// Dispatch drains the queue and routes every event. It returns the number
// of events drained.
func (b *Bus) Dispatch(w *World) int {
	if b == nil {
		return 0
	}
	events := b.queue.Drain()
	for _, ev := range events {
		hs := append([]EventHandler(nil), b.handlers[ev.Type]...)
		for _, h := range hs {
			deliver(w, h, ev)
		}
	}
	return len(events)
}

func deliver(w *World, h EventHandler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("bus: handler %T panicked on %s: %v\n%s", h, ev.Type, r, debug.Stack())
		}
	}()
	h.HandleEvent(w, ev)
}

func containsHandler(hs []EventHandler, h EventHandler) bool {
	for _, registered := range hs {
		if registered == h {
			return true
		}
	}
	return false
}
