package ecs

import "testing"

type recordingHandler struct {
	types []EventType
	got   []Event
	onEv  func(w *World, ev Event)
}

func (h *recordingHandler) HandleEvent(w *World, ev Event) {
	h.got = append(h.got, ev)
	if h.onEv != nil {
		h.onEv(w, ev)
	}
}

func (h *recordingHandler) EventTypes() []EventType {
	return h.types
}

func TestBusDeliversInPublishOrder(t *testing.T) {
	w := NewWorld()
	h := &recordingHandler{types: []EventType{EventPlayerWounded, EventEnemyKilled, EventWaveCleared}}
	w.Bus().Subscribe(h)

	w.Bus().Publish(NewPlayerWounded(2))
	w.Bus().Publish(NewWaveCleared())
	w.Bus().Publish(NewEnemyKilled(0))
	w.Bus().Publish(NewBattleEnded(true))

	w.Step(1.0 / 60.0)

	want := []EventType{EventPlayerWounded, EventWaveCleared, EventEnemyKilled}
	if len(h.got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(h.got))
	}
	for i, ev := range h.got {
		if ev.Type != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], ev.Type)
		}
	}
	if w.Bus().Pending() != 0 {
		t.Fatalf("queue should be drained, %d pending", w.Bus().Pending())
	}
}

func TestBusSubscribeIsIdempotent(t *testing.T) {
	b := NewBus()
	h := &recordingHandler{types: []EventType{EventWaveCleared}}
	b.Subscribe(h)
	b.Subscribe(h)
	if got := b.HandlerCount(EventWaveCleared); got != 1 {
		t.Fatalf("expected 1 handler, got %d", got)
	}

	b.Publish(NewWaveCleared())
	b.Dispatch(nil)
	if len(h.got) != 1 {
		t.Fatalf("expected a single delivery, got %d", len(h.got))
	}

	b.Unsubscribe(h)
	b.Publish(NewWaveCleared())
	if n := b.Dispatch(nil); n != 1 {
		t.Fatalf("expected 1 drained event, got %d", n)
	}
	if len(h.got) != 1 {
		t.Fatalf("unsubscribed handler should not receive events")
	}
}

func TestBusRecoversHandlerPanic(t *testing.T) {
	b := NewBus()
	bad := &recordingHandler{
		types: []EventType{EventBattleEnded},
		onEv:  func(*World, Event) { panic("boom") },
	}
	good := &recordingHandler{types: []EventType{EventBattleEnded}}
	b.Subscribe(bad)
	b.Subscribe(good)

	b.Publish(NewBattleEnded(false))
	b.Publish(NewBattleEnded(true))
	b.Dispatch(nil)

	if len(good.got) != 2 {
		t.Fatalf("handler after a panicking one should still run, got %d events", len(good.got))
	}
}

func TestBusDefersEventsPublishedDuringDispatch(t *testing.T) {
	w := NewWorld()
	h := &recordingHandler{types: []EventType{EventEnemyKilled, EventWaveCleared}}
	h.onEv = func(w *World, ev Event) {
		if ev.Type == EventEnemyKilled {
			w.Bus().Publish(NewWaveCleared())
		}
	}
	w.Bus().Subscribe(h)

	w.Bus().Publish(NewEnemyKilled(0))
	w.Step(0.016)
	if len(h.got) != 1 {
		t.Fatalf("follow-up event should wait for the next tick, got %d", len(h.got))
	}
	w.Step(0.016)
	if len(h.got) != 2 || h.got[1].Type != EventWaveCleared {
		t.Fatalf("expected wave_cleared on the second tick, got %+v", h.got)
	}
}

func TestNilBus(t *testing.T) {
	var b *Bus
	b.Subscribe(&recordingHandler{})
	b.Publish(NewWaveCleared())
	if b.Dispatch(nil) != 0 || b.Pending() != 0 {
		t.Fatalf("nil bus should do nothing")
	}
}
