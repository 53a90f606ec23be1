package system

import (
	"container/heap"

	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
)

// EffectHandle names one checkout of a pooled effect. It goes stale as soon
// as the instance is returned.
type EffectHandle struct {
	Kind component.EffectKind
	Slot int
	Gen  uint32
}

func (h EffectHandle) Valid() bool {
	return h.Kind != "" && h.Gen != 0
}

type poolSlot struct {
	entity ecs.Entity
	gen    uint32
	inUse  bool
}

// effectPool is an arena of instances with a LIFO free list.
type effectPool struct {
	kind  component.EffectKind
	slots []poolSlot
	free  []int
	grown int
	inUse int

	dropped  int
	lastDrop float64
	logged   bool
}

func (p *effectPool) add(e ecs.Entity) int {
	p.slots = append(p.slots, poolSlot{entity: e, gen: 1})
	slot := len(p.slots) - 1
	p.free = append(p.free, slot)
	return slot
}

func (p *effectPool) acquire() (EffectHandle, bool) {
	if len(p.free) == 0 {
		return EffectHandle{}, false
	}
	slot := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.slots[slot].inUse = true
	p.inUse++
	return EffectHandle{Kind: p.kind, Slot: slot, Gen: p.slots[slot].gen}, true
}

func (p *effectPool) owns(h EffectHandle) bool {
	if h.Slot < 0 || h.Slot >= len(p.slots) {
		return false
	}
	s := p.slots[h.Slot]
	return s.inUse && s.gen == h.Gen
}

// release returns the slot to the free list. Stale and double returns are
// ignored.
func (p *effectPool) release(h EffectHandle) bool {
	if !p.owns(h) {
		return false
	}
	s := &p.slots[h.Slot]
	s.inUse = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	p.inUse--
	p.free = append(p.free, h.Slot)
	return true
}

type effectExpiry struct {
	at     float64
	handle EffectHandle
}

type expiryHeap []effectExpiry

func (h expiryHeap) Len() int { return len(h) }

func (h expiryHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	if h[i].handle.Kind != h[j].handle.Kind {
		return h[i].handle.Kind < h[j].handle.Kind
	}
	return h[i].handle.Slot < h[j].handle.Slot
}

func (h expiryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *expiryHeap) Push(x any) { *h = append(*h, x.(effectExpiry)) }

func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (h *expiryHeap) schedule(at float64, handle EffectHandle) {
	heap.Push(h, effectExpiry{at: at, handle: handle})
}

// due pops every entry that expires at or before now.
func (h *expiryHeap) due(now float64) []EffectHandle {
	var out []EffectHandle
	for h.Len() > 0 && (*h)[0].at <= now {
		out = append(out, heap.Pop(h).(effectExpiry).handle)
	}
	return out
}
