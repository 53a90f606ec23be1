package ecs

import "github.com/jakecoffman/cp"

// EventType identifies a combat notification on the bus.
type EventType string

const (
	EventPlayerWounded  EventType = "player_wounded"
	EventEnemyKilled    EventType = "enemy_killed"
	EventAttackBlocked  EventType = "attack_blocked"
	EventBrotherWounded EventType = "brother_wounded"
	EventWaveCleared    EventType = "wave_cleared"
	EventBattleEnded    EventType = "battle_ended"
)

// Event is a bus notification. Data holds one of the payload types below,
// matching Type.
type Event struct {
	Type EventType
	Data any
}

// PlayerWounded is raised when the player character takes damage.
type PlayerWounded struct {
	Damage int
}

// EnemyKilled is raised when an enemy dies.
type EnemyKilled struct {
	Enemy Entity
}

// AttackBlocked is raised when a shield stops an attack. Attacker and
// Defender may be zero; Point, when non-zero, is the contact point in world
// space.
type AttackBlocked struct {
	Attacker Entity
	Defender Entity
	Point    cp.Vector
}

// BrotherWounded is raised when one of the player's brothers takes damage.
type BrotherWounded struct {
	Brother Entity
	Damage  int
}

type WaveCleared struct{}

type BattleEnded struct {
	Victory bool
}

func NewPlayerWounded(damage int) Event {
	return Event{Type: EventPlayerWounded, Data: PlayerWounded{Damage: damage}}
}

func NewEnemyKilled(enemy Entity) Event {
	return Event{Type: EventEnemyKilled, Data: EnemyKilled{Enemy: enemy}}
}

func NewAttackBlocked(attacker, defender Entity, point cp.Vector) Event {
	return Event{Type: EventAttackBlocked, Data: AttackBlocked{Attacker: attacker, Defender: defender, Point: point}}
}

func NewBrotherWounded(brother Entity, damage int) Event {
	return Event{Type: EventBrotherWounded, Data: BrotherWounded{Brother: brother, Damage: damage}}
}

func NewWaveCleared() Event {
	return Event{Type: EventWaveCleared, Data: WaveCleared{}}
}

func NewBattleEnded(victory bool) Event {
	return Event{Type: EventBattleEnded, Data: BattleEnded{Victory: victory}}
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
