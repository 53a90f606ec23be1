package entity

import (
	"fmt"

	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
)

func NewCamera(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "camera.yaml")
}

// NewPostProcessVolume creates the entity holding the shared screen
// profile.
func NewPostProcessVolume(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "post_process.yaml")
}

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "player.yaml")
}

func NewBrotherAt(w *ecs.World, x float64) (ecs.Entity, error) {
	return buildAt(w, "brother.yaml", x)
}

func NewEnemyAt(w *ecs.World, x float64) (ecs.Entity, error) {
	return buildAt(w, "enemy.yaml", x)
}

func NewDie(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "die.yaml")
}

// NewEffect builds one pooled effect instance of kind. It is the effect
// dispatcher's factory.
func NewEffect(w *ecs.World, kind component.EffectKind) (ecs.Entity, error) {
	e, err := BuildEntity(w, "effect.yaml")
	if err != nil {
		return 0, err
	}
	inst, ok := ecs.Get(w, e, component.EffectInstanceComponent.Kind())
	if !ok {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("effect: prefab has no effect_instance")
	}
	inst.Kind = kind
	return e, nil
}

func buildAt(w *ecs.World, prefab string, x float64) (ecs.Entity, error) {
	e, err := BuildEntity(w, prefab)
	if err != nil {
		return 0, err
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	y := 0.0
	if ok {
		y = t.Y
	}
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		return 0, fmt.Errorf("%s: override transform: %w", prefab, err)
	}
	return e, nil
}
