package entity

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
	"github.com/milk9111/shieldwall/prefabs"
)

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any) error

var componentRegistry = map[string]componentBuildFn{
	"camera_tag":           addCameraTag,
	"post_process_volume":  addPostProcessVolume,
	"player_tag":           addPlayerTag,
	"brother_tag":          addBrotherTag,
	"enemy_tag":            addEnemyTag,
	"dice_tag":             addDiceTag,
	"transform":            addTransform,
	"render_layer":         addRenderLayer,
	"camera":               addCamera,
	"post_process_profile": addPostProcessProfile,
	"actor":                addActor,
	"animator":             addAnimator,
	"die_roll":             addDieRoll,
	"effect_instance":      addEffectInstance,
}

// componentBuildOrder puts tags first so later builders can inspect them.
// Anything not listed is built afterwards in name order.
var componentBuildOrder = []string{
	"camera_tag",
	"post_process_volume",
	"player_tag",
	"brother_tag",
	"enemy_tag",
	"dice_tag",
	"transform",
	"render_layer",
	"camera",
	"post_process_profile",
	"actor",
	"animator",
	"die_roll",
	"effect_instance",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	names := make([]string, 0, len(spec.Components))
	seen := make(map[string]bool, len(spec.Components))
	for _, name := range componentBuildOrder {
		if _, ok := spec.Components[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range spec.Components {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	e := ecs.CreateEntity(w)
	for _, name := range names {
		builder, ok := componentRegistry[name]
		if !ok {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, spec.Components[name]); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

func addPostProcessVolume(w *ecs.World, e ecs.Entity, _ any) error {
	return ecs.Add(w, e, component.PostProcessVolumeComponent.Kind(), &component.PostProcessVolume{})
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addBrotherTag(w *ecs.World, e ecs.Entity, _ any) error {
	return ecs.Add(w, e, component.BrotherTagComponent.Kind(), &component.BrotherTag{})
}

func addEnemyTag(w *ecs.World, e ecs.Entity, _ any) error {
	return ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
}

func addDiceTag(w *ecs.World, e ecs.Entity, _ any) error {
	return ecs.Add(w, e, component.DiceTagComponent.Kind(), &component.DiceTag{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

type renderLayerSpec = prefabs.RenderLayerComponentSpec

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[renderLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

type cameraSpec = prefabs.CameraComponentSpec

func addCamera(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	if spec.Zoom <= 0 {
		spec.Zoom = 1
	}
	if spec.FOV <= 0 {
		spec.FOV = component.ReferenceFOV
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		Offset: cp.Vector{X: spec.OffsetX, Y: spec.OffsetY},
		Depth:  spec.Depth,
		FOV:    spec.FOV,
		Zoom:   spec.Zoom,
		Focal:  spec.Focal,
	})
}

type postProcessProfileSpec = prefabs.PostProcessProfileComponentSpec

func addPostProcessProfile(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[postProcessProfileSpec](raw)
	if err != nil {
		return fmt.Errorf("decode post process profile spec: %w", err)
	}

	profile := &component.PostProcessProfile{}
	if v := spec.Vignette; v != nil {
		vignette := &component.Vignette{
			Intensity:  v.Intensity,
			Smoothness: v.Smoothness,
			Color:      color.NRGBA{A: 255},
		}
		if v.Color != nil && v.Color.Color != nil {
			vignette.Color = v.Color.NRGBA()
		}
		profile.Vignette = vignette
	}
	if ca := spec.ChromaticAberration; ca != nil {
		profile.ChromaticAberration = &component.ChromaticAberration{Intensity: ca.Intensity}
	}
	if adj := spec.ColorAdjustments; adj != nil {
		profile.ColorAdjustments = &component.ColorAdjustments{
			Saturation:   adj.Saturation,
			Contrast:     adj.Contrast,
			PostExposure: adj.PostExposure,
		}
	}
	return ecs.Add(w, e, component.PostProcessProfileComponent.Kind(), profile)
}

type actorSpec = prefabs.ActorComponentSpec

func addActor(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[actorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode actor spec: %w", err)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("actor %q needs a positive width and height", spec.Name)
	}
	facing := 1.0
	if spec.Facing < 0 {
		facing = -1
	}
	actor := &component.Actor{
		Name:   spec.Name,
		Width:  spec.Width,
		Height: spec.Height,
		Color:  color.NRGBA{R: 200, G: 200, B: 200, A: 255},
		Anchor: cp.Vector{X: spec.AnchorX, Y: spec.AnchorY},
		Facing: facing,
	}
	if spec.Color != nil && spec.Color.Color != nil {
		actor.Color = spec.Color.NRGBA()
	}
	return ecs.Add(w, e, component.ActorComponent.Kind(), actor)
}

type animatorSpec = prefabs.AnimatorComponentSpec

func addAnimator(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[animatorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode animator spec: %w", err)
	}
	return ecs.Add(w, e, component.AnimatorComponent.Kind(), &component.Animator{
		Tuning: component.PoseTuning{
			BobAmplitude:   spec.BobAmplitude,
			BobFrequency:   spec.BobFrequency,
			RecoilDistance: spec.RecoilDistance,
			HitDuration:    spec.HitDuration,
			FallDuration:   spec.FallDuration,
			FallAngle:      spec.FallAngle,
		},
		Phase: spec.Phase,
		Alpha: 1,
	})
}

type dieRollSpec = prefabs.DieRollComponentSpec

func addDieRoll(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[dieRollSpec](raw)
	if err != nil {
		return fmt.Errorf("decode die roll spec: %w", err)
	}
	if spec.Faces < 2 {
		spec.Faces = 6
	}
	return ecs.Add(w, e, component.DieRollComponent.Kind(), &component.DieRoll{
		Faces:     spec.Faces,
		Face:      1,
		ShownFace: 1,
		Duration:  spec.Duration,
		SpinSpeed: spec.SpinSpeed,
	})
}

type effectInstanceSpec = prefabs.EffectInstanceComponentSpec

func addEffectInstance(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[effectInstanceSpec](raw)
	if err != nil {
		return fmt.Errorf("decode effect instance spec: %w", err)
	}
	kind := component.EffectKind(spec.Kind)
	switch kind {
	case component.EffectBlood, component.EffectBlock:
	case "":
		kind = component.EffectBlood
	default:
		return fmt.Errorf("unknown effect kind %q", spec.Kind)
	}
	return ecs.Add(w, e, component.EffectInstanceComponent.Kind(), &component.EffectInstance{Kind: kind, Slot: -1})
}
