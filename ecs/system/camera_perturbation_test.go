package system

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/ecs/component"
)

const tick = 1.0 / 60.0

func newCameraWorld(t *testing.T) (*ecs.World, ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		t.Fatalf("add camera tag: %v", err)
	}
	cam := &component.Camera{Offset: cp.Vector{X: 3, Y: -2}, Depth: 10, FOV: 60, Zoom: 1}
	if err := ecs.Add(w, e, component.CameraComponent.Kind(), cam); err != nil {
		t.Fatalf("add camera: %v", err)
	}
	return w, e
}

func cameraOf(t *testing.T, w *ecs.World, e ecs.Entity) component.Camera {
	t.Helper()
	cam, ok := ecs.Get(w, e, component.CameraComponent.Kind())
	if !ok {
		t.Fatalf("camera missing")
	}
	return *cam
}

func newTestCamera(cfg CameraPerturbationConfig) *CameraPerturbationSystem {
	return NewCameraPerturbationSystem(cfg, rand.New(rand.NewSource(7)))
}

func TestCameraConvergesToRest(t *testing.T) {
	tests := []struct {
		name string
		run  func(s *CameraPerturbationSystem)
	}{
		{"shake", func(s *CameraPerturbationSystem) { s.DirectionalShake(cp.Vector{X: 1}, 12) }},
		{"punch", func(s *CameraPerturbationSystem) { s.Punch(5) }},
		{"shake_and_punch", func(s *CameraPerturbationSystem) {
			s.DirectionalShake(cp.Vector{X: -1, Y: 1}, 8)
			s.Punch(3)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, e := newCameraWorld(t)
			s := newTestCamera(DefaultCameraPerturbationConfig())
			if !s.Attach(w) {
				t.Fatalf("attach failed")
			}
			rest := cameraOf(t, w, e)

			tt.run(s)
			s.Advance(tick)
			s.Advance(tick)
			if cameraOf(t, w, e) == rest {
				t.Fatalf("camera should be perturbed mid-routine")
			}

			for i := 0; i < 120; i++ {
				s.Advance(tick)
			}
			if got := cameraOf(t, w, e); got != rest {
				t.Fatalf("expected exact rest %+v, got %+v", rest, got)
			}
			if s.Shaking() || s.Punching() {
				t.Fatalf("no layer should remain active")
			}
		})
	}
}

func TestPunchRestartResetsFirst(t *testing.T) {
	w, e := newCameraWorld(t)
	s := newTestCamera(DefaultCameraPerturbationConfig())
	s.Attach(w)

	s.Punch(10)
	for i := 0; i < 4; i++ {
		s.Advance(tick)
	}
	if cameraOf(t, w, e).Depth == 10 {
		t.Fatalf("first punch should have moved depth")
	}

	s.Punch(2)
	if got := cameraOf(t, w, e).Depth; got != 10 {
		t.Fatalf("restarted punch should begin from rest depth 10, got %v", got)
	}
	s.Advance(0.06)
	if got := cameraOf(t, w, e).Depth; got > 12+1e-9 {
		t.Fatalf("second punch must not stack on the first, depth=%v", got)
	}
}

func TestStartingOneKindCancelsTheOther(t *testing.T) {
	w, e := newCameraWorld(t)
	s := newTestCamera(DefaultCameraPerturbationConfig())
	s.Attach(w)
	rest := cameraOf(t, w, e)

	s.DirectionalShake(cp.Vector{Y: 1}, 10)
	s.Advance(tick)
	s.Punch(4)
	if s.Shaking() || !s.Punching() {
		t.Fatalf("punch should replace the shake, shaking=%v punching=%v", s.Shaking(), s.Punching())
	}
	if got := cameraOf(t, w, e).Offset; got != rest.Offset {
		t.Fatalf("cancelled shake should leave offset at rest, got %v", got)
	}

	s.Advance(tick)
	s.DirectionalShake(cp.Vector{X: 1}, 6)
	if s.Punching() || !s.Shaking() {
		t.Fatalf("shake should replace the punch, shaking=%v punching=%v", s.Shaking(), s.Punching())
	}
	cam := cameraOf(t, w, e)
	if cam.Depth != rest.Depth || cam.FOV != rest.FOV {
		t.Fatalf("cancelled punch should leave depth and fov at rest, got %v %v", cam.Depth, cam.FOV)
	}
}

func TestComposeKeepsBothKinds(t *testing.T) {
	cfg := DefaultCameraPerturbationConfig()
	cfg.Compose = true
	w, e := newCameraWorld(t)
	s := newTestCamera(cfg)
	s.Attach(w)
	rest := cameraOf(t, w, e)

	s.DirectionalShake(cp.Vector{Y: 1}, 10)
	s.Punch(4)
	if !s.Shaking() || !s.Punching() {
		t.Fatalf("composed camera should run both, shaking=%v punching=%v", s.Shaking(), s.Punching())
	}
	for i := 0; i < 120; i++ {
		s.Advance(tick)
	}
	if got := cameraOf(t, w, e); got != rest {
		t.Fatalf("expected exact rest %+v, got %+v", rest, got)
	}
}

func TestCameraReset(t *testing.T) {
	w, e := newCameraWorld(t)
	s := newTestCamera(DefaultCameraPerturbationConfig())
	s.Attach(w)
	rest := cameraOf(t, w, e)

	s.DirectionalShake(cp.Vector{X: 1}, 20)
	s.Punch(6)
	s.Advance(0.05)
	s.Reset()
	if got := cameraOf(t, w, e); got != rest {
		t.Fatalf("reset should restore rest immediately, got %+v", got)
	}
}

func TestCameraUpdateRunsOnRealTime(t *testing.T) {
	w, e := newCameraWorld(t)
	cfg := DefaultCameraPerturbationConfig()
	cfg.ShakeDuration = 100 * time.Millisecond
	s := newTestCamera(cfg)
	w.SetTimeScale(frozenScale{})
	w.AddSystem(s)
	w.Step(tick)

	rest := cameraOf(t, w, e)
	s.DirectionalShake(cp.Vector{X: 1}, 5)
	for i := 0; i < 10; i++ {
		w.Step(tick * 2)
	}
	if got := cameraOf(t, w, e); got != rest {
		t.Fatalf("shake should finish on real time even when scaled time is frozen, got %+v", got)
	}
}

type frozenScale struct{}

func (frozenScale) Scale() float64 { return 0 }

func TestCameraMissingIsNoOp(t *testing.T) {
	w := ecs.NewWorld()
	s := newTestCamera(DefaultCameraPerturbationConfig())
	if s.Attach(w) {
		t.Fatalf("attach should fail without a camera")
	}
	s.DirectionalShake(cp.Vector{X: 1}, 5)
	s.Punch(3)
	s.Update(w)
	s.Reset()
	if s.Shaking() || s.Punching() {
		t.Fatalf("calls without a camera must not start routines")
	}

	var nilSys *CameraPerturbationSystem
	nilSys.DirectionalShake(cp.Vector{X: 1}, 5)
	nilSys.Punch(1)
	nilSys.Advance(1)
}
