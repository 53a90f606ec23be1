package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestCleanPaths(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		prefab string
		script string
	}{
		{"bare", "feedback.tengo", "feedback.tengo", "scripts/feedback.tengo"},
		{"prefixed", "prefabs/scripts/feedback.tengo", "scripts/feedback.tengo", "scripts/feedback.tengo"},
		{"absolute", "/home/me/game/prefabs/player.yaml", "player.yaml", "scripts/player.yaml"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanPrefabPath(tt.in); got != tt.prefab {
				t.Errorf("cleanPrefabPath(%q) = %q, expected %q", tt.in, got, tt.prefab)
			}
			if got := cleanScriptPath(tt.in); got != tt.script {
				t.Errorf("cleanScriptPath(%q) = %q, expected %q", tt.in, got, tt.script)
			}
		})
	}
}

func TestEmbeddedPrefabsDecode(t *testing.T) {
	names := []string{"player.yaml", "brother.yaml", "enemy.yaml", "die.yaml", "camera.yaml", "post_process.yaml", "effect.yaml"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			spec, err := LoadEntityBuildSpec(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if spec.Name == "" || len(spec.Components) == 0 {
				t.Fatalf("prefab %s should have a name and components, got %+v", name, spec)
			}
		})
	}
}

func TestLoadFeedbackSpec(t *testing.T) {
	spec, err := LoadFeedbackSpec()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Camera.DirectionalBias == nil || *spec.Camera.DirectionalBias != 0.6 {
		t.Fatalf("directional bias = %v, expected 0.6", spec.Camera.DirectionalBias)
	}
	if spec.Effects.Blood.Color == nil {
		t.Fatalf("blood color should be set")
	}
	if got := spec.Effects.Blood.Color.NRGBA(); got != (color.NRGBA{R: 0x96, G: 0x0a, B: 0x14, A: 0xff}) {
		t.Fatalf("blood color = %v", got)
	}
	if spec.Recipes.Script != "feedback.tengo" {
		t.Fatalf("script = %q", spec.Recipes.Script)
	}
	if _, err := LoadScript(spec.Recipes.Script); err != nil {
		t.Fatalf("load script: %v", err)
	}
}

func TestFeedbackSpecMarshalKeepsValues(t *testing.T) {
	spec, err := LoadFeedbackSpec()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	out, err := spec.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back FeedbackSpec
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if back.Recipes.WaveSlowScale != spec.Recipes.WaveSlowScale || back.Effects.Block.Color.NRGBA() != spec.Effects.Block.Color.NRGBA() {
		t.Fatalf("marshalled spec lost values:\n%s", out)
	}

	var nilSpec *FeedbackSpec
	if _, err := nilSpec.Marshal(); err == nil {
		t.Fatalf("expected error for nil spec")
	}
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected color.NRGBA
		wantErr  bool
	}{
		{"rgb", `"#ff8000"`, color.NRGBA{R: 255, G: 128, A: 255}, false},
		{"rgba", `"#ff800040"`, color.NRGBA{R: 255, G: 128, A: 64}, false},
		{"no_hash", `"00ff00"`, color.NRGBA{G: 255, A: 255}, false},
		{"short", `"#fff"`, color.NRGBA{}, true},
		{"bad_hex", `"#gg0000"`, color.NRGBA{}, true},
		{"not_scalar", `[1, 2, 3]`, color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tt.in), &c)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := c.NRGBA(); got != tt.expected {
				t.Fatalf("got %v, expected %v", got, tt.expected)
			}
		})
	}

	if got := (YAMLColor{}).NRGBA(); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("unset color should be white, got %v", got)
	}
}

func TestDecodeComponentSpec(t *testing.T) {
	raw := map[string]any{
		"vignette":          map[string]any{"intensity": 0.3, "color": "#000000"},
		"color_adjustments": map[string]any{"saturation": -20},
	}
	spec, err := DecodeComponentSpec[PostProcessProfileComponentSpec](raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spec.Vignette == nil || spec.Vignette.Intensity != 0.3 {
		t.Fatalf("vignette = %+v", spec.Vignette)
	}
	if spec.ChromaticAberration != nil {
		t.Fatalf("absent chromatic aberration should stay nil")
	}
	if spec.ColorAdjustments == nil || spec.ColorAdjustments.Saturation != -20 {
		t.Fatalf("color adjustments = %+v", spec.ColorAdjustments)
	}

	empty, err := DecodeComponentSpec[DieRollComponentSpec](nil)
	if err != nil || empty.Faces != 0 {
		t.Fatalf("nil raw should decode to zero value, got %+v, %v", empty, err)
	}
}

func TestWatcherReportsScriptEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "feedback.tengo")
	if err := os.WriteFile(script, []byte("scale := func(e, d) { return d }"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if got != script {
			t.Fatalf("event for %q, expected %q", got, script)
		}
		if !IsScriptFile(got) || IsSpecFile(got) {
			t.Fatalf("%q should classify as a script", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event for script write")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
