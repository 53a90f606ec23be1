package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/shieldwall/ecs"
	"github.com/milk9111/shieldwall/prefabs"
)

const feedbackScaleDispatch = `
__result := scale(__event, __damage)
`

// ScriptScaler runs a tengo script's scale(event, damage) function to remap
// damage before it drives a recipe.
type ScriptScaler struct {
	path     string
	compiled *tengo.Compiled
}

// LoadScriptScaler compiles a script from the prefabs scripts directory.
func LoadScriptScaler(path string) (*ScriptScaler, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("feedback: load script %s: %w", path, err)
	}
	scaler, err := NewScriptScaler(src)
	if err != nil {
		return nil, fmt.Errorf("feedback: compile script %s: %w", path, err)
	}
	scaler.path = path
	return scaler, nil
}

func NewScriptScaler(src []byte) (*ScriptScaler, error) {
	script := tengo.NewScript(append(append([]byte(nil), src...), []byte("\n"+feedbackScaleDispatch)...))
	_ = script.Add("__event", "")
	_ = script.Add("__damage", 0.0)
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &ScriptScaler{compiled: compiled}, nil
}

func (s *ScriptScaler) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *ScriptScaler) Scale(event ecs.EventType, damage float64) (float64, error) {
	if s == nil || s.compiled == nil {
		return damage, fmt.Errorf("nil script scaler")
	}
	if err := s.compiled.Set("__event", string(event)); err != nil {
		return damage, err
	}
	if err := s.compiled.Set("__damage", damage); err != nil {
		return damage, err
	}
	if err := s.compiled.Run(); err != nil {
		return damage, err
	}
	result := s.compiled.Get("__result")
	switch result.ValueType() {
	case "int", "float":
		return result.Float(), nil
	default:
		return damage, fmt.Errorf("scale returned %s", result.ValueType())
	}
}
