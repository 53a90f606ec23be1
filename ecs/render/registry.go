package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/shieldwall/assets"
)

var shaders = map[string]*ebiten.Shader{}

// LoadShader compiles an embedded shader once and caches it by name.
func LoadShader(name string) (*ebiten.Shader, error) {
	if name == "" {
		return nil, fmt.Errorf("empty shader name")
	}
	if s, ok := shaders[name]; ok {
		return s, nil
	}
	src, err := assets.LoadShader(name)
	if err != nil {
		return nil, fmt.Errorf("load shader %s: %w", name, err)
	}
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("compile shader %s: %w", name, err)
	}
	shaders[name] = s
	return s, nil
}
