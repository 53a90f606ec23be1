package assets

import (
	"embed"
	"path/filepath"
	"strings"
)

//go:embed shaders/*.kage
var shadersFS embed.FS

// LoadShader returns the source of an embedded Kage shader.
func LoadShader(name string) ([]byte, error) {
	clean := cleanAssetPath(name)
	if !strings.HasPrefix(clean, "shaders/") {
		clean = "shaders/" + clean
	}
	return shadersFS.ReadFile(clean)
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "assets/") {
		return strings.TrimPrefix(s, "assets/")
	}
	return s
}
