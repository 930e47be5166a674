package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vishalmysore/ucpexample/domain/ports"
)

// ForFile picks a parser from the file extension. Files without an
// extension are treated as YAML.
func ForFile(path string) (ports.ManifestParser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", "":
		return NewYamlManifestParser(), nil
	case ".toml":
		return NewTomlManifestParser(), nil
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", ext)
	}
}
