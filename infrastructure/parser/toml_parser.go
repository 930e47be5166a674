package parser

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vishalmysore/ucpexample/domain/entities"
	"github.com/vishalmysore/ucpexample/domain/ports"
)

// TomlManifestParser implements ManifestParser for TOML.
type TomlManifestParser struct{}

// NewTomlManifestParser creates a new TomlManifestParser.
func NewTomlManifestParser() ports.ManifestParser {
	return &TomlManifestParser{}
}

// Parse decodes TOML bytes into a Manifest struct. Undecoded keys are
// rejected.
func (p *TomlManifestParser) Parse(data []byte) (*entities.Manifest, error) {
	var manifest entities.Manifest
	md, err := toml.Decode(string(data), &manifest)
	if err != nil {
		return nil, fmt.Errorf("toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("toml: unknown keys: %s", strings.Join(keys, ", "))
	}
	return &manifest, nil
}
