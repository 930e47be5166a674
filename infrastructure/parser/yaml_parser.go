// Package parser decodes capability manifests from YAML and TOML.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/vishalmysore/ucpexample/domain/entities"
	"github.com/vishalmysore/ucpexample/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlManifestParser implements ManifestParser for YAML.
type YamlManifestParser struct{}

// NewYamlManifestParser creates a new YamlManifestParser.
func NewYamlManifestParser() ports.ManifestParser {
	return &YamlManifestParser{}
}

// Parse unmarshals YAML bytes into a Manifest struct. Unknown keys are
// rejected so typos in capability entries do not go unnoticed.
func (p *YamlManifestParser) Parse(data []byte) (*entities.Manifest, error) {
	var manifest entities.Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&manifest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("manifest is empty")
		}
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return &manifest, nil
}
