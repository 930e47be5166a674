package ports

import "github.com/vishalmysore/ucpexample/domain/entities"

// ManifestParser parses raw bytes into a Manifest.
type ManifestParser interface {
	// Parse unmarshals bytes into a Manifest struct.
	Parse(data []byte) (*entities.Manifest, error)
}
