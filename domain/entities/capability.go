package entities

// CapabilityDescriptor is the identity and metadata of one registrable action.
// Descriptors are value types; the registry stores copies, so a descriptor
// handed to Register cannot be mutated afterwards through the registry.
type CapabilityDescriptor struct {
	// QualifiedName is the globally unique, reverse-domain style name
	// (e.g., "io.github.vishalmysore.car_comparison").
	QualifiedName string `json:"name" yaml:"name" toml:"name" validate:"required,qualified"`

	// Version is the capability version (e.g., "2026-01-19").
	Version string `json:"version" yaml:"version" toml:"version" validate:"required"`

	// GroupName references the BusinessGroup hosting this capability.
	GroupName string `json:"group" yaml:"group" toml:"group" validate:"required"`

	// DeclaredTransport is the transport the capability asks to be exposed on.
	DeclaredTransport Transport `json:"transport" yaml:"transport" toml:"transport" validate:"oneof=rest rpc none"`

	// SpecURI optionally points at the human-readable capability spec.
	SpecURI string `json:"spec,omitempty" yaml:"spec,omitempty" toml:"spec" validate:"omitempty,url"`

	// SchemaURI optionally points at the argument schema document.
	SchemaURI string `json:"schema,omitempty" yaml:"schema,omitempty" toml:"schema" validate:"omitempty,url"`

	// Description is a short summary shown by listings.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`

	// Path is an optional REST route alias such as "/compareCar".
	Path string `json:"path,omitempty" yaml:"path,omitempty" toml:"path" validate:"omitempty,startswith=/"`
}

// NewCapabilityDescriptor creates a descriptor with the required fields set.
func NewCapabilityDescriptor(qualifiedName, version, groupName string, transport Transport) CapabilityDescriptor {
	return CapabilityDescriptor{
		QualifiedName:     qualifiedName,
		Version:           version,
		GroupName:         groupName,
		DeclaredTransport: transport,
	}
}

// WithURIs returns a copy of the descriptor with spec and schema URIs set.
func (d CapabilityDescriptor) WithURIs(specURI, schemaURI string) CapabilityDescriptor {
	d.SpecURI = specURI
	d.SchemaURI = schemaURI
	return d
}

// WithPath returns a copy of the descriptor with a REST route alias.
func (d CapabilityDescriptor) WithPath(path string) CapabilityDescriptor {
	d.Path = path
	return d
}

// WithDescription returns a copy of the descriptor with a description.
func (d CapabilityDescriptor) WithDescription(desc string) CapabilityDescriptor {
	d.Description = desc
	return d
}

// LocalName returns the last dot-separated segment of the qualified name.
func (d CapabilityDescriptor) LocalName() string {
	for i := len(d.QualifiedName) - 1; i >= 0; i-- {
		if d.QualifiedName[i] == '.' {
			return d.QualifiedName[i+1:]
		}
	}
	return d.QualifiedName
}
