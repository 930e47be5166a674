package entities

// Manifest is the static startup configuration: the business identity and the
// groups and capabilities to register before the registry is sealed.
type Manifest struct {
	Business string          `json:"business" yaml:"business" toml:"business" validate:"required"`
	Version  string          `json:"version,omitempty" yaml:"version,omitempty" toml:"version"`
	Groups   []GroupManifest `json:"groups" yaml:"groups" toml:"groups" validate:"dive"`
}

// GroupManifest declares one business group and its capabilities.
type GroupManifest struct {
	Name         string               `json:"name" yaml:"name" toml:"name" validate:"required"`
	Description  string               `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`
	Transports   []Transport          `json:"transports,omitempty" yaml:"transports,omitempty" toml:"transports"`
	Primary      bool                 `json:"primary,omitempty" yaml:"primary,omitempty" toml:"primary"`
	Capabilities []CapabilityManifest `json:"capabilities,omitempty" yaml:"capabilities,omitempty" toml:"capabilities" validate:"dive"`
}

// CapabilityManifest declares one capability and the handler binding serving it.
type CapabilityManifest struct {
	Name        string    `json:"name" yaml:"name" toml:"name" validate:"required"`
	Version     string    `json:"version" yaml:"version" toml:"version"`
	Transport   Transport `json:"transport,omitempty" yaml:"transport,omitempty" toml:"transport"`
	Spec        string    `json:"spec,omitempty" yaml:"spec,omitempty" toml:"spec"`
	Schema      string    `json:"schema,omitempty" yaml:"schema,omitempty" toml:"schema"`
	Path        string    `json:"path,omitempty" yaml:"path,omitempty" toml:"path"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`

	// Binding names the handler in the host's handler catalog.
	Binding string `json:"binding" yaml:"binding" toml:"binding" validate:"required"`
}

// Group converts the manifest entry into a BusinessGroup.
func (g GroupManifest) Group() BusinessGroup {
	group := NewBusinessGroup(g.Name, g.Description, g.Transports...)
	group.Primary = g.Primary
	return group
}

// Descriptor converts the manifest entry into a descriptor of the given group.
// A missing version falls back to the manifest version.
func (c CapabilityManifest) Descriptor(groupName, defaultVersion string) CapabilityDescriptor {
	version := c.Version
	if version == "" {
		version = defaultVersion
	}
	transport := c.Transport
	if transport == "" {
		transport = TransportNone
	}
	return NewCapabilityDescriptor(c.Name, version, groupName, transport).
		WithURIs(c.Spec, c.Schema).
		WithPath(c.Path).
		WithDescription(c.Description)
}

// CapabilityCount returns the number of capabilities across all groups.
func (m *Manifest) CapabilityCount() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.Capabilities)
	}
	return n
}
