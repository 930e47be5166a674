package entities

import "slices"

// BusinessGroup is a named collection of capabilities sharing an exposed transport set.
type BusinessGroup struct {
	// GroupName is unique across the process.
	GroupName string `json:"name" yaml:"name" toml:"name" validate:"required"`

	// Description is a human-readable summary of the group.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`

	// ExposedTransports lists the networked transports the group actually serves.
	ExposedTransports []Transport `json:"transports,omitempty" yaml:"transports,omitempty" toml:"transports" validate:"dive,oneof=rest rpc"`

	// Primary marks the single primary business group of the process.
	Primary bool `json:"primary,omitempty" yaml:"primary,omitempty" toml:"primary"`
}

// NewBusinessGroup creates a group exposing the given transports.
func NewBusinessGroup(name, description string, transports ...Transport) BusinessGroup {
	return BusinessGroup{
		GroupName:         name,
		Description:       description,
		ExposedTransports: slices.Clone(transports),
	}
}

// AsPrimary returns a copy of the group carrying the primary business marker.
func (g BusinessGroup) AsPrimary() BusinessGroup {
	g.Primary = true
	return g
}

// Exposes reports whether the group serves the given transport.
func (g BusinessGroup) Exposes(t Transport) bool {
	return slices.Contains(g.ExposedTransports, t)
}

// Clone returns a deep copy of the group.
func (g BusinessGroup) Clone() BusinessGroup {
	g.ExposedTransports = slices.Clone(g.ExposedTransports)
	return g
}
