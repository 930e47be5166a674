package ports

import "github.com/vishalmysore/ucpexample/domain/entities"

// CapabilityResolver is the read path used by the dispatcher.
type CapabilityResolver interface {
	// Resolve looks up a capability by qualified name.
	Resolve(qualifiedName string) (entities.CapabilityDescriptor, Handler, bool)
}

// PrimaryLookup reports the group currently holding the primary business marker.
type PrimaryLookup interface {
	PrimaryGroup() (entities.BusinessGroup, bool)
}

// CapabilityCatalog is the read-only view adapters and listings use.
type CapabilityCatalog interface {
	CapabilityResolver

	// ListByGroup returns the group's descriptors in registration order.
	ListByGroup(groupName string) []entities.CapabilityDescriptor

	// Groups returns all groups in registration order.
	Groups() []entities.BusinessGroup
}

// CapabilityRegistry maps qualified names to descriptors and bound handlers.
type CapabilityRegistry interface {
	CapabilityCatalog
	PrimaryLookup

	// RegisterGroup adds a business group.
	RegisterGroup(group entities.BusinessGroup) error

	// Register binds a handler to a descriptor of a registered group.
	Register(descriptor entities.CapabilityDescriptor, handler Handler) error

	// Seal ends the registration phase.
	Seal()
}
