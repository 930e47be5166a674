package ports

import "github.com/vishalmysore/ucpexample/domain/entities"

// TransportValidator gates registry inserts. Implementations are pure checks.
type TransportValidator interface {
	// Validate checks a descriptor against the group hosting it.
	Validate(descriptor entities.CapabilityDescriptor, group entities.BusinessGroup) error

	// ValidateGroup checks a group against process-wide registry state.
	ValidateGroup(group entities.BusinessGroup, primary PrimaryLookup) error

	// ValidateSignature checks a handler signature.
	ValidateSignature(qualifiedName string, sig entities.Signature) error
}
