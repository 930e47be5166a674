package validation

import (
	"fmt"

	"github.com/vishalmysore/ucpexample/domain/entities"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
)

// primaryTracker is the PrimaryLookup used while walking a manifest.
type primaryTracker struct {
	group entities.BusinessGroup
	set   bool
}

func (p *primaryTracker) PrimaryGroup() (entities.BusinessGroup, bool) {
	return p.group, p.set
}

// ValidateManifest checks a whole manifest without registering anything and
// reports every problem found instead of stopping at the first. Handler
// bindings are not resolved here.
func (v *TransportValidator) ValidateManifest(m *entities.Manifest) *entities.ValidationResult {
	result := entities.NewValidationResult()
	if m == nil {
		result.Add("", "invalid_definition", "manifest is empty")
		return result
	}

	if m.Business == "" {
		result.Add("business", "invalid_definition", "business name is required")
	}

	primary := &primaryTracker{}
	groups := make(map[string]struct{}, len(m.Groups))
	capabilities := make(map[string]struct{})

	for gi, gm := range m.Groups {
		groupField := fmt.Sprintf("groups[%d]", gi)
		group := gm.Group()

		if _, dup := groups[group.GroupName]; dup {
			addError(result, groupField, &domainerrors.DuplicateGroupError{Name: group.GroupName})
			continue
		}
		groups[group.GroupName] = struct{}{}

		if err := v.ValidateGroup(group, primary); err != nil {
			addError(result, groupField, err)
		} else if group.Primary && !primary.set {
			primary.group, primary.set = group, true
		}

		for ci, cm := range gm.Capabilities {
			capField := fmt.Sprintf("%s.capabilities[%d]", groupField, ci)
			if cm.Binding == "" {
				result.Add(capField+".binding", "invalid_definition", "handler binding is required")
			}

			desc := cm.Descriptor(group.GroupName, m.Version)
			if _, dup := capabilities[desc.QualifiedName]; dup {
				addError(result, capField, &domainerrors.DuplicateCapabilityError{Name: desc.QualifiedName})
				continue
			}
			capabilities[desc.QualifiedName] = struct{}{}

			if err := v.Validate(desc, group); err != nil {
				addError(result, capField, err)
			}
		}
	}
	return result
}

func addError(result *entities.ValidationResult, field string, err error) {
	detail := domainerrors.ToErrorDetail(err)
	result.Add(field, detail.Code, detail.Message)
}
