// Package validation implements the transport eligibility checks that gate
// every registry insert.
package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vishalmysore/ucpexample/application/schema"
	"github.com/vishalmysore/ucpexample/domain/entities"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
	"github.com/vishalmysore/ucpexample/domain/ports"
)

// qualifiedPattern matches reverse-domain names such as
// "io.github.vishalmysore.car_comparison".
var qualifiedPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*(\.[a-z0-9_-]+)+$`)

// validatorConfig holds configuration for the TransportValidator.
type validatorConfig struct {
	structs *validator.Validate
	logger  *slog.Logger
}

// Option configures a TransportValidator.
type Option func(*validatorConfig)

// WithStructValidator replaces the struct-tag validator. The "qualified" tag
// is registered on it.
func WithStructValidator(v *validator.Validate) Option {
	return func(c *validatorConfig) {
		c.structs = v
	}
}

// WithLogger sets the logger used to report rejected definitions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *validatorConfig) {
		c.logger = logger
	}
}

// TransportValidator implements ports.TransportValidator.
type TransportValidator struct {
	structs *validator.Validate
	logger  *slog.Logger
}

var _ ports.TransportValidator = (*TransportValidator)(nil)

// New creates a TransportValidator. It panics if the "qualified" tag cannot
// be registered on the struct validator.
func New(opts ...Option) *TransportValidator {
	cfg := validatorConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.structs == nil {
		cfg.structs = validator.New(validator.WithRequiredStructEnabled())
	}
	registerTags(cfg.structs)
	return &TransportValidator{structs: cfg.structs, logger: cfg.logger}
}

func registerTags(v *validator.Validate) {
	// Report fields by their json name so errors match manifest keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.RegisterValidation("qualified", func(fl validator.FieldLevel) bool {
		return qualifiedPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register qualified tag: %v", err))
	}
}

// Validate checks that the descriptor is well formed, belongs to the group,
// and declares a transport the group exposes.
func (v *TransportValidator) Validate(descriptor entities.CapabilityDescriptor, group entities.BusinessGroup) error {
	if err := v.checkStruct(descriptor.QualifiedName, descriptor); err != nil {
		return err
	}

	if descriptor.GroupName != group.GroupName {
		return v.reject(&domainerrors.InvalidDefinitionError{
			Subject: descriptor.QualifiedName,
			Field:   "group",
			Err:     fmt.Errorf("descriptor names group %q but was validated against %q", descriptor.GroupName, group.GroupName),
		})
	}

	if descriptor.DeclaredTransport.Networked() && !group.Exposes(descriptor.DeclaredTransport) {
		return v.reject(&domainerrors.TransportMismatchError{
			Capability: descriptor.QualifiedName,
			Group:      group.GroupName,
			Declared:   descriptor.DeclaredTransport,
			Exposed:    group.ExposedTransports,
		})
	}
	return nil
}

// ValidateGroup checks the group fields and the single primary business rule.
// A nil lookup means no group has been registered yet.
func (v *TransportValidator) ValidateGroup(group entities.BusinessGroup, primary ports.PrimaryLookup) error {
	if err := v.checkStruct(group.GroupName, group); err != nil {
		return err
	}

	if !group.Primary || primary == nil {
		return nil
	}
	if existing, ok := primary.PrimaryGroup(); ok && existing.GroupName != group.GroupName {
		return v.reject(&domainerrors.DuplicatePrimaryBusinessError{
			Group:    group.GroupName,
			Existing: existing.GroupName,
		})
	}
	return nil
}

// ValidateSignature checks parameter names, kinds and object schemas.
func (v *TransportValidator) ValidateSignature(qualifiedName string, sig entities.Signature) error {
	seen := make(map[string]struct{}, len(sig))
	for i, p := range sig {
		field := fmt.Sprintf("params[%d]", i)

		if p.Name == "" {
			return v.reject(&domainerrors.InvalidDefinitionError{
				Subject: qualifiedName, Field: field, Err: errors.New("parameter name is empty"),
			})
		}
		if _, dup := seen[p.Name]; dup {
			return v.reject(&domainerrors.InvalidDefinitionError{
				Subject: qualifiedName, Field: field, Err: fmt.Errorf("duplicate parameter %q", p.Name),
			})
		}
		seen[p.Name] = struct{}{}

		if !p.Kind.Known() {
			return v.reject(&domainerrors.InvalidDefinitionError{
				Subject: qualifiedName, Field: field, Err: fmt.Errorf("unknown parameter kind %q", p.Kind),
			})
		}

		if len(p.Schema) == 0 {
			continue
		}
		if p.Kind != entities.ParamObject {
			return v.reject(&domainerrors.InvalidDefinitionError{
				Subject: qualifiedName, Field: field, Err: fmt.Errorf("schema given for %s parameter %q", p.Kind, p.Name),
			})
		}
		if _, err := schema.Compile(SchemaID(qualifiedName, p.Name), p.Schema); err != nil {
			return v.reject(&domainerrors.InvalidDefinitionError{
				Subject: qualifiedName, Field: field, Err: err,
			})
		}
	}
	return nil
}

// SchemaID is the resource id under which a parameter schema is compiled.
func SchemaID(qualifiedName, param string) string {
	return "schemas/" + qualifiedName + "/" + param + ".json"
}

func (v *TransportValidator) checkStruct(subject string, s any) error {
	err := v.structs.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return v.reject(&domainerrors.InvalidDefinitionError{
			Subject: subject,
			Field:   fe.Field(),
			Err:     fmt.Errorf("failed %q check on value %q", fe.Tag(), fmt.Sprint(fe.Value())),
		})
	}
	return v.reject(&domainerrors.InvalidDefinitionError{Subject: subject, Err: err})
}

func (v *TransportValidator) reject(err error) error {
	v.logger.Debug("definition rejected", "error", err)
	return err
}
