// Package registry holds the process-wide capability registry: business
// groups, the descriptors registered under them, and their bound handlers.
//
// Registration happens once at startup. Seal ends that phase; afterwards the
// registry is immutable and its read path takes no locks.
package registry

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vishalmysore/ucpexample/application/validation"
	"github.com/vishalmysore/ucpexample/domain/entities"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
	"github.com/vishalmysore/ucpexample/domain/ports"
)

// registryConfig holds configuration for the Registry.
type registryConfig struct {
	validator ports.TransportValidator
	logger    *slog.Logger
}

// RegistryOption configures a Registry instance.
type RegistryOption func(*registryConfig)

// WithValidator replaces the transport validator gating inserts.
func WithValidator(v ports.TransportValidator) RegistryOption {
	return func(c *registryConfig) {
		c.validator = v
	}
}

// WithLogger sets the logger used for registration events.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(c *registryConfig) {
		c.logger = logger
	}
}

type entry struct {
	handler    ports.Handler
	descriptor entities.CapabilityDescriptor
}

type groupEntry struct {
	group        entities.BusinessGroup
	capabilities []string // qualified names in registration order
}

// Registry implements ports.CapabilityRegistry.
type Registry struct {
	config registryConfig

	mu      sync.RWMutex
	sealed  atomic.Bool
	groups  map[string]*groupEntry
	order   []string // group names in registration order
	entries map[string]entry
	primary string
}

var _ ports.CapabilityRegistry = (*Registry)(nil)

// NewRegistry creates an empty, unsealed Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := registryConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.validator == nil {
		cfg.validator = validation.New(validation.WithLogger(cfg.logger))
	}
	return &Registry{
		config:  cfg,
		groups:  make(map[string]*groupEntry),
		entries: make(map[string]entry),
	}
}

// RegisterGroup adds a business group. Groups must be registered before the
// capabilities referencing them.
func (r *Registry) RegisterGroup(group entities.BusinessGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return &domainerrors.RegistrySealedError{Operation: "register group", Name: group.GroupName}
	}
	if _, exists := r.groups[group.GroupName]; exists {
		return &domainerrors.DuplicateGroupError{Name: group.GroupName}
	}
	if err := r.config.validator.ValidateGroup(group, lockedPrimary{r}); err != nil {
		return err
	}

	r.groups[group.GroupName] = &groupEntry{group: group.Clone()}
	r.order = append(r.order, group.GroupName)
	if group.Primary {
		r.primary = group.GroupName
	}

	r.config.logger.Debug("group registered",
		"group", group.GroupName,
		"transports", group.ExposedTransports,
		"primary", group.Primary)
	return nil
}

// Register binds handler to descriptor. The descriptor is copied; later
// changes to the caller's value are not observed.
func (r *Registry) Register(descriptor entities.CapabilityDescriptor, handler ports.Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := descriptor.QualifiedName
	if r.sealed.Load() {
		return &domainerrors.RegistrySealedError{Operation: "register", Name: name}
	}
	if _, exists := r.entries[name]; exists {
		return &domainerrors.DuplicateCapabilityError{Name: name}
	}
	ge, ok := r.groups[descriptor.GroupName]
	if !ok {
		return &domainerrors.UnknownGroupError{Group: descriptor.GroupName, Capability: name}
	}
	if handler == nil {
		return &domainerrors.InvalidDefinitionError{Subject: name, Field: "handler", Err: errors.New("handler is nil")}
	}
	if err := r.config.validator.Validate(descriptor, ge.group); err != nil {
		return err
	}
	if err := r.config.validator.ValidateSignature(name, handler.Signature()); err != nil {
		return err
	}

	r.entries[name] = entry{descriptor: descriptor, handler: handler}
	ge.capabilities = append(ge.capabilities, name)

	r.config.logger.Debug("capability registered",
		"capability", name,
		"group", descriptor.GroupName,
		"transport", descriptor.DeclaredTransport)
	return nil
}

// Seal ends the registration phase. It is idempotent.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Swap(true) {
		return
	}
	r.config.logger.Info("registry sealed", "groups", len(r.order), "capabilities", len(r.entries))
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// Resolve looks up a capability by qualified name.
func (r *Registry) Resolve(qualifiedName string) (entities.CapabilityDescriptor, ports.Handler, bool) {
	defer r.rlock()()

	e, ok := r.entries[qualifiedName]
	if !ok {
		return entities.CapabilityDescriptor{}, nil, false
	}
	return e.descriptor, e.handler, true
}

// ListByGroup returns the group's descriptors in registration order. Unknown
// groups yield an empty slice.
func (r *Registry) ListByGroup(groupName string) []entities.CapabilityDescriptor {
	defer r.rlock()()

	ge, ok := r.groups[groupName]
	if !ok {
		return []entities.CapabilityDescriptor{}
	}
	out := make([]entities.CapabilityDescriptor, 0, len(ge.capabilities))
	for _, name := range ge.capabilities {
		out = append(out, r.entries[name].descriptor)
	}
	return out
}

// Group returns a registered group.
func (r *Registry) Group(name string) (entities.BusinessGroup, bool) {
	defer r.rlock()()

	ge, ok := r.groups[name]
	if !ok {
		return entities.BusinessGroup{}, false
	}
	return ge.group.Clone(), true
}

// Groups returns all groups in registration order.
func (r *Registry) Groups() []entities.BusinessGroup {
	defer r.rlock()()

	out := make([]entities.BusinessGroup, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.groups[name].group.Clone())
	}
	return out
}

// PrimaryGroup returns the group carrying the primary business marker.
func (r *Registry) PrimaryGroup() (entities.BusinessGroup, bool) {
	defer r.rlock()()
	return r.primaryLocked()
}

// Len returns the number of registered capabilities.
func (r *Registry) Len() int {
	defer r.rlock()()
	return len(r.entries)
}

func (r *Registry) primaryLocked() (entities.BusinessGroup, bool) {
	if r.primary == "" {
		return entities.BusinessGroup{}, false
	}
	return r.groups[r.primary].group.Clone(), true
}

// rlock takes the read lock until the registry is sealed. The returned func
// releases whatever was taken.
func (r *Registry) rlock() func() {
	if r.sealed.Load() {
		return func() {}
	}
	r.mu.RLock()
	return r.mu.RUnlock
}

// lockedPrimary exposes the primary group to the validator while the write
// lock is already held.
type lockedPrimary struct{ r *Registry }

func (l lockedPrimary) PrimaryGroup() (entities.BusinessGroup, bool) {
	return l.r.primaryLocked()
}
