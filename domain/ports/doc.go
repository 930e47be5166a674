// Package ports defines the interfaces between the capability host's layers.
// The registry, dispatcher and adapters depend on these abstractions; the
// application and infrastructure packages implement them.
package ports
