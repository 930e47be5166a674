// Package entities provides the core data types of the capability host:
// descriptors, business groups, handler signatures, the startup manifest,
// and the result envelope returned by every dispatch.
// These are plain values with no behavior beyond construction and comparison.
package entities
