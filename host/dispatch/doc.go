// Package dispatch resolves capability calls against a registry, checks the
// arguments against the handler signature, invokes the handler through a
// middleware chain and normalizes the outcome into a ResultEnvelope.
//
// Dispatch has no transport knowledge. Adapters map inbound requests onto a
// qualified name and ordered arguments before calling it.
package dispatch
