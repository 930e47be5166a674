package entities

import (
	"fmt"
	"strings"
)

// Transport is the protocol surface a capability may be invoked through.
type Transport string

const (
	// TransportREST is request/response over HTTP with form or JSON parameters.
	TransportREST Transport = "rest"

	// TransportRPC is a JSON-RPC style call.
	TransportRPC Transport = "rpc"

	// TransportNone marks a capability that is only invocable in-process.
	TransportNone Transport = "none"
)

// ParseTransport converts a case-insensitive name into a Transport.
// An empty string parses as TransportNone.
func ParseTransport(s string) (Transport, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rest":
		return TransportREST, nil
	case "rpc", "jsonrpc", "json-rpc":
		return TransportRPC, nil
	case "none", "":
		return TransportNone, nil
	default:
		return "", fmt.Errorf("unknown transport %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so manifests may spell
// transports in any case.
func (t *Transport) UnmarshalText(text []byte) error {
	parsed, err := ParseTransport(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Transport) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

// Networked reports whether the transport is reachable from outside the process.
func (t Transport) Networked() bool {
	return t == TransportREST || t == TransportRPC
}

// String returns the transport name.
func (t Transport) String() string {
	return string(t)
}
