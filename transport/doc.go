// Package transport adapts inbound HTTP requests onto capability dispatch.
//
// RESTHandler serves capabilities declaring the REST transport and
// RPCHandler serves those declaring RPC, as JSON-RPC 2.0. Capabilities
// declaring no transport are never reachable through either. Both are plain
// http.Handler values; listener lifecycle belongs to the caller.
//
// # Basic Usage
//
//	host, _ := ucp.Bootstrap(manifest, catalog)
//	mux := http.NewServeMux()
//	mux.Handle("/", transport.NewRESTHandler(host.Dispatcher, host.Registry))
//	mux.Handle("POST /rpc", transport.NewRPCHandler(host.Dispatcher, host.Registry))
package transport
