// Package wazero binds exported WebAssembly functions as capability handlers
// using the wazero runtime.
//
// A ModuleHandler compiles the module once and instantiates a fresh, anonymous
// instance for every call, so calls never share guest memory and a cancelled
// context only tears down the instance serving that call. Only numeric
// exports are supported: every i32, i64, f32 and f64 parameter becomes a
// number parameter of the handler signature.
//
// # Basic Usage
//
//	wasm, _ := os.ReadFile("pricing.wasm")
//	h, err := wazero.NewModuleHandler(ctx, wasm, "quote",
//	    wazero.WithParamNames("days", "rate"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer h.Close(ctx)
//
//	catalog := ports.CatalogMap{"quote": h}
package wazero
