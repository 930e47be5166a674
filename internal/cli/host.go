package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ucp "github.com/vishalmysore/ucpexample"
	"github.com/vishalmysore/ucpexample/application/manifest"
	"github.com/vishalmysore/ucpexample/application/template"
	"github.com/vishalmysore/ucpexample/domain/entities"
	"github.com/vishalmysore/ucpexample/domain/ports"
	"github.com/vishalmysore/ucpexample/examples/autogroup"
	"github.com/vishalmysore/ucpexample/infrastructure/parser"
	wasmhandler "github.com/vishalmysore/ucpexample/infrastructure/wazero"
)

// wasmBindingPrefix marks bindings served by a WebAssembly export:
// "wasm:<file>#<export>", with file relative to the manifest.
const wasmBindingPrefix = "wasm:"

// InvalidManifestError is returned by validate when the manifest has problems.
type InvalidManifestError struct {
	Count int
}

func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("manifest has %d problem(s)", e.Count)
}

// readManifest loads the configured manifest. With check set the manifest is
// also validated.
func (o *rootOptions) readManifest(check bool) (*entities.Manifest, string, error) {
	raw := autogroup.ManifestYAML
	baseDir := "."
	var p ports.ManifestParser = parser.NewYamlManifestParser()

	if o.manifestPath != "" {
		var err error
		raw, err = os.ReadFile(o.manifestPath)
		if err != nil {
			return nil, "", fmt.Errorf("reading manifest file: %w", err)
		}
		p, err = parser.ForFile(o.manifestPath)
		if err != nil {
			return nil, "", err
		}
		baseDir = filepath.Dir(o.manifestPath)
	}

	vars, err := parseVars(o.vars)
	if err != nil {
		return nil, "", err
	}
	loaderOpts := []manifest.LoaderOption{manifest.WithParser(p)}
	if vars != nil {
		loaderOpts = append(loaderOpts, manifest.WithTemplateEngine(template.NewGoTemplateEngine()))
	}

	loader := manifest.NewLoader(loaderOpts...)
	if check {
		m, err := loader.Load(raw, vars)
		return m, baseDir, err
	}
	m, err := loader.Parse(raw, vars)
	return m, baseDir, err
}

// parseVars turns key=value words into template variables. It returns nil
// when there are none.
func parseVars(words []string) (map[string]any, error) {
	if len(words) == 0 {
		return nil, nil
	}
	vars := make(map[string]any, len(words))
	for _, w := range words {
		key, value, ok := strings.Cut(w, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q: want key=value", w)
		}
		vars[key] = value
	}
	return vars, nil
}

// bootstrap loads, registers and seals the manifest. The returned func
// releases any WebAssembly modules.
func (o *rootOptions) bootstrap(ctx context.Context) (*ucp.Host, func(), error) {
	m, baseDir, err := o.readManifest(true)
	if err != nil {
		return nil, nil, err
	}
	return o.bootstrapManifest(ctx, m, baseDir)
}

func (o *rootOptions) bootstrapManifest(ctx context.Context, m *entities.Manifest, baseDir string) (*ucp.Host, func(), error) {
	catalog, closeAll, err := o.buildCatalog(ctx, m, baseDir)
	if err != nil {
		return nil, nil, err
	}
	host, err := ucp.Bootstrap(m, catalog, ucp.WithLogger(o.logger))
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return host, closeAll, nil
}

// buildCatalog extends the sample catalog with a handler for every wasm
// binding in m.
func (o *rootOptions) buildCatalog(ctx context.Context, m *entities.Manifest, baseDir string) (ports.CatalogMap, func(), error) {
	catalog := autogroup.Catalog()
	var modules []*wasmhandler.ModuleHandler
	closeAll := func() {
		for _, mod := range modules {
			if err := mod.Close(context.Background()); err != nil {
				o.logger.Warn("closing wasm module", "error", err)
			}
		}
	}

	for _, g := range m.Groups {
		for _, c := range g.Capabilities {
			if !strings.HasPrefix(c.Binding, wasmBindingPrefix) {
				continue
			}
			if _, ok := catalog[c.Binding]; ok {
				continue
			}
			path, export, err := parseWasmBinding(c.Binding)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			h, err := wasmhandler.NewModuleHandlerFromFile(ctx, path, export, wasmhandler.WithLogger(o.logger))
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("binding %s: %w", c.Binding, err)
			}
			modules = append(modules, h)
			catalog[c.Binding] = h
		}
	}
	return catalog, closeAll, nil
}

func parseWasmBinding(binding string) (string, string, error) {
	path, export, ok := strings.Cut(strings.TrimPrefix(binding, wasmBindingPrefix), "#")
	if !ok || path == "" || export == "" {
		return "", "", fmt.Errorf("wasm binding %q must look like wasm:<file>#<export>", binding)
	}
	return path, export, nil
}
