package ucp_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ucp "github.com/vishalmysore/ucpexample"
	"github.com/vishalmysore/ucpexample/application/handler"
	"github.com/vishalmysore/ucpexample/domain/entities"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
	"github.com/vishalmysore/ucpexample/domain/ports"
	"github.com/vishalmysore/ucpexample/host/dispatch"
	"github.com/vishalmysore/ucpexample/internal/testutil"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testCatalog() ports.CatalogMap {
	return ports.CatalogMap{
		"compare": handler.Strings([]string{"car1", "car2"}, func(a []string) (any, error) {
			return a[0] + " vs " + a[1], nil
		}),
		"stock": handler.Strings([]string{"model"}, func(a []string) (any, error) {
			return "The model " + a[0] + " is currently: In Stock", nil
		}),
		"sell": handler.Strings([]string{"type"}, func(a []string) (any, error) {
			return "sold " + a[0], nil
		}),
	}
}

func testManifest() *entities.Manifest {
	return &entities.Manifest{
		Business: "AutoGroup North",
		Version:  "2026-01-19",
		Groups: []entities.GroupManifest{
			{
				Name:       "compareCar",
				Primary:    true,
				Transports: []entities.Transport{entities.TransportREST},
				Capabilities: []entities.CapabilityManifest{
					{Name: "io.example.car_comparison", Transport: entities.TransportREST, Path: "/compareCar", Binding: "compare"},
				},
			},
			{
				Name:       "carbooking",
				Transports: []entities.Transport{entities.TransportREST, entities.TransportRPC},
				Capabilities: []entities.CapabilityManifest{
					{Name: "io.example.inventory_search", Transport: entities.TransportRPC, Binding: "stock"},
				},
			},
			{
				Name: "favoriteCar",
				Capabilities: []entities.CapabilityManifest{
					{Name: "io.example.sell_car", Binding: "sell"},
				},
			},
		},
	}
}

func TestBootstrap(t *testing.T) {
	host, err := ucp.Bootstrap(testManifest(), testCatalog(), ucp.WithLogger(quiet))
	require.NoError(t, err)

	assert.True(t, host.Registry.Sealed())
	assert.Equal(t, 3, host.Registry.Len())

	primary, ok := host.Registry.PrimaryGroup()
	require.True(t, ok)
	assert.Equal(t, "compareCar", primary.GroupName)

	desc, _, ok := host.Registry.Resolve("io.example.sell_car")
	require.True(t, ok)
	assert.Equal(t, entities.TransportNone, desc.DeclaredTransport)
	assert.Equal(t, "2026-01-19", desc.Version)

	env, err := host.Dispatch(context.Background(), "io.example.sell_car", []any{"Sedan"})
	require.NoError(t, err)
	assert.Equal(t, "sold Sedan", env.Value)
}

func TestBootstrap_Errors(t *testing.T) {
	tests := []struct {
		mutate func(m *entities.Manifest)
		check  func(t *testing.T, err error)
		name   string
	}{
		{
			name: "unknown binding",
			mutate: func(m *entities.Manifest) {
				m.Groups[0].Capabilities[0].Binding = "missing"
			},
			check: func(t *testing.T, err error) {
				var ub *domainerrors.UnknownBindingError
				require.True(t, errors.As(err, &ub))
				assert.Equal(t, "missing", ub.Binding)
			},
		},
		{
			name: "transport mismatch",
			mutate: func(m *entities.Manifest) {
				m.Groups[0].Capabilities[0].Transport = entities.TransportRPC
			},
			check: func(t *testing.T, err error) {
				var tm *domainerrors.TransportMismatchError
				require.True(t, errors.As(err, &tm))
				assert.Equal(t, "compareCar", tm.Group)
			},
		},
		{
			name: "second primary",
			mutate: func(m *entities.Manifest) {
				m.Groups[1].Primary = true
			},
			check: func(t *testing.T, err error) {
				var dp *domainerrors.DuplicatePrimaryBusinessError
				require.True(t, errors.As(err, &dp))
			},
		},
		{
			name: "duplicate capability",
			mutate: func(m *entities.Manifest) {
				m.Groups[2].Capabilities[0].Name = "io.example.car_comparison"
			},
			check: func(t *testing.T, err error) {
				var dc *domainerrors.DuplicateCapabilityError
				require.True(t, errors.As(err, &dc))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testManifest()
			tt.mutate(m)

			host, err := ucp.Bootstrap(m, testCatalog(), ucp.WithLogger(quiet))
			require.Error(t, err)
			assert.Nil(t, host)
			assert.True(t, domainerrors.IsRegistrationError(err))
			tt.check(t, err)
		})
	}
}

func TestBootstrap_NilManifest(t *testing.T) {
	_, err := ucp.Bootstrap(nil, testCatalog())
	assert.Error(t, err)
}

func TestBootstrap_Middleware(t *testing.T) {
	var seen []string
	mw := func(next dispatch.Invoker) dispatch.Invoker {
		return func(ctx context.Context, call *dispatch.Call) (entities.ResultEnvelope, error) {
			seen = append(seen, call.Descriptor.QualifiedName)
			return next(ctx, call)
		}
	}

	host, err := ucp.Bootstrap(testManifest(), testCatalog(), ucp.WithLogger(quiet), ucp.WithMiddleware(mw))
	require.NoError(t, err)

	_, err = host.Dispatch(context.Background(), "io.example.car_comparison", []any{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"io.example.car_comparison"}, seen)
}

func TestBootstrapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	content := `business: ${BUSINESS}
version: {{ .vars.VERSION | quote }}
groups:
  - name: compareCar
    primary: true
    transports: [rest]
    capabilities:
      - name: io.example.car_comparison
        transport: rest
        path: /{{ index .vars "PATH" | default "compareCar" }}
        binding: compare
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	host, err := ucp.BootstrapFile(path, testCatalog(),
		ucp.WithLogger(quiet),
		ucp.WithVars(map[string]any{"BUSINESS": "AutoGroup North", "VERSION": "2026-01-19"}))
	require.NoError(t, err)
	assert.Equal(t, "AutoGroup North", host.Manifest.Business)
	assert.Equal(t, "2026-01-19", host.Manifest.Version)
	assert.Equal(t, 1, host.Registry.Len())

	desc, _, ok := host.Registry.Resolve("io.example.car_comparison")
	require.True(t, ok)
	assert.Equal(t, "/compareCar", desc.Path)

	_, err = ucp.BootstrapFile(path, testCatalog(),
		ucp.WithLogger(quiet),
		ucp.WithVars(map[string]any{"BUSINESS": "AutoGroup North"}))
	assert.ErrorContains(t, err, "VERSION")

	_, err = ucp.BootstrapFile(filepath.Join(t.TempDir(), "missing.yaml"), testCatalog())
	assert.Error(t, err)
}

func TestHost_Handler(t *testing.T) {
	host, err := ucp.Bootstrap(testManifest(), testCatalog(), ucp.WithLogger(quiet))
	require.NoError(t, err)

	srv := httptest.NewServer(host.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/compareCar?car1=A&car2=B")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.AssertJSONEqual(t, `{"value":"A vs B"}`, string(body))

	rpc := `{"jsonrpc":"2.0","id":1,"method":"io.example.inventory_search","params":["X"]}`
	resp, err = http.Post(srv.URL+"/rpc", "application/json", strings.NewReader(rpc))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.AssertJSONEqual(t,
		`{"jsonrpc":"2.0","id":1,"result":{"value":"The model X is currently: In Stock"}}`, string(body))

	// capabilities with no transport are in-process only
	resp, err = http.Post(srv.URL+"/capabilities/io.example.sell_car", "application/json", strings.NewReader(`["Sedan"]`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
