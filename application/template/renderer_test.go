package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishalmysore/ucpexample/application/template"
)

func TestGoTemplateEngine_Render(t *testing.T) {
	engine := template.NewGoTemplateEngine()

	t.Run("Successful Resolution", func(t *testing.T) {
		raw := []byte(`business: "{{.vars.business}}"` + "\n" + `version: "2026-01-19"`)
		out, err := engine.Render(raw, map[string]any{"business": "AutoGroup North"})
		require.NoError(t, err)
		assert.Contains(t, string(out), `business: "AutoGroup North"`)
	})

	t.Run("Missing Key Fails", func(t *testing.T) {
		raw := []byte(`business: "{{.vars.missing}}"`)
		_, err := engine.Render(raw, map[string]any{"business": "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "map has no entry for key")
	})

	t.Run("Nil Vars", func(t *testing.T) {
		out, err := engine.Render([]byte("business: plain"), nil)
		require.NoError(t, err)
		assert.Equal(t, "business: plain", string(out))
	})

	t.Run("Invalid Template Syntax", func(t *testing.T) {
		_, err := engine.Render([]byte(`business: "{{.vars.name"`), nil)
		require.Error(t, err)
	})

	t.Run("Lenient Mode", func(t *testing.T) {
		lenient := template.NewGoTemplateEngine(template.WithStrict(false))
		out, err := lenient.Render([]byte(`v: {{.vars.missing}}`), map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "v: <no value>", string(out))
	})
}

func TestGoTemplateEngine_Funcs(t *testing.T) {
	env := map[string]string{"UCP_REGION": "north"}
	engine := template.NewGoTemplateEngine(template.WithEnvLookup(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	tests := []struct {
		name    string
		raw     string
		vars    map[string]any
		want    string
		wantErr string
	}{
		{name: "env", raw: `region: {{ env "UCP_REGION" }}`, want: "region: north"},
		{name: "env unset", raw: `region: {{ env "UCP_NOPE" }}`, want: "region: "},
		{name: "default used", raw: `v: {{ index .vars "version" | default "2026-01-19" }}`, want: "v: 2026-01-19"},
		{name: "default skipped", raw: `v: {{ .vars.version | default "x" }}`, vars: map[string]any{"version": "1"}, want: "v: 1"},
		{name: "quote", raw: `business: {{ quote .vars.business }}`, vars: map[string]any{"business": `Auto "North"`}, want: `business: "Auto \"North\""`},
		{name: "required present", raw: `{{ required "business is required" .vars.business }}`, vars: map[string]any{"business": "A"}, want: "A"},
		{name: "required missing", raw: `{{ index .vars "business" | required "business is required" }}`, wantErr: "business is required"},
		{name: "expandenv", raw: `{{ expandenv "region-${UCP_REGION}" }}`, want: "region-north"},
		{name: "sprig string funcs", raw: `path: /{{ .vars.group | lower | trimPrefix "x-" }}`, vars: map[string]any{"group": "X-CompareCar"}, want: "path: /comparecar"},
		{name: "sprig list funcs", raw: `transports: [{{ join ", " .vars.transports }}]`, vars: map[string]any{"transports": []string{"rest", "rpc"}}, want: "transports: [rest, rpc]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := engine.Render([]byte(tt.raw), tt.vars)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestEnvExpander_Render(t *testing.T) {
	env := map[string]string{"UCP_BUSINESS": "AutoGroup North", "UCP_PATH": "/compareCar"}
	engine := template.NewEnvExpander(template.WithLookup(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	raw := []byte("business: ${UCP_BUSINESS}\npath: ${UCP_PATH}\nversion: ${UCP_VERSION}\nregion: ${REGION}\nkeep: $HOME")
	out, err := engine.Render(raw, map[string]any{"REGION": "north"})
	require.NoError(t, err)
	assert.Equal(t, "business: AutoGroup North\npath: /compareCar\nversion: \nregion: north\nkeep: $HOME", string(out))
}

func TestEnvExpander_ProcessEnv(t *testing.T) {
	t.Setenv("UCP_TEST_VALUE", "from-env")
	out, err := template.NewEnvExpander().Render([]byte("v: ${UCP_TEST_VALUE}"), nil)
	require.NoError(t, err)
	assert.Equal(t, "v: from-env", string(out))
}
