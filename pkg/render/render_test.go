package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passingcircle/passingcircle/pkg/errors"
	"github.com/passingcircle/passingcircle/pkg/renderctx"
)

func values() renderctx.Context {
	return renderctx.Context{
		"domain":            "example.org",
		"auth_domain":       "auth.example.org",
		"auto_join_rooms":   []string{"#general:example.org", "#news:example.org"},
		"event_name":        "example camp",
		"fluffychat_domain": "",
		"rooms": []any{
			map[string]any{"id": "general", "name": "General"},
		},
	}
}

func writeTemplate(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRender_SkipsAbsentTemplates(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "services/nginx/templates/chat.conf.tmpl", "server_name {{ .domain }};\n")

	res, err := New(root).Render(context.Background(), values())
	require.NoError(t, err)
	assert.True(t, res.Success)

	chat := filepath.Join(root, "services/nginx/conf.d/chat.conf")
	assert.Equal(t, []string{chat}, res.Files)
	assert.Len(t, res.Skipped, len(DefaultMappings())-1)
	assert.Equal(t, "server_name example.org;\n", readFile(t, chat))

	// a disabled service leaves no output behind
	_, err = os.Stat(filepath.Join(root, "services/fluffychat/config.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "services/authentik/blueprints"))
	assert.True(t, os.IsNotExist(err))
}

func TestRender_MissingKeyFails(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "services/nginx/templates/chat.conf.tmpl", "ok {{ .domain }}\n")
	writeTemplate(t, root, "services/nginx/templates/auth.conf.tmpl", "bad {{ .no_such_key }}\n")
	writeTemplate(t, root, "landing/templates/index.html.tmpl", "never {{ .domain }}\n")

	res, err := New(root).Render(context.Background(), values())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTemplate, errors.CodeOf(err))
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Errors)

	// earlier output stays, later templates are not rendered
	assert.FileExists(t, filepath.Join(root, "services/nginx/conf.d/chat.conf"))
	assert.NoFileExists(t, filepath.Join(root, "services/nginx/conf.d/auth.conf"))
	assert.NoFileExists(t, filepath.Join(root, "landing/dist/index.html"))
}

func TestRender_ParseError(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "services/nginx/templates/chat.conf.tmpl", "{{ .domain ")

	_, err := New(root).Render(context.Background(), values())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTemplate, errors.CodeOf(err))
}

func TestRender_OverwritesAndPreservesNewlines(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "services/synapse/templates/log.config.tmpl", "version: 1\n\n")
	dst := filepath.Join(root, "services/synapse/log.config")
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, os.WriteFile(dst, []byte("hand edited"), 0o644))

	r := New(root)
	_, err := r.Render(context.Background(), values())
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n\n", readFile(t, dst))

	// re-rendering gives identical bytes
	_, err = r.Render(context.Background(), values())
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n\n", readFile(t, dst))
}

func TestRender_CustomMappings(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "in/a.tmpl", "{{ .domain }}")
	m := []Mapping{{Service: "test", Source: "in/a.tmpl", Destination: "out/deep/a"}}

	res, err := New(root, WithMappings(m), WithFileMode(0o600)).Render(context.Background(), values())
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, int64(len("example.org")), res.Size)

	info, err := os.Stat(res.Files[0])
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(t.TempDir()).Render(ctx, values())
	assert.Error(t, err)
}

func TestExecute_Funcs(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{name: "json", tmpl: `{{ json .auto_join_rooms }}`, want: `["#general:example.org","#news:example.org"]`},
		{name: "join", tmpl: `{{ join ", " .auto_join_rooms }}`, want: "#general:example.org, #news:example.org"},
		{name: "upper", tmpl: `{{ upper .domain }}`, want: "EXAMPLE.ORG"},
		{name: "lower", tmpl: `{{ lower "ABC" }}`, want: "abc"},
		{name: "title", tmpl: `{{ title .event_name }}`, want: "Example Camp"},
		{name: "empty optional", tmpl: `{{ if .fluffychat_domain }}on{{ else }}off{{ end }}`, want: "off"},
		{name: "rooms passthrough", tmpl: `{{ range .rooms }}{{ .id }}={{ .name }}{{ end }}`, want: "general=General"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Execute(tt.name, tt.tmpl, values())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecute_MissingNestedKey(t *testing.T) {
	_, err := Execute("rooms", `{{ range .rooms }}{{ .topic }}{{ end }}`, values())
	assert.Error(t, err)
}

func TestDefaultMappings(t *testing.T) {
	m := DefaultMappings()
	require.Len(t, m, 13)
	assert.Equal(t, ServiceCore, m[0].Service)
	assert.Equal(t, "services/nginx/conf.d/chat.conf", m[0].Destination)
	assert.Equal(t, ServiceAuthentik, m[len(m)-1].Service)

	for _, mm := range m {
		assert.Equal(t, TemplateExt, filepath.Ext(mm.Source), mm.Source)
	}

	// callers cannot mutate the package list
	m[0].Source = "changed"
	assert.NotEqual(t, "changed", DefaultMappings()[0].Source)
}

func TestRender_Hook(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "services/synapse/templates/log.config.tmpl", "a")
	writeTemplate(t, root, "services/nginx/templates/auth.conf.tmpl", "b")

	var seen []string
	_, err := New(root, WithRenderHook(func(m Mapping) {
		seen = append(seen, m.Destination)
	})).Render(context.Background(), values())
	require.NoError(t, err)

	// mapping order, not creation order
	assert.Equal(t, []string{"services/nginx/conf.d/auth.conf", "services/synapse/log.config"}, seen)
}
