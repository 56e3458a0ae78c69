package renderctx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passingcircle/passingcircle/pkg/config"
	"github.com/passingcircle/passingcircle/pkg/errors"
)

const fullDoc = `
network:
  domain: example.org
  auth_domain: auth.example.org
  host_ip: 192.0.2.10
event:
  name: Example Camp
  tagline: Talk to each other
rooms:
  - id: general
    name: General
    auto_join: true
    extra_field: kept
  - id: random
    auto_join: false
  - id: news
    auto_join: true
admins:
  - username: alice
  - username: bob
secrets:
  synapse_registration_shared_secret: reg
  synapse_macaroon_secret: mac
  oidc_client_id: cid
  oidc_client_secret: csecret
  postgres_synapse_password: pg
`

func parse(t *testing.T, data string) *config.Document {
	t.Helper()
	store, err := config.Parse([]byte(data))
	require.NoError(t, err)
	return store.Document()
}

func TestBuild(t *testing.T) {
	ctx, err := Build(parse(t, fullDoc))
	require.NoError(t, err)

	assert.Equal(t, "example.org", ctx[KeyDomain])
	assert.Equal(t, "auth.example.org", ctx[KeyAuthDomain])
	assert.Equal(t, "192.0.2.10", ctx[KeyHostIP])
	assert.Equal(t, "Example Camp", ctx[KeyEventName])
	assert.Equal(t, "Talk to each other", ctx[KeyEventTagline])
	assert.Equal(t, "reg", ctx[KeyRegistrationSharedSecret])
	assert.Equal(t, "mac", ctx[KeyMacaroonSecret])
	assert.Equal(t, "cid", ctx[KeyOIDCClientID])
	assert.Equal(t, "csecret", ctx[KeyOIDCClientSecret])
	assert.Equal(t, "pg", ctx[KeyPostgresSynapsePassword])
	assert.Equal(t, "/data/example.org.signing.key", ctx[KeySigningKeyPath])
	assert.Equal(t, "alice", ctx[KeyAdminUsername])

	// defaults
	assert.Equal(t, 50, ctx[KeyMaxUploadSizeMB])
	assert.Equal(t, "#4A90D9", ctx[KeyPrimaryColor])
	assert.Equal(t, "", ctx[KeyFluffychatDomain])

	assert.Len(t, ctx.Keys(), 17)
}

func TestBuild_AutoJoinRooms(t *testing.T) {
	ctx, err := Build(parse(t, fullDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"#general:example.org", "#news:example.org"}, ctx[KeyAutoJoinRooms])

	rooms, ok := ctx[KeyRooms].([]any)
	require.True(t, ok)
	require.Len(t, rooms, 3)
	first, ok := rooms[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "kept", first["extra_field"])
	assert.Equal(t, "random", rooms[1].(map[string]any)["id"])
}

func TestBuild_Overrides(t *testing.T) {
	doc := parse(t, fullDoc+`
landing:
  primary_color: "#112233"
synapse:
  max_upload_size_mb: 100
`)
	doc.Network.FluffychatDomain = "fluffy.example.org"

	ctx, err := Build(doc)
	require.NoError(t, err)
	assert.Equal(t, 100, ctx[KeyMaxUploadSizeMB])
	assert.Equal(t, "#112233", ctx[KeyPrimaryColor])
	assert.Equal(t, "fluffy.example.org", ctx[KeyFluffychatDomain])
}

func TestBuild_RoomDefaults(t *testing.T) {
	doc := parse(t, strings.Replace(fullDoc, "admins:", "  - id: lobby\n    topic:\nadmins:", 1))
	ctx, err := Build(doc)
	require.NoError(t, err)

	rooms := ctx[KeyRooms].([]any)
	require.Len(t, rooms, 4)

	random := rooms[1].(map[string]any)
	assert.Equal(t, false, random["auto_join"])
	assert.Equal(t, "", random["name"])
	assert.Equal(t, "", random["topic"])

	general := rooms[0].(map[string]any)
	assert.Equal(t, true, general["auto_join"])
	assert.Equal(t, "General", general["name"])

	lobby := rooms[3].(map[string]any)
	assert.Equal(t, "", lobby["topic"], "null takes the default")
	assert.Equal(t, false, lobby["auto_join"])

	// the document itself is not modified
	assert.NotContains(t, doc.RawRooms()[3], "auto_join")
}

func TestBuild_UploadSizePassthrough(t *testing.T) {
	doc := parse(t, fullDoc+`
synapse:
  max_upload_size_mb: 50M
`)
	ctx, err := Build(doc)
	require.NoError(t, err)
	assert.Equal(t, "50M", ctx[KeyMaxUploadSizeMB])
}

func TestBuild_Deterministic(t *testing.T) {
	doc := parse(t, fullDoc)

	a, err := Build(doc)
	require.NoError(t, err)
	b, err := Build(doc)
	require.NoError(t, err)

	assert.Equal(t, a, b)

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 64)

	doc.Event.Name = "Other Camp"
	c, err := Build(doc)
	require.NoError(t, err)
	fc, err := c.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Document)
	}{
		{name: "missing domain", mutate: func(d *config.Document) { d.Network.Domain = "" }},
		{name: "missing auth domain", mutate: func(d *config.Document) { d.Network.AuthDomain = "" }},
		{name: "missing host ip", mutate: func(d *config.Document) { d.Network.HostIP = "" }},
		{name: "missing event name", mutate: func(d *config.Document) { d.Event.Name = "" }},
		{name: "missing secret", mutate: func(d *config.Document) { d.Secrets["oidc_client_id"] = "" }},
		{name: "auto join room without id", mutate: func(d *config.Document) {
			d.Rooms = append(d.Rooms, config.Room{AutoJoin: true})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, fullDoc)
			tt.mutate(doc)
			_, err := Build(doc)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeConfig, errors.CodeOf(err))
		})
	}
}

func TestBuild_Nil(t *testing.T) {
	_, err := Build(nil)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
}

func TestAdminUsername(t *testing.T) {
	assert.Equal(t, "admin", AdminUsername(nil))
	assert.Equal(t, "admin", AdminUsername([]config.Admin{}))
	assert.Equal(t, "carol", AdminUsername([]config.Admin{{Username: "carol"}, {Username: "dave"}}))
}

func TestAutoJoinRooms_Empty(t *testing.T) {
	got, err := AutoJoinRooms(nil, "example.org")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
