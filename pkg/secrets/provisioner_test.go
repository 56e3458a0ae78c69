package secrets

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passingcircle/passingcircle/pkg/config"
)

// countingStore wraps a real store and counts Save calls.
type countingStore struct {
	*config.Store
	saves   int
	saveErr error
}

func (c *countingStore) Save() error {
	c.saves++
	if c.saveErr != nil {
		return c.saveErr
	}
	return c.Store.Save()
}

func newStore(t *testing.T, body string) *countingStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "passingcircle.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	s, err := config.Load(path)
	require.NoError(t, err)
	return &countingStore{Store: s}
}

var (
	alnum64 = regexp.MustCompile(`^[A-Za-z0-9]{64}$`)
	hex32   = regexp.MustCompile(`^[0-9a-f]{32}$`)
)

func TestEnsure_GeneratesAllMissing(t *testing.T) {
	store := newStore(t, "network:\n  domain: example.org\n")

	report, err := NewProvisioner().Ensure(context.Background(), store)
	require.NoError(t, err)

	assert.Len(t, report.Generated, len(Fields()))
	assert.True(t, report.Saved)
	assert.Equal(t, 1, store.saves)

	doc := store.Document()
	for _, f := range Fields() {
		v := doc.Secret(f.Name)
		if f.Policy == PolicyHex {
			assert.Regexp(t, hex32, v, f.Name)
		} else {
			assert.Regexp(t, alnum64, v, f.Name)
		}
	}
}

func TestEnsure_Idempotent(t *testing.T) {
	store := newStore(t, "secrets:\n  synapse_macaroon_secret: operator-chosen\n")
	ctx := context.Background()

	_, err := NewProvisioner().Ensure(ctx, store)
	require.NoError(t, err)
	first := make(map[string]string)
	for _, f := range Fields() {
		first[f.Name] = store.Document().Secret(f.Name)
	}
	assert.Equal(t, "operator-chosen", first[SynapseMacaroonSecret])

	// Run again from disk, as a second invocation would.
	reloaded, err := config.Load(store.Path())
	require.NoError(t, err)
	again := &countingStore{Store: reloaded}

	report, err := NewProvisioner().Ensure(ctx, again)
	require.NoError(t, err)
	assert.False(t, report.Changed())
	assert.False(t, report.Saved)
	assert.Equal(t, 0, again.saves, "no write when nothing was generated")

	for name, v := range first {
		assert.Equal(t, v, again.Document().Secret(name), name)
	}
}

func TestEnsure_OnlyEmptyFields(t *testing.T) {
	store := newStore(t, `secrets:
  synapse_registration_shared_secret: a
  synapse_macaroon_secret: b
  authentik_secret_key: c
  authentik_bootstrap_token: d
  authentik_bootstrap_password: e
  oidc_client_secret: f
  postgres_synapse_password: g
  postgres_authentik_password: ""
  oidc_client_id:
`)

	report, err := NewProvisioner().Ensure(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, []string{PostgresAuthentikPassword, OIDCClientID}, report.Generated)
	assert.Equal(t, "a", store.Document().Secret(SynapseRegistrationSharedSecret))
}

func TestEnsure_SaveFailure(t *testing.T) {
	store := newStore(t, "network: {}\n")
	store.saveErr = errors.New("disk full")

	_, err := NewProvisioner().Ensure(context.Background(), store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestEnsure_RandomFailure(t *testing.T) {
	store := newStore(t, "network: {}\n")

	_, err := NewProvisioner(WithRandom(bytes.NewReader(nil))).Ensure(context.Background(), store)
	require.Error(t, err)
	assert.Equal(t, 0, store.saves)
}

func TestEnsure_CancelledContext(t *testing.T) {
	store := newStore(t, "network: {}\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvisioner().Ensure(ctx, store)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "random-string", PolicyString.String())
	assert.Equal(t, "random-hex-token", PolicyHex.String())
	assert.Equal(t, "Policy(7)", Policy(7).String())
}
