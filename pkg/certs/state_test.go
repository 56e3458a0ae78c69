package certs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePair(t *testing.T, dir string, sans []string, now time.Time) (string, string) {
	t.Helper()
	req := Request{
		KeyPath:    filepath.Join(dir, "tls.key"),
		CertPath:   filepath.Join(dir, "tls.crt"),
		Days:       30,
		KeyBits:    2048,
		CommonName: sans[0],
		SANs:       sans,
	}
	g := NewNativeGenerator()
	g.now = func() time.Time { return now }
	require.NoError(t, g.Generate(context.Background(), req))
	return req.CertPath, req.KeyPath
}

func TestInspect(t *testing.T) {
	now := time.Now()
	sans := []string{"example.org", "auth.example.org"}
	dir := t.TempDir()
	certPath, keyPath := writePair(t, dir, sans, now)

	tests := []struct {
		name      string
		cert, key string
		sans      []string
		at        time.Time
		want      State
	}{
		{name: "valid", cert: certPath, key: keyPath, sans: sans, at: now, want: StatePresentValid},
		{name: "valid in any order", cert: certPath, key: keyPath, sans: []string{"auth.example.org", "example.org"}, at: now, want: StatePresentValid},
		{name: "domain added", cert: certPath, key: keyPath, sans: append(sans, "fluffy.example.org"), at: now, want: StatePresentStale},
		{name: "expired", cert: certPath, key: keyPath, sans: sans, at: now.AddDate(0, 0, 31), want: StatePresentStale},
		{name: "cert missing", cert: filepath.Join(dir, "none.crt"), key: keyPath, sans: sans, at: now, want: StateAbsent},
		{name: "key missing", cert: certPath, key: filepath.Join(dir, "none.key"), sans: sans, at: now, want: StateAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Inspect(tt.cert, tt.key, tt.sans, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.State, got.Reason)
			if tt.want == StatePresentStale {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}

func TestInspect_MismatchedKey(t *testing.T) {
	now := time.Now()
	sans := []string{"example.org", "auth.example.org"}
	certA, _ := writePair(t, t.TempDir(), sans, now)
	_, keyB := writePair(t, t.TempDir(), sans, now)

	got, err := Inspect(certA, keyB, sans, now)
	require.NoError(t, err)
	assert.Equal(t, StatePresentStale, got.State)
}

func TestInspect_Garbage(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "c")
	key := filepath.Join(dir, "k")
	require.NoError(t, os.WriteFile(cert, []byte("nope"), 0o644))
	require.NoError(t, os.WriteFile(key, []byte("nope"), 0o600))

	got, err := Inspect(cert, key, []string{"example.org"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatePresentStale, got.State)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "absent", StateAbsent.String())
	assert.Equal(t, "present-valid", StatePresentValid.String())
	assert.Equal(t, "present-stale", StatePresentStale.String())
	assert.False(t, StateAbsent.Present())
	assert.True(t, StatePresentStale.Present())
}
