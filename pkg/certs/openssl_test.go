package certs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pcerrors "github.com/passingcircle/passingcircle/pkg/errors"
)

func TestOpenSSLGenerator_Args(t *testing.T) {
	g := NewOpenSSLGenerator("")
	req := Request{
		Days:       365,
		KeyBits:    2048,
		CommonName: "example.org",
		SANs:       []string{"example.org", "auth.example.org"},
	}

	assert.Equal(t, "openssl", g.Binary)
	assert.Equal(t, []string{
		"req", "-x509",
		"-newkey", "rsa:2048",
		"-keyout", "k.tmp",
		"-out", "c.tmp",
		"-days", "365",
		"-nodes",
		"-subj", "/CN=example.org",
		"-addext", "subjectAltName=DNS:example.org,DNS:auth.example.org",
	}, g.Args(req, "k.tmp", "c.tmp"))
}

func TestOpenSSLGenerator_Failure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake")
	}
	dir := t.TempDir()
	fake := filepath.Join(dir, "openssl")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\necho 'bad option' >&2\nexit 1\n"), 0o755))

	req := Request{
		KeyPath:    filepath.Join(dir, "example.org.key"),
		CertPath:   filepath.Join(dir, "example.org.crt"),
		Days:       365,
		KeyBits:    2048,
		CommonName: "example.org",
		SANs:       []string{"example.org"},
	}
	err := NewOpenSSLGenerator(fake).Generate(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, pcerrors.ErrCodeExternalTool, pcerrors.CodeOf(err))

	var se *pcerrors.StructuredError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Context["output"], "bad option")

	assert.NoFileExists(t, req.KeyPath)
	assert.NoFileExists(t, req.CertPath)
	leftovers, _ := filepath.Glob(filepath.Join(dir, ".example.org.*"))
	assert.Empty(t, leftovers)
}

func TestOpenSSLGenerator_Real(t *testing.T) {
	path, err := exec.LookPath("openssl")
	if err != nil {
		t.Skip("openssl not installed")
	}
	dir := t.TempDir()
	sans := []string{"example.org", "auth.example.org"}
	req := Request{
		KeyPath:    filepath.Join(dir, "example.org.key"),
		CertPath:   filepath.Join(dir, "example.org.crt"),
		Days:       365,
		KeyBits:    2048,
		CommonName: "example.org",
		SANs:       sans,
	}

	err = NewOpenSSLGenerator(path).Generate(context.Background(), req)
	if err != nil {
		// LibreSSL and very old OpenSSL lack -addext.
		t.Skipf("openssl cannot produce the certificate here: %v", err)
	}

	got, err := Inspect(req.CertPath, req.KeyPath, sans, time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatePresentValid, got.State, got.Reason)

	for path, want := range map[string]os.FileMode{req.KeyPath: 0o600, req.CertPath: 0o644} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, want, info.Mode().Perm(), path)
	}
}

func TestNewGenerator(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	g, err := NewGenerator(KindNative)
	require.NoError(t, err)
	assert.IsType(t, &NativeGenerator{}, g)

	g, err = NewGenerator(KindOpenSSL)
	require.NoError(t, err)
	assert.IsType(t, &OpenSSLGenerator{}, g)

	lookPath = func(string) (string, error) { return "/usr/bin/openssl", nil }
	g, err = NewGenerator(KindAuto)
	require.NoError(t, err)
	require.IsType(t, &OpenSSLGenerator{}, g)
	assert.Equal(t, "/usr/bin/openssl", g.(*OpenSSLGenerator).Binary)

	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	g, err = NewGenerator("")
	require.NoError(t, err)
	assert.IsType(t, &NativeGenerator{}, g)

	_, err = NewGenerator("bogus")
	require.Error(t, err)
	assert.Equal(t, pcerrors.ErrCodeInvalidRequest, pcerrors.CodeOf(err))
}
