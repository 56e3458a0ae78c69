// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package signingkey

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/passingcircle/passingcircle/pkg/config"
	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
	"github.com/passingcircle/passingcircle/pkg/layout"
)

// Algorithm is the only key algorithm the home-server accepts here.
const Algorithm = "ed25519"

// keyIDPrefix prefixes the random part of every key id.
const keyIDPrefix = "a_"

// Key is a parsed signing key line.
type Key struct {
	Algorithm string
	ID        string
	Seed      []byte
}

// String renders the key in the on-disk format, without a newline.
func (k Key) String() string {
	return fmt.Sprintf("%s %s %s", k.Algorithm, k.ID, base64.RawStdEncoding.EncodeToString(k.Seed))
}

// QualifiedID is the key id as peers see it, e.g. "ed25519:a_1f2e".
func (k Key) QualifiedID() string {
	return k.Algorithm + ":" + k.ID
}

// VerifyKey returns the unpadded base64 public key derived from the seed.
func (k Key) VerifyKey() (string, error) {
	if len(k.Seed) != ed25519.SeedSize {
		return "", fmt.Errorf("seed is %d bytes, want %d", len(k.Seed), ed25519.SeedSize)
	}
	pub := ed25519.NewKeyFromSeed(k.Seed).Public().(ed25519.PublicKey)
	return base64.RawStdEncoding.EncodeToString(pub), nil
}

// Parse reads a signing key line of the form "<algorithm> <key-id> <base64-key>".
func Parse(line string) (Key, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Key{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	if fields[0] != Algorithm {
		return Key{}, fmt.Errorf("unsupported algorithm %q", fields[0])
	}

	// The home-server accepts padded and unpadded base64.
	seed, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(fields[2], "="))
	if err != nil {
		return Key{}, fmt.Errorf("invalid key encoding: %w", err)
	}

	return Key{Algorithm: fields[0], ID: fields[1], Seed: seed}, nil
}

// New generates a fresh key from src.
func New(src io.Reader) (Key, error) {
	seed := make([]byte, defaults.SigningKeySeedBytes)
	if _, err := io.ReadFull(src, seed); err != nil {
		return Key{}, fmt.Errorf("failed to read random source: %w", err)
	}
	id := make([]byte, defaults.SigningKeyIDBytes)
	if _, err := io.ReadFull(src, id); err != nil {
		return Key{}, fmt.Errorf("failed to read random source: %w", err)
	}
	return Key{
		Algorithm: Algorithm,
		ID:        keyIDPrefix + hex.EncodeToString(id),
		Seed:      seed,
	}, nil
}

// Outcome reports what Ensure did.
type Outcome struct {
	Path      string
	Generated bool
	// Key is set when the key was generated or the existing file parsed.
	Key *Key
}

// Provisioner makes sure the home-server has a federation signing key.
type Provisioner struct {
	random io.Reader
}

// NewProvisioner returns a Provisioner reading crypto/rand.
func NewProvisioner() *Provisioner {
	return &Provisioner{random: rand.Reader}
}

// Ensure writes a new signing key unless the key file already exists.
//
// The key identifies this server to every federation peer. An existing file
// is never rewritten; replacing it breaks trust with servers that have seen
// the old key.
func (p *Provisioner) Ensure(ctx context.Context, doc *config.Document, lay layout.Layout) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	domain, err := doc.RequireDomain()
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Path: lay.SigningKeyPath(domain)}

	existing, err := os.ReadFile(out.Path)
	switch {
	case err == nil:
		if k, perr := Parse(string(existing)); perr != nil {
			slog.Warn("existing signing key is not parseable; leaving it in place",
				"path", out.Path, "error", perr)
		} else {
			out.Key = &k
		}
		return out, nil
	case !stderrors.Is(err, fs.ErrNotExist):
		return out, errors.WrapWithContext(errors.ErrCodeIO,
			"failed to read signing key", err, map[string]any{"path": out.Path})
	}

	key, err := New(p.random)
	if err != nil {
		return out, errors.Wrap(errors.ErrCodeInternal, "failed to generate signing key", err)
	}

	if err := os.MkdirAll(filepath.Dir(out.Path), defaults.DirMode); err != nil {
		return out, errors.WrapWithContext(errors.ErrCodeIO,
			"failed to create signing key directory", err, map[string]any{"path": out.Path})
	}

	// O_EXCL so a key that appeared since the read above is never clobbered.
	f, err := os.OpenFile(out.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, defaults.SecretMode)
	if err != nil {
		return out, errors.WrapWithContext(errors.ErrCodeIO,
			"failed to create signing key", err, map[string]any{"path": out.Path})
	}
	if _, err := io.WriteString(f, key.String()+"\n"); err != nil {
		f.Close()
		os.Remove(out.Path)
		return out, errors.Wrap(errors.ErrCodeIO, "failed to write signing key", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(out.Path)
		return out, errors.Wrap(errors.ErrCodeIO, "failed to write signing key", err)
	}

	out.Generated = true
	out.Key = &key
	return out, nil
}
