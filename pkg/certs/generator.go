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

package certs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
)

// Generator kinds accepted by NewGenerator.
const (
	KindAuto    = "auto"
	KindOpenSSL = "openssl"
	KindNative  = "native"
)

// Request describes one self-signed certificate to produce.
type Request struct {
	KeyPath    string
	CertPath   string
	Days       int
	KeyBits    int
	CommonName string
	SANs       []string
}

// SubjectAltName renders the SAN list in openssl extension syntax,
// e.g. "DNS:example.org,DNS:auth.example.org".
func (r Request) SubjectAltName() string {
	parts := make([]string, len(r.SANs))
	for i, name := range r.SANs {
		parts[i] = "DNS:" + name
	}
	return strings.Join(parts, ",")
}

// Generator produces a PEM private key and a PEM self-signed certificate.
// Implementations must leave no partial artifacts at the destination paths
// when they fail.
type Generator interface {
	Generate(ctx context.Context, req Request) error
}

// NewGenerator resolves a generator kind. KindAuto (or "") picks openssl
// when it is on PATH and the native generator otherwise.
func NewGenerator(kind string) (Generator, error) {
	switch kind {
	case KindOpenSSL:
		return NewOpenSSLGenerator(""), nil
	case KindNative:
		return NewNativeGenerator(), nil
	case KindAuto, "":
		if path, err := lookPath(defaultOpenSSL); err == nil {
			return NewOpenSSLGenerator(path), nil
		}
		return NewNativeGenerator(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown certificate generator %q (must be %s, %s or %s)",
				kind, KindAuto, KindOpenSSL, KindNative))
	}
}

// staging holds temporary sibling paths for an artifact pair. Artifacts are
// produced there and renamed into place only when both are complete.
type staging struct {
	key  string
	cert string
}

func newStaging(req Request) (*staging, error) {
	key, err := tempSibling(req.KeyPath)
	if err != nil {
		return nil, err
	}
	cert, err := tempSibling(req.CertPath)
	if err != nil {
		os.Remove(key)
		return nil, err
	}
	return &staging{key: key, cert: cert}, nil
}

func tempSibling(path string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

// commit moves the staged key and certificate into place. Staged files are
// created private, so the certificate is widened to the rendered-file mode.
func (s *staging) commit(req Request) error {
	if err := os.Chmod(s.key, defaults.PrivateMode); err != nil {
		return fmt.Errorf("failed to set key permissions: %w", err)
	}
	if err := os.Chmod(s.cert, defaults.FileMode); err != nil {
		return fmt.Errorf("failed to set certificate permissions: %w", err)
	}
	if err := os.Rename(s.key, req.KeyPath); err != nil {
		return fmt.Errorf("failed to move key into place: %w", err)
	}
	if err := os.Rename(s.cert, req.CertPath); err != nil {
		os.Remove(req.KeyPath)
		return fmt.Errorf("failed to move certificate into place: %w", err)
	}
	return nil
}

// cleanup removes staged files. Safe after commit.
func (s *staging) cleanup() {
	os.Remove(s.key)
	os.Remove(s.cert)
}
