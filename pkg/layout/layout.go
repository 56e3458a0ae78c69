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

// Package layout computes where every provisioned artifact lives inside a
// project directory. Stages never join paths themselves.
package layout

import (
	"path"
	"path/filepath"

	"github.com/passingcircle/passingcircle/pkg/defaults"
)

// Relative locations inside the project root.
const (
	CertDirRel       = "services/nginx/certs"
	SynapseDirRel    = "services/synapse"
	WellKnownDirRel  = "services/nginx/well-known/matrix"
	EnvFileRel       = ".env"
	ProvisionDirRel  = ".provision"
	ChecksumFileName = "checksums.txt"
)

// dataDirs are the persistent volumes the orchestrator mounts.
var dataDirs = []string{
	"data/synapse-db",
	"data/synapse-media",
	"data/authentik-db",
	"data/authentik-data",
}

// Layout resolves artifact paths under a project root.
type Layout struct {
	Root string
}

// New returns a Layout rooted at root, or at defaults.ProjectDir when root is empty.
func New(root string) Layout {
	if root == "" {
		root = defaults.ProjectDir
	}
	return Layout{Root: root}
}

// Abs joins a slash-separated project-relative path onto the root.
func (l Layout) Abs(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// ConfigPath is the default configuration document location.
func (l Layout) ConfigPath() string {
	return l.Abs(defaults.ConfigRelPath)
}

// CertDir holds the TLS certificate and key.
func (l Layout) CertDir() string {
	return l.Abs(CertDirRel)
}

// CertPath is the certificate file for domain.
func (l Layout) CertPath(domain string) string {
	return filepath.Join(l.CertDir(), domain+".crt")
}

// KeyPath is the private key file for domain.
func (l Layout) KeyPath(domain string) string {
	return filepath.Join(l.CertDir(), domain+".key")
}

// SigningKeyPath is the federation signing key file on the host.
func (l Layout) SigningKeyPath(domain string) string {
	return filepath.Join(l.Abs(SynapseDirRel), domain+".signing.key")
}

// HomeserverSigningKeyPath is the same signing key as seen from inside the
// home-server container. It is a container path and always uses slashes.
func HomeserverSigningKeyPath(domain string) string {
	return path.Join(defaults.HomeserverDataDir, domain+".signing.key")
}

// WellKnownDir holds the discovery documents.
func (l Layout) WellKnownDir() string {
	return l.Abs(WellKnownDirRel)
}

// EnvPath is the orchestrator environment file.
func (l Layout) EnvPath() string {
	return l.Abs(EnvFileRel)
}

// ChecksumPath is the manifest of rendered file digests.
func (l Layout) ChecksumPath() string {
	return filepath.Join(l.Abs(ProvisionDirRel), ChecksumFileName)
}

// DataDirs returns the persistent data directories, relative to the root.
func DataDirs() []string {
	out := make([]string, len(dataDirs))
	copy(out, dataDirs)
	return out
}
