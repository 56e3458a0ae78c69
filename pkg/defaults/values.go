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

package defaults

import "os"

// Values substituted into the rendering context when the configuration
// document leaves them out. Templates never carry their own fallbacks.
const (
	// MaxUploadSizeMB is the home-server media upload limit.
	MaxUploadSizeMB = 50

	// PrimaryColor is the landing page and identity-provider brand color.
	PrimaryColor = "#4A90D9"

	// AdminUsername is used when the admins list is empty or absent.
	AdminUsername = "admin"
)

// Secret generation parameters.
const (
	// SecretLength is the number of alphanumeric characters in a generated secret.
	SecretLength = 64

	// ClientIDBytes is the number of random bytes hex-encoded into a client id.
	ClientIDBytes = 16
)

// Certificate parameters.
const (
	// CertKeyBits is the RSA key size of the self-signed certificate.
	CertKeyBits = 2048

	// CertValidityDays is the lifetime of the self-signed certificate.
	CertValidityDays = 365
)

// Federation signing key parameters.
const (
	// SigningKeySeedBytes is the ed25519 seed length.
	SigningKeySeedBytes = 32

	// SigningKeyIDBytes is the number of random bytes in the key id suffix.
	SigningKeyIDBytes = 2
)

// Project layout.
const (
	// ProjectDir is the default project root, the mount point inside the setup container.
	ProjectDir = "/project"

	// ConfigRelPath is the configuration document path relative to the project root.
	ConfigRelPath = "config/passingcircle.yml"

	// HomeserverDataDir is where the home-server container mounts its data,
	// used to build paths the home-server itself reads.
	HomeserverDataDir = "/data"
)

// File modes.
const (
	DirMode     os.FileMode = 0o755
	FileMode    os.FileMode = 0o644
	SecretMode  os.FileMode = 0o600
	ConfigMode  os.FileMode = 0o600
	PrivateMode os.FileMode = 0o600
)
