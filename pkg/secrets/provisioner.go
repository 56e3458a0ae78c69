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

package secrets

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	"github.com/passingcircle/passingcircle/pkg/config"
	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
)

// Secret field names in the configuration document.
const (
	SynapseRegistrationSharedSecret = "synapse_registration_shared_secret"
	SynapseMacaroonSecret           = "synapse_macaroon_secret"
	AuthentikSecretKey              = "authentik_secret_key"
	AuthentikBootstrapToken         = "authentik_bootstrap_token"
	AuthentikBootstrapPassword      = "authentik_bootstrap_password"
	OIDCClientSecret                = "oidc_client_secret"
	PostgresSynapsePassword         = "postgres_synapse_password"
	PostgresAuthentikPassword       = "postgres_authentik_password"
	OIDCClientID                    = "oidc_client_id"
)

// Policy selects how a missing secret is generated.
type Policy int

const (
	// PolicyString generates an alphanumeric string of Field.Size characters.
	PolicyString Policy = iota
	// PolicyHex generates Field.Size random bytes, hex encoded.
	PolicyHex
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case PolicyString:
		return "random-string"
	case PolicyHex:
		return "random-hex-token"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Field is one secret the deployment requires.
type Field struct {
	Name   string
	Policy Policy
	Size   int
}

// Fields returns the secrets every deployment must have, in generation order.
func Fields() []Field {
	return []Field{
		{Name: SynapseRegistrationSharedSecret, Policy: PolicyString, Size: defaults.SecretLength},
		{Name: SynapseMacaroonSecret, Policy: PolicyString, Size: defaults.SecretLength},
		{Name: AuthentikSecretKey, Policy: PolicyString, Size: defaults.SecretLength},
		{Name: AuthentikBootstrapToken, Policy: PolicyString, Size: defaults.SecretLength},
		{Name: AuthentikBootstrapPassword, Policy: PolicyString, Size: defaults.SecretLength},
		{Name: OIDCClientSecret, Policy: PolicyString, Size: defaults.SecretLength},
		{Name: PostgresSynapsePassword, Policy: PolicyString, Size: defaults.SecretLength},
		{Name: PostgresAuthentikPassword, Policy: PolicyString, Size: defaults.SecretLength},
		{Name: OIDCClientID, Policy: PolicyHex, Size: defaults.ClientIDBytes},
	}
}

// Generate produces a fresh value for f from src.
func (f Field) Generate(src io.Reader) (string, error) {
	switch f.Policy {
	case PolicyString:
		return RandomString(src, f.Size)
	case PolicyHex:
		return RandomHex(src, f.Size)
	default:
		return "", fmt.Errorf("unknown policy %v for %s", f.Policy, f.Name)
	}
}

// Store is the part of the configuration store the provisioner needs.
type Store interface {
	Document() *config.Document
	SetSecret(name, value string)
	Save() error
}

// Report lists what a provisioning pass did.
type Report struct {
	// Generated holds the names of fields that were empty and got a value.
	Generated []string
	// Saved is true when the configuration document was written back.
	Saved bool
}

// Changed reports whether any field was generated.
func (r Report) Changed() bool {
	return len(r.Generated) > 0
}

// Provisioner fills in missing secrets.
type Provisioner struct {
	fields []Field
	random io.Reader
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithRandom replaces the cryptographic random source. Tests only.
func WithRandom(r io.Reader) Option {
	return func(p *Provisioner) {
		if r != nil {
			p.random = r
		}
	}
}

// WithFields replaces the field set.
func WithFields(fields []Field) Option {
	return func(p *Provisioner) {
		p.fields = fields
	}
}

// NewProvisioner returns a Provisioner over Fields() reading crypto/rand.
func NewProvisioner(opts ...Option) *Provisioner {
	p := &Provisioner{
		fields: Fields(),
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ensure generates every empty field and leaves populated ones untouched.
// When anything was generated the whole document is saved once; otherwise
// nothing is written.
func (p *Provisioner) Ensure(ctx context.Context, store Store) (Report, error) {
	var report Report
	doc := store.Document()

	for _, f := range p.fields {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if doc.Secret(f.Name) != "" {
			continue
		}

		value, err := f.Generate(p.random)
		if err != nil {
			return report, errors.WrapWithContext(errors.ErrCodeInternal,
				"failed to generate secret", err, map[string]any{"field": f.Name})
		}
		store.SetSecret(f.Name, value)
		report.Generated = append(report.Generated, f.Name)

		slog.Debug("secret generated", "field", f.Name, "policy", f.Policy.String())
	}

	if !report.Changed() {
		return report, nil
	}

	if err := store.Save(); err != nil {
		return report, err
	}
	report.Saved = true

	return report, nil
}
