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
	"log/slog"
	"os"
	"time"

	"github.com/passingcircle/passingcircle/pkg/config"
	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
	"github.com/passingcircle/passingcircle/pkg/layout"
)

// Outcome reports what Ensure did.
type Outcome struct {
	CertPath  string
	KeyPath   string
	SANs      []string
	State     State
	Reason    string
	Generated bool
}

// Provisioner makes sure the deployment has a TLS certificate.
type Provisioner struct {
	generator Generator
	now       func() time.Time
}

// NewProvisioner returns a Provisioner that generates with gen.
func NewProvisioner(gen Generator) *Provisioner {
	return &Provisioner{generator: gen, now: time.Now}
}

// Ensure generates a certificate for every configured domain unless both
// the certificate and key file already exist.
//
// Existing files are never replaced, even when Inspect finds them stale:
// a changed domain list keeps serving the old certificate until the operator
// deletes the pair. Stale pairs are reported with a warning.
func (p *Provisioner) Ensure(ctx context.Context, doc *config.Document, lay layout.Layout) (Outcome, error) {
	sans, err := doc.Domains()
	if err != nil {
		return Outcome{}, err
	}
	domain := sans[0]

	out := Outcome{
		CertPath: lay.CertPath(domain),
		KeyPath:  lay.KeyPath(domain),
		SANs:     sans,
	}

	if err := os.MkdirAll(lay.CertDir(), defaults.DirMode); err != nil {
		return out, errors.WrapWithContext(errors.ErrCodeIO,
			"failed to create certificate directory", err, map[string]any{"path": lay.CertDir()})
	}

	insp, err := Inspect(out.CertPath, out.KeyPath, sans, p.now())
	if err != nil {
		return out, errors.Wrap(errors.ErrCodeIO, "failed to inspect certificate", err)
	}
	out.State = insp.State
	out.Reason = insp.Reason

	if insp.State.Present() {
		if insp.State == StatePresentStale {
			slog.Warn("reusing stale certificate; delete the certificate and key to regenerate",
				"cert", out.CertPath,
				"reason", insp.Reason,
			)
		}
		return out, nil
	}

	req := Request{
		KeyPath:    out.KeyPath,
		CertPath:   out.CertPath,
		Days:       defaults.CertValidityDays,
		KeyBits:    defaults.CertKeyBits,
		CommonName: domain,
		SANs:       sans,
	}

	genCtx, cancel := context.WithTimeout(ctx, defaults.CertGenerationTimeout)
	defer cancel()

	slog.Debug("generating certificate", "common_name", domain, "san", req.SubjectAltName())
	if err := p.generator.Generate(genCtx, req); err != nil {
		return out, err
	}
	out.Generated = true

	return out, nil
}
