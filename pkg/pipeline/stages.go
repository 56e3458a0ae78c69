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

package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/passingcircle/passingcircle/pkg/certs"
	"github.com/passingcircle/passingcircle/pkg/config"
	"github.com/passingcircle/passingcircle/pkg/envfile"
	"github.com/passingcircle/passingcircle/pkg/layout"
	"github.com/passingcircle/passingcircle/pkg/render"
	"github.com/passingcircle/passingcircle/pkg/renderctx"
	"github.com/passingcircle/passingcircle/pkg/result"
	"github.com/passingcircle/passingcircle/pkg/secrets"
	"github.com/passingcircle/passingcircle/pkg/signingkey"
	"github.com/passingcircle/passingcircle/pkg/storage"
	"github.com/passingcircle/passingcircle/pkg/wellknown"
)

// Stage names, in execution order.
const (
	StageSecrets    = "secrets"
	StageTLS        = "tls"
	StageSigningKey = "signing-key"
	StageRender     = render.StageName
	StageWellKnown  = wellknown.StageName
	StageDotenv     = envfile.StageName
	StageData       = storage.StageName
)

// State is shared by the stages of one run.
type State struct {
	RunID  string
	Layout layout.Layout
	Store  *config.Store

	// Context is set by the render stage.
	Context renderctx.Context

	// SecretsGenerated lists the secrets the secrets stage filled in.
	SecretsGenerated []string

	certGenerator certs.Generator
	progress      io.Writer
}

// Document returns the configuration document.
func (s *State) Document() *config.Document {
	return s.Store.Document()
}

// Progress prints an indented, tagged progress line.
func (s *State) Progress(tag, format string, args ...any) {
	fmt.Fprintf(s.progress, "  [%s] %s\n", tag, fmt.Sprintf(format, args...))
}

// Stage is one step of the provisioning pipeline.
type Stage interface {
	// Name is the short identifier used in logs and metrics.
	Name() string
	// Title is the heading printed before the stage runs.
	Title() string
	// Run performs the stage. It returns a result even on failure.
	Run(ctx context.Context, s *State) (*result.Result, error)
}

type stage struct {
	name  string
	title string
	run   func(ctx context.Context, s *State) (*result.Result, error)
}

// manifestStages rewrite their files on every run; only their output goes
// into the checksum manifest.
var manifestStages = map[string]bool{
	StageRender:    true,
	StageWellKnown: true,
	StageDotenv:    true,
}

func (st *stage) Name() string  { return st.name }
func (st *stage) Title() string { return st.title }

func (st *stage) Run(ctx context.Context, s *State) (*result.Result, error) {
	return st.run(ctx, s)
}

// DefaultStages returns the pipeline in its fixed order.
func DefaultStages() []Stage {
	return []Stage{
		&stage{name: StageSecrets, title: "Secrets", run: runSecrets},
		&stage{name: StageTLS, title: "TLS Certificates", run: runTLS},
		&stage{name: StageSigningKey, title: "Synapse Signing Key", run: runSigningKey},
		&stage{name: StageRender, title: "Render Templates", run: runRender},
		&stage{name: StageWellKnown, title: "Well-Known Discovery", run: runWellKnown},
		&stage{name: StageDotenv, title: "Docker Environment", run: runDotenv},
		&stage{name: StageData, title: "Data Directories", run: runData},
	}
}

func runSecrets(ctx context.Context, s *State) (*result.Result, error) {
	res := result.New(StageSecrets)

	report, err := secrets.NewProvisioner().Ensure(ctx, s.Store)
	s.SecretsGenerated = report.Generated
	if err != nil {
		return res, err
	}

	if !report.Saved {
		s.Progress("secrets", "All secrets present")
		return res, nil
	}

	var size int64
	if info, statErr := os.Stat(s.Store.Path()); statErr == nil {
		size = info.Size()
	}
	res.AddFile(s.Store.Path(), size)
	slog.Info("generated secrets", "run_id", s.RunID, "fields", strings.Join(report.Generated, ","))
	s.Progress("secrets", "Generated missing secrets and saved to config")
	return res, nil
}

func runTLS(ctx context.Context, s *State) (*result.Result, error) {
	res := result.New(StageTLS)

	out, err := certs.NewProvisioner(s.certGenerator).Ensure(ctx, s.Document(), s.Layout)
	if err != nil {
		return res, err
	}

	if !out.Generated {
		res.AddSkipped(out.CertPath)
		s.Progress("tls", "Certificates already exist, skipping")
		if out.State == certs.StatePresentStale {
			s.Progress("tls", "Warning: existing certificate is stale (%s); delete it to regenerate", out.Reason)
		}
		return res, nil
	}

	for _, p := range []string{out.KeyPath, out.CertPath} {
		var size int64
		if info, statErr := os.Stat(p); statErr == nil {
			size = info.Size()
		}
		res.AddFile(p, size)
	}
	san := certs.Request{SANs: out.SANs}.SubjectAltName()
	s.Progress("tls", "Generated self-signed certificate for %s", san)
	return res, nil
}

func runSigningKey(ctx context.Context, s *State) (*result.Result, error) {
	res := result.New(StageSigningKey)

	out, err := signingkey.NewProvisioner().Ensure(ctx, s.Document(), s.Layout)
	if err != nil {
		return res, err
	}

	if out.Key != nil {
		if verify, verr := out.Key.VerifyKey(); verr == nil {
			slog.Info("federation signing key",
				"run_id", s.RunID,
				"key_id", out.Key.QualifiedID(),
				"verify_key", verify,
			)
		}
	}

	if !out.Generated {
		res.AddSkipped(out.Path)
		s.Progress("synapse", "Signing key already exists, skipping")
		return res, nil
	}

	res.AddFile(out.Path, int64(len(out.Key.String())+1))
	s.Progress("synapse", "Generated signing key %s", out.Key.QualifiedID())
	return res, nil
}

func runRender(ctx context.Context, s *State) (*result.Result, error) {
	values, err := renderctx.Build(s.Document())
	if err != nil {
		return result.New(StageRender), err
	}
	s.Context = values

	if fp, fpErr := values.Fingerprint(); fpErr == nil {
		slog.Debug("rendering context built", "run_id", s.RunID, "keys", len(values), "fingerprint", fp)
	}

	r := render.New(s.Layout.Root, render.WithRenderHook(func(m render.Mapping) {
		s.Progress("render", "%s -> %s", m.Source, m.Destination)
	}))
	return r.Render(ctx, values)
}

func runWellKnown(ctx context.Context, s *State) (*result.Result, error) {
	res, err := wellknown.Generate(ctx, s.Document(), s.Layout)
	if err != nil {
		return res, err
	}
	s.Progress("well-known", "Generated Matrix discovery files")
	return res, nil
}

func runDotenv(ctx context.Context, s *State) (*result.Result, error) {
	res, err := envfile.Write(ctx, s.Document(), s.Layout)
	if err != nil {
		return res, err
	}
	s.Progress("dotenv", "Generated .env")
	return res, nil
}

func runData(ctx context.Context, s *State) (*result.Result, error) {
	res, err := storage.Prepare(ctx, s.Layout)
	if err != nil {
		return res, err
	}
	s.Progress("data", "Created data directories")
	return res, nil
}
