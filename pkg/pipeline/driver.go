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
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/passingcircle/passingcircle/pkg/certs"
	"github.com/passingcircle/passingcircle/pkg/checksum"
	"github.com/passingcircle/passingcircle/pkg/config"
	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
	"github.com/passingcircle/passingcircle/pkg/layout"
	"github.com/passingcircle/passingcircle/pkg/result"
	"github.com/passingcircle/passingcircle/pkg/serializer"
)

const ruleWidth = 40

// Driver runs the provisioning stages in order.
type Driver struct {
	// Config provides run settings.
	Config *Config

	stages []Stage
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithStages replaces the default stage list.
func WithStages(stages ...Stage) DriverOption {
	return func(d *Driver) {
		d.stages = stages
	}
}

// New creates a Driver with the given config options.
func New(opts ...Option) *Driver {
	return NewWithConfig(NewConfig(opts...))
}

// NewWithConfig creates a Driver with an existing Config.
func NewWithConfig(cfg *Config, opts ...DriverOption) *Driver {
	if cfg == nil {
		cfg = NewConfig()
	}
	d := &Driver{
		Config: cfg,
		stages: DefaultStages(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stages returns the stages the driver runs, in order.
func (d *Driver) Stages() []Stage {
	return d.stages
}

// Run loads the configuration document and executes every stage in order.
//
// The first failing stage stops the run. Nothing is rolled back: files
// written by earlier stages stay on disk and a re-run picks up from them.
// The returned Output covers every stage that ran, including the failed one.
func (d *Driver) Run(ctx context.Context) (*result.Output, error) {
	start := time.Now()
	runID := uuid.New().String()
	lay := layout.New(d.Config.ProjectDir())
	m := newMetrics(d.Config.Version())

	out := &result.Output{
		RunID:      runID,
		ProjectDir: lay.Root,
		Results:    make([]*result.Result, 0, len(d.stages)),
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.PipelineTimeout)
	defer cancel()

	w := d.Config.Output()
	fmt.Fprintln(w, "Passing Circle Setup")
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))

	err := d.run(ctx, runID, lay, m, out)

	out.TotalDuration = time.Since(start)
	m.observeRun(out.TotalDuration, time.Now(), err)
	d.writeMetrics(m, runID)
	d.writeReport(context.WithoutCancel(ctx), out)

	if err != nil {
		slog.Error("provisioning failed", "run_id", runID, "error", err)
		return out, err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
	fmt.Fprintln(w, "Setup complete!")

	slog.Info("provisioning complete",
		"run_id", runID,
		"files", out.TotalFiles,
		"duration", out.TotalDuration.Round(time.Millisecond).String(),
	)
	return out, nil
}

func (d *Driver) run(ctx context.Context, runID string, lay layout.Layout, m *metrics, out *result.Output) error {
	configPath := d.Config.ConfigPath()
	store, err := config.Load(configPath)
	if err != nil {
		return err
	}

	gen := d.Config.CertGenerator()
	if gen == nil {
		if gen, err = certs.NewGenerator(certs.KindAuto); err != nil {
			return err
		}
	}

	state := &State{
		RunID:         runID,
		Layout:        lay,
		Store:         store,
		certGenerator: gen,
		progress:      d.Config.Output(),
	}

	slog.Debug("provisioning started",
		"run_id", runID,
		"project_dir", lay.Root,
		"config", configPath,
		"stages", len(d.stages),
	)

	var manifest []string
	for i, st := range d.stages {
		fmt.Fprintf(state.progress, "\n%d. %s\n", i+1, st.Title())

		stageStart := time.Now()
		res, err := st.Run(ctx, state)
		if res == nil {
			res = result.New(st.Name())
		}
		res.Duration = time.Since(stageStart)
		m.observeStage(st.Name(), res.Duration, len(res.Files), err)

		if err != nil {
			res.AddError(err)
			out.Add(res)
			return errors.WrapWithContext(errors.CodeOf(err),
				fmt.Sprintf("%s stage failed", st.Name()), err,
				map[string]any{"stage": st.Name(), "run_id": runID})
		}

		res.MarkSuccess()
		out.Add(res)
		if manifestStages[st.Name()] {
			manifest = append(manifest, res.Files...)
		}

		slog.Debug("stage complete",
			"run_id", runID,
			"stage", st.Name(),
			"files", len(res.Files),
			"skipped", len(res.Skipped),
			"duration", res.Duration.String(),
		)
	}
	m.secretsMade.Set(float64(len(state.SecretsGenerated)))

	if d.Config.IncludeChecksums() {
		if err := d.writeChecksums(ctx, lay, manifest); err != nil {
			return err
		}
	}

	return nil
}

// writeChecksums records the regenerated files and logs which of them
// differ from the previous run's manifest.
func (d *Driver) writeChecksums(ctx context.Context, lay layout.Layout, files []string) error {
	path := lay.ChecksumPath()

	if prev, err := checksum.Read(path); err == nil {
		if changed := checksum.Changed(lay.Root, prev); len(changed) > 0 {
			slog.Info("generated files changed since previous run", "files", strings.Join(changed, ","))
		}
	}

	return checksum.Generate(ctx, lay.Root, path, files)
}

func (d *Driver) writeMetrics(m *metrics, runID string) {
	path := d.Config.MetricsFile()
	if path == "" {
		return
	}
	if err := m.write(path); err != nil {
		slog.Warn("failed to write metrics", "run_id", runID, "path", path, "error", err)
		return
	}
	slog.Debug("metrics written", "run_id", runID, "path", path)
}

func (d *Driver) writeReport(ctx context.Context, out *result.Output) {
	path := d.Config.ReportFile()
	if path == "" {
		return
	}
	if err := serializer.WriteFile(ctx, path, out); err != nil {
		slog.Warn("failed to write run report", "run_id", out.RunID, "path", path, "error", err)
	}
}
