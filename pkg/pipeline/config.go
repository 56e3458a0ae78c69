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
	"io"
	"os"

	"github.com/passingcircle/passingcircle/pkg/certs"
	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/layout"
)

// Config holds the settings of one provisioning run.
// Config is immutable after creation.
type Config struct {
	projectDir       string
	configPath       string
	certGenerator    certs.Generator
	includeChecksums bool
	metricsFile      string
	reportFile       string
	version          string
	out              io.Writer
}

// Option is a functional option for configuring Config instances.
type Option func(*Config)

// ProjectDir returns the project root.
func (c *Config) ProjectDir() string {
	return c.projectDir
}

// ConfigPath returns the configuration document path. It defaults to
// config/passingcircle.yml under the project root.
func (c *Config) ConfigPath() string {
	if c.configPath != "" {
		return c.configPath
	}
	return layout.New(c.projectDir).ConfigPath()
}

// CertGenerator returns the certificate generator, or nil to resolve
// one automatically.
func (c *Config) CertGenerator() certs.Generator {
	return c.certGenerator
}

// IncludeChecksums reports whether a checksum manifest is written.
func (c *Config) IncludeChecksums() bool {
	return c.includeChecksums
}

// MetricsFile returns the Prometheus textfile path, or "" when disabled.
func (c *Config) MetricsFile() string {
	return c.metricsFile
}

// ReportFile returns the run report path, or "" when disabled.
func (c *Config) ReportFile() string {
	return c.reportFile
}

// Version returns the tool version.
func (c *Config) Version() string {
	return c.version
}

// Output returns where progress lines are printed.
func (c *Config) Output() io.Writer {
	return c.out
}

// WithProjectDir sets the project root.
func WithProjectDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.projectDir = dir
		}
	}
}

// WithConfigPath overrides the configuration document path.
func WithConfigPath(path string) Option {
	return func(c *Config) {
		c.configPath = path
	}
}

// WithCertGenerator sets the certificate generator.
func WithCertGenerator(gen certs.Generator) Option {
	return func(c *Config) {
		c.certGenerator = gen
	}
}

// WithIncludeChecksums sets whether a checksum manifest is written.
func WithIncludeChecksums(enabled bool) Option {
	return func(c *Config) {
		c.includeChecksums = enabled
	}
}

// WithMetricsFile sets the Prometheus textfile path.
func WithMetricsFile(path string) Option {
	return func(c *Config) {
		c.metricsFile = path
	}
}

// WithReportFile sets where the run report is written. The extension
// selects JSON or YAML.
func WithReportFile(path string) Option {
	return func(c *Config) {
		c.reportFile = path
	}
}

// WithVersion sets the tool version.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.version = version
	}
}

// WithOutput sets where progress lines are printed.
func WithOutput(w io.Writer) Option {
	return func(c *Config) {
		if w != nil {
			c.out = w
		}
	}
}

// NewConfig returns a Config with default values.
func NewConfig(options ...Option) *Config {
	c := &Config{
		projectDir:       defaults.ProjectDir,
		includeChecksums: true,
		version:          "dev",
		out:              os.Stdout,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}
