/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/passingcircle/passingcircle/pkg/certs"
	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/logging"
	"github.com/passingcircle/passingcircle/pkg/pipeline"
)

const (
	name           = "passingcircle-setup"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the setup command and exits non-zero on failure.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := newRootCmd(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Provision a Passing Circle deployment",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Description: `Reads config/passingcircle.yml from the project directory and prepares
everything the services need to start:
  - fills in missing secrets and saves them back to the configuration
  - creates a self-signed TLS certificate and the federation signing key
  - renders service configuration from templates
  - writes Matrix discovery documents and the .env file
  - creates persistent data directories

Safe to re-run: existing secrets, certificates and keys are kept.`,
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "project-dir",
				Value:   defaults.ProjectDir,
				Usage:   "Project root directory",
				Sources: cli.EnvVars("PASSINGCIRCLE_PROJECT_DIR"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Configuration document (default: <project-dir>/" + defaults.ConfigRelPath + ")",
				Sources: cli.EnvVars("PASSINGCIRCLE_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:  "cert-generator",
				Value: certs.KindAuto,
				Usage: fmt.Sprintf("Certificate generator (supported values: %s, %s, %s)",
					certs.KindAuto, certs.KindOpenSSL, certs.KindNative),
				Sources: cli.EnvVars("PASSINGCIRCLE_CERT_GENERATOR"),
			},
			&cli.BoolFlag{
				Name:  "checksums",
				Value: true,
				Usage: "Write a SHA256 manifest of generated files to .provision/checksums.txt",
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write run metrics in Prometheus textfile format to this path",
				Sources: cli.EnvVars("PASSINGCIRCLE_METRICS_FILE"),
			},
			&cli.StringFlag{
				Name:    "report",
				Usage:   "Write a run report to this path (.json, .yaml or .yml)",
				Sources: cli.EnvVars("PASSINGCIRCLE_REPORT"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logLevel := cmd.String("log-level")
			logging.SetDefaultStructuredLoggerWithLevel(name, version, logLevel)
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
				"logLevel", logLevel)
			return ctx, nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				return fmt.Errorf("unexpected arguments: %v", cmd.Args().Slice())
			}

			gen, err := certs.NewGenerator(cmd.String("cert-generator"))
			if err != nil {
				return err
			}

			d := pipeline.New(
				pipeline.WithProjectDir(cmd.String("project-dir")),
				pipeline.WithConfigPath(cmd.String("config")),
				pipeline.WithCertGenerator(gen),
				pipeline.WithIncludeChecksums(cmd.Bool("checksums")),
				pipeline.WithMetricsFile(cmd.String("metrics-file")),
				pipeline.WithReportFile(cmd.String("report")),
				pipeline.WithVersion(version),
				pipeline.WithOutput(cmd.Root().Writer),
			)

			_, err = d.Run(ctx)
			return err
		},
	}
}
