/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package pipeline runs the provisioning stages against a project directory.
//
// A run loads config/passingcircle.yml and executes, strictly in order:
//
//  1. Secrets: fill empty secrets and save the document once
//  2. TLS Certificates: self-signed certificate unless one exists
//  3. Synapse Signing Key: federation key unless one exists
//  4. Render Templates: build the context and render service templates
//  5. Well-Known Discovery: Matrix client and server documents
//  6. Docker Environment: the .env file
//  7. Data Directories: persistent volume directories
//
// Progress is printed to the configured writer; structured logs go through
// slog and carry the run id. Any stage error stops the run. Artifacts from
// earlier stages stay on disk, and since every stage either skips existing
// state or overwrites deterministically, re-running is the recovery path.
//
// Usage:
//
//	d := pipeline.New(
//	    pipeline.WithProjectDir("/project"),
//	    pipeline.WithMetricsFile("/var/lib/node_exporter/passingcircle.prom"),
//	)
//	out, err := d.Run(ctx)
//
// Concurrent runs against the same project are not supported; callers must
// serialize them.
package pipeline
