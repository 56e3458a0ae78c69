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

package result

import (
	"fmt"
	"time"
)

// Output aggregates the results of a provisioning run.
type Output struct {
	// RunID identifies the run in logs and metrics.
	RunID string `json:"run_id" yaml:"run_id"`

	// ProjectDir is the project root the run provisioned.
	ProjectDir string `json:"project_dir" yaml:"project_dir"`

	// Results contains per-stage results in execution order.
	Results []*Result `json:"results" yaml:"results"`

	// TotalSize is the total size in bytes of all written files.
	TotalSize int64 `json:"total_size_bytes" yaml:"total_size_bytes"`

	// TotalFiles is the total count of written files.
	TotalFiles int `json:"total_files" yaml:"total_files"`

	// TotalDuration is the wall time of the whole run.
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`
}

// Add appends r and updates the totals.
func (o *Output) Add(r *Result) {
	if r == nil {
		return
	}
	o.Results = append(o.Results, r)
	o.TotalFiles += len(r.Files)
	o.TotalSize += r.Size
}

// Files returns every written file across all stages, in write order.
func (o *Output) Files() []string {
	files := make([]string, 0, o.TotalFiles)
	for _, r := range o.Results {
		files = append(files, r.Files...)
	}
	return files
}

// SuccessCount returns the number of stages that completed.
func (o *Output) SuccessCount() int {
	count := 0
	for _, r := range o.Results {
		if r.Success {
			count++
		}
	}
	return count
}

// FailureCount returns the number of stages that failed.
func (o *Output) FailureCount() int {
	return len(o.Results) - o.SuccessCount()
}

// ByStage returns results indexed by stage name.
func (o *Output) ByStage() map[string]*Result {
	results := make(map[string]*Result, len(o.Results))
	for _, r := range o.Results {
		results[r.Stage] = r
	}
	return results
}

// Summary returns a one-line human readable summary.
func (o *Output) Summary() string {
	return fmt.Sprintf(
		"Wrote %d files (%s) in %v. Completed %d/%d stages.",
		o.TotalFiles,
		formatBytes(o.TotalSize),
		o.TotalDuration.Round(time.Millisecond),
		o.SuccessCount(),
		len(o.Results),
	)
}

// formatBytes formats bytes into human-readable format.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
