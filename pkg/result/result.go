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
	"time"
)

// Result tracks the files one provisioning stage wrote or left alone.
type Result struct {
	// Stage is the name of the stage that produced this result.
	Stage string `json:"stage" yaml:"stage"`

	// Files are the absolute paths written by the stage, in write order.
	Files []string `json:"files" yaml:"files"`

	// Skipped are paths the stage chose not to write, e.g. optional
	// templates whose source is absent or files that already exist.
	Skipped []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// Size is the total number of bytes written.
	Size int64 `json:"size_bytes" yaml:"size_bytes"`

	// Duration is how long the stage took.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Success reports whether the stage completed.
	Success bool `json:"success" yaml:"success"`

	// Errors holds the error text of a failed stage.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// New creates an empty result for the named stage.
func New(stage string) *Result {
	return &Result{
		Stage:  stage,
		Files:  make([]string, 0),
		Errors: make([]string, 0),
	}
}

// AddFile records a written file.
func (r *Result) AddFile(path string, size int64) {
	r.Files = append(r.Files, path)
	r.Size += size
}

// AddSkipped records a path the stage left untouched.
func (r *Result) AddSkipped(path string) {
	r.Skipped = append(r.Skipped, path)
}

// AddError records err; nil is ignored.
func (r *Result) AddError(err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err.Error())
}

// MarkSuccess marks the stage as completed.
func (r *Result) MarkSuccess() {
	r.Success = true
}
