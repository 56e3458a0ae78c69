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

import "time"

// External tool timeouts.
const (
	// CertGenerationTimeout bounds a single certificate generator invocation.
	CertGenerationTimeout = 2 * time.Minute
)

// Run timeouts.
const (
	// PipelineTimeout bounds a whole provisioning run. A run is expected to
	// finish in seconds; this only stops a wedged external tool from hanging
	// an automation driver forever.
	PipelineTimeout = 10 * time.Minute
)
