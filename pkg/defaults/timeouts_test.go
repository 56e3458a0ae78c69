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

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"CertGenerationTimeout", CertGenerationTimeout, 10 * time.Second, 5 * time.Minute},
		{"PipelineTimeout", PipelineTimeout, 1 * time.Minute, 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestCertTimeoutFitsPipeline(t *testing.T) {
	// A single generator call must not be able to consume the whole run.
	if CertGenerationTimeout >= PipelineTimeout {
		t.Errorf("CertGenerationTimeout (%v) should be less than PipelineTimeout (%v)",
			CertGenerationTimeout, PipelineTimeout)
	}
}

func TestSecretParameters(t *testing.T) {
	if SecretLength < 32 {
		t.Errorf("SecretLength %d too short", SecretLength)
	}
	if ClientIDBytes*2 != 32 {
		t.Errorf("client ids should be 32 hex characters, got %d", ClientIDBytes*2)
	}
}
