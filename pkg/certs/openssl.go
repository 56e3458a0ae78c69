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
	"os/exec"
	"strconv"

	"github.com/passingcircle/passingcircle/pkg/errors"
)

const defaultOpenSSL = "openssl"

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// OpenSSLGenerator shells out to the openssl binary.
type OpenSSLGenerator struct {
	Binary string
}

// NewOpenSSLGenerator returns a generator using binary, or "openssl" from
// PATH when binary is empty.
func NewOpenSSLGenerator(binary string) *OpenSSLGenerator {
	if binary == "" {
		binary = defaultOpenSSL
	}
	return &OpenSSLGenerator{Binary: binary}
}

// Args returns the openssl argument list for req writing to keyOut and certOut.
func (g *OpenSSLGenerator) Args(req Request, keyOut, certOut string) []string {
	return []string{
		"req", "-x509",
		"-newkey", "rsa:" + strconv.Itoa(req.KeyBits),
		"-keyout", keyOut,
		"-out", certOut,
		"-days", strconv.Itoa(req.Days),
		"-nodes",
		"-subj", "/CN=" + req.CommonName,
		"-addext", "subjectAltName=" + req.SubjectAltName(),
	}
}

// Generate implements Generator.
func (g *OpenSSLGenerator) Generate(ctx context.Context, req Request) error {
	stage, err := newStaging(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to stage certificate", err)
	}
	defer stage.cleanup()

	cmd := exec.CommandContext(ctx, g.Binary, g.Args(req, stage.key, stage.cert)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeExternalTool,
			"certificate generation failed", err, map[string]any{
				"binary": g.Binary,
				"output": string(out),
			})
	}

	if err := stage.commit(req); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to write certificate", err)
	}
	return nil
}
