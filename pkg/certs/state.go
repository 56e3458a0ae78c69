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
	"crypto/tls"
	"crypto/x509"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"
)

// State is the provisioning state of a certificate/key pair.
type State int

const (
	// StateAbsent means at least one of the two files is missing.
	StateAbsent State = iota
	// StatePresentValid means both files exist, match each other, are
	// unexpired, and cover exactly the expected names.
	StatePresentValid
	// StatePresentStale means both files exist but do not satisfy the checks
	// of StatePresentValid.
	StatePresentStale
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StatePresentValid:
		return "present-valid"
	case StatePresentStale:
		return "present-stale"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Present reports whether both files exist, valid or not.
func (s State) Present() bool {
	return s == StatePresentValid || s == StatePresentStale
}

// Inspection is the result of Inspect.
type Inspection struct {
	State State
	// Reason explains a stale state.
	Reason string
}

// Inspect classifies the pair at certPath and keyPath against the expected
// SAN set at time now.
func Inspect(certPath, keyPath string, sans []string, now time.Time) (Inspection, error) {
	certPEM, certOK, err := readIfExists(certPath)
	if err != nil {
		return Inspection{}, err
	}
	keyPEM, keyOK, err := readIfExists(keyPath)
	if err != nil {
		return Inspection{}, err
	}
	if !certOK || !keyOK {
		return Inspection{State: StateAbsent}, nil
	}

	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return stale(fmt.Sprintf("unusable key pair: %v", err)), nil
	}
	leaf := pair.Leaf
	if leaf == nil {
		if leaf, err = x509.ParseCertificate(pair.Certificate[0]); err != nil {
			return stale(fmt.Sprintf("unparsable certificate: %v", err)), nil
		}
	}

	if now.After(leaf.NotAfter) {
		return stale(fmt.Sprintf("expired at %s", leaf.NotAfter.UTC().Format(time.RFC3339))), nil
	}

	want := slices.Clone(sans)
	have := slices.Clone(leaf.DNSNames)
	slices.Sort(want)
	slices.Sort(have)
	if !slices.Equal(want, have) {
		return stale(fmt.Sprintf("names %v do not match configured %v", have, want)), nil
	}

	return Inspection{State: StatePresentValid}, nil
}

func stale(reason string) Inspection {
	return Inspection{State: StatePresentStale, Reason: reason}
}

func readIfExists(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, true, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
}
