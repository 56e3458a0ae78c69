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

package wellknown

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/passingcircle/passingcircle/pkg/config"
	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
	"github.com/passingcircle/passingcircle/pkg/layout"
	"github.com/passingcircle/passingcircle/pkg/result"
)

// StageName is the name results are reported under.
const StageName = "well-known"

// File names inside the well-known matrix directory.
const (
	ClientFile = "client"
	ServerFile = "server"
)

// FederationPort is the port peers are told to federate on.
const FederationPort = 443

// Client is the client discovery document.
type Client struct {
	Homeserver Homeserver `json:"m.homeserver"`
}

// Homeserver points clients at the home-server.
type Homeserver struct {
	BaseURL string `json:"base_url"`
}

// Server is the server discovery document.
type Server struct {
	Server string `json:"m.server"`
}

// Documents returns the discovery documents for domain.
func Documents(domain string) (Client, Server) {
	return Client{Homeserver: Homeserver{BaseURL: "https://" + domain}},
		Server{Server: fmt.Sprintf("%s:%d", domain, FederationPort)}
}

// Generate writes both discovery documents, overwriting any previous ones.
func Generate(ctx context.Context, doc *config.Document, lay layout.Layout) (*result.Result, error) {
	res := result.New(StageName)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	domain, err := doc.RequireDomain()
	if err != nil {
		return res, err
	}

	dir := lay.WellKnownDir()
	if err := os.MkdirAll(dir, defaults.DirMode); err != nil {
		return res, errors.WrapWithContext(errors.ErrCodeIO, "failed to create well-known directory", err,
			map[string]any{"path": dir})
	}

	client, server := Documents(domain)
	docs := []struct {
		name string
		v    any
	}{
		{ClientFile, client},
		{ServerFile, server},
	}
	for _, d := range docs {
		path := filepath.Join(dir, d.name)
		n, err := writeJSON(path, d.v)
		if err != nil {
			return res, err
		}
		res.AddFile(path, n)
	}

	res.MarkSuccess()
	return res, nil
}

func writeJSON(path string, v any) (int64, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, "failed to encode discovery document", err)
	}
	if err := os.WriteFile(path, data, defaults.FileMode); err != nil {
		return 0, errors.WrapWithContext(errors.ErrCodeIO, "failed to write discovery document", err,
			map[string]any{"path": path})
	}
	return int64(len(data)), nil
}
