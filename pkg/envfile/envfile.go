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

package envfile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/passingcircle/passingcircle/pkg/config"
	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
	"github.com/passingcircle/passingcircle/pkg/layout"
	"github.com/passingcircle/passingcircle/pkg/result"
	"github.com/passingcircle/passingcircle/pkg/secrets"
)

// StageName is the name results are reported under.
const StageName = "dotenv"

// Variable names, in file order.
const (
	VarDomain                     = "DOMAIN"
	VarAuthDomain                 = "AUTH_DOMAIN"
	VarPostgresSynapsePassword    = "POSTGRES_SYNAPSE_PASSWORD"
	VarPostgresAuthentikPassword  = "POSTGRES_AUTHENTIK_PASSWORD"
	VarAuthentikSecretKey         = "AUTHENTIK_SECRET_KEY"
	VarAuthentikBootstrapPassword = "AUTHENTIK_BOOTSTRAP_PASSWORD"
	VarAuthentikBootstrapToken    = "AUTHENTIK_BOOTSTRAP_TOKEN"
)

// Entry is a single KEY=value line.
type Entry struct {
	Key   string
	Value string
}

// String renders the entry as it appears in the file.
func (e Entry) String() string {
	return e.Key + "=" + e.Value
}

// secretVars maps variables to the secrets they carry.
var secretVars = []struct {
	key    string
	secret string
}{
	{VarPostgresSynapsePassword, secrets.PostgresSynapsePassword},
	{VarPostgresAuthentikPassword, secrets.PostgresAuthentikPassword},
	{VarAuthentikSecretKey, secrets.AuthentikSecretKey},
	{VarAuthentikBootstrapPassword, secrets.AuthentikBootstrapPassword},
	{VarAuthentikBootstrapToken, secrets.AuthentikBootstrapToken},
}

// Entries returns the variables the orchestrator needs, in file order.
func Entries(doc *config.Document) ([]Entry, error) {
	domain, err := doc.RequireDomain()
	if err != nil {
		return nil, err
	}
	authDomain, err := doc.RequireAuthDomain()
	if err != nil {
		return nil, err
	}

	entries := []Entry{
		{VarDomain, domain},
		{VarAuthDomain, authDomain},
	}
	for _, v := range secretVars {
		value, err := doc.RequireSecret(v.secret)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{v.key, value})
	}

	for _, e := range entries {
		if strings.ContainsAny(e.Value, "\r\n") {
			return nil, errors.NewWithContext(errors.ErrCodeConfig,
				fmt.Sprintf("value of %s contains a line break", e.Key),
				map[string]any{"key": e.Key})
		}
	}

	return entries, nil
}

// Format renders entries one per line with a trailing newline. Values are
// written verbatim.
func Format(entries []Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.String())
	}
	return strings.Join(lines, "\n") + "\n"
}

// Write emits the environment file, overwriting any previous one.
func Write(ctx context.Context, doc *config.Document, lay layout.Layout) (*result.Result, error) {
	res := result.New(StageName)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	entries, err := Entries(doc)
	if err != nil {
		return res, err
	}

	path := lay.EnvPath()
	content := Format(entries)
	if err := verify(content, entries); err != nil {
		return res, err
	}
	if err := os.WriteFile(path, []byte(content), defaults.SecretMode); err != nil {
		return res, errors.WrapWithContext(errors.ErrCodeIO, "failed to write environment file", err,
			map[string]any{"path": path})
	}

	res.AddFile(path, int64(len(content)))
	res.MarkSuccess()
	return res, nil
}

// verify parses content back the way the orchestrator will and rejects any
// entry whose value would not survive unquoted, e.g. one containing " #".
// Values are left out of the error since most of them are secrets.
func verify(content string, entries []Entry) error {
	parsed, err := godotenv.Unmarshal(content)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "environment file does not parse", err)
	}
	for _, e := range entries {
		if got, ok := parsed[e.Key]; !ok || got != e.Value {
			return errors.NewWithContext(errors.ErrCodeConfig,
				fmt.Sprintf("value of %s cannot be written unquoted", e.Key),
				map[string]any{"key": e.Key})
		}
	}
	return nil
}

// Read parses an environment file the way the orchestrator will.
func Read(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to read environment file", err,
			map[string]any{"path": path})
	}
	return vars, nil
}
