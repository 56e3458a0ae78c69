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

package config

import (
	"fmt"

	"github.com/passingcircle/passingcircle/pkg/errors"
)

// Document is the typed view of the configuration document.
type Document struct {
	Network Network           `yaml:"network"`
	Secrets map[string]string `yaml:"secrets"`
	Event   Event             `yaml:"event"`
	Landing Landing           `yaml:"landing"`
	Synapse Synapse           `yaml:"synapse"`
	Rooms   []Room            `yaml:"rooms"`
	Admins  []Admin           `yaml:"admins"`

	// rawRooms keeps every room entry with all of its declared fields so
	// templates can read keys this type does not model.
	rawRooms []map[string]any
}

// Network holds the externally reachable names of the deployment.
type Network struct {
	Domain           string `yaml:"domain"`
	AuthDomain       string `yaml:"auth_domain"`
	FluffychatDomain string `yaml:"fluffychat_domain,omitempty"`
	HostIP           string `yaml:"host_ip"`
}

// Event describes the gathering the deployment is branded for.
type Event struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
}

// Landing holds landing page branding. Nil fields take defaults.
type Landing struct {
	PrimaryColor *string `yaml:"primary_color,omitempty"`
}

// Synapse holds home-server tunables. Nil fields take defaults. Values are
// kept as written; templates receive them unchanged.
type Synapse struct {
	MaxUploadSizeMB any `yaml:"max_upload_size_mb,omitempty"`
}

// Room is a declared chat room.
type Room struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name,omitempty"`
	Topic    string `yaml:"topic,omitempty"`
	AutoJoin bool   `yaml:"auto_join,omitempty"`
}

// Admin is a declared administrator account.
type Admin struct {
	Username string `yaml:"username"`
}

// RawRooms returns the room entries exactly as declared, in order.
// The returned slice shares nothing with the document.
func (d *Document) RawRooms() []map[string]any {
	out := make([]map[string]any, 0, len(d.rawRooms))
	for _, r := range d.rawRooms {
		out = append(out, deepCopyMap(r))
	}
	return out
}

// Secret returns the named secret, or "" when it is absent.
func (d *Document) Secret(name string) string {
	if d.Secrets == nil {
		return ""
	}
	return d.Secrets[name]
}

// RequireSecret returns the named secret or a configuration error when empty.
func (d *Document) RequireSecret(name string) (string, error) {
	return requireField("secrets."+name, d.Secret(name))
}

// RequireDomain returns network.domain.
func (d *Document) RequireDomain() (string, error) {
	return requireField("network.domain", d.Network.Domain)
}

// RequireAuthDomain returns network.auth_domain.
func (d *Document) RequireAuthDomain() (string, error) {
	return requireField("network.auth_domain", d.Network.AuthDomain)
}

// RequireHostIP returns network.host_ip.
func (d *Document) RequireHostIP() (string, error) {
	return requireField("network.host_ip", d.Network.HostIP)
}

// Domains returns every externally reachable name: the primary domain, the
// auth domain and, when configured, the fluffychat domain.
// The primary and auth domains must both be set and must differ.
func (d *Document) Domains() ([]string, error) {
	domain, err := d.RequireDomain()
	if err != nil {
		return nil, err
	}
	auth, err := d.RequireAuthDomain()
	if err != nil {
		return nil, err
	}
	if domain == auth {
		return nil, errors.NewWithContext(errors.ErrCodeConfig,
			"network.domain and network.auth_domain must differ",
			map[string]any{"domain": domain})
	}

	names := []string{domain, auth}
	if d.Network.FluffychatDomain != "" {
		names = append(names, d.Network.FluffychatDomain)
	}
	return names, nil
}

func requireField(field, value string) (string, error) {
	if value == "" {
		return "", errors.New(errors.ErrCodeConfig, fmt.Sprintf("%s is required", field))
	}
	return value, nil
}

func deepCopyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = deepCopyValue(e)
		}
		return s
	default:
		return v
	}
}
