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

package renderctx

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/passingcircle/passingcircle/pkg/config"
	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
	"github.com/passingcircle/passingcircle/pkg/layout"
	"github.com/passingcircle/passingcircle/pkg/secrets"
)

// Context keys available to templates.
const (
	KeyDomain                   = "domain"
	KeyAuthDomain               = "auth_domain"
	KeyHostIP                   = "host_ip"
	KeyEventName                = "event_name"
	KeyEventTagline             = "event_tagline"
	KeyRegistrationSharedSecret = "registration_shared_secret"
	KeyMacaroonSecret           = "macaroon_secret"
	KeyOIDCClientID             = "oidc_client_id"
	KeyOIDCClientSecret         = "oidc_client_secret"
	KeyPostgresSynapsePassword  = "postgres_synapse_password"
	KeyMaxUploadSizeMB          = "max_upload_size_mb"
	KeySigningKeyPath           = "signing_key_path"
	KeyAutoJoinRooms            = "auto_join_rooms"
	KeyAdminUsername            = "admin_username"
	KeyRooms                    = "rooms"
	KeyPrimaryColor             = "primary_color"
	KeyFluffychatDomain         = "fluffychat_domain"
)

// Context is the flat set of values templates render against.
type Context map[string]any

// Keys returns the context keys in sorted order.
func (c Context) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fingerprint returns a sha256 over the canonical JSON form of the context.
// Two contexts with equal fingerprints render identical output.
func (c Context) Fingerprint() (string, error) {
	// encoding/json sorts map keys, which makes the encoding canonical.
	data, err := json.Marshal(map[string]any(c))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to encode context", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// secretKeys maps context keys to the secrets they are read from.
var secretKeys = []struct {
	key    string
	secret string
}{
	{KeyRegistrationSharedSecret, secrets.SynapseRegistrationSharedSecret},
	{KeyMacaroonSecret, secrets.SynapseMacaroonSecret},
	{KeyOIDCClientID, secrets.OIDCClientID},
	{KeyOIDCClientSecret, secrets.OIDCClientSecret},
	{KeyPostgresSynapsePassword, secrets.PostgresSynapsePassword},
}

// Build derives the rendering context from the configuration document.
// It does no I/O and uses no randomness.
func Build(doc *config.Document) (Context, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "configuration document is nil")
	}

	domain, err := doc.RequireDomain()
	if err != nil {
		return nil, err
	}
	authDomain, err := doc.RequireAuthDomain()
	if err != nil {
		return nil, err
	}
	hostIP, err := doc.RequireHostIP()
	if err != nil {
		return nil, err
	}
	if doc.Event.Name == "" {
		return nil, errors.New(errors.ErrCodeConfig, "event.name is required")
	}

	autoJoin, err := AutoJoinRooms(doc.Rooms, domain)
	if err != nil {
		return nil, err
	}

	ctx := Context{
		KeyDomain:           domain,
		KeyAuthDomain:       authDomain,
		KeyHostIP:           hostIP,
		KeyEventName:        doc.Event.Name,
		KeyEventTagline:     doc.Event.Tagline,
		KeyMaxUploadSizeMB:  MaxUploadSizeMB(doc),
		KeySigningKeyPath:   layout.HomeserverSigningKeyPath(domain),
		KeyAutoJoinRooms:    autoJoin,
		KeyAdminUsername:    AdminUsername(doc.Admins),
		KeyRooms:            rooms(doc),
		KeyPrimaryColor:     PrimaryColor(doc),
		KeyFluffychatDomain: doc.Network.FluffychatDomain,
	}

	for _, s := range secretKeys {
		v, err := doc.RequireSecret(s.secret)
		if err != nil {
			return nil, err
		}
		ctx[s.key] = v
	}

	return ctx, nil
}

// AutoJoinRooms returns "#<id>:<domain>" for every room flagged auto_join,
// in declaration order.
func AutoJoinRooms(rooms []config.Room, domain string) ([]string, error) {
	aliases := make([]string, 0, len(rooms))
	for i, r := range rooms {
		if !r.AutoJoin {
			continue
		}
		if r.ID == "" {
			return nil, errors.NewWithContext(errors.ErrCodeConfig,
				fmt.Sprintf("rooms[%d].id is required for auto_join rooms", i),
				map[string]any{"index": i})
		}
		aliases = append(aliases, fmt.Sprintf("#%s:%s", r.ID, domain))
	}
	return aliases, nil
}

// AdminUsername returns the first admin's username, or the fallback account
// name when no admin is declared.
func AdminUsername(admins []config.Admin) string {
	if len(admins) == 0 || admins[0].Username == "" {
		return defaults.AdminUsername
	}
	return admins[0].Username
}

// MaxUploadSizeMB returns synapse.max_upload_size_mb or its default. A
// declared value is passed through as written.
func MaxUploadSizeMB(doc *config.Document) any {
	if doc.Synapse.MaxUploadSizeMB == nil {
		return defaults.MaxUploadSizeMB
	}
	return doc.Synapse.MaxUploadSizeMB
}

// PrimaryColor returns landing.primary_color or its default.
func PrimaryColor(doc *config.Document) string {
	if doc.Landing.PrimaryColor == nil {
		return defaults.PrimaryColor
	}
	return *doc.Landing.PrimaryColor
}

// roomDefaults are filled into every room entry that omits the field or
// leaves it null, so templates can test them under missingkey=error.
var roomDefaults = map[string]any{
	"name":      "",
	"topic":     "",
	"auto_join": false,
}

// rooms returns the room entries as a template-friendly list. Every declared
// key is kept; modeled optional fields take their defaults.
func rooms(doc *config.Document) []any {
	raw := doc.RawRooms()
	out := make([]any, 0, len(raw))
	for _, r := range raw {
		for k, v := range roomDefaults {
			if cur, ok := r[k]; !ok || cur == nil {
				r[k] = v
			}
		}
		out = append(out, r)
	}
	return out
}
