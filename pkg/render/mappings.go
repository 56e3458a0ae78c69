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

package render

// Service groups that own templates.
const (
	ServiceCore       = "core"
	ServiceSynapse    = "synapse"
	ServiceElement    = "element"
	ServiceFluffychat = "fluffychat"
	ServiceAuthentik  = "authentik"
)

// TemplateExt is the suffix of template sources.
const TemplateExt = ".tmpl"

// Mapping pairs a template source with the file it renders to.
// Both paths are relative to the project root.
type Mapping struct {
	Service     string
	Source      string
	Destination string
}

var defaultMappings = []Mapping{
	{ServiceCore, "services/nginx/templates/chat.conf.tmpl", "services/nginx/conf.d/chat.conf"},
	{ServiceCore, "services/nginx/templates/auth.conf.tmpl", "services/nginx/conf.d/auth.conf"},
	{ServiceCore, "landing/templates/index.html.tmpl", "landing/dist/index.html"},

	{ServiceSynapse, "services/synapse/templates/homeserver.yaml.tmpl", "services/synapse/homeserver.yaml"},
	{ServiceSynapse, "services/synapse/templates/log.config.tmpl", "services/synapse/log.config"},

	{ServiceElement, "services/element/templates/config.json.tmpl", "services/element/config.json"},

	{ServiceFluffychat, "services/nginx/templates/fluffychat.conf.tmpl", "services/nginx/conf.d/fluffychat.conf"},
	{ServiceFluffychat, "services/fluffychat/templates/config.json.tmpl", "services/fluffychat/config.json"},

	{ServiceAuthentik, "services/authentik/templates/00-brand.yaml.tmpl", "services/authentik/blueprints/00-brand.yaml"},
	{ServiceAuthentik, "services/authentik/templates/01-flow-auth.yaml.tmpl", "services/authentik/blueprints/01-flow-auth.yaml"},
	{ServiceAuthentik, "services/authentik/templates/02-flow-enrollment.yaml.tmpl", "services/authentik/blueprints/02-flow-enrollment.yaml"},
	{ServiceAuthentik, "services/authentik/templates/03-provider.yaml.tmpl", "services/authentik/blueprints/03-provider.yaml"},
	{ServiceAuthentik, "services/authentik/templates/04-link-flows.yaml.tmpl", "services/authentik/blueprints/04-link-flows.yaml"},
}

// DefaultMappings returns the full ordered template list: core templates
// first, then each optional service group.
func DefaultMappings() []Mapping {
	out := make([]Mapping, len(defaultMappings))
	copy(out, defaultMappings)
	return out
}
