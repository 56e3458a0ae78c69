// Package wellknown writes the Matrix discovery documents served from
// /.well-known/matrix/ by the reverse proxy.
//
//	client: {"m.homeserver": {"base_url": "https://<domain>"}}
//	server: {"m.server": "<domain>:443"}
//
// Both are rewritten on every run.
package wellknown
