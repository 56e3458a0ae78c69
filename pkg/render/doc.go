// Package render turns service templates into the configuration files the
// deployed services read.
//
// Templates use Go text/template syntax against the flat context from
// renderctx:
//
//	server_name: "{{ .domain }}"
//	auto_join_rooms: {{ json .auto_join_rooms }}
//	{{- if .fluffychat_domain }}
//	...
//	{{- end }}
//
// A template that names a key the context does not have fails the run
// instead of rendering an empty value. A template whose source file is
// absent is skipped; removing a service's templates is how that service is
// turned off. Output is written exactly as rendered, trailing newline
// included, and overwrites whatever was there.
//
// Helper functions: json, join, lower, upper, title.
package render
