// Package serializer writes structured values as JSON or YAML.
//
// It backs the --report flag, which saves the run summary:
//
//	err := serializer.WriteFile(ctx, "/project/.provision/report.yaml", output)
//
// The file extension picks the format: .yaml or .yml for YAML, anything
// else for JSON.
package serializer
