// Package cli implements the passingcircle-setup command.
//
// The command takes no arguments; running it provisions the project in
// /project (or --project-dir) and exits 0 on success and 1 on any failure.
//
// Flags:
//
//	--project-dir     project root (PASSINGCIRCLE_PROJECT_DIR, default /project)
//	--config          configuration document (PASSINGCIRCLE_CONFIG)
//	--log-level       debug, info, warn or error (LOG_LEVEL)
//	--cert-generator  auto, openssl or native (PASSINGCIRCLE_CERT_GENERATOR)
//	--checksums       write .provision/checksums.txt (default true)
//	--metrics-file    Prometheus textfile output (PASSINGCIRCLE_METRICS_FILE)
//	--report          JSON or YAML run report (PASSINGCIRCLE_REPORT)
//
// Progress goes to stdout. Structured JSON logs go to stderr.
package cli
