// Package checksum writes and reads SHA256 manifests of generated files.
//
// The manifest uses the sha256sum format, one "<hash>  <relative-path>" line
// per file, so operators can check it with:
//
//	cd /project && sha256sum -c .provision/checksums.txt
//
// The manifest is informational. Rendering always overwrites its outputs;
// Changed reports which of them differ from a previous manifest.
package checksum
