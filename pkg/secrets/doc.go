/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package secrets makes sure every credential a deployment needs exists
// exactly once in the configuration document.
//
// A field with a value is never touched again: databases, the identity
// provider, and the home-server all keep working across re-runs because they
// keep receiving the same values. Empty fields are generated from crypto/rand
// with one of two policies:
//
//   - random-string: 64 characters from [A-Za-z0-9], for shared secrets and passwords
//   - random-hex-token: 16 random bytes as 32 hex characters, for client ids
//
// The document is saved once after all fields are processed, and only if
// something was generated.
package secrets
