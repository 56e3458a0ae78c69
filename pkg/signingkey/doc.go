/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package signingkey provisions the home-server's federation signing key.
//
// The key file lives at services/synapse/<domain>.signing.key and holds one line:
//
//	ed25519 a_<4 hex chars> <unpadded base64 of a 32-byte seed>
//
// It is generated once and never replaced.
package signingkey
