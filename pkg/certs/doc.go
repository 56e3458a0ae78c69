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

// Package certs provisions the self-signed TLS certificate served by the
// reverse proxy.
//
// The certificate is keyed by the primary domain and covers the primary
// domain, the auth domain, and the optional fluffychat domain:
//
//	services/nginx/certs/<domain>.crt
//	services/nginx/certs/<domain>.key
//
// Two generators produce it. OpenSSLGenerator runs
//
//	openssl req -x509 -newkey rsa:2048 -nodes -days 365 \
//	    -subj /CN=<domain> -addext subjectAltName=DNS:<domain>,DNS:<auth>[,DNS:<fluffychat>]
//
// and NativeGenerator builds the same shape with crypto/x509 for hosts
// without openssl. Both stage output in temporary files and rename into place.
//
// # Known gap
//
// When both files exist generation is skipped, whatever their content.
// Inspect classifies a pair as absent, present-valid, or present-stale
// (expired, unparsable, mismatched key, or a SAN set that no longer equals
// the configured domains); a stale pair is logged but still reused.
package certs
