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

package certs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
)

// NativeGenerator builds the certificate in-process with crypto/x509. It
// produces the same shape as the openssl invocation: an RSA key in PKCS#8,
// a self-signed CA:TRUE certificate with the SAN extension.
type NativeGenerator struct {
	now func() time.Time
}

// NewNativeGenerator returns an in-process generator.
func NewNativeGenerator() *NativeGenerator {
	return &NativeGenerator{now: time.Now}
}

// Generate implements Generator.
func (g *NativeGenerator) Generate(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keyPEM, certPEM, err := g.build(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "certificate generation failed", err)
	}

	stage, err := newStaging(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to stage certificate", err)
	}
	defer stage.cleanup()

	if err := os.WriteFile(stage.key, keyPEM, defaults.PrivateMode); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to write key", err)
	}
	if err := os.WriteFile(stage.cert, certPEM, defaults.FileMode); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to write certificate", err)
	}
	if err := stage.commit(req); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to write certificate", err)
	}
	return nil
}

func (g *NativeGenerator) build(req Request) ([]byte, []byte, error) {
	key, err := rsa.GenerateKey(rand.Reader, req.KeyBits)
	if err != nil {
		return nil, nil, fmt.Errorf("generate key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, fmt.Errorf("generate serial: %w", err)
	}

	now := g.now()
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: req.CommonName},
		NotBefore:             now,
		NotAfter:              now.AddDate(0, 0, req.Days),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              append([]string(nil), req.SANs...),
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, nil, fmt.Errorf("sign certificate: %w", err)
	}

	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("encode key: %w", err)
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8})
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	return keyPEM, certPEM, nil
}
