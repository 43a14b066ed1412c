// Copyright © 2016 Abcum Ltd
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

package cnf

import (
	"encoding/pem"
	"fmt"
	"os"

	"github.com/abcum/logstuff/errs"
)

// pemBlockType reports whether data holds at least one PEM block whose
// type matches want (e.g. "CERTIFICATE" or one of the private key
// headers OpenSSL emits).
func pemBlockType(data []byte, want ...string) bool {

	for len(data) > 0 {

		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}

		for _, w := range want {
			if block.Type == w {
				return true
			}
		}
	}

	return false
}

var privateKeyPemTypes = []string{"RSA PRIVATE KEY", "EC PRIVATE KEY", "PRIVATE KEY"}

// checkCertFile reads path and requires it to contain a PEM certificate.
func checkCertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !pemBlockType(data, "CERTIFICATE") {
		return fmt.Errorf("%s: no PEM certificate block found", path)
	}
	return nil
}

// checkKeyFile reads path and requires it to contain a PEM private key.
func checkKeyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !pemBlockType(data, privateKeyPemTypes...) {
		return fmt.Errorf("%s: no PEM private key block found", path)
	}
	return nil
}

// ValidateCertPaths sanity-checks every certificate and key file the
// config names before either process reaches the point of dialing
// Postgres or starting the HTTP listener, so a typo'd path fails fast as
// a Config error rather than surfacing later as an opaque Tls error.
// Grounded on the teacher's util/cert package, which scans a PEM blob for
// "RSA PRIVATE KEY"/"CERTIFICATE" blocks to split a combined cert file;
// the same block-type scan here validates rather than splits.
func (o *Options) ValidateCertPaths() error {

	if t := o.PostgresTLS; t != nil {
		if t.PrivateCert != "" {
			if err := checkCertFile(t.PrivateCert); err != nil {
				return &errs.ConfigError{Cause: err}
			}
		}
		if t.PrivateKey != "" {
			if err := checkKeyFile(t.PrivateKey); err != nil {
				return &errs.ConfigError{Cause: err}
			}
		}
		for _, ca := range t.CaCerts {
			if err := checkCertFile(ca); err != nil {
				return &errs.ConfigError{Cause: err}
			}
		}
	}

	h := o.HTTPSettings
	if h.UseTLS {
		if err := checkCertFile(h.TLSCert); err != nil {
			return &errs.ConfigError{Cause: err}
		}
		if err := checkKeyFile(h.TLSKey); err != nil {
			return &errs.ConfigError{Cause: err}
		}
	}
	if h.TLSClientAuth != nil && h.TLSClientAuth.TrustedCerts != "" {
		if err := checkCertFile(h.TLSClientAuth.TrustedCerts); err != nil {
			return &errs.ConfigError{Cause: err}
		}
	}

	return nil
}
