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
	"net/url"
	"strings"

	"github.com/abcum/logstuff/errs"
)

// DSN returns the connection string storage.Open dials, folding
// postgres_tls into the sslmode/sslcert/sslkey/sslrootcert query
// parameters lib/pq recognizes on the URL itself, rather than plumbing a
// second TLS config through the storage package.
func (o *Options) DSN() (string, error) {

	if o.PostgresTLS == nil {
		return o.DbURL, nil
	}

	tlsCfg := o.PostgresTLS

	if tlsCfg.DisableSystemTrust && len(tlsCfg.CaCerts) == 0 {
		return "", &errs.ConfigError{Cause: errDisableTrustNoCaCerts}
	}

	u, err := url.Parse(o.DbURL)
	if err != nil {
		return "", &errs.ConfigError{Cause: err}
	}

	q := u.Query()

	sslmode := "verify-full"
	if tlsCfg.AcceptInvalidHostname {
		sslmode = "verify-ca"
	}
	q.Set("sslmode", sslmode)

	if tlsCfg.PrivateCert != "" {
		q.Set("sslcert", tlsCfg.PrivateCert)
	}
	if tlsCfg.PrivateKey != "" {
		q.Set("sslkey", tlsCfg.PrivateKey)
	}
	if len(tlsCfg.CaCerts) > 0 {
		// lib/pq's sslrootcert takes a single file; additional bundle
		// entries are concatenated by the operator ahead of time, the
		// way the teacher's own cert tooling expects one PEM bundle per
		// trust root (see util/cert).
		q.Set("sslrootcert", strings.Join(tlsCfg.CaCerts, ","))
	}

	u.RawQuery = q.Encode()

	return u.String(), nil
}
