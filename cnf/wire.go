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
	"github.com/abcum/logstuff/errs"
	"github.com/abcum/logstuff/httpapi"
	"github.com/abcum/logstuff/ingest"
)

// IngestConfig builds the ingest.Config the logimport binary runs its
// Pipeline with.
func (o *Options) IngestConfig() (ingest.Config, error) {

	chain, err := o.BuildChain()
	if err != nil {
		return ingest.Config{}, err
	}

	return ingest.Config{
		Chain:              chain,
		StatementCacheSize: o.StatementCacheSize,
		// write_logs has no config key of its own (the root table's
		// owning role isn't one of spec §6's listed keys); the
		// teacher's own DDL always names an owning role for the
		// tables it creates, so partitions default to this one
		// rather than being left unowned.
		Owner:       "write_logs",
		UseVarsMsg:  o.UseVarsMsg,
		AutoRestart: o.AutoRestart,
	}, nil
}

// HTTPConfig builds the httpapi.Config the logstream binary's listener
// starts from.
func (o *Options) HTTPConfig() (httpapi.Config, error) {

	h := o.HTTPSettings

	cfg := httpapi.Config{
		ListenAddress: h.ListenAddress,
		UseTLS:        h.UseTLS,
		TLSCert:       h.TLSCert,
		TLSKey:        h.TLSKey,
		ClientAuth:    httpapi.ClientAuthOff,
	}

	if h.TLSClientAuth == nil {
		return cfg, nil
	}

	switch h.TLSClientAuth.Mode {
	case "", "off":
		return cfg, nil
	case "required":
		cfg.ClientAuth = httpapi.ClientAuthRequired
	case "optional":
		cfg.ClientAuth = httpapi.ClientAuthOptional
	default:
		return httpapi.Config{}, &errs.ConfigError{Cause: errUnknownClientAuthMode}
	}

	cfg.TrustedCerts = h.TLSClientAuth.TrustedCerts

	return cfg, nil
}
