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

// Package cnf loads the YAML configuration file both binaries start
// from, and turns it into the option structs the storage, partition,
// ingest and httpapi packages actually take.
package cnf

// Options is the root of the YAML configuration file.
type Options struct {
	DbURL              string            `yaml:"db_url"`
	Partitions         []PartitionConfig `yaml:"partitions"`
	PostgresTLS        *PostgresTLS      `yaml:"postgres_tls"`
	HTTPSettings       HTTPSettings      `yaml:"http_settings"`
	RootTableName      string            `yaml:"root_table_name"`
	AutoRestart        bool              `yaml:"auto_restart"`
	UseVarsMsg         bool              `yaml:"use_vars_msg"`
	StatementCacheSize int               `yaml:"statement_cache_size"`
}

// PartitionConfig is one entry of the partitions list. Kind selects
// which fields apply: "root" reads Table/Schema, "timerange" reads
// NameTemplate/Interval.
type PartitionConfig struct {
	Kind         string `yaml:"kind"`
	Table        string `yaml:"table"`
	Schema       string `yaml:"schema"`
	NameTemplate string `yaml:"name_template"`
	Interval     string `yaml:"interval"`
}

// PostgresTLS configures the client certificate and trust material used
// to dial the backing database over TLS.
type PostgresTLS struct {
	PrivateCert           string   `yaml:"private_cert"`
	PrivateKey            string   `yaml:"private_key"`
	CaCerts               []string `yaml:"ca_certs"`
	DisableSystemTrust    bool     `yaml:"disable_system_trust"`
	AcceptInvalidHostname bool     `yaml:"accept_invalid_hostnames"`
}

// HTTPSettings configures the query process's listener.
type HTTPSettings struct {
	ListenAddress string         `yaml:"listen_address"`
	UseTLS        bool           `yaml:"use_tls"`
	TLSCert       string         `yaml:"tls_cert"`
	TLSKey        string         `yaml:"tls_key"`
	TLSClientAuth *TLSClientAuth `yaml:"tls_client_auth"`
}

// TLSClientAuth is the tls_client_auth sub-key. A nil *TLSClientAuth (the
// key omitted) or one with an empty Mode (the bare scalar "off") means no
// client certificate is requested.
type TLSClientAuth struct {
	Mode         string `yaml:"mode"`
	TrustedCerts string `yaml:"trusted_certs"`
}

// UnmarshalYAML accepts either the bare scalar "off" or a mapping with
// mode/trusted_certs, matching spec §6's `{off | {mode: ..., trusted_certs: ...}}`.
func (t *TLSClientAuth) UnmarshalYAML(unmarshal func(interface{}) error) error {

	var scalar string
	if err := unmarshal(&scalar); err == nil {
		if scalar != "" && scalar != "off" {
			return &unknownClientAuthScalarError{value: scalar}
		}
		return nil
	}

	type plain struct {
		Mode         string `yaml:"mode"`
		TrustedCerts string `yaml:"trusted_certs"`
	}
	var p plain
	if err := unmarshal(&p); err != nil {
		return err
	}
	t.Mode = p.Mode
	t.TrustedCerts = p.TrustedCerts
	return nil
}

type unknownClientAuthScalarError struct{ value string }

func (e *unknownClientAuthScalarError) Error() string {
	return "tls_client_auth: unrecognized value " + e.value + ", want \"off\" or a mapping"
}
