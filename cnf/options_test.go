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
	"path/filepath"
	"strings"
	"testing"

	"github.com/abcum/logstuff/httpapi"
	"github.com/abcum/logstuff/partition"
)

const sampleYAMLTemplate = `
db_url: postgres://logs@localhost/logs
partitions:
  - kind: root
    table: logs
  - kind: timerange
    name_template: logs_%%Y
    interval: Year
  - kind: timerange
    name_template: logs_%%Y_%%m
    interval: Month
http_settings:
  listen_address: ":8080"
  use_tls: true
  tls_cert: %s
  tls_key: %s
  tls_client_auth:
    mode: required
    trusted_certs: %s
auto_restart: true
use_vars_msg: true
statement_cache_size: 32
`

func writeFakePEM(t *testing.T, dir, name, blockType string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: []byte("not a real key, just PEM-shaped")})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func loadSample(t *testing.T) *Options {
	t.Helper()
	dir := t.TempDir()

	cert := writeFakePEM(t, dir, "server.crt", "CERTIFICATE")
	key := writeFakePEM(t, dir, "server.key", "RSA PRIVATE KEY")
	ca := writeFakePEM(t, dir, "ca.pem", "CERTIFICATE")

	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(sampleYAMLTemplate, cert, key, ca)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return opts
}

func TestLoadParsesPartitionsAndHTTPSettings(t *testing.T) {

	opts := loadSample(t)

	if opts.DbURL != "postgres://logs@localhost/logs" {
		t.Fatalf("got db_url %q", opts.DbURL)
	}
	if len(opts.Partitions) != 3 {
		t.Fatalf("got %d partitions", len(opts.Partitions))
	}
	if opts.StatementCacheSize != 32 {
		t.Fatalf("got statement cache size %d", opts.StatementCacheSize)
	}
	if opts.RootTableName != "logs" {
		t.Fatalf("got root table name %q", opts.RootTableName)
	}
}

func TestLoadRejectsMissingDbURL(t *testing.T) {

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("partitions:\n  - kind: root\n"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a missing db_url")
	}
}

func TestBuildChainOrdersRootFirst(t *testing.T) {

	opts := loadSample(t)

	chain, err := opts.BuildChain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("got %d strategies", len(chain))
	}
	if _, ok := chain[0].(*partition.Root); !ok {
		t.Fatalf("got %T first, want *partition.Root", chain[0])
	}
}

func TestHTTPConfigTranslatesRequiredClientAuth(t *testing.T) {

	opts := loadSample(t)

	cfg, err := opts.HTTPConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ClientAuth != httpapi.ClientAuthRequired {
		t.Fatalf("got client auth %v, want required", cfg.ClientAuth)
	}
	if !strings.HasSuffix(cfg.TrustedCerts, "ca.pem") {
		t.Fatalf("got trusted certs %q", cfg.TrustedCerts)
	}
}

func TestDSNFoldsPostgresTLSIntoQueryParams(t *testing.T) {

	opts := &Options{
		DbURL: "postgres://logs@localhost/logs",
		PostgresTLS: &PostgresTLS{
			PrivateCert: "client.crt",
			PrivateKey:  "client.key",
			CaCerts:     []string{"ca.pem"},
		},
	}

	dsn, err := opts.DSN()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(dsn, "sslmode=verify-full") {
		t.Fatalf("got dsn %q", dsn)
	}
	if !strings.Contains(dsn, "sslcert=client.crt") {
		t.Fatalf("got dsn %q", dsn)
	}
}

func TestDSNRejectsDisableSystemTrustWithoutCaCerts(t *testing.T) {

	opts := &Options{
		DbURL:       "postgres://logs@localhost/logs",
		PostgresTLS: &PostgresTLS{DisableSystemTrust: true},
	}

	if _, err := opts.DSN(); err == nil {
		t.Fatal("expected an error")
	}
}
