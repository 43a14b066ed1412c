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

// Package httpapi exposes the query side's two routes, /events and
// /counts, over plain or client-certificate-authenticated TLS.
package httpapi

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/abcum/logstuff/aggregate"
	"github.com/abcum/logstuff/errs"
	"github.com/abcum/logstuff/log"
)

// ClientAuthMode selects how the listener treats client certificates, per
// spec §4.7: off, optional (verified only if presented), or required.
type ClientAuthMode int

const (
	ClientAuthOff ClientAuthMode = iota
	ClientAuthOptional
	ClientAuthRequired
)

// Config holds the listener settings loaded from http_settings in the
// YAML configuration.
type Config struct {
	ListenAddress string
	UseTLS        bool
	TLSCert       string
	TLSKey        string
	ClientAuth    ClientAuthMode
	TrustedCerts  string
}

// Server is the query process's HTTP listener.
type Server struct {
	cfg   Config
	agg   *aggregate.Aggregator
	inner *http.Server
}

// New builds a Server that answers /events and /counts using agg.
func New(cfg Config, agg *aggregate.Aggregator) *Server {

	mux := http.NewServeMux()

	s := &Server{cfg: cfg, agg: agg}

	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/counts", s.handleCounts)
	mux.HandleFunc("/", notFound)

	s.inner = &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: recoverAndLog(mux),
	}

	return s
}

// ListenAndServe blocks, serving either plain HTTP, TLS with a server
// certificate only, or TLS with client-certificate authentication,
// depending on Config.
func (s *Server) ListenAndServe() error {

	if !s.cfg.UseTLS {
		log.Infof("listening on %s", s.cfg.ListenAddress)
		return s.inner.ListenAndServe()
	}

	tlsConfig, err := buildTLSConfig(s.cfg)
	if err != nil {
		return &errs.TlsError{Cause: err}
	}
	s.inner.TLSConfig = tlsConfig

	log.Infof("listening on %s (tls, client auth %s)", s.cfg.ListenAddress, clientAuthName(s.cfg.ClientAuth))

	if err := s.inner.ListenAndServeTLS(s.cfg.TLSCert, s.cfg.TLSKey); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return &errs.TlsError{Cause: err}
	}

	return nil
}

// Close shuts the listener down.
func (s *Server) Close() error {
	return s.inner.Close()
}

func buildTLSConfig(cfg Config) (*tls.Config, error) {

	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	switch cfg.ClientAuth {
	case ClientAuthOff:
		return tlsConfig, nil
	case ClientAuthOptional:
		tlsConfig.ClientAuth = tls.VerifyClientCertIfGiven
	case ClientAuthRequired:
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	default:
		return nil, fmt.Errorf("unknown client auth mode %d", cfg.ClientAuth)
	}

	pem, err := os.ReadFile(cfg.TrustedCerts)
	if err != nil {
		return nil, err
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("no certificates found in the trusted_certs bundle")
	}
	tlsConfig.ClientCAs = pool

	return tlsConfig, nil
}

func clientAuthName(m ClientAuthMode) string {
	switch m {
	case ClientAuthOptional:
		return "optional"
	case ClientAuthRequired:
		return "required"
	default:
		return "off"
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}
