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

// Package errs carries the typed error kinds used across the system:
// Io, Db, Json, Tls, Partition and Config. query.ParseError covers the
// remaining kind, Parse, since it needs to carry a character offset the
// query package alone can compute.
package errs

import "fmt"

// IoError wraps a failure reading or writing the ingest stream.
type IoError struct {
	Cause error
}

func (e *IoError) Error() string  { return fmt.Sprintf("i/o error: %s", e.Cause) }
func (e *IoError) Unwrap() error { return e.Cause }

// DbError wraps a backend protocol or server error.
type DbError struct {
	Cause error
}

func (e *DbError) Error() string  { return fmt.Sprintf("database error: %s", e.Cause) }
func (e *DbError) Unwrap() error { return e.Cause }

// JsonError represents a malformed ingest line.
type JsonError struct {
	Line  string
	Cause error
}

func (e *JsonError) Error() string {
	return fmt.Sprintf("could not parse event %q: %s", e.Line, e.Cause)
}
func (e *JsonError) Unwrap() error { return e.Cause }

// TlsError wraps a handshake or certificate-material failure.
type TlsError struct {
	Cause error
}

func (e *TlsError) Error() string  { return fmt.Sprintf("tls error: %s", e.Cause) }
func (e *TlsError) Unwrap() error { return e.Cause }

// PartitionError signals that no partition strategy applies, or that the
// partition-creation DDL itself failed.
type PartitionError struct {
	Cause error
}

func (e *PartitionError) Error() string  { return fmt.Sprintf("could not create partitions: %s", e.Cause) }
func (e *PartitionError) Unwrap() error { return e.Cause }

// ConfigError wraps a bad configuration file.
type ConfigError struct {
	Cause error
}

func (e *ConfigError) Error() string  { return fmt.Sprintf("invalid configuration: %s", e.Cause) }
func (e *ConfigError) Unwrap() error { return e.Cause }
