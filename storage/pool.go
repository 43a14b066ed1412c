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

// Package storage wraps the pooled Postgres connection and the
// prepared-statement cache that the ingest pipeline and query aggregator
// sit on top of.
package storage

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// DefaultMaxOpenConns matches the connection-pool default of spec §5:
// callers block on acquire once this many connections are in use.
const DefaultMaxOpenConns = 3

// Pool is a pooled connection to the backing Postgres instance.
type Pool struct {
	db *sql.DB
}

// Open dials dsn (a postgres:// connection string) and returns a Pool
// bounded to DefaultMaxOpenConns open connections. Connection health is
// the pool's concern: sql.DB validates and recycles connections lazily.
func Open(dsn string) (*Pool, error) {

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)

	return &Pool{db: db}, nil
}

// NewPoolFromDB wraps an already-open *sql.DB as a Pool, for callers
// (tests, or a driver other than lib/pq) that construct the database
// handle themselves.
func NewPoolFromDB(db *sql.DB) *Pool {
	return &Pool{db: db}
}

// DB exposes the underlying *sql.DB for callers that need direct access
// (transactions, prepared statements).
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Close releases all pooled connections.
func (p *Pool) Close() error {
	return p.db.Close()
}
