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

// Package ingest reads newline-delimited rsyslog events from an input
// stream, normalizes and inserts each one, and acknowledges it on an
// output stream.
package ingest

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/abcum/logstuff/errs"
	"github.com/abcum/logstuff/event"
	"github.com/abcum/logstuff/log"
	"github.com/abcum/logstuff/partition"
	"github.com/abcum/logstuff/storage"
)

// Config holds the tunables the pipeline needs from the loaded
// configuration.
type Config struct {
	Chain              partition.Chain
	StatementCacheSize int
	Owner              string
	UseVarsMsg         bool
	AutoRestart        bool
}

// Pipeline is the single-threaded cooperative ingest loop: one line in,
// one insert out, one "OK" acknowledgment back. It holds no concurrency
// and its statement cache takes no lock, since it is only ever driven by
// one goroutine.
type Pipeline struct {
	pool  *storage.Pool
	cache *storage.StatementCache
	chain partition.Chain
	owner string
	useVarsMsg bool
}

// New builds a Pipeline over pool using cfg.
func New(pool *storage.Pool, cfg Config) *Pipeline {
	return &Pipeline{
		pool:       pool,
		cache:      storage.NewStatementCache(cfg.StatementCacheSize),
		chain:      cfg.Chain,
		owner:      cfg.Owner,
		useVarsMsg: cfg.UseVarsMsg,
	}
}

// Run reads newline-delimited JSON events from in, inserting each one and
// writing "OK\n" to out on success. It writes one initial "OK\n" before
// reading any input, to signal readiness. Run returns nil when in reaches
// EOF (a clean stop). It stops with an error when an insert still fails
// after partition recovery (a Db error), when creating the missing
// partitions fails (a Partition error), or when reading in or writing to
// out fails (an Io error).
func (p *Pipeline) Run(in io.Reader, out io.Writer) error {

	if _, err := io.WriteString(out, "OK\n"); err != nil {
		return &errs.IoError{Cause: err}
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := p.handleLine(line, out); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return &errs.IoError{Cause: err}
	}

	return nil
}

func (p *Pipeline) handleLine(line string, out io.Writer) error {

	e, err := event.FromRaw([]byte(line))
	if err != nil {
		log.Errorf("could not parse event: %q: %s", line, err)
		return nil
	}

	if p.useVarsMsg {
		e.SwapMsgVars()
	}

	if err := p.insert(e); err != nil {
		return err
	}

	_, werr := io.WriteString(out, "OK\n")
	if werr != nil {
		return &errs.IoError{Cause: werr}
	}

	return nil
}

// insert runs the insert algorithm of spec §4.3: look up (or prepare) the
// cached statement for the root table, execute it, and on failure walk
// the partition chain to create any missing tables before retrying
// exactly once. A second failure is fatal.
func (p *Pipeline) insert(e *event.Event) error {

	search := e.SearchString()

	if err := p.insertOnce(e, search); err == nil {
		return nil
	}

	log.Info("event insertion failed, creating missing partitions")

	if err := p.createPartitions(e); err != nil {
		return &errs.PartitionError{Cause: err}
	}

	log.Debug("partitions created, retrying event insertion")

	if err := p.insertOnce(e, search); err != nil {
		return &errs.DbError{Cause: err}
	}

	return nil
}

func (p *Pipeline) insertOnce(e *event.Event, search string) error {

	table := p.chain.RootTableName(e)

	stmt, ok := p.cache.Get(table)
	if !ok {
		prepared, err := p.pool.DB().Prepare(
			"insert into " + table + " (tstamp, doc, search) values ($1, $2, to_tsvector($3))",
		)
		if err != nil {
			return err
		}
		p.cache.Put(table, prepared)
		stmt = prepared
	}

	docJSON, err := json.Marshal(e.Doc)
	if err != nil {
		return err
	}

	_, err = stmt.Exec(e.Timestamp, docJSON, search)

	return err
}

func (p *Pipeline) createPartitions(e *event.Event) error {

	db := p.pool.DB()

	for _, stmt := range p.chain.CreateStatements(e, p.owner) {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
