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

package ingest

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"strings"
	"sync"
	"testing"

	"github.com/abcum/logstuff/partition"
	"github.com/abcum/logstuff/storage"
)

// A tiny always-succeeds fake driver so Pipeline.Run can be exercised
// without a real Postgres instance. Inserts and DDL both succeed.
type fakeDriver struct{}

func (fakeDriver) Open(name string) (driver.Conn, error) { return &fakeConn{}, nil }

type fakeConn struct{}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) { return &fakeStmt{}, nil }
func (c *fakeConn) Close() error                              { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)                  { return nil, driver.ErrSkip }

type fakeStmt struct{}

func (s *fakeStmt) Close() error                                   { return nil }
func (s *fakeStmt) NumInput() int                                  { return -1 }
func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) { return driver.ResultNoRows, nil }
func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error)  { return nil, driver.ErrSkip }

var registerOnce sync.Once

func newTestPool(t *testing.T) *storage.Pool {
	t.Helper()
	registerOnce.Do(func() { sql.Register("logstuff-ingest-fake", fakeDriver{}) })
	db, err := sql.Open("logstuff-ingest-fake", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return storage.NewPoolFromDB(db)
}

const validLine = `{` +
	`"msg":"ok","rawmsg":"r","timereported":"2024-03-01T10:00:00Z",` +
	`"timegenerated":"2024-03-01T10:00:01Z","hostname":"db1","syslogtag":"t",` +
	`"inputname":"imtcp","fromhost":"db1","fromhost-ip":"10.0.0.1","pri":"13",` +
	`"syslogseverity":"6","syslogfacility":"1","programname":"p",` +
	`"protocol-version":"1","structured-data":"-","app-name":"p"` +
	`}`

func TestPipelineRunAcknowledgesValidLines(t *testing.T) {

	pool := newTestPool(t)
	p := New(pool, Config{
		Chain:              partition.Chain{partition.NewRoot("logs", "")},
		StatementCacheSize: 4,
		Owner:              "write_logs",
	})

	in := strings.NewReader(validLine + "\n" + validLine + "\n")
	var out bytes.Buffer

	if err := p.Run(in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	if strings.Count(got, "OK\n") != 3 { // 1 startup + 2 inserts
		t.Fatalf("got output %q", got)
	}
}

func TestPipelineRunSkipsMalformedLines(t *testing.T) {

	pool := newTestPool(t)
	p := New(pool, Config{
		Chain:              partition.Chain{partition.NewRoot("logs", "")},
		StatementCacheSize: 4,
		Owner:              "write_logs",
	})

	in := strings.NewReader("not json\n" + validLine + "\n")
	var out bytes.Buffer

	if err := p.Run(in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	if strings.Count(got, "OK\n") != 2 { // 1 startup + 1 insert, malformed line skipped
		t.Fatalf("got output %q", got)
	}
}
