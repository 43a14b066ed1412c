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

package storage

import (
	"container/list"
	"database/sql"
)

// StatementCache is a size-bounded LRU from root-partition table name to
// its prepared insert statement. It is owned exclusively by the single
// ingest loop, so it is not safe for concurrent use and takes no lock.
//
// A general-purpose cache library is unwarranted here: the cache holds on
// the order of tens of entries (one per configured root table), far below
// the scale a library like ristretto is built for, and the teacher's own
// kvs/pgsql package holds its per-connection state in an equally small
// hand-rolled struct rather than reaching for one.
type StatementCache struct {
	size  int
	ll    *list.List
	items map[string]*list.Element
}

type statementEntry struct {
	table string
	stmt  *sql.Stmt
}

// NewStatementCache returns an empty cache holding at most size entries.
func NewStatementCache(size int) *StatementCache {
	if size <= 0 {
		size = 1
	}
	return &StatementCache{
		size:  size,
		ll:    list.New(),
		items: make(map[string]*list.Element),
	}
}

// Get returns the cached statement for table, if present, and marks it
// most-recently-used.
func (c *StatementCache) Get(table string) (*sql.Stmt, bool) {

	el, ok := c.items[table]
	if !ok {
		return nil, false
	}

	c.ll.MoveToFront(el)

	return el.Value.(*statementEntry).stmt, true
}

// Put admits stmt for table, evicting the least-recently-used entry (and
// closing its statement) if the cache is at capacity. Re-preparation on a
// miss is side-effect-free, so an eviction never loses state the caller
// needs to recover.
func (c *StatementCache) Put(table string, stmt *sql.Stmt) {

	if el, ok := c.items[table]; ok {
		el.Value.(*statementEntry).stmt.Close()
		el.Value = &statementEntry{table: table, stmt: stmt}
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&statementEntry{table: table, stmt: stmt})
	c.items[table] = el

	if c.ll.Len() > c.size {
		c.evictOldest()
	}
}

func (c *StatementCache) evictOldest() {

	oldest := c.ll.Back()
	if oldest == nil {
		return
	}

	c.ll.Remove(oldest)

	entry := oldest.Value.(*statementEntry)
	delete(c.items, entry.table)
	entry.stmt.Close()
}

// Len reports the number of statements currently cached.
func (c *StatementCache) Len() int {
	return c.ll.Len()
}
