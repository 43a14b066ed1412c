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

// Package partition models the chain of partition strategies that decide
// which leaf table an event belongs to, and generates the DDL to create
// that table on demand.
package partition

import (
	"fmt"
	"strings"
	"time"

	"github.com/abcum/logstuff/event"
)

// Strategy is a node in the partition chain. The first strategy in a
// chain is always a Root and returns its own name from TableName; every
// non-root strategy derives its name from the event timestamp.
type Strategy interface {
	// TableName returns the name of the table this strategy selects for e.
	TableName(e *event.Event) string
	// PartitionBy is the column expression the parent table is
	// partitioned by. It is never called on the first (Root) strategy in
	// a chain.
	PartitionBy() string
	// Bounds is the "from (...) to (...)" clause bounding this
	// strategy's partition. It is never called on a Root.
	Bounds(e *event.Event) string
}

// SchemaProvider is implemented by Root, the only strategy that carries
// the table's DDL schema fragment.
type SchemaProvider interface {
	Schema() string
}

// Root is the top-level logs table: it is never a child of another table.
type Root struct {
	Table      string
	schemaDDL string
}

// DefaultRootSchema is the column list of a freshly configured root table.
const DefaultRootSchema = "(" +
	"id integer not null default nextval('logs_id'), " +
	"tstamp timestamp with time zone not null, " +
	"doc jsonb not null, " +
	"search tsvector" +
	")"

func NewRoot(table, schema string) *Root {
	if table == "" {
		table = "logs"
	}
	if schema == "" {
		schema = DefaultRootSchema
	}
	return &Root{Table: table, schemaDDL: schema}
}

func (r *Root) TableName(e *event.Event) string { return r.Table }
func (r *Root) PartitionBy() string             { panic("partition: PartitionBy called on Root") }
func (r *Root) Bounds(e *event.Event) string    { panic("partition: Bounds called on Root") }
func (r *Root) Schema() string                  { return r.schemaDDL }

// TimeRange partitions a parent table by calendar interval.
type TimeRange struct {
	NameTemplate string
	Interval     Truncate
}

func NewTimeRange(nameTemplate string, interval Truncate) *TimeRange {
	if nameTemplate == "" {
		nameTemplate = "logs_%Y_%m"
	}
	return &TimeRange{NameTemplate: nameTemplate, Interval: interval}
}

func (t *TimeRange) TableName(e *event.Event) string {
	return strftime(t.NameTemplate, e.Timestamp)
}

func (t *TimeRange) PartitionBy() string {
	return "range (tstamp)"
}

func (t *TimeRange) Bounds(e *event.Event) string {
	from := t.Interval.LowerBound(e.Timestamp)
	to := t.Interval.UpperBound(e.Timestamp)
	return fmt.Sprintf("from ('%s') to ('%s')", from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// strftime supports the small set of percent-directives the config's
// name_template strings use ("%Y", "%m", "%d", "%H", "%M", "%W").
func strftime(template string, t time.Time) string {
	r := strings.NewReplacer(
		"%Y", fmt.Sprintf("%04d", t.Year()),
		"%m", fmt.Sprintf("%02d", int(t.Month())),
		"%d", fmt.Sprintf("%02d", t.Day()),
		"%H", fmt.Sprintf("%02d", t.Hour()),
		"%M", fmt.Sprintf("%02d", t.Minute()),
		"%W", fmt.Sprintf("%02d", isoWeek(t)),
	)
	return r.Replace(template)
}

func isoWeek(t time.Time) int {
	_, w := t.ISOWeek()
	return w
}

// Chain is an ordered, leaf-last list of partition strategies.
type Chain []Strategy

// CreateStatements returns the DDL statements needed to create every
// table in the chain for the given event, in chain order (root first),
// each create followed by that table's ownership alter when owner is set.
//
//   - i = 0:          create table if not exists <name> <root.schema> partition by <chain[1].PartitionBy()>
//   - 0 < i < last:   create table if not exists <name> partition of <chain[i-1].name> for values <chain[i].Bounds> partition by <chain[i+1].PartitionBy()>
//   - i = last:       same as above, without the trailing "partition by"
func (c Chain) CreateStatements(e *event.Event, owner string) []string {

	var stmts []string

	for i, strat := range c {

		var parentClause string
		if i == 0 {
			root, ok := strat.(SchemaProvider)
			if !ok {
				panic("partition: first strategy in chain must provide a schema")
			}
			parentClause = root.Schema()
		} else {
			parentClause = fmt.Sprintf("partition of %s for values %s", c[i-1].TableName(e), strat.Bounds(e))
		}

		var childClause string
		if i != len(c)-1 {
			childClause = "partition by " + c[i+1].PartitionBy()
		}

		stmt := fmt.Sprintf("create table if not exists %s %s", strat.TableName(e), parentClause)
		if childClause != "" {
			stmt += " " + childClause
		}
		stmts = append(stmts, stmt)

		if owner != "" {
			stmts = append(stmts, fmt.Sprintf("alter table %s owner to %s", strat.TableName(e), owner))
		}
	}

	return stmts
}

// RootTableName returns the name of the first (root) strategy in the
// chain for e — the table the prepared-statement cache keys inserts by.
func (c Chain) RootTableName(e *event.Event) string {
	if len(c) == 0 {
		return ""
	}
	return c[0].TableName(e)
}

// LeafTableName returns the name of the last (leaf) strategy in the chain
// for e — the partition a row for e ends up in. Inserts themselves are
// issued against the root table (see RootTableName).
func (c Chain) LeafTableName(e *event.Event) string {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1].TableName(e)
}
