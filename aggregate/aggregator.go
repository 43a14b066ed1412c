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

// Package aggregate fans a compiled query expression out across the
// events, fields, counts and metadata sub-queries, and stitches their
// results into the single JSON envelope the HTTP surface streams back.
package aggregate

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abcum/logstuff/interval"
	"github.com/abcum/logstuff/query"
	"github.com/abcum/logstuff/storage"
)

// DefaultLimitEvents is used when a request does not specify limit_events.
const DefaultLimitEvents = 100

// EventsRequest carries the decoded query parameters of GET /events.
type EventsRequest struct {
	Start       time.Time
	End         time.Time
	Query       string
	LimitEvents int64
}

// CountsRequest carries the decoded query parameters of GET /counts.
type CountsRequest struct {
	Start              time.Time
	End                time.Time
	Query              string
	SplitBy            string
	MaxBuckets         int64
	Value              string
	Aggregate          string
	MissingValueIsZero bool
}

// Aggregator issues the sub-queries of §4.6 against one partitioned root
// table and assembles their results into a streamed JSON body.
type Aggregator struct {
	pool  *storage.Pool
	table string
}

// New builds an Aggregator that queries table through pool.
func New(pool *storage.Pool, table string) *Aggregator {
	return &Aggregator{pool: pool, table: table}
}

// fetchDoc runs sqlText, which must select exactly one column named doc
// from exactly one row (every sub-query is wrapped in a jsonb_agg /
// jsonb_object_agg aggregate for this reason), and returns its JSON text,
// or the literal "null" if the aggregate collapsed to SQL NULL.
func (a *Aggregator) fetchDoc(ctx context.Context, sqlText string, args ...interface{}) (string, error) {

	var doc sql.NullString

	if err := a.pool.DB().QueryRowContext(ctx, sqlText, args...).Scan(&doc); err != nil {
		return "", err
	}

	if !doc.Valid {
		return "null", nil
	}

	return doc.String, nil
}

// Events runs the four sub-queries of the /events envelope concurrently
// and writes the composite object to w once all four have returned. The
// ordering guarantee of spec §5 (events before fields before counts
// before metadata) is satisfied by writing in that fixed order after the
// concurrent fetch completes, rather than by interleaving partial rows.
func (a *Aggregator) Events(ctx context.Context, w io.Writer, req EventsRequest) error {

	expr, params, err := query.Compile(req.Query, 1)
	if err != nil {
		return err
	}

	limitEvents := req.LimitEvents
	if limitEvents == 0 {
		limitEvents = DefaultLimitEvents
	}

	n := len(params)
	startID, endID, limitID := n+1, n+2, n+3

	withWindow := append(append([]interface{}{}, params...), req.Start, req.End)
	withWindowAndLimit := append(append([]interface{}{}, withWindow...), limitEvents)

	var eventsDoc, fieldsDoc, countsDoc, metadataDoc string

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		doc, err := a.fetchDoc(gctx, eventsQuery(a.table, expr, startID, endID, limitID), withWindowAndLimit...)
		if err != nil {
			return fmt.Errorf("fetch events: %w", err)
		}
		eventsDoc = doc
		return nil
	})

	g.Go(func() error {
		doc, err := a.fetchDoc(gctx, fieldsQuery(a.table, expr, startID, endID), withWindow...)
		if err != nil {
			return fmt.Errorf("fetch fields: %w", err)
		}
		fieldsDoc = doc
		return nil
	})

	g.Go(func() error {
		iv := interval.From(req.End.Sub(req.Start))
		doc, err := a.fetchDoc(gctx, countsQuery(a.table, expr, startID, endID, iv), withWindow...)
		if err != nil {
			return fmt.Errorf("fetch counts: %w", err)
		}
		countsDoc = doc
		return nil
	})

	g.Go(func() error {
		iv := interval.From(req.End.Sub(req.Start))
		doc, err := a.fetchDoc(gctx, metadataQuery(a.table, req.Start, req.End, iv))
		if err != nil {
			return fmt.Errorf("fetch metadata: %w", err)
		}
		metadataDoc = doc
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	for _, chunk := range []string{
		`{"events":`, eventsDoc,
		`, "fields":`, fieldsDoc,
		`, "counts":`, countsDoc,
		`, "metadata":`, metadataDoc,
		`}`,
	} {
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
	}

	return nil
}

// valueGetters builds the outer (applied once per bucket) and inner
// (applied per matching row) aggregate expressions for the /counts value
// override. When value is absent the default is an unconditional count.
// When missing_value_is_zero is set, the chosen resolution of the spec's
// Open Question is applied: the outer aggregate's result is coalesced to
// zero, rather than coalescing its input.
func (a *Aggregator) valueGetters(req CountsRequest, params *[]interface{}, offset *int) (outer, inner string, err error) {

	if req.Value == "" {
		return "sum(coalesce(subvalue, 0)) as value", "count(*) as subvalue", nil
	}

	if req.Aggregate == "" {
		return "", "", fmt.Errorf("value given without aggregate")
	}

	switch req.Aggregate {
	case "sum", "avg", "min", "max", "count":
	default:
		return "", "", fmt.Errorf("unknown aggregate %q", req.Aggregate)
	}

	accessor, val := query.IdentifierSQL(req.Value, *offset)
	*params = append(*params, val)
	*offset++

	if req.MissingValueIsZero {
		outer = fmt.Sprintf("coalesce(%s(subvalue), 0) as value", req.Aggregate)
	} else {
		outer = fmt.Sprintf("%s(subvalue) as value", req.Aggregate)
	}
	inner = fmt.Sprintf("%s(%s) as subvalue", req.Aggregate, accessor)

	return outer, inner, nil
}

// Counts runs the /counts sub-query (split by an identifier when SplitBy
// is set) and writes its envelope to w.
func (a *Aggregator) Counts(ctx context.Context, w io.Writer, req CountsRequest) error {

	expr, params, err := query.Compile(req.Query, 1)
	if err != nil {
		return err
	}

	offset := len(params) + 1

	var getter string
	if req.SplitBy != "" {
		accessor, val := query.IdentifierSQL(req.SplitBy, offset)
		params = append(params, val)
		offset++
		getter = fmt.Sprintf("coalesce(%s, '(null)') as id", accessor)
	} else {
		getter = "'value' as id"
	}

	outerGetter, innerGetter, err := a.valueGetters(req, &params, &offset)
	if err != nil {
		return err
	}

	startID, endID, maxBucketsID := offset, offset+1, offset+2

	var splitSubquery string
	if req.SplitBy != "" {
		splitSubquery = fmt.Sprintf(`
			select %s, %s
			from %s
			where %s
			and tstamp between $%d and $%d
			group by 1
			order by subvalue desc
			limit $%d
		`, getter, innerGetter, a.table, expr, startID, endID, maxBucketsID)
	} else {
		splitSubquery = fmt.Sprintf("select %s limit $%d", getter, maxBucketsID)
	}

	iv := interval.From(req.End.Sub(req.Start))

	sqlText := splitCountsQuery(a.table, expr, getter, splitSubquery, startID, endID, maxBucketsID, iv, outerGetter, innerGetter)

	maxBuckets := sql.NullInt64{Int64: req.MaxBuckets, Valid: req.MaxBuckets > 0}

	args := append(append([]interface{}{}, params...), req.Start, req.End, maxBuckets)

	countsDoc, err := a.fetchDoc(ctx, sqlText, args...)
	if err != nil {
		return fmt.Errorf("fetch counts: %w", err)
	}

	for _, chunk := range []string{
		fmt.Sprintf(`{"metadata":{"counts_interval_sec": %d},"counts":`, iv.Seconds),
		countsDoc,
		"}",
	} {
		if _, werr := io.WriteString(w, chunk); werr != nil {
			return werr
		}
	}

	return nil
}
