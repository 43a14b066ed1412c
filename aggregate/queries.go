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

package aggregate

import (
	"fmt"
	"time"

	"github.com/abcum/logstuff/interval"
)

// eventsQuery returns the events sub-query of the /events envelope: the
// matching rows, newest first, wrapped so a single jsonb array comes back
// as one row.
func eventsQuery(table, expr string, startID, endID, limitID int) string {
	return fmt.Sprintf(`
		select jsonb_agg(doc) as doc from (
			select jsonb_build_object('timestamp', tstamp, 'id', id, 'source', doc) as doc
			from %s
			where %s
			and tstamp between $%d and $%d
			order by tstamp desc
			limit $%d
		) e
	`, table, expr, startID, endID, limitID)
}

// fieldsQuery returns the top-5-values-per-key histogram, exploding doc
// via jsonb_each and jsonb_array_elements so array-valued fields
// contribute each element rather than the whole array.
func fieldsQuery(table, expr string, startID, endID int) string {
	return fmt.Sprintf(`
		select jsonb_object_agg(key, values) as doc from (
			select key::varchar, jsonb_object_agg(coalesce(value::text, ''), count::integer) as values from (
				select row_number() over (
						partition by key
						order by count desc
					) as row_number, count, key, value
				from (
					select count(*), key, jsonb_array_elements(
						case
							when jsonb_typeof(value) = 'array' then value
							else jsonb_build_array(value)
						end) #>> '{}' as value
					from (
						select doc
						from %s
						where %s
						and tstamp between $%d and $%d
						order by tstamp desc
						limit 500
					) limited_logs, jsonb_each(doc)
					group by key, value
					order by key, count desc
				) counted
			) ranked
			where row_number <= 5
			group by key
		) f
	`, table, expr, startID, endID)
}

// countsQuery returns the default (unsplit) time-bucketed counts
// sub-query: a left join of the bucket series against per-bucket counts,
// so empty buckets come back as zero rather than missing.
func countsQuery(table, expr string, startID, endID int, iv interval.CountsInterval) string {
	return fmt.Sprintf(`
		select jsonb_object_agg(tstamp, count) as doc from (
			select date_trunc('%s', gen_time) as tstamp, sum(coalesce(subcount, 0)) as count
			from generate_series($%d, $%d, '%s'::interval) gen_time
			left join (select date_trunc('%s', tstamp) as log_time, count(*) as subcount
				from %s
				where %s
				and tstamp between $%d and $%d
				group by log_time
			) l
			on log_time between gen_time - '%s'::interval and gen_time
			group by tstamp
			order by tstamp
		) c
	`, iv.Truncate, startID, endID, iv.Interval, iv.Truncate, table, expr, startID, endID, iv.Interval)
}

// splitCountsQuery is the two-level form used when split_by is present: an
// inner series keyed by the split identifier (capped at max_buckets by
// total count), left-joined against the bucket series the same way
// countsQuery is. getter and splitSubquery are produced by the caller
// (split_by present or absent changes both), and outerValueGetter /
// innerValueGetter encode the optional value/aggregate override.
func splitCountsQuery(table, expr, getter, splitSubquery string, startID, endID, maxBucketsID int, iv interval.CountsInterval, outerValueGetter, innerValueGetter string) string {
	return fmt.Sprintf(`
		select jsonb_object_agg(tstamp, points) as doc from (
			select tstamp, jsonb_object_agg(id, value) as points from (
				select date_trunc('%s', gen_time) as tstamp, series.id as id, %s
				from (select gen_time, id from
						generate_series($%d, $%d, '%s'::interval) gen_time,
						(%s) split
					) series
				left join (select date_trunc('%s', tstamp) as log_time, %s, %s
						from %s
						where %s
						and tstamp between $%d and $%d
						group by log_time, 2
					) l
				on log_time between gen_time - '%s'::interval and gen_time
				and series.id = l.id
				group by tstamp, series.id
				order by tstamp, series.id
			) p
			group by tstamp
		) c
	`, iv.Truncate, outerValueGetter, startID, endID, iv.Interval, splitSubquery,
		iv.Truncate, getter, innerValueGetter, table, expr, startID, endID, iv.Interval)
}

// metadataQuery returns the event-count-estimate plus bucket-width
// metadata sub-query. count_estimate takes a literal SQL text argument
// (it runs EXPLAIN against it internally), so start and end are embedded
// as RFC 3339 literals rather than bound parameters -- the same shape the
// estimator function requires in the original implementation.
func metadataQuery(table string, start, end time.Time, iv interval.CountsInterval) string {
	return fmt.Sprintf(`
		select jsonb_object_agg(key, value) as doc from (
			select 'event_count' as key, count_estimate('select * from %s where tstamp between ''%s'' and ''%s''') as value
			union
			select 'counts_interval_sec' as key, %d as value
		) m
	`, table, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339), iv.Seconds)
}
