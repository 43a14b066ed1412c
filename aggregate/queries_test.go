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
	"strings"
	"testing"
	"time"

	"github.com/abcum/logstuff/interval"
)

func TestEventsQueryPlaceholders(t *testing.T) {

	got := eventsQuery("logs", "1 = 1", 1, 2, 3)

	for _, want := range []string{"$1", "$2", "$3", "order by tstamp desc", "limit $3"} {
		if !strings.Contains(got, want) {
			t.Fatalf("events query missing %q:\n%s", want, got)
		}
	}
}

func TestFieldsQueryExplodesArrays(t *testing.T) {

	got := fieldsQuery("logs", "1 = 1", 1, 2)

	for _, want := range []string{"jsonb_each(doc)", "jsonb_array_elements", "where row_number <= 5"} {
		if !strings.Contains(got, want) {
			t.Fatalf("fields query missing %q:\n%s", want, got)
		}
	}
}

func TestCountsQueryLeftJoinsSeries(t *testing.T) {

	iv := interval.CountsInterval{Seconds: 60, Interval: "1 minute", Truncate: "minute"}
	got := countsQuery("logs", "1 = 1", 1, 2, iv)

	for _, want := range []string{"generate_series($1, $2, '1 minute'::interval)", "date_trunc('minute'", "coalesce(subcount, 0)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("counts query missing %q:\n%s", want, got)
		}
	}
}

func TestSplitCountsQueryEmbedsGetterAndSplitSubquery(t *testing.T) {

	iv := interval.CountsInterval{Seconds: 60, Interval: "1 minute", Truncate: "minute"}
	got := splitCountsQuery("logs", "1 = 1", "coalesce(doc ->> ($3::jsonb #>> '{}'), '(null)') as id",
		"select 1 limit $6", 4, 5, 6, iv, "sum(coalesce(subvalue, 0)) as value", "count(*) as subvalue")

	for _, want := range []string{"select 1 limit $6", "series.id = l.id", "group by tstamp, series.id"} {
		if !strings.Contains(got, want) {
			t.Fatalf("split counts query missing %q:\n%s", want, got)
		}
	}
}

func TestMetadataQueryEmbedsWindowAsLiteral(t *testing.T) {

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	iv := interval.CountsInterval{Seconds: 60, Interval: "1 minute", Truncate: "minute"}

	got := metadataQuery("logs", start, end, iv)

	for _, want := range []string{"count_estimate(", "2024-03-01T10:00:00Z", "2024-03-01T11:00:00Z", "counts_interval_sec"} {
		if !strings.Contains(got, want) {
			t.Fatalf("metadata query missing %q:\n%s", want, got)
		}
	}
}
