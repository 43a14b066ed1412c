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

// Package interval resolves a counts time span to a bucket width, SQL
// interval literal, and SQL truncation unit, chosen from a fixed ladder.
package interval

import "time"

// rung is one entry of the ladder: seconds is the bucket width, literal
// is the SQL "interval '...'" text, and truncate is the date_trunc unit.
type rung struct {
	seconds  int64
	literal  string
	truncate string
}

var ladder = []rung{
	{1, "1 seconds", "second"},
	{2, "2 seconds", "second"},
	{5, "5 seconds", "second"},
	{10, "10 seconds", "second"},
	{30, "30 seconds", "second"},
	{60, "1 minute", "minute"},
	{2 * 60, "2 minutes", "minute"},
	{5 * 60, "5 minutes", "minute"},
	{10 * 60, "10 minutes", "minute"},
	{30 * 60, "30 minutes", "minute"},
	{3600, "1 hour", "hour"},
	{2 * 3600, "2 hours", "hour"},
	{5 * 3600, "5 hours", "hour"},
	{10 * 3600, "10 hours", "hour"},
	{24 * 3600, "1 day", "day"},
	{2 * 24 * 3600, "2 days", "day"},
	{7 * 24 * 3600, "1 week", "week"},
	{2 * 7 * 24 * 3600, "2 week", "week"},
	{30 * 24 * 3600, "1 month", "month"},
	{2 * 30 * 24 * 3600, "2 months", "month"},
	{3 * 30 * 24 * 3600, "3 months", "month"},
	{4 * 30 * 24 * 3600, "4 months", "month"},
	{6 * 30 * 24 * 3600, "6 months", "month"},
	{365 * 24 * 3600, "1 year", "year"},
	{2 * 365 * 24 * 3600, "2 years", "year"},
	{5 * 365 * 24 * 3600, "5 years", "year"},
	{10 * 365 * 24 * 3600, "10 years", "year"},
	{20 * 365 * 24 * 3600, "20 years", "year"},
	{50 * 365 * 24 * 3600, "50 years", "year"},
}

const fallbackSeconds = 100 * 365 * 24 * 3600

// CountsInterval is the chosen bucket width for a time-series counts
// query: a width in seconds, the SQL interval literal of that width, and
// the date_trunc unit it corresponds to.
type CountsInterval struct {
	Seconds  int64
	Interval string
	Truncate string
}

// From picks the smallest ladder entry such that |d|/seconds < 100, or
// the 100-year fallback if none qualifies. It is pure, total, and
// idempotent under re-invocation.
func From(d time.Duration) CountsInterval {

	seconds := int64(d / time.Second)
	if seconds < 0 {
		seconds = -seconds
	}

	for _, r := range ladder {
		if seconds/r.seconds < 100 {
			return CountsInterval{Seconds: r.seconds, Interval: r.literal, Truncate: r.truncate}
		}
	}

	return CountsInterval{Seconds: fallbackSeconds, Interval: "100 years", Truncate: "year"}
}
