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

package partition

import "time"

// Truncate is a calendar unit used to compute a time-range partition's
// bounds: the start of the unit containing a timestamp, and the start of
// the following one.
type Truncate int

const (
	Year Truncate = iota
	Quarter
	Month
	Week
	Day
	Hour
	Minute
)

func (u Truncate) String() string {
	switch u {
	case Year:
		return "year"
	case Quarter:
		return "quarter"
	case Month:
		return "month"
	case Week:
		return "week"
	case Day:
		return "day"
	case Hour:
		return "hour"
	case Minute:
		return "minute"
	default:
		return "unknown"
	}
}

// LowerBound returns the start of the unit containing t: Year→Jan 1
// 00:00, Quarter→first day of {Jan,Apr,Jul,Oct}, Month→first of month,
// Week→Monday of the ISO week, Day→midnight, Hour→top of hour,
// Minute→start of minute.
func (u Truncate) LowerBound(t time.Time) time.Time {

	t = t.UTC()

	switch u {
	case Year:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	case Quarter:
		month := quarterStartMonth(t.Month())
		return time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC)

	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)

	case Week:
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7 // ISO: Sunday is 7, not 0
		}
		daysSinceMonday := weekday - 1
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return d.AddDate(0, 0, -daysSinceMonday)

	case Hour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)

	case Minute:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)

	default: // Day
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// UpperBound returns the lower bound of the unit containing t + 1 unit,
// advancing in calendar arithmetic (Year adds a year, Quarter jumps
// three months, Month advances one month; Week/Day/Hour/Minute add a
// fixed duration). Quarter and Month advance from the day-1 lower bound
// rather than from t itself, so a month-end t (e.g. Jan 31) can't
// overflow AddDate into the month after next (Jan 31 + 1 month would
// otherwise normalize to Mar 2-3).
func (u Truncate) UpperBound(t time.Time) time.Time {

	t = t.UTC()

	var next time.Time

	switch u {
	case Year:
		next = t.AddDate(1, 0, 0)
	case Quarter:
		next = u.LowerBound(t).AddDate(0, 3, 0)
	case Month:
		next = u.LowerBound(t).AddDate(0, 1, 0)
	case Week:
		next = t.AddDate(0, 0, 7)
	case Day:
		next = t.AddDate(0, 0, 1)
	case Hour:
		next = t.Add(time.Hour)
	case Minute:
		next = t.Add(time.Minute)
	default:
		next = t.AddDate(0, 0, 1)
	}

	return u.LowerBound(next)
}

func quarterStartMonth(m time.Month) time.Month {
	switch {
	case m <= time.March:
		return time.January
	case m <= time.June:
		return time.April
	case m <= time.September:
		return time.July
	default:
		return time.October
	}
}
