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

package cnf

import (
	"strings"

	"github.com/abcum/logstuff/errs"
	"github.com/abcum/logstuff/partition"
)

var intervalNames = map[string]partition.Truncate{
	"year":    partition.Year,
	"quarter": partition.Quarter,
	"month":   partition.Month,
	"week":    partition.Week,
	"day":     partition.Day,
	"hour":    partition.Hour,
	"minute":  partition.Minute,
}

// BuildChain turns the partitions list into a partition.Chain, in the
// order given: the first entry (already validated by Load to be "root")
// becomes the root table, every following entry a time-range child.
func (o *Options) BuildChain() (partition.Chain, error) {

	chain := make(partition.Chain, 0, len(o.Partitions))

	for i, p := range o.Partitions {

		switch p.Kind {

		case "root":
			if i != 0 {
				return nil, &errs.ConfigError{Cause: errFirstPartitionNotRoot}
			}
			chain = append(chain, partition.NewRoot(p.Table, p.Schema))

		case "timerange":
			interval, ok := intervalNames[strings.ToLower(p.Interval)]
			if !ok {
				return nil, &errs.ConfigError{Cause: errUnknownInterval}
			}
			chain = append(chain, partition.NewTimeRange(p.NameTemplate, interval))

		default:
			return nil, &errs.ConfigError{Cause: errUnknownPartitionKind}
		}
	}

	return chain, nil
}
