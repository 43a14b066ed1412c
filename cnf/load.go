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
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abcum/logstuff/errs"
)

// DefaultStatementCacheSize is used when statement_cache_size is absent
// or zero in the loaded file.
const DefaultStatementCacheSize = 64

// Load reads and parses the YAML configuration file at path.
func Load(path string) (*Options, error) {

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &errs.ConfigError{Cause: err}
	}

	var opts Options
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return nil, &errs.ConfigError{Cause: err}
	}

	if opts.DbURL == "" {
		return nil, &errs.ConfigError{Cause: errMissingDbURL}
	}

	if len(opts.Partitions) == 0 {
		return nil, &errs.ConfigError{Cause: errNoPartitions}
	}

	if opts.Partitions[0].Kind != "root" {
		return nil, &errs.ConfigError{Cause: errFirstPartitionNotRoot}
	}

	if opts.StatementCacheSize == 0 {
		opts.StatementCacheSize = DefaultStatementCacheSize
	}

	if opts.RootTableName == "" {
		opts.RootTableName = opts.Partitions[0].Table
	}

	if err := opts.ValidateCertPaths(); err != nil {
		return nil, err
	}

	return &opts, nil
}
