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

import "errors"

var (
	errMissingDbURL          = errors.New("db_url is required")
	errNoPartitions          = errors.New("partitions must list at least one entry")
	errFirstPartitionNotRoot = errors.New("the first partitions entry must have kind \"root\"")
	errUnknownPartitionKind  = errors.New("unknown partition kind")
	errUnknownInterval       = errors.New("unknown partition interval")
	errUnknownClientAuthMode = errors.New("unknown tls_client_auth mode, want \"required\" or \"optional\"")
	errDisableTrustNoCaCerts = errors.New("disable_system_trust requires at least one ca_certs entry")
)
