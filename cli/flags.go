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

package cli

var flags = map[string]string{
	"config":     `Path to the YAML configuration file.`,
	"log-level":  `Logging level: trace, debug, info, warn, error, fatal or panic.`,
	"log-output": `Logging output: stdout, stderr or none.`,
	"log-format": `Logging format: text or json.`,
}
