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

package query

import "fmt"

// ParseError is returned when a query string is malformed. Offset is the
// 0-based character offset of the first unexpected token.
type ParseError struct {
	Offset   int
	Found    string
	Expected []string
}

func (e *ParseError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("malformed query at offset %d: unexpected %q", e.Offset, e.Found)
	}
	return fmt.Sprintf("malformed query at offset %d: found %q, expected one of %v", e.Offset, e.Found, e.Expected)
}
