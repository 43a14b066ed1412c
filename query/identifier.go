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

// IdentifierSQL lowers a bare dotted identifier (a split-by or value field
// name, as opposed to a full boolean expression) to the same doc accessor
// a Comparison leaf would use, and the one parameter it binds. Callers
// compose the returned fragment directly into a larger statement, the way
// Compile's leaf lowering does. The parameter is bound as JSON text, like
// every other "::jsonb" placeholder Compile produces; json.Marshal of a
// plain string cannot fail, so the error is discarded.
func IdentifierSQL(identifier string, offset int) (string, interface{}) {
	param, _ := jsonParam(identifier)
	return fmt.Sprintf("doc ->> ($%d::jsonb #>> '{}')", offset), param
}
