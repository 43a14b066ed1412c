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

import (
	"encoding/json"
	"reflect"
	"regexp"
	"testing"
)

func TestCompileEmpty(t *testing.T) {

	sql, params, err := Compile("", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sql != "1 = 1" {
		t.Fatalf("got sql %q", sql)
	}
	if len(params) != 0 {
		t.Fatalf("got params %v", params)
	}
}

func TestCompileEq(t *testing.T) {

	sql, params, err := Compile(`id = "value"`, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantSQL := `doc -> ($1::jsonb #>> '{}') @> $2`
	if sql != wantSQL {
		t.Fatalf("got sql %q, want %q", sql, wantSQL)
	}

	wantParams := []interface{}{`"id"`, `"value"`}
	if !reflect.DeepEqual(params, wantParams) {
		t.Fatalf("got params %v, want %v", params, wantParams)
	}
}

func TestCompileIn(t *testing.T) {

	sql, params, err := Compile(`id in (1, 2, 3)`, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantSQL := `doc ->> ($1::jsonb #>> '{}') IN (select jsonb_array_elements($2::jsonb) #>> '{}')`
	if sql != wantSQL {
		t.Fatalf("got sql %q, want %q", sql, wantSQL)
	}

	listParam, ok := params[1].(string)
	if !ok {
		t.Fatalf("got params %v, want a JSON-encoded list in slot 1", params)
	}

	var list []interface{}
	if err := json.Unmarshal([]byte(listParam), &list); err != nil {
		t.Fatalf("params[1] is not valid JSON: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got list %v, want 3 elements", list)
	}
}

func TestCompilePrecedence(t *testing.T) {

	sql, params, err := Compile(`id = 1 or id = 2 and id2 = 1 or id2 = 2`, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ((E1 OR (E2 AND E3)) OR E4)
	if !regexp.MustCompile(`^\(\(.+ OR \(.+ AND .+\)\) OR .+\)$`).MatchString(sql) {
		t.Fatalf("unexpected associativity in %q", sql)
	}

	if len(params) != 8 {
		t.Fatalf("got %d params, want 8", len(params))
	}
}

func TestCompileFullTextSearch(t *testing.T) {

	sql, params, err := Compile(`"needle"`, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantSQL := `search @@ websearch_to_tsquery($1::jsonb #>> '{}')`
	if sql != wantSQL {
		t.Fatalf("got sql %q, want %q", sql, wantSQL)
	}

	wantParams := []interface{}{`"needle"`}
	if !reflect.DeepEqual(params, wantParams) {
		t.Fatalf("got params %v, want %v", params, wantParams)
	}
}

func TestCompileNegationIsDeterministic(t *testing.T) {

	positive, _, err := Compile(`id = 1`, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	negative, _, err := Compile(`id != 1`, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if negative != "NOT "+positive {
		t.Fatalf("got %q, want %q", negative, "NOT "+positive)
	}
}

func TestCompileNotInNotLike(t *testing.T) {

	sql, _, err := Compile(`id not in (1, 2)`, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sql[:4] != "NOT " {
		t.Fatalf("got %q", sql)
	}

	sql, _, err = Compile(`id not like "a%"`, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sql[:4] != "NOT " {
		t.Fatalf("got %q", sql)
	}
}

func TestCompileIsDeterministicAcrossCalls(t *testing.T) {

	src := `hostname = "db1" and not (msg like "%error%" or severity >= 5)`

	sql1, params1, err := Compile(src, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sql2, params2, err := Compile(src, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sql1 != sql2 {
		t.Fatalf("non-deterministic sql: %q vs %q", sql1, sql2)
	}
	if !reflect.DeepEqual(params1, params2) {
		t.Fatalf("non-deterministic params: %v vs %v", params1, params2)
	}
}

func TestCompileParamOffset(t *testing.T) {

	sql, params, err := Compile(`id = 1`, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantSQL := `doc -> ($5::jsonb #>> '{}') @> $6`
	if sql != wantSQL {
		t.Fatalf("got sql %q, want %q", sql, wantSQL)
	}
	if len(params) != 2 {
		t.Fatalf("got %d params", len(params))
	}
}

func TestCompileMalformed(t *testing.T) {

	_, _, err := Compile(`id =`, 1)
	if err == nil {
		t.Fatalf("expected error")
	}

	var perr *ParseError
	if pe, ok := err.(*ParseError); !ok {
		t.Fatalf("got error of type %T, want *ParseError", err)
	} else {
		perr = pe
	}

	if perr.Offset < 0 {
		t.Fatalf("got negative offset %d", perr.Offset)
	}
}

func TestCompileRejectsLeadingZeroInt(t *testing.T) {

	_, _, err := Compile(`id = 01`, 1)
	if err == nil {
		t.Fatalf("expected error for a leading-zero integer literal")
	}
}

func TestCompileRejectsTrailingDotFloat(t *testing.T) {

	_, _, err := Compile(`id = 1.`, 1)
	if err == nil {
		t.Fatalf("expected error for a trailing-dot float literal")
	}
}

func TestCompileDottedIdentifier(t *testing.T) {

	sql, params, err := Compile(`vars.msg = "hi"`, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sql != `doc -> ($1::jsonb #>> '{}') @> $2` {
		t.Fatalf("got sql %q", sql)
	}
	if params[0] != `"vars.msg"` {
		t.Fatalf("got identifier %v", params[0])
	}
}
