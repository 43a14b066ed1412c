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
	"fmt"
)

// Compile lexes, parses and lowers src into a SQL boolean fragment and its
// ordered parameter vector. offset is the index of the first "$n"
// placeholder the compiler is allowed to use, so that the fragment can be
// composed into a larger statement. The empty (or all-whitespace) query
// compiles to ("1 = 1", nil) regardless of offset. Compile is pure and
// reentrant: a fresh scanner and parser are built for every call.
func Compile(src string, offset int) (string, []interface{}, error) {

	expr, err := newParser(src).Parse()
	if err != nil {
		return "", nil, err
	}

	if expr == nil {
		return "1 = 1", nil, nil
	}

	sql, params, _, err := lower(expr, offset)
	if err != nil {
		return "", nil, err
	}

	return sql, params, nil
}

// jsonParam encodes v into the JSON text a lowered "$n::jsonb" placeholder
// binds, the same way the original compiler binds every leaf parameter as
// a JSON value instead of a native SQL scalar. v is always a string,
// int64, float64 or []interface{} of those produced by the parser, none
// of which json.Marshal can fail to encode.
func jsonParam(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// lower returns the SQL fragment for expr, its parameters, and the offset
// one past the last placeholder it consumed.
func lower(expr Expression, offset int) (string, []interface{}, int, error) {

	switch e := expr.(type) {

	case *FullTextSearch:
		text, err := jsonParam(e.Text)
		if err != nil {
			return "", nil, offset, err
		}
		sql := fmt.Sprintf("search @@ websearch_to_tsquery($%d::jsonb #>> '{}')", offset)
		return sql, []interface{}{text}, offset + 1, nil

	case *Comparison:
		return lowerComparison(e, offset)

	case *And:
		lsql, lparams, next, err := lower(e.Lhs, offset)
		if err != nil {
			return "", nil, offset, err
		}
		rsql, rparams, next, err := lower(e.Rhs, next)
		if err != nil {
			return "", nil, offset, err
		}
		sql := fmt.Sprintf("(%s AND %s)", lsql, rsql)
		return sql, append(lparams, rparams...), next, nil

	case *Or:
		lsql, lparams, next, err := lower(e.Lhs, offset)
		if err != nil {
			return "", nil, offset, err
		}
		rsql, rparams, next, err := lower(e.Rhs, next)
		if err != nil {
			return "", nil, offset, err
		}
		sql := fmt.Sprintf("(%s OR %s)", lsql, rsql)
		return sql, append(lparams, rparams...), next, nil

	case *Not:
		sql, params, next, err := lower(e.Child, offset)
		if err != nil {
			return "", nil, offset, err
		}
		return fmt.Sprintf("NOT (%s)", sql), params, next, nil
	}

	return "1 = 1", nil, offset, nil
}

// lowerComparison implements the per-operator lowering table. Neq, NotLike
// and NotIn are desugared to "NOT " prefixed onto their positive form, per
// invariant 4: the compiled SQL of "a not op b" equals "NOT " + compiled
// of "a op b" at the leaf level. Both the identifier and the value are
// bound as JSON text -- including the In/NotIn list, which becomes a
// single JSON array parameter rather than a native Go slice -- since
// every placeholder here is cast with "::jsonb".
func lowerComparison(c *Comparison, offset int) (string, []interface{}, int, error) {

	positive, negated := negated(c.Op)

	idOffset := offset
	valOffset := offset + 1
	next := offset + 2

	idParam, err := jsonParam(c.Identifier)
	if err != nil {
		return "", nil, offset, err
	}
	valParam, err := jsonParam(c.Value)
	if err != nil {
		return "", nil, offset, err
	}

	params := []interface{}{idParam, valParam}

	var sql string

	switch positive {
	case Eq:
		sql = fmt.Sprintf("doc -> ($%d::jsonb #>> '{}') @> $%d", idOffset, valOffset)
	case Lt, Le, Gt, Ge:
		symbol := comparisonSymbol(positive)
		sql = fmt.Sprintf("to_number_or_null(doc ->> ($%d::jsonb #>> '{}')) %s ($%d::jsonb #>> '{}')::numeric", idOffset, symbol, valOffset)
	case Like:
		sql = fmt.Sprintf("doc ->> ($%d::jsonb #>> '{}') LIKE $%d::jsonb #>> '{}'", idOffset, valOffset)
	case In:
		sql = fmt.Sprintf("doc ->> ($%d::jsonb #>> '{}') IN (select jsonb_array_elements($%d::jsonb) #>> '{}')", idOffset, valOffset)
	}

	if negated {
		sql = "NOT " + sql
	}

	return sql, params, next, nil
}

func comparisonSymbol(op Operator) string {
	switch op {
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	}
	return "="
}
