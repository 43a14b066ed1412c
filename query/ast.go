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

// Operator identifies the comparison used by a Comparison leaf.
type Operator int

const (
	Eq Operator = iota
	Neq
	Lt
	Le
	Gt
	Ge
	Like
	NotLike
	In
	NotIn
)

// Expression is a node of the compiled query's expression tree. An empty
// query (no text) has a nil Expression and lowers to "1 = 1".
type Expression interface {
	expr()
}

// Comparison compares a dotted identifier against a scalar or list value.
type Comparison struct {
	Identifier string
	Op         Operator
	Value      interface{} // scalar (string/int64/float64) or []interface{}
}

// FullTextSearch matches the document's search column against free text.
type FullTextSearch struct {
	Text string
}

// And is the conjunction of two sub-expressions.
type And struct {
	Lhs, Rhs Expression
}

// Or is the disjunction of two sub-expressions.
type Or struct {
	Lhs, Rhs Expression
}

// Not negates a sub-expression.
type Not struct {
	Child Expression
}

func (*Comparison) expr()     {}
func (*FullTextSearch) expr() {}
func (*And) expr()            {}
func (*Or) expr()             {}
func (*Not) expr()            {}

// negated reports whether op is one of the desugared negative forms, and
// returns the positive operator it negates.
func negated(op Operator) (positive Operator, isNeg bool) {
	switch op {
	case Neq:
		return Eq, true
	case NotLike:
		return Like, true
	case NotIn:
		return In, true
	default:
		return op, false
	}
}
