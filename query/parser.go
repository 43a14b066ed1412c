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

import "strconv"

// parser is a recursive-descent parser over the boolean query language. It
// is constructed fresh per Compile call; it holds only a scanner and a
// single token of lookahead, so there is no shared mutable state to guard
// with a mutex across concurrent requests.
type parser struct {
	s   *scanner
	buf struct {
		n      int
		tok    Token
		lit    string
		val    interface{}
		offset int
	}
}

func newParser(src string) *parser {
	return &parser{s: newScanner(src)}
}

// Parse consumes the whole input and returns its expression tree, or nil
// for an empty (all-whitespace) query.
func (p *parser) Parse() (Expression, error) {

	if tok, _, _, _ := p.scan(); tok == EOF {
		return nil, nil
	}
	p.unscan()

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if tok, lit, _, offset := p.scan(); tok != EOF {
		return nil, &ParseError{Offset: offset, Found: lit, Expected: []string{"end of input"}}
	}

	return expr, nil
}

func (p *parser) parseExpression() (Expression, error) {

	lhs, err := p.parseOrTerm()
	if err != nil {
		return nil, err
	}

	for {
		if _, _, found := p.mightBe(OR); !found {
			break
		}
		rhs, err := p.parseOrTerm()
		if err != nil {
			return nil, err
		}
		lhs = &Or{Lhs: lhs, Rhs: rhs}
	}

	return lhs, nil
}

func (p *parser) parseOrTerm() (Expression, error) {

	lhs, err := p.parseAndTerm()
	if err != nil {
		return nil, err
	}

	for {
		if _, _, found := p.mightBe(AND); !found {
			break
		}
		rhs, err := p.parseAndTerm()
		if err != nil {
			return nil, err
		}
		lhs = &And{Lhs: lhs, Rhs: rhs}
	}

	return lhs, nil
}

func (p *parser) parseAndTerm() (Expression, error) {

	if _, _, found := p.mightBe(NOT); found {
		child, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return &Not{Child: child}, nil
	}

	return p.parseTerm()
}

func (p *parser) parseTerm() (Expression, error) {

	tok, lit, val, offset := p.scan()

	switch tok {
	case STRING:
		return &FullTextSearch{Text: val.(string)}, nil

	case LPAREN:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, _, err := p.shouldBe(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case IDENT:
		return p.parseCompare(lit)

	default:
		return nil, &ParseError{Offset: offset, Found: lit, Expected: []string{"identifier", "string", "("}}
	}
}

func (p *parser) parseCompare(identifier string) (Expression, error) {

	op, err := p.parseOp()
	if err != nil {
		return nil, err
	}

	val, err := p.parseValue(op)
	if err != nil {
		return nil, err
	}

	return &Comparison{Identifier: identifier, Op: op, Value: val}, nil
}

func (p *parser) parseOp() (Operator, error) {

	tok, lit, _, offset := p.scan()

	switch tok {
	case EQ:
		return Eq, nil
	case NEQ:
		return Neq, nil
	case LT:
		return Lt, nil
	case LE:
		return Le, nil
	case GT:
		return Gt, nil
	case GE:
		return Ge, nil
	case LIKE:
		return Like, nil
	case IN:
		return In, nil
	case NOT:
		if tok2, lit2, _, offset2 := p.scan(); tok2 == IN {
			return NotIn, nil
		} else if tok2 == LIKE {
			return NotLike, nil
		} else {
			return 0, &ParseError{Offset: offset2, Found: lit2, Expected: []string{"in", "like"}}
		}
	default:
		return 0, &ParseError{Offset: offset, Found: lit, Expected: []string{"=", "!=", "<", "<=", ">", ">=", "in", "not in", "like", "not like"}}
	}
}

func (p *parser) parseValue(op Operator) (interface{}, error) {

	if tok, _, _, _ := p.scan(); tok == LPAREN {
		return p.parseValueList()
	}
	p.unscan()

	return p.parseScalar()
}

func (p *parser) parseValueList() ([]interface{}, error) {

	var list []interface{}

	if tok, _, _, _ := p.scan(); tok == RPAREN {
		return list, nil
	}
	p.unscan()

	for {
		v, err := p.parseScalar()
		if err != nil {
			return nil, err
		}
		list = append(list, v)

		if _, _, found := p.mightBe(COMMA); !found {
			break
		}
	}

	if _, _, err := p.shouldBe(RPAREN); err != nil {
		return nil, err
	}

	return list, nil
}

func (p *parser) parseScalar() (interface{}, error) {

	tok, lit, val, offset := p.scan()

	switch tok {
	case STRING:
		return val, nil
	case INT:
		return val, nil
	case FLOAT:
		return val, nil
	default:
		return nil, &ParseError{Offset: offset, Found: lit, Expected: []string{"string", "integer", "float"}}
	}
}

func (p *parser) in(tok Token, set []Token) bool {
	for _, t := range set {
		if tok == t {
			return true
		}
	}
	return false
}

func (p *parser) mightBe(expected ...Token) (tok Token, lit string, found bool) {

	tok, lit, _, _ = p.scan()

	if found = p.in(tok, expected); !found {
		p.unscan()
	}

	return
}

func (p *parser) shouldBe(expected ...Token) (tok Token, lit string, err error) {

	var offset int
	tok, lit, _, offset = p.scan()

	if found := p.in(tok, expected); !found {
		p.unscan()
		names := make([]string, len(expected))
		for i, e := range expected {
			names[i] = e.String()
		}
		err = &ParseError{Offset: offset, Found: lit, Expected: names}
	}

	return
}

// scan returns the next non-buffered token, consulting the one-token
// lookahead buffer first.
func (p *parser) scan() (tok Token, lit string, val interface{}, offset int) {

	if p.buf.n != 0 {
		p.buf.n = 0
		return p.buf.tok, p.buf.lit, p.buf.val, p.buf.offset
	}

	tok, lit, val, offset = p.s.scan()

	p.buf.tok, p.buf.lit, p.buf.val, p.buf.offset = tok, lit, val, offset

	return
}

func (p *parser) unscan() {
	p.buf.n = 1
}

func parseInt(lit string) (int64, error) {
	return strconv.ParseInt(lit, 10, 64)
}

func parseFloat(lit string) (float64, error) {
	return strconv.ParseFloat(lit, 64)
}
