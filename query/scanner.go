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
	"strings"
)

// scanner is a hand-written lexical scanner over a query string. It is
// cheap to construct and holds no state beyond the input and a read
// position, so a fresh scanner (and parser) is created per compile call
// rather than shared behind a mutex.
type scanner struct {
	src []rune
	pos int // index of the next rune to read
}

func newScanner(src string) *scanner {
	return &scanner{src: []rune(src)}
}

var eof = rune(0)

func (s *scanner) next() rune {
	if s.pos >= len(s.src) {
		// Step one past the end (and no further), so an undo after
		// reading eof lands back at the end of the input rather than on
		// its last rune.
		s.pos = len(s.src) + 1
		return eof
	}
	ch := s.src[s.pos]
	s.pos++
	return ch
}

func (s *scanner) undo() {
	if s.pos > 0 {
		s.pos--
	}
}

func (s *scanner) peekOffset() int {
	return s.pos
}

// scan returns the next token, its literal text, its decoded value (for
// STRING/INT/FLOAT) and the 0-based character offset at which it starts.
func (s *scanner) scan() (tok Token, lit string, val interface{}, offset int) {

	ch := s.next()

	for isBlank(ch) {
		ch = s.next()
	}

	offset = s.pos - 1

	switch {
	case ch == eof:
		return EOF, "", nil, offset
	case isLetter(ch):
		return s.scanIdent(ch, offset)
	case isDigit(ch):
		return s.scanNumber(ch, offset)
	}

	switch ch {
	case '"':
		return s.scanString(offset)
	case '.':
		return DOT, ".", nil, offset
	case ',':
		return COMMA, ",", nil, offset
	case '(':
		return LPAREN, "(", nil, offset
	case ')':
		return RPAREN, ")", nil, offset
	case '=':
		return EQ, "=", nil, offset
	case '!':
		if s.next() == '=' {
			return NEQ, "!=", nil, offset
		}
		s.undo()
		return ILLEGAL, "!", nil, offset
	case '<':
		if s.next() == '=' {
			return LE, "<=", nil, offset
		}
		s.undo()
		return LT, "<", nil, offset
	case '>':
		if s.next() == '=' {
			return GE, ">=", nil, offset
		}
		s.undo()
		return GT, ">", nil, offset
	}

	return ILLEGAL, string(ch), nil, offset
}

func (s *scanner) scanIdent(first rune, offset int) (Token, string, interface{}, int) {

	var b strings.Builder
	b.WriteRune(first)

	for {
		ch := s.next()
		if isIdentChar(ch) || ch == '.' || ch == '-' {
			b.WriteRune(ch)
			continue
		}
		s.undo()
		break
	}

	lit := b.String()

	// Multi-word operator keywords ("not in", "not like") are recognised
	// by the parser, which looks ahead one token after NOT; the scanner
	// only ever emits single words.
	return Lookup(strings.ToLower(lit)), lit, nil, offset
}

// scanNumber enforces Int ::= "0" | [1-9][0-9]* and Float ::= Int "."
// [0-9]+: a leading zero may only stand alone in the integer part (no
// "01"), and a trailing dot must be followed by at least one digit (no
// "1."). Either violation is returned as ILLEGAL so the parser reports
// it as a malformed query rather than silently truncating or zero-filling.
func (s *scanner) scanNumber(first rune, offset int) (Token, string, interface{}, int) {

	var b strings.Builder
	b.WriteRune(first)

	isFloat := false
	intDigits := 1
	fracDigits := 0

	for {
		ch := s.next()
		if isDigit(ch) {
			b.WriteRune(ch)
			if isFloat {
				fracDigits++
			} else {
				intDigits++
			}
			continue
		}
		if ch == '.' && !isFloat {
			isFloat = true
			b.WriteRune(ch)
			continue
		}
		s.undo()
		break
	}

	lit := b.String()

	if first == '0' && intDigits > 1 {
		return ILLEGAL, lit, nil, offset
	}
	if isFloat && fracDigits == 0 {
		return ILLEGAL, lit, nil, offset
	}

	if isFloat {
		f, _ := parseFloat(lit)
		return FLOAT, lit, f, offset
	}

	i, _ := parseInt(lit)
	return INT, lit, i, offset
}

func (s *scanner) scanString(offset int) (Token, string, interface{}, int) {

	var b strings.Builder

	for {
		ch := s.next()
		if ch == eof {
			break
		}
		if ch == '"' {
			break
		}
		if ch == '\\' {
			esc := s.next()
			switch esc {
			case '"':
				b.WriteRune('"')
			case '\\':
				b.WriteRune('\\')
			case 't':
				b.WriteRune('\t')
			case 'n':
				b.WriteRune('\n')
			case 'r':
				b.WriteRune('\r')
			default:
				b.WriteRune(esc)
			}
			continue
		}
		b.WriteRune(ch)
	}

	str := b.String()

	return STRING, str, str, offset
}

func isBlank(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentChar(ch rune) bool {
	return isLetter(ch) || isDigit(ch)
}
