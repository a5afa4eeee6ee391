// This file is part of ngaro - https://github.com/db47h/ngaro
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
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

package asm

import (
	"io"
	"text/scanner"
	"unicode"
)

// isAllDigits reports whether s is a non-empty run of ASCII digits, the
// numeric-literal charset: non-negative decimal integers, per the
// grammar.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// tokKind classifies a lexed token beyond what text/scanner already
// tells us, collapsing punctuation runes into named operators so the
// parser never has to compare against rune literals scattered around.
type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokNumber
	tokChar
	tokString
	tokColon // "identifier:" label definition
	tokEquals
	tokComma
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokOther
)

type token struct {
	kind tokKind
	text string
	pos  scanner.Position
}

// isIdentRune accepts the grammar's identifier charset,
// [A-Za-z_.][A-Za-z0-9_.]*, plus digits so that numeric literals can
// be scanned through the same Ident path and split out afterwards
// (mirroring the teacher's own isIdentRune, which does the same thing
// for its Forth-word charset).
func isIdentRune(ch rune, _ int) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '.'
}

// lexer wraps text/scanner.Scanner, turning its raw token stream into
// the coarser token kinds the parser consumes. Comments run from ';'
// to end of line, handled here rather than left to the parser.
type lexer struct {
	s       scanner.Scanner
	errf    func(pos scanner.Position, msg string)
	peeked  *token
	lastPos scanner.Position
}

func newLexer(name string, r io.Reader, errf func(scanner.Position, string)) *lexer {
	l := &lexer{errf: errf}
	l.s.Init(r)
	l.s.Filename = name
	// ScanInts is deliberately omitted: IsIdentRune already accepts
	// digits, so a digit-led run is captured by the identifier path
	// below and split back out by isAllDigits. This mirrors the
	// teacher's own lexer, which scans its Forth words the same way.
	l.s.Mode = scanner.ScanIdents | scanner.ScanChars | scanner.ScanStrings
	l.s.IsIdentRune = isIdentRune
	l.s.Error = func(_ *scanner.Scanner, msg string) { l.errf(l.s.Position, msg) }
	return l
}

// skipComment consumes ';' to end of line.
func (l *lexer) skipComment() {
	for {
		ch := l.s.Next()
		if ch == '\n' || ch == scanner.EOF {
			return
		}
	}
}

// next returns the next token, classifying raw scanner runes into the
// operator kinds the parser expects.
func (l *lexer) next() token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t
	}
	for {
		tok := l.s.Scan()
		pos := l.s.Position
		if !pos.IsValid() {
			pos = l.s.Pos()
		}
		l.lastPos = pos
		switch tok {
		case scanner.EOF:
			return token{tokEOF, "", pos}
		case ';':
			l.skipComment()
			continue
		case scanner.Ident:
			s := l.s.TokenText()
			if isAllDigits(s) {
				return token{tokNumber, s, pos}
			}
			return token{tokIdent, s, pos}
		case scanner.Char:
			return token{tokChar, l.s.TokenText(), pos}
		case scanner.String:
			return token{tokString, l.s.TokenText(), pos}
		case ':':
			return token{tokColon, ":", pos}
		case '=':
			return token{tokEquals, "=", pos}
		case ',':
			return token{tokComma, ",", pos}
		case '+':
			return token{tokPlus, "+", pos}
		case '-':
			return token{tokMinus, "-", pos}
		case '*':
			return token{tokStar, "*", pos}
		case '/':
			return token{tokSlash, "/", pos}
		case '(':
			return token{tokLParen, "(", pos}
		case ')':
			return token{tokRParen, ")", pos}
		default:
			return token{tokOther, string(tok), pos}
		}
	}
}

// peek returns the next token without consuming it.
func (l *lexer) peek() token {
	if l.peeked == nil {
		t := l.next()
		l.peeked = &t
	}
	return *l.peeked
}
