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
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/elemel/quest/vm"
)

const maxErrors = 10

// ErrAsm collects the parse/resolution errors produced by Assemble, in
// the order they were raised. Pass one stops scanning once maxErrors
// entries have been collected; the resolution pass may add more.
type ErrAsm []struct {
	Pos scanner.Position
	Msg string
}

func (e ErrAsm) Error() string {
	l := make([]string, 0, len(e))
	for _, err := range e {
		l = append(l, fmt.Sprintf("%s: %s", err.Pos, err.Msg))
	}
	return strings.Join(l, "\n")
}

// unresolvedErr marks an expression that could not be evaluated only
// because one of its identifiers is not yet in the symbol table. It is
// the signal the two-pass errata loop watches for; any other error
// returned by eval is a hard failure reported immediately.
type unresolvedErr struct{ name string }

func (e *unresolvedErr) Error() string { return "undefined symbol " + e.name }

func isUnresolved(err error) (string, bool) {
	if u, ok := err.(*unresolvedErr); ok {
		return u.name, true
	}
	return "", false
}

// expr is a node of the arithmetic expression grammar (§4.G): literals,
// identifiers (labels or constants) and the four binary/unary
// operators, evaluated lazily against the symbol table so that forward
// references can be deferred as errata.
type expr interface {
	eval(sym map[string]vm.Q) (vm.Q, error)
}

type numLit vm.Q

func (n numLit) eval(map[string]vm.Q) (vm.Q, error) { return vm.Q(n), nil }

type identExpr struct {
	name string
}

func (e *identExpr) eval(sym map[string]vm.Q) (vm.Q, error) {
	if v, ok := sym[e.name]; ok {
		return v, nil
	}
	return vm.Q{}, &unresolvedErr{e.name}
}

type binExpr struct {
	op    byte // '+', '-', '*', '/'
	l, r  expr
}

func (e *binExpr) eval(sym map[string]vm.Q) (vm.Q, error) {
	l, err := e.l.eval(sym)
	if err != nil {
		return vm.Q{}, err
	}
	r, err := e.r.eval(sym)
	if err != nil {
		return vm.Q{}, err
	}
	switch e.op {
	case '+':
		return l.Add(r), nil
	case '-':
		return l.Sub(r), nil
	case '*':
		return l.Mul(r), nil
	case '/':
		return l.Quo(r)
	}
	panic("asm: unreachable binary operator " + string(e.op))
}

type unaryExpr struct {
	op byte // '+', '-', '*', '/'
	e  expr
}

func (e *unaryExpr) eval(sym map[string]vm.Q) (vm.Q, error) {
	v, err := e.e.eval(sym)
	if err != nil {
		return vm.Q{}, err
	}
	switch e.op {
	case '+', '*':
		// unary + and unary * are both identity.
		return v, nil
	case '-':
		return v.Neg(), nil
	case '/':
		return v.Inv()
	}
	panic("asm: unreachable unary operator " + string(e.op))
}

type erratum struct {
	expr expr
	pos  scanner.Position
}

// parser holds the state of a single Assemble call: the growing image,
// the resolved symbol table (labels and constants share one namespace,
// as in the grammar), and the two errata maps driving §4.G's two-pass
// resolution.
type parser struct {
	lex         *lexer
	errs        ErrAsm
	image       []vm.Q
	sym         map[string]vm.Q
	cellErrata  map[int]erratum
	constErrata map[string]erratum
	lastLabel   string
}

func newParser(name string, r io.Reader) *parser {
	p := &parser{
		sym:         make(map[string]vm.Q),
		cellErrata:  make(map[int]erratum),
		constErrata: make(map[string]erratum),
	}
	p.lex = newLexer(name, r, func(pos scanner.Position, msg string) { p.error(pos, msg) })
	return p
}

func (p *parser) error(pos scanner.Position, msg string) {
	p.errs = append(p.errs, struct {
		Pos scanner.Position
		Msg string
	}{pos, msg})
}

func (p *parser) abort() bool { return len(p.errs) >= maxErrors }

// localName prefixes a leading-dot local label/reference with the most
// recently seen non-local label, giving it a hygienic per-label scope.
// Any other identifier is returned unchanged.
func (p *parser) localName(name string) string {
	if strings.HasPrefix(name, ".") {
		return p.lastLabel + name
	}
	return name
}

func binPrec(k tokKind) (byte, int, bool) {
	switch k {
	case tokPlus:
		return '+', 1, true
	case tokMinus:
		return '-', 1, true
	case tokStar:
		return '*', 2, true
	case tokSlash:
		return '/', 2, true
	}
	return 0, 0, false
}

// parseBinFrom continues a precedence-climbing parse given an already
// parsed left-hand operand; used both by parsePrimary's recursive calls
// and by the statement loop, which must look ahead past a leading
// identifier before it knows whether an expression is even starting.
func (p *parser) parseBinFrom(left expr, minPrec int) expr {
	for {
		op, prec, ok := binPrec(p.lex.peek().kind)
		if !ok || prec < minPrec {
			return left
		}
		p.lex.next()
		right := p.parseBin(prec + 1)
		left = &binExpr{op, left, right}
	}
}

func (p *parser) parseBin(minPrec int) expr {
	return p.parseBinFrom(p.parseUnary(), minPrec)
}

func (p *parser) parseUnary() expr {
	tok := p.lex.peek()
	switch tok.kind {
	case tokPlus, tokMinus, tokStar, tokSlash:
		p.lex.next()
		return &unaryExpr{opByte(tok.kind), p.parseUnary()}
	default:
		return p.parsePrimary()
	}
}

func opByte(k tokKind) byte {
	switch k {
	case tokPlus:
		return '+'
	case tokMinus:
		return '-'
	case tokStar:
		return '*'
	case tokSlash:
		return '/'
	}
	return 0
}

func (p *parser) parsePrimary() expr {
	tok := p.lex.next()
	switch tok.kind {
	case tokNumber:
		n, ok := new(big.Int).SetString(tok.text, 10)
		if !ok {
			p.error(tok.pos, "invalid integer literal "+tok.text)
			return numLit(vm.Zero())
		}
		return numLit(vm.QFromBigInt(n))
	case tokChar:
		r, _, _, err := strconv.UnquoteChar(tok.text[1:len(tok.text)-1], '\'')
		if err != nil {
			p.error(tok.pos, err.Error())
			return numLit(vm.Zero())
		}
		return numLit(vm.QFromInt64(int64(r)))
	case tokIdent:
		return &identExpr{p.localName(tok.text)}
	case tokLParen:
		e := p.parseBin(0)
		if p.lex.peek().kind == tokRParen {
			p.lex.next()
		} else {
			p.error(p.lex.peek().pos, "expected ')'")
		}
		return e
	default:
		p.error(tok.pos, "expected expression, got "+tok.text)
		return numLit(vm.Zero())
	}
}

// emitCell reserves the next image cell for e. If e evaluates
// immediately against the current symbol table the cell is committed
// right away; otherwise it is recorded as a cell erratum for pass two.
func (p *parser) emitCell(e expr, pos scanner.Position) {
	off := len(p.image)
	p.image = append(p.image, vm.Zero())
	v, err := e.eval(p.sym)
	if err == nil {
		p.image[off] = v
		return
	}
	if _, ok := isUnresolved(err); ok {
		p.cellErrata[off] = erratum{e, pos}
		return
	}
	p.error(pos, err.Error())
}

func (p *parser) emitString(s string, pos scanner.Position) {
	for _, r := range s {
		p.image = append(p.image, vm.QFromInt64(int64(r)))
	}
	_ = pos
}

func (p *parser) defineLabel(rawName string, pos scanner.Position) {
	name := p.localName(rawName)
	if _, ok := p.sym[name]; ok {
		p.error(pos, "label redefinition: "+name)
		return
	}
	if _, ok := p.constErrata[name]; ok {
		p.error(pos, "label redefinition: "+name+" (previously used as a constant)")
		return
	}
	p.sym[name] = vm.QFromInt64(int64(len(p.image)))
	if !strings.HasPrefix(rawName, ".") {
		p.lastLabel = rawName
	}
}

func (p *parser) defineConst(rawName string, e expr, pos scanner.Position) {
	name := p.localName(rawName)
	if _, ok := p.sym[name]; ok {
		p.error(pos, "constant redefinition: "+name)
		return
	}
	if _, ok := p.constErrata[name]; ok {
		p.error(pos, "constant redefinition: "+name)
		return
	}
	v, err := e.eval(p.sym)
	if err == nil {
		p.sym[name] = v
		return
	}
	if _, ok := isUnresolved(err); ok {
		p.constErrata[name] = erratum{e, pos}
		return
	}
	p.error(pos, err.Error())
}

// parse runs pass one (scan the whole source, emitting cells and
// recording labels/constants/errata as they're encountered) followed
// by pass two, the errata fixed-point loop described in §4.G.
func (p *parser) parse() {
	for !p.abort() {
		tok := p.lex.peek()
		switch tok.kind {
		case tokEOF:
			p.resolveErrata()
			return
		case tokComma:
			p.lex.next()
		case tokString:
			p.lex.next()
			s, err := strconv.Unquote(tok.text)
			if err != nil {
				p.error(tok.pos, err.Error())
				break
			}
			p.emitString(s, tok.pos)
		case tokIdent:
			p.lex.next()
			nxt := p.lex.peek()
			switch nxt.kind {
			case tokColon:
				p.lex.next()
				p.defineLabel(tok.text, tok.pos)
			case tokEquals:
				p.lex.next()
				e := p.parseBin(0)
				p.defineConst(tok.text, e, tok.pos)
			default:
				left := &identExpr{p.localName(tok.text)}
				e := p.parseBinFrom(left, 0)
				p.emitCell(e, tok.pos)
			}
		default:
			pos := tok.pos
			e := p.parseBin(0)
			p.emitCell(e, pos)
		}
	}
}

// resolveErrata is the fixed-point loop of §4.G's pass two: every
// round, evaluate every remaining erratum; commit whichever succeed and
// restart; when a round makes no progress, name one offending key as
// undefined or cyclic, exactly as spec.md requires.
func (p *parser) resolveErrata() {
	for len(p.cellErrata) > 0 || len(p.constErrata) > 0 {
		progressed := false
		for name, e := range p.constErrata {
			v, err := e.expr.eval(p.sym)
			if err == nil {
				p.sym[name] = v
				delete(p.constErrata, name)
				progressed = true
			} else if _, ok := isUnresolved(err); !ok {
				p.error(e.pos, err.Error())
				delete(p.constErrata, name)
				progressed = true
			}
		}
		for off, e := range p.cellErrata {
			v, err := e.expr.eval(p.sym)
			if err == nil {
				p.image[off] = v
				delete(p.cellErrata, off)
				progressed = true
			} else if _, ok := isUnresolved(err); !ok {
				p.error(e.pos, err.Error())
				delete(p.cellErrata, off)
				progressed = true
			}
		}
		if progressed {
			continue
		}
		for name, e := range p.constErrata {
			p.error(e.pos, fmt.Sprintf("undefined symbol or cyclic reference: %s", name))
			break
		}
		if len(p.constErrata) == 0 {
			for off, e := range p.cellErrata {
				p.error(e.pos, fmt.Sprintf("undefined symbol or cyclic reference at cell %d", off))
				break
			}
		}
		return
	}
}
