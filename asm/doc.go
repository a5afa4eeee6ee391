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

// Package asm assembles source text into a vm.Q program image.
//
// Grammar
//
// A program is a sequence of statements separated by whitespace or
// commas; ';' starts a comment that runs to end of line. A binary
// operator after a complete expression continues that expression, even
// across a line break, so a statement that starts with a unary + or -
// must be separated from the one before it by a comma.
//
//	identifier ':'          label definition; binds identifier to the
//	                        address of the next emitted word
//	identifier '=' expr     constant definition; binds identifier to
//	                        expr's value, which is not emitted
//	"..."                   string literal; emits one word per rune,
//	                        with no implicit terminator
//	expr                    emits one word: expr's value
//
// expr is a standard arithmetic expression over +, -, * and / (each
// also valid as a unary operator; unary / is reciprocal), parentheses,
// decimal integer literals, character literals ('a'), and identifiers
// referring to labels or constants. Evaluation is exact, over the
// signed rationals (vm.Q).
//
// A leading-dot identifier (.loop) is local: it is implicitly prefixed
// with the name of the nearest preceding non-local label, so the same
// local name can be reused after every top-level label without
// collision.
//
// Every mnemonic in the vm package's opcode table, the register names
// pr, dr and cr, and the stream handles stdin, stdout and stderr are
// predefined constants; an instruction word is ordinary arithmetic on
// top of them, e.g. "main + cls" assembles to the call-static opcode
// plus main's address as a single word, because opcode fractions and
// operand integers simply add.
//
// Forward references (a branch to a label defined later, a constant
// defined in terms of one defined later) are resolved in a second pass
// once the whole source has been scanned once: assembly fails only if
// some reference remains undefined, or a set of constants reference
// each other cyclically, after that pass reaches a fixed point.
package asm
