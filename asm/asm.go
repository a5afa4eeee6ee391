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

// Package asm implements a two-pass assembler for the rational-word
// instruction set defined by package vm: a line-oriented grammar of
// label definitions, constant definitions, string literals and
// arithmetic expressions, each expression statement emitting one word
// of the program image.
package asm

import (
	"io"
	"strings"

	"github.com/elemel/quest/vm"
)

// Assemble reads source from r and returns the assembled program
// image: one vm.Q per emitted word, in source order, starting at
// address 0. name is used only to tag error positions. If assembly
// fails, the returned error is an ErrAsm listing the diagnostics
// gathered; scanning stops early once an internal cap is reached.
func Assemble(name string, r io.Reader) ([]vm.Q, error) {
	p := newParser(name, r)
	p.seedPrelude()
	p.parse()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return p.image, nil
}

// AssembleString is a convenience wrapper around Assemble for source
// already held in memory.
func AssembleString(name, src string) ([]vm.Q, error) {
	return Assemble(name, strings.NewReader(src))
}
