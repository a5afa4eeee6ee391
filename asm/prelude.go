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

import "github.com/elemel/quest/vm"

// seedPrelude populates the parser's symbol table with the constants
// every program can rely on without defining them itself: every
// mnemonic's opcode fraction, the three register indices, and the
// three standard stream handles. The teacher's own assembler seeds its
// initial dictionary by re-parsing a literal block of source text; we
// seed ours directly from vm's own tables instead, since the mnemonic
// set and register/stream numbering already exist as Go values and
// re-deriving them from a parsed string would just be indirection.
func (p *parser) seedPrelude() {
	for _, name := range []string{
		"add", "adi", "bal", "beq", "bge", "bgt", "ble", "blt", "bne",
		"cal", "cls", "del", "den", "dis", "div", "dup", "ent", "fdi",
		"get", "hcf", "inv", "ldd", "ldi", "ldl", "ldr", "lds", "mli",
		"mod", "mul", "neg", "new", "num", "pop", "psh", "put", "ret",
		"siz", "stl", "str", "sub", "swp", "tel", "sts", "std", "dec", "inc",
	} {
		if v, ok := vm.Mnemonic(name); ok {
			p.sym[name] = v
		}
	}

	p.sym["pr"] = vm.QFromInt64(int64(vm.PR))
	p.sym["dr"] = vm.QFromInt64(int64(vm.DR))
	p.sym["cr"] = vm.QFromInt64(int64(vm.CR))

	p.sym["stdin"] = vm.QFromInt64(vm.Stdin)
	p.sym["stdout"] = vm.QFromInt64(vm.Stdout)
	p.sym["stderr"] = vm.QFromInt64(vm.Stderr)
}
