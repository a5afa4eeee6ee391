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

package vm

// Register identifies one of the three machine registers, addressed
// by operand index with the ldr/str opcodes.
type Register int

// The three registers of the machine. PR is the program register
// (instruction pointer), DR the data-stack register and CR the
// call-stack register. Their numeric values are the operands used by
// ldr/str to select them, and are also exposed as assembler constants
// pr, dr and cr.
const (
	PR Register = iota
	DR
	CR
	numRegisters
)

func (r Register) String() string {
	switch r {
	case PR:
		return "PR"
	case DR:
		return "DR"
	case CR:
		return "CR"
	default:
		return "Register(?)"
	}
}
