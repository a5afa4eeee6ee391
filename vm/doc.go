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

// Package vm implements a stack-based virtual machine whose sole datum
// is an arbitrary-precision signed rational number (Q). Every machine
// word, address, heap key and stream element is a Q; an instruction
// word decomposes as operand + opcode via DivMod1, where operand is
// the integer part and opcode is the fractional part in [0, 1).
//
// Registers:
//
//	PR	program register: address of the next instruction
//	DR	data register: address one past the top of the data stack
//	CR	call register: address one past the top of the call/frame stack
//
// Memory is a fractional-keyed heap (see Memory): address A splits as
// A = offset + base, where base = A mod 1 selects an array and offset
// = floor(A) indexes it. Base 0 is the static program image, loaded
// once by New and never recycled; every other base is handed out by
// Memory.New in the deterministic dense enumeration of [0, 1) and
// recycled in LIFO order by Memory.Delete.
//
// Instance.Run drives the fetch-decode-dispatch loop until the program
// executes hcf (StatusTerminated), a get stalls on an empty stream
// (StatusBlocked or StatusClosed, depending on whether the stream was
// closed), or a fatal condition (division by zero, an unknown opcode,
// an out-of-bounds heap access, ...) aborts the run with an error. A
// host resumes a blocked or closed process by mutating the relevant
// Streams handle and calling Run again; the interpreter always rewinds
// PR so the stalled instruction is re-executed in full.
package vm
