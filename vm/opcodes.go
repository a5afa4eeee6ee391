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

import "github.com/pkg/errors"

// OpFunc is the signature of an opcode handler. operand is the
// integer part of the decoded instruction word; i is the machine
// executing it. Handlers that need to suspend execution return
// ErrBlocked, ErrClosed or ErrTerminated; handlers that perform a
// control transfer set i.Registers[PR] themselves.
type OpFunc func(i *Instance, operand Q) error

type opcodeEntry struct {
	mnemonic string
	value    Q
	fn       OpFunc
}

// opTable is the canonical bijective mapping between mnemonics,
// opcode fractions (the fractional part of an instruction word) and
// handler functions. The great majority of these fractions are
// carried over unchanged from the reference assembler's own
// allocation table; the four marked below (sts, std, dec, inc) are
// this implementation's own additions, assigned fresh, previously
// unused denominators so the table remains bijective.
var opTable = []opcodeEntry{
	{"add", QFromFrac(5, 7), opAdd},
	{"adi", QFromFrac(3, 7), opAddInteger},
	{"bal", QFromFrac(7, 10), opBranchAlways},
	{"beq", QFromFrac(9, 10), opBranchEqual},
	{"bge", QFromFrac(2, 5), opBranchGreaterEqual},
	{"bgt", QFromFrac(5, 9), opBranchGreaterThan},
	{"ble", QFromFrac(1, 10), opBranchLessEqual},
	{"blt", QFromFrac(3, 11), opBranchLessThan},
	{"bne", QFromFrac(3, 10), opBranchNotEqual},
	{"cal", QFromFrac(5, 11), opCallDynamic},
	{"cls", QFromFrac(4, 11), opCallStatic},
	{"del", QFromFrac(4, 9), opDelete},
	{"den", QFromFrac(6, 11), opDenominator},
	{"dis", QFromFrac(2, 11), opDiscard},
	{"div", QFromFrac(1, 9), opDivide},
	{"dup", QFromFrac(1, 5), opDuplicate},
	{"ent", QFromFrac(1, 2), opEnter},
	{"fdi", QFromFrac(4, 7), opFloorDivideInteger},
	{"get", QFromFrac(10, 11), opGet},
	{"hcf", QFromFrac(7, 9), opHalt},
	{"inv", QFromFrac(5, 6), opInvert},
	{"ldd", QFromFrac(1, 7), opLoadDynamic},
	{"ldi", QFromFrac(0, 1), opLoadInteger},
	{"ldl", QFromFrac(1, 11), opLoadLocal},
	{"ldr", QFromFrac(7, 11), opLoadRegister},
	{"lds", QFromFrac(8, 11), opLoadStatic},
	{"mli", QFromFrac(1, 4), opMultiplyInteger},
	{"mod", QFromFrac(2, 9), opModulo},
	{"mul", QFromFrac(1, 8), opMultiply},
	{"neg", QFromFrac(3, 8), opNegate},
	{"new", QFromFrac(2, 3), opNew},
	{"num", QFromFrac(4, 5), opNumerator},
	{"pop", QFromFrac(2, 7), opPop},
	{"psh", QFromFrac(1, 3), opPush},
	{"put", QFromFrac(9, 11), opPut},
	{"ret", QFromFrac(8, 9), opReturn},
	{"siz", QFromFrac(3, 4), opSize},
	{"stl", QFromFrac(7, 8), opStoreLocal},
	{"str", QFromFrac(5, 8), opStoreRegister},
	{"sub", QFromFrac(1, 6), opSubtract},
	{"swp", QFromFrac(6, 7), opSwap},
	{"tel", QFromFrac(1, 12), opTell},
	// additions beyond the canonical table: store-dynamic and
	// store-static (the reference table only ever grew a load-side
	// split between static/dynamic/local/register; the store side
	// never got the same treatment), plus unary increment/decrement.
	{"sts", QFromFrac(5, 13), opStoreStatic},
	{"std", QFromFrac(6, 13), opStoreDynamic},
	{"dec", QFromFrac(7, 13), opDecrement},
	{"inc", QFromFrac(8, 13), opIncrement},
}

type opcodeTableT struct {
	byMnemonic map[string]Q
	byKey      map[string]opcodeEntry
}

func buildOpTable() *opcodeTableT {
	t := &opcodeTableT{
		byMnemonic: make(map[string]Q, len(opTable)),
		byKey:      make(map[string]opcodeEntry, len(opTable)),
	}
	for _, e := range opTable {
		t.byMnemonic[e.mnemonic] = e.value
		t.byKey[e.value.Key()] = e
	}
	return t
}

var opcodes = buildOpTable()

// Mnemonic returns the opcode fraction assigned to name, and whether
// it exists.
func Mnemonic(name string) (Q, bool) {
	v, ok := opcodes.byMnemonic[name]
	return v, ok
}

// lookup resolves a decoded opcode fraction to its entry.
func (t *opcodeTableT) lookup(opcode Q) (opcodeEntry, error) {
	e, ok := t.byKey[opcode.Key()]
	if !ok {
		return opcodeEntry{}, errors.Errorf("illegal opcode %s", opcode)
	}
	return e, nil
}

// Decode splits an instruction word into its operand and opcode, and
// resolves the opcode to its mnemonic and handler.
func Decode(word Q) (operand Q, mnemonic string, fn OpFunc, err error) {
	operand, opcode := word.DivMod1()
	e, err := opcodes.lookup(opcode)
	if err != nil {
		return operand, "", nil, err
	}
	return operand, e.mnemonic, e.fn, nil
}
