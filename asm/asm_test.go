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

package asm_test

import (
	"strings"
	"testing"

	"github.com/elemel/quest/asm"
	"github.com/elemel/quest/vm"
)

func assemble(t *testing.T, src string) []vm.Q {
	t.Helper()
	image, err := asm.AssembleString(t.Name(), src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return image
}

func wantQ(t *testing.T, got vm.Q, want string) {
	t.Helper()
	w, err := vm.ParseQ(want)
	if err != nil {
		t.Fatalf("bad want literal %q: %v", want, err)
	}
	if got.Cmp(w) != 0 {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestIntegerLiteral(t *testing.T) {
	image := assemble(t, `42`)
	if len(image) != 1 {
		t.Fatalf("len(image) = %d, want 1", len(image))
	}
	wantQ(t, image[0], "42")
}

func TestArithmeticExpression(t *testing.T) {
	image := assemble(t, `2 + 3 * 4`)
	if len(image) != 1 {
		t.Fatalf("len(image) = %d, want 1", len(image))
	}
	// * binds tighter than +, so this is 2 + (3*4) = 14.
	wantQ(t, image[0], "14")
}

func TestMnemonicIsAnOperandZeroInstruction(t *testing.T) {
	image := assemble(t, `hcf`)
	hcf, ok := vm.Mnemonic("hcf")
	if !ok {
		t.Fatal("hcf not in opcode table")
	}
	wantQ(t, image[0], hcf.String())
}

func TestInstructionIsOperandPlusOpcode(t *testing.T) {
	image := assemble(t, `
	target:
		hcf
		42 + bal
	`)
	bal, _ := vm.Mnemonic("bal")
	wantQ(t, image[1], vm.QFromInt64(42).Add(bal).String())
}

func TestForwardLabelReference(t *testing.T) {
	image := assemble(t, `
		target + bal
	target:
		hcf
	`)
	bal, _ := vm.Mnemonic("bal")
	wantQ(t, image[0], vm.QFromInt64(1).Add(bal).String())
}

func TestForwardConstantReference(t *testing.T) {
	image := assemble(t, `
		a
	a = b + 1
	b = 10
	`)
	wantQ(t, image[0], "11")
}

func TestLocalLabels(t *testing.T) {
	image := assemble(t, `
	first:
		.loop + bal
	.loop:
		hcf
	second:
		.loop + bal
	.loop:
		hcf
	`)
	bal, _ := vm.Mnemonic("bal")
	wantQ(t, image[0], vm.QFromInt64(1).Add(bal).String())
	wantQ(t, image[2], vm.QFromInt64(3).Add(bal).String())
}

func TestStringLiteral(t *testing.T) {
	image := assemble(t, `"hi" 0`)
	if len(image) != 3 {
		t.Fatalf("len(image) = %d, want 3", len(image))
	}
	wantQ(t, image[0], "104")
	wantQ(t, image[1], "105")
	wantQ(t, image[2], "0")
}

func TestCharLiteral(t *testing.T) {
	image := assemble(t, `'A' '\n'`)
	wantQ(t, image[0], "65")
	wantQ(t, image[1], "10")
}

func TestComment(t *testing.T) {
	image := assemble(t, "1 ; this is a comment\n2")
	if len(image) != 2 {
		t.Fatalf("len(image) = %d, want 2", len(image))
	}
	wantQ(t, image[0], "1")
	wantQ(t, image[1], "2")
}

func TestUndefinedSymbolFails(t *testing.T) {
	_, err := asm.AssembleString(t.Name(), `undefined_symbol`)
	if err == nil {
		t.Fatal("expected an error for an undefined symbol")
	}
}

func TestCyclicConstantsFail(t *testing.T) {
	_, err := asm.AssembleString(t.Name(), `
		a = b + 1
		b = a + 1
		a
	`)
	if err == nil {
		t.Fatal("expected an error for a cyclic constant reference")
	}
}

func TestRedefinitionFails(t *testing.T) {
	_, err := asm.AssembleString(t.Name(), `
	label:
		hcf
	label:
		hcf
	`)
	if err == nil {
		t.Fatal("expected an error for a redefined label")
	}
}

func TestDivisionByZeroFails(t *testing.T) {
	_, err := asm.AssembleString(t.Name(), `1 / 0`)
	if err == nil {
		t.Fatal("expected an error for division by zero")
	}
}

func TestAssembleReaderMatchesAssembleString(t *testing.T) {
	const src = `1 2 add`
	fromString := assemble(t, src)
	fromReader, err := asm.Assemble(t.Name(), strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(fromString) != len(fromReader) {
		t.Fatalf("len mismatch: %d vs %d", len(fromString), len(fromReader))
	}
	for i := range fromString {
		if fromString[i].Cmp(fromReader[i]) != 0 {
			t.Fatalf("word %d differs: %s vs %s", i, fromString[i], fromReader[i])
		}
	}
}
