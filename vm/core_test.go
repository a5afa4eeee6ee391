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

package vm_test

import (
	"fmt"
	"testing"

	"github.com/elemel/quest/asm"
	"github.com/elemel/quest/vm"
)

// runAsm assembles src, builds a process with argv and runs it to
// completion, failing the test on any assembly or fatal execution
// error. The returned Instance is left exactly as Run stopped it, so
// callers can inspect streams, registers or the data stack.
func runAsm(t *testing.T, src string, argv ...string) (*vm.Instance, vm.Status) {
	t.Helper()
	image, err := asm.AssembleString(t.Name(), src)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	i, err := vm.New(image, argv)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	status, err := i.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return i, status
}

func TestHalt(t *testing.T) {
	_, status := runAsm(t, `hcf`)
	if status != vm.StatusTerminated {
		t.Fatalf("status = %v, want terminated", status)
	}
}

func TestArithmetic(t *testing.T) {
	i, status := runAsm(t, `
		2
		3
		add
		hcf
	`)
	if status != vm.StatusTerminated {
		t.Fatalf("status = %v, want terminated", status)
	}
	v, err := i.PopData()
	if err != nil {
		t.Fatal(err)
	}
	if v.Cmp(vm.QFromInt64(5)) != 0 {
		t.Fatalf("result = %s, want 5", v)
	}
}

func TestRationalArithmetic(t *testing.T) {
	// 1/2 + 1/3 = 5/6, verified exactly rather than as a float.
	i, status := runAsm(t, `
		1
		2
		div
		1
		3
		div
		add
		hcf
	`)
	if status != vm.StatusTerminated {
		t.Fatalf("status = %v, want terminated", status)
	}
	v, err := i.PopData()
	if err != nil {
		t.Fatal(err)
	}
	if want := vm.QFromFrac(5, 6); v.Cmp(want) != 0 {
		t.Fatalf("result = %s, want %s", v, want)
	}
}

func TestCallReturn(t *testing.T) {
	i, status := runAsm(t, `
		5
		double + cls
		hcf
	double:
		dup
		add
		ret
	`)
	if status != vm.StatusTerminated {
		t.Fatalf("status = %v, want terminated", status)
	}
	v, err := i.PopData()
	if err != nil {
		t.Fatal(err)
	}
	if v.Cmp(vm.QFromInt64(10)) != 0 {
		t.Fatalf("result = %s, want 10", v)
	}
}

func TestHelloWorld(t *testing.T) {
	i, status := runAsm(t, `
		1 + ent
	loop:
		ldl
		message + ldd
		dup
		done + beq
		stdout
		put
		ldl
		inc
		stl
		loop + bal
	done:
		hcf
	message:
		"Hello, World!\n"
		0
	`)
	if status != vm.StatusTerminated {
		t.Fatalf("status = %v, want terminated", status)
	}
	if got, want := i.Read(vm.Stdout), "Hello, World!\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
}

func TestEcho(t *testing.T) {
	i, status := runAsm(t, `
		5 + ent
		dup
		2 + stl
		siz
		1 + stl
	loop:
		ldl
		1 + ldl
		sub
		done + bge
		2 + ldl
		ldl
		add
		ldd
		3 + stl
		0
		4 + stl
	inner:
		4 + ldl
		3 + ldl
		add
		ldd
		dup
		sep + beq
		stdout
		put
		4 + ldl
		inc
		4 + stl
		inner + bal
	sep:
		ldl
		1 + ldl
		1
		sub
		sub
		lastarg + beq
		' '
		stdout
		put
		afterSep + bal
	lastarg:
		'\n'
		stdout
		put
	afterSep:
		ldl
		inc
		stl
		loop + bal
	done:
		hcf
	`, "hello", "world")
	if status != vm.StatusTerminated {
		t.Fatalf("status = %v, want terminated", status)
	}
	if got, want := i.Read(vm.Stdout), "hello world\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
}

func TestParseIntegerFromStdin(t *testing.T) {
	const src = `
		dis
		2 + ent
		1
		0 + stl
		stdin
		get
		dup
		'-'
		sub
		notneg + bne
		dis, ; the comma keeps -1 from being read as dis - 1
		-1
		0 + stl
		stdin
		get
	notneg:
	digitloop:
		dup
		'0'
		sub
		notdigit + blt
		dup
		'9'
		sub
		notdigit + bgt
		'0'
		sub
		1 + ldl
		10 + mli
		add
		1 + stl
		stdin
		get
		digitloop + bal
	notdigit:
		dis
		1 + ldl
		0 + ldl
		mul
		hcf
	`
	cases := []struct {
		in   string
		want int64
	}{
		{"285793423\n", 285793423},
		{"-618584259\n", -618584259},
	}
	for _, c := range cases {
		image, err := asm.AssembleString(t.Name(), src)
		if err != nil {
			t.Fatalf("assemble: %v", err)
		}
		i, err := vm.New(image, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := i.Write(vm.Stdin, c.in); err != nil {
			t.Fatal(err)
		}
		status, err := i.Run()
		if err != nil {
			t.Fatalf("Run(%q): %v", c.in, err)
		}
		if status != vm.StatusTerminated {
			t.Fatalf("Run(%q) status = %v, want terminated", c.in, status)
		}
		v, err := i.PopData()
		if err != nil {
			t.Fatal(err)
		}
		if want := vm.QFromInt64(c.want); v.Cmp(want) != 0 {
			t.Fatalf("parse(%q) = %s, want %s", c.in, v, want)
		}
	}
}

func TestPrintIntegerToStdout(t *testing.T) {
	const tmpl = `
		%d
		printSigned + cls
		'\n'
		stdout
		put
		hcf
	printSigned:
		1 + ent
		0 + stl
		0 + ldl
		nonneg + bge
		'-'
		stdout
		put
		0 + ldl
		neg
		printInt + cls
		1 + ret
	nonneg:
		0 + ldl
		printInt + cls
		1 + ret
	printInt:
		1 + ent
		0 + stl
		0 + ldl
		10 + fdi
		base + beq
		0 + ldl
		10 + fdi
		printInt + cls
	base:
		0 + ldl
		10
		mod
		'0'
		add
		stdout
		put
		1 + ret
	`
	cases := []struct {
		n    int64
		want string
	}{
		{285793423, "285793423\n"},
		{-618584259, "-618584259\n"},
	}
	for _, c := range cases {
		src := fmt.Sprintf(tmpl, c.n)
		image, err := asm.AssembleString(t.Name(), src)
		if err != nil {
			t.Fatalf("assemble(%d): %v", c.n, err)
		}
		i, err := vm.New(image, nil)
		if err != nil {
			t.Fatal(err)
		}
		status, err := i.Run()
		if err != nil {
			t.Fatalf("Run(%d): %v", c.n, err)
		}
		if status != vm.StatusTerminated {
			t.Fatalf("Run(%d) status = %v, want terminated", c.n, status)
		}
		if got := i.Read(vm.Stdout); got != c.want {
			t.Fatalf("print(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}
