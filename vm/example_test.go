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

	"github.com/elemel/quest/asm"
	"github.com/elemel/quest/vm"
)

// This example assembles a tiny program that prints "6" (the product
// of 2 and 3) to stdout, runs it to completion, and drains the
// resulting output.
func Example() {
	image, err := asm.AssembleString("example", `
		2
		3
		mul
		'0'
		add
		stdout
		put
		hcf
	`)
	if err != nil {
		panic(err)
	}
	i, err := vm.New(image, nil)
	if err != nil {
		panic(err)
	}
	if _, err := i.Run(); err != nil {
		panic(err)
	}
	fmt.Print(i.Read(vm.Stdout))
	// Output: 6
}
