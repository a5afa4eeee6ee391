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

package main

import (
	"fmt"
	"io"

	"github.com/elemel/quest/internal/qtext"
	"github.com/elemel/quest/vm"
)

// dumpStack writes the contents of the stack addressed by reg (DR or
// CR), bottom first, space separated.
func dumpStack(ew *qtext.ErrWriter, i *vm.Instance, reg vm.Register) {
	top := i.Registers[reg]
	n, err := top.FloorInt()
	if err != nil {
		return
	}
	base := top.Mod1()
	for k := 0; k < n; k++ {
		v, rerr := i.Memory.Read(base.Add(vm.QFromInt64(int64(k))))
		if rerr != nil {
			break
		}
		if k > 0 {
			io.WriteString(ew, " ")
		}
		io.WriteString(ew, v.String())
	}
}

// dumpVM writes a snapshot of the registers and the data and call
// stacks to w, for post-mortem debugging of a fatal error.
func dumpVM(i *vm.Instance, w io.Writer) error {
	ew := qtext.NewErrWriter(w)
	fmt.Fprintf(ew, "PR=%s DR=%s CR=%s\n", i.Registers[vm.PR], i.Registers[vm.DR], i.Registers[vm.CR])
	io.WriteString(ew, "data: ")
	dumpStack(ew, i, vm.DR)
	io.WriteString(ew, "\ncall: ")
	dumpStack(ew, i, vm.CR)
	io.WriteString(ew, "\n")
	return ew.Err
}
