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

// Default sizes for the data and call stacks, pre-allocated at
// process startup so that register-relative push/pop never needs to
// grow the backing array on the fly.
const (
	DataStackSize = 1024
	CallStackSize = 1024
)

// Instance is one running (or suspended) process: its registers,
// heap and standard streams.
type Instance struct {
	Registers [numRegisters]Q
	Memory    *Memory
	Streams   *Streams
}

// New builds a process ready to run image, with argv marshalled onto
// the heap and its base pushed as the sole entry on the data stack, as
// described by the argv convention.
func New(image []Q, argv []string) (*Instance, error) {
	i := &Instance{
		Memory:  NewMemory(),
		Streams: NewStreams(),
	}
	i.Memory.LoadImage(image)
	i.Registers[PR] = Zero()
	i.Registers[DR] = i.Memory.New(DataStackSize)
	i.Registers[CR] = i.Memory.New(CallStackSize)
	if err := i.pushArgv(argv); err != nil {
		return nil, err
	}
	return i, nil
}

// pushArgv marshals argv onto the heap: each argument becomes its own
// NUL-terminated array of codepoints, and argvBase is an array of the
// per-argument bases. argvBase is left as the sole value on the data
// stack, per the argv convention.
func (i *Instance) pushArgv(argv []string) error {
	argvBase := i.Memory.New(0)
	for _, arg := range argv {
		argBase := i.Memory.New(0)
		for _, c := range arg {
			if err := i.Memory.Push(argBase, QFromInt64(int64(c))); err != nil {
				return err
			}
		}
		if err := i.Memory.Push(argBase, Zero()); err != nil {
			return err
		}
		if err := i.Memory.Push(argvBase, argBase); err != nil {
			return err
		}
	}
	return i.PushData(argvBase)
}

// PushData writes v at the address held in DR, then advances DR.
func (i *Instance) PushData(v Q) error {
	if err := i.Memory.Write(i.Registers[DR], v); err != nil {
		return errors.Wrap(err, "data stack overflow")
	}
	i.Registers[DR] = i.Registers[DR].Add(One())
	return nil
}

// PopData retreats DR, then reads and returns the value there.
func (i *Instance) PopData() (Q, error) {
	i.Registers[DR] = i.Registers[DR].Sub(One())
	v, err := i.Memory.Read(i.Registers[DR])
	if err != nil {
		return Q{}, errors.Wrap(err, "data stack underflow")
	}
	return v, nil
}

// peekData returns the current top of the data stack without
// consuming it.
func (i *Instance) peekData() (Q, error) {
	addr := i.Registers[DR].Sub(One())
	v, err := i.Memory.Read(addr)
	if err != nil {
		return Q{}, errors.Wrap(err, "data stack underflow")
	}
	return v, nil
}

// PushCall writes v at the address held in CR, then advances CR.
func (i *Instance) PushCall(v Q) error {
	if err := i.Memory.Write(i.Registers[CR], v); err != nil {
		return errors.Wrap(err, "call stack overflow")
	}
	i.Registers[CR] = i.Registers[CR].Add(One())
	return nil
}

// PopCall retreats CR, then reads and returns the value there.
func (i *Instance) PopCall() (Q, error) {
	i.Registers[CR] = i.Registers[CR].Sub(One())
	v, err := i.Memory.Read(i.Registers[CR])
	if err != nil {
		return Q{}, errors.Wrap(err, "call stack underflow")
	}
	return v, nil
}

// Write enqueues the codepoints of s onto the stream identified by
// handle.
func (i *Instance) Write(handle int, s string) error {
	for _, c := range s {
		if err := i.Streams.Enqueue(handle, QFromInt64(int64(c))); err != nil {
			return err
		}
	}
	return nil
}

// Read drains every currently-queued codepoint on handle and returns
// them as a string. It does not block.
func (i *Instance) Read(handle int) string {
	var buf []rune
	for i.Streams.Len(handle) > 0 {
		v, err := i.Streams.Dequeue(handle)
		if err != nil {
			break
		}
		c, err := v.FloorInt()
		if err != nil {
			break
		}
		buf = append(buf, rune(c))
	}
	return string(buf)
}

// ReadLine drains handle up to and including the first newline, or
// until it runs dry.
func (i *Instance) ReadLine(handle int) string {
	var buf []rune
	for i.Streams.Len(handle) > 0 {
		v, err := i.Streams.Dequeue(handle)
		if err != nil {
			break
		}
		c, err := v.FloorInt()
		if err != nil {
			break
		}
		buf = append(buf, rune(c))
		if c == '\n' {
			break
		}
	}
	return string(buf)
}

// Close closes the stream identified by handle.
func (i *Instance) Close(handle int) error {
	return i.Streams.Close(handle)
}

// Halted reports whether the instruction currently addressed by PR is
// hcf.
func (i *Instance) Halted() bool {
	word, err := i.Memory.Read(i.Registers[PR])
	if err != nil {
		return false
	}
	_, mnemonic, _, err := Decode(word)
	return err == nil && mnemonic == "hcf"
}

// Blocked reports whether the instruction currently addressed by PR
// is a get that would block, i.e. the stream named by the current
// data-stack top is open and empty.
func (i *Instance) Blocked() bool {
	word, err := i.Memory.Read(i.Registers[PR])
	if err != nil {
		return false
	}
	_, mnemonic, _, err := Decode(word)
	if err != nil || mnemonic != "get" {
		return false
	}
	h, err := i.peekData()
	if err != nil {
		return false
	}
	handle, err := h.FloorInt()
	if err != nil {
		return false
	}
	return i.Streams.Len(handle) == 0 && !i.Streams.Closed(handle)
}
