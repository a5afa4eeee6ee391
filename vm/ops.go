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

// popBinary pops the right operand, then the left, matching the "pop
// right, pop left, push left . right" discipline used by every binary
// arithmetic opcode.
func (i *Instance) popBinary() (left, right Q, err error) {
	right, err = i.PopData()
	if err != nil {
		return
	}
	left, err = i.PopData()
	return
}

func opAdd(i *Instance, _ Q) error {
	l, r, err := i.popBinary()
	if err != nil {
		return err
	}
	return i.PushData(l.Add(r))
}

func opSubtract(i *Instance, _ Q) error {
	l, r, err := i.popBinary()
	if err != nil {
		return err
	}
	return i.PushData(l.Sub(r))
}

func opMultiply(i *Instance, _ Q) error {
	l, r, err := i.popBinary()
	if err != nil {
		return err
	}
	return i.PushData(l.Mul(r))
}

func opDivide(i *Instance, _ Q) error {
	l, r, err := i.popBinary()
	if err != nil {
		return err
	}
	q, err := l.Quo(r)
	if err != nil {
		return errors.Wrap(err, "div")
	}
	return i.PushData(q)
}

func opModulo(i *Instance, _ Q) error {
	l, r, err := i.popBinary()
	if err != nil {
		return err
	}
	q, err := l.Mod(r)
	if err != nil {
		return errors.Wrap(err, "mod")
	}
	return i.PushData(q)
}

func opAddInteger(i *Instance, operand Q) error {
	v, err := i.PopData()
	if err != nil {
		return err
	}
	return i.PushData(v.Add(operand))
}

func opMultiplyInteger(i *Instance, operand Q) error {
	v, err := i.PopData()
	if err != nil {
		return err
	}
	return i.PushData(v.Mul(operand))
}

func opFloorDivideInteger(i *Instance, operand Q) error {
	v, err := i.PopData()
	if err != nil {
		return err
	}
	q, err := v.Quo(operand)
	if err != nil {
		return errors.Wrap(err, "fdi")
	}
	return i.PushData(QFromBigInt(q.Floor()))
}

func opNegate(i *Instance, _ Q) error {
	v, err := i.PopData()
	if err != nil {
		return err
	}
	return i.PushData(v.Neg())
}

func opInvert(i *Instance, _ Q) error {
	v, err := i.PopData()
	if err != nil {
		return err
	}
	inv, err := v.Inv()
	if err != nil {
		return errors.Wrap(err, "inv")
	}
	return i.PushData(inv)
}

func opNumerator(i *Instance, _ Q) error {
	v, err := i.PopData()
	if err != nil {
		return err
	}
	return i.PushData(v.Num())
}

func opDenominator(i *Instance, _ Q) error {
	v, err := i.PopData()
	if err != nil {
		return err
	}
	return i.PushData(v.Denom())
}

func opDecrement(i *Instance, _ Q) error {
	v, err := i.PopData()
	if err != nil {
		return err
	}
	return i.PushData(v.Sub(One()))
}

func opIncrement(i *Instance, _ Q) error {
	v, err := i.PopData()
	if err != nil {
		return err
	}
	return i.PushData(v.Add(One()))
}

func opDuplicate(i *Instance, _ Q) error {
	v, err := i.peekData()
	if err != nil {
		return err
	}
	return i.PushData(v)
}

func opSwap(i *Instance, _ Q) error {
	top, err := i.PopData()
	if err != nil {
		return err
	}
	next, err := i.PopData()
	if err != nil {
		return err
	}
	if err := i.PushData(top); err != nil {
		return err
	}
	return i.PushData(next)
}

// opDiscard drops the top of the data stack ("dis").
func opDiscard(i *Instance, _ Q) error {
	_, err := i.PopData()
	return err
}

// opPush pops a heap base and a value off the data stack, in that
// order, and appends the value to the growable array at that base.
func opPush(i *Instance, _ Q) error {
	base, err := i.PopData()
	if err != nil {
		return err
	}
	v, err := i.PopData()
	if err != nil {
		return err
	}
	return i.Memory.Push(base, v)
}

// opPop pops a heap base off the data stack, removes the last element
// of the growable array at that base, and pushes it back onto the
// data stack.
func opPop(i *Instance, _ Q) error {
	base, err := i.PopData()
	if err != nil {
		return err
	}
	v, err := i.Memory.Pop(base)
	if err != nil {
		return err
	}
	return i.PushData(v)
}

func opBranchAlways(i *Instance, operand Q) error {
	i.Registers[PR] = operand
	return nil
}

func branchIf(i *Instance, operand Q, test func(sign int) bool) error {
	v, err := i.PopData()
	if err != nil {
		return err
	}
	if test(v.Sign()) {
		i.Registers[PR] = operand
	}
	return nil
}

func opBranchEqual(i *Instance, operand Q) error {
	return branchIf(i, operand, func(s int) bool { return s == 0 })
}

func opBranchNotEqual(i *Instance, operand Q) error {
	return branchIf(i, operand, func(s int) bool { return s != 0 })
}

func opBranchLessThan(i *Instance, operand Q) error {
	return branchIf(i, operand, func(s int) bool { return s < 0 })
}

func opBranchLessEqual(i *Instance, operand Q) error {
	return branchIf(i, operand, func(s int) bool { return s <= 0 })
}

func opBranchGreaterThan(i *Instance, operand Q) error {
	return branchIf(i, operand, func(s int) bool { return s > 0 })
}

func opBranchGreaterEqual(i *Instance, operand Q) error {
	return branchIf(i, operand, func(s int) bool { return s >= 0 })
}

// opCallDynamic pushes the return address (PR, already advanced past
// this instruction) and jumps to the address popped from the data
// stack.
func opCallDynamic(i *Instance, _ Q) error {
	target, err := i.PopData()
	if err != nil {
		return err
	}
	if err := i.PushCall(i.Registers[PR]); err != nil {
		return err
	}
	i.Registers[PR] = target
	return nil
}

// opCallStatic pushes the return address and jumps to operand.
func opCallStatic(i *Instance, operand Q) error {
	if err := i.PushCall(i.Registers[PR]); err != nil {
		return err
	}
	i.Registers[PR] = operand
	return nil
}

// opReturn releases operand cells reserved by a matching "ent", then
// pops the return address from the call stack into PR. operand is 0
// for a plain "ret" with no enclosing frame to release.
func opReturn(i *Instance, operand Q) error {
	n, err := operand.IntIndex()
	if err != nil {
		return errors.Wrap(err, "ret")
	}
	for k := 0; k < n; k++ {
		if _, err := i.PopCall(); err != nil {
			return err
		}
	}
	addr, err := i.PopCall()
	if err != nil {
		return err
	}
	i.Registers[PR] = addr
	return nil
}

// opEnter reserves operand zero-filled cells on the call stack, for
// use as a frame's local variables.
func opEnter(i *Instance, operand Q) error {
	n, err := operand.IntIndex()
	if err != nil {
		return errors.Wrap(err, "ent")
	}
	for k := 0; k < n; k++ {
		if err := i.PushCall(Zero()); err != nil {
			return err
		}
	}
	return nil
}

// opLoadLocal reads memory[CR - 1 - operand].
func opLoadLocal(i *Instance, operand Q) error {
	addr := i.Registers[CR].Sub(One()).Sub(operand)
	v, err := i.Memory.Read(addr)
	if err != nil {
		return errors.Wrap(err, "ldl")
	}
	return i.PushData(v)
}

// opStoreLocal writes memory[CR - 1 - operand].
func opStoreLocal(i *Instance, operand Q) error {
	v, err := i.PopData()
	if err != nil {
		return err
	}
	addr := i.Registers[CR].Sub(One()).Sub(operand)
	if err := i.Memory.Write(addr, v); err != nil {
		return errors.Wrap(err, "stl")
	}
	return nil
}

// opLoadStatic reads memory[operand] (operand is a plain integer, so
// its implicit base is 0, the static image).
func opLoadStatic(i *Instance, operand Q) error {
	v, err := i.Memory.Read(operand)
	if err != nil {
		return errors.Wrap(err, "lds")
	}
	return i.PushData(v)
}

// opStoreStatic writes memory[operand].
func opStoreStatic(i *Instance, operand Q) error {
	v, err := i.PopData()
	if err != nil {
		return err
	}
	if err := i.Memory.Write(operand, v); err != nil {
		return errors.Wrap(err, "sts")
	}
	return nil
}

// opLoadDynamic pops an address a (the data-stack top) and pushes
// memory[a + operand].
func opLoadDynamic(i *Instance, operand Q) error {
	a, err := i.PopData()
	if err != nil {
		return err
	}
	v, err := i.Memory.Read(a.Add(operand))
	if err != nil {
		return errors.Wrap(err, "ldd")
	}
	return i.PushData(v)
}

// opStoreDynamic pops an address a (the data-stack top), then a value,
// and writes the value to memory[a + operand].
func opStoreDynamic(i *Instance, operand Q) error {
	a, err := i.PopData()
	if err != nil {
		return err
	}
	v, err := i.PopData()
	if err != nil {
		return err
	}
	if err := i.Memory.Write(a.Add(operand), v); err != nil {
		return errors.Wrap(err, "std")
	}
	return nil
}

func opLoadRegister(i *Instance, operand Q) error {
	idx, err := operand.IntIndex()
	if err != nil || idx >= int(numRegisters) {
		return errors.Errorf("ldr: invalid register index %s", operand)
	}
	return i.PushData(i.Registers[idx])
}

func opStoreRegister(i *Instance, operand Q) error {
	idx, err := operand.IntIndex()
	if err != nil || idx >= int(numRegisters) {
		return errors.Errorf("str: invalid register index %s", operand)
	}
	v, err := i.PopData()
	if err != nil {
		return err
	}
	i.Registers[Register(idx)] = v
	return nil
}

// opNew allocates a fresh zero-filled array of length operand and
// pushes its base.
func opNew(i *Instance, operand Q) error {
	n, err := operand.IntIndex()
	if err != nil {
		return errors.Wrap(err, "new")
	}
	return i.PushData(i.Memory.New(n))
}

// opDelete pops a base and frees its array.
func opDelete(i *Instance, _ Q) error {
	base, err := i.PopData()
	if err != nil {
		return err
	}
	if err := i.Memory.Delete(base); err != nil {
		return errors.Wrap(err, "del")
	}
	return nil
}

// opSize pops a base and pushes the length of its array.
func opSize(i *Instance, _ Q) error {
	base, err := i.PopData()
	if err != nil {
		return err
	}
	n, err := i.Memory.Size(base)
	if err != nil {
		return errors.Wrap(err, "siz")
	}
	return i.PushData(QFromInt64(int64(n)))
}

// opGet peeks the handle on top of the data stack and tries to
// dequeue one value from its stream. On ErrBlocked/ErrClosed the data
// stack is left untouched (the handle stays on top) so that the
// interpreter can rewind PR and retry the same instruction later.
func opGet(i *Instance, _ Q) error {
	hq, err := i.peekData()
	if err != nil {
		return err
	}
	handle, err := hq.FloorInt()
	if err != nil {
		return errors.Wrap(err, "get")
	}
	v, err := i.Streams.Dequeue(handle)
	if err != nil {
		return err
	}
	if _, err := i.PopData(); err != nil {
		return err
	}
	return i.PushData(v)
}

// opPut pops the handle, then the value, and enqueues the value onto
// that stream.
func opPut(i *Instance, _ Q) error {
	hq, err := i.PopData()
	if err != nil {
		return err
	}
	handle, err := hq.FloorInt()
	if err != nil {
		return errors.Wrap(err, "put")
	}
	v, err := i.PopData()
	if err != nil {
		return err
	}
	return i.Streams.Enqueue(handle, v)
}

// opTell pops a handle and pushes the current length of its stream.
func opTell(i *Instance, _ Q) error {
	hq, err := i.PopData()
	if err != nil {
		return err
	}
	handle, err := hq.FloorInt()
	if err != nil {
		return errors.Wrap(err, "tel")
	}
	return i.PushData(QFromInt64(int64(i.Streams.Len(handle))))
}

// opLoadInteger pushes operand verbatim: the canonical encoding for an
// integer literal ("0 ldi" with opcode ldi = 0, the table's only entry
// at the origin).
func opLoadInteger(i *Instance, operand Q) error {
	return i.PushData(operand)
}

// opHalt ends the run.
func opHalt(_ *Instance, _ Q) error {
	return ErrTerminated
}
