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

// Status is the tri-state result of a call to Run: the process either
// terminated for good, or suspended in a recoverable way that the host
// can resolve before calling Run again.
type Status int

const (
	// StatusTerminated means the process executed hcf. The run is over.
	StatusTerminated Status = iota
	// StatusBlocked means a get stalled on an open, empty stream. The
	// host should supply more input (Write) and call Run again.
	StatusBlocked
	// StatusClosed means a get stalled on an empty, closed stream. The
	// host may treat this as EOF, or close other streams and retry.
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusTerminated:
		return "terminated"
	case StatusBlocked:
		return "blocked"
	case StatusClosed:
		return "closed"
	default:
		return "Status(?)"
	}
}

// step executes exactly one instruction. done is false as long as
// execution should continue; when done is true, status reports why it
// stopped. On any error the instruction's side effects may be partially
// applied and the run must not continue.
func (i *Instance) step() (status Status, done bool, err error) {
	pr := i.Registers[PR]
	word, err := i.Memory.Read(pr)
	if err != nil {
		return 0, true, errors.Wrap(err, "fetch")
	}
	// Advance PR before dispatch, as required by the fetch/decode/execute
	// contract; handlers that transfer control overwrite it themselves,
	// and Blocked/Closed roll it back below so the same instruction is
	// re-executed in full on the next Run.
	i.Registers[PR] = pr.Add(One())

	operand, _, fn, err := Decode(word)
	if err != nil {
		i.Registers[PR] = pr
		return 0, true, errors.Wrap(err, "decode")
	}

	err = fn(i, operand)
	switch err {
	case nil:
		return 0, false, nil
	case ErrTerminated:
		return StatusTerminated, true, nil
	case ErrBlocked:
		i.Registers[PR] = pr
		return StatusBlocked, true, nil
	case ErrClosed:
		i.Registers[PR] = pr
		return StatusClosed, true, nil
	default:
		i.Registers[PR] = pr
		return 0, true, err
	}
}

// Run executes instructions until the process terminates (hcf) or
// blocks or closes on stream I/O, returning the corresponding Status,
// or until a fatal error (§4.H) aborts the run. A recovered panic is
// reported as an error rather than propagated, mirroring the
// interpreter's tolerance for handler bugs.
func (i *Instance) Run() (status Status, err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("panic: %v", e)
		}
	}()
	for {
		st, done, err := i.step()
		if err != nil {
			return 0, err
		}
		if done {
			return st, nil
		}
	}
}
