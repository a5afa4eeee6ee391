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

// The three standard stream handles, always present.
const (
	Stdin  = 0
	Stdout = 1
	Stderr = 2
)

// ErrBlocked is returned by a stream read when the stream is open but
// currently empty. The caller should retry the same instruction once
// more data has been made available.
var ErrBlocked = errors.New("vm: stream blocked")

// ErrClosed is returned by a stream read when the stream is empty and
// has been closed. No further data will ever arrive.
var ErrClosed = errors.New("vm: stream closed")

// ErrTerminated is the sentinel returned by the halt handler to signal
// that execution has ended for good.
var ErrTerminated = errors.New("vm: terminated")

type streamQueue struct {
	items  []Q
	closed bool
}

// Streams is a set of per-handle FIFOs used for rational-valued I/O.
// Handle 0, 1 and 2 are conventionally stdin, stdout and stderr;
// additional handles may be used by a host for other I/O.
type Streams struct {
	qs []*streamQueue
}

// NewStreams returns a Streams with the three standard handles ready
// for use.
func NewStreams() *Streams {
	s := &Streams{qs: make([]*streamQueue, 3)}
	for i := range s.qs {
		s.qs[i] = &streamQueue{}
	}
	return s
}

func (s *Streams) ensure(handle int) *streamQueue {
	for handle >= len(s.qs) {
		s.qs = append(s.qs, &streamQueue{})
	}
	return s.qs[handle]
}

// Enqueue appends v to the FIFO for handle.
func (s *Streams) Enqueue(handle int, v Q) error {
	if handle < 0 {
		return errors.Errorf("stream: invalid handle %d", handle)
	}
	q := s.ensure(handle)
	q.items = append(q.items, v)
	return nil
}

// Dequeue removes and returns the oldest value queued for handle. It
// returns ErrBlocked if the stream is open and empty, or ErrClosed if
// it has been closed and drained.
func (s *Streams) Dequeue(handle int) (Q, error) {
	if handle < 0 {
		return Q{}, errors.Errorf("stream: invalid handle %d", handle)
	}
	q := s.ensure(handle)
	if len(q.items) > 0 {
		v := q.items[0]
		q.items = q.items[1:]
		return v, nil
	}
	if q.closed {
		return Q{}, ErrClosed
	}
	return Q{}, ErrBlocked
}

// Len returns the number of values currently queued for handle.
func (s *Streams) Len(handle int) int {
	if handle < 0 {
		return 0
	}
	return len(s.ensure(handle).items)
}

// Close marks handle as closed: once drained, further reads return
// ErrClosed instead of ErrBlocked.
func (s *Streams) Close(handle int) error {
	if handle < 0 {
		return errors.Errorf("stream: invalid handle %d", handle)
	}
	s.ensure(handle).closed = true
	return nil
}

// Closed reports whether handle has been closed.
func (s *Streams) Closed(handle int) bool {
	if handle < 0 {
		return false
	}
	return s.ensure(handle).closed
}
