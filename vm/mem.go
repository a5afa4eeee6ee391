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

import (
	"math/big"

	"github.com/pkg/errors"
)

// array is the backing store for one heap base.
type array struct {
	cells []Q
}

// Memory is the machine's fractional-keyed heap. Every address is a
// rational A = offset + base, where offset = floor(A) is an integer
// index and base = A mod 1 lies in [0, 1). Key 0 addresses the static
// program image, loaded once at construction and never recycled.
// Every other base is handed out by New, in the dense enumeration
// order of nextKey, and returned to a LIFO freelist by Delete.
type Memory struct {
	image    array
	arrays   map[string]*array
	pool     []Q
	nextBase Q
}

// initialBase is the first base handed out for dynamic allocation.
// Base 0 is reserved for the static image, so enumeration begins at
// the next fraction in the canonical ordering.
var initialBase = QFromFrac(1, 2)

// NewMemory returns an empty heap with no loaded image.
func NewMemory() *Memory {
	return &Memory{
		arrays:   make(map[string]*array),
		nextBase: initialBase,
	}
}

// LoadImage installs words as the static image at base 0.
func (m *Memory) LoadImage(words []Q) {
	m.image.cells = append([]Q(nil), words...)
}

// ImageLen returns the current length of the static image.
func (m *Memory) ImageLen() int { return len(m.image.cells) }

// nextKey implements the dense fraction enumeration used to allocate
// heap bases: given the current candidate q in [0, 1), it returns the
// next fraction in the canonical dense ordering of the rationals in
// [0, 1).
func nextKey(q Q) Q {
	den := new(big.Int).Set(q.rat().Denom())
	dq := new(big.Rat).SetFrac(big.NewInt(1), den)
	cur := new(big.Rat).Set(q.rat())
	for {
		cur.Add(cur, dq)
		if cur.Cmp(oneRat) >= 0 {
			nd := new(big.Int).Add(den, big.NewInt(1))
			return Q{new(big.Rat).SetFrac(big.NewInt(1), nd)}
		}
		if cur.Denom().Cmp(den) == 0 {
			return Q{new(big.Rat).Set(cur)}
		}
	}
}

// KeyIndex packs a reduced base fraction p/d (0 <= p < d) into a dense
// non-negative integer index, using (d-1)(d-2)/2 + p. This is an
// optional, purely cosmetic packing offered for diagnostics and
// compact on-disk/display forms; it is never required for correctness
// since bases are otherwise addressed by their rational value
// directly.
func KeyIndex(base Q) *big.Int {
	p := base.rat().Num()
	d := base.rat().Denom()
	one := big.NewInt(1)
	two := big.NewInt(2)
	dm1 := new(big.Int).Sub(d, one)
	dm2 := new(big.Int).Sub(d, two)
	t := new(big.Int).Mul(dm1, dm2)
	t.Quo(t, two)
	return t.Add(t, p)
}

// New allocates a fresh base with a zero-filled backing array of the
// given length and returns its key. Freed bases are reused in LIFO
// order before any new key is enumerated.
func (m *Memory) New(size int) Q {
	var base Q
	if n := len(m.pool); n > 0 {
		base = m.pool[n-1]
		m.pool = m.pool[:n-1]
	} else {
		base = m.nextBase
		m.nextBase = nextKey(m.nextBase)
	}
	if size < 0 {
		size = 0
	}
	m.arrays[base.Key()] = &array{cells: make([]Q, size)}
	return base
}

// Delete frees the array at base, returning it to the freelist. It
// errors if base is not currently allocated, or is the reserved
// static-image key 0.
func (m *Memory) Delete(base Q) error {
	if base.IsZero() {
		return errors.New("memory: cannot free the static image")
	}
	key := base.Key()
	if _, ok := m.arrays[key]; !ok {
		return errors.Errorf("memory: delete of unallocated base %s", base)
	}
	delete(m.arrays, key)
	m.pool = append(m.pool, base)
	return nil
}

// Size returns the current length of the array at base.
func (m *Memory) Size(base Q) (int, error) {
	if base.IsZero() {
		return len(m.image.cells), nil
	}
	a, ok := m.arrays[base.Key()]
	if !ok {
		return 0, errors.Errorf("memory: size of unallocated base %s", base)
	}
	return len(a.cells), nil
}

func splitAddr(addr Q) (idx int, base Q, err error) {
	whole, frac := addr.DivMod1()
	idx, err = whole.IntIndex()
	if err != nil {
		return 0, Q{}, errors.Wrapf(err, "memory: address %s", addr)
	}
	return idx, frac, nil
}

// Read returns the value stored at addr. Reads past the end of the
// static image (base 0) return zero, since the image is conceptually
// infinite and sparse. Reads from an unallocated base, or past the
// end of a heap array, are errors.
func (m *Memory) Read(addr Q) (Q, error) {
	idx, base, err := splitAddr(addr)
	if err != nil {
		return Q{}, err
	}
	if base.IsZero() {
		if idx < len(m.image.cells) {
			return m.image.cells[idx], nil
		}
		return Zero(), nil
	}
	a, ok := m.arrays[base.Key()]
	if !ok {
		return Q{}, errors.Errorf("memory: read from unallocated base %s", base)
	}
	if idx >= len(a.cells) {
		return Q{}, errors.Errorf("memory: offset %d out of bounds for base %s (len %d)", idx, base, len(a.cells))
	}
	return a.cells[idx], nil
}

// Write stores v at addr. Writes within the current bounds of the
// static image (base 0) are permitted; writes past its end, to an
// unallocated base, or past the end of a heap array, are errors.
func (m *Memory) Write(addr Q, v Q) error {
	idx, base, err := splitAddr(addr)
	if err != nil {
		return err
	}
	if base.IsZero() {
		if idx >= len(m.image.cells) {
			return errors.Errorf("memory: write past end of static image at offset %d (len %d)", idx, len(m.image.cells))
		}
		m.image.cells[idx] = v
		return nil
	}
	a, ok := m.arrays[base.Key()]
	if !ok {
		return errors.Errorf("memory: write to unallocated base %s", base)
	}
	if idx >= len(a.cells) {
		return errors.Errorf("memory: offset %d out of bounds for base %s (len %d)", idx, base, len(a.cells))
	}
	a.cells[idx] = v
	return nil
}

// Push appends v to the growable array at base.
func (m *Memory) Push(base Q, v Q) error {
	a, ok := m.arrays[base.Key()]
	if !ok {
		return errors.Errorf("memory: push to unallocated base %s", base)
	}
	a.cells = append(a.cells, v)
	return nil
}

// Pop removes and returns the last element of the array at base.
func (m *Memory) Pop(base Q) (Q, error) {
	a, ok := m.arrays[base.Key()]
	if !ok {
		return Q{}, errors.Errorf("memory: pop from unallocated base %s", base)
	}
	n := len(a.cells)
	if n == 0 {
		return Q{}, errors.Errorf("memory: pop from empty array %s", base)
	}
	v := a.cells[n-1]
	a.cells = a.cells[:n-1]
	return v, nil
}
