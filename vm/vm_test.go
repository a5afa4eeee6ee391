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
	"testing"
)

// TestNextKeyDense walks the first several terms of the dense
// enumeration of the rationals in [0, 1) and checks that every key is
// distinct, stays within range, and matches the expected canonical
// ordering by increasing denominator, then numerator, skipping
// unreduced fractions: 1/2, 1/3, 2/3, 1/4, 3/4, 1/5, ...
func TestNextKeyDense(t *testing.T) {
	want := []string{
		"1/2", "1/3", "2/3", "1/4", "3/4",
		"1/5", "2/5", "3/5", "4/5",
		"1/6", "5/6",
	}
	q := initialBase
	for idx, w := range want {
		if q.Key() != w {
			t.Fatalf("term %d: got %s, want %s", idx, q.Key(), w)
		}
		q = nextKey(q)
	}
}

func TestNextKeyNeverRepeats(t *testing.T) {
	seen := make(map[string]bool)
	q := initialBase
	for i := 0; i < 500; i++ {
		k := q.Key()
		if seen[k] {
			t.Fatalf("key %s repeated after %d terms", k, i)
		}
		seen[k] = true
		if q.Sign() <= 0 || q.Cmp(One()) >= 0 {
			t.Fatalf("term %d (%s) out of range [0, 1)", i, k)
		}
		q = nextKey(q)
	}
}

func TestKeyIndexMonotonic(t *testing.T) {
	q := initialBase
	prev := big.NewInt(-1)
	for i := 0; i < 200; i++ {
		idx := KeyIndex(q)
		if idx.Cmp(prev) <= 0 {
			t.Fatalf("term %d: KeyIndex(%s) = %s did not increase past %s", i, q, idx, prev)
		}
		prev = idx
		q = nextKey(q)
	}
}

func TestMemoryNewRecyclesFreedBases(t *testing.T) {
	m := NewMemory()
	a := m.New(4)
	b := m.New(4)
	if err := m.Delete(a); err != nil {
		t.Fatal(err)
	}
	c := m.New(4)
	if c.Key() != a.Key() {
		t.Fatalf("New after Delete: got base %s, want recycled base %s", c, a)
	}
	if b.Key() == a.Key() {
		t.Fatalf("distinct allocations share a base: %s", b)
	}
}

func TestMemoryStaticImageSparseRead(t *testing.T) {
	m := NewMemory()
	m.LoadImage([]Q{QFromInt64(1), QFromInt64(2)})
	v, err := m.Read(QFromInt64(5))
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsZero() {
		t.Fatalf("read past end of static image: got %s, want 0", v)
	}
	v, err = m.Read(QFromInt64(1))
	if err != nil {
		t.Fatal(err)
	}
	if v.Cmp(QFromInt64(2)) != 0 {
		t.Fatalf("read in-bounds: got %s, want 2", v)
	}
}

func TestMemoryWritePastStaticImageIsFatal(t *testing.T) {
	m := NewMemory()
	m.LoadImage([]Q{QFromInt64(1)})
	if err := m.Write(QFromInt64(5), QFromInt64(9)); err == nil {
		t.Fatal("expected an error writing past the end of the static image")
	}
}

func TestMemoryHeapBoundsChecked(t *testing.T) {
	m := NewMemory()
	base := m.New(2)
	if err := m.Write(base.Add(QFromInt64(1)), QFromInt64(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Read(base.Add(QFromInt64(2))); err == nil {
		t.Fatal("expected an out-of-bounds read to fail")
	}
}
