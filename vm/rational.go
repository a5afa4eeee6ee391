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

// Q is the single datum type of the machine: an arbitrary-precision
// rational number. The zero value of Q is the rational 0.
//
// Q is immutable: every method returns a new value and never mutates
// its receiver or arguments, so values of Q can be freely shared,
// copied and used as map keys via Key.
type Q struct {
	r *big.Rat
}

var zeroRat = big.NewRat(0, 1)
var oneRat = big.NewRat(1, 1)

func (q Q) rat() *big.Rat {
	if q.r == nil {
		return zeroRat
	}
	return q.r
}

// Zero returns the rational 0.
func Zero() Q { return Q{} }

// One returns the rational 1.
func One() Q { return Q{oneRat} }

// QFromInt64 returns the rational n/1.
func QFromInt64(n int64) Q { return Q{big.NewRat(n, 1)} }

// QFromBigInt returns the rational n/1.
func QFromBigInt(n *big.Int) Q { return Q{new(big.Rat).SetInt(n)} }

// QFromFrac returns the rational num/den, reduced to lowest terms. It
// panics if den is zero, mirroring big.NewRat.
func QFromFrac(num, den int64) Q { return Q{big.NewRat(num, den)} }

// ParseQ parses s as a decimal integer or an "a/b" fraction.
func ParseQ(s string) (Q, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Q{}, errors.Errorf("invalid rational literal %q", s)
	}
	return Q{r}, nil
}

// MustParseQ is like ParseQ but panics on error. It is intended for
// use with literal strings known to be valid at compile time.
func MustParseQ(s string) Q {
	q, err := ParseQ(s)
	if err != nil {
		panic(err)
	}
	return q
}

// String returns "a" if the denominator is 1, and "a/b" otherwise.
func (q Q) String() string { return q.rat().RatString() }

// Key returns a canonical string representation of q suitable for use
// as a map key (e.g. heap base addresses, opcode tables).
func (q Q) Key() string { return q.rat().RatString() }

// Add returns q + o.
func (q Q) Add(o Q) Q { return Q{new(big.Rat).Add(q.rat(), o.rat())} }

// Sub returns q - o.
func (q Q) Sub(o Q) Q { return Q{new(big.Rat).Sub(q.rat(), o.rat())} }

// Mul returns q * o.
func (q Q) Mul(o Q) Q { return Q{new(big.Rat).Mul(q.rat(), o.rat())} }

// Quo returns q / o. It errors if o is zero.
func (q Q) Quo(o Q) (Q, error) {
	if o.Sign() == 0 {
		return Q{}, errors.New("division by zero")
	}
	return Q{new(big.Rat).Quo(q.rat(), o.rat())}, nil
}

// Neg returns -q.
func (q Q) Neg() Q { return Q{new(big.Rat).Neg(q.rat())} }

// Inv returns 1/q. It errors if q is zero.
func (q Q) Inv() (Q, error) {
	if q.Sign() == 0 {
		return Q{}, errors.New("reciprocal of zero")
	}
	return Q{new(big.Rat).Inv(q.rat())}, nil
}

// Cmp compares q and o: -1 if q<o, 0 if q==o, 1 if q>o.
func (q Q) Cmp(o Q) int { return q.rat().Cmp(o.rat()) }

// Sign returns -1, 0 or 1 depending on the sign of q.
func (q Q) Sign() int { return q.rat().Sign() }

// IsZero reports whether q is the rational 0.
func (q Q) IsZero() bool { return q.Sign() == 0 }

// IsInt reports whether q has a denominator of 1.
func (q Q) IsInt() bool { return q.rat().IsInt() }

// Num returns the numerator of q, as an integer rational.
func (q Q) Num() Q { return QFromBigInt(q.rat().Num()) }

// Denom returns the denominator of q, as an integer rational. It is
// always positive.
func (q Q) Denom() Q { return QFromBigInt(q.rat().Denom()) }

// Floor returns the greatest integer less than or equal to q.
func (q Q) Floor() *big.Int {
	num := q.rat().Num()
	den := q.rat().Denom()
	z := new(big.Int)
	m := new(big.Int)
	z.DivMod(num, den, m)
	return z
}

// DivMod1 splits q into an integer part (its floor) and a fractional
// part in [0, 1), such that q == whole + frac. This is the decoding
// step used to split an instruction word into its operand and opcode.
func (q Q) DivMod1() (whole Q, frac Q) {
	num := q.rat().Num()
	den := q.rat().Denom()
	qq := new(big.Int)
	rr := new(big.Int)
	qq.DivMod(num, den, rr)
	whole = QFromBigInt(qq)
	frac = Q{new(big.Rat).SetFrac(rr, new(big.Int).Set(den))}
	return
}

// Mod1 returns the fractional part of q, a value in [0, 1).
func (q Q) Mod1() Q {
	_, f := q.DivMod1()
	return f
}

// Mod returns the Euclidean remainder of q divided by o: the value r in
// [0, |o|) such that q - r is a whole multiple of o. It errors if o is
// zero, mirroring Quo.
func (q Q) Mod(o Q) (Q, error) {
	quo, err := q.Quo(o)
	if err != nil {
		return Q{}, err
	}
	whole := QFromBigInt(quo.Floor())
	r := q.Sub(whole.Mul(o))
	if r.Sign() < 0 {
		// only possible for o < 0: q - o*floor(q/o) lies in (o, 0]
		r = r.Sub(o)
	}
	return r, nil
}

// IntIndex interprets q as a non-negative machine-representable
// integer (an array offset or similar) and errors otherwise.
func (q Q) IntIndex() (int, error) {
	if !q.IsInt() {
		return 0, errors.Errorf("%s is not an integer", q)
	}
	if q.Sign() < 0 {
		return 0, errors.Errorf("negative index %s", q)
	}
	n := q.rat().Num()
	if !n.IsInt64() {
		return 0, errors.Errorf("index %s out of range", q)
	}
	v := n.Int64()
	if int64(int(v)) != v {
		return 0, errors.Errorf("index %s out of range", q)
	}
	return int(v), nil
}

// FloorInt returns floor(q) as a machine int, erroring if it does not
// fit. It is used to turn rational handles and codepoints into Go
// integers.
func (q Q) FloorInt() (int, error) {
	f := q.Floor()
	if !f.IsInt64() {
		return 0, errors.Errorf("%s out of range", q)
	}
	v := f.Int64()
	if int64(int(v)) != v {
		return 0, errors.Errorf("%s out of range", q)
	}
	return int(v), nil
}
