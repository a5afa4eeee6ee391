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
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// WriteImage persists words to w as the textual image format: one
// reduced "numerator/denominator" (or bare integer when the
// denominator is 1) per line, in order.
func WriteImage(w io.Writer, words []Q) error {
	bw := bufio.NewWriter(w)
	for _, word := range words {
		if _, err := io.WriteString(bw, word.String()); err != nil {
			return errors.Wrap(err, "image: write")
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "image: write")
		}
	}
	return bw.Flush()
}

// ReadImage parses the textual image format produced by WriteImage:
// one rational literal per line, blank lines ignored.
func ReadImage(r io.Reader) ([]Q, error) {
	sc := bufio.NewScanner(r)
	var words []Q
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		q, err := ParseQ(s)
		if err != nil {
			return nil, errors.Wrapf(err, "image: line %d", line)
		}
		words = append(words, q)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "image: read")
	}
	return words, nil
}
