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
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/elemel/quest/asm"
	"github.com/elemel/quest/internal/qtext"
	"github.com/elemel/quest/vm"
)

var debug bool

func atExit(i *vm.Instance, err error) {
	if err == nil {
		return
	}
	if debug {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		if i != nil {
			dumpVM(i, os.Stderr)
		}
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(1)
}

// feed pumps host stdin into the process's stdin stream one rune at a
// time whenever a run suspends on StatusBlocked, and closes the stream
// on host EOF instead of blocking forever.
func feed(i *vm.Instance, in *bufio.Reader) error {
	r, _, err := in.ReadRune()
	if err != nil {
		if err == io.EOF {
			return i.Close(vm.Stdin)
		}
		return errors.Wrap(err, "stdin")
	}
	return i.Write(vm.Stdin, string(r))
}

func main() {
	var err error
	var inst *vm.Instance

	srcName := flag.String("s", "", "assemble source from `file` (default: stdin)")
	imgName := flag.String("i", "", "load a previously assembled image from `file` instead of assembling source")
	outName := flag.String("o", "", "write the assembled image to `file` instead of running it")
	noRawIO := flag.Bool("noraw", false, "disable raw terminal IO for stdin")
	flag.BoolVar(&debug, "debug", false, "on a fatal error, dump registers and stacks to stderr")
	flag.Parse()

	defer func() { atExit(inst, err) }()

	var image []vm.Q

	if *imgName != "" {
		f, ferr := os.Open(*imgName)
		if ferr != nil {
			err = errors.Wrap(ferr, "open image")
			return
		}
		image, err = vm.ReadImage(f)
		f.Close()
		if err != nil {
			return
		}
	} else {
		var src io.Reader = os.Stdin
		name := "<stdin>"
		if *srcName != "" {
			f, ferr := os.Open(*srcName)
			if ferr != nil {
				err = errors.Wrap(ferr, "open source")
				return
			}
			defer f.Close()
			src = f
			name = *srcName
		}

		image, err = asm.Assemble(name, src)
		if err != nil {
			return
		}
	}

	if *outName != "" {
		f, ferr := os.Create(*outName)
		if ferr != nil {
			err = errors.Wrap(ferr, "create image")
			return
		}
		defer f.Close()
		err = vm.WriteImage(f, image)
		return
	}

	inst, err = vm.New(image, flag.Args())
	if err != nil {
		return
	}

	if !*noRawIO {
		if tearDown, rerr := setRawIO(); rerr == nil {
			defer tearDown()
		}
	}

	stdin := bufio.NewReader(os.Stdin)
	stdout := qtext.NewErrWriter(os.Stdout)
	stderr := qtext.NewErrWriter(os.Stderr)

	for {
		var status vm.Status
		status, err = inst.Run()

		io.WriteString(stdout, inst.Read(vm.Stdout))
		io.WriteString(stderr, inst.Read(vm.Stderr))
		if stdout.Err != nil {
			err = stdout.Err
			return
		}
		if stderr.Err != nil {
			err = stderr.Err
			return
		}
		if err != nil {
			return
		}

		switch status {
		case vm.StatusTerminated:
			return
		case vm.StatusClosed:
			err = errors.New("ratmach: process stalled reading a closed, empty stream")
			return
		case vm.StatusBlocked:
			if err = feed(inst, stdin); err != nil {
				return
			}
		}
	}
}
