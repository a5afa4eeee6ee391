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

// Command ratmach assembles and runs rational-word machine programs.
//
// Usage:
//
//	ratmach [-s file] [-i file] [-o file] [-noraw] [-debug] [args...]
//
// With no -s or -i, source is read from stdin and assembled. With -i,
// a previously assembled image is loaded instead (the textual format
// read and written by vm.ReadImage/vm.WriteImage), skipping assembly
// entirely. With -o, the assembled (or loaded) image is written to the
// named file instead of being run. Otherwise the image is run to
// completion: stdin is fed to the process's standard input stream rune
// by rune whenever it blocks on get, and the process's stdout and
// stderr streams are drained to the host's after every run. Any
// positional arguments after the flags become the process's argv.
package main
