// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package xdebug provides lazily-formatted trace logging for the parse,
// build, and preprocess passes.
//
// Tracing is gated on the CONSTRUCT_DEBUG environment variable so that the
// formatting cost (which walks containers and contexts with reflect-grade
// effort) is paid only when a caller asks for it.
package xdebug

import (
	"fmt"
	"os"

	"github.com/timandy/routine"
)

// Enabled reports whether trace logging was requested for this process.
var Enabled = os.Getenv("CONSTRUCT_DEBUG") != ""

// Formatter is a fmt.Formatter that defers its work until something actually
// formats it with %v, so call sites can write Log(...) unconditionally
// without paying for string building when tracing is off.
type Formatter func(s fmt.State)

// Format implements [fmt.Formatter].
func (f Formatter) Format(s fmt.State, verb rune) {
	if verb != 'v' {
		fmt.Fprintf(s, "%%%c(%T)", verb, f)
		return
	}
	f(s)
}

func (f Formatter) String() string { return fmt.Sprint(f) }

// Fprintf delays formatting until the returned value is itself formatted.
func Fprintf(format string, args ...any) Formatter {
	return Formatter(func(s fmt.State) { fmt.Fprintf(s, format, args...) })
}

// Dict pretty-prints the given key/value pairs as a dictionary.
func Dict(prefix any, kv ...any) Formatter {
	return Formatter(func(s fmt.State) {
		if len(kv)%2 != 0 {
			panic("xdebug: length must be divisible by 2")
		}
		if prefix == nil {
			prefix = ""
		}
		fmt.Fprintf(s, "%v{", prefix)
		first := true
		for i := range len(kv) / 2 {
			k, v := kv[2*i], kv[2*i+1]
			if v == nil {
				continue
			}
			if !first {
				fmt.Fprint(s, ", ")
			}
			first = false
			fmt.Fprintf(s, "%v: %v", k, v)
		}
		fmt.Fprint(s, "}")
	})
}

// Session is a trace-correlation id for one parse/build invocation, tagged
// with the goroutine it runs on -- distinct invocations in flight
// concurrently run on distinct goroutines, so log lines tagged this way
// stay untangled the same way the reference debug logger stamps a
// goroutine id onto every line it writes.
type Session struct {
	goid int64
}

// NewSession mints a trace session tagged with the calling goroutine.
// Cheap when Enabled is false: routine.Goid() is a thread-local read, not
// worth gating on its own.
func NewSession() Session {
	return Session{goid: routine.Goid()}
}

// Log writes a trace line tagged with this session's goroutine, if tracing
// is enabled.
func (s Session) Log(format string, args ...any) {
	if !Enabled {
		return
	}
	fmt.Fprintf(os.Stderr, "construct[g%04d]: "+format+"\n",
		append([]any{s.goid}, args...)...)
}
