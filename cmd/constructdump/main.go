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

// constructdump loads a description registered under a name and parses a
// file against it, printing either an indented field dump or its XML
// interchange form.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/construct-go/construct"
)

var (
	format     = flag.String("format", "dump", "output format: 'dump' or 'xml'")
	maxDepth   = flag.Int("max-depth", 0, "maximum recursion depth (0 = unlimited)")
	allowTrail = flag.Bool("allow-trailing", false, "do not error on unconsumed trailing bytes")
	color      = flag.Bool("color", false, "force-enable colorized dump output (default: auto-detect a TTY)")
)

func run(name, path string) error {
	desc, ok := construct.DefaultRegistry.Lookup(name)
	if !ok {
		return fmt.Errorf("constructdump: no description registered under %q", name)
	}

	opts := []construct.ParseOption{
		construct.WithMaxDepth(*maxDepth),
		construct.WithAllowTrailingBytes(*allowTrail),
	}
	v, err := construct.ParseFile(desc, path, opts...)
	if err != nil {
		return fmt.Errorf("constructdump: parsing %s: %w", path, err)
	}

	switch *format {
	case "dump":
		useColor := *color || term.IsTerminal(int(os.Stdout.Fd()))
		printDump(os.Stdout, v, useColor)
	case "xml":
		el, err := construct.ElementOf(desc, v, name)
		if err != nil {
			return fmt.Errorf("constructdump: rendering XML: %w", err)
		}
		out, err := construct.MarshalElement(el)
		if err != nil {
			return fmt.Errorf("constructdump: marshaling XML: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(out))
	default:
		return fmt.Errorf("constructdump: unknown -format %q", *format)
	}
	return nil
}

// printDump writes construct.Dump's tree, optionally wrapping offset/size
// annotations (anything between "/*" and "*/") in a dim ANSI color when
// writing to an interactive terminal.
func printDump(w *os.File, v any, useColor bool) {
	text := construct.Dump(v)
	if !useColor {
		fmt.Fprint(w, text)
		return
	}
	const dim, reset = "\x1b[2m", "\x1b[0m"
	inAnnotation := false
	for i := 0; i < len(text); i++ {
		if i+1 < len(text) && text[i] == '/' && text[i+1] == '*' && !inAnnotation {
			fmt.Fprint(w, dim)
			inAnnotation = true
		}
		fmt.Fprintf(w, "%c", text[i])
		if i > 0 && text[i-1] == '*' && text[i] == '/' && inAnnotation {
			fmt.Fprint(w, reset)
			inAnnotation = false
		}
	}
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <description> <file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
