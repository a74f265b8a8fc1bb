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

package construct

import (
	"fmt"
	"strings"

	"github.com/construct-go/construct/internal/xdebug"
)

// Stringer/Formatter implementations for the object model. These are only
// relevant for debugging and tracing and are thus placed off to the side
// here.

// Format implements [fmt.Formatter] for Meta, rendering it as a dictionary
// of its derived facts rather than its packed internal representation.
func (m Meta) Format(s fmt.State, verb rune) {
	if verb != 'v' {
		fmt.Fprintf(s, "%%%c(construct.Meta)", verb)
		return
	}
	var ptr any
	if n, ok := m.PtrSize(); ok {
		ptr = n
	}
	xdebug.Dict("", "offset", m.Offset(), "size", m.Size(), "ptrsize", ptr).Format(s, verb)
}

// Format implements [fmt.Formatter] for *Container. Fields are rendered in
// insertion order with their attached [Meta], when present -- this is what
// an [xdebug.Session] logs after each ParseBytes/BuildBytes call.
func (c *Container) Format(s fmt.State, verb rune) {
	if verb != 'v' {
		fmt.Fprintf(s, "%%%c(*construct.Container)", verb)
		return
	}
	buf := new(strings.Builder)
	buf.WriteString("Container{")
	for i, name := range c.order {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(buf, "%s: %v", name, c.values[name])
		if m, ok := c.meta[name]; ok {
			fmt.Fprintf(buf, " /*%v*/", m)
		}
	}
	buf.WriteString("}")
	fmt.Fprint(s, buf.String())
}

// String implements [fmt.Stringer] in terms of Format, so that a *Container
// reads sensibly under %s and %q as well as %v.
func (c *Container) String() string { return fmt.Sprintf("%v", c) }

// Format implements [fmt.Formatter] for *ListContainer.
func (l *ListContainer) Format(s fmt.State, verb rune) {
	if verb != 'v' {
		fmt.Fprintf(s, "%%%c(*construct.ListContainer)", verb)
		return
	}
	buf := new(strings.Builder)
	buf.WriteString("[")
	for i, v := range l.items {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(buf, "%v", v)
		if m, ok := l.Meta(i); ok {
			fmt.Fprintf(buf, " /*%v*/", m)
		}
	}
	buf.WriteString("]")
	fmt.Fprint(s, buf.String())
}

// String implements [fmt.Stringer] in terms of Format.
func (l *ListContainer) String() string { return fmt.Sprintf("%v", l) }

// Dump renders obj as an indented tree, descending into *Container and
// *ListContainer values and annotating each field with its [Meta] when one
// is attached. Used by cmd/constructdump; not on any parse/build hot path.
func Dump(obj any) string {
	buf := new(strings.Builder)
	dumpValue(buf, obj, 0)
	return buf.String()
}

func dumpValue(buf *strings.Builder, obj any, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := obj.(type) {
	case *Container:
		for _, name := range v.order {
			fmt.Fprintf(buf, "%s%s:", indent, name)
			if m, ok := v.meta[name]; ok {
				fmt.Fprintf(buf, " /*%v*/", m)
			}
			buf.WriteString("\n")
			dumpValue(buf, v.values[name], depth+1)
		}
	case *ListContainer:
		for i, item := range v.items {
			fmt.Fprintf(buf, "%s[%d]:", indent, i)
			if m, ok := v.Meta(i); ok {
				fmt.Fprintf(buf, " /*%v*/", m)
			}
			buf.WriteString("\n")
			dumpValue(buf, item, depth+1)
		}
	default:
		fmt.Fprintf(buf, "%s%v\n", indent, v)
	}
}
