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
	"os"

	"github.com/construct-go/construct/internal/xdebug"
)

// Construct is the contract every combinator implements: the polymorphic
// core of parse, build, preprocess, and XML interchange.
//
// Three size-related operations -- Sizeof, FullSizeof, and ExpectedSizeof --
// are deliberately not part of this interface. Most combinators get them for
// free from StaticSizeof via [Sizeof]/[FullSizeof]/[ExpectedSizeof]; a
// combinator that needs a sharper answer (e.g. Bytes, whose size depends on
// a runtime value) implements the matching optional interface
// (sizer/fullSizer/expectedSizer below) and the package-level helper picks
// it up automatically, the same capability-check pattern Go's standard
// library uses for io.ReaderFrom/WriterTo.
type Construct interface {
	// Parse reads from s, returning the parsed value with its meta filled
	// into ctx's container (if any).
	Parse(s *Stream, ctx *Context) (any, error)
	// Build writes obj to s.
	Build(obj any, s *Stream, ctx *Context) error
	// Preprocess returns a transformed value with meta filled in, plus its
	// size, given the running offset so far.
	Preprocess(obj any, ctx *Context, offset int) (value any, size int, err error)
	// PreprocessSize is like Preprocess but skips value rewriting, when a
	// caller only needs the size.
	PreprocessSize(obj any, ctx *Context, offset int) (size int, err error)
	// StaticSizeof returns this Construct's size when it does not depend on
	// a value, or an *Error with Kind==UnknownSizeError otherwise. That
	// error is a non-fatal signal: callers that can live without a static
	// answer (e.g. [Sizeof]) fall back gracefully.
	StaticSizeof(ctx *Context) (int, error)
	// ToElement renders obj as a fragment under parent, named name.
	ToElement(obj any, parent Element, name string) error
	// FromElement parses obj back out of el.
	FromElement(el Element, ctx *Context, name string) (any, error)
}

type sizer interface {
	Sizeof(obj any, ctx *Context) (int, error)
}

type fullSizer interface {
	FullSizeof(obj any, ctx *Context) (int, error)
}

type expectedSizer interface {
	ExpectedSizeof(s *Stream, ctx *Context) (int, error)
}

// Sizeof returns the actual size of obj under c, falling back to
// [Construct.StaticSizeof] if c does not implement a dynamic Sizeof.
func Sizeof(c Construct, obj any, ctx *Context) (int, error) {
	if s, ok := c.(sizer); ok {
		return s.Sizeof(obj, ctx)
	}
	return c.StaticSizeof(ctx)
}

// FullSizeof returns the size of obj under c including any pointed-to
// regions, falling back to [Sizeof].
func FullSizeof(c Construct, obj any, ctx *Context) (int, error) {
	if s, ok := c.(fullSizer); ok {
		return s.FullSizeof(obj, ctx)
	}
	return Sizeof(c, obj, ctx)
}

// ExpectedSizeof inspects s (without consuming it) to determine how many
// bytes a subsequent Parse would consume, falling back to
// [Construct.StaticSizeof] for fixed-size constructs.
func ExpectedSizeof(c Construct, s *Stream, ctx *Context) (int, error) {
	if e, ok := c.(expectedSizer); ok {
		return e.ExpectedSizeof(s, ctx)
	}
	return c.StaticSizeof(ctx)
}

// DefaultPreprocessSize implements the common case of PreprocessSize: run
// Preprocess and discard the rewritten value. Combinators whose Preprocess
// does no allocation beyond what PreprocessSize alone would need should use
// this rather than duplicating the size computation.
func DefaultPreprocessSize(c Construct, obj any, ctx *Context, offset int) (int, error) {
	_, size, err := c.Preprocess(obj, ctx, offset)
	return size, err
}

// unsupportedXML is embedded by combinators with no sensible XML rendering
// (e.g. Padding), giving them ToElement/FromElement that fail loudly
// instead of silently producing nothing.
type unsupportedXML struct{ what string }

func (u unsupportedXML) ToElement(any, Element, string) error {
	return newErrf(XMLError, "", "%s does not support XML rendering", u.what)
}

func (u unsupportedXML) FromElement(Element, *Context, string) (any, error) {
	return nil, newErrf(XMLError, "", "%s does not support XML rendering", u.what)
}

// ParseBytes parses data with description c.
func ParseBytes(c Construct, data []byte, opts ...ParseOption) (v any, err error) {
	var o parseOptions
	for _, opt := range opts {
		opt.apply(&o)
	}

	s := NewReader(data)
	root := NewContainer()
	ctx := NewRootContext(root)
	ctx.limits = &depthLimit{max: o.maxDepth}
	session := xdebug.NewSession()

	defer func() {
		if r := recover(); r != nil {
			if d, ok := r.(errMaxDepth); ok {
				err = newErrf(RangeError, "", "Parse exceeded max depth %d", d.max)
				return
			}
			panic(r)
		}
	}()

	v, err = c.Parse(s, ctx)
	if err != nil {
		session.Log("parse failed: %v", err)
		return nil, err
	}
	if !o.allowTrailingBytes && !s.EOF() {
		err := newErrf(StreamError, "", "%d trailing bytes after Parse", s.Size()-s.Tell())
		session.Log("parse failed: %v", err)
		return nil, err
	}
	session.Log("parsed %v", v)
	return v, nil
}

// BuildBytes builds obj with description c into a new byte slice.
func BuildBytes(c Construct, obj any, opts ...BuildOption) (out []byte, err error) {
	var o buildOptions
	for _, opt := range opts {
		opt.apply(&o)
	}

	s := NewWriter()
	ctx := contextFor(obj)
	ctx.limits = &depthLimit{max: o.maxDepth}
	session := xdebug.NewSession()

	defer func() {
		if r := recover(); r != nil {
			if d, ok := r.(errMaxDepth); ok {
				err = newErrf(RangeError, "", "Build exceeded max depth %d", d.max)
				return
			}
			panic(r)
		}
	}()

	if err := c.Build(obj, s, ctx); err != nil {
		session.Log("build failed: %v", err)
		return nil, err
	}
	session.Log("built %d bytes from %v", s.Size(), obj)
	return s.Bytes(), nil
}

// contextFor builds a root Context keyed to obj when obj is itself a
// ValueSource (a *Container or *ListContainer), or an empty root context
// otherwise (for atomic top-level values).
func contextFor(obj any) *Context {
	if vs, ok := obj.(ValueSource); ok {
		return NewRootContext(vs)
	}
	return NewRootContext(NewContainer())
}

// ParseFile reads the named file and parses it with description c.
func ParseFile(c Construct, path string, opts ...ParseOption) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBytes(c, data, opts...)
}

// BuildFile builds obj with description c and writes the result to the
// named file.
func BuildFile(c Construct, obj any, path string, opts ...BuildOption) error {
	data, err := BuildBytes(c, obj, opts...)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
