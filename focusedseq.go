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

import "github.com/construct-go/construct/internal/pp"

// FocusedSeq is a Struct-like sequence of named fields whose Parse/Build
// only exposes one of them -- the "focus" -- to the caller. The other
// fields exist purely to shape the bytes around it (a length prefix, a
// magic constant, a checksum) and are expected to be self-deriving:
// ConstField, Computed, or Rebuild, whose Build ignores whatever value
// it's handed.
type FocusedSeq struct {
	fields []StructField
	focus  string
}

// NewFocusedSeq builds a FocusedSeq over fields, exposing focus as the
// value Parse returns and Build/Preprocess accept.
func NewFocusedSeq(focus string, fields ...StructField) *FocusedSeq {
	return &FocusedSeq{fields: fields, focus: focus}
}

func (fs *FocusedSeq) Parse(s *Stream, ctx *Context) (any, error) {
	container := NewContainer()
	child := ctx.Child(container)
	for _, f := range fs.fields {
		start := s.Tell()
		v, err := f.Con.Parse(s, child)
		if err != nil {
			return nil, annotate(err, f.Name)
		}
		container.Set(f.Name, v)
		container.SetMeta(f.Name, NewMeta(start, s.Tell()-start))
	}
	return container.MustGet(fs.focus), nil
}

// preview builds a *Container holding the focus value plus a best-effort
// derivation of every other field's value (via buildPreview, where the
// field's Construct supports it), so that sibling expressions can see
// them regardless of declaration order.
func (fs *FocusedSeq) preview(focusVal any, ctx *Context) (*Container, *Context) {
	container := NewContainer()
	container.Set(fs.focus, focusVal)
	child := ctx.Child(container)
	for _, f := range fs.fields {
		if f.Name == fs.focus {
			continue
		}
		if bp, ok := f.Con.(buildPreview); ok {
			if v, err := bp.BuildValue(child); err == nil {
				container.Set(f.Name, v)
			}
		}
	}
	return container, child
}

func (fs *FocusedSeq) Build(obj any, s *Stream, ctx *Context) error {
	container, child := fs.preview(obj, ctx)
	for _, f := range fs.fields {
		val, _ := container.Get(f.Name)
		if err := f.Con.Build(val, s, child); err != nil {
			return annotate(err, f.Name)
		}
	}
	return nil
}

func (fs *FocusedSeq) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	container, child := fs.preview(obj, ctx)

	type pending struct {
		name string
		d    pp.Deferred
	}
	var deferred []pending

	running := offset
	for _, f := range fs.fields {
		val, _ := container.Get(f.Name)
		newVal, size, err := f.Con.Preprocess(val, child, running)
		if err != nil {
			return nil, 0, annotate(err, f.Name)
		}
		if d, ok := newVal.(pp.Deferred); ok {
			deferred = append(deferred, pending{f.Name, d})
		}
		container.Set(f.Name, newVal)
		container.SetMeta(f.Name, NewMeta(running, size))
		running += size
	}
	for _, p := range deferred {
		v, err := p.d.Resolve()
		if err != nil {
			return nil, 0, newErr(ExplicitError, p.name, err)
		}
		container.Set(p.name, v)
	}
	return container.MustGet(fs.focus), running - offset, nil
}

func (fs *FocusedSeq) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(fs, obj, ctx, offset)
}

func (fs *FocusedSeq) StaticSizeof(ctx *Context) (int, error) {
	child := ctx.Child(NewContainer())
	total := 0
	for _, f := range fs.fields {
		n, err := f.Con.StaticSizeof(child)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (fs *FocusedSeq) Sizeof(obj any, ctx *Context) (int, error) {
	container, child := fs.preview(obj, ctx)
	total := 0
	for _, f := range fs.fields {
		val, _ := container.Get(f.Name)
		n, err := Sizeof(f.Con, val, child)
		if err != nil {
			return 0, annotate(err, f.Name)
		}
		total += n
	}
	return total, nil
}

func (fs *FocusedSeq) ToElement(obj any, parent Element, name string) error {
	container, _ := fs.preview(obj, NewRootContext(NewContainer()))
	el := parent.AddChild(name)
	for _, f := range fs.fields {
		val, _ := container.Get(f.Name)
		if err := f.Con.ToElement(val, el, f.Name); err != nil {
			return annotate(err, f.Name)
		}
	}
	return nil
}

func (fs *FocusedSeq) FromElement(el Element, ctx *Context, name string) (any, error) {
	child, ok := el.Child(name)
	if !ok {
		return nil, newErrf(XMLError, name, "missing element %q", name)
	}
	container := NewContainer()
	cctx := ctx.Child(container)
	for _, f := range fs.fields {
		v, err := f.Con.FromElement(child, cctx, f.Name)
		if err != nil {
			return nil, annotate(err, f.Name)
		}
		container.Set(f.Name, v)
	}
	return container.MustGet(fs.focus), nil
}
