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
	"github.com/construct-go/construct/internal/pp"
)

// StructField names one field of a [Struct].
type StructField struct {
	Name string
	Con  Construct
}

// F is shorthand for a [StructField] literal.
func F(name string, con Construct) StructField { return StructField{Name: name, Con: con} }

// Struct is an ordered sequence of named fields, built/parsed/preprocessed
// one at a time, left to right, each seeing the fields before it in its
// Context.
type Struct struct {
	fields []StructField
}

// NewStruct builds a Struct from its fields, in declaration order.
func NewStruct(fields ...StructField) *Struct {
	return &Struct{fields: fields}
}

func (st *Struct) Parse(s *Stream, ctx *Context) (any, error) {
	container := NewContainer()
	child := ctx.Child(container)
	for _, f := range st.fields {
		start := s.Tell()
		val, err := f.Con.Parse(s, child)
		if err != nil {
			return nil, annotate(err, f.Name)
		}
		container.Set(f.Name, val)
		m := NewMeta(start, s.Tell()-start)
		if ps, ok := f.Con.(pointerSized); ok {
			if n, err := ps.TargetSize(val, child); err == nil {
				m = m.WithPtrSize(n)
			}
		}
		container.SetMeta(f.Name, m)
	}
	return container, nil
}

func (st *Struct) Build(obj any, s *Stream, ctx *Context) error {
	container, ok := obj.(*Container)
	if !ok {
		return newErrf(FormatError, "", "Struct.Build expected *Container, got %T", obj)
	}
	child := ctx.Child(container)
	for _, f := range st.fields {
		val, ok := container.Get(f.Name)
		if !ok {
			return newErrf(FormatError, f.Name, "missing field %q", f.Name)
		}
		if err := f.Con.Build(val, s, child); err != nil {
			return annotate(err, f.Name)
		}
	}
	return nil
}

// Preprocess implements the five-step algorithm: recurse into each child,
// write meta and advance the running offset (except for Pointer/Area
// targets, whose size does not occupy the containing Struct), collect
// Rebuild fields as deferred values, then resolve those deferred values in
// a second left-to-right sweep once every sibling's meta/aliases are in
// place.
func (st *Struct) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	src, ok := obj.(*Container)
	if !ok {
		return nil, 0, newErrf(FormatError, "", "Struct.Preprocess expected *Container, got %T", obj)
	}
	clone, err := src.Clone()
	if err != nil {
		return nil, 0, newErr(FormatError, "", err)
	}
	child := ctx.Child(clone)

	type pending struct {
		name string
		d    pp.Deferred
	}
	var deferred []pending

	running := offset
	for _, f := range st.fields {
		val, ok := clone.Get(f.Name)
		if !ok {
			return nil, 0, newErrf(FormatError, f.Name, "missing field %q", f.Name)
		}
		newVal, size, err := f.Con.Preprocess(val, child, running)
		if err != nil {
			return nil, 0, annotate(err, f.Name)
		}
		if d, ok := newVal.(pp.Deferred); ok {
			deferred = append(deferred, pending{f.Name, d})
		}
		clone.Set(f.Name, newVal)

		m := NewMeta(running, size)
		if ps, ok := f.Con.(pointerSized); ok {
			if n, err := ps.TargetSize(val, child); err == nil {
				m = m.WithPtrSize(n)
			}
		}
		clone.SetMeta(f.Name, m)
		running += size
	}

	for _, p := range deferred {
		v, err := p.d.Resolve()
		if err != nil {
			return nil, 0, newErr(ExplicitError, p.name, err)
		}
		clone.Set(p.name, v)
	}

	return clone, running - offset, nil
}

func (st *Struct) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(st, obj, ctx, offset)
}

func (st *Struct) StaticSizeof(ctx *Context) (int, error) {
	child := ctx.Child(NewContainer())
	total := 0
	for _, f := range st.fields {
		n, err := f.Con.StaticSizeof(child)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (st *Struct) Sizeof(obj any, ctx *Context) (int, error) {
	container, ok := obj.(*Container)
	if !ok {
		return 0, newErrf(FormatError, "", "Struct.Sizeof expected *Container, got %T", obj)
	}
	child := ctx.Child(container)
	total := 0
	for _, f := range st.fields {
		val, _ := container.Get(f.Name)
		n, err := Sizeof(f.Con, val, child)
		if err != nil {
			return 0, annotate(err, f.Name)
		}
		total += n
	}
	return total, nil
}

func (st *Struct) FullSizeof(obj any, ctx *Context) (int, error) {
	container, ok := obj.(*Container)
	if !ok {
		return 0, newErrf(FormatError, "", "Struct.FullSizeof expected *Container, got %T", obj)
	}
	child := ctx.Child(container)
	total := 0
	for _, f := range st.fields {
		val, _ := container.Get(f.Name)
		n, err := FullSizeof(f.Con, val, child)
		if err != nil {
			return 0, annotate(err, f.Name)
		}
		total += n
	}
	return total, nil
}

func (st *Struct) ToElement(obj any, parent Element, name string) error {
	container, ok := obj.(*Container)
	if !ok {
		return newErrf(FormatError, "", "Struct.ToElement expected *Container, got %T", obj)
	}
	el := parent.AddChild(name)
	for _, f := range st.fields {
		val, ok := container.Get(f.Name)
		if !ok {
			return newErrf(FormatError, f.Name, "missing field %q", f.Name)
		}
		if err := f.Con.ToElement(val, el, f.Name); err != nil {
			return annotate(err, f.Name)
		}
	}
	return nil
}

func (st *Struct) FromElement(el Element, ctx *Context, name string) (any, error) {
	child, ok := el.Child(name)
	if !ok {
		return nil, newErrf(XMLError, name, "missing element %q", name)
	}
	container := NewContainer()
	cctx := ctx.Child(container)
	for _, f := range st.fields {
		val, err := f.Con.FromElement(child, cctx, f.Name)
		if err != nil {
			return nil, annotate(err, f.Name)
		}
		container.Set(f.Name, val)
	}
	return container, nil
}

// annotate prepends field to err's path, if err is a *Error.
func annotate(err error, field string) error {
	if e, ok := err.(*Error); ok {
		if e.Path == "" {
			e.Path = field
		} else {
			e.Path = field + "." + e.Path
		}
		return e
	}
	return err
}

// pointerSized is implemented by Pointer (and Area): it reports the size of
// the region a field addresses, so that the containing Struct can attach
// it as "_<name>_ptrsize" without the Struct needing to know about Pointer
// specifically.
type pointerSized interface {
	TargetSize(obj any, ctx *Context) (int, error)
}
