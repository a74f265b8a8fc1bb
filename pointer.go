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

import "fmt"

// Pointer seeks to an absolute offset (given by addr, a constant int or
// [Expr]), runs subcon there, then restores the stream's original cursor.
// Its size contribution to an enclosing Struct is zero -- it reads
// out-of-line data, not inline bytes -- but it reports the target's size
// via TargetSize so the enclosing Struct can still record
// "_<name>_ptrsize".
type Pointer struct {
	addr   Expr
	subcon Construct
}

// NewPointer builds a Pointer to addr (an absolute stream offset).
func NewPointer(addr any, subcon Construct) *Pointer {
	return &Pointer{addr: asExpr(addr), subcon: subcon}
}

func (p *Pointer) Parse(s *Stream, ctx *Context) (any, error) {
	addr, err := evalInt(p.addr, ctx)
	if err != nil {
		return nil, err
	}
	save := s.Tell()
	if err := s.Seek(addr); err != nil {
		return nil, newErr(StreamError, "", err)
	}
	v, err := p.subcon.Parse(s, ctx)
	if seekErr := s.Seek(save); seekErr != nil && err == nil {
		err = newErr(StreamError, "", seekErr)
	}
	return v, err
}

func (p *Pointer) Build(obj any, s *Stream, ctx *Context) error {
	addr, err := evalInt(p.addr, ctx)
	if err != nil {
		return err
	}
	save := s.Tell()
	if err := s.Seek(addr); err != nil {
		return newErr(StreamError, "", err)
	}
	if err := p.subcon.Build(obj, s, ctx); err != nil {
		return err
	}
	if err := s.Seek(save); err != nil {
		return newErr(StreamError, "", err)
	}
	return nil
}

func (p *Pointer) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	addr, err := evalInt(p.addr, ctx)
	if err != nil {
		return nil, 0, err
	}
	v, _, err := p.subcon.Preprocess(obj, ctx, addr)
	if err != nil {
		return nil, 0, err
	}
	return v, 0, nil
}

func (p *Pointer) PreprocessSize(obj any, ctx *Context, offset int) (int, error) { return 0, nil }

func (p *Pointer) StaticSizeof(*Context) (int, error) { return 0, nil }

// TargetSize implements pointerSized.
func (p *Pointer) TargetSize(obj any, ctx *Context) (int, error) {
	return Sizeof(p.subcon, obj, ctx)
}

func (p *Pointer) ToElement(obj any, parent Element, name string) error {
	return p.subcon.ToElement(obj, parent, name)
}

func (p *Pointer) FromElement(el Element, ctx *Context, name string) (any, error) {
	return p.subcon.FromElement(el, ctx, name)
}

// Area is a Pointer/Array hybrid: it seeks to addr like Pointer, then
// parses/builds a run of subcon elements filling exactly size bytes,
// checking that size is an exact multiple of the element's static size.
type Area struct {
	addr   Expr
	size   Expr
	subcon Construct
}

// NewArea builds an Area at addr spanning size bytes of repeated subcon
// elements.
func NewArea(addr, size any, subcon Construct) *Area {
	return &Area{addr: asExpr(addr), size: asExpr(size), subcon: subcon}
}

func (a *Area) count(ctx *Context) (int, int, error) {
	size, err := evalInt(a.size, ctx)
	if err != nil {
		return 0, 0, err
	}
	elemSize, err := a.subcon.StaticSizeof(ctx)
	if err != nil {
		return 0, 0, err
	}
	if elemSize == 0 || size%elemSize != 0 {
		return 0, 0, newErrf(RangeError, "", "Area: size %d is not a multiple of element size %d", size, elemSize)
	}
	return size / elemSize, elemSize, nil
}

func (a *Area) Parse(s *Stream, ctx *Context) (any, error) {
	addr, err := evalInt(a.addr, ctx)
	if err != nil {
		return nil, err
	}
	n, _, err := a.count(ctx)
	if err != nil {
		return nil, err
	}
	save := s.Tell()
	if err := s.Seek(addr); err != nil {
		return nil, newErr(StreamError, "", err)
	}
	list := NewListContainer()
	child := ctx.Child(list)
	for i := 0; i < n; i++ {
		start := s.Tell()
		v, err := a.subcon.Parse(s, child)
		if err != nil {
			return nil, annotate(err, fmt.Sprint(i))
		}
		list.Append(v)
		list.SetMeta(i, NewMeta(start, s.Tell()-start))
	}
	if err := s.Seek(save); err != nil {
		return nil, newErr(StreamError, "", err)
	}
	return list, nil
}

func (a *Area) Build(obj any, s *Stream, ctx *Context) error {
	list, ok := obj.(*ListContainer)
	if !ok {
		return newErrf(FormatError, "", "Area.Build expected *ListContainer, got %T", obj)
	}
	addr, err := evalInt(a.addr, ctx)
	if err != nil {
		return err
	}
	save := s.Tell()
	if err := s.Seek(addr); err != nil {
		return newErr(StreamError, "", err)
	}
	child := ctx.Child(list)
	for i, v := range list.Items() {
		if err := a.subcon.Build(v, s, child); err != nil {
			return annotate(err, fmt.Sprint(i))
		}
	}
	return s.Seek(save)
}

func (a *Area) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	src, ok := obj.(*ListContainer)
	if !ok {
		return nil, 0, newErrf(FormatError, "", "Area.Preprocess expected *ListContainer, got %T", obj)
	}
	clone, err := src.Clone()
	if err != nil {
		return nil, 0, newErr(FormatError, "", err)
	}
	addr, err := evalInt(a.addr, ctx)
	if err != nil {
		return nil, 0, err
	}
	child := ctx.Child(clone)
	running := addr
	for i, v := range clone.Items() {
		nv, size, err := a.subcon.Preprocess(v, child, running)
		if err != nil {
			return nil, 0, annotate(err, fmt.Sprint(i))
		}
		clone.items[i] = nv
		clone.SetMeta(i, NewMeta(running, size))
		running += size
	}
	return clone, 0, nil
}

func (a *Area) PreprocessSize(obj any, ctx *Context, offset int) (int, error) { return 0, nil }

func (a *Area) StaticSizeof(*Context) (int, error) { return 0, nil }

// TargetSize implements pointerSized.
func (a *Area) TargetSize(obj any, ctx *Context) (int, error) {
	list, ok := obj.(*ListContainer)
	if !ok {
		return 0, newErrf(FormatError, "", "Area.TargetSize expected *ListContainer, got %T", obj)
	}
	total := 0
	for _, v := range list.Items() {
		n, err := Sizeof(a.subcon, v, ctx)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (a *Area) ToElement(obj any, parent Element, name string) error {
	return arrayToElement(a.subcon, obj, parent, name)
}

func (a *Area) FromElement(el Element, ctx *Context, name string) (any, error) {
	return arrayFromElement(a.subcon, el, ctx, name)
}
