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
	"strconv"
	"strings"
)

// Array repeats subcon a fixed number of times, given by count (a constant
// int or an [Expr] evaluated against the enclosing context).
type Array struct {
	count  Expr
	subcon Construct
}

// NewArray builds an Array of count repetitions of subcon.
func NewArray(count any, subcon Construct) *Array {
	return &Array{count: asExpr(count), subcon: subcon}
}

func (a *Array) Parse(s *Stream, ctx *Context) (any, error) {
	n, err := evalInt(a.count, ctx)
	if err != nil {
		return nil, err
	}
	list := NewListContainer()
	child := ctx.Child(list)
	for i := 0; i < n; i++ {
		start := s.Tell()
		v, err := a.subcon.Parse(s, child)
		if err != nil {
			return nil, annotate(err, strconv.Itoa(i))
		}
		list.Append(v)
		list.SetMeta(i, NewMeta(start, s.Tell()-start))
	}
	return list, nil
}

func (a *Array) Build(obj any, s *Stream, ctx *Context) error {
	list, ok := obj.(*ListContainer)
	if !ok {
		return newErrf(FormatError, "", "Array.Build expected *ListContainer, got %T", obj)
	}
	child := ctx.Child(list)
	for i, v := range list.Items() {
		if err := a.subcon.Build(v, s, child); err != nil {
			return annotate(err, strconv.Itoa(i))
		}
	}
	return nil
}

func (a *Array) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	src, ok := obj.(*ListContainer)
	if !ok {
		return nil, 0, newErrf(FormatError, "", "Array.Preprocess expected *ListContainer, got %T", obj)
	}
	clone, err := src.Clone()
	if err != nil {
		return nil, 0, newErr(FormatError, "", err)
	}
	child := ctx.Child(clone)
	running := offset
	for i, v := range clone.Items() {
		nv, size, err := a.subcon.Preprocess(v, child, running)
		if err != nil {
			return nil, 0, annotate(err, strconv.Itoa(i))
		}
		clone.items[i] = nv
		clone.SetMeta(i, NewMeta(running, size))
		running += size
	}
	return clone, running - offset, nil
}

func (a *Array) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(a, obj, ctx, offset)
}

func (a *Array) StaticSizeof(ctx *Context) (int, error) {
	n, err := evalInt(a.count, ctx)
	if err != nil {
		return 0, newErr(UnknownSizeError, "", err)
	}
	elem, err := a.subcon.StaticSizeof(ctx)
	if err != nil {
		return 0, err
	}
	return n * elem, nil
}

func (a *Array) Sizeof(obj any, ctx *Context) (int, error) {
	list, ok := obj.(*ListContainer)
	if !ok {
		return 0, newErrf(FormatError, "", "Array.Sizeof expected *ListContainer, got %T", obj)
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

func (a *Array) ToElement(obj any, parent Element, name string) error {
	return arrayToElement(a.subcon, obj, parent, name)
}

func (a *Array) FromElement(el Element, ctx *Context, name string) (any, error) {
	return arrayFromElement(a.subcon, el, ctx, name)
}

// GreedyRange repeats subcon until the stream is exhausted: a StreamError
// or a clean FormatError at the point an element would begin is treated as
// end-of-sequence rather than an error, and the stream position is
// rewound to before that failed attempt.
type GreedyRange struct {
	subcon Construct
}

// NewGreedyRange builds a GreedyRange over subcon.
func NewGreedyRange(subcon Construct) *GreedyRange { return &GreedyRange{subcon: subcon} }

func isTailError(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return false
	}
	return kind == StreamError || kind == FormatError
}

func (g *GreedyRange) Parse(s *Stream, ctx *Context) (any, error) {
	list := NewListContainer()
	child := ctx.Child(list)
	i := 0
	for !s.EOF() {
		start := s.Tell()
		v, err := g.subcon.Parse(s, child)
		if err != nil {
			if isTailError(err) {
				_ = s.Seek(start)
				break
			}
			return nil, annotate(err, strconv.Itoa(i))
		}
		list.Append(v)
		list.SetMeta(i, NewMeta(start, s.Tell()-start))
		i++
	}
	return list, nil
}

func (g *GreedyRange) Build(obj any, s *Stream, ctx *Context) error {
	list, ok := obj.(*ListContainer)
	if !ok {
		return newErrf(FormatError, "", "GreedyRange.Build expected *ListContainer, got %T", obj)
	}
	child := ctx.Child(list)
	for i, v := range list.Items() {
		if err := g.subcon.Build(v, s, child); err != nil {
			return annotate(err, strconv.Itoa(i))
		}
	}
	return nil
}

func (g *GreedyRange) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	src, ok := obj.(*ListContainer)
	if !ok {
		return nil, 0, newErrf(FormatError, "", "GreedyRange.Preprocess expected *ListContainer, got %T", obj)
	}
	clone, err := src.Clone()
	if err != nil {
		return nil, 0, newErr(FormatError, "", err)
	}
	child := ctx.Child(clone)
	running := offset
	for i, v := range clone.Items() {
		nv, size, err := g.subcon.Preprocess(v, child, running)
		if err != nil {
			return nil, 0, annotate(err, strconv.Itoa(i))
		}
		clone.items[i] = nv
		clone.SetMeta(i, NewMeta(running, size))
		running += size
	}
	return clone, running - offset, nil
}

func (g *GreedyRange) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(g, obj, ctx, offset)
}

func (g *GreedyRange) StaticSizeof(*Context) (int, error) {
	return 0, newErr(UnknownSizeError, "", fmt.Errorf("GreedyRange has no static size"))
}

func (g *GreedyRange) Sizeof(obj any, ctx *Context) (int, error) {
	list, ok := obj.(*ListContainer)
	if !ok {
		return 0, newErrf(FormatError, "", "GreedyRange.Sizeof expected *ListContainer, got %T", obj)
	}
	total := 0
	for _, v := range list.Items() {
		n, err := Sizeof(g.subcon, v, ctx)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (g *GreedyRange) ToElement(obj any, parent Element, name string) error {
	return arrayToElement(g.subcon, obj, parent, name)
}

func (g *GreedyRange) FromElement(el Element, ctx *Context, name string) (any, error) {
	return arrayFromElement(g.subcon, el, ctx, name)
}

// PrefixedArray parses a count with lengthSubcon, then repeats subcon that
// many times; Build writes the element count through lengthSubcon before
// the elements. Its ExpectedSizeof peeks the prefix without consuming the
// stream.
type PrefixedArray struct {
	lengthSubcon Construct
	subcon       Construct
}

// NewPrefixedArray builds a PrefixedArray.
func NewPrefixedArray(lengthSubcon, subcon Construct) *PrefixedArray {
	return &PrefixedArray{lengthSubcon: lengthSubcon, subcon: subcon}
}

func (p *PrefixedArray) Parse(s *Stream, ctx *Context) (any, error) {
	nv, err := p.lengthSubcon.Parse(s, ctx)
	if err != nil {
		return nil, err
	}
	n, ok := toInt64(nv)
	if !ok {
		return nil, newErrf(FormatError, "", "PrefixedArray: length subcon produced non-integer %T", nv)
	}
	list := NewListContainer()
	child := ctx.Child(list)
	for i := 0; i < int(n); i++ {
		start := s.Tell()
		v, err := p.subcon.Parse(s, child)
		if err != nil {
			return nil, annotate(err, strconv.Itoa(i))
		}
		list.Append(v)
		list.SetMeta(i, NewMeta(start, s.Tell()-start))
	}
	return list, nil
}

func (p *PrefixedArray) Build(obj any, s *Stream, ctx *Context) error {
	list, ok := obj.(*ListContainer)
	if !ok {
		return newErrf(FormatError, "", "PrefixedArray.Build expected *ListContainer, got %T", obj)
	}
	if err := p.lengthSubcon.Build(int64(list.Len()), s, ctx); err != nil {
		return err
	}
	child := ctx.Child(list)
	for i, v := range list.Items() {
		if err := p.subcon.Build(v, s, child); err != nil {
			return annotate(err, strconv.Itoa(i))
		}
	}
	return nil
}

func (p *PrefixedArray) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	src, ok := obj.(*ListContainer)
	if !ok {
		return nil, 0, newErrf(FormatError, "", "PrefixedArray.Preprocess expected *ListContainer, got %T", obj)
	}
	clone, err := src.Clone()
	if err != nil {
		return nil, 0, newErr(FormatError, "", err)
	}
	_, prefixSize, err := p.lengthSubcon.Preprocess(int64(clone.Len()), ctx, offset)
	if err != nil {
		return nil, 0, err
	}
	child := ctx.Child(clone)
	running := offset + prefixSize
	for i, v := range clone.Items() {
		nv, size, err := p.subcon.Preprocess(v, child, running)
		if err != nil {
			return nil, 0, annotate(err, strconv.Itoa(i))
		}
		clone.items[i] = nv
		clone.SetMeta(i, NewMeta(running, size))
		running += size
	}
	return clone, running - offset, nil
}

func (p *PrefixedArray) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(p, obj, ctx, offset)
}

func (p *PrefixedArray) StaticSizeof(*Context) (int, error) {
	return 0, newErr(UnknownSizeError, "", fmt.Errorf("PrefixedArray has no static size"))
}

func (p *PrefixedArray) Sizeof(obj any, ctx *Context) (int, error) {
	list, ok := obj.(*ListContainer)
	if !ok {
		return 0, newErrf(FormatError, "", "PrefixedArray.Sizeof expected *ListContainer, got %T", obj)
	}
	prefixSize, err := Sizeof(p.lengthSubcon, int64(list.Len()), ctx)
	if err != nil {
		return 0, err
	}
	total := prefixSize
	for _, v := range list.Items() {
		n, err := Sizeof(p.subcon, v, ctx)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// ExpectedSizeof peeks the length prefix non-destructively, then adds
// count * the element's static size, without consuming the stream or
// requiring the elements themselves to be materialized yet.
func (p *PrefixedArray) ExpectedSizeof(s *Stream, ctx *Context) (int, error) {
	elemSize, err := p.subcon.StaticSizeof(ctx)
	if err != nil {
		return 0, err
	}
	prefixSize, err := p.lengthSubcon.StaticSizeof(ctx)
	if err != nil {
		return 0, err
	}
	peeked, err := s.Peek(prefixSize)
	if err != nil {
		return 0, newErr(StreamError, "", err)
	}
	tmp := NewReader(peeked)
	nv, err := p.lengthSubcon.Parse(tmp, ctx)
	if err != nil {
		return 0, err
	}
	n, ok := toInt64(nv)
	if !ok {
		return 0, newErrf(FormatError, "", "PrefixedArray: length subcon produced non-integer %T", nv)
	}
	return prefixSize + int(n)*elemSize, nil
}

func (p *PrefixedArray) ToElement(obj any, parent Element, name string) error {
	return arrayToElement(p.subcon, obj, parent, name)
}

func (p *PrefixedArray) FromElement(el Element, ctx *Context, name string) (any, error) {
	return arrayFromElement(p.subcon, el, ctx, name)
}

// isAtomicValue reports whether v is a scalar suitable for the CSV-style
// single-attribute array encoding, rather than repeated child elements.
func isAtomicValue(v any) bool {
	switch v.(type) {
	case int64, uint64, int, float64, float32, bool, string:
		return true
	default:
		return false
	}
}

func arrayToElement(subcon Construct, obj any, parent Element, name string) error {
	list, ok := obj.(*ListContainer)
	if !ok {
		return newErrf(FormatError, "", "array ToElement expected *ListContainer, got %T", obj)
	}
	items := list.Items()
	if len(items) == 0 || isAtomicValue(items[0]) {
		parts := make([]string, len(items))
		for i, v := range items {
			parts[i] = fmt.Sprint(v)
		}
		parent.SetAttr(name, "["+strings.Join(parts, ",")+"]")
		return nil
	}
	for i, v := range items {
		if err := subcon.ToElement(v, parent, name); err != nil {
			return annotate(err, strconv.Itoa(i))
		}
	}
	return nil
}

func arrayFromElement(subcon Construct, el Element, ctx *Context, name string) (any, error) {
	var children []Element
	for _, c := range el.Children() {
		if c.Tag() == name {
			children = append(children, c)
		}
	}
	if len(children) == 0 {
		if attr, ok := el.Attr(name); ok {
			return csvDecodeList(attr), nil
		}
		return NewListContainer(), nil
	}
	list := NewListContainer()
	for i, child := range children {
		v, err := subcon.FromElement(singleChildElement{only: child}, ctx, name)
		if err != nil {
			return nil, annotate(err, strconv.Itoa(i))
		}
		list.Append(v)
	}
	return list, nil
}

func csvDecodeList(s string) *ListContainer {
	list := NewListContainer()
	s = strings.TrimPrefix(strings.TrimSuffix(s, "]"), "[")
	if s == "" {
		return list
	}
	for _, tok := range strings.Split(s, ",") {
		if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
			list.Append(n)
			continue
		}
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			list.Append(f)
			continue
		}
		list.Append(tok)
	}
	return list
}
