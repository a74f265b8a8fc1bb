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
	"bytes"
	"fmt"
	"strconv"
)

// FormatField is a fixed-size number: width and endian/signedness are
// delegated to a [NumericFormat].
type FormatField struct {
	format NumericFormat
}

// NewFormatField wraps format as a [Construct].
func NewFormatField(format NumericFormat) *FormatField {
	return &FormatField{format: format}
}

func (f *FormatField) Parse(s *Stream, _ *Context) (any, error) {
	b, err := s.Read(f.format.Width())
	if err != nil {
		return nil, newErr(StreamError, "", err)
	}
	v, err := f.format.Decode(b)
	if err != nil {
		return nil, newErr(FormatError, "", err)
	}
	return v, nil
}

func (f *FormatField) Build(obj any, s *Stream, _ *Context) error {
	b := make([]byte, f.format.Width())
	if err := f.format.Encode(obj, b); err != nil {
		return newErr(FormatError, "", err)
	}
	return s.Write(b)
}

func (f *FormatField) Preprocess(obj any, _ *Context, offset int) (any, int, error) {
	return obj, f.format.Width(), nil
}

func (f *FormatField) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(f, obj, ctx, offset)
}

func (f *FormatField) StaticSizeof(*Context) (int, error) { return f.format.Width(), nil }

func (f *FormatField) ToElement(obj any, parent Element, name string) error {
	parent.SetAttr(name, fmt.Sprint(obj))
	return nil
}

func (f *FormatField) FromElement(el Element, _ *Context, name string) (any, error) {
	s, ok := el.Attr(name)
	if !ok {
		return nil, newErrf(XMLError, name, "missing attribute %q", name)
	}
	if _, isFloat := f.format.(floatFormat); isFloat {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, newErr(XMLError, name, err)
		}
		return v, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, newErr(XMLError, name, err)
	}
	return v, nil
}

// Bytes is a raw byte slice whose length is given by an expression
// evaluated against the current context.
type Bytes struct {
	length Expr
}

// NewBytes builds a Bytes field of the given length (a constant int or an
// [Expr]).
func NewBytes(length any) *Bytes {
	return &Bytes{length: asExpr(length)}
}

func (b *Bytes) Parse(s *Stream, ctx *Context) (any, error) {
	n, err := evalInt(b.length, ctx)
	if err != nil {
		return nil, err
	}
	data, err := s.Read(n)
	if err != nil {
		return nil, newErr(StreamError, "", err)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (b *Bytes) Build(obj any, s *Stream, ctx *Context) error {
	data, ok := obj.([]byte)
	if !ok {
		return newErrf(FormatError, "", "Bytes.Build expected []byte, got %T", obj)
	}
	n, err := evalInt(b.length, ctx)
	if err != nil {
		return err
	}
	if len(data) != n {
		return newErrf(RangeError, "", "Bytes.Build: expected %d bytes, got %d", n, len(data))
	}
	return s.Write(data)
}

func (b *Bytes) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	data, ok := obj.([]byte)
	if !ok {
		return nil, 0, newErrf(FormatError, "", "Bytes.Preprocess expected []byte, got %T", obj)
	}
	return obj, len(data), nil
}

func (b *Bytes) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(b, obj, ctx, offset)
}

func (b *Bytes) StaticSizeof(ctx *Context) (int, error) {
	if n, err := evalInt(b.length, ctx); err == nil {
		return n, nil
	}
	return 0, newErr(UnknownSizeError, "", fmt.Errorf("Bytes length is not statically known"))
}

func (b *Bytes) Sizeof(obj any, _ *Context) (int, error) {
	data, ok := obj.([]byte)
	if !ok {
		return 0, newErrf(FormatError, "", "Bytes.Sizeof expected []byte, got %T", obj)
	}
	return len(data), nil
}

func (b *Bytes) ToElement(obj any, parent Element, name string) error {
	data, ok := obj.([]byte)
	if !ok {
		return newErrf(FormatError, "", "Bytes.ToElement expected []byte, got %T", obj)
	}
	parent.SetAttr(name, fmt.Sprintf("%x", data))
	return nil
}

func (b *Bytes) FromElement(el Element, _ *Context, name string) (any, error) {
	s, ok := el.Attr(name)
	if !ok {
		return nil, newErrf(XMLError, name, "missing attribute %q", name)
	}
	out := make([]byte, len(s)/2)
	if _, err := fmt.Sscanf(s, "%x", &out); err != nil {
		return nil, newErr(XMLError, name, err)
	}
	return out, nil
}

// ConstField parses with subcon and requires the result to equal value; it
// always builds value regardless of the input obj, per the documented
// "a Const is a schema assertion, not a field" behavior.
type ConstField struct {
	value  any
	subcon Construct
}

// NewConstField builds a ConstField requiring subcon to parse to value.
func NewConstField(value any, subcon Construct) *ConstField {
	return &ConstField{value: value, subcon: subcon}
}

func (c *ConstField) Parse(s *Stream, ctx *Context) (any, error) {
	v, err := c.subcon.Parse(s, ctx)
	if err != nil {
		return nil, err
	}
	if !constEqual(v, c.value) {
		return nil, newErrf(ConstError, "", "expected %v, got %v", c.value, v)
	}
	return v, nil
}

func constEqual(a, b any) bool {
	if ab, ok := a.([]byte); ok {
		if bb, ok := b.([]byte); ok {
			return bytes.Equal(ab, bb)
		}
	}
	return a == b
}

func (c *ConstField) Build(_ any, s *Stream, ctx *Context) error {
	return c.subcon.Build(c.value, s, ctx)
}

func (c *ConstField) Preprocess(_ any, ctx *Context, offset int) (any, int, error) {
	return c.subcon.Preprocess(c.value, ctx, offset)
}

func (c *ConstField) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return c.subcon.PreprocessSize(c.value, ctx, offset)
}

func (c *ConstField) StaticSizeof(ctx *Context) (int, error) { return c.subcon.StaticSizeof(ctx) }

func (c *ConstField) ToElement(_ any, parent Element, name string) error {
	return c.subcon.ToElement(c.value, parent, name)
}

func (c *ConstField) FromElement(el Element, ctx *Context, name string) (any, error) {
	v, err := c.subcon.FromElement(el, ctx, name)
	if err != nil {
		return nil, err
	}
	if !constEqual(v, c.value) {
		return nil, newErrf(ConstError, name, "expected %v, got %v", c.value, v)
	}
	return v, nil
}

// BuildValue implements buildPreview: a ConstField always builds its fixed
// value, regardless of what (if anything) is supplied.
func (c *ConstField) BuildValue(*Context) (any, error) { return c.value, nil }

// Computed is a zero-byte field: Parse evaluates expr against ctx; Build is
// a no-op.
type Computed struct {
	expr Expr
}

// NewComputed builds a Computed field from expr.
func NewComputed(expr Expr) *Computed { return &Computed{expr: expr} }

func (c *Computed) Parse(_ *Stream, ctx *Context) (any, error) {
	v, err := c.expr.Eval(ctx)
	if err != nil {
		return nil, newErr(ContextError, "", err)
	}
	return v, nil
}

func (c *Computed) Build(any, *Stream, *Context) error { return nil }

func (c *Computed) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	v, err := c.expr.Eval(ctx)
	if err != nil {
		return obj, 0, nil //nolint:nilerr // Computed tolerates an obj supplied directly, not just re-derived.
	}
	return v, 0, nil
}

func (c *Computed) PreprocessSize(obj any, ctx *Context, offset int) (int, error) { return 0, nil }

func (c *Computed) StaticSizeof(*Context) (int, error) { return 0, nil }

func (c *Computed) ToElement(obj any, parent Element, name string) error {
	parent.SetAttr(name, fmt.Sprint(obj))
	return nil
}

func (c *Computed) FromElement(el Element, ctx *Context, name string) (any, error) {
	return c.Parse(nil, ctx)
}

// BuildValue implements buildPreview: a Computed field's value comes from
// re-evaluating its expression, never from caller input.
func (c *Computed) BuildValue(ctx *Context) (any, error) {
	v, err := c.expr.Eval(ctx)
	if err != nil {
		return nil, newErr(ContextError, "", err)
	}
	return v, nil
}

// Padding writes n zero bytes on build and skips n bytes on parse.
type Padding struct {
	unsupportedXML
	n int
}

// NewPadding builds a Padding field of n bytes.
func NewPadding(n int) *Padding { return &Padding{unsupportedXML: unsupportedXML{"Padding"}, n: n} }

func (p *Padding) Parse(s *Stream, _ *Context) (any, error) {
	if _, err := s.Read(p.n); err != nil {
		return nil, newErr(StreamError, "", err)
	}
	return nil, nil
}

func (p *Padding) Build(any, s *Stream, _ *Context) error {
	return s.Write(make([]byte, p.n))
}

func (p *Padding) Preprocess(obj any, _ *Context, offset int) (any, int, error) {
	return obj, p.n, nil
}

func (p *Padding) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return p.n, nil
}

func (p *Padding) StaticSizeof(*Context) (int, error) { return p.n, nil }

// Flag is a one-byte boolean: 0 is false, anything else is true; Build
// writes 0 or 1.
type Flag struct{}

// NewFlag builds a Flag field.
func NewFlag() *Flag { return &Flag{} }

func (Flag) Parse(s *Stream, _ *Context) (any, error) {
	b, err := s.Read(1)
	if err != nil {
		return nil, newErr(StreamError, "", err)
	}
	return b[0] != 0, nil
}

func (Flag) Build(obj any, s *Stream, _ *Context) error {
	v, _ := obj.(bool)
	var b byte
	if v {
		b = 1
	}
	return s.Write([]byte{b})
}

func (Flag) Preprocess(obj any, _ *Context, offset int) (any, int, error) { return obj, 1, nil }

func (f Flag) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(f, obj, ctx, offset)
}

func (Flag) StaticSizeof(*Context) (int, error) { return 1, nil }

func (Flag) ToElement(obj any, parent Element, name string) error {
	parent.SetAttr(name, fmt.Sprint(obj))
	return nil
}

func (Flag) FromElement(el Element, _ *Context, name string) (any, error) {
	s, ok := el.Attr(name)
	if !ok {
		return nil, newErrf(XMLError, name, "missing attribute %q", name)
	}
	return s == "true", nil
}
