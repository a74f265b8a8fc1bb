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

// FormatString is a fixed- or expression-length text field, analogous to
// [Bytes] but decoded through a [StringEncoder] rather than handed back
// raw.
type FormatString struct {
	length  Expr
	encoder StringEncoder
}

// NewFormatString builds a FormatString of the given length (a constant
// int or an [Expr]), decoded/encoded via encoder.
func NewFormatString(length any, encoder StringEncoder) *FormatString {
	return &FormatString{length: asExpr(length), encoder: encoder}
}

func (f *FormatString) Parse(s *Stream, ctx *Context) (any, error) {
	n, err := evalInt(f.length, ctx)
	if err != nil {
		return nil, err
	}
	data, err := s.Read(n)
	if err != nil {
		return nil, newErr(StreamError, "", err)
	}
	str, err := f.encoder.Decode(data)
	if err != nil {
		return nil, newErr(FormatError, "", err)
	}
	return str, nil
}

func (f *FormatString) Build(obj any, s *Stream, ctx *Context) error {
	str, ok := obj.(string)
	if !ok {
		return newErrf(FormatError, "", "FormatString.Build expected string, got %T", obj)
	}
	data, err := f.encoder.Encode(str)
	if err != nil {
		return newErr(FormatError, "", err)
	}
	n, err := evalInt(f.length, ctx)
	if err != nil {
		return err
	}
	if len(data) != n {
		return newErrf(RangeError, "", "FormatString.Build: expected %d bytes, got %d", n, len(data))
	}
	return s.Write(data)
}

func (f *FormatString) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	str, ok := obj.(string)
	if !ok {
		return nil, 0, newErrf(FormatError, "", "FormatString.Preprocess expected string, got %T", obj)
	}
	data, err := f.encoder.Encode(str)
	if err != nil {
		return nil, 0, newErr(FormatError, "", err)
	}
	return obj, len(data), nil
}

func (f *FormatString) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(f, obj, ctx, offset)
}

func (f *FormatString) StaticSizeof(ctx *Context) (int, error) {
	if n, err := evalInt(f.length, ctx); err == nil {
		return n, nil
	}
	return 0, newErr(UnknownSizeError, "", errStringLength)
}

func (f *FormatString) Sizeof(obj any, _ *Context) (int, error) {
	str, ok := obj.(string)
	if !ok {
		return 0, newErrf(FormatError, "", "FormatString.Sizeof expected string, got %T", obj)
	}
	data, err := f.encoder.Encode(str)
	if err != nil {
		return 0, newErr(FormatError, "", err)
	}
	return len(data), nil
}

func (f *FormatString) ToElement(obj any, parent Element, name string) error {
	str, _ := obj.(string)
	parent.SetAttr(name, str)
	return nil
}

func (f *FormatString) FromElement(el Element, _ *Context, name string) (any, error) {
	s, ok := el.Attr(name)
	if !ok {
		return nil, newErrf(XMLError, name, "missing attribute %q", name)
	}
	return s, nil
}

var errStringLength = newErrf(UnknownSizeError, "", "FormatString length is not statically known")
