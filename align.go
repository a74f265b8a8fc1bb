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

// Aligned runs subcon, then skips (Parse) or writes (Build) zero bytes
// until the stream position is a multiple of modulus.
type Aligned struct {
	modulus int
	subcon  Construct
}

// NewAligned builds an Aligned wrapper padding to a modulus-byte boundary.
func NewAligned(modulus int, subcon Construct) *Aligned {
	return &Aligned{modulus: modulus, subcon: subcon}
}

func (a *Aligned) pad(pos int) int {
	rem := pos % a.modulus
	if rem == 0 {
		return 0
	}
	return a.modulus - rem
}

func (a *Aligned) Parse(s *Stream, ctx *Context) (any, error) {
	v, err := a.subcon.Parse(s, ctx)
	if err != nil {
		return nil, err
	}
	if n := a.pad(s.Tell()); n > 0 {
		if _, err := s.Read(n); err != nil {
			return nil, newErr(StreamError, "", err)
		}
	}
	return v, nil
}

func (a *Aligned) Build(obj any, s *Stream, ctx *Context) error {
	if err := a.subcon.Build(obj, s, ctx); err != nil {
		return err
	}
	if n := a.pad(s.Tell()); n > 0 {
		return s.Write(make([]byte, n))
	}
	return nil
}

func (a *Aligned) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	v, size, err := a.subcon.Preprocess(obj, ctx, offset)
	if err != nil {
		return nil, 0, err
	}
	return v, size + a.pad(offset+size), nil
}

func (a *Aligned) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(a, obj, ctx, offset)
}

func (a *Aligned) StaticSizeof(ctx *Context) (int, error) {
	n, err := a.subcon.StaticSizeof(ctx)
	if err != nil {
		return 0, err
	}
	// Alignment padding depends on the field's absolute stream offset,
	// which StaticSizeof does not know, so the padding is not included here.
	// Aligned has no Sizeof of its own, so Sizeof returns this same unpadded
	// value; Preprocess, which knows the offset, does include the padding.
	return n, nil
}

func (a *Aligned) ToElement(obj any, parent Element, name string) error {
	return a.subcon.ToElement(obj, parent, name)
}

func (a *Aligned) FromElement(el Element, ctx *Context, name string) (any, error) {
	return a.subcon.FromElement(el, ctx, name)
}

// Bitwise switches the stream into bit mode for the duration of subcon,
// requiring the stream to leave bit mode byte-aligned -- exiting with
// pending bits is a StreamError, per the engine's error taxonomy.
type Bitwise struct {
	unsupportedXML
	subcon Construct
}

// NewBitwise builds a Bitwise wrapper around subcon, whose Parse/Build
// operate in the stream's bit-addressed sub-mode.
func NewBitwise(subcon Construct) *Bitwise {
	return &Bitwise{unsupportedXML: unsupportedXML{"Bitwise"}, subcon: subcon}
}

func (b *Bitwise) Parse(s *Stream, ctx *Context) (any, error) {
	if err := s.EnterBits(); err != nil {
		return nil, newErr(StreamError, "", err)
	}
	v, err := b.subcon.Parse(s, ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ExitBits(); err != nil {
		return nil, newErr(StreamError, "", err)
	}
	return v, nil
}

func (b *Bitwise) Build(obj any, s *Stream, ctx *Context) error {
	if err := s.EnterBits(); err != nil {
		return newErr(StreamError, "", err)
	}
	if err := b.subcon.Build(obj, s, ctx); err != nil {
		return err
	}
	if err := s.ExitBits(); err != nil {
		return newErr(StreamError, "", err)
	}
	return nil
}

func (b *Bitwise) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	return b.subcon.Preprocess(obj, ctx, offset)
}

func (b *Bitwise) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return b.subcon.PreprocessSize(obj, ctx, offset)
}

func (b *Bitwise) StaticSizeof(ctx *Context) (int, error) { return b.subcon.StaticSizeof(ctx) }

// Bytewise is the reverse of Bitwise: it exits bit mode (requiring
// alignment) for the duration of subcon, then re-enters it. It is used
// inside a Bitwise block to splice in a few whole bytes (e.g. a
// byte-aligned magic constant between two bitfields).
type Bytewise struct {
	unsupportedXML
	subcon Construct
}

// NewBytewise builds a Bytewise wrapper around subcon.
func NewBytewise(subcon Construct) *Bytewise {
	return &Bytewise{unsupportedXML: unsupportedXML{"Bytewise"}, subcon: subcon}
}

func (b *Bytewise) Parse(s *Stream, ctx *Context) (any, error) {
	if err := s.ExitBits(); err != nil {
		return nil, newErr(StreamError, "", err)
	}
	v, err := b.subcon.Parse(s, ctx)
	if err != nil {
		return nil, err
	}
	if err := s.EnterBits(); err != nil {
		return nil, newErr(StreamError, "", err)
	}
	return v, nil
}

func (b *Bytewise) Build(obj any, s *Stream, ctx *Context) error {
	if err := s.ExitBits(); err != nil {
		return newErr(StreamError, "", err)
	}
	if err := b.subcon.Build(obj, s, ctx); err != nil {
		return err
	}
	if err := s.EnterBits(); err != nil {
		return newErr(StreamError, "", err)
	}
	return nil
}

func (b *Bytewise) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	return b.subcon.Preprocess(obj, ctx, offset)
}

func (b *Bytewise) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return b.subcon.PreprocessSize(obj, ctx, offset)
}

func (b *Bytewise) StaticSizeof(ctx *Context) (int, error) { return b.subcon.StaticSizeof(ctx) }
