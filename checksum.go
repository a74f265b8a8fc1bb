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

import "bytes"

// Checksum is a Rebuild specialization over a captured byte range: rather
// than computing its value from an expression over already-parsed fields,
// it hashes a slice of the stream itself, delimited by two expressions
// (commonly a pair of "_<field>_offset"/"_<field>_endoffset" meta
// aliases naming the span it covers).
//
// Because that span only exists as bytes once Build has actually
// serialized it, Checksum's Preprocess cannot materialize a real value --
// unlike Rebuild, there is no deferred-expression trick that reaches past
// the byte stream. It reserves its static size and leaves the value
// itself to Build, which always recomputes the hash over the
// already-written bytes, discarding whatever obj it is handed, exactly
// like Rebuild.
type Checksum struct {
	subcon         Construct
	hash           func([]byte) []byte
	rangeStart     Expr
	rangeEnd       Expr
}

// NewChecksum builds a Checksum of subcon (typically a fixed-size [Bytes]),
// computed by hash over the stream span [start, end).
func NewChecksum(subcon Construct, hash func([]byte) []byte, start, end any) *Checksum {
	return &Checksum{subcon: subcon, hash: hash, rangeStart: asExpr(start), rangeEnd: asExpr(end)}
}

func (c *Checksum) Parse(s *Stream, ctx *Context) (any, error) {
	v, err := c.subcon.Parse(s, ctx)
	if err != nil {
		return nil, err
	}
	got, ok := v.([]byte)
	if !ok {
		return nil, newErrf(FormatError, "", "Checksum: subcon produced non-[]byte %T", v)
	}
	start, err := evalInt(c.rangeStart, ctx)
	if err != nil {
		return nil, err
	}
	end, err := evalInt(c.rangeEnd, ctx)
	if err != nil {
		return nil, err
	}
	buf := s.Bytes()
	if start < 0 || end > len(buf) || start > end {
		return nil, newErrf(RangeError, "", "Checksum: range [%d,%d) out of bounds for %d-byte stream", start, end, len(buf))
	}
	want := c.hash(buf[start:end])
	if !bytes.Equal(got, want) {
		return nil, newErrf(ConstError, "", "Checksum mismatch: stored %x, computed %x", got, want)
	}
	return got, nil
}

func (c *Checksum) Build(_ any, s *Stream, ctx *Context) error {
	start, err := evalInt(c.rangeStart, ctx)
	if err != nil {
		return err
	}
	end, err := evalInt(c.rangeEnd, ctx)
	if err != nil {
		return err
	}
	buf := s.Bytes()
	if start < 0 || end > len(buf) || start > end {
		return newErrf(RangeError, "", "Checksum: range [%d,%d) out of bounds for %d-byte stream", start, end, len(buf))
	}
	sum := c.hash(buf[start:end])
	return c.subcon.Build(sum, s, ctx)
}

func (c *Checksum) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	size, err := c.subcon.StaticSizeof(ctx)
	if err != nil {
		return nil, 0, err
	}
	return obj, size, nil
}

func (c *Checksum) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return c.subcon.StaticSizeof(ctx)
}

func (c *Checksum) StaticSizeof(ctx *Context) (int, error) { return c.subcon.StaticSizeof(ctx) }

func (c *Checksum) ToElement(obj any, parent Element, name string) error {
	return c.subcon.ToElement(obj, parent, name)
}

func (c *Checksum) FromElement(el Element, ctx *Context, name string) (any, error) {
	return c.subcon.FromElement(el, ctx, name)
}
