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
	"encoding/binary"
	"fmt"
	"math"
)

// NumericFormat is the external collaborator contract for encoding and
// decoding a fixed-width number: a [FormatField] delegates all
// endianness/signedness/float handling to one of these.
type NumericFormat interface {
	// Width is the number of bytes this format occupies.
	Width() int
	// Decode reads a value out of exactly Width() bytes.
	Decode(b []byte) (any, error)
	// Encode writes v into exactly Width() bytes.
	Encode(v any, b []byte) error
}

type intFormat struct {
	width   int
	signed  bool
	order   binary.ByteOrder
}

func (f intFormat) Width() int { return f.width }

func (f intFormat) Decode(b []byte) (any, error) {
	if len(b) != f.width {
		return nil, fmt.Errorf("numeric: expected %d bytes, got %d", f.width, len(b))
	}
	var u uint64
	switch f.width {
	case 1:
		u = uint64(b[0])
	case 2:
		u = uint64(f.order.Uint16(b))
	case 4:
		u = uint64(f.order.Uint32(b))
	case 8:
		u = f.order.Uint64(b)
	default:
		return nil, fmt.Errorf("numeric: unsupported integer width %d", f.width)
	}
	if !f.signed {
		return int64(u), nil //nolint:gosec // widths above are all <= 64 bits by construction.
	}
	shift := 64 - f.width*8
	return int64(u<<shift) >> shift, nil
}

func (f intFormat) Encode(v any, b []byte) error {
	if len(b) != f.width {
		return fmt.Errorf("numeric: expected %d bytes, got %d", f.width, len(b))
	}
	n, ok := toInt64(v)
	if !ok {
		return fmt.Errorf("numeric: cannot encode %T as an integer", v)
	}
	u := uint64(n)
	switch f.width {
	case 1:
		b[0] = byte(u)
	case 2:
		f.order.PutUint16(b, uint16(u))
	case 4:
		f.order.PutUint32(b, uint32(u))
	case 8:
		f.order.PutUint64(b, u)
	default:
		return fmt.Errorf("numeric: unsupported integer width %d", f.width)
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint8:
		return int64(n), true
	default:
		return 0, false
	}
}

type floatFormat struct {
	width int
	order binary.ByteOrder
}

func (f floatFormat) Width() int { return f.width }

func (f floatFormat) Decode(b []byte) (any, error) {
	if len(b) != f.width {
		return nil, fmt.Errorf("numeric: expected %d bytes, got %d", f.width, len(b))
	}
	switch f.width {
	case 4:
		return float64(math.Float32frombits(f.order.Uint32(b))), nil
	case 8:
		return math.Float64frombits(f.order.Uint64(b)), nil
	default:
		return nil, fmt.Errorf("numeric: unsupported float width %d", f.width)
	}
}

func (f floatFormat) Encode(v any, b []byte) error {
	if len(b) != f.width {
		return fmt.Errorf("numeric: expected %d bytes, got %d", f.width, len(b))
	}
	var fv float64
	switch n := v.(type) {
	case float64:
		fv = n
	case float32:
		fv = float64(n)
	case int64:
		fv = float64(n)
	default:
		return fmt.Errorf("numeric: cannot encode %T as a float", v)
	}
	switch f.width {
	case 4:
		f.order.PutUint32(b, math.Float32bits(float32(fv)))
	case 8:
		f.order.PutUint64(b, math.Float64bits(fv))
	}
	return nil
}

// LittleEndianInt and BigEndianInt build a [NumericFormat] for a width-byte
// (1, 2, 4, or 8) integer, signed or unsigned.
func LittleEndianInt(width int, signed bool) NumericFormat {
	return intFormat{width: width, signed: signed, order: binary.LittleEndian}
}

// BigEndianInt is the big-endian counterpart of [LittleEndianInt].
func BigEndianInt(width int, signed bool) NumericFormat {
	return intFormat{width: width, signed: signed, order: binary.BigEndian}
}

// LittleEndianFloat and BigEndianFloat build a [NumericFormat] for an IEEE
// 754 float (width 4 or 8).
func LittleEndianFloat(width int) NumericFormat {
	return floatFormat{width: width, order: binary.LittleEndian}
}

// BigEndianFloat is the big-endian counterpart of [LittleEndianFloat].
func BigEndianFloat(width int) NumericFormat {
	return floatFormat{width: width, order: binary.BigEndian}
}

// The following are the common named fields a reverse-engineering session
// reaches for most often, named after their width/sign/endianness the way
// the rest of this ecosystem's format-description libraries do:
// Int<width><u|s><b|l> for big/little-endian, u/s for unsigned/signed.
var (
	Int8ub  = NewFormatField(BigEndianInt(1, false))
	Int8sb  = NewFormatField(BigEndianInt(1, true))
	Int16ub = NewFormatField(BigEndianInt(2, false))
	Int16sb = NewFormatField(BigEndianInt(2, true))
	Int32ub = NewFormatField(BigEndianInt(4, false))
	Int32sb = NewFormatField(BigEndianInt(4, true))
	Int64ub = NewFormatField(BigEndianInt(8, false))
	Int64sb = NewFormatField(BigEndianInt(8, true))

	Int8ul  = NewFormatField(LittleEndianInt(1, false))
	Int8sl  = NewFormatField(LittleEndianInt(1, true))
	Int16ul = NewFormatField(LittleEndianInt(2, false))
	Int16sl = NewFormatField(LittleEndianInt(2, true))
	Int32ul = NewFormatField(LittleEndianInt(4, false))
	Int32sl = NewFormatField(LittleEndianInt(4, true))
	Int64ul = NewFormatField(LittleEndianInt(8, false))
	Int64sl = NewFormatField(LittleEndianInt(8, true))

	Float32l = NewFormatField(LittleEndianFloat(4))
	Float32b = NewFormatField(BigEndianFloat(4))
	Float64l = NewFormatField(LittleEndianFloat(8))
	Float64b = NewFormatField(BigEndianFloat(8))
)

// Byte is a single unsigned byte, the element type most often paired with
// [Array] for raw pixel/sample data.
var Byte = NewFormatField(BigEndianInt(1, false))
