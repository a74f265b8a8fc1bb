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

// Package zc provides a packed offset/length range, used by the container
// meta table to record where each field landed in a stream without paying
// for a three-int struct per field.
package zc

import (
	"fmt"
	"math"
)

// Range is a packed [start, start+len) span within a stream, with the layout
//
//	struct {
//	  offset, len uint32
//	}
//
// The zero value is the empty range at offset 0.
type Range uint64

// New packs a start offset and length into a Range.
func New(start, length int) Range {
	if start < 0 || length < 0 || start > math.MaxUint32 || length > math.MaxUint32 {
		panic(fmt.Sprintf("zc: range out of bounds: [%d:+%d]", start, length))
	}
	return Range(uint32(start)) | Range(uint32(length))<<32
}

// Start returns the start offset of the range.
func (r Range) Start() int { return int(uint32(r)) }

// Len returns the length of the range.
func (r Range) Len() int { return int(r >> 32) }

// End returns the end offset of the range (Start + Len).
func (r Range) End() int { return r.Start() + r.Len() }

// String implements [fmt.Stringer].
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d]", r.Start(), r.End())
}
