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
	"testing"

	"github.com/stretchr/testify/require"
)

// bitmapHeader mimics a small BMP-like layout: a magic, dimensions, and a
// raw pixel buffer sized from the other two fields.
func bitmapHeader() *Struct {
	return NewStruct(
		F("magic", NewConstField(int64(0x4D42), Int16ul)),
		F("width", Int32ul),
		F("height", Int32ul),
		F("pixels", NewArray(Expression("this.width * this.height"), Byte)),
	)
}

func encodeBitmap(width, height uint32, pixels []byte) []byte {
	buf := make([]byte, 2+4+4+len(pixels))
	binary.LittleEndian.PutUint16(buf[0:2], 0x4D42)
	binary.LittleEndian.PutUint32(buf[2:6], width)
	binary.LittleEndian.PutUint32(buf[6:10], height)
	copy(buf[10:], pixels)
	return buf
}

func TestStructParseBuildRoundTrip(t *testing.T) {
	pixels := []byte{1, 2, 3, 4, 5, 6}
	data := encodeBitmap(2, 3, pixels)

	desc := bitmapHeader()
	v, err := ParseBytes(desc, data)
	require.NoError(t, err)

	c, ok := v.(*Container)
	require.True(t, ok)
	require.Equal(t, int64(0x4D42), c.MustGet("magic"))
	require.Equal(t, int64(2), c.MustGet("width"))
	require.Equal(t, int64(3), c.MustGet("height"))

	list := c.MustGet("pixels").(*ListContainer)
	require.Equal(t, 6, list.Len())
	for i, want := range pixels {
		require.Equal(t, int64(want), list.Get(i))
	}

	out, err := BuildBytes(desc, c)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestStructParseRejectsBadMagic(t *testing.T) {
	data := encodeBitmap(1, 1, []byte{9})
	data[0] = 0x00 // corrupt the magic

	_, err := ParseBytes(bitmapHeader(), data)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, ConstError, kind)
}

func TestStructParseReportsTrailingBytes(t *testing.T) {
	data := append(encodeBitmap(1, 1, []byte{9}), 0xAA)
	_, err := ParseBytes(bitmapHeader(), data)
	require.Error(t, err)

	v, err := ParseBytes(bitmapHeader(), data, WithAllowTrailingBytes(true))
	require.NoError(t, err)
	require.NotNil(t, v)
}

// lengthPrefixedPixels mirrors bitmapHeader but derives a byte count field
// via Rebuild instead of baking the expression directly into the array.
func lengthPrefixedPixels() *Struct {
	return NewStruct(
		F("width", Int32ub),
		F("height", Int32ub),
		F("data_len", NewRebuild(Int32ub, Expression("this.width * this.height"))),
		F("pixels", NewArray(Expression("this.width * this.height"), Byte)),
	)
}

func TestStructPreprocessResolvesRebuild(t *testing.T) {
	desc := lengthPrefixedPixels()

	container := NewContainer()
	container.Set("width", int64(2))
	container.Set("height", int64(3))
	container.Set("data_len", int64(0)) // placeholder; Rebuild recomputes it
	list := NewListContainer()
	for _, b := range []byte{1, 2, 3, 4, 5, 6} {
		list.Append(int64(b))
	}
	container.Set("pixels", list)

	root := NewRootContext(NewContainer())
	newVal, size, err := desc.Preprocess(container, root, 0)
	require.NoError(t, err)

	resolved, ok := newVal.(*Container)
	require.True(t, ok)
	require.Equal(t, int64(6), resolved.MustGet("data_len"))
	require.Equal(t, 4+4+4+6, size)

	out, err := BuildBytes(desc, resolved)
	require.NoError(t, err)
	require.Equal(t, uint32(6), binary.BigEndian.Uint32(out[8:12]))
}

func TestStructBuildIgnoresStaleRebuildValue(t *testing.T) {
	desc := lengthPrefixedPixels()

	container := NewContainer()
	container.Set("width", int64(2))
	container.Set("height", int64(2))
	container.Set("data_len", int64(999)) // deliberately wrong
	list := NewListContainer()
	for _, b := range []byte{9, 9, 9, 9} {
		list.Append(int64(b))
	}
	container.Set("pixels", list)

	out, err := BuildBytes(desc, container)
	require.NoError(t, err)
	require.Equal(t, uint32(4), binary.BigEndian.Uint32(out[8:12]))
}
