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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGzipCodecRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	encoded, err := GzipCodec.Encode(data)
	require.NoError(t, err)
	require.NotEqual(t, data, encoded)

	decoded, err := GzipCodec.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

// TestCompressedTunnelsAStructThroughGzip builds a small struct, tunnels it
// through gzip as the last field of an outer struct, and parses it back.
func TestCompressedTunnelsAStructThroughGzip(t *testing.T) {
	inner := NewStruct(
		F("a", Int32ub),
		F("b", Int32ub),
	)
	desc := NewStruct(
		F("tag", Byte),
		F("body", NewCompressed(inner)),
	)

	payload := NewContainer()
	payload.Set("a", int64(10))
	payload.Set("b", int64(20))

	outer := NewContainer()
	outer.Set("tag", int64(1))
	outer.Set("body", payload)

	out, err := BuildBytes(desc, outer)
	require.NoError(t, err)
	require.Equal(t, byte(1), out[0])

	v, err := ParseBytes(desc, out)
	require.NoError(t, err)
	c := v.(*Container)
	require.Equal(t, int64(1), c.MustGet("tag"))
	body := c.MustGet("body").(*Container)
	require.Equal(t, int64(10), body.MustGet("a"))
	require.Equal(t, int64(20), body.MustGet("b"))
}
