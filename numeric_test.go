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

func TestNumericFieldsRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		desc Construct
		data []byte
		want any
	}{
		{"Int8ub", Int8ub, []byte{0xFF}, int64(255)},
		{"Int8sb", Int8sb, []byte{0xFF}, int64(-1)},
		{"Int16ub", Int16ub, []byte{0x01, 0x00}, int64(256)},
		{"Int16sl", Int16sl, []byte{0xFF, 0xFF}, int64(-1)},
		{"Int32ub", Int32ub, []byte{0x00, 0x00, 0x01, 0x00}, int64(256)},
		{"Int32ul", Int32ul, []byte{0x00, 0x01, 0x00, 0x00}, int64(256)},
		{"Int32sb", Int32sb, []byte{0xFF, 0xFF, 0xFF, 0xFF}, int64(-1)},
		{"Int64ub", Int64ub, []byte{0, 0, 0, 0, 0, 0, 0, 1}, int64(1)},
		{"Int64sl", Int64sl, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, int64(-1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := ParseBytes(tc.desc, tc.data)
			require.NoError(t, err)
			require.Equal(t, tc.want, v)

			out, err := BuildBytes(tc.desc, tc.want)
			require.NoError(t, err)
			require.Equal(t, tc.data, out)
		})
	}
}

func TestFloatFieldsRoundTrip(t *testing.T) {
	v, err := ParseBytes(Float32b, []byte{0x3F, 0x80, 0x00, 0x00})
	require.NoError(t, err)
	require.InDelta(t, 1.0, v.(float64), 0.0001)

	out, err := BuildBytes(Float32b, 1.0)
	require.NoError(t, err)
	require.Equal(t, []byte{0x3F, 0x80, 0x00, 0x00}, out)

	v, err = ParseBytes(Float64l, []byte{0, 0, 0, 0, 0, 0, 0xF0, 0x3F})
	require.NoError(t, err)
	require.InDelta(t, 1.0, v.(float64), 0.0001)
}

func TestFormatFieldXMLRoundTrip(t *testing.T) {
	parent := NewElement("root")
	require.NoError(t, Int32ub.ToElement(int64(42), parent, "n"))
	attr, ok := parent.Attr("n")
	require.True(t, ok)
	require.Equal(t, "42", attr)

	v, err := Int32ub.FromElement(parent, NewRootContext(NewContainer()), "n")
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestFormatFieldFromElementParsesFloats(t *testing.T) {
	parent := NewElement("root")
	parent.SetAttr("f", "3.5")

	v, err := Float32b.FromElement(parent, NewRootContext(NewContainer()), "f")
	require.NoError(t, err)
	require.Equal(t, 3.5, v)
}

func TestIntFormatDecodeRejectsWrongWidth(t *testing.T) {
	_, err := BigEndianInt(4, false).Decode([]byte{1, 2})
	require.Error(t, err)
}
