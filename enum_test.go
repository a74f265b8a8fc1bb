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

func weatherTable() *SymbolTable {
	return NewSymbolTable(map[string]int64{"SUNNY": 1, "RAINY": 2})
}

func TestEnumParseRecognizedAndUnrecognized(t *testing.T) {
	e := NewEnum(Byte, weatherTable())

	v, err := ParseBytes(e, []byte{1})
	require.NoError(t, err)
	require.Equal(t, "SUNNY", v)

	v, err = ParseBytes(e, []byte{99})
	require.NoError(t, err)
	require.Equal(t, int64(99), v)
}

func TestEnumBuildAcceptsNameOrInt(t *testing.T) {
	e := NewEnum(Byte, weatherTable())

	out, err := BuildBytes(e, "RAINY")
	require.NoError(t, err)
	require.Equal(t, []byte{2}, out)

	out, err = BuildBytes(e, int64(1))
	require.NoError(t, err)
	require.Equal(t, []byte{1}, out)
}

func flagsTable() *SymbolTable {
	return NewSymbolTable(map[string]int64{"one": 1, "two": 2, "four": 4, "eight": 8})
}

func TestFlagsEnumParse(t *testing.T) {
	f := NewFlagsEnum(Byte, flagsTable())

	v, err := ParseBytes(f, []byte{0x05}) // one | four
	require.NoError(t, err)
	flags, ok := v.(map[string]bool)
	require.True(t, ok)
	require.True(t, flags["one"])
	require.True(t, flags["four"])
	require.False(t, flags["two"])
	require.False(t, flags["eight"])
}

func TestFlagsEnumBuild(t *testing.T) {
	f := NewFlagsEnum(Byte, flagsTable())

	out, err := BuildBytes(f, map[string]bool{"two": true, "eight": true})
	require.NoError(t, err)
	require.Equal(t, []byte{0x0A}, out)
}

// TestFlagsEnumPreprocessMasksUnrecognizedBits documents that preprocessing
// a flag set parsed from a value with unrecognized high bits set drops those
// bits: the round trip is 0xFF -> {all four flags} -> 0x0F, not back to
// 0xFF, because the flag set only remembers named bits.
func TestFlagsEnumPreprocessMasksUnrecognizedBits(t *testing.T) {
	f := NewFlagsEnum(Byte, flagsTable())

	parsed, err := ParseBytes(f, []byte{0xFF})
	require.NoError(t, err)

	root := NewRootContext(NewContainer())
	newVal, size, err := f.Preprocess(parsed, root, 0)
	require.NoError(t, err)
	require.Equal(t, 1, size)

	out, err := BuildBytes(f, newVal)
	require.NoError(t, err)
	require.Equal(t, []byte{0x0F}, out)
	require.NotEqual(t, []byte{0xFF}, out)
}
