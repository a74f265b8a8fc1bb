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

func imageHeader() *Struct {
	return NewStruct(
		F("width", Int32ub),
		F("height", Int32ub),
		F("samples", NewArray(3, Byte)),
	)
}

func TestXMLRoundTripStruct(t *testing.T) {
	desc := imageHeader()

	c := NewContainer()
	c.Set("width", int64(640))
	c.Set("height", int64(480))
	samples := NewListContainer()
	samples.Append(int64(10))
	samples.Append(int64(20))
	samples.Append(int64(30))
	c.Set("samples", samples)

	el, err := ElementOf(desc, c, "image")
	require.NoError(t, err)
	require.Equal(t, "image", el.Tag())

	out, err := MarshalElement(el)
	require.NoError(t, err)
	require.Contains(t, string(out), "width")

	parsed, err := UnmarshalElement(out)
	require.NoError(t, err)

	root := NewRootContext(NewContainer())
	v, err := FromElementRoot(desc, parsed, root, "image")
	require.NoError(t, err)

	got := v.(*Container)
	require.Equal(t, int64(640), got.MustGet("width"))
	require.Equal(t, int64(480), got.MustGet("height"))
	gotSamples := got.MustGet("samples").(*ListContainer)
	require.Equal(t, []any{int64(10), int64(20), int64(30)}, gotSamples.Items())
}

// TestXMLEnumFieldRoundTrip exercises Enum's ToElement/FromElement as a
// Struct would call them: as a named attribute on the struct's own element,
// not as a standalone top-level node.
func TestXMLEnumFieldRoundTrip(t *testing.T) {
	desc := NewEnum(Byte, weatherTable())

	parent := NewElement("report")
	require.NoError(t, desc.ToElement("SUNNY", parent, "weather"))

	attr, ok := parent.Attr("weather")
	require.True(t, ok)
	require.Equal(t, "1", attr)

	root := NewRootContext(NewContainer())
	v, err := desc.FromElement(parent, root, "weather")
	require.NoError(t, err)
	require.Equal(t, "SUNNY", v)
}
