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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainerSetGetOrder(t *testing.T) {
	c := NewContainer()
	c.Set("width", int64(4))
	c.Set("height", int64(8))
	c.Set("width", int64(16)) // overwrite shouldn't duplicate the order entry

	require.Equal(t, []string{"width", "height"}, c.Names())
	require.Equal(t, 2, c.Len())

	v, ok := c.Get("width")
	require.True(t, ok)
	require.Equal(t, int64(16), v)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestContainerMustGetPanicsOnMissing(t *testing.T) {
	c := NewContainer()
	require.Panics(t, func() { c.MustGet("nope") })
}

func TestContainerMetaAliases(t *testing.T) {
	c := NewContainer()
	c.Set("width", int64(4))
	c.SetMeta("width", NewMeta(2, 4))

	v, ok := c.Field("_width_offset")
	require.True(t, ok)
	require.Equal(t, int64(2), v)

	v, ok = c.Field("_width_size")
	require.True(t, ok)
	require.Equal(t, int64(4), v)

	v, ok = c.Field("_width_endoffset")
	require.True(t, ok)
	require.Equal(t, int64(6), v)

	_, ok = c.Field("_width_ptrsize")
	require.False(t, ok, "ptrsize is only present once WithPtrSize is used")

	m, _ := c.Meta("width")
	m = m.WithPtrSize(10)
	c.SetMeta("width", m)
	v, ok = c.Field("_width_ptrsize")
	require.True(t, ok)
	require.Equal(t, int64(10), v)
}

func TestContainerParentRoot(t *testing.T) {
	root := NewContainer()
	child := NewContainer()
	root.Set("child", child)

	require.Equal(t, root, child.Parent())
	require.Equal(t, root, child.Root())
	require.Equal(t, root, root.Root())
	require.Nil(t, root.Parent())
}

func TestContainerCloneIsolatesOriginal(t *testing.T) {
	orig := NewContainer()
	orig.Set("tag", []byte{1, 2, 3})
	orig.SetMeta("tag", NewMeta(0, 3))

	clone, err := orig.Clone()
	require.NoError(t, err)

	clonedBytes := clone.MustGet("tag").([]byte)
	clonedBytes[0] = 0xff

	origBytes := orig.MustGet("tag").([]byte)
	require.Equal(t, byte(1), origBytes[0], "mutating the clone must not affect the original")

	m, ok := clone.Meta("tag")
	require.True(t, ok)
	require.Equal(t, 3, m.Size())
}

func TestListContainerAppendAndField(t *testing.T) {
	l := NewListContainer()
	l.Append(int64(10))
	l.Append(int64(20))
	l.SetMeta(0, NewMeta(0, 1))
	l.SetMeta(1, NewMeta(1, 1))

	require.Equal(t, 2, l.Len())
	require.Equal(t, []any{int64(10), int64(20)}, l.Items())

	v, ok := l.Field("1")
	require.True(t, ok)
	require.Equal(t, int64(20), v)

	_, ok = l.Field("not-a-number")
	require.False(t, ok)

	_, ok = l.Field("5")
	require.False(t, ok)
}

func TestListContainerCloneIsolatesOriginal(t *testing.T) {
	orig := NewListContainer()
	orig.Append([]byte{1, 2})

	clone, err := orig.Clone()
	require.NoError(t, err)

	clone.Get(0).([]byte)[0] = 0xff
	require.Equal(t, byte(1), orig.Get(0).([]byte)[0])
}

func TestMetaFormat(t *testing.T) {
	m := NewMeta(4, 8).WithPtrSize(2)
	s := fmt.Sprint(m)
	require.Contains(t, s, "offset: 4")
	require.Contains(t, s, "size: 8")
	require.Contains(t, s, "ptrsize: 2")
}

func TestContainerFormat(t *testing.T) {
	c := NewContainer()
	c.Set("a", int64(1))
	c.Set("b", "x")
	s := fmt.Sprint(c)
	require.Contains(t, s, "a: 1")
	require.Contains(t, s, "b: x")
}
