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

func TestDefaultBuildSubstitutesValueWhenObjNil(t *testing.T) {
	d := NewDefault(Int32ub, int64(99))

	out, err := BuildBytes(d, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 99}, out)
}

func TestDefaultBuildKeepsSuppliedValue(t *testing.T) {
	d := NewDefault(Int32ub, int64(99))

	out, err := BuildBytes(d, int64(5))
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 5}, out)
}

func TestDefaultParseDelegatesUnchanged(t *testing.T) {
	d := NewDefault(Int32ub, int64(99))

	v, err := ParseBytes(d, []byte{0, 0, 0, 5})
	require.NoError(t, err)
	require.Equal(t, int64(5), v)
}

// TestRebuildToElementRendersPreprocessedValue shows that once a Rebuild
// field has been resolved to a concrete value (e.g. via Preprocess, or
// supplied directly by the caller), ToElement renders it like any other
// field instead of refusing outright.
func TestRebuildToElementRendersPreprocessedValue(t *testing.T) {
	r := NewRebuild(Int32ub, Expression("len(this.text)"))
	parent := NewElement("root")

	require.NoError(t, r.ToElement(int64(5), parent, "len"))
	attr, ok := parent.Attr("len")
	require.True(t, ok)
	require.Equal(t, "5", attr)
}

func TestRebuildFromElementDelegatesToSubcon(t *testing.T) {
	r := NewRebuild(Int32ub, Expression("len(this.text)"))
	parent := NewElement("root")
	parent.SetAttr("len", "5")

	v, err := r.FromElement(parent, NewRootContext(NewContainer()), "len")
	require.NoError(t, err)
	require.Equal(t, int64(5), v)
}

// TestRenamedUsesOwnNameInXML shows that a Renamed field surfaces its own
// name to the XML bridge regardless of the name its enclosing Struct would
// otherwise assign.
func TestRenamedUsesOwnNameInXML(t *testing.T) {
	r := NewRenamed("aliasName", Int32ub)
	parent := NewElement("root")

	require.NoError(t, r.ToElement(int64(42), parent, "fieldName"))
	_, ok := parent.Attr("fieldName")
	require.False(t, ok)
	attr, ok := parent.Attr("aliasName")
	require.True(t, ok)
	require.Equal(t, "42", attr)

	v, err := r.FromElement(parent, NewRootContext(NewContainer()), "fieldName")
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestRenamedParseBuildDelegateUnchanged(t *testing.T) {
	r := NewRenamed("aliasName", Int32ub)

	v, err := ParseBytes(r, []byte{0, 0, 0, 42})
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	out, err := BuildBytes(r, int64(42))
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 42}, out)
}
