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

// deepStruct builds n+1 Structs nested one inside the next, bottoming out
// in a single Byte field -- enough artificial nesting to exercise
// WithMaxDepth without needing a self-referential description.
func deepStruct(n int) Construct {
	if n == 0 {
		return NewStruct(F("v", Byte))
	}
	return NewStruct(F("child", deepStruct(n-1)))
}

func TestWithMaxDepthRejectsOverlyNestedDescription(t *testing.T) {
	_, err := ParseBytes(deepStruct(20), []byte{7}, WithMaxDepth(5))
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, RangeError, kind)
}

func TestWithMaxDepthAllowsNestingWithinLimit(t *testing.T) {
	v, err := ParseBytes(deepStruct(3), []byte{7}, WithMaxDepth(10))
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestWithoutMaxDepthAllowsArbitraryNesting(t *testing.T) {
	v, err := ParseBytes(deepStruct(20), []byte{7})
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestWithBuildMaxDepthRejectsOverlyNestedDescription(t *testing.T) {
	desc := deepStruct(20)
	leaf := NewContainer()
	leaf.Set("v", int64(7))
	obj := leaf
	for i := 0; i < 20; i++ {
		c := NewContainer()
		c.Set("child", obj)
		obj = c
	}

	_, err := BuildBytes(desc, obj, WithBuildMaxDepth(5))
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, RangeError, kind)
}

func TestWithAllowTrailingBytesPermitsUnconsumedTail(t *testing.T) {
	_, err := ParseBytes(Byte, []byte{1, 2, 3})
	require.Error(t, err)

	v, err := ParseBytes(Byte, []byte{1, 2, 3}, WithAllowTrailingBytes(true))
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}
