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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKindString(t *testing.T) {
	require.Equal(t, "StreamError", StreamError.String())
	require.Equal(t, "XMLError", XMLError.String())
	require.Contains(t, ErrorKind(99).String(), "ErrorKind(99)")
}

func TestErrorMessage(t *testing.T) {
	err := newErrf(FormatError, "", "bad width %d", -1)
	require.Equal(t, "construct: FormatError: bad width -1", err.Error())

	withPath := newErrf(RangeError, "header.width", "out of range")
	require.Equal(t, "construct: RangeError at header.width: out of range", withPath.Error())
}

func TestErrorIsAndKindOf(t *testing.T) {
	err := newErrf(ConstError, "magic", "expected 0x1234, got 0x5678")

	require.True(t, errors.Is(err, &Error{Kind: ConstError}))
	require.False(t, errors.Is(err, &Error{Kind: FormatError}))

	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, ConstError, kind)

	_, ok = KindOf(fmt.Errorf("plain error"))
	require.False(t, ok)
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying cause")
	err := newErr(StreamError, "", cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, cause, errors.Unwrap(err))
}

func TestAnnotatePrependsPath(t *testing.T) {
	err := newErrf(FormatError, "", "bad value")
	annotated := annotate(err, "field")
	var e *Error
	require.True(t, errors.As(annotated, &e))
	require.Equal(t, "field", e.Path)

	twice := annotate(annotated, "outer")
	require.True(t, errors.As(twice, &e))
	require.Equal(t, "outer.field", e.Path)
}
