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

package expr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeScope is a minimal Scope implementation for testing path navigation
// without pulling in the construct package's *Context.
type fakeScope struct {
	fields map[string]any
	parent *fakeScope
	root   *fakeScope
}

func newFakeScope(fields map[string]any) *fakeScope {
	s := &fakeScope{fields: fields}
	s.root = s
	return s
}

func (s *fakeScope) child(fields map[string]any) *fakeScope {
	return &fakeScope{fields: fields, parent: s, root: s.root}
}

func (s *fakeScope) Field(name string) (any, bool) {
	v, ok := s.fields[name]
	return v, ok
}

func (s *fakeScope) ParentScope() (Scope, bool) {
	if s.parent == nil {
		return nil, false
	}
	return s.parent, true
}

func (s *fakeScope) RootScope() Scope { return s.root }

func TestParseArithmetic(t *testing.T) {
	e, err := Parse("this.width * this.height")
	require.NoError(t, err)

	scope := newFakeScope(map[string]any{"width": int64(4), "height": int64(5)})
	v, err := e.Eval(scope)
	require.NoError(t, err)
	require.Equal(t, int64(20), v)
}

func TestParseBareIdentifierIsPath(t *testing.T) {
	e, err := Parse("width")
	require.NoError(t, err)

	scope := newFakeScope(map[string]any{"width": int64(7)})
	v, err := e.Eval(scope)
	require.NoError(t, err)
	require.Equal(t, int64(7), v)
}

func TestParseComparisonAndBoolean(t *testing.T) {
	e, err := Parse("this.kind == 2 && this.flag")
	require.NoError(t, err)

	scope := newFakeScope(map[string]any{"kind": int64(2), "flag": true})
	v, err := e.Eval(scope)
	require.NoError(t, err)
	require.Equal(t, true, v)

	scope2 := newFakeScope(map[string]any{"kind": int64(3), "flag": true})
	v, err = e.Eval(scope2)
	require.NoError(t, err)
	require.Equal(t, false, v)
}

func TestMustParsePanicsOnBadSyntax(t *testing.T) {
	require.Panics(t, func() { MustParse("this.(") })
}

func TestPathParentNavigation(t *testing.T) {
	root := newFakeScope(map[string]any{"size": int64(100)})
	child := root.child(map[string]any{"width": int64(4)})

	e, err := Parse("this._.size")
	require.NoError(t, err)

	v, err := e.Eval(child)
	require.NoError(t, err)
	require.Equal(t, int64(100), v)
}

func TestPathRootNavigation(t *testing.T) {
	root := newFakeScope(map[string]any{"magic": int64(0xCAFE)})
	mid := root.child(map[string]any{"width": int64(4)})
	leaf := mid.child(map[string]any{"height": int64(8)})

	e, err := Parse("this._root.magic")
	require.NoError(t, err)

	v, err := e.Eval(leaf)
	require.NoError(t, err)
	require.Equal(t, int64(0xCAFE), v)
}

func TestPathMissingFieldErrors(t *testing.T) {
	e, err := Parse("this.nope")
	require.NoError(t, err)

	_, err = e.Eval(newFakeScope(nil))
	require.Error(t, err)
}

func TestPathNoParentErrors(t *testing.T) {
	e, err := Parse("this._.size")
	require.NoError(t, err)

	_, err = e.Eval(newFakeScope(nil))
	require.Error(t, err)
}

func TestLiteralKinds(t *testing.T) {
	cases := []struct {
		src  string
		want any
	}{
		{"42", int64(42)},
		{"0x2A", int64(42)},
		{"3.5", 3.5},
		{`"hi"`, "hi"},
		{"true", true},
		{"false", false},
	}
	for _, c := range cases {
		e, err := Parse(c.src)
		require.NoError(t, err, c.src)
		v, err := e.Eval(newFakeScope(nil))
		require.NoError(t, err, c.src)
		require.Equal(t, c.want, v, c.src)
	}
}

func TestUnaryOperators(t *testing.T) {
	e, err := Parse("-this.x")
	require.NoError(t, err)
	v, err := e.Eval(newFakeScope(map[string]any{"x": int64(5)}))
	require.NoError(t, err)
	require.Equal(t, int64(-5), v)

	e, err = Parse("!this.flag")
	require.NoError(t, err)
	v, err = e.Eval(newFakeScope(map[string]any{"flag": false}))
	require.NoError(t, err)
	require.Equal(t, true, v)
}

func TestCallFunctions(t *testing.T) {
	e, err := Parse("len(this.data)")
	require.NoError(t, err)
	v, err := e.Eval(newFakeScope(map[string]any{"data": []byte{1, 2, 3}}))
	require.NoError(t, err)
	require.Equal(t, int64(3), v)

	e, err = Parse("max(this.a, this.b)")
	require.NoError(t, err)
	v, err = e.Eval(newFakeScope(map[string]any{"a": int64(3), "b": int64(9)}))
	require.NoError(t, err)
	require.Equal(t, float64(9), v)
}

func TestCallUnknownFunctionErrors(t *testing.T) {
	e, err := Parse("nope(this.a)")
	require.NoError(t, err)
	_, err = e.Eval(newFakeScope(map[string]any{"a": int64(1)}))
	require.Error(t, err)
}

func TestLiteralExprAndFuncWrapper(t *testing.T) {
	e := Literal{Value: int64(9)}
	v, err := e.Eval(newFakeScope(nil))
	require.NoError(t, err)
	require.Equal(t, int64(9), v)

	called := false
	f := Func{Name: "custom", Fn: func(s Scope) (any, error) {
		called = true
		n, _ := s.Field("n")
		return n, nil
	}}
	v, err = f.Eval(newFakeScope(map[string]any{"n": int64(11)}))
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, int64(11), v)
}

func TestDivisionByZero(t *testing.T) {
	e, err := Parse("this.a / this.b")
	require.NoError(t, err)
	_, err = e.Eval(newFakeScope(map[string]any{"a": int64(1), "b": int64(0)}))
	require.Error(t, err)
}

func TestIndexedPathSegment(t *testing.T) {
	inner := newFakeScope(map[string]any{"0": int64(100), "1": int64(200)})
	outer := newFakeScope(map[string]any{"xs": inner})

	e, err := Parse("this.xs[1]")
	require.NoError(t, err)
	v, err := e.Eval(outer)
	require.NoError(t, err)
	require.Equal(t, int64(200), v)
}
