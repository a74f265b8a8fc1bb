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

import "github.com/construct-go/construct/internal/expr"

// Expr is the lazy path/arithmetic expression language used inside
// descriptions wherever a combinator takes a "dynamic" parameter (array
// length, pointer offset, switch key, and so on). An Expr is evaluated
// against a *[Context] to yield a value.
type Expr = expr.Expr

// Expression parses src as a Go expression, e.g. "this.width * this.height"
// or "this._.size", into an [Expr]. It panics if src does not parse; use it
// for literal expression strings baked into a description at init time.
func Expression(src string) Expr {
	return expr.MustParse(src)
}

// This is ergonomic sugar for a plain dotted field path, equivalent to
// Expression("this." + path) but without pulling in the full Go-expression
// grammar for the common case of a bare attribute reference.
func This(path string) Expr {
	segs := splitDots(path)
	return expr.Path{Segments: segs}
}

func splitDots(path string) []string {
	if path == "" {
		return nil
	}
	var segs []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			segs = append(segs, path[start:i])
			start = i + 1
		}
	}
	return append(segs, path[start:])
}

// Literal returns an [Expr] that always evaluates to v, regardless of
// context.
func Literal(v any) Expr { return expr.Literal{Value: v} }

// Lambda wraps a user-supplied Go function as an [Expr], for logic that
// does not fit the path/arithmetic grammar.
func Lambda(name string, fn func(ctx *Context) (any, error)) Expr {
	return expr.Func{Name: name, Fn: func(s expr.Scope) (any, error) {
		return fn(s.(*Context)) //nolint:errcheck // Context is the only Scope this package produces.
	}}
}

// asExpr normalizes a combinator constructor argument that accepts "either
// a constant or an expression" into an Expr.
func asExpr(v any) Expr {
	if e, ok := v.(Expr); ok {
		return e
	}
	return Literal(v)
}

// evalInt evaluates e and coerces the result to an int, the common case for
// count/offset/size expressions.
func evalInt(e Expr, ctx *Context) (int, error) {
	v, err := e.Eval(ctx)
	if err != nil {
		return 0, newErr(ContextError, "", err)
	}
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case uint64:
		return int(n), nil
	default:
		return 0, newErrf(RangeError, "", "expression %s did not evaluate to an integer: got %T", e, v)
	}
}
