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

import "fmt"

// Expr is a composable value-or-thunk, evaluated against a [Scope] to
// produce a value.
type Expr interface {
	Eval(scope Scope) (any, error)
	String() string
}

// Literal is a constant value: int64, float64, string, bool, or nil.
type Literal struct {
	Value any
}

func (l Literal) Eval(Scope) (any, error) { return l.Value, nil }
func (l Literal) String() string          { return fmt.Sprintf("%v", l.Value) }

// Path is a dotted/indexed attribute access, such as "this._.a.b" or
// "this.xs.0". The first segment is always relative to "this"; "_" means
// "go to the parent scope" and "_root" means "go to the root scope" --
// both are recognized only as leading segments, before the first field is
// reached; later segments index into the value that field holds.
type Path struct {
	Segments []string
}

func (p Path) String() string { return "this." + joinDots(p.Segments) }

func joinDots(segs []string) string {
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}

// Eval walks the scope chain for leading "_"/"_root" segments, then
// switches to attribute/index access on whatever value it lands on.
func (p Path) Eval(scope Scope) (any, error) {
	cur := scope
	navigating := true
	var val any

	for _, seg := range p.Segments {
		if navigating {
			switch seg {
			case "_":
				parent, ok := cur.ParentScope()
				if !ok {
					return nil, fmt.Errorf("expr: %q has no parent scope", p.String())
				}
				cur = parent
				continue
			case "_root":
				cur = cur.RootScope()
				continue
			default:
				v, ok := cur.Field(seg)
				if !ok {
					return nil, fmt.Errorf("expr: no such field %q in %s", seg, p.String())
				}
				val, navigating = v, false
			}
			continue
		}

		v, err := index(val, seg)
		if err != nil {
			return nil, err
		}
		val = v
	}

	if navigating {
		return cur, nil
	}
	return val, nil
}

// index looks up seg on val, which may be a Scope (nested Container/
// ListContainer) or a plain slice/map reached mid-path.
func index(val any, seg string) (any, error) {
	if src, ok := val.(interface {
		Field(string) (any, bool)
	}); ok {
		v, ok := src.Field(seg)
		if !ok {
			return nil, fmt.Errorf("expr: no such field %q", seg)
		}
		return v, nil
	}
	return nil, fmt.Errorf("expr: cannot index %T with %q", val, seg)
}

// Op is a binary or unary operator token.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpMod Op = "%"

	OpEq  Op = "=="
	OpNeq Op = "!="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="

	OpAnd Op = "&&"
	OpOr  Op = "||"
	OpNot Op = "!"
	OpNeg Op = "neg"
)

// BinOp is a binary operation over two sub-expressions.
type BinOp struct {
	Op   Op
	X, Y Expr
}

func (b BinOp) String() string { return fmt.Sprintf("(%s %s %s)", b.X, b.Op, b.Y) }

func (b BinOp) Eval(scope Scope) (any, error) {
	x, err := b.X.Eval(scope)
	if err != nil {
		return nil, err
	}
	y, err := b.Y.Eval(scope)
	if err != nil {
		return nil, err
	}
	return applyBinOp(b.Op, x, y)
}

// Unary is a unary operation over one sub-expression.
type Unary struct {
	Op Op
	X  Expr
}

func (u Unary) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.X) }

func (u Unary) Eval(scope Scope) (any, error) {
	x, err := u.X.Eval(scope)
	if err != nil {
		return nil, err
	}
	return applyUnary(u.Op, x)
}

// Call invokes a registered function by name with evaluated arguments.
type Call struct {
	Fn   string
	Args []Expr
}

func (c Call) String() string { return fmt.Sprintf("%s(...)", c.Fn) }

func (c Call) Eval(scope Scope) (any, error) {
	fn, ok := Functions[c.Fn]
	if !ok {
		return nil, fmt.Errorf("expr: unknown function %q", c.Fn)
	}
	args := make([]any, len(c.Args))
	for i, a := range c.Args {
		v, err := a.Eval(scope)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn(args...)
}

// Func wraps a user-supplied lambda (scope -> value), for the case where a
// description needs to escape the expression grammar entirely.
type Func struct {
	Name string
	Fn   func(scope Scope) (any, error)
}

func (f Func) String() string { return "λ " + f.Name }

func (f Func) Eval(scope Scope) (any, error) { return f.Fn(scope) }
