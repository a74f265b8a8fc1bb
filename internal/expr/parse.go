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
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
)

// Parse parses src as a Go expression (e.g. "this.width * this.height",
// "this._.size", "this.kind == 2") and lowers it into this package's AST.
//
// Reusing go/parser means the language gets Go's own operator precedence,
// string/number/bool literal syntax, and parenthesization for free, rather
// than a hand-rolled tokenizer reinventing all of that.
func Parse(src string) (Expr, error) {
	node, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("expr: parsing %q: %w", src, err)
	}
	return lower(node)
}

// MustParse is like Parse but panics on error, for use with string literals
// baked into a format description at init time.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func lower(n ast.Expr) (Expr, error) {
	switch n := n.(type) {
	case *ast.ParenExpr:
		return lower(n.X)

	case *ast.BasicLit:
		return lowerLit(n)

	case *ast.Ident:
		switch n.Name {
		case "this":
			return Path{}, nil
		case "true":
			return Literal{Value: true}, nil
		case "false":
			return Literal{Value: false}, nil
		case "nil":
			return Literal{Value: nil}, nil
		default:
			// A bare identifier outside of a "this.…" chain is treated as a
			// single-segment path, so "width" and "this.width" mean the same
			// thing.
			return Path{Segments: []string{n.Name}}, nil
		}

	case *ast.SelectorExpr:
		return lowerSelector(n)

	case *ast.IndexExpr:
		return lowerIndex(n)

	case *ast.BinaryExpr:
		return lowerBinary(n)

	case *ast.UnaryExpr:
		return lowerUnary(n)

	case *ast.CallExpr:
		return lowerCall(n)

	default:
		return nil, fmt.Errorf("expr: unsupported syntax %T", n)
	}
}

func lowerLit(n *ast.BasicLit) (Expr, error) {
	switch n.Kind {
	case token.INT:
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("expr: bad integer literal %q: %w", n.Value, err)
		}
		return Literal{Value: v}, nil
	case token.FLOAT:
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("expr: bad float literal %q: %w", n.Value, err)
		}
		return Literal{Value: v}, nil
	case token.STRING:
		v, err := strconv.Unquote(n.Value)
		if err != nil {
			return nil, fmt.Errorf("expr: bad string literal %q: %w", n.Value, err)
		}
		return Literal{Value: v}, nil
	default:
		return nil, fmt.Errorf("expr: unsupported literal kind %v", n.Kind)
	}
}

// lowerSelector flattens a chain of SelectorExprs (and "_"-as-field-access,
// which Go's parser treats as an ordinary identifier) into a Path.
func lowerSelector(n *ast.SelectorExpr) (Expr, error) {
	segs, err := selectorChain(n)
	if err != nil {
		return nil, err
	}
	return Path{Segments: segs}, nil
}

func selectorChain(n ast.Expr) ([]string, error) {
	switch n := n.(type) {
	case *ast.Ident:
		if n.Name == "this" {
			return nil, nil
		}
		return []string{n.Name}, nil
	case *ast.SelectorExpr:
		base, err := selectorChain(n.X)
		if err != nil {
			return nil, err
		}
		return append(base, n.Sel.Name), nil
	case *ast.IndexExpr:
		base, err := selectorChain(n.X)
		if err != nil {
			return nil, err
		}
		idx, ok := n.Index.(*ast.BasicLit)
		if !ok || idx.Kind != token.INT {
			return nil, fmt.Errorf("expr: index must be an integer literal")
		}
		return append(base, idx.Value), nil
	default:
		return nil, fmt.Errorf("expr: unsupported path element %T", n)
	}
}

func lowerIndex(n *ast.IndexExpr) (Expr, error) {
	segs, err := selectorChain(n)
	if err != nil {
		return nil, err
	}
	return Path{Segments: segs}, nil
}

var binOps = map[token.Token]Op{
	token.ADD: OpAdd, token.SUB: OpSub, token.MUL: OpMul, token.QUO: OpDiv, token.REM: OpMod,
	token.EQL: OpEq, token.NEQ: OpNeq, token.LSS: OpLt, token.LEQ: OpLte, token.GTR: OpGt, token.GEQ: OpGte,
	token.LAND: OpAnd, token.LOR: OpOr,
}

func lowerBinary(n *ast.BinaryExpr) (Expr, error) {
	op, ok := binOps[n.Op]
	if !ok {
		return nil, fmt.Errorf("expr: unsupported operator %q", n.Op)
	}
	x, err := lower(n.X)
	if err != nil {
		return nil, err
	}
	y, err := lower(n.Y)
	if err != nil {
		return nil, err
	}
	return BinOp{Op: op, X: x, Y: y}, nil
}

func lowerUnary(n *ast.UnaryExpr) (Expr, error) {
	x, err := lower(n.X)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.NOT:
		return Unary{Op: OpNot, X: x}, nil
	case token.SUB:
		return Unary{Op: OpNeg, X: x}, nil
	default:
		return nil, fmt.Errorf("expr: unsupported unary operator %q", n.Op)
	}
}

func lowerCall(n *ast.CallExpr) (Expr, error) {
	fn, ok := n.Fun.(*ast.Ident)
	if !ok {
		return nil, fmt.Errorf("expr: call target must be a plain function name")
	}
	args := make([]Expr, len(n.Args))
	for i, a := range n.Args {
		e, err := lower(a)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	return Call{Fn: fn.Name, Args: args}, nil
}
