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

// Functions is the registry Call nodes dispatch against. Callers may add
// their own entries; the zero-value registry ships a small useful set.
var Functions = map[string]func(args ...any) (any, error){
	"len": func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expr: len() takes 1 argument, got %d", len(args))
		}
		switch v := args[0].(type) {
		case interface{ Len() int }:
			return int64(v.Len()), nil
		case []byte:
			return int64(len(v)), nil
		case string:
			return int64(len(v)), nil
		case []any:
			return int64(len(v)), nil
		default:
			return nil, fmt.Errorf("expr: len() on unsupported type %T", v)
		}
	},
	"min": func(args ...any) (any, error) { return reduceNumeric(args, func(a, b float64) float64 { return min(a, b) }) },
	"max": func(args ...any) (any, error) { return reduceNumeric(args, func(a, b float64) float64 { return max(a, b) }) },
}

func reduceNumeric(args []any, f func(a, b float64) float64) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("expr: function requires at least one argument")
	}
	acc, err := toFloat(args[0])
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		v, err := toFloat(a)
		if err != nil {
			return nil, err
		}
		acc = f(acc, v)
	}
	return acc, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("expr: cannot convert %T to a number", v)
	}
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

// applyBinOp evaluates a binary operator. && and || always combine their
// operands as booleans. Otherwise, when both operands are integers the
// arithmetic stays in int64 (so exact array-count/offset expressions do not
// drift through float64); other numeric operands go through float64, and
// operands that are not numbers fall back to equality comparison.
func applyBinOp(op Op, x, y any) (any, error) {
	if op == OpAnd || op == OpOr {
		return boolBinOp(op, x, y)
	}
	if op == OpAdd {
		if xs, ok := x.(string); ok {
			if ys, ok := y.(string); ok {
				return xs + ys, nil
			}
		}
	}

	if xi, ok := toInt(x); ok {
		if yi, ok := toInt(y); ok {
			return intBinOp(op, xi, yi)
		}
	}

	xf, err := toFloat(x)
	if err != nil {
		return boolBinOp(op, x, y)
	}
	yf, err := toFloat(y)
	if err != nil {
		return boolBinOp(op, x, y)
	}
	return floatBinOp(op, xf, yf)
}

func intBinOp(op Op, x, y int64) (any, error) {
	switch op {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv:
		if y == 0 {
			return nil, fmt.Errorf("expr: division by zero")
		}
		return x / y, nil
	case OpMod:
		if y == 0 {
			return nil, fmt.Errorf("expr: division by zero")
		}
		return x % y, nil
	case OpEq:
		return x == y, nil
	case OpNeq:
		return x != y, nil
	case OpLt:
		return x < y, nil
	case OpLte:
		return x <= y, nil
	case OpGt:
		return x > y, nil
	case OpGte:
		return x >= y, nil
	default:
		return nil, fmt.Errorf("expr: operator %s not valid for integers", op)
	}
}

func floatBinOp(op Op, x, y float64) (any, error) {
	switch op {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv:
		return x / y, nil
	case OpEq:
		return x == y, nil
	case OpNeq:
		return x != y, nil
	case OpLt:
		return x < y, nil
	case OpLte:
		return x <= y, nil
	case OpGt:
		return x > y, nil
	case OpGte:
		return x >= y, nil
	default:
		return nil, fmt.Errorf("expr: operator %s not valid for floats", op)
	}
}

func boolBinOp(op Op, x, y any) (any, error) {
	switch op {
	case OpAnd:
		return asBool(x) && asBool(y), nil
	case OpOr:
		return asBool(x) || asBool(y), nil
	case OpEq:
		return x == y, nil
	case OpNeq:
		return x != y, nil
	default:
		return nil, fmt.Errorf("expr: operator %s not valid for %T and %T", op, x, y)
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func applyUnary(op Op, x any) (any, error) {
	switch op {
	case OpNot:
		return !asBool(x), nil
	case OpNeg:
		if xi, ok := toInt(x); ok {
			return -xi, nil
		}
		xf, err := toFloat(x)
		if err != nil {
			return nil, err
		}
		return -xf, nil
	default:
		return nil, fmt.Errorf("expr: unknown unary operator %s", op)
	}
}
