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

// Package expr implements the lazy path/arithmetic expression language used
// inside format descriptions, e.g. "this.width * this.height" or
// "this._.size".
//
// Expressions are parsed from Go syntax using the standard library's
// go/parser, then lowered to this package's own small AST
// (Literal | Path | BinOp | Unary | Call), the same technique the wider
// corpus uses to parse and rewrite Go source for codegen. This gives the
// language Go's own operator precedence for free.
package expr

// Scope is the evaluation environment an Expr runs against: attribute
// lookup over the current record's fields, plus navigation to the parent
// and root scopes. The construct package's *Context implements this.
type Scope interface {
	// Field looks up name on this scope directly (no "_"/"_root" handling).
	Field(name string) (any, bool)
	// ParentScope returns the enclosing scope, if any.
	ParentScope() (Scope, bool)
	// RootScope returns the topmost scope.
	RootScope() Scope
}
