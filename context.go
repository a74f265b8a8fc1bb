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

// ValueSource is anything an expression's path segments can terminate a
// navigation step on: [*Container] and [*ListContainer] both implement it,
// as does any nested value reached by walking into one of them.
type ValueSource interface {
	// Field looks up name, returning ok=false if it is not present.
	Field(name string) (any, bool)
}

// Context is the lookup structure expressions evaluate against: attribute
// access over a record's fields, plus the two reserved names "_" (parent
// context) and "_root" (topmost context). Contexts are transient and stacked
// one per nested Construct during a traversal; they are never retained past
// the call that created them.
type Context struct {
	self   ValueSource
	Parent *Context
	Root   *Context

	depth  int
	limits *depthLimit
}

// depthLimit is shared by a whole traversal's Contexts (via a pointer, so
// every Child sees the same cap), the way [ParseOption]/[BuildOption]
// configure it once at the root.
type depthLimit struct{ max int }

// errMaxDepth is the panic value Context.Child raises when a traversal
// nests past its configured limit; ParseBytes/BuildBytes recover it and
// turn it into an ordinary error, so a malicious or malformed recursive
// description cannot overflow the goroutine stack.
type errMaxDepth struct{ max int }

// NewRootContext creates the top-level Context for a traversal over self.
// Its Parent is nil and its Root is itself.
func NewRootContext(self ValueSource) *Context {
	c := &Context{self: self}
	c.Root = c
	return c
}

// Child derives a nested Context for self, whose parent is c and whose root
// is c's root (or c itself, if c is already the root).
func (c *Context) Child(self ValueSource) *Context {
	root := c
	if c.Root != nil {
		root = c.Root
	}
	depth := c.depth + 1
	if c.limits != nil && c.limits.max > 0 && depth > c.limits.max {
		panic(errMaxDepth{max: c.limits.max})
	}
	return &Context{self: self, Parent: c, Root: root, depth: depth, limits: c.limits}
}

// Self returns the ValueSource this context is keyed to.
func (c *Context) Self() ValueSource { return c.self }

// Field looks up name directly on this context's own ValueSource, without
// walking "_"/"_root" segments. Use [Path.Eval] for full expression
// evaluation.
func (c *Context) Field(name string) (any, bool) {
	if c.self == nil {
		return nil, false
	}
	return c.self.Field(name)
}

// ParentScope and RootScope implement [expr.Scope], so that *Context can be
// evaluated against directly by the expression language.
func (c *Context) ParentScope() (expr.Scope, bool) {
	if c.Parent == nil {
		return nil, false
	}
	return c.Parent, true
}

// RootScope implements [expr.Scope].
func (c *Context) RootScope() expr.Scope {
	if c.Root == nil {
		return c
	}
	return c.Root
}

// Eval evaluates e against c. Convenience wrapper so callers don't need to
// import internal/expr to call e.Eval(c) themselves.
func Eval(e expr.Expr, ctx *Context) (any, error) {
	return e.Eval(ctx)
}
