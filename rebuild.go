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
	"github.com/construct-go/construct/internal/pp"
)

// buildPreview is implemented by combinators whose Build ignores the value
// it is handed, computing its own instead (ConstField, Computed, Rebuild).
// FocusedSeq uses it to make a non-focused field's value visible to its
// siblings' expressions before Build actually runs.
type buildPreview interface {
	BuildValue(ctx *Context) (any, error)
}

// Rebuild wraps subcon so that Build and Preprocess always derive the
// value from expr evaluated against the context, ignoring whatever value
// is supplied; Parse delegates to subcon unchanged. This is how a
// forward-referenced field (a length, a checksum, an offset another field
// needs before it exists) gets filled in: the caller supplies a
// placeholder (commonly nil or 0) and Preprocess/Build compute the real
// value.
//
// During Preprocess, Rebuild cannot evaluate expr immediately: its
// container's later siblings may not have been preprocessed yet. It
// returns a deferred value instead, resolved once the containing
// composite (Struct, FocusedSeq) has preprocessed every field.
type Rebuild struct {
	subcon Construct
	expr   Expr
}

// NewRebuild builds a Rebuild of subcon, computing its value from expr.
func NewRebuild(subcon Construct, expr Expr) *Rebuild {
	return &Rebuild{subcon: subcon, expr: expr}
}

func (r *Rebuild) Parse(s *Stream, ctx *Context) (any, error) {
	return r.subcon.Parse(s, ctx)
}

func (r *Rebuild) Build(_ any, s *Stream, ctx *Context) error {
	v, err := r.expr.Eval(ctx)
	if err != nil {
		return newErr(ContextError, "", err)
	}
	return r.subcon.Build(v, s, ctx)
}

// BuildValue implements buildPreview.
func (r *Rebuild) BuildValue(ctx *Context) (any, error) {
	v, err := r.expr.Eval(ctx)
	if err != nil {
		return nil, newErr(ContextError, "", err)
	}
	return v, nil
}

func (r *Rebuild) Preprocess(_ any, ctx *Context, offset int) (any, int, error) {
	size, err := r.subcon.StaticSizeof(ctx)
	if err != nil {
		size, err = r.subcon.PreprocessSize(nil, ctx, offset)
		if err != nil {
			return nil, 0, err
		}
	}
	deferred := pp.Deferred{Resolve: func() (any, error) {
		v, err := r.expr.Eval(ctx)
		if err != nil {
			return nil, newErr(ContextError, "", err)
		}
		return v, nil
	}}
	return deferred, size, nil
}

func (r *Rebuild) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	if n, err := r.subcon.StaticSizeof(ctx); err == nil {
		return n, nil
	}
	return r.subcon.PreprocessSize(obj, ctx, offset)
}

func (r *Rebuild) StaticSizeof(ctx *Context) (int, error) { return r.subcon.StaticSizeof(ctx) }

func (r *Rebuild) ToElement(obj any, parent Element, name string) error {
	// XML interchange has no notion of a sibling-dependent context at
	// render time beyond what's already in ctx's owning container, so
	// Rebuild renders whatever value subcon is handed, same as any other
	// field; it is the caller's responsibility to pass the resolved value
	// (e.g. from a preprocessed Container).
	return r.subcon.ToElement(obj, parent, name)
}

func (r *Rebuild) FromElement(el Element, ctx *Context, name string) (any, error) {
	return r.subcon.FromElement(el, ctx, name)
}

// Default parses/builds with subcon, substituting value whenever the
// supplied obj is nil, rather than deferring to a later-resolved
// expression like Rebuild does.
type Default struct {
	subcon Construct
	value  any
}

// NewDefault builds a Default of subcon, falling back to value.
func NewDefault(subcon Construct, value any) *Default {
	return &Default{subcon: subcon, value: value}
}

func (d *Default) orDefault(obj any) any {
	if obj == nil {
		return d.value
	}
	return obj
}

func (d *Default) Parse(s *Stream, ctx *Context) (any, error) { return d.subcon.Parse(s, ctx) }

func (d *Default) Build(obj any, s *Stream, ctx *Context) error {
	return d.subcon.Build(d.orDefault(obj), s, ctx)
}

func (d *Default) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	return d.subcon.Preprocess(d.orDefault(obj), ctx, offset)
}

func (d *Default) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return d.subcon.PreprocessSize(d.orDefault(obj), ctx, offset)
}

func (d *Default) StaticSizeof(ctx *Context) (int, error) { return d.subcon.StaticSizeof(ctx) }

func (d *Default) ToElement(obj any, parent Element, name string) error {
	return d.subcon.ToElement(d.orDefault(obj), parent, name)
}

func (d *Default) FromElement(el Element, ctx *Context, name string) (any, error) {
	return d.subcon.FromElement(el, ctx, name)
}

// Renamed wraps subcon purely to attach a different field name than the
// enclosing composite would otherwise use -- useful when adapting an
// existing subcon value (e.g. one shared across multiple fields) under a
// description-specific name. It is otherwise fully transparent.
type Renamed struct {
	subcon Construct
	name   string
}

// NewRenamed builds a Renamed wrapper exposing subcon under name.
func NewRenamed(name string, subcon Construct) *Renamed {
	return &Renamed{subcon: subcon, name: name}
}

func (r *Renamed) Parse(s *Stream, ctx *Context) (any, error) { return r.subcon.Parse(s, ctx) }

func (r *Renamed) Build(obj any, s *Stream, ctx *Context) error {
	return r.subcon.Build(obj, s, ctx)
}

func (r *Renamed) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	return r.subcon.Preprocess(obj, ctx, offset)
}

func (r *Renamed) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return r.subcon.PreprocessSize(obj, ctx, offset)
}

func (r *Renamed) StaticSizeof(ctx *Context) (int, error) { return r.subcon.StaticSizeof(ctx) }

func (r *Renamed) ToElement(obj any, parent Element, name string) error {
	return r.subcon.ToElement(obj, parent, r.name)
}

func (r *Renamed) FromElement(el Element, ctx *Context, name string) (any, error) {
	return r.subcon.FromElement(el, ctx, r.name)
}
