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

import "fmt"

// If parses/builds with subcon only when cond evaluates truthy against the
// current context; otherwise it reads and writes nothing: Parse yields nil
// and Preprocess returns obj unchanged with size 0.
type If struct {
	cond   Expr
	subcon Construct
}

// NewIf builds an If guarded by cond.
func NewIf(cond any, subcon Construct) *If {
	return &If{cond: asExpr(cond), subcon: subcon}
}

func (i *If) truthy(ctx *Context) (bool, error) {
	v, err := i.cond.Eval(ctx)
	if err != nil {
		return false, newErr(ContextError, "", err)
	}
	b, ok := v.(bool)
	if !ok {
		return false, newErrf(FormatError, "", "If: condition evaluated to non-bool %T", v)
	}
	return b, nil
}

func (i *If) Parse(s *Stream, ctx *Context) (any, error) {
	ok, err := i.truthy(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return i.subcon.Parse(s, ctx)
}

func (i *If) Build(obj any, s *Stream, ctx *Context) error {
	ok, err := i.truthy(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return i.subcon.Build(obj, s, ctx)
}

func (i *If) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	ok, err := i.truthy(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return obj, 0, nil
	}
	return i.subcon.Preprocess(obj, ctx, offset)
}

func (i *If) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(i, obj, ctx, offset)
}

func (i *If) StaticSizeof(*Context) (int, error) {
	return 0, newErr(UnknownSizeError, "", fmt.Errorf("If depends on a runtime condition"))
}

func (i *If) ToElement(obj any, parent Element, name string) error {
	if obj == nil {
		return nil
	}
	return i.subcon.ToElement(obj, parent, name)
}

func (i *If) FromElement(el Element, ctx *Context, name string) (any, error) {
	if _, ok := el.Child(name); !ok {
		if _, ok := el.Attr(name); !ok {
			return nil, nil
		}
	}
	return i.subcon.FromElement(el, ctx, name)
}

// IfThenElse parses/builds thenCon when cond is true, elseCon otherwise.
//
// Its FromElement has one opt-in quirk, RebuildHack: when set and el has a
// child named name, it does not re-evaluate cond (which an XML document may
// not carry enough context to do); it tries thenCon's FromElement first and
// uses elseCon when that fails. Both branches render under the same element
// name, so the branch is not chosen by tag name, and a child that thenCon
// accepts is always read as thenCon. Without such a child, cond is
// evaluated as usual.
type IfThenElse struct {
	cond       Expr
	thenCon    Construct
	elseCon    Construct
	RebuildHack bool
}

// NewIfThenElse builds an IfThenElse guarded by cond.
func NewIfThenElse(cond any, thenCon, elseCon Construct) *IfThenElse {
	return &IfThenElse{cond: asExpr(cond), thenCon: thenCon, elseCon: elseCon}
}

func (i *IfThenElse) truthy(ctx *Context) (bool, error) {
	v, err := i.cond.Eval(ctx)
	if err != nil {
		return false, newErr(ContextError, "", err)
	}
	b, ok := v.(bool)
	if !ok {
		return false, newErrf(FormatError, "", "IfThenElse: condition evaluated to non-bool %T", v)
	}
	return b, nil
}

func (i *IfThenElse) branch(ctx *Context) (Construct, error) {
	ok, err := i.truthy(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return i.thenCon, nil
	}
	return i.elseCon, nil
}

func (i *IfThenElse) Parse(s *Stream, ctx *Context) (any, error) {
	con, err := i.branch(ctx)
	if err != nil {
		return nil, err
	}
	return con.Parse(s, ctx)
}

func (i *IfThenElse) Build(obj any, s *Stream, ctx *Context) error {
	con, err := i.branch(ctx)
	if err != nil {
		return err
	}
	return con.Build(obj, s, ctx)
}

func (i *IfThenElse) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	con, err := i.branch(ctx)
	if err != nil {
		return nil, 0, err
	}
	return con.Preprocess(obj, ctx, offset)
}

func (i *IfThenElse) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(i, obj, ctx, offset)
}

func (i *IfThenElse) StaticSizeof(ctx *Context) (int, error) {
	thenSize, err := i.thenCon.StaticSizeof(ctx)
	if err != nil {
		return 0, err
	}
	elseSize, err := i.elseCon.StaticSizeof(ctx)
	if err != nil {
		return 0, err
	}
	if thenSize != elseSize {
		return 0, newErr(UnknownSizeError, "", fmt.Errorf("IfThenElse: branches have different static sizes"))
	}
	return thenSize, nil
}

// ToElement cannot re-evaluate cond: a field condition ordinarily reaches
// into sibling data (this.kind, this.wide) that no context exists for at
// render time. Instead it probes thenCon against a detached scratch
// element and uses it if that succeeds, falling back to elseCon otherwise
// -- the same then-first precedence FromElement's RebuildHack uses to
// recover a branch from the rendered element alone.
func (i *IfThenElse) ToElement(obj any, parent Element, name string) error {
	if tryToElement(i.thenCon, obj, name) {
		return i.thenCon.ToElement(obj, parent, name)
	}
	if tryToElement(i.elseCon, obj, name) {
		return i.elseCon.ToElement(obj, parent, name)
	}
	// Neither branch can render obj; surface the then-branch's failure,
	// since it is evaluated first everywhere else in this type.
	scratch := NewElement("_probe")
	return i.thenCon.ToElement(obj, scratch, name)
}

// tryToElement reports whether con can render obj without error, by
// rendering into a detached scratch element that is discarded afterward.
func tryToElement(con Construct, obj any, name string) bool {
	scratch := NewElement("_probe")
	return con.ToElement(obj, scratch, name) == nil
}

func (i *IfThenElse) FromElement(el Element, ctx *Context, name string) (any, error) {
	if i.RebuildHack {
		if _, ok := el.Child(name); ok {
			if v, err := i.thenCon.FromElement(el, ctx, name); err == nil {
				return v, nil
			}
			return i.elseCon.FromElement(el, ctx, name)
		}
	}
	con, err := i.branch(ctx)
	if err != nil {
		return nil, err
	}
	return con.FromElement(el, ctx, name)
}

// Switch dispatches to one of several subcons by the value of key
// evaluated against the current context, falling back to def if no case
// matches and def is non-nil.
//
// Its from_element direction generally cannot re-evaluate key, since an
// XML document does not carry the context key depends on (a sibling field
// elsewhere in the tree) -- so ToElement tags the rendered child element
// with a "_switchid_<name>" attribute holding the case key it took, and
// FromElement dispatches on that attribute first. When the attribute is
// absent or matches no case, FromElement evaluates key against ctx,
// falling back to def. The chosen case is not recorded in the context.
type Switch struct {
	key   Expr
	cases map[any]Construct
	def   Construct
}

// NewSwitch builds a Switch over key, dispatching via cases, with an
// optional default (nil if none).
func NewSwitch(key any, cases map[any]Construct, def Construct) *Switch {
	return &Switch{key: asExpr(key), cases: cases, def: def}
}

func (sw *Switch) pick(ctx *Context) (Construct, error) {
	v, err := sw.key.Eval(ctx)
	if err != nil {
		return nil, newErr(ContextError, "", err)
	}
	if con, ok := sw.cases[v]; ok {
		return con, nil
	}
	if sw.def != nil {
		return sw.def, nil
	}
	return nil, newErrf(SwitchError, "", "Switch: no case matches %v and no default", v)
}

func (sw *Switch) Parse(s *Stream, ctx *Context) (any, error) {
	con, err := sw.pick(ctx)
	if err != nil {
		return nil, err
	}
	return con.Parse(s, ctx)
}

func (sw *Switch) Build(obj any, s *Stream, ctx *Context) error {
	con, err := sw.pick(ctx)
	if err != nil {
		return err
	}
	return con.Build(obj, s, ctx)
}

func (sw *Switch) Preprocess(obj any, ctx *Context, offset int) (any, int, error) {
	con, err := sw.pick(ctx)
	if err != nil {
		return nil, 0, err
	}
	return con.Preprocess(obj, ctx, offset)
}

func (sw *Switch) PreprocessSize(obj any, ctx *Context, offset int) (int, error) {
	return DefaultPreprocessSize(sw, obj, ctx, offset)
}

func (sw *Switch) StaticSizeof(*Context) (int, error) {
	return 0, newErr(UnknownSizeError, "", fmt.Errorf("Switch depends on a runtime key"))
}

// ToElement cannot re-evaluate key: it ordinarily reaches into a sibling
// field (this.kind) that no context exists for at render time. Instead it
// probes every case against a detached scratch element and renders with
// whichever one accepts obj, tagging the rendered child with
// "_switchid_<name>" so FromElement can recover the same case without
// re-evaluating key either. Ties between cases that both accept obj are
// broken arbitrarily; falls back to def (untagged, since FromElement
// re-evaluates key when no tag is present) if no case accepts obj.
func (sw *Switch) ToElement(obj any, parent Element, name string) error {
	con, key, err := sw.pickForObj(obj, name)
	if err != nil {
		return err
	}
	if err := con.ToElement(obj, parent, name); err != nil {
		return err
	}
	if key != nil {
		if child, ok := parent.Child(name); ok {
			child.SetAttr("_switchid_"+name, fmt.Sprint(key))
		}
	}
	return nil
}

// pickForObj chooses which case can render obj, probing each by rendering
// into a throwaway scratch element.
func (sw *Switch) pickForObj(obj any, name string) (Construct, any, error) {
	for k, con := range sw.cases {
		if tryToElement(con, obj, name) {
			return con, k, nil
		}
	}
	if sw.def != nil {
		return sw.def, nil, nil
	}
	return nil, nil, newErrf(SwitchError, name, "Switch: no case can render %T and no default", obj)
}

func (sw *Switch) FromElement(el Element, ctx *Context, name string) (any, error) {
	if child, ok := el.Child(name); ok {
		if tag, ok := child.Attr("_switchid_" + name); ok {
			for k, con := range sw.cases {
				if fmt.Sprint(k) == tag {
					return con.FromElement(el, ctx, name)
				}
			}
		}
	}
	con, err := sw.pick(ctx)
	if err != nil {
		return nil, err
	}
	return con.FromElement(el, ctx, name)
}
