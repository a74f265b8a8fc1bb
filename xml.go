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

import "github.com/construct-go/construct/internal/xmlelem"

// Element is the external collaborator contract for the XML bridge: a
// minimal element-tree API for creation, attribute get/set, child
// iteration, and tag-name access. [Construct.ToElement]/
// [Construct.FromElement] are written against this interface only, so a
// caller may substitute their own tree (e.g. one backed by a DOM library)
// in place of this package's [NewElement].
type Element interface {
	// Tag returns this element's tag name.
	Tag() string
	// SetAttr sets attribute name to value on this element.
	SetAttr(name, value string)
	// Attr returns attribute name, if present.
	Attr(name string) (string, bool)
	// AddChild creates and appends a new child element named tag, returning
	// it.
	AddChild(tag string) Element
	// Children returns this element's child elements, in document order.
	Children() []Element
	// Child returns the first child element named tag, if present.
	Child(tag string) (Element, bool)
}

// NewElement creates a detached root [Element] named tag, backed by this
// package's built-in, dependency-free element tree
// (internal/xmlelem).
func NewElement(tag string) Element {
	return elemAdapter{xmlelem.New(tag)}
}

// elemAdapter adapts *xmlelem.Element's concrete-typed methods to the
// Element interface, whose AddChild/Children/Child must return the
// interface type rather than *xmlelem.Element.
type elemAdapter struct{ e *xmlelem.Element }

func (a elemAdapter) Tag() string                    { return a.e.Tag() }
func (a elemAdapter) SetAttr(name, value string)     { a.e.SetAttr(name, value) }
func (a elemAdapter) Attr(name string) (string, bool) { return a.e.Attr(name) }

func (a elemAdapter) AddChild(tag string) Element {
	return elemAdapter{a.e.AddChild(tag)}
}

func (a elemAdapter) Children() []Element {
	kids := a.e.Children()
	out := make([]Element, len(kids))
	for i, k := range kids {
		out[i] = elemAdapter{k}
	}
	return out
}

func (a elemAdapter) Child(tag string) (Element, bool) {
	k, ok := a.e.Child(tag)
	if !ok {
		return nil, false
	}
	return elemAdapter{k}, true
}

// MarshalElement renders el as indented XML text, when el was created via
// [NewElement].
func MarshalElement(el Element) ([]byte, error) {
	a, ok := el.(elemAdapter)
	if !ok {
		return nil, newErrf(XMLError, "", "MarshalElement requires an Element created by NewElement")
	}
	return xmlelem.Marshal(a.e)
}

// UnmarshalElement parses XML text into an [Element] tree.
func UnmarshalElement(data []byte) (Element, error) {
	e, err := xmlelem.Unmarshal(data)
	if err != nil {
		return nil, newErr(XMLError, "", err)
	}
	return elemAdapter{e}, nil
}

// ElementOf renders obj as a detached [Element] named name, by calling
// c.ToElement against a throwaway parent and lifting out the one child it
// produces. This is the entry point a caller uses for the root of a
// description; ToElement itself is always called with the real parent by
// a containing composite.
func ElementOf(c Construct, obj any, name string) (Element, error) {
	wrapper := NewElement("_root")
	if err := c.ToElement(obj, wrapper, name); err != nil {
		return nil, err
	}
	child, ok := wrapper.Child(name)
	if !ok {
		return nil, newErrf(XMLError, name, "ToElement produced no child named %q", name)
	}
	return child, nil
}

// FromElementRoot parses root (an element named name) against c, the
// mirror entry point of [ElementOf].
func FromElementRoot(c Construct, root Element, ctx *Context, name string) (any, error) {
	return c.FromElement(singleChildElement{only: root}, ctx, name)
}

// singleChildElement is a throwaway Element wrapping exactly one real
// child, so that code holding an Element reference directly (rather than
// its parent) can still satisfy the FromElement(parent, ctx, name)
// contract, which always locates its subject by name inside a parent.
// Used for XML arrays, whose elements arrive as a pre-selected Element
// rather than as a name to look up.
type singleChildElement struct {
	only Element
}

func (s singleChildElement) Tag() string                     { return "_wrap" }
func (s singleChildElement) SetAttr(name, value string)       {}
func (s singleChildElement) Attr(name string) (string, bool)  { return s.only.Attr(name) }
func (s singleChildElement) AddChild(tag string) Element      { return s.only }
func (s singleChildElement) Children() []Element              { return []Element{s.only} }
func (s singleChildElement) Child(tag string) (Element, bool) {
	if tag == s.only.Tag() {
		return s.only, true
	}
	return nil, false
}
