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

// Package xmlelem is a minimal in-memory element tree, the one concrete
// implementation of the engine's Element contract this module ships.
//
// There is no dedicated XML-tree library anywhere in this module's
// reference corpus, and the XML textual syntax itself is explicitly out of
// scope (it is an external collaborator, per the package's XML bridge
// design) -- so this type exists only to make the bridge exercisable, and
// leans on the standard library's encoding/xml for the one place it touches
// text: marshaling/unmarshaling to and from a byte stream.
package xmlelem

import (
	"encoding/xml"
	"fmt"
)

// Element is a simple in-memory XML element: a tag, an ordered attribute
// list, and ordered children.
type Element struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Kids    []*Element `xml:",any"`
}

// New creates a detached element named tag.
func New(tag string) *Element {
	return &Element{XMLName: xml.Name{Local: tag}}
}

// Tag implements construct.Element.
func (e *Element) Tag() string { return e.XMLName.Local }

// SetAttr implements construct.Element.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name.Local == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// Attr implements construct.Element.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// AddChild implements construct.Element.
func (e *Element) AddChild(tag string) *Element {
	child := New(tag)
	e.Kids = append(e.Kids, child)
	return child
}

// Children implements construct.Element.
func (e *Element) Children() []*Element { return e.Kids }

// Child implements construct.Element.
func (e *Element) Child(tag string) (*Element, bool) {
	for _, k := range e.Kids {
		if k.XMLName.Local == tag {
			return k, true
		}
	}
	return nil, false
}

// Marshal renders the tree as indented XML text.
func Marshal(e *Element) ([]byte, error) {
	out, err := xml.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("xmlelem: marshaling %s: %w", e.Tag(), err)
	}
	return out, nil
}

// Unmarshal parses XML text into a tree rooted at the document's top-level
// element.
func Unmarshal(data []byte) (*Element, error) {
	var e Element
	if err := xml.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("xmlelem: unmarshaling: %w", err)
	}
	return &e, nil
}
