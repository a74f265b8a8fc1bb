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
	"fmt"
	"strconv"
	"strings"

	deepcopy "github.com/tiendc/go-deepcopy"

	"github.com/construct-go/construct/internal/zc"
)

// Meta carries the per-field offset/size facts a parse or preprocess pass
// attaches to a Container field: "_offset", "_size", and "_endoffset" are
// derived from the packed [zc.Range]; "_ptrsize" is only meaningful for
// Pointer targets.
type Meta struct {
	rng        zc.Range
	ptrSize    int
	hasPtrSize bool
}

// NewMeta builds a Meta for a field occupying [offset, offset+size).
func NewMeta(offset, size int) Meta {
	return Meta{rng: zc.New(offset, size)}
}

// Offset is the field's start offset within its enclosing stream.
func (m Meta) Offset() int { return m.rng.Start() }

// Size is the field's byte size.
func (m Meta) Size() int { return m.rng.Len() }

// EndOffset is Offset()+Size().
func (m Meta) EndOffset() int { return m.rng.End() }

// PtrSize returns the size of the region a Pointer field addresses, and
// whether this field is a Pointer target at all.
func (m Meta) PtrSize() (int, bool) { return m.ptrSize, m.hasPtrSize }

// WithPtrSize returns a copy of m with its pointer-target size set.
func (m Meta) WithPtrSize(size int) Meta {
	m.ptrSize, m.hasPtrSize = size, true
	return m
}

// Container is an ordered mapping from field name to value, the runtime
// object model produced by Parse and consumed by Build. It preserves
// insertion order (so rendering and re-emission are deterministic) and
// carries a per-field [Meta] table plus non-owning parent/root back-links
// used by expressions.
type Container struct {
	order  []string
	values map[string]any
	meta   map[string]Meta
	parent *Container
	root   *Container
}

// NewContainer creates an empty, rootless Container.
func NewContainer() *Container {
	return &Container{values: map[string]any{}, meta: map[string]Meta{}}
}

// Parent returns the enclosing Container, or nil at the root.
func (c *Container) Parent() *Container { return c.parent }

// Root returns the topmost Container. Reflexive at the root.
func (c *Container) Root() *Container {
	if c.root == nil {
		return c
	}
	return c.root
}

// setParent links c under parent, following the invariant that _root is
// reflexive at the top and transitive downward.
func (c *Container) setParent(parent *Container) {
	c.parent = parent
	if parent == nil {
		c.root = nil
		return
	}
	c.root = parent.Root()
}

// Names returns the field names in insertion order.
func (c *Container) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of fields.
func (c *Container) Len() int { return len(c.order) }

// Get returns the value of field name.
func (c *Container) Get(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// MustGet returns the value of field name, or panics. Intended for use from
// within a Construct's own Build/Preprocess, where a missing field is a bug
// in the description, not user input.
func (c *Container) MustGet(name string) any {
	v, ok := c.Get(name)
	if !ok {
		panic(fmt.Sprintf("construct: container has no field %q", name))
	}
	return v
}

// Set assigns name to v, appending name to the insertion order the first
// time it is set.
func (c *Container) Set(name string, v any) {
	if _, exists := c.values[name]; !exists {
		c.order = append(c.order, name)
	}
	c.values[name] = v
	if child, ok := v.(*Container); ok {
		child.setParent(c)
	}
	if child, ok := v.(*ListContainer); ok {
		child.setParent(c)
	}
}

// SetMeta attaches meta for field name. Write-once per parse or preprocess
// pass: a second call during the same pass overwrites wholesale, matching
// the "reparsing overwrites" invariant.
func (c *Container) SetMeta(name string, m Meta) {
	c.meta[name] = m
}

// Meta returns the meta attached to field name, if any.
func (c *Container) Meta(name string) (Meta, bool) {
	m, ok := c.meta[name]
	return m, ok
}

// Field implements [ValueSource]. In addition to ordinary field lookups, it
// understands the flattened meta aliases a Struct attaches for its
// children -- "_<name>_offset", "_<name>_size", "_<name>_endoffset", and
// "_<name>_ptrsize" -- so that sibling Rebuild expressions can reference a
// field's layout facts directly.
func (c *Container) Field(name string) (any, bool) {
	if v, ok := c.values[name]; ok {
		return v, true
	}
	if field, suffix, ok := splitMetaAlias(name); ok {
		m, ok := c.meta[field]
		if !ok {
			return nil, false
		}
		switch suffix {
		case "offset":
			return int64(m.Offset()), true
		case "size":
			return int64(m.Size()), true
		case "endoffset":
			return int64(m.EndOffset()), true
		case "ptrsize":
			if n, ok := m.PtrSize(); ok {
				return int64(n), true
			}
			return nil, false
		}
	}
	if strings.HasPrefix(name, "_switchid_") {
		v, ok := c.values[name]
		return v, ok
	}
	return nil, false
}

// splitMetaAlias recognizes "_<field>_offset" style alias names.
func splitMetaAlias(name string) (field, suffix string, ok bool) {
	if !strings.HasPrefix(name, "_") {
		return "", "", false
	}
	rest := name[1:]
	for _, suf := range [...]string{"_offset", "_size", "_endoffset", "_ptrsize"} {
		if strings.HasSuffix(rest, suf) && len(rest) > len(suf) {
			return rest[:len(rest)-len(suf)], suf[1:], true
		}
	}
	return "", "", false
}

// Clone deep-copies c, including its field values (so nested Containers are
// copied too, not aliased) but not its parent/root links, which the caller
// is expected to re-attach via Set on the cloned parent.
//
// Preprocess uses this to isolate a failed pass from the caller's original
// value.
func (c *Container) Clone() (*Container, error) {
	clone := NewContainer()
	for _, name := range c.order {
		var dst any
		if err := deepcopy.Copy(&dst, c.values[name]); err != nil {
			return nil, fmt.Errorf("construct: cloning field %q: %w", name, err)
		}
		clone.Set(name, dst)
		if m, ok := c.meta[name]; ok {
			clone.SetMeta(name, m)
		}
	}
	return clone, nil
}

// ListContainer is an ordered, homogeneous list with the same parent/root
// and per-index meta semantics as Container, produced by Array-family
// combinators.
type ListContainer struct {
	items  []any
	meta   []Meta
	parent *Container
	root   *Container
}

// NewListContainer creates an empty ListContainer.
func NewListContainer() *ListContainer {
	return &ListContainer{}
}

// Len returns the number of elements.
func (l *ListContainer) Len() int { return len(l.items) }

// Items returns the elements in order. The returned slice is owned by the
// caller.
func (l *ListContainer) Items() []any {
	out := make([]any, len(l.items))
	copy(out, l.items)
	return out
}

// Get returns the element at index i.
func (l *ListContainer) Get(i int) any { return l.items[i] }

// Append adds v as the next element, returning its index.
func (l *ListContainer) Append(v any) int {
	l.items = append(l.items, v)
	l.meta = append(l.meta, Meta{})
	if child, ok := v.(*Container); ok {
		child.setParent(l.parent)
	}
	return len(l.items) - 1
}

// SetMeta attaches meta for element i.
func (l *ListContainer) SetMeta(i int, m Meta) {
	for len(l.meta) <= i {
		l.meta = append(l.meta, Meta{})
	}
	l.meta[i] = m
}

// Meta returns the meta attached to element i, if any.
func (l *ListContainer) Meta(i int) (Meta, bool) {
	if i < 0 || i >= len(l.meta) {
		return Meta{}, false
	}
	return l.meta[i], true
}

func (l *ListContainer) setParent(parent *Container) {
	l.parent = parent
	if parent != nil {
		l.root = parent.Root()
	}
}

// Parent returns the Container enclosing this list, or nil.
func (l *ListContainer) Parent() *Container { return l.parent }

// Root returns the topmost Container.
func (l *ListContainer) Root() *Container {
	if l.root == nil {
		return l.parent
	}
	return l.root
}

// Field implements [ValueSource] by treating name as a decimal index, so
// that path expressions like "this.xs.0" can reach into a list the same way
// they reach into a struct.
func (l *ListContainer) Field(name string) (any, bool) {
	i, err := strconv.Atoi(name)
	if err != nil || i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.items[i], true
}

// Clone deep-copies l's elements, for the same reason and in the same way
// as [Container.Clone].
func (l *ListContainer) Clone() (*ListContainer, error) {
	clone := NewListContainer()
	for i, v := range l.items {
		var dst any
		if err := deepcopy.Copy(&dst, v); err != nil {
			return nil, fmt.Errorf("construct: cloning element %d: %w", i, err)
		}
		clone.Append(dst)
		if m, ok := l.Meta(i); ok {
			clone.SetMeta(i, m)
		}
	}
	return clone, nil
}
