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

	"github.com/construct-go/construct/internal/xsync"
)

// Registry is a process-wide, concurrency-safe catalogue of named
// descriptions, so that a long-running process (or cmd/constructdump) can
// register a format once under a name and look it up from anywhere --
// goroutines dumping distinct files concurrently share the same
// descriptions, which is safe since a Construct tree is immutable once
// built.
type Registry struct {
	descriptions xsync.Map[string, Construct]
	tables       xsync.Map[string, *SymbolTable]
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry is the package-level Registry cmd/constructdump uses
// when no explicit one is supplied.
var DefaultRegistry = NewRegistry()

// Register adds a description under name, for later lookup by [Registry.Lookup].
func (r *Registry) Register(name string, c Construct) {
	r.descriptions.Store(name, c)
}

// Lookup returns the description registered under name, if any.
func (r *Registry) Lookup(name string) (Construct, bool) {
	return r.descriptions.Load(name)
}

// MustLookup is like Lookup, but panics if name is not registered --
// intended for process startup, where a missing registration is a
// programming error, not a runtime condition to recover from.
func (r *Registry) MustLookup(name string) Construct {
	c, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("construct: no description registered under %q", name))
	}
	return c
}

// RegisterSymbolTable caches table under name, so that multiple Enum/
// FlagsEnum fields across a large description can share one loaded YAML
// table instead of each loading and parsing their own copy.
func (r *Registry) RegisterSymbolTable(name string, table *SymbolTable) {
	r.tables.Store(name, table)
}

// LoadOrRegisterSymbolTableYAML loads the YAML table at path the first
// time name is requested, and returns the cached table on every
// subsequent call.
func (r *Registry) LoadOrRegisterSymbolTableYAML(name, path string) (*SymbolTable, error) {
	if t, ok := r.tables.Load(name); ok {
		return t, nil
	}
	t, err := LoadSymbolTableYAML(path)
	if err != nil {
		return nil, err
	}
	actual, _ := r.tables.LoadOrStore(name, func() *SymbolTable { return t })
	return actual, nil
}
