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

// ParseOption is a configuration setting for [ParseBytes]/[ParseFile].
type ParseOption struct{ apply func(*parseOptions) }

type parseOptions struct {
	maxDepth           int
	allowTrailingBytes bool
}

// WithMaxDepth caps how deeply a Parse may recurse through nested
// Structs/Arrays/Pointers before it fails with a RangeError, rather than
// overflowing the goroutine stack on a malformed or adversarial input
// whose nesting has no other bound. A depth of 0 (the default) means
// unlimited.
func WithMaxDepth(depth int) ParseOption {
	return ParseOption{func(o *parseOptions) { o.maxDepth = depth }}
}

// WithAllowTrailingBytes controls whether bytes left unconsumed after
// Parse returns are an error. The default is to error; formats that
// legitimately end before the end of their container (e.g. a fixed-size
// disk sector with unused tail space) should set this.
func WithAllowTrailingBytes(allow bool) ParseOption {
	return ParseOption{func(o *parseOptions) { o.allowTrailingBytes = allow }}
}

// BuildOption is a configuration setting for [BuildBytes]/[BuildFile].
type BuildOption struct{ apply func(*buildOptions) }

type buildOptions struct {
	maxDepth int
}

// WithBuildMaxDepth is the Build-direction counterpart of [WithMaxDepth].
func WithBuildMaxDepth(depth int) BuildOption {
	return BuildOption{func(o *buildOptions) { o.maxDepth = depth }}
}
