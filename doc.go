// Copyright 2020-2025 Buf Technologies, Inc.
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

// Package construct is a declarative, symmetrical codec library for binary
// data aimed at reverse-engineering file formats.
//
// A format is described once, by composing [Construct] values (the
// "combinators": [Struct], [Array], [Pointer], and so on). The same
// description then drives three directions:
//
//   - Parse: [Construct.Parse] turns a byte stream into a [*Container].
//   - Build: [Construct.Build] turns a [*Container] back into bytes.
//   - XML interchange: [Construct.ToElement]/[Construct.FromElement] move
//     between a [*Container] and an [Element] tree.
//
// A fourth, auxiliary direction, [Construct.Preprocess], decorates an in-memory
// [*Container] with offset/size metadata and resolves forward-referencing
// [*Rebuild] expressions, so that Build can be called on a value that was
// constructed by hand rather than by Parse.
//
// # Support status
//
// This package covers the format-description engine itself: the combinator
// model, the [*Context]/[*Container] object model, the sizing protocol, the
// preprocess-build pipeline, and the byte/bit stream adapter. It does not
// implement a specific catalogue of atomic field types beyond the widths
// needed to exercise the engine: callers supply numeric widths, string
// encodings, and compression codecs via the [NumericFormat], [StringEncoder],
// and [Codec] interfaces, and may substitute their own [Element] tree for the
// XML bridge.
//
// The design favors expressiveness over speed: this is not a high-throughput
// parser, nor a parser generator.
package construct
