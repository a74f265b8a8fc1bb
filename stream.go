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

import "github.com/construct-go/construct/internal/stream"

// Stream is a bidirectional, seekable byte stream with a bit-level
// sub-mode, as described in the package overview. See
// [*Stream.EnterBits]/[*Stream.ExitBits] for the bit-mode protocol.
type Stream = stream.Stream

// NewReader wraps data for parsing.
func NewReader(data []byte) *Stream { return stream.NewReader(data) }

// NewWriter creates an empty Stream for building.
func NewWriter() *Stream { return stream.NewWriter() }
